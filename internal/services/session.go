package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lumen-app/lumen-backend/internal/database"
)

const (
	// SessionDuration is 7 days
	SessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for sessions
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix is the Redis key prefix for user->session mapping
	UserSessionKeyPrefix = "user_session:"
)

// CreateSession creates a session for a user and stores it in Redis.
// Any existing session for the user is invalidated first so the 7-day
// timer resets from the current login. Returns the session token.
func CreateSession(userID uuid.UUID) (string, error) {
	InvalidateUserSessions(userID)

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	sessionToken := base64.URLEncoding.EncodeToString(tokenBytes)

	ctx := context.Background()
	sessionKey := SessionKeyPrefix + sessionToken
	userSessionKey := UserSessionKeyPrefix + userID.String()

	if err := database.RedisClient.Set(ctx, sessionKey, userID.String(), SessionDuration).Err(); err != nil {
		return "", err
	}
	if err := database.RedisClient.Set(ctx, userSessionKey, sessionToken, SessionDuration).Err(); err != nil {
		return "", err
	}

	return sessionToken, nil
}

// ValidateSession checks a session token and returns the owning user ID.
// An empty or unknown token yields (uuid.Nil, false, nil) without touching Redis
// for the empty case.
func ValidateSession(sessionToken string) (uuid.UUID, bool, error) {
	if sessionToken == "" {
		return uuid.Nil, false, nil
	}

	ctx := context.Background()
	userIDStr, err := database.RedisClient.Get(ctx, SessionKeyPrefix+sessionToken).Result()
	if err != nil {
		return uuid.Nil, false, nil
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false, err
	}

	return userID, true, nil
}

// RefreshSession extends the session expiration by 7 days from now.
func RefreshSession(sessionToken string) error {
	if sessionToken == "" {
		return fmt.Errorf("session token is empty")
	}

	ctx := context.Background()
	sessionKey := SessionKeyPrefix + sessionToken

	userIDStr, err := database.RedisClient.Get(ctx, sessionKey).Result()
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return err
	}

	if err := database.RedisClient.Expire(ctx, sessionKey, SessionDuration).Err(); err != nil {
		return err
	}
	return database.RedisClient.Expire(ctx, UserSessionKeyPrefix+userID.String(), SessionDuration).Err()
}

// InvalidateSession removes a session from Redis (sign-out).
func InvalidateSession(sessionToken string) error {
	if sessionToken == "" {
		return nil
	}

	ctx := context.Background()
	sessionKey := SessionKeyPrefix + sessionToken

	userIDStr, err := database.RedisClient.Get(ctx, sessionKey).Result()
	if err == nil && userIDStr != "" {
		database.RedisClient.Del(ctx, UserSessionKeyPrefix+userIDStr)
	}

	return database.RedisClient.Del(ctx, sessionKey).Err()
}

// InvalidateUserSessions invalidates the user's current session (e.g. on
// password change or re-login).
func InvalidateUserSessions(userID uuid.UUID) error {
	ctx := context.Background()
	userSessionKey := UserSessionKeyPrefix + userID.String()

	sessionToken, err := database.RedisClient.Get(ctx, userSessionKey).Result()
	if err == nil && sessionToken != "" {
		database.RedisClient.Del(ctx, SessionKeyPrefix+sessionToken)
	}

	return database.RedisClient.Del(ctx, userSessionKey).Err()
}
