package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/lib/pq"

	"github.com/google/uuid"

	"github.com/lumen-app/lumen-backend/internal/database"
	"github.com/lumen-app/lumen-backend/internal/services"
	"github.com/lumen-app/lumen-backend/pkg/utils"
)

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse carries account data and the session token on success.
type AuthResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	User    map[string]interface{} `json:"user,omitempty"`
	Token   string                 `json:"token,omitempty"`
}

// isUniqueViolation reports whether err is Postgres's duplicate-key error.
// Signup's existence check races with concurrent signups of the same name,
// so the unique index on username is the real arbiter.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Signup handles account registration.
func Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateUsername(req.Username); err != nil {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: err.Error()})
		return
	}
	if len(req.Password) < 8 {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: "Password must be at least 8 characters"})
		return
	}

	normalizedUsername := utils.NormalizeUsername(req.Username)

	var existingUsername string
	err := database.PostgresDB.QueryRow(
		"SELECT username FROM users WHERE LOWER(username) = $1",
		normalizedUsername,
	).Scan(&existingUsername)
	if err == nil {
		writeJSON(w, http.StatusConflict, AuthResponse{Success: false, Message: "Username is already taken"})
		return
	} else if err != sql.ErrNoRows {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		http.Error(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	userID := uuid.New()
	_, err = database.PostgresDB.Exec(`
		INSERT INTO users (id, username, password_hash, created_at, is_active)
		VALUES ($1, $2, $3, NOW(), TRUE)
	`, userID, normalizedUsername, hashedPassword)
	if err != nil {
		if isUniqueViolation(err) {
			writeJSON(w, http.StatusConflict, AuthResponse{Success: false, Message: "Username is already taken"})
			return
		}
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	token, err := services.CreateSession(userID)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Account created successfully",
		User: map[string]interface{}{
			"id":         userID.String(),
			"username":   normalizedUsername,
			"created_at": time.Now(),
		},
		Token: token,
	})
}

// Signin handles login and opens a new session.
func Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	normalizedUsername := utils.NormalizeUsername(req.Username)

	var userID uuid.UUID
	var passwordHash string
	var isActive bool
	var createdAt time.Time

	err := database.PostgresDB.QueryRow(`
		SELECT id, password_hash, created_at, is_active
		FROM users
		WHERE LOWER(username) = $1
	`, normalizedUsername).Scan(&userID, &passwordHash, &createdAt, &isActive)
	if err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		} else {
			http.Error(w, "Database error", http.StatusInternalServerError)
		}
		return
	}

	if !isActive {
		http.Error(w, "Account is inactive", http.StatusForbidden)
		return
	}

	valid, err := utils.VerifyPassword(req.Password, passwordHash)
	if err != nil || !valid {
		http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	token, err := services.CreateSession(userID)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		User: map[string]interface{}{
			"id":         userID.String(),
			"username":   normalizedUsername,
			"created_at": createdAt,
		},
		Token: token,
	})
}

// Signout invalidates the current session.
func Signout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, AuthResponse{Success: false, Message: "Authentication required"})
		return
	}

	if err := services.InvalidateSession(token); err != nil {
		http.Error(w, "Failed to sign out", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Signed out"})
}

// GetMe returns the current account for a valid session. Sessions expire on
// a sliding window: a client that checks in here gets another 7 days.
func GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireSession(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, AuthResponse{Success: false, Message: "Authentication required"})
		return
	}

	if err := services.RefreshSession(extractBearerToken(r.Header.Get("Authorization"))); err != nil {
		log.Printf("auth: session refresh failed: %v", err)
	}

	var username string
	var createdAt time.Time
	err := database.PostgresDB.QueryRow(`
		SELECT username, created_at FROM users WHERE id = $1
	`, userID).Scan(&username, &createdAt)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		User: map[string]interface{}{
			"id":         userID,
			"username":   username,
			"created_at": createdAt,
		},
	})
}
