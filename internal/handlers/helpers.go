package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lumen-app/lumen-backend/internal/services"
)

// extractBearerToken pulls the token out of an "Authorization: Bearer x" header.
func extractBearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// requireSession validates the session and returns the authenticated user's
// ID. Returns ("", false) if not authenticated.
func requireSession(r *http.Request) (string, bool) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return "", false
	}
	userID, ok, err := services.ValidateSession(token)
	if err != nil || !ok {
		return "", false
	}
	return userID.String(), true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
