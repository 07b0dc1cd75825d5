package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"standard", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"padded", "  Bearer   abc123  ", "abc123"},
		{"empty", "", ""},
		{"no token", "Bearer", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz", ""},
		{"token only", "abc123", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractBearerToken(tc.header))
		})
	}
}

func TestEntryEndpointsRequireAuth(t *testing.T) {
	cases := []struct {
		name    string
		method  string
		path    string
		handler http.HandlerFunc
	}{
		{"create", http.MethodPost, "/api/entries", CreateEntry},
		{"list", http.MethodGet, "/api/entries", GetEntries},
		{"update", http.MethodPut, "/api/entries/abc", UpdateEntry},
		{"delete", http.MethodDelete, "/api/entries/abc", DeleteEntry},
		{"feed", http.MethodGet, "/ws/entries", EntryFeed},
		{"me", http.MethodGet, "/api/auth/me", GetMe},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tc.method, tc.path, nil)
			tc.handler(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
