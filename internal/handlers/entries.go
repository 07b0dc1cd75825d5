package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lumen-app/lumen-backend/internal/models"
	"github.com/lumen-app/lumen-backend/internal/services"
	"github.com/lumen-app/lumen-backend/pkg/utils"
)

type EntryRequest struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Mood     int    `json:"mood"`
	PhotoURL string `json:"photo_url"`
}

// EntryView is an Entry plus the display date the list shows for it.
type EntryView struct {
	models.Entry
	DisplayDate string `json:"display_date"`
}

func entryView(entry models.Entry, now time.Time) EntryView {
	return EntryView{
		Entry:       entry,
		DisplayDate: utils.FormatEntryDate(entry.CreatedAt, now),
	}
}

func entryViews(entries []models.Entry, now time.Time) []EntryView {
	views := make([]EntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, entryView(entry, now))
	}
	return views
}

type EntryResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Entry   *EntryView `json:"entry,omitempty"`
}

type ListEntriesResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Entries []EntryView `json:"entries"`
	Total   int         `json:"total"`
	Filter  string      `json:"filter"`
}

// draftFromRequest converts the wire request into a store draft.
func draftFromRequest(req EntryRequest) (models.EntryDraft, error) {
	entryType, err := models.ParseEntryType(req.Type)
	if err != nil {
		return models.EntryDraft{}, err
	}
	return models.EntryDraft{
		Type:     entryType,
		Title:    req.Title,
		Content:  req.Content,
		Mood:     req.Mood,
		PhotoURL: req.PhotoURL,
	}, nil
}

// writeEntryError maps store and validation errors to status codes.
func writeEntryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrEmptyContent),
		errors.Is(err, models.ErrInvalidEntryType),
		errors.Is(err, models.ErrInvalidMood):
		writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Message: err.Error()})
	case errors.Is(err, services.ErrEntryNotFound):
		writeJSON(w, http.StatusNotFound, EntryResponse{Success: false, Message: "Entry not found"})
	default:
		writeJSON(w, http.StatusInternalServerError, EntryResponse{Success: false, Message: "Failed to save entry"})
	}
}

// CreateEntry stores a new entry for the authenticated user.
func CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireSession(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, EntryResponse{Success: false, Message: "Authentication required"})
		return
	}

	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Message: "Invalid request body"})
		return
	}

	draft, err := draftFromRequest(req)
	if err != nil {
		writeEntryError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry, err := services.CreateEntry(ctx, userID, draft)
	if err != nil {
		writeEntryError(w, err)
		return
	}

	view := entryView(*entry, time.Now().UTC())
	writeJSON(w, http.StatusCreated, EntryResponse{
		Success: true,
		Message: "Entry created successfully",
		Entry:   &view,
	})
}

// GetEntries returns the authenticated user's entries, newest first,
// optionally narrowed by ?filter= and paginated with ?limit= and ?skip=.
func GetEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireSession(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ListEntriesResponse{
			Success: false, Message: "Authentication required", Entries: []EntryView{},
		})
		return
	}

	filter, err := services.ParseViewFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ListEntriesResponse{
			Success: false, Message: err.Error(), Entries: []EntryView{},
		})
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	skip := 0
	if s := r.URL.Query().Get("skip"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed >= 0 {
			skip = parsed
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := services.FetchEntries(ctx, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ListEntriesResponse{
			Success: false, Message: "Failed to load entries", Entries: []EntryView{},
		})
		return
	}

	visible := services.FilterEntries(entries, filter)
	total := len(visible)

	if skip > len(visible) {
		skip = len(visible)
	}
	visible = visible[skip:]
	if limit > 0 && limit < len(visible) {
		visible = visible[:limit]
	}

	resp := ListEntriesResponse{
		Success: true,
		Entries: entryViews(visible, time.Now().UTC()),
		Total:   total,
		Filter:  string(filter),
	}
	if total == 0 {
		resp.Message = services.EmptyStateMessage(filter)
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateEntry mutates an existing entry owned by the authenticated user.
func UpdateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireSession(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, EntryResponse{Success: false, Message: "Authentication required"})
		return
	}

	id := chi.URLParam(r, "id")

	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Message: "Invalid request body"})
		return
	}

	draft, err := draftFromRequest(req)
	if err != nil {
		writeEntryError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry, err := services.UpdateEntry(ctx, userID, id, draft)
	if err != nil {
		writeEntryError(w, err)
		return
	}

	view := entryView(*entry, time.Now().UTC())
	writeJSON(w, http.StatusOK, EntryResponse{
		Success: true,
		Message: "Entry updated successfully",
		Entry:   &view,
	})
}

// DeleteEntry permanently removes an entry owned by the authenticated user.
func DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireSession(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, EntryResponse{Success: false, Message: "Authentication required"})
		return
	}

	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := services.RemoveEntry(ctx, userID, id); err != nil {
		writeEntryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, EntryResponse{Success: true, Message: "Entry deleted"})
}
