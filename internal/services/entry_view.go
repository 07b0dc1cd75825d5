package services

import (
	"errors"
	"strings"

	"github.com/lumen-app/lumen-backend/internal/models"
)

// ViewFilter selects which entry types the list view shows.
type ViewFilter string

const (
	FilterAll       ViewFilter = "all"
	FilterGratitude ViewFilter = "gratitude"
	FilterJournal   ViewFilter = "journal"
)

var ErrInvalidFilter = errors.New("filter must be all, gratitude, or journal")

// ParseViewFilter validates a wire value for the filter selector.
// An empty value means all.
func ParseViewFilter(s string) (ViewFilter, error) {
	switch ViewFilter(strings.TrimSpace(s)) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterGratitude:
		return FilterGratitude, nil
	case FilterJournal:
		return FilterJournal, nil
	default:
		return "", ErrInvalidFilter
	}
}

// FilterEntries derives the visible subset for a filter, preserving the
// relative order of the input. It is a pure function recomputed on every
// change to either input; FilterAll returns the list unchanged.
func FilterEntries(entries []models.Entry, filter ViewFilter) []models.Entry {
	if filter == FilterAll {
		return entries
	}

	out := make([]models.Entry, 0, len(entries))
	for _, entry := range entries {
		if string(entry.Type) == string(filter) {
			out = append(out, entry)
		}
	}
	return out
}

// EmptyStateMessage is the wording shown when the filtered list is empty:
// a first-entry prompt for the all filter, category-scoped otherwise.
func EmptyStateMessage(filter ViewFilter) string {
	if filter == FilterAll {
		return "Start by adding your first entry"
	}
	return "No " + string(filter) + " entries found"
}
