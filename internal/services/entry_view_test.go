package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lumen-app/lumen-backend/internal/models"
)

func sampleEntries() []models.Entry {
	return []models.Entry{
		{ID: primitive.NewObjectID(), Type: models.EntryTypeGratitude, Content: "sunny morning"},
		{ID: primitive.NewObjectID(), Type: models.EntryTypeJournal, Content: "long day"},
		{ID: primitive.NewObjectID(), Type: models.EntryTypeGratitude, Content: "good coffee"},
		{ID: primitive.NewObjectID(), Type: models.EntryTypeJournal, Content: "rainy walk"},
	}
}

func TestParseViewFilter(t *testing.T) {
	for input, want := range map[string]ViewFilter{
		"":          FilterAll,
		"all":       FilterAll,
		"gratitude": FilterGratitude,
		"journal":   FilterJournal,
		" journal ": FilterJournal,
	} {
		got, err := ParseViewFilter(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}

	_, err := ParseViewFilter("bogus")
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestFilterEntriesAllPassesThrough(t *testing.T) {
	entries := sampleEntries()
	got := FilterEntries(entries, FilterAll)
	assert.Equal(t, entries, got)
}

func TestFilterEntriesByType(t *testing.T) {
	entries := sampleEntries()

	gratitude := FilterEntries(entries, FilterGratitude)
	require.Len(t, gratitude, 2)
	assert.Equal(t, "sunny morning", gratitude[0].Content)
	assert.Equal(t, "good coffee", gratitude[1].Content)

	journal := FilterEntries(entries, FilterJournal)
	require.Len(t, journal, 2)
	assert.Equal(t, "long day", journal[0].Content)
	assert.Equal(t, "rainy walk", journal[1].Content)
}

func TestFilterEntriesPreservesOrderAndInput(t *testing.T) {
	entries := sampleEntries()
	before := make([]models.Entry, len(entries))
	copy(before, entries)

	once := FilterEntries(entries, FilterJournal)
	twice := FilterEntries(once, FilterJournal)

	assert.Equal(t, once, twice)
	assert.Equal(t, before, entries)
}

func TestFilterEntriesEmptyInput(t *testing.T) {
	assert.Empty(t, FilterEntries(nil, FilterGratitude))
	assert.Empty(t, FilterEntries([]models.Entry{}, FilterJournal))
}

func TestEmptyStateMessage(t *testing.T) {
	assert.Equal(t, "Start by adding your first entry", EmptyStateMessage(FilterAll))
	assert.Equal(t, "No gratitude entries found", EmptyStateMessage(FilterGratitude))
	assert.Equal(t, "No journal entries found", EmptyStateMessage(FilterJournal))
}
