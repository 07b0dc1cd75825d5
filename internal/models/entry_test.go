package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntryType(t *testing.T) {
	got, err := ParseEntryType("gratitude")
	require.NoError(t, err)
	assert.Equal(t, EntryTypeGratitude, got)

	got, err = ParseEntryType("journal")
	require.NoError(t, err)
	assert.Equal(t, EntryTypeJournal, got)

	_, err = ParseEntryType("diary")
	assert.ErrorIs(t, err, ErrInvalidEntryType)

	_, err = ParseEntryType("")
	assert.ErrorIs(t, err, ErrInvalidEntryType)
}

func TestDraftValidate(t *testing.T) {
	valid := EntryDraft{Type: EntryTypeGratitude, Content: "thankful for rain", Mood: 4}
	assert.NoError(t, valid.Validate())

	noMood := EntryDraft{Type: EntryTypeJournal, Content: "wrote nothing else"}
	assert.NoError(t, noMood.Validate())

	cases := []struct {
		name  string
		draft EntryDraft
		want  error
	}{
		{"empty content", EntryDraft{Type: EntryTypeGratitude, Mood: 3}, ErrEmptyContent},
		{"whitespace content", EntryDraft{Type: EntryTypeGratitude, Content: " \t\n", Mood: 3}, ErrEmptyContent},
		{"bad type", EntryDraft{Type: "diary", Content: "x", Mood: 3}, ErrInvalidEntryType},
		{"mood too low", EntryDraft{Type: EntryTypeJournal, Content: "x", Mood: -1}, ErrInvalidMood},
		{"mood too high", EntryDraft{Type: EntryTypeJournal, Content: "x", Mood: 6}, ErrInvalidMood},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.draft.Validate(), tc.want)
		})
	}
}

func TestDraftTrimmedContent(t *testing.T) {
	d := EntryDraft{Content: "  kept the middle  spaces  "}
	assert.Equal(t, "kept the middle  spaces", d.TrimmedContent())
}

func TestDraftTitleOrNil(t *testing.T) {
	assert.Nil(t, EntryDraft{}.TitleOrNil())
	assert.Nil(t, EntryDraft{Title: "   "}.TitleOrNil())

	got := EntryDraft{Title: "  Morning walk "}.TitleOrNil()
	require.NotNil(t, got)
	assert.Equal(t, "Morning walk", *got)
}

func TestDraftMoodOrNil(t *testing.T) {
	assert.Nil(t, EntryDraft{}.MoodOrNil())

	got := EntryDraft{Mood: 5}.MoodOrNil()
	require.NotNil(t, got)
	assert.Equal(t, 5, *got)
}
