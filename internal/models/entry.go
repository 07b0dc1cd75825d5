package models

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntryType distinguishes the two kinds of entries a user can write.
type EntryType string

const (
	EntryTypeGratitude EntryType = "gratitude"
	EntryTypeJournal   EntryType = "journal"
)

const (
	MinMood = 1
	MaxMood = 5
)

var (
	ErrEmptyContent     = errors.New("content must not be empty")
	ErrInvalidEntryType = errors.New("entry type must be gratitude or journal")
	ErrInvalidMood      = errors.New("mood must be between 1 and 5")
)

// Entry is a single gratitude or journal record owned by one user.
// Title is a pointer so an absent title is stored as null, distinct from "".
// Mood is nil when the entry is unrated.
type Entry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type      EntryType          `bson:"type" json:"type"`
	Title     *string            `bson:"title" json:"title,omitempty"`
	Content   string             `bson:"content" json:"content"`
	Mood      *int               `bson:"mood,omitempty" json:"mood,omitempty"`
	PhotoURL  string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
	UserID    string             `bson:"user_id" json:"user_id"`
}

// ParseEntryType validates a wire value for the type field.
func ParseEntryType(s string) (EntryType, error) {
	switch EntryType(strings.TrimSpace(s)) {
	case EntryTypeGratitude:
		return EntryTypeGratitude, nil
	case EntryTypeJournal:
		return EntryTypeJournal, nil
	default:
		return "", ErrInvalidEntryType
	}
}

// EntryDraft holds the mutable fields of an entry before it is saved.
// Mood 0 means unrated.
type EntryDraft struct {
	Type     EntryType `json:"type"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Mood     int       `json:"mood"`
	PhotoURL string    `json:"photo_url"`
}

// Validate rejects drafts that must never reach the store: empty trimmed
// content, an unknown type, or a mood outside 1..5.
func (d EntryDraft) Validate() error {
	if d.Type != EntryTypeGratitude && d.Type != EntryTypeJournal {
		return ErrInvalidEntryType
	}
	if strings.TrimSpace(d.Content) == "" {
		return ErrEmptyContent
	}
	if d.Mood != 0 && (d.Mood < MinMood || d.Mood > MaxMood) {
		return ErrInvalidMood
	}
	return nil
}

// TrimmedContent returns the content as it is persisted.
func (d EntryDraft) TrimmedContent() string {
	return strings.TrimSpace(d.Content)
}

// TitleOrNil returns the trimmed title, or nil when blank so the stored
// field is null rather than an empty string.
func (d EntryDraft) TitleOrNil() *string {
	t := strings.TrimSpace(d.Title)
	if t == "" {
		return nil
	}
	return &t
}

// MoodOrNil returns the mood rating, or nil when unrated.
func (d EntryDraft) MoodOrNil() *int {
	if d.Mood == 0 {
		return nil
	}
	m := d.Mood
	return &m
}
