package services

import (
	"context"
	"errors"
	"strings"

	"github.com/lumen-app/lumen-backend/internal/models"
)

// EditorMode is the entry form's current state.
type EditorMode int

const (
	EditorIdle EditorMode = iota
	EditorComposing
	EditorEditing
)

func (m EditorMode) String() string {
	switch m {
	case EditorComposing:
		return "composing"
	case EditorEditing:
		return "editing"
	default:
		return "idle"
	}
}

const defaultMood = 3

var (
	// ErrNoSession rejects a submit when no authenticated identity is present.
	ErrNoSession = errors.New("no active session")
	// ErrSaveInFlight rejects a re-submit while a save is still outstanding.
	ErrSaveInFlight = errors.New("a save is already in progress")
)

// EntryEditor tracks the form draft and the optional edit target that
// switches a submit between create and update. It is owned by a single
// event loop and is not safe for concurrent use.
type EntryEditor struct {
	draft      models.EntryDraft
	editTarget string
	saving     bool
}

// NewEntryEditor returns an editor with the form defaults: gratitude type,
// neutral mood, empty title and content.
func NewEntryEditor() *EntryEditor {
	return &EntryEditor{draft: defaultDraft(models.EntryTypeGratitude)}
}

func defaultDraft(t models.EntryType) models.EntryDraft {
	return models.EntryDraft{Type: t, Mood: defaultMood}
}

// Mode reports the machine's current state. Field edits never change the
// mode by themselves; only edit selection and successful saves do.
func (e *EntryEditor) Mode() EditorMode {
	if e.editTarget != "" {
		return EditorEditing
	}
	// The type selector is a toggle, not a populated field: changing it
	// alone leaves the form Idle, matching the post-save reset that keeps
	// the selected type.
	if strings.TrimSpace(e.draft.Content) != "" || strings.TrimSpace(e.draft.Title) != "" ||
		e.draft.Mood != defaultMood {
		return EditorComposing
	}
	return EditorIdle
}

// EditTarget returns the id of the entry being edited, or "" in create mode.
func (e *EntryEditor) EditTarget() string { return e.editTarget }

// Draft returns a copy of the current form draft.
func (e *EntryEditor) Draft() models.EntryDraft { return e.draft }

func (e *EntryEditor) SetType(t models.EntryType) { e.draft.Type = t }
func (e *EntryEditor) SetTitle(title string)      { e.draft.Title = title }
func (e *EntryEditor) SetContent(content string)  { e.draft.Content = content }
func (e *EntryEditor) SetMood(mood int)           { e.draft.Mood = mood }
func (e *EntryEditor) SetPhotoURL(url string)     { e.draft.PhotoURL = url }

// BeginEdit switches the form into update mode for the given entry. Only the
// entry's content is carried into the draft; type, title, and mood keep their
// current form values.
func (e *EntryEditor) BeginEdit(entry models.Entry) {
	e.editTarget = entry.ID.Hex()
	e.draft.Content = entry.Content
}

// Submit routes the draft to create or update depending on the edit target.
// Local validation failures (empty trimmed content, no session) reject
// before any store call and leave the draft and mode untouched; store
// failures also preserve the draft so the user can retry. A successful save
// resets the form and returns the editor to Idle.
func (e *EntryEditor) Submit(ctx context.Context, store EntryWriter, userID string) (*models.Entry, error) {
	if e.saving {
		return nil, ErrSaveInFlight
	}
	if userID == "" {
		return nil, ErrNoSession
	}
	if strings.TrimSpace(e.draft.Content) == "" {
		return nil, models.ErrEmptyContent
	}

	e.saving = true
	defer func() { e.saving = false }()

	var (
		saved *models.Entry
		err   error
	)
	if e.editTarget != "" {
		saved, err = store.Update(ctx, userID, e.editTarget, e.draft)
	} else {
		saved, err = store.Create(ctx, userID, e.draft)
	}
	if err != nil {
		return nil, err
	}

	// Reset: content, title, and mood back to defaults; type is kept.
	e.draft = defaultDraft(e.draft.Type)
	e.editTarget = ""
	return saved, nil
}
