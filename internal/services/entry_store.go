package services

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lumen-app/lumen-backend/internal/database"
	"github.com/lumen-app/lumen-backend/internal/models"
)

const entriesCollection = "entries"

// ErrEntryNotFound is returned when an entry id does not exist or does not
// belong to the calling user. Ownership and existence are indistinguishable
// on purpose.
var ErrEntryNotFound = errors.New("entry not found")

// EnsureEntryIndexes configures indexes for the entries collection.
// Called on startup from main after Mongo has connected.
func EnsureEntryIndexes(ctx context.Context) error {
	col := database.DB.Collection(entriesCollection)

	// Compound index on (user_id, created_at) backing the per-user
	// newest-first snapshot query.
	idx := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
		Options: options.Index().SetName("idx_user_created"),
	}

	_, err := col.Indexes().CreateOne(ctx, idx)
	return err
}

// CreateEntry validates and stores a new entry for userID. Timestamps are
// assigned here, never taken from the client, so created_at == updated_at
// on a fresh entry. The saved record reaches consumers through the entry
// feed; the return value is informational.
func CreateEntry(ctx context.Context, userID string, draft models.EntryDraft) (*models.Entry, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	entry := newEntryDocument(userID, draft, time.Now().UTC())

	if _, err := database.DB.Collection(entriesCollection).InsertOne(ctx, entry); err != nil {
		return nil, err
	}

	notifyEntryChanged(ctx, EventTypeEntryCreated, userID, entry.ID.Hex())
	return &entry, nil
}

// UpdateEntry mutates an existing entry in place. created_at and user_id are
// never touched; updated_at is refreshed. Returns ErrEntryNotFound when the
// id is unknown or owned by someone else.
func UpdateEntry(ctx context.Context, userID, id string, draft models.EntryDraft) (*models.Entry, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrEntryNotFound
	}

	filter := bson.M{"_id": oid, "user_id": userID}
	update := bson.M{"$set": entryUpdateSet(draft, time.Now().UTC())}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Entry
	err = database.DB.Collection(entriesCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	notifyEntryChanged(ctx, EventTypeEntryUpdated, userID, id)
	return &updated, nil
}

// RemoveEntry permanently deletes an entry. There is no soft delete or undo.
// Deleting an absent id returns ErrEntryNotFound so the caller can surface it.
func RemoveEntry(ctx context.Context, userID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrEntryNotFound
	}

	res, err := database.DB.Collection(entriesCollection).DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrEntryNotFound
	}

	notifyEntryChanged(ctx, EventTypeEntryDeleted, userID, id)
	return nil
}

// FetchEntries returns the full snapshot of a user's entries, newest first
// by created_at. Ties fall back to the store's natural order.
func FetchEntries(ctx context.Context, userID string) ([]models.Entry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := database.DB.Collection(entriesCollection).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	entries := make([]models.Entry, 0)
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// newEntryDocument builds the stored document for a fresh entry. Both
// timestamps are assigned from now, so created_at == updated_at on insert.
func newEntryDocument(userID string, draft models.EntryDraft, now time.Time) models.Entry {
	return models.Entry{
		ID:        primitive.NewObjectID(),
		Type:      draft.Type,
		Title:     draft.TitleOrNil(),
		Content:   draft.TrimmedContent(),
		Mood:      draft.MoodOrNil(),
		PhotoURL:  draft.PhotoURL,
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    userID,
	}
}

// entryUpdateSet builds the $set document for an in-place update. It covers
// the same mutable fields as create; created_at and user_id are never listed
// so they survive the mutation, while updated_at is refreshed from now.
func entryUpdateSet(draft models.EntryDraft, now time.Time) bson.M {
	return bson.M{
		"type":       draft.Type,
		"title":      draft.TitleOrNil(),
		"content":    draft.TrimmedContent(),
		"mood":       draft.MoodOrNil(),
		"photo_url":  draft.PhotoURL,
		"updated_at": now,
	}
}

// notifyEntryChanged publishes a change event for the user's feed.
// Best-effort: a publish failure is logged, not returned, since the
// mutation itself already succeeded.
func notifyEntryChanged(ctx context.Context, eventType, userID, entryID string) {
	err := PublishEntryEvent(ctx, EntryEvent{
		Type:    eventType,
		UserID:  userID,
		EntryID: entryID,
	})
	if err != nil {
		log.Printf("entry_store: publish %s for entry %s failed: %v", eventType, entryID, err)
	}
}

// EntryWriter is the mutation surface the editor routes submits through.
// Satisfied by StoreWriter in production and by fakes in tests.
type EntryWriter interface {
	Create(ctx context.Context, userID string, draft models.EntryDraft) (*models.Entry, error)
	Update(ctx context.Context, userID, id string, draft models.EntryDraft) (*models.Entry, error)
}

// StoreWriter adapts the package-level store functions to EntryWriter.
type StoreWriter struct{}

func (StoreWriter) Create(ctx context.Context, userID string, draft models.EntryDraft) (*models.Entry, error) {
	return CreateEntry(ctx, userID, draft)
}

func (StoreWriter) Update(ctx context.Context, userID, id string, draft models.EntryDraft) (*models.Entry, error) {
	return UpdateEntry(ctx, userID, id, draft)
}
