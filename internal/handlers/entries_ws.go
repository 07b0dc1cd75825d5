package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lumen-app/lumen-backend/internal/models"
	"github.com/lumen-app/lumen-backend/internal/services"
)

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS for WebSocket is handled at the HTTP layer already.
		return true
	},
}

// FeedClientMessage represents messages coming from the frontend over WebSocket.
type FeedClientMessage struct {
	Type      string `json:"type"` // "submit", "edit", "delete", "filter", "ping"
	ID        string `json:"id,omitempty"`
	Filter    string `json:"filter,omitempty"`
	EntryType string `json:"entry_type,omitempty"`
	Title     string `json:"title,omitempty"`
	Content   string `json:"content,omitempty"`
	Mood      int    `json:"mood,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
}

// FeedServerEvent is the payload sent to the client. Snapshot events carry
// the full ordered, filtered entry list; consumers replace their working set
// on every snapshot rather than patching deltas.
type FeedServerEvent struct {
	Type      string      `json:"type"` // "snapshot", "editing", "saved", "deleted", "validation", "error", "pong"
	Entries   []EntryView `json:"entries,omitempty"`
	Entry     *EntryView  `json:"entry,omitempty"`
	EntryID   string         `json:"entry_id,omitempty"`
	Content   string         `json:"content,omitempty"`
	Filter    string         `json:"filter,omitempty"`
	Mode      string         `json:"mode,omitempty"`
	Message   string         `json:"message,omitempty"`
	Timestamp time.Time      `json:"timestamp,omitempty"`
}

// feedSession is the per-connection view state: the editor draft, the
// selected filter, and the last delivered snapshot. All of it is owned by
// the connection's single event loop, so no locking is involved.
type feedSession struct {
	conn    *websocket.Conn
	userID  string
	editor  *services.EntryEditor
	filter  services.ViewFilter
	entries []models.Entry
}

// EntryFeed handles the live entry subscription over WebSocket.
// Authentication uses the session token (Authorization: Bearer <token>, or
// ?token= for browser WebSocket clients). The subscription is scoped to the
// session lifetime: it opens on connect and is released on every exit path.
func EntryFeed(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing session token", http.StatusUnauthorized)
			return
		}
	}

	userID, ok, err := services.ValidateSession(token)
	if err != nil || !ok {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}

	conn, err := feedUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, release := services.SubscribeEntryEvents(userID.String())
	defer release()

	sess := &feedSession{
		conn:   conn,
		userID: userID.String(),
		editor: services.NewEntryEditor(),
		filter: services.FilterAll,
	}

	// Initial load: the first snapshot ends the client's loading state.
	if err := sess.sendSnapshot(ctx); err != nil {
		return
	}

	msgs := make(chan FeedClientMessage)
	go readFeedMessages(ctx, conn, msgs)

	// Single event loop: user input and change notifications are discrete
	// events processed one at a time.
	for {
		select {
		case _, open := <-events:
			if !open {
				return
			}
			if err := sess.sendSnapshot(ctx); err != nil {
				return
			}
		case msg, open := <-msgs:
			if !open {
				return
			}
			if err := sess.handle(ctx, msg); err != nil {
				return
			}
		}
	}
}

// readFeedMessages funnels client messages into a channel and closes it
// when the connection drops. The ctx guards the channel send: once the
// owning loop is gone nothing drains msgs, and a plain send would strand
// this goroutine since closing the conn cannot unblock it.
func readFeedMessages(ctx context.Context, conn *websocket.Conn, msgs chan<- FeedClientMessage) {
	defer close(msgs)

	conn.SetReadLimit(64 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	conn.SetPongHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))

		var msg FeedClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		select {
		case msgs <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// sendSnapshot delivers the full ordered, filtered entry list. A fetch
// failure is surfaced as an error event, not a dropped connection: the
// client keeps whatever it last saw.
func (s *feedSession) sendSnapshot(ctx context.Context) error {
	fetchCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	entries, err := services.FetchEntries(fetchCtx, s.userID)
	if err != nil {
		log.Printf("entry feed: snapshot fetch for user %s failed: %v", s.userID, err)
		return s.send(FeedServerEvent{Type: "error", Message: "Failed to load entries"})
	}
	s.entries = entries

	visible := services.FilterEntries(entries, s.filter)
	evt := FeedServerEvent{
		Type:    "snapshot",
		Entries: entryViews(visible, time.Now().UTC()),
		Filter:  string(s.filter),
	}
	if len(visible) == 0 {
		evt.Message = services.EmptyStateMessage(s.filter)
	}
	return s.send(evt)
}

func (s *feedSession) handle(ctx context.Context, msg FeedClientMessage) error {
	switch msg.Type {
	case "filter":
		filter, err := services.ParseViewFilter(msg.Filter)
		if err != nil {
			return s.send(FeedServerEvent{Type: "validation", Message: err.Error()})
		}
		s.filter = filter
		// The filter is a pure derivation over the last snapshot; no re-fetch.
		visible := services.FilterEntries(s.entries, s.filter)
		evt := FeedServerEvent{Type: "snapshot", Entries: entryViews(visible, time.Now().UTC()), Filter: string(s.filter)}
		if len(visible) == 0 {
			evt.Message = services.EmptyStateMessage(s.filter)
		}
		return s.send(evt)

	case "edit":
		for _, entry := range s.entries {
			if entry.ID.Hex() == msg.ID {
				s.editor.BeginEdit(entry)
				return s.send(FeedServerEvent{
					Type:    "editing",
					EntryID: msg.ID,
					Content: entry.Content,
					Mode:    s.editor.Mode().String(),
				})
			}
		}
		return s.send(FeedServerEvent{Type: "error", Message: "Entry not found"})

	case "submit":
		return s.handleSubmit(ctx, msg)

	case "delete":
		deleteCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := services.RemoveEntry(deleteCtx, s.userID, msg.ID); err != nil {
			if errors.Is(err, services.ErrEntryNotFound) {
				return s.send(FeedServerEvent{Type: "error", Message: "Entry not found"})
			}
			log.Printf("entry feed: delete %s for user %s failed: %v", msg.ID, s.userID, err)
			return s.send(FeedServerEvent{Type: "error", Message: "Failed to delete entry"})
		}
		return s.send(FeedServerEvent{Type: "deleted", EntryID: msg.ID})

	case "ping":
		return s.send(FeedServerEvent{Type: "pong"})

	default:
		// Ignore unknown types
		return nil
	}
}

// handleSubmit applies the form fields to the editor and routes the draft to
// create or update based on the edit target. Validation failures keep the
// draft and mode untouched so the form stays editable.
func (s *feedSession) handleSubmit(ctx context.Context, msg FeedClientMessage) error {
	if msg.EntryType != "" {
		entryType, err := models.ParseEntryType(msg.EntryType)
		if err != nil {
			return s.send(FeedServerEvent{Type: "validation", Message: err.Error()})
		}
		s.editor.SetType(entryType)
	}
	s.editor.SetTitle(msg.Title)
	s.editor.SetContent(msg.Content)
	if msg.Mood != 0 {
		s.editor.SetMood(msg.Mood)
	}
	if msg.PhotoURL != "" {
		s.editor.SetPhotoURL(msg.PhotoURL)
	}

	saveCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	saved, err := s.editor.Submit(saveCtx, services.StoreWriter{}, s.userID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmptyContent),
			errors.Is(err, models.ErrInvalidMood),
			errors.Is(err, models.ErrInvalidEntryType),
			errors.Is(err, services.ErrNoSession),
			errors.Is(err, services.ErrSaveInFlight):
			return s.send(FeedServerEvent{Type: "validation", Message: err.Error(), Mode: s.editor.Mode().String()})
		case errors.Is(err, services.ErrEntryNotFound):
			return s.send(FeedServerEvent{Type: "error", Message: "Entry not found"})
		default:
			log.Printf("entry feed: save for user %s failed: %v", s.userID, err)
			return s.send(FeedServerEvent{Type: "error", Message: "Failed to save entry", Mode: s.editor.Mode().String()})
		}
	}

	view := entryView(*saved, time.Now().UTC())
	return s.send(FeedServerEvent{
		Type:  "saved",
		Entry: &view,
		Mode:  s.editor.Mode().String(),
	})
}

func (s *feedSession) send(evt FeedServerEvent) error {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	return s.conn.WriteJSON(evt)
}
