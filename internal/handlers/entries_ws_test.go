package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// The reader goroutine must not outlive the feed's event loop: when the loop
// is gone nothing drains msgs, so a pending send has to give up via the
// context instead of blocking forever.
func TestReadFeedMessagesStopsWhenLoopIsGone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs := make(chan FeedClientMessage)
	readerDone := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := feedUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		readFeedMessages(ctx, conn, msgs)
		close(readerDone)
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()

	// A message arrives but nobody ever receives from msgs, putting the
	// reader in the blocked-send state a dead event loop leaves behind.
	require.NoError(t, client.WriteJSON(FeedClientMessage{Type: "ping"}))

	cancel()

	select {
	case <-readerDone:
	case <-time.After(2 * time.Second):
		t.Fatal("reader goroutine still running after the event loop exited")
	}
}

func TestReadFeedMessagesDeliversAndClosesOnDisconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs := make(chan FeedClientMessage)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := feedUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		readFeedMessages(ctx, conn, msgs)
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)

	require.NoError(t, client.WriteJSON(FeedClientMessage{Type: "submit", Content: "hello"}))

	select {
	case msg := <-msgs:
		require.Equal(t, "submit", msg.Type)
		require.Equal(t, "hello", msg.Content)
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}

	client.Close()

	select {
	case _, open := <-msgs:
		require.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("msgs was not closed after the client disconnected")
	}
}
