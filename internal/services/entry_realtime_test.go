package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeEntryEventsDeliversToOwnerOnly(t *testing.T) {
	chA, releaseA := SubscribeEntryEvents("user-a")
	defer releaseA()
	chB, releaseB := SubscribeEntryEvents("user-b")
	defer releaseB()

	fanOutEntryEvent(EntryEvent{Type: EventTypeEntryCreated, UserID: "user-a", EntryID: "e1"})

	select {
	case ev := <-chA:
		assert.Equal(t, EventTypeEntryCreated, ev.Type)
		assert.Equal(t, "e1", ev.EntryID)
	case <-time.After(time.Second):
		t.Fatal("subscriber for user-a received nothing")
	}

	select {
	case ev := <-chB:
		t.Fatalf("subscriber for user-b received %+v", ev)
	default:
	}
}

func TestSubscribeEntryEventsFanOut(t *testing.T) {
	ch1, release1 := SubscribeEntryEvents("user-a")
	defer release1()
	ch2, release2 := SubscribeEntryEvents("user-a")
	defer release2()

	fanOutEntryEvent(EntryEvent{Type: EventTypeEntryDeleted, UserID: "user-a", EntryID: "e2"})

	for _, ch := range []<-chan EntryEvent{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, "e2", ev.EntryID)
		case <-time.After(time.Second):
			t.Fatal("a subscriber missed the event")
		}
	}
}

func TestReleaseClosesChannelAndStopsDelivery(t *testing.T) {
	ch, release := SubscribeEntryEvents("user-a")
	release()
	// Double release is safe.
	release()

	_, open := <-ch
	assert.False(t, open)

	// Events after release go nowhere and must not panic.
	fanOutEntryEvent(EntryEvent{Type: EventTypeEntryUpdated, UserID: "user-a"})
}

func TestFanOutDropsWhenSubscriberIsFull(t *testing.T) {
	ch, release := SubscribeEntryEvents("user-a")
	defer release()

	// Fill the buffer without a reader; extra events must be dropped
	// rather than blocking the hub.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 32; i++ {
			fanOutEntryEvent(EntryEvent{Type: EventTypeEntryCreated, UserID: "user-a"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("fan-out blocked on a full subscriber")
	}

	require.Len(t, ch, cap(ch))
}
