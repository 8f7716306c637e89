package message

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(sub *Subscription) []Event {
	var out []Event
	for {
		select {
		case e := <-sub.C:
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestHub_PublishReachesAllSubscribers(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe()
	b := hub.Subscribe()
	defer a.Close()
	defer b.Close()

	hub.Publish(Event{Message: &Message{ID: uuid.New(), Sujet: "Salut"}})

	require.Len(t, drain(a), 1)
	require.Len(t, drain(b), 1)
}

func TestHub_DeduplicatesPerSubscriber(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	defer sub.Close()

	e := Event{Message: &Message{ID: uuid.New()}}
	hub.Publish(e)
	hub.Publish(e)

	assert.Len(t, drain(sub), 1)
}

func TestHub_MarkSeenSuppressesOwnEcho(t *testing.T) {
	hub := NewHub()
	sender := hub.Subscribe()
	other := hub.Subscribe()
	defer sender.Close()
	defer other.Close()

	e := Event{Message: &Message{ID: uuid.New()}}
	sender.MarkSeen(e.Message.ID)
	hub.Publish(e)

	assert.Empty(t, drain(sender))
	assert.Len(t, drain(other), 1)
}

func TestHub_ClosedSubscriberStopsReceiving(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	sub.Close()

	hub.Publish(Event{Message: &Message{ID: uuid.New()}})

	assert.Empty(t, drain(sub))
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	defer sub.Close()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish(Event{Message: &Message{ID: uuid.New()}})
	}

	assert.Len(t, drain(sub), subscriberBuffer)
}
