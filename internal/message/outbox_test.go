package message

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutbox_ConfirmLifecycle(t *testing.T) {
	outbox := NewOutbox()

	tempID := outbox.Begin()

	status, err := outbox.Status(tempID)
	require.NoError(t, err)
	assert.Equal(t, SendPending, status.State)

	messageID := uuid.New()
	require.NoError(t, outbox.Confirm(tempID, messageID))

	status, err = outbox.Status(tempID)
	require.NoError(t, err)
	assert.Equal(t, SendConfirmed, status.State)
	assert.Equal(t, messageID, status.MessageID)
}

func TestOutbox_FailKeepsCause(t *testing.T) {
	outbox := NewOutbox()
	tempID := outbox.Begin()

	require.NoError(t, outbox.Fail(tempID, errors.New("store unavailable")))

	status, err := outbox.Status(tempID)
	require.NoError(t, err)
	assert.Equal(t, SendFailed, status.State)
	assert.Equal(t, "store unavailable", status.Error)
}

func TestOutbox_UnknownTempID(t *testing.T) {
	outbox := NewOutbox()

	assert.ErrorIs(t, outbox.Confirm(uuid.New(), uuid.New()), ErrUnknownSend)
	assert.ErrorIs(t, outbox.Fail(uuid.New(), nil), ErrUnknownSend)

	_, err := outbox.Status(uuid.New())
	assert.ErrorIs(t, err, ErrUnknownSend)
}

func TestOutbox_SweepKeepsPendingEntries(t *testing.T) {
	outbox := NewOutbox()

	current := time.Now()
	outbox.now = func() time.Time { return current }

	pending := outbox.Begin()
	confirmed := outbox.Begin()
	require.NoError(t, outbox.Confirm(confirmed, uuid.New()))

	current = current.Add(time.Hour)

	removed := outbox.Sweep(30 * time.Minute)
	assert.Equal(t, 1, removed)

	_, err := outbox.Status(pending)
	assert.NoError(t, err)

	_, err = outbox.Status(confirmed)
	assert.ErrorIs(t, err, ErrUnknownSend)
}
