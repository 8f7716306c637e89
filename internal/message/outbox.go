package message

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrUnknownSend = errors.New("unknown pending send")

// SendState is the lifecycle of an optimistic send: the client shows
// the message immediately under a temporary id, then the outbox
// confirms it with the stored id or fails it for retry.
type SendState string

const (
	SendPending   SendState = "pending"
	SendConfirmed SendState = "confirmed"
	SendFailed    SendState = "failed"
)

type PendingSend struct {
	TempID    uuid.UUID
	MessageID uuid.UUID
	State     SendState
	Error     string
	UpdatedAt time.Time
}

// Outbox tracks in-flight sends by temporary id. It is purely
// in-memory; a restart simply forgets unconfirmed sends, which the
// client re-submits.
type Outbox struct {
	mu      sync.Mutex
	pending map[uuid.UUID]*PendingSend
	now     func() time.Time
}

func NewOutbox() *Outbox {
	return &Outbox{
		pending: make(map[uuid.UUID]*PendingSend),
		now:     time.Now,
	}
}

// Begin registers a new optimistic send and returns its temporary
// correlation id.
func (o *Outbox) Begin() uuid.UUID {
	tempID := uuid.New()

	o.mu.Lock()
	o.pending[tempID] = &PendingSend{
		TempID:    tempID,
		State:     SendPending,
		UpdatedAt: o.now(),
	}
	o.mu.Unlock()

	return tempID
}

// Confirm resolves a pending send with the id the store assigned.
func (o *Outbox) Confirm(tempID, messageID uuid.UUID) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	p, ok := o.pending[tempID]
	if !ok {
		return ErrUnknownSend
	}

	p.State = SendConfirmed
	p.MessageID = messageID
	p.UpdatedAt = o.now()
	return nil
}

// Fail marks a pending send as failed so the client can offer a retry.
func (o *Outbox) Fail(tempID uuid.UUID, cause error) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	p, ok := o.pending[tempID]
	if !ok {
		return ErrUnknownSend
	}

	p.State = SendFailed
	if cause != nil {
		p.Error = cause.Error()
	}
	p.UpdatedAt = o.now()
	return nil
}

// Status reports the current state of a send.
func (o *Outbox) Status(tempID uuid.UUID) (PendingSend, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	p, ok := o.pending[tempID]
	if !ok {
		return PendingSend{}, ErrUnknownSend
	}
	return *p, nil
}

// Sweep drops resolved entries older than maxAge and returns how many
// were removed. Pending entries are kept regardless of age.
func (o *Outbox) Sweep(maxAge time.Duration) int {
	cutoff := o.now().Add(-maxAge)

	o.mu.Lock()
	defer o.mu.Unlock()

	removed := 0
	for id, p := range o.pending {
		if p.State != SendPending && p.UpdatedAt.Before(cutoff) {
			delete(o.pending, id)
			removed++
		}
	}
	return removed
}
