package comms

import (
	"context"
	"sync"
	"time"
)

// Mailbox is an agent's receiving end: a buffered inbox for asynchronous
// messages plus a pending-request table keyed by correlation id. A message
// whose correlation id matches an outstanding Request bypasses the inbox and
// resolves the waiting caller, so request/response traffic never interleaves
// with ordinary receives.
type Mailbox struct {
	name     string
	exchange *Exchange
	inbox    chan Message

	mu      sync.Mutex
	pending map[string]chan Message
}

// Name returns the name the mailbox is registered under.
func (m *Mailbox) Name() string { return m.name }

// deliver routes an incoming message either to a pending requester or to the
// general inbox. It never blocks; a full inbox rejects the message.
func (m *Mailbox) deliver(msg Message) bool {
	if msg.CorrelationID != "" {
		m.mu.Lock()
		waiter, ok := m.pending[msg.CorrelationID]
		if ok {
			delete(m.pending, msg.CorrelationID)
		}
		m.mu.Unlock()

		if ok {
			// Waiter channels are buffered with capacity one and resolved at
			// most once, so this send cannot block.
			waiter <- msg
			return true
		}
	}

	select {
	case m.inbox <- msg:
		return true
	default:
		return false
	}
}

// Receive blocks until a message arrives in the general inbox or ctx is
// cancelled.
func (m *Mailbox) Receive(ctx context.Context) (Message, error) {
	select {
	case msg := <-m.inbox:
		return msg, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

// ReceiveTimeout blocks for at most d. It returns ErrTimeout when the bound
// elapses and ctx.Err() when the context is cancelled first.
func (m *Mailbox) ReceiveTimeout(ctx context.Context, d time.Duration) (Message, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case msg := <-m.inbox:
		return msg, nil
	case <-timer.C:
		return Message{}, ErrTimeout
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

// Request sends msg to the named recipient and waits for the response that
// carries the same correlation id, racing the pending waiter against the
// timeout and ctx cancellation. A fresh correlation id is assigned when msg
// does not carry one. The pending table entry is always removed before
// returning, so late responses are dropped rather than leaked.
func (m *Mailbox) Request(ctx context.Context, to string, msg Message, timeout time.Duration) (Message, error) {
	if msg.CorrelationID == "" {
		msg.CorrelationID = NewID()
	}

	waiter := make(chan Message, 1)
	m.mu.Lock()
	m.pending[msg.CorrelationID] = waiter
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.pending, msg.CorrelationID)
		m.mu.Unlock()
	}()

	if err := m.exchange.Send(to, msg); err != nil {
		return Message{}, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case resp := <-waiter:
		return resp, nil
	case <-timer.C:
		return Message{}, ErrTimeout
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}
