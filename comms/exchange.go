package comms

import (
	"errors"
	"sync"

	"github.com/florianmende/marketroute/logging"
)

// Sentinel errors surfaced by the exchange and mailboxes. Callers compare
// with errors.Is; none of them is fatal to the protocol.
var (
	// ErrUnknownRecipient indicates a send to a name no mailbox is registered under.
	ErrUnknownRecipient = errors.New("comms: unknown recipient")
	// ErrMailboxFull indicates the recipient's inbox buffer was exhausted and
	// the message was dropped.
	ErrMailboxFull = errors.New("comms: mailbox full, message dropped")
	// ErrTimeout indicates a bounded receive or request elapsed without a message.
	ErrTimeout = errors.New("comms: receive timed out")
)

// Options holds configuration overrides passed to NewExchange.
type Options struct {
	// BufferSize sets the inbox channel buffering per mailbox.
	BufferSize int
	// Logger receives drop/delivery diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Exchange is the in-process delivery fabric between agents. Each agent
// registers exactly one named mailbox; Send looks up the recipient and
// delivers asynchronously. Public methods are safe for concurrent use.
type Exchange struct {
	bufferSize int
	logger     logging.Logger

	mu    sync.RWMutex
	boxes map[string]*Mailbox
}

// NewExchange constructs an Exchange with optional overrides.
func NewExchange(optFns ...func(o *Options)) *Exchange {
	opts := Options{
		BufferSize: 64,
		Logger:     logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Exchange{
		bufferSize: opts.BufferSize,
		logger:     opts.Logger,
		boxes:      make(map[string]*Mailbox),
	}
}

// Register creates (or replaces) the mailbox for name and returns it.
func (e *Exchange) Register(name string) *Mailbox {
	box := &Mailbox{
		name:     name,
		exchange: e,
		inbox:    make(chan Message, e.bufferSize),
		pending:  make(map[string]chan Message),
	}

	e.mu.Lock()
	e.boxes[name] = box
	e.mu.Unlock()

	return box
}

// Send delivers msg to the mailbox registered under to. Delivery is
// asynchronous and never blocks the sender: an unknown recipient or a full
// inbox drops the message and reports a sentinel error. Responses matching an
// outstanding request on the recipient's side resolve the waiter directly.
func (e *Exchange) Send(to string, msg Message) error {
	e.mu.RLock()
	box, ok := e.boxes[to]
	e.mu.RUnlock()

	if !ok {
		e.logger.Debug("drop: no mailbox registered", "to", to, "performative", string(msg.Performative))
		return ErrUnknownRecipient
	}

	if !box.deliver(msg) {
		e.logger.Debug("drop: inbox full", "to", to, "performative", string(msg.Performative))
		return ErrMailboxFull
	}
	return nil
}

// Broadcast sends msg to every named recipient, ignoring individual drops.
func (e *Exchange) Broadcast(recipients []string, msg Message) {
	for _, to := range recipients {
		_ = e.Send(to, msg)
	}
}
