package comms

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Performative tags the intent of a message, mirroring the FIPA-style
// performative metadata of classic agent platforms. Dispatch in every agent
// is a switch over this tag.
type Performative string

// The full set of performatives exchanged between the coordinator, the ants
// and the pheromone manager.
const (
	StartIteration       Performative = "start_iteration"
	QueryPheromone       Performative = "query_pheromone"
	PheromoneResponse    Performative = "pheromone_response"
	DepositPheromone     Performative = "deposit_pheromone"
	TourComplete         Performative = "tour_complete"
	EndIteration         Performative = "end_iteration"
	IterationUpdated     Performative = "iteration_updated"
	GetBestSolution      Performative = "get_best_solution"
	BestSolutionResponse Performative = "best_solution_response"
)

// Message is the unit of communication between agents. After emission it
// should be treated as immutable. The Body holds the JSON-encoded payload of
// the performative; receivers decode it into the typed payload struct and
// silently drop messages that fail to decode.
type Message struct {
	ID            string          `json:"id"`
	Performative  Performative    `json:"performative"`
	Sender        string          `json:"sender"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Body          json.RawMessage `json:"body,omitempty"`
}

// NewMessage creates a message authored by sender carrying the JSON encoding
// of payload. A nil payload produces an empty body.
func NewMessage(sender string, p Performative, payload any) (Message, error) {
	msg := Message{
		ID:           NewID(),
		Performative: p,
		Sender:       sender,
	}
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return Message{}, fmt.Errorf("comms: encode %s payload: %w", p, err)
		}
		msg.Body = body
	}
	return msg, nil
}

// Reply constructs a response to m, preserving its correlation id so the
// requester's pending-request table can match it. If m carries no correlation
// id the reply is a plain asynchronous message.
func (m Message) Reply(sender string, p Performative, payload any) (Message, error) {
	reply, err := NewMessage(sender, p, payload)
	if err != nil {
		return Message{}, err
	}
	reply.CorrelationID = m.CorrelationID
	return reply, nil
}

// Decode unmarshals the message body into v. An empty body decodes into the
// zero value.
func (m Message) Decode(v any) error {
	if len(m.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(m.Body, v); err != nil {
		return fmt.Errorf("comms: decode %s payload: %w", m.Performative, err)
	}
	return nil
}

// NewID generates a unique identifier for messages and correlation ids.
func NewID() string { return uuid.NewString() }
