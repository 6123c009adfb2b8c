package aco

import (
	"fmt"
	"time"
)

// Agent mailbox names inside a colony.
const (
	ManagerName     = "pheromone-manager"
	CoordinatorName = "coordinator"
)

// AntName returns the mailbox name of the ant with the given id.
func AntName(id int) string { return fmt.Sprintf("ant-%d", id) }

// Config holds the ACO hyperparameters and the protocol's timing bounds.
// Every bounded wait in the protocol is configurable so tests can shrink
// them; the defaults match the production values.
type Config struct {
	// Alpha weights the pheromone term in the selection probability.
	Alpha float64 `yaml:"alpha"`
	// Beta weights the heuristic term 1/(travel+1).
	Beta float64 `yaml:"beta"`
	// Decay is the per-iteration multiplicative evaporation factor, in (0,1).
	Decay float64 `yaml:"decay"`
	// InitialPheromone seeds every edge and answers queries for unseen edges.
	InitialPheromone float64 `yaml:"initial_pheromone"`
	// MinPheromone floors every edge after evaporation so repeated decay can
	// never drive selection weights to zero. Must stay below InitialPheromone.
	MinPheromone float64 `yaml:"min_pheromone"`
	// RewardMultiplier scales the elitist reinforcement deposit.
	RewardMultiplier float64 `yaml:"reward_multiplier"`
	// NumAnts is the number of tour-construction agents.
	NumAnts int `yaml:"num_ants"`
	// NumIterations is the coordinator's iteration budget per day.
	NumIterations int `yaml:"num_iterations"`
	// ServiceTime is the fixed per-market service duration in minutes.
	ServiceTime int `yaml:"service_time"`

	// QueryTimeout bounds an ant's pheromone request; on expiry the ant
	// falls back to the neutral value 1.0. Set from config files via the
	// timeouts section (raw duration strings), hence not unmarshaled here.
	QueryTimeout time.Duration `yaml:"-"`
	// CompletionTimeout bounds the coordinator's wait for all ants to report.
	CompletionTimeout time.Duration `yaml:"-"`
	// AckTimeout bounds the wait for the manager's iteration_updated reply.
	AckTimeout time.Duration `yaml:"-"`
	// BestSolutionTimeout bounds the best-solution query.
	BestSolutionTimeout time.Duration `yaml:"-"`

	// MailboxBuffer sets per-agent inbox capacity on the exchange.
	MailboxBuffer int `yaml:"mailbox_buffer"`
	// Seed makes runs reproducible when non-zero; each ant derives its own
	// rand source from it.
	Seed int64 `yaml:"seed"`
}

// DefaultConfig returns the production parameter set.
func DefaultConfig() Config {
	return Config{
		Alpha:               1.0,
		Beta:                2.0,
		Decay:               0.5,
		InitialPheromone:    1.0,
		MinPheromone:        1e-6,
		RewardMultiplier:    2.0,
		NumAnts:             20,
		NumIterations:       10,
		ServiceTime:         30,
		QueryTimeout:        5 * time.Second,
		CompletionTimeout:   30 * time.Second,
		AckTimeout:          5 * time.Second,
		BestSolutionTimeout: 2 * time.Second,
		MailboxBuffer:       64,
	}
}

// Validate reports the first configuration error, if any.
func (c Config) Validate() error {
	if c.Decay <= 0 || c.Decay >= 1 {
		return fmt.Errorf("aco: decay must be in (0,1), got %v", c.Decay)
	}
	if c.InitialPheromone <= 0 {
		return fmt.Errorf("aco: initial pheromone must be positive, got %v", c.InitialPheromone)
	}
	if c.MinPheromone <= 0 || c.MinPheromone >= c.InitialPheromone {
		return fmt.Errorf("aco: min pheromone must be in (0, initial), got %v", c.MinPheromone)
	}
	if c.NumAnts <= 0 {
		return fmt.Errorf("aco: number of ants must be positive, got %d", c.NumAnts)
	}
	if c.NumIterations <= 0 {
		return fmt.Errorf("aco: number of iterations must be positive, got %d", c.NumIterations)
	}
	if c.ServiceTime < 0 {
		return fmt.Errorf("aco: service time must be non-negative, got %d", c.ServiceTime)
	}
	for _, tc := range []struct {
		name string
		d    time.Duration
	}{
		{"query_timeout", c.QueryTimeout},
		{"completion_timeout", c.CompletionTimeout},
		{"ack_timeout", c.AckTimeout},
		{"best_solution_timeout", c.BestSolutionTimeout},
	} {
		if tc.d <= 0 {
			return fmt.Errorf("aco: %s must be positive, got %v", tc.name, tc.d)
		}
	}
	if c.MailboxBuffer <= 0 {
		return fmt.Errorf("aco: mailbox buffer must be positive, got %d", c.MailboxBuffer)
	}
	return nil
}
