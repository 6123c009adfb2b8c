package aco

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/florianmende/marketroute/comms"
	"github.com/florianmende/marketroute/logging"
	"github.com/florianmende/marketroute/routing"
)

// Colony wires one day's protocol instance: a fresh exchange, the pheromone
// manager, the configured number of ants and the coordinator. Agents run as
// goroutines with no shared memory; stopping is cooperative via context
// cancellation once the coordinator's iteration budget is exhausted.
type Colony struct {
	markets routing.Markets
	travel  routing.TravelTimes
	cfg     Config
	logger  logging.Logger
}

// NewColony creates a colony over the given active market set.
func NewColony(markets routing.Markets, travel routing.TravelTimes, cfg Config, logger logging.Logger) *Colony {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Colony{markets: markets, travel: travel, cfg: cfg, logger: logger}
}

// Run executes the full multi-iteration protocol for one planning day and
// returns the best solution found. The pheromone matrix lives exactly as
// long as this call.
func (c *Colony) Run(ctx context.Context) (BestSolution, error) {
	if err := c.cfg.Validate(); err != nil {
		return BestSolution{}, err
	}
	if len(c.markets) == 0 {
		return BestSolution{}, fmt.Errorf("aco: no markets to visit")
	}

	exchange := comms.NewExchange(func(o *comms.Options) {
		o.BufferSize = c.cfg.MailboxBuffer
		o.Logger = c.logger
	})

	manager := NewManager(exchange, c.markets, c.cfg, c.logger)

	seed := c.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ants := make([]*Ant, c.cfg.NumAnts)
	antNames := make([]string, c.cfg.NumAnts)
	for i := range ants {
		rng := rand.New(rand.NewSource(seed + int64(i)))
		ants[i] = NewAnt(i, exchange, c.markets, c.travel, c.cfg, rng, c.logger)
		antNames[i] = AntName(i)
	}

	// The coordinator registers last; every mailbox exists before any
	// goroutine starts, so no start signal can hit an unknown recipient.
	coordinator := NewCoordinator(exchange, antNames, c.cfg, c.logger)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1 + len(ants))
	go func() {
		defer wg.Done()
		manager.Run(runCtx)
	}()
	for _, ant := range ants {
		go func(a *Ant) {
			defer wg.Done()
			a.Run(runCtx)
		}(ant)
	}

	best, err := coordinator.Run(runCtx)

	// Terminal state: stop the manager and all ants, then wait for their
	// goroutines to unwind before releasing the exchange.
	cancel()
	wg.Wait()

	if err != nil {
		return best, fmt.Errorf("aco: colony run interrupted: %w", err)
	}
	return best, nil
}
