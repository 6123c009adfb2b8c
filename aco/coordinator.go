package aco

import (
	"context"
	"errors"
	"time"

	"github.com/florianmende/marketroute/comms"
	"github.com/florianmende/marketroute/logging"
)

// Coordinator drives the iteration loop: broadcast the start signal, hold the
// completion barrier, tell the manager to apply the iteration and refresh the
// best-solution view. Every wait is bounded; missing completions or
// acknowledgments degrade the iteration with a warning instead of failing it.
type Coordinator struct {
	name     string
	exchange *comms.Exchange
	box      *comms.Mailbox
	ants     []string
	cfg      Config
	logger   logging.Logger

	iteration int
	best      BestSolution
}

// NewCoordinator creates the coordinator for the given ant mailbox names and
// registers its own mailbox on the exchange.
func NewCoordinator(exchange *comms.Exchange, ants []string, cfg Config, logger logging.Logger) *Coordinator {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Coordinator{
		name:     CoordinatorName,
		exchange: exchange,
		box:      exchange.Register(CoordinatorName),
		ants:     ants,
		cfg:      cfg,
		logger:   logger,
	}
}

// Best returns the coordinator's current view of the best solution.
func (c *Coordinator) Best() BestSolution { return c.best }

// Run executes the configured number of iterations and returns the final
// best-solution view. Cancelling ctx stops the loop between (or inside) any
// bounded wait.
func (c *Coordinator) Run(ctx context.Context) (BestSolution, error) {
	for c.iteration < c.cfg.NumIterations {
		if err := ctx.Err(); err != nil {
			return c.best, err
		}

		c.iteration++
		c.logger.Info("iteration started", "iteration", c.iteration)

		c.broadcastStart()
		c.awaitCompletions(ctx)
		c.applyIteration(ctx)
		c.refreshBest(ctx)
	}

	c.logger.Info("iteration budget exhausted", "iterations", c.iteration, "best_count", c.best.Count)
	return c.best, nil
}

func (c *Coordinator) broadcastStart() {
	msg, err := comms.NewMessage(c.name, comms.StartIteration, StartIterationPayload{IterationID: c.iteration})
	if err != nil {
		c.logger.Error("encode start signal", "error", err)
		return
	}
	c.exchange.Broadcast(c.ants, msg)
}

// awaitCompletions is the iteration barrier: it accumulates distinct ant ids
// from tour_complete messages carrying the current iteration id until all
// ants reported or the bounded wait elapses. Hitting the bound is a degraded
// condition, not an error: the iteration proceeds with partial completion.
func (c *Coordinator) awaitCompletions(ctx context.Context) {
	completed := make(map[int]struct{}, len(c.ants))
	deadline := time.Now().Add(c.cfg.CompletionTimeout)

	for len(completed) < len(c.ants) {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			c.logger.Warn("proceeding with partial completion",
				"iteration", c.iteration, "completed", len(completed), "ants", len(c.ants))
			return
		}

		msg, err := c.box.ReceiveTimeout(ctx, remaining)
		if errors.Is(err, comms.ErrTimeout) {
			c.logger.Warn("proceeding with partial completion",
				"iteration", c.iteration, "completed", len(completed), "ants", len(c.ants))
			return
		}
		if err != nil {
			return
		}

		if msg.Performative != comms.TourComplete {
			c.logger.Debug("unexpected performative at barrier", "performative", string(msg.Performative))
			continue
		}

		var report TourCompletePayload
		if err := msg.Decode(&report); err != nil {
			c.logger.Debug("dropping malformed completion report", "error", err)
			continue
		}
		// Stale reports from a previous iteration's stragglers are ignored.
		if report.IterationID != c.iteration {
			continue
		}
		completed[report.AntID] = struct{}{}
	}

	c.logger.Debug("all ants completed", "iteration", c.iteration)
}

// applyIteration signals end_iteration to the manager and waits (bounded) for
// the matching acknowledgment. A missing ack is logged and tolerated: the
// manager may still have applied the update, and the next iteration's signal
// keeps the protocol moving.
func (c *Coordinator) applyIteration(ctx context.Context) {
	msg, err := comms.NewMessage(c.name, comms.EndIteration, EndIterationPayload{IterationID: c.iteration})
	if err != nil {
		c.logger.Error("encode end_iteration", "error", err)
		return
	}

	resp, err := c.box.Request(ctx, ManagerName, msg, c.cfg.AckTimeout)
	if err != nil {
		c.logger.Warn("proceeding without iteration acknowledgment", "iteration", c.iteration, "error", err)
		return
	}

	var ack IterationUpdatedPayload
	if err := resp.Decode(&ack); err != nil || resp.Performative != comms.IterationUpdated {
		c.logger.Warn("malformed iteration acknowledgment", "iteration", c.iteration)
		return
	}
	if ack.IterationID != c.iteration {
		c.logger.Warn("acknowledgment for unexpected iteration", "got", ack.IterationID, "want", c.iteration)
	}
}

// refreshBest queries the manager's best solution and updates the local view
// when a well-formed response arrives in time; otherwise the prior view is
// kept.
func (c *Coordinator) refreshBest(ctx context.Context) {
	msg, err := comms.NewMessage(c.name, comms.GetBestSolution, GetBestSolutionPayload{IterationID: c.iteration})
	if err != nil {
		c.logger.Error("encode best-solution query", "error", err)
		return
	}

	resp, err := c.box.Request(ctx, ManagerName, msg, c.cfg.BestSolutionTimeout)
	if err != nil {
		c.logger.Warn("keeping prior best-solution view", "iteration", c.iteration, "error", err)
		return
	}

	var best BestSolutionPayload
	if err := resp.Decode(&best); err != nil || resp.Performative != comms.BestSolutionResponse {
		c.logger.Debug("dropping malformed best-solution response")
		return
	}

	c.best = BestSolution{Tour: best.BestTour, Count: best.BestCount, Iteration: best.Iteration}
}
