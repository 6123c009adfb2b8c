// Package marketroute provides a high-level façade over the optimizers for
// planning multi-day visiting routes across time-windowed markets. Most
// applications interact with this package by:
//  1. Loading markets and travel times (package dataset)
//  2. Creating a Planner via New() with a validated config
//  3. Calling PlanDays with the desired algorithm
//
// The façade runs the per-day driver: each day executes a full optimization
// over the still-unvisited markets, then retires the day's best route before
// the next day starts. The message-passing ACO protocol itself lives in
// package aco; the sequential genetic baseline in package ga.
package marketroute

import (
	"context"
	"fmt"
	"time"

	"github.com/florianmende/marketroute/aco"
	"github.com/florianmende/marketroute/config"
	"github.com/florianmende/marketroute/ga"
	"github.com/florianmende/marketroute/logging"
	"github.com/florianmende/marketroute/routing"
	"github.com/florianmende/marketroute/stats"
)

// Algorithm selects an optimizer.
type Algorithm string

// Supported algorithms.
const (
	AlgorithmACO Algorithm = "aco"
	AlgorithmGA  Algorithm = "ga"
)

// DayPlan is the output for one planning day: the best route found, its
// score and the timed schedule expansion.
type DayPlan struct {
	Day       int
	Algorithm Algorithm
	Best      aco.BestSolution
	Schedule  routing.Schedule
}

// Options holds overrides passed to New().
type Options struct {
	// Logger receives run progress; defaults to NoOpLogger.
	Logger logging.Logger
}

// Planner runs the per-day optimization driver.
type Planner struct {
	markets routing.Markets
	travel  routing.TravelTimes
	cfg     config.Config
	logger  logging.Logger
}

// New constructs a Planner with optional overrides.
func New(markets routing.Markets, travel routing.TravelTimes, cfg config.Config, optFns ...func(o *Options)) (*Planner, error) {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := markets.Validate(); err != nil {
		return nil, err
	}
	if err := travel.Validate(markets); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Planner{markets: markets, travel: travel, cfg: cfg, logger: opts.Logger}, nil
}

// PlanDays runs the configured number of planning days with the given
// algorithm. Each day optimizes over the markets no earlier day has visited;
// the driver stops early when every market is covered or a day yields an
// empty route. Day results are appended to recorder when it is non-nil.
func (p *Planner) PlanDays(ctx context.Context, algorithm Algorithm, recorder *stats.Recorder) ([]DayPlan, error) {
	active := p.markets
	plans := make([]DayPlan, 0, p.cfg.Days)

	for day := 1; day <= p.cfg.Days; day++ {
		if len(active) == 0 {
			p.logger.Info("all markets covered, stopping early", "day", day)
			break
		}

		started := time.Now()
		best, err := p.runDay(ctx, algorithm, active)
		if err != nil {
			return plans, fmt.Errorf("marketroute: day %d: %w", day, err)
		}
		if best.Count == 0 {
			p.logger.Warn("no feasible route found", "day", day, "algorithm", string(algorithm))
			break
		}

		schedule, err := routing.BuildSchedule(best.Tour, active, p.travel, p.cfg.ServiceTime)
		if err != nil {
			return plans, fmt.Errorf("marketroute: day %d produced unschedulable tour: %w", day, err)
		}

		p.logger.Info("day planned",
			"day", day, "algorithm", string(algorithm), "count", best.Count)

		plans = append(plans, DayPlan{Day: day, Algorithm: algorithm, Best: best, Schedule: schedule})
		if recorder != nil {
			recorder.RecordDay(stats.DayResult{
				Day:       day,
				Algorithm: string(algorithm),
				Tour:      best.Tour,
				Count:     best.Count,
				Iteration: best.Iteration,
				Seconds:   time.Since(started).Seconds(),
			})
		}

		active = active.Without(best.Tour)
	}

	return plans, nil
}

// runDay executes one optimization over the active market set.
func (p *Planner) runDay(ctx context.Context, algorithm Algorithm, active routing.Markets) (aco.BestSolution, error) {
	switch algorithm {
	case AlgorithmACO:
		colony := aco.NewColony(active, p.travel, p.cfg.ACO, p.logger)
		return colony.Run(ctx)
	case AlgorithmGA:
		optimizer := ga.New(active, p.travel, p.cfg.GA, p.logger)
		tour, count, err := optimizer.Run(ctx)
		if err != nil {
			return aco.BestSolution{}, err
		}
		return aco.BestSolution{Tour: tour, Count: count}, nil
	default:
		return aco.BestSolution{}, fmt.Errorf("marketroute: unknown algorithm %q", algorithm)
	}
}
