package routing

import (
	"errors"
	"fmt"
)

// ErrInfeasible reports a tour that cannot be scheduled within its windows.
var ErrInfeasible = errors.New("routing: tour violates an opening window")

// Stop is a single scheduled visit: when the visitor arrives (after any
// waiting for the market to open) and when service finishes.
type Stop struct {
	MarketID  int
	Arrival   int // clamped to the opening time when arriving early
	Waiting   int // minutes spent waiting before the market opened
	Departure int // Arrival + service duration
}

// Schedule is the timed expansion of a tour.
type Schedule struct {
	Stops        []Stop
	TotalTravel  int
	TotalWaiting int
	TotalService int
}

// Start returns the arrival time at the first stop, or zero for an empty schedule.
func (s Schedule) Start() int {
	if len(s.Stops) == 0 {
		return 0
	}
	return s.Stops[0].Arrival
}

// End returns the departure time of the last stop, or zero for an empty schedule.
func (s Schedule) End() int {
	if len(s.Stops) == 0 {
		return 0
	}
	return s.Stops[len(s.Stops)-1].Departure
}

// BuildSchedule walks a tour and computes per-stop timing. The first stop's
// arrival is its opening time; each later arrival is the previous departure
// plus travel, clamped up to the opening time. A stop whose service would run
// past the closing time makes the whole tour infeasible (ErrInfeasible), as
// does a repeated or unknown market.
func BuildSchedule(tour Tour, markets Markets, travel TravelTimes, serviceTime int) (Schedule, error) {
	var sched Schedule
	if len(tour) == 0 {
		return sched, nil
	}

	seen := make(map[int]struct{}, len(tour))
	sched.Stops = make([]Stop, 0, len(tour))

	current := 0
	for i, id := range tour {
		market, ok := markets[id]
		if !ok {
			return Schedule{}, fmt.Errorf("routing: unknown market %d in tour", id)
		}
		if _, dup := seen[id]; dup {
			return Schedule{}, fmt.Errorf("routing: market %d repeated in tour", id)
		}
		seen[id] = struct{}{}

		arrival := market.Opens
		waiting := 0
		if i > 0 {
			prev := tour[i-1]
			minutes := travel.Get(prev, id)
			sched.TotalTravel += minutes
			arrival = current + minutes
			if arrival < market.Opens {
				waiting = market.Opens - arrival
				arrival = market.Opens
			}
		}

		if arrival+serviceTime > market.Closes {
			return Schedule{}, fmt.Errorf("%w: market %d, arrival %s, closes %s",
				ErrInfeasible, id, FormatClock(arrival), FormatClock(market.Closes))
		}

		departure := arrival + serviceTime
		sched.Stops = append(sched.Stops, Stop{MarketID: id, Arrival: arrival, Waiting: waiting, Departure: departure})
		sched.TotalWaiting += waiting
		sched.TotalService += serviceTime
		current = departure
	}

	return sched, nil
}

// FeasibleSubsequence filters an arbitrary market sequence down to the
// longest-by-construction feasible visit order: infeasible stops are skipped
// and the walk continues from the last feasible one. This is the fitness
// backbone of the genetic baseline, which evolves full permutations.
func FeasibleSubsequence(seq []int, markets Markets, travel TravelTimes, serviceTime int) Tour {
	var tour Tour
	current := 0

	for _, id := range seq {
		market, ok := markets[id]
		if !ok {
			continue
		}

		arrival := market.Opens
		if len(tour) > 0 {
			arrival = current + travel.Get(tour[len(tour)-1], id)
			if arrival < market.Opens {
				arrival = market.Opens
			}
		}

		if arrival+serviceTime > market.Closes {
			continue
		}

		tour = append(tour, id)
		current = arrival + serviceTime
	}

	return tour
}
