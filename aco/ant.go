package aco

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"github.com/florianmende/marketroute/comms"
	"github.com/florianmende/marketroute/logging"
	"github.com/florianmende/marketroute/routing"
)

// Ant constructs one feasible tour per iteration. It cycles through three
// phases: idle (waiting for a start_iteration newer than the last one it
// processed), constructing (extending the tour one edge at a time, fetching
// pheromone values from the manager per candidate) and complete (tour
// deposited, completion reported). The ant mutates only its own local state
// and never touches the pheromone matrix directly.
type Ant struct {
	id       int
	name     string
	exchange *comms.Exchange
	box      *comms.Mailbox
	markets  routing.Markets
	travel   routing.TravelTimes
	cfg      Config
	logger   logging.Logger
	rng      *rand.Rand

	lastIteration int
}

// NewAnt creates an ant and registers its mailbox on the exchange. The rng
// must not be shared with any other goroutine.
func NewAnt(id int, exchange *comms.Exchange, markets routing.Markets, travel routing.TravelTimes, cfg Config, rng *rand.Rand, logger logging.Logger) *Ant {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	name := AntName(id)
	return &Ant{
		id:       id,
		name:     name,
		exchange: exchange,
		box:      exchange.Register(name),
		markets:  markets,
		travel:   travel,
		cfg:      cfg,
		logger:   logger,
		rng:      rng,
	}
}

// Run processes start signals until ctx is cancelled. Signals for iterations
// the ant has already processed (duplicates, stale redeliveries) are ignored.
func (a *Ant) Run(ctx context.Context) {
	for {
		msg, err := a.box.Receive(ctx)
		if err != nil {
			return
		}
		if msg.Performative != comms.StartIteration {
			a.logger.Debug("unexpected performative", "performative", string(msg.Performative))
			continue
		}

		var start StartIterationPayload
		if err := msg.Decode(&start); err != nil {
			a.logger.Debug("dropping malformed start signal", "error", err)
			continue
		}
		if start.IterationID <= a.lastIteration {
			continue
		}
		a.lastIteration = start.IterationID

		tour := a.ConstructTour(ctx)
		a.depositTour(tour, start.IterationID)
		a.reportComplete(start.IterationID)
	}
}

// ConstructTour builds one feasible tour: seed at a random market, then
// repeatedly draw the next stop from the weighted distribution over all
// feasible candidates until none survives the window filter. The departure
// baseline after the seed is its opening time plus the service duration.
func (a *Ant) ConstructTour(ctx context.Context) routing.Tour {
	ids := a.markets.IDs()

	// Only markets whose own window can hold a full service are seedable.
	seedable := make([]int, 0, len(ids))
	for _, id := range ids {
		if m := a.markets[id]; m.Opens+a.cfg.ServiceTime <= m.Closes {
			seedable = append(seedable, id)
		}
	}
	if len(seedable) == 0 {
		return nil
	}

	seed := seedable[a.rng.Intn(len(seedable))]
	tour := routing.Tour{seed}
	departure := a.markets[seed].Opens + a.cfg.ServiceTime

	unvisited := make(map[int]struct{}, len(ids)-1)
	for _, id := range ids {
		if id != seed {
			unvisited[id] = struct{}{}
		}
	}

	current := seed
	for len(unvisited) > 0 {
		next, arrival, ok := a.selectNext(ctx, current, departure, unvisited)
		if !ok {
			break
		}
		tour = append(tour, next)
		departure = arrival + a.cfg.ServiceTime
		current = next
		delete(unvisited, next)
	}

	return tour
}

// candidate is one feasible extension of the tour under construction.
type candidate struct {
	id      int
	arrival int
	weight  float64
}

// selectNext filters the unvisited markets down to those still schedulable
// from the current departure time and draws one via weighted random sampling,
// weight = pheromone^alpha * (1/(travel+1))^beta. A zero total weight falls
// back to a uniform choice. Returns false when no candidate is feasible,
// which is the normal tour-termination condition, or when ctx is cancelled.
func (a *Ant) selectNext(ctx context.Context, current, departure int, unvisited map[int]struct{}) (int, int, bool) {
	if ctx.Err() != nil {
		return 0, 0, false
	}

	ids := make([]int, 0, len(unvisited))
	for id := range unvisited {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var candidates []candidate
	total := 0.0
	for _, id := range ids {
		market := a.markets[id]
		minutes := a.travel.Get(current, id)

		arrival := departure + minutes
		if arrival < market.Opens {
			arrival = market.Opens
		}
		if arrival+a.cfg.ServiceTime > market.Closes {
			continue
		}

		pheromone := a.queryPheromone(ctx, current, id)
		heuristic := 1.0 / float64(minutes+1)
		weight := math.Pow(pheromone, a.cfg.Alpha) * math.Pow(heuristic, a.cfg.Beta)

		candidates = append(candidates, candidate{id: id, arrival: arrival, weight: weight})
		total += weight
	}

	if len(candidates) == 0 {
		return 0, 0, false
	}

	if total <= 0 {
		picked := candidates[a.rng.Intn(len(candidates))]
		return picked.id, picked.arrival, true
	}

	r := a.rng.Float64() * total
	cum := 0.0
	for _, c := range candidates {
		cum += c.weight
		if r <= cum {
			return c.id, c.arrival, true
		}
	}
	// Floating point underflow can leave r marginally above the sum.
	last := candidates[len(candidates)-1]
	return last.id, last.arrival, true
}

// queryPheromone performs the request/response exchange with the manager.
// A timeout, cancellation or malformed response resolves to the neutral
// value 1.0 so construction keeps making progress.
func (a *Ant) queryPheromone(ctx context.Context, from, to int) float64 {
	msg, err := comms.NewMessage(a.name, comms.QueryPheromone, QueryPheromonePayload{From: from, To: to})
	if err != nil {
		return 1.0
	}

	resp, err := a.box.Request(ctx, ManagerName, msg, a.cfg.QueryTimeout)
	if err != nil {
		a.logger.Debug("pheromone query fell back to neutral", "from", from, "to", to, "error", err)
		return 1.0
	}

	var p PheromoneResponsePayload
	if err := resp.Decode(&p); err != nil || resp.Performative != comms.PheromoneResponse {
		return 1.0
	}
	return p.Pheromone
}

func (a *Ant) depositTour(tour routing.Tour, iteration int) {
	msg, err := comms.NewMessage(a.name, comms.DepositPheromone, DepositPheromonePayload{
		Tour:        tour,
		NumMarkets:  len(tour),
		IterationID: iteration,
		AntID:       a.id,
	})
	if err != nil {
		a.logger.Error("encode deposit", "error", err)
		return
	}
	_ = a.exchange.Send(ManagerName, msg)
}

func (a *Ant) reportComplete(iteration int) {
	msg, err := comms.NewMessage(a.name, comms.TourComplete, TourCompletePayload{
		AntID:       a.id,
		IterationID: iteration,
	})
	if err != nil {
		a.logger.Error("encode completion report", "error", err)
		return
	}
	_ = a.exchange.Send(CoordinatorName, msg)
}
