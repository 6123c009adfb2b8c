package aco

import (
	"context"

	"github.com/florianmende/marketroute/comms"
	"github.com/florianmende/marketroute/logging"
	"github.com/florianmende/marketroute/routing"
)

// Manager is the single owner of the pheromone matrix. It runs as one
// goroutine handling one message at a time, so the matrix needs no locking:
// deposits only buffer tours, and the whole evaporate/reinforce sequence of
// an iteration is applied inside a single end_iteration handling step. Any
// query handled after the iteration_updated acknowledgment therefore observes
// the fully updated matrix, and any query handled before it observes the
// prior state.
type Manager struct {
	name     string
	exchange *comms.Exchange
	box      *comms.Mailbox
	cfg      Config
	logger   logging.Logger

	numLocations int
	pheromone    map[int]map[int]float64

	iteration     int
	pendingTours  []depositRecord
	bestSolutions []BestSolution
	globalBest    BestSolution
}

// depositRecord is one buffered tour submission awaiting iteration end.
type depositRecord struct {
	tour  routing.Tour
	count int
}

// NewManager creates the pheromone manager for one day's market set and
// registers its mailbox on the exchange. The matrix is initialized uniformly
// over every directed pair of active markets.
func NewManager(exchange *comms.Exchange, markets routing.Markets, cfg Config, logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	ids := markets.IDs()
	pheromone := make(map[int]map[int]float64, len(ids))
	for _, from := range ids {
		row := make(map[int]float64, len(ids)-1)
		for _, to := range ids {
			if from == to {
				continue
			}
			row[to] = cfg.InitialPheromone
		}
		pheromone[from] = row
	}

	return &Manager{
		name:         ManagerName,
		exchange:     exchange,
		box:          exchange.Register(ManagerName),
		cfg:          cfg,
		logger:       logger,
		numLocations: len(ids),
		pheromone:    pheromone,
	}
}

// Run processes messages until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	m.logger.Info("pheromone manager started", "markets", m.numLocations)
	for {
		msg, err := m.box.Receive(ctx)
		if err != nil {
			m.logger.Debug("pheromone manager stopping", "reason", err)
			return
		}
		m.handle(msg)
	}
}

func (m *Manager) handle(msg comms.Message) {
	switch msg.Performative {
	case comms.QueryPheromone:
		m.handleQuery(msg)
	case comms.DepositPheromone:
		m.handleDeposit(msg)
	case comms.EndIteration:
		m.handleEndIteration(msg)
	case comms.GetBestSolution:
		m.handleGetBestSolution(msg)
	default:
		m.logger.Debug("unexpected performative", "performative", string(msg.Performative), "sender", msg.Sender)
	}
}

// strength returns the stored value for a directed edge, or the configured
// initial value for an edge the matrix has never seen.
func (m *Manager) strength(from, to int) float64 {
	if row, ok := m.pheromone[from]; ok {
		if v, ok := row[to]; ok {
			return v
		}
	}
	return m.cfg.InitialPheromone
}

func (m *Manager) handleQuery(msg comms.Message) {
	var q QueryPheromonePayload
	if err := msg.Decode(&q); err != nil {
		m.logger.Debug("dropping malformed query", "error", err)
		return
	}

	resp, err := msg.Reply(m.name, comms.PheromoneResponse, PheromoneResponsePayload{
		From:      q.From,
		To:        q.To,
		Pheromone: m.strength(q.From, q.To),
	})
	if err != nil {
		m.logger.Error("encode pheromone response", "error", err)
		return
	}
	_ = m.exchange.Send(msg.Sender, resp)
}

func (m *Manager) handleDeposit(msg comms.Message) {
	var d DepositPheromonePayload
	if err := msg.Decode(&d); err != nil {
		m.logger.Debug("dropping malformed deposit", "error", err)
		return
	}

	// Buffered only: the matrix stays untouched until end_iteration so ants
	// querying mid-iteration never observe a partial update.
	m.pendingTours = append(m.pendingTours, depositRecord{tour: d.Tour, count: len(d.Tour)})
	m.logger.Debug("tour deposited", "ant", d.AntID, "count", len(d.Tour), "iteration", d.IterationID)
}

// handleEndIteration applies the buffered iteration in one indivisible step:
// evaporate every edge, pick the iteration's best tour, update the global
// best on strict improvement, reinforce the global best's edges and clear the
// buffer, then acknowledge.
func (m *Manager) handleEndIteration(msg comms.Message) {
	var e EndIterationPayload
	if err := msg.Decode(&e); err != nil {
		m.logger.Debug("dropping malformed end_iteration", "error", err)
		return
	}
	m.iteration = e.IterationID

	for _, row := range m.pheromone {
		for to, v := range row {
			v *= m.cfg.Decay
			if v < m.cfg.MinPheromone {
				v = m.cfg.MinPheromone
			}
			row[to] = v
		}
	}

	if best, ok := m.iterationBest(); ok && best.count > m.globalBest.Count {
		m.globalBest = BestSolution{Tour: best.tour.Clone(), Count: best.count, Iteration: m.iteration}
		m.bestSolutions = append(m.bestSolutions, m.globalBest)
		m.logger.Info("new global best", "count", best.count, "iteration", m.iteration)
	}

	m.reinforceGlobalBest()
	m.pendingTours = nil

	ack, err := msg.Reply(m.name, comms.IterationUpdated, IterationUpdatedPayload{IterationID: e.IterationID})
	if err != nil {
		m.logger.Error("encode iteration ack", "error", err)
		return
	}
	_ = m.exchange.Send(msg.Sender, ack)
}

// iterationBest scans the buffered tours in submission order. Ties on the
// maximum count resolve to the earliest-deposited tour; only a strictly
// greater count displaces the current candidate.
func (m *Manager) iterationBest() (depositRecord, bool) {
	if len(m.pendingTours) == 0 {
		return depositRecord{}, false
	}
	best := m.pendingTours[0]
	for _, rec := range m.pendingTours[1:] {
		if rec.count > best.count {
			best = rec
		}
	}
	return best, true
}

// reinforceGlobalBest adds the elitist deposit to every edge of the global
// best tour. Edges outside the current day's matrix (from earlier days) are
// created on demand so the addition is never lost.
func (m *Manager) reinforceGlobalBest() {
	if len(m.globalBest.Tour) < 2 || m.numLocations == 0 {
		return
	}

	deposit := float64(m.globalBest.Count) / float64(m.numLocations) * m.cfg.RewardMultiplier
	for i := 0; i < len(m.globalBest.Tour)-1; i++ {
		from, to := m.globalBest.Tour[i], m.globalBest.Tour[i+1]
		row, ok := m.pheromone[from]
		if !ok {
			row = make(map[int]float64)
			m.pheromone[from] = row
		}
		if _, ok := row[to]; !ok {
			row[to] = m.cfg.InitialPheromone
		}
		row[to] += deposit
	}
}

func (m *Manager) handleGetBestSolution(msg comms.Message) {
	best := m.globalBest
	if n := len(m.bestSolutions); n > 0 {
		best = m.bestSolutions[n-1]
	} else if best.Iteration == 0 {
		best.Iteration = m.iteration
	}

	tour := best.Tour
	if tour == nil {
		tour = routing.Tour{}
	}

	resp, err := msg.Reply(m.name, comms.BestSolutionResponse, BestSolutionPayload{
		BestCount: best.Count,
		BestTour:  tour,
		Iteration: best.Iteration,
	})
	if err != nil {
		m.logger.Error("encode best solution response", "error", err)
		return
	}
	_ = m.exchange.Send(msg.Sender, resp)
}
