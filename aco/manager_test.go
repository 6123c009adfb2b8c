package aco

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/florianmende/marketroute/comms"
	"github.com/florianmende/marketroute/internal/testutil"
	"github.com/florianmende/marketroute/routing"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.NumAnts = 3
	cfg.NumIterations = 3
	cfg.QueryTimeout = 500 * time.Millisecond
	cfg.CompletionTimeout = 2 * time.Second
	cfg.AckTimeout = 500 * time.Millisecond
	cfg.BestSolutionTimeout = 500 * time.Millisecond
	cfg.Seed = 42
	return cfg
}

func wideFixture() (routing.Markets, routing.TravelTimes) {
	return testutil.NewFixture().
		Market(1, 0, 700).
		Market(2, 0, 700).
		Market(3, 0, 700).
		UniformTravel(10).
		Build()
}

// managerHarness drives a Manager synchronously through its message handler
// and reads replies from a probe mailbox.
type managerHarness struct {
	t       *testing.T
	manager *Manager
	probe   *comms.Mailbox
}

func newManagerHarness(t *testing.T, cfg Config) *managerHarness {
	t.Helper()
	markets, _ := wideFixture()
	ex := comms.NewExchange()
	probe := ex.Register("probe")
	return &managerHarness{t: t, manager: NewManager(ex, markets, cfg, nil), probe: probe}
}

func (h *managerHarness) send(p comms.Performative, payload any) {
	h.t.Helper()
	msg, err := comms.NewMessage("probe", p, payload)
	require.NoError(h.t, err)
	h.manager.handle(msg)
}

// call sends a correlated request and returns the manager's reply.
func (h *managerHarness) call(p comms.Performative, payload any) comms.Message {
	h.t.Helper()
	msg, err := comms.NewMessage("probe", p, payload)
	require.NoError(h.t, err)
	msg.CorrelationID = comms.NewID()
	h.manager.handle(msg)

	resp, err := h.probe.ReceiveTimeout(context.Background(), time.Second)
	require.NoError(h.t, err)
	return resp
}

func (h *managerHarness) query(from, to int) float64 {
	h.t.Helper()
	resp := h.call(comms.QueryPheromone, QueryPheromonePayload{From: from, To: to})
	require.Equal(h.t, comms.PheromoneResponse, resp.Performative)

	var p PheromoneResponsePayload
	require.NoError(h.t, resp.Decode(&p))
	return p.Pheromone
}

func (h *managerHarness) deposit(tour []int, iteration, antID int) {
	h.send(comms.DepositPheromone, DepositPheromonePayload{
		Tour: tour, NumMarkets: len(tour), IterationID: iteration, AntID: antID,
	})
}

func (h *managerHarness) endIteration(iteration int) {
	resp := h.call(comms.EndIteration, EndIterationPayload{IterationID: iteration})
	require.Equal(h.t, comms.IterationUpdated, resp.Performative)

	var ack IterationUpdatedPayload
	require.NoError(h.t, resp.Decode(&ack))
	require.Equal(h.t, iteration, ack.IterationID)
}

func (h *managerHarness) best() BestSolutionPayload {
	resp := h.call(comms.GetBestSolution, GetBestSolutionPayload{})
	require.Equal(h.t, comms.BestSolutionResponse, resp.Performative)

	var p BestSolutionPayload
	require.NoError(h.t, resp.Decode(&p))
	return p
}

func TestManager_QueryReturnsInitialValueForUnseenEdge(t *testing.T) {
	h := newManagerHarness(t, testConfig())

	assert.Equal(t, 1.0, h.query(1, 2))
	// Edges outside the matrix also answer with the initial value.
	assert.Equal(t, 1.0, h.query(1, 99))
}

func TestManager_DepositDoesNotMutateUntilIterationEnd(t *testing.T) {
	h := newManagerHarness(t, testConfig())

	h.deposit([]int{1, 2, 3}, 1, 0)

	// Buffered-apply atomicity: a query answered before the iteration is
	// applied observes the prior state...
	assert.Equal(t, 1.0, h.query(1, 2))

	h.endIteration(1)

	// ...and one answered after the acknowledgment observes the fully
	// evaporated and reinforced state in one step.
	expected := 1.0*0.5 + (3.0/3.0)*2.0
	assert.InDelta(t, expected, h.query(1, 2), 1e-9)
	assert.InDelta(t, expected, h.query(2, 3), 1e-9)
	assert.InDelta(t, 0.5, h.query(3, 1), 1e-9)
}

func TestManager_ElitistReinforcementArithmetic(t *testing.T) {
	// Single 2-stop winning tour over 3 markets, alpha/beta defaults,
	// decay 0.5, reward multiplier 2.0: the winning edge ends at
	// 1.0*0.5 + (2/3)*2.0.
	h := newManagerHarness(t, testConfig())

	h.deposit([]int{1, 2}, 1, 0)
	h.endIteration(1)

	assert.InDelta(t, 1.0*0.5+(2.0/3.0)*2.0, h.query(1, 2), 1e-9)
	assert.InDelta(t, 0.5, h.query(2, 1), 1e-9)
}

func TestManager_TieBreakFirstDeposited(t *testing.T) {
	h := newManagerHarness(t, testConfig())

	h.deposit([]int{1, 2}, 1, 0)
	h.deposit([]int{2, 3}, 1, 1)
	h.endIteration(1)

	best := h.best()
	assert.Equal(t, 2, best.BestCount)
	assert.Equal(t, []int{1, 2}, best.BestTour)
	assert.Equal(t, 1, best.Iteration)
}

func TestManager_GlobalBestIsMonotonic(t *testing.T) {
	h := newManagerHarness(t, testConfig())

	h.deposit([]int{1, 2}, 1, 0)
	h.endIteration(1)
	require.Equal(t, 2, h.best().BestCount)

	// A worse iteration must not displace the global best.
	h.deposit([]int{3}, 2, 0)
	h.endIteration(2)

	best := h.best()
	assert.Equal(t, 2, best.BestCount)
	assert.Equal(t, []int{1, 2}, best.BestTour)
	assert.Equal(t, 1, best.Iteration)

	// Only a strict improvement appends a new record.
	h.deposit([]int{1, 2, 3}, 3, 0)
	h.endIteration(3)

	best = h.best()
	assert.Equal(t, 3, best.BestCount)
	assert.Equal(t, 3, best.Iteration)
}

func TestManager_EmptyIterationStillEvaporates(t *testing.T) {
	h := newManagerHarness(t, testConfig())

	h.endIteration(1)

	assert.InDelta(t, 0.5, h.query(1, 2), 1e-9)
	assert.Equal(t, 0, h.best().BestCount)
	assert.Empty(t, h.best().BestTour)
}

func TestManager_PheromoneFlooredAfterRepeatedEvaporation(t *testing.T) {
	cfg := testConfig()
	h := newManagerHarness(t, cfg)

	// 0.5^30 is far below the floor; values must clamp, never reach zero.
	for i := 1; i <= 30; i++ {
		h.endIteration(i)
	}

	v := h.query(1, 2)
	assert.Equal(t, cfg.MinPheromone, v)
	assert.Positive(t, v)
}

func TestManager_BestSolutionBeforeAnyIteration(t *testing.T) {
	h := newManagerHarness(t, testConfig())

	best := h.best()
	assert.Equal(t, 0, best.BestCount)
	assert.Empty(t, best.BestTour)
}

func TestManager_DropsMalformedMessages(t *testing.T) {
	h := newManagerHarness(t, testConfig())

	msg, err := comms.NewMessage("probe", comms.DepositPheromone, nil)
	require.NoError(t, err)
	msg.Body = []byte(`{"tour": "oops"`)
	h.manager.handle(msg)

	h.endIteration(1)
	assert.Equal(t, 0, h.best().BestCount)
}
