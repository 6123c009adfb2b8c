package marketroute

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/florianmende/marketroute/config"
	"github.com/florianmende/marketroute/internal/testutil"
	"github.com/florianmende/marketroute/routing"
	"github.com/florianmende/marketroute/stats"
)

func testConfig(serviceTime, days int) config.Config {
	cfg := config.Default()
	cfg.Days = days
	cfg.ServiceTime = serviceTime
	cfg.PlacesFile = "places.json"
	cfg.TravelTimesFile = "travel.json"

	cfg.ACO.ServiceTime = serviceTime
	cfg.ACO.NumAnts = 4
	cfg.ACO.NumIterations = 3
	cfg.ACO.Seed = 1
	cfg.ACO.QueryTimeout = 500 * time.Millisecond
	cfg.ACO.CompletionTimeout = 5 * time.Second
	cfg.ACO.AckTimeout = time.Second
	cfg.ACO.BestSolutionTimeout = time.Second

	cfg.GA.ServiceTime = serviceTime
	cfg.GA.PopulationSize = 20
	cfg.GA.Generations = 30
	cfg.GA.Seed = 7
	return cfg
}

func TestPlanDays_SpreadsMarketsAcrossDays(t *testing.T) {
	// A 200 minute service in a 0..700 window fits three visits per day, so
	// four markets need a second day for the leftover one.
	markets, travel := testutil.NewFixture().
		Market(1, 0, 700).
		Market(2, 0, 700).
		Market(3, 0, 700).
		Market(4, 0, 700).
		UniformTravel(10).
		Build()

	planner, err := New(markets, travel, testConfig(200, 2))
	require.NoError(t, err)

	recorder := stats.NewRecorder(nil)
	plans, err := planner.PlanDays(context.Background(), AlgorithmACO, recorder)
	require.NoError(t, err)
	require.Len(t, plans, 2)

	assert.Equal(t, 3, plans[0].Best.Count)
	assert.Equal(t, 1, plans[1].Best.Count)

	// Days never revisit a market.
	visited := make(map[int]int)
	for _, plan := range plans {
		for _, id := range plan.Best.Tour {
			visited[id]++
		}
	}
	assert.Len(t, visited, 4)
	for id, n := range visited {
		assert.Equal(t, 1, n, "market %d", id)
	}

	record := recorder.Finish(true)
	assert.Equal(t, 4, record.TotalScore)
	require.Len(t, record.Days, 2)
	assert.Equal(t, 1, record.Days[0].Day)
	assert.Equal(t, 2, record.Days[1].Day)
}

func TestPlanDays_StopsEarlyWhenAllCovered(t *testing.T) {
	markets, travel := testutil.NewFixture().
		Market(1, 0, 700).
		Market(2, 0, 700).
		Market(3, 0, 700).
		UniformTravel(10).
		Build()

	planner, err := New(markets, travel, testConfig(30, 5))
	require.NoError(t, err)

	plans, err := planner.PlanDays(context.Background(), AlgorithmACO, nil)
	require.NoError(t, err)

	require.Len(t, plans, 1)
	assert.Equal(t, 3, plans[0].Best.Count)
	require.Len(t, plans[0].Schedule.Stops, 3)
}

func TestPlanDays_GeneticBaseline(t *testing.T) {
	markets, travel := testutil.NewFixture().
		Market(1, 0, 700).
		Market(2, 0, 700).
		Market(3, 0, 700).
		UniformTravel(10).
		Build()

	planner, err := New(markets, travel, testConfig(30, 1))
	require.NoError(t, err)

	plans, err := planner.PlanDays(context.Background(), AlgorithmGA, nil)
	require.NoError(t, err)

	require.Len(t, plans, 1)
	assert.Equal(t, AlgorithmGA, plans[0].Algorithm)
	assert.Equal(t, 3, plans[0].Best.Count)
}

func TestPlanDays_UnknownAlgorithm(t *testing.T) {
	markets, travel := testutil.NewFixture().
		Market(1, 0, 700).
		Market(2, 0, 700).
		UniformTravel(10).
		Build()

	planner, err := New(markets, travel, testConfig(30, 1))
	require.NoError(t, err)

	_, err = planner.PlanDays(context.Background(), Algorithm("annealing"), nil)
	assert.Error(t, err)
}

func TestNew_RejectsInvalidInputs(t *testing.T) {
	markets, travel := testutil.NewFixture().
		Market(1, 0, 700).
		Market(2, 0, 700).
		UniformTravel(10).
		Build()

	_, err := New(routing.Markets{}, travel, testConfig(30, 1))
	assert.Error(t, err)

	_, err = New(markets, routing.TravelTimes{}, testConfig(30, 1))
	assert.Error(t, err)

	bad := testConfig(30, 1)
	bad.Days = 0
	_, err = New(markets, travel, bad)
	assert.Error(t, err)
}
