package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioFixture(cOpens, cCloses int) (Markets, TravelTimes) {
	markets := Markets{
		1: {ID: 1, Name: "A", Opens: 0, Closes: 700},
		2: {ID: 2, Name: "B", Opens: 0, Closes: 700},
		3: {ID: 3, Name: "C", Opens: cOpens, Closes: cCloses},
	}
	travel := TravelTimes{}
	for _, from := range []int{1, 2, 3} {
		for _, to := range []int{1, 2, 3} {
			if from != to {
				travel.Set(from, to, 10)
			}
		}
	}
	return markets, travel
}

func TestBuildSchedule_TimingAndWaiting(t *testing.T) {
	markets, travel := scenarioFixture(100, 300)

	// A(open 0) -> B -> C(open 100): service 30, travel 10.
	sched, err := BuildSchedule(Tour{1, 2, 3}, markets, travel, 30)
	require.NoError(t, err)
	require.Len(t, sched.Stops, 3)

	// Seed arrives at its opening time.
	assert.Equal(t, 0, sched.Stops[0].Arrival)
	assert.Equal(t, 30, sched.Stops[0].Departure)

	// B: depart A at 30, arrive 40, leave 70.
	assert.Equal(t, 40, sched.Stops[1].Arrival)
	assert.Equal(t, 0, sched.Stops[1].Waiting)

	// C: arrive 80 but clamped to its 100 opening.
	assert.Equal(t, 100, sched.Stops[2].Arrival)
	assert.Equal(t, 20, sched.Stops[2].Waiting)
	assert.Equal(t, 130, sched.Stops[2].Departure)

	assert.Equal(t, 20, sched.TotalTravel)
	assert.Equal(t, 20, sched.TotalWaiting)
	assert.Equal(t, 90, sched.TotalService)
	assert.Equal(t, 0, sched.Start())
	assert.Equal(t, 130, sched.End())
}

func TestBuildSchedule_ArrivalsNonDecreasingAndWithinWindows(t *testing.T) {
	markets, travel := scenarioFixture(100, 300)
	serviceTime := 30

	sched, err := BuildSchedule(Tour{2, 1, 3}, markets, travel, serviceTime)
	require.NoError(t, err)

	prev := -1
	for _, stop := range sched.Stops {
		assert.GreaterOrEqual(t, stop.Arrival, prev)
		market := markets[stop.MarketID]
		assert.GreaterOrEqual(t, stop.Arrival, market.Opens)
		assert.LessOrEqual(t, stop.Arrival+serviceTime, market.Closes)
		prev = stop.Arrival
	}
}

func TestBuildSchedule_WindowViolation(t *testing.T) {
	// C closes at 120: arrival is clamped to 100 and service would end at
	// 130, past closing, so a 3-stop tour is infeasible.
	markets, travel := scenarioFixture(100, 120)

	_, err := BuildSchedule(Tour{1, 2, 3}, markets, travel, 30)
	assert.ErrorIs(t, err, ErrInfeasible)

	// The 2-stop tour remains fine.
	_, err = BuildSchedule(Tour{1, 2}, markets, travel, 30)
	assert.NoError(t, err)
}

func TestBuildSchedule_RejectsRepeatsAndUnknowns(t *testing.T) {
	markets, travel := scenarioFixture(100, 300)

	_, err := BuildSchedule(Tour{1, 2, 1}, markets, travel, 30)
	assert.Error(t, err)

	_, err = BuildSchedule(Tour{1, 99}, markets, travel, 30)
	assert.Error(t, err)
}

func TestBuildSchedule_Empty(t *testing.T) {
	markets, travel := scenarioFixture(100, 300)

	sched, err := BuildSchedule(nil, markets, travel, 30)
	require.NoError(t, err)
	assert.Empty(t, sched.Stops)
	assert.Equal(t, 0, sched.Start())
	assert.Equal(t, 0, sched.End())
}

func TestFeasibleSubsequence_SkipsAndContinues(t *testing.T) {
	// C's window is too tight; the walk skips it and still visits B.
	markets, travel := scenarioFixture(100, 120)

	tour := FeasibleSubsequence([]int{1, 3, 2}, markets, travel, 30)
	assert.Equal(t, Tour{1, 2}, tour)
}

func TestFeasibleSubsequence_FullWhenAllReachable(t *testing.T) {
	markets, travel := scenarioFixture(100, 300)

	tour := FeasibleSubsequence([]int{1, 2, 3}, markets, travel, 30)
	assert.Equal(t, Tour{1, 2, 3}, tour)
}
