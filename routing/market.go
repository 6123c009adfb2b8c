package routing

import (
	"fmt"
	"sort"
)

// Market is a visitable location with an opening window. Lat/Lon are
// display-only coordinates carried through from the dataset; the optimizers
// never read them.
type Market struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Opens  int     `json:"opens_minutes"`  // minutes since midnight
	Closes int     `json:"closes_minutes"` // minutes since midnight
	Lat    float64 `json:"lat,omitempty"`
	Lon    float64 `json:"lon,omitempty"`
}

// Markets maps market id to market. The active set shrinks between planning
// days as visited markets are removed.
type Markets map[int]Market

// IDs returns the market ids in ascending order. The deterministic order
// matters wherever candidates are iterated while drawing random numbers.
func (m Markets) IDs() []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Without returns a copy of m with every market in tour removed. Used by the
// day driver to retire the markets visited by the day's best route.
func (m Markets) Without(tour Tour) Markets {
	visited := make(map[int]struct{}, len(tour))
	for _, id := range tour {
		visited[id] = struct{}{}
	}

	rest := make(Markets, len(m))
	for id, market := range m {
		if _, ok := visited[id]; !ok {
			rest[id] = market
		}
	}
	return rest
}

// Validate checks structural soundness of the market table.
func (m Markets) Validate() error {
	if len(m) == 0 {
		return fmt.Errorf("routing: empty market table")
	}
	for id, market := range m {
		if id != market.ID {
			return fmt.Errorf("routing: market %d stored under key %d", market.ID, id)
		}
		if market.Opens < 0 || market.Closes <= market.Opens {
			return fmt.Errorf("routing: market %d has invalid window [%d, %d]", id, market.Opens, market.Closes)
		}
	}
	return nil
}

// Tour is an ordered sequence of distinct market ids.
type Tour []int

// Clone returns an independent copy of the tour.
func (t Tour) Clone() Tour {
	out := make(Tour, len(t))
	copy(out, t)
	return out
}

// FormatClock converts minutes since midnight to "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
