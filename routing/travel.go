package routing

import "fmt"

// TravelTimes is a directed minute-duration matrix between market ids. The
// matrix may be asymmetric; the self-pair duration is zero and never
// traversed.
type TravelTimes map[int]map[int]int

// Get returns the travel time from one market to another. Missing pairs and
// self-pairs read as zero.
func (tt TravelTimes) Get(from, to int) int {
	if from == to {
		return 0
	}
	return tt[from][to]
}

// Set records the travel time for a directed pair.
func (tt TravelTimes) Set(from, to, minutes int) {
	row, ok := tt[from]
	if !ok {
		row = make(map[int]int)
		tt[from] = row
	}
	row[to] = minutes
}

// Validate checks that every directed pair between the given markets is
// present and non-negative.
func (tt TravelTimes) Validate(markets Markets) error {
	for _, from := range markets.IDs() {
		for _, to := range markets.IDs() {
			if from == to {
				continue
			}
			row, ok := tt[from]
			if !ok {
				return fmt.Errorf("routing: no travel times from market %d", from)
			}
			minutes, ok := row[to]
			if !ok {
				return fmt.Errorf("routing: missing travel time %d -> %d", from, to)
			}
			if minutes < 0 {
				return fmt.Errorf("routing: negative travel time %d -> %d", from, to)
			}
		}
	}
	return nil
}
