// Package routing holds the domain model shared by the optimizers: markets
// with opening windows, the directed travel-time matrix, tours and schedule
// evaluation.
//
// All times are integer minutes. Opening and closing times are minutes since
// midnight; travel times are minute durations. A tour is feasible when every
// stop can be serviced inside its window given cumulative travel, waiting and
// service time. BuildSchedule is the single source of truth for that rule,
// used by the ant agents' tests, the GA fitness and the CLI evaluation.
package routing
