// Package aco implements ant colony optimization for time-windowed market
// routes as a protocol between three kinds of agents coordinated purely
// through asynchronous messages (package comms):
//
//   - Ant: stochastically constructs one feasible tour per iteration,
//     querying the pheromone manager edge by edge
//   - Manager: single-owner actor for the pheromone matrix; buffers deposits
//     during an iteration and applies evaporation plus elitist reinforcement
//     in one indivisible step at iteration end
//   - Coordinator: drives the iteration loop with a completion barrier and
//     bounded waits, degrading gracefully when agents fail to report
//
// Colony wires the agents together for one planning day: every agent runs as
// its own goroutine, owns its state exclusively and shares nothing. All waits
// are bounded and cancellable, so a run always terminates within its
// iteration budget regardless of individual agent failures.
package aco
