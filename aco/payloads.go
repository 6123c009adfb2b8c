package aco

import "github.com/florianmende/marketroute/routing"

// Typed payloads for every performative on the wire. Field names match the
// JSON bodies the agents exchange; a payload that fails to decode is dropped
// by the receiver.

// StartIterationPayload is broadcast by the coordinator to every ant.
type StartIterationPayload struct {
	IterationID int `json:"iteration_id"`
}

// QueryPheromonePayload asks the manager for the strength of one directed edge.
type QueryPheromonePayload struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// PheromoneResponsePayload answers a pheromone query.
type PheromoneResponsePayload struct {
	From      int     `json:"from"`
	To        int     `json:"to"`
	Pheromone float64 `json:"pheromone"`
}

// DepositPheromonePayload submits an ant's finished tour for the current
// iteration. The matrix itself is untouched until the iteration ends.
type DepositPheromonePayload struct {
	Tour        []int `json:"tour"`
	NumMarkets  int   `json:"num_markets"`
	IterationID int   `json:"iteration_id"`
	AntID       int   `json:"ant_id"`
}

// TourCompletePayload notifies the coordinator that an ant finished its tour.
type TourCompletePayload struct {
	AntID       int `json:"ant_id"`
	IterationID int `json:"iteration_id"`
}

// EndIterationPayload tells the manager to apply the buffered iteration.
type EndIterationPayload struct {
	IterationID int `json:"iteration_id"`
}

// IterationUpdatedPayload acknowledges an applied iteration.
type IterationUpdatedPayload struct {
	IterationID int `json:"iteration_id"`
}

// GetBestSolutionPayload asks the manager for the best solution seen so far.
type GetBestSolutionPayload struct {
	IterationID int `json:"iteration_id"`
}

// BestSolutionPayload carries the current best tour and its score.
type BestSolutionPayload struct {
	BestCount int   `json:"best_count"`
	BestTour  []int `json:"best_tour"`
	Iteration int   `json:"iteration"`
}

// BestSolution is a recorded best tour: the visit order, how many markets it
// covers and the iteration in which it was first achieved.
type BestSolution struct {
	Tour      routing.Tour `json:"tour"`
	Count     int          `json:"count"`
	Iteration int          `json:"iteration"`
}
