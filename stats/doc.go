// Package stats records the outcome of optimization runs (the parameters
// used, the per-day routes and scores, and timing) and writes them as JSON
// so separate runs can be compared and grid searches aggregated.
package stats
