// Package dataset loads the two input files the optimizers consume: the
// market table (opening hours as "HH:MM" clock strings, display coordinates)
// and the directed travel-time matrix (per-mode second durations between
// market pairs). Clock strings become minutes since midnight and travel
// durations become whole minutes on load, so the rest of the module only ever
// sees integer minutes.
package dataset
