// Package config loads the run configuration: which dataset files to use,
// how many planning days to cover and the hyperparameters of both optimizers.
// Configuration is layered (defaults, then an optional YAML file, then
// environment variable overrides) and validated before a run starts.
package config
