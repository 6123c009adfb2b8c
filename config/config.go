package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/florianmende/marketroute/aco"
	"github.com/florianmende/marketroute/dataset"
	"github.com/florianmende/marketroute/ga"
)

// Config is the complete run configuration.
type Config struct {
	// Days is the number of planning days the driver covers.
	Days int `yaml:"days"`
	// ServiceTime is the shared per-market service duration in minutes.
	// It overrides the per-optimizer values so both use the same constant.
	ServiceTime int `yaml:"service_time"`
	// Mode selects the travel-time variant (walking, transit, driving).
	Mode string `yaml:"mode"`
	// Algorithm selects what to run: aco, ga or all.
	Algorithm string `yaml:"algorithm"`
	// PlacesFile is the path to the market table JSON.
	PlacesFile string `yaml:"places_file"`
	// TravelTimesFile is the path to the directed travel-time JSON.
	TravelTimesFile string `yaml:"travel_times_file"`
	// OutputDir receives the run statistics JSON; empty disables writing.
	OutputDir string `yaml:"output_dir"`

	ACO      aco.Config     `yaml:"aco"`
	GA       ga.Config      `yaml:"ga"`
	Timeouts TimeoutsConfig `yaml:"timeouts"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TimeoutsConfig carries the protocol's wait bounds as duration strings
// ("5s", "500ms"); parsed values are applied onto the ACO config.
type TimeoutsConfig struct {
	Query        string `yaml:"query"`
	Completion   string `yaml:"completion"`
	Ack          string `yaml:"ack"`
	BestSolution string `yaml:"best_solution"`
}

// LoggingConfig configures log level and format.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Days:        1,
		ServiceTime: 30,
		Mode:        string(dataset.ModeWalking),
		Algorithm:   "aco",
		ACO:         aco.DefaultConfig(),
		GA:          ga.DefaultConfig(),
		Logging:     LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment overrides. An empty path skips the file layer. Callers overlay
// any higher-precedence values (CLI flags) and then run Validate.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays MARKETROUTE_* environment variables over the file values.
func (c *Config) applyEnv() {
	c.PlacesFile = getEnv("MARKETROUTE_PLACES_FILE", c.PlacesFile)
	c.TravelTimesFile = getEnv("MARKETROUTE_TRAVEL_TIMES_FILE", c.TravelTimesFile)
	c.OutputDir = getEnv("MARKETROUTE_OUTPUT_DIR", c.OutputDir)
	c.Mode = getEnv("MARKETROUTE_MODE", c.Mode)
	c.Algorithm = getEnv("MARKETROUTE_ALGORITHM", c.Algorithm)
	c.Logging.Level = getEnv("MARKETROUTE_LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("MARKETROUTE_LOG_FORMAT", c.Logging.Format)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// normalize parses the raw timeout strings and pushes the shared service
// time into both optimizer configs.
func (c *Config) normalize() error {
	c.ACO.ServiceTime = c.ServiceTime
	c.GA.ServiceTime = c.ServiceTime

	for _, entry := range []struct {
		raw    string
		target *time.Duration
		name   string
	}{
		{c.Timeouts.Query, &c.ACO.QueryTimeout, "timeouts.query"},
		{c.Timeouts.Completion, &c.ACO.CompletionTimeout, "timeouts.completion"},
		{c.Timeouts.Ack, &c.ACO.AckTimeout, "timeouts.ack"},
		{c.Timeouts.BestSolution, &c.ACO.BestSolutionTimeout, "timeouts.best_solution"},
	} {
		if entry.raw == "" {
			continue
		}
		d, err := time.ParseDuration(entry.raw)
		if err != nil {
			return fmt.Errorf("config: %s: %w", entry.name, err)
		}
		*entry.target = d
	}
	return nil
}

// Validate reports the first configuration error, if any.
func (c Config) Validate() error {
	if c.Days <= 0 {
		return fmt.Errorf("config: days must be positive, got %d", c.Days)
	}
	if c.ServiceTime < 0 {
		return fmt.Errorf("config: service time must be non-negative, got %d", c.ServiceTime)
	}
	if _, err := dataset.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Algorithm {
	case "aco", "ga", "all":
	default:
		return fmt.Errorf("config: algorithm must be aco, ga or all, got %q", c.Algorithm)
	}
	if c.PlacesFile == "" {
		return fmt.Errorf("config: places file is required")
	}
	if c.TravelTimesFile == "" {
		return fmt.Errorf("config: travel times file is required")
	}
	if err := c.ACO.Validate(); err != nil {
		return err
	}
	return c.GA.Validate()
}
