package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/florianmende/marketroute/routing"
)

// Mode selects which travel-time variant of the matrix to use.
type Mode string

// Travel modes present in the travel-time files.
const (
	ModeWalking Mode = "walking"
	ModeTransit Mode = "transit"
	ModeDriving Mode = "driving"
)

// ParseMode validates a mode string from configuration.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeWalking, ModeTransit, ModeDriving:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("dataset: unknown travel mode %q", s)
	}
}

// place mirrors one entry of the places file. Opening hours are clock
// strings; coordinates may be absent when geocoding failed upstream.
type place struct {
	ID        int      `json:"id"`
	Name      string   `json:"Name"`
	Opens     string   `json:"Opens"`
	Closes    string   `json:"Closes"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// LoadMarkets reads the places file and converts it into the domain table.
func LoadMarkets(path string) (routing.Markets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read places file: %w", err)
	}

	var places []place
	if err := json.Unmarshal(data, &places); err != nil {
		return nil, fmt.Errorf("dataset: parse places file %s: %w", path, err)
	}

	markets := make(routing.Markets, len(places))
	for _, p := range places {
		opens, err := ParseClock(p.Opens)
		if err != nil {
			return nil, fmt.Errorf("dataset: market %d opening time: %w", p.ID, err)
		}
		closes, err := ParseClock(p.Closes)
		if err != nil {
			return nil, fmt.Errorf("dataset: market %d closing time: %w", p.ID, err)
		}

		m := routing.Market{ID: p.ID, Name: p.Name, Opens: opens, Closes: closes}
		if p.Latitude != nil {
			m.Lat = *p.Latitude
		}
		if p.Longitude != nil {
			m.Lon = *p.Longitude
		}
		markets[p.ID] = m
	}

	if err := markets.Validate(); err != nil {
		return nil, err
	}
	return markets, nil
}

// LoadTravelTimes reads the travel-time file and extracts the requested mode,
// truncating second durations to whole minutes. Keys in the file are decimal
// market-id strings on both levels.
func LoadTravelTimes(path string, mode Mode) (routing.TravelTimes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read travel times file: %w", err)
	}

	var raw map[string]map[string]map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("dataset: parse travel times file %s: %w", path, err)
	}

	travel := make(routing.TravelTimes, len(raw))
	for fromKey, destinations := range raw {
		from, err := strconv.Atoi(fromKey)
		if err != nil {
			return nil, fmt.Errorf("dataset: travel time origin key %q: %w", fromKey, err)
		}
		for toKey, modes := range destinations {
			to, err := strconv.Atoi(toKey)
			if err != nil {
				return nil, fmt.Errorf("dataset: travel time destination key %q: %w", toKey, err)
			}
			travel.Set(from, to, modes[string(mode)]/60)
		}
	}

	return travel, nil
}

// ParseClock converts a "HH:MM" clock string to minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("dataset: invalid clock string %q", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("dataset: invalid clock string %q: %w", s, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("dataset: invalid clock string %q: %w", s, err)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("dataset: clock string %q out of range", s)
	}
	return hours*60 + minutes, nil
}
