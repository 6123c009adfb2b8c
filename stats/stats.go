package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/florianmende/marketroute/routing"
)

// DayResult is the outcome of one planning day for one algorithm.
type DayResult struct {
	Day       int          `json:"day"`
	Algorithm string       `json:"algorithm"`
	Tour      routing.Tour `json:"tour"`
	Count     int          `json:"count"`
	// Iteration is the iteration in which the ACO best was first achieved;
	// zero for the GA.
	Iteration int     `json:"iteration,omitempty"`
	Seconds   float64 `json:"seconds"`
}

// RunRecord is one complete run: parameters, per-day results and the total
// score (sum of per-day visit counts).
type RunRecord struct {
	Timestamp  time.Time      `json:"timestamp"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Success    bool           `json:"success"`
	TotalScore int            `json:"total_score"`
	Days       []DayResult    `json:"days"`
}

// Recorder accumulates day results for a single run. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	record RunRecord
}

// NewRecorder starts a run record with the given parameter snapshot.
func NewRecorder(parameters map[string]any) *Recorder {
	return &Recorder{record: RunRecord{
		Timestamp:  time.Now().UTC(),
		Parameters: parameters,
	}}
}

// RecordDay appends one day's outcome.
func (r *Recorder) RecordDay(result DayResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record.Days = append(r.record.Days, result)
	r.record.TotalScore += result.Count
}

// Finish marks the run's success and returns the completed record.
func (r *Recorder) Finish(success bool) RunRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record.Success = success
	return r.record
}

// WriteJSON writes the record into dir as a timestamped file and returns the
// path. The directory is created when missing.
func (r *Recorder) WriteJSON(dir string) (string, error) {
	r.mu.Lock()
	record := r.record
	r.mu.Unlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("stats: create output dir: %w", err)
	}

	name := fmt.Sprintf("results_%s.json", record.Timestamp.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("stats: encode run record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("stats: write %s: %w", path, err)
	}
	return path, nil
}

// Summary aggregates a set of run records.
type Summary struct {
	Runs        int     `json:"runs"`
	Successes   int     `json:"successes"`
	MeanScore   float64 `json:"mean_score"`
	MaxScore    int     `json:"max_score"`
	MeanSeconds float64 `json:"mean_seconds"`
}

// Summarize computes aggregate statistics over run records, e.g. the output
// of a parameter grid search.
func Summarize(records []RunRecord) Summary {
	var s Summary
	s.Runs = len(records)
	if s.Runs == 0 {
		return s
	}

	totalScore := 0
	totalSeconds := 0.0
	for _, rec := range records {
		if rec.Success {
			s.Successes++
		}
		totalScore += rec.TotalScore
		if rec.TotalScore > s.MaxScore {
			s.MaxScore = rec.TotalScore
		}
		for _, day := range rec.Days {
			totalSeconds += day.Seconds
		}
	}

	s.MeanScore = float64(totalScore) / float64(s.Runs)
	s.MeanSeconds = totalSeconds / float64(s.Runs)
	return s
}
