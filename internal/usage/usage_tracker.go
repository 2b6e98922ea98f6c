// Package usage tracks token consumption per hook category and session. The
// throttle reads it to decide whether low-priority hooks run this cycle.
package usage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"hookmind/internal/logging"
)

// Tracker manages token usage recording and persistence.
type Tracker struct {
	mu       sync.Mutex
	data     Data
	filePath string
	dirty    bool
}

// NewTracker creates a usage tracker persisting under workspace/.hookmind.
// A corrupt or missing usage file starts the tracker empty.
func NewTracker(workspace string) (*Tracker, error) {
	stateDir := filepath.Join(workspace, ".hookmind")
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}

	t := &Tracker{
		filePath: filepath.Join(stateDir, "usage.json"),
		data: Data{
			Version: "1.0",
			Aggregate: AggregatedStats{
				ByCategory: make(map[string]TokenCounts),
				BySession:  make(map[string]TokenCounts),
			},
		},
	}
	if err := t.Load(); err != nil {
		logging.Get(logging.CategoryUsage).Warnw("starting with empty usage data", "error", err)
	}
	return t, nil
}

// Load reads the usage data from disk.
func (t *Tracker) Load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	raw, err := os.ReadFile(t.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, &t.data); err != nil {
		return err
	}

	if t.data.Aggregate.ByCategory == nil {
		t.data.Aggregate.ByCategory = make(map[string]TokenCounts)
	}
	if t.data.Aggregate.BySession == nil {
		t.data.Aggregate.BySession = make(map[string]TokenCounts)
	}
	return nil
}

// Save writes the usage data to disk.
func (t *Tracker) Save() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saveLocked()
}

func (t *Tracker) saveLocked() error {
	raw, err := json.MarshalIndent(t.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(t.filePath, raw, 0644)
}

// Track records a usage event against a category and session.
func (t *Tracker) Track(category, sessionID string, input, output int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.data.Aggregate.Total.Add(input, output)
	addToMap(t.data.Aggregate.ByCategory, category, input, output)
	if sessionID != "" {
		addToMap(t.data.Aggregate.BySession, sessionID, input, output)
	}

	// Debounced autosave keeps bursty hook cycles from rewriting the file
	// on every event.
	if !t.dirty {
		t.dirty = true
		time.AfterFunc(5*time.Second, func() {
			if err := t.Save(); err != nil {
				logging.Get(logging.CategoryUsage).Errorw("usage autosave failed", "error", err)
			}
			t.mu.Lock()
			t.dirty = false
			t.mu.Unlock()
		})
	}
}

// TotalTokens returns the total token consumption. Part of the throttle's
// UsageReader contract.
func (t *Tracker) TotalTokens() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int(t.data.Aggregate.Total.Total)
}

// CategoryTokens returns token consumption for one category. Part of the
// throttle's UsageReader contract.
func (t *Tracker) CategoryTokens(category string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int(t.data.Aggregate.ByCategory[category].Total)
}

// Stats returns a copy of the aggregated stats.
func (t *Tracker) Stats() AggregatedStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	stats := t.data.Aggregate
	stats.ByCategory = copyCounts(stats.ByCategory)
	stats.BySession = copyCounts(stats.BySession)
	return stats
}

// Reset zeroes all counters. The wrapper calls this at the start of a new
// budget cycle.
func (t *Tracker) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.Aggregate = AggregatedStats{
		ByCategory: make(map[string]TokenCounts),
		BySession:  make(map[string]TokenCounts),
	}
	return t.saveLocked()
}

func copyCounts(src map[string]TokenCounts) map[string]TokenCounts {
	if src == nil {
		return nil
	}
	dst := make(map[string]TokenCounts, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func addToMap(m map[string]TokenCounts, key string, input, output int) {
	entry := m[key]
	entry.Add(input, output)
	m[key] = entry
}
