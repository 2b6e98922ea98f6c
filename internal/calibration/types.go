// Package calibration persists dispatch outcomes and learned keyword/agent
// adjustment weights. The store follows a strict read-modify-write cycle over
// a single JSON document: every mutation reloads the full structure, applies
// the change, recomputes stats, and atomically replaces the file. Corrupt or
// missing state degrades to a fresh default structure, never to an error.
package calibration

import (
	"time"

	"hookmind/internal/types"
)

// SchemaVersion identifies the persisted document layout.
const SchemaVersion = 1

// Record is one immutable dispatch outcome fact.
type Record struct {
	Timestamp          time.Time      `json:"timestamp"`
	SessionID          string         `json:"sessionId,omitempty"`
	Agent              string         `json:"agent"`
	PromptHash         string         `json:"promptHash"`
	MatchedKeywords    []string       `json:"matchedKeywords,omitempty"`
	DispatchConfidence float64        `json:"dispatchConfidence"`
	Outcome            types.Outcome  `json:"outcome"`
	DurationMS         int64          `json:"durationMs,omitempty"`
	Feedback           types.Feedback `json:"feedback,omitempty"`
}

// Adjustment is the learned weight for one (keyword, agent) pairing.
// Only success moves it up and failure/rejection moves it down; partial
// outcomes leave it untouched.
type Adjustment struct {
	Keyword     string    `json:"keyword"`
	Agent       string    `json:"agent"`
	Adjustment  int       `json:"adjustment"`  // clamped to [-AdjustmentBound, +AdjustmentBound]
	SampleCount int       `json:"sampleCount"` // monotonically increasing
	LastUpdated time.Time `json:"lastUpdated"`
}

// AgentStats summarizes one agent's dispatch history.
type AgentStats struct {
	Agent       string  `json:"agent"`
	Dispatches  int     `json:"dispatches"`
	SuccessRate float64 `json:"successRate"`
}

// Stats is the aggregate summary recomputed on every mutation.
type Stats struct {
	TotalDispatches int          `json:"totalDispatches"`
	SuccessRate     float64      `json:"successRate"`
	AvgConfidence   float64      `json:"avgConfidence"`
	TopAgents       []AgentStats `json:"topAgents,omitempty"`
}

// Data is the aggregate persisted unit, owned exclusively by the Store.
type Data struct {
	SchemaVersion int          `json:"schemaVersion"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
	Records       []Record     `json:"records"`
	Adjustments   []Adjustment `json:"adjustments"`
	Stats         Stats        `json:"stats"`
}

// RecordInput carries the parameters of one Record call. Duration and
// Feedback are optional.
type RecordInput struct {
	Prompt          string
	Agent           string
	MatchedKeywords []string
	Confidence      float64
	Outcome         types.Outcome
	SessionID       string
	Duration        time.Duration
	Feedback        types.Feedback
}
