package usage

import "time"

// Data is the root structure persisted to .hookmind/usage.json.
type Data struct {
	Version   string          `json:"version"`
	Aggregate AggregatedStats `json:"aggregate"`
}

// Event is a single token-consuming hook invocation.
type Event struct {
	Timestamp    time.Time `json:"timestamp"`
	Category     string    `json:"category"` // skill-injection, memory-inject, ...
	SessionID    string    `json:"session_id"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
}

// AggregatedStats holds counters broken down by dimension.
type AggregatedStats struct {
	Total      TokenCounts            `json:"total"`
	ByCategory map[string]TokenCounts `json:"by_category"`
	BySession  map[string]TokenCounts `json:"by_session"`
}

// TokenCounts holds input/output sums.
type TokenCounts struct {
	Input  int64 `json:"input"`
	Output int64 `json:"output"`
	Total  int64 `json:"total"`
}

func (tc *TokenCounts) Add(input, output int) {
	tc.Input += int64(input)
	tc.Output += int64(output)
	tc.Total += int64(input + output)
}
