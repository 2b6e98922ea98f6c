// Package types defines the shared domain types for the hookmind decision
// core: extracted intent signals, dispatch outcomes, retry decisions, and
// execution attempts. Components exchange these types; none of them carry
// behavior beyond small helpers, so the package has no dependencies.
package types

import (
	"fmt"
	"time"
)

// SignalKind classifies an extracted intent signal.
type SignalKind string

const (
	SignalDecision   SignalKind = "decision"
	SignalPreference SignalKind = "preference"
	SignalProblem    SignalKind = "problem"
	SignalQuestion   SignalKind = "question"
)

// Signal is one detected utterance fragment. Signals are created per prompt,
// tagged and logged by the caller, then discarded; they are never mutated
// and never persisted as-is.
type Signal struct {
	Kind       SignalKind `json:"kind"`
	Confidence float64    `json:"confidence"` // [0.1, 0.99]
	Text       string     `json:"text"`       // matched substring, <= 300 chars

	// Entities holds canonical technology/pattern/tool names mentioned
	// near the match. Canonicalization happens in the extractor.
	Entities []string `json:"entities,omitempty"`

	// Rationale is the first justification clause found near the match
	// ("because ..."), <= 200 chars.
	Rationale string `json:"rationale,omitempty"`

	// Alternatives lists rejected options. Decisions only.
	Alternatives []string `json:"alternatives,omitempty"`

	Constraints []string `json:"constraints,omitempty"` // <= 5, each <= 200 chars
	Tradeoffs   []string `json:"tradeoffs,omitempty"`   // <= 5, each <= 200 chars

	// Position is the character offset of the match in the source prompt.
	// Used only to deduplicate overlapping matches; never persisted.
	Position int `json:"-"`
}

// Outcome is the closed set of dispatch results.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomePartial  Outcome = "partial"
	OutcomeFailure  Outcome = "failure"
	OutcomeRejected Outcome = "rejected"
)

// ParseOutcome validates a raw outcome string against the closed set.
func ParseOutcome(s string) (Outcome, error) {
	switch Outcome(s) {
	case OutcomeSuccess, OutcomePartial, OutcomeFailure, OutcomeRejected:
		return Outcome(s), nil
	}
	return "", fmt.Errorf("unknown outcome %q", s)
}

// Terminal reports whether the outcome ends the attempt sequence for a task.
func (o Outcome) Terminal() bool {
	return o == OutcomeSuccess || o == OutcomeRejected
}

// Feedback is optional user feedback attached to a calibration record.
type Feedback string

const (
	FeedbackPositive Feedback = "positive"
	FeedbackNegative Feedback = "negative"
	FeedbackNeutral  Feedback = "neutral"
)

// RetryDecision is the derived (never persisted) verdict of the retry policy.
type RetryDecision struct {
	ShouldRetry      bool          `json:"should_retry"`
	RetryCount       int           `json:"retry_count"`
	MaxRetries       int           `json:"max_retries"`
	AlternativeAgent string        `json:"alternative_agent,omitempty"`
	Reason           string        `json:"reason"`
	Delay            time.Duration `json:"delay,omitempty"`
}

// ExecutionAttempt is a single try of an agent. A sequence of attempts for
// one logical task drives the retry policy and, once terminal, a calibration
// record.
type ExecutionAttempt struct {
	ID        string        `json:"id"`
	Agent     string        `json:"agent"`
	TaskID    string        `json:"task_id,omitempty"`
	Attempt   int           `json:"attempt"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at,omitempty"`
	Outcome   Outcome       `json:"outcome,omitempty"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
}
