package retry

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"hookmind/internal/types"
)

// StartAttempt opens an execution attempt for an agent dispatch.
func StartAttempt(agent string, attempt int, taskID string) *types.ExecutionAttempt {
	return &types.ExecutionAttempt{
		ID:        uuid.NewString(),
		Agent:     agent,
		TaskID:    taskID,
		Attempt:   attempt,
		StartedAt: time.Now(),
	}
}

// CompleteAttempt closes an attempt with its outcome, computing the duration
// from the start/end timestamps.
func CompleteAttempt(a *types.ExecutionAttempt, outcome types.Outcome, errText string) {
	a.EndedAt = time.Now()
	a.Outcome = outcome
	a.Error = errText
	a.Duration = a.EndedAt.Sub(a.StartedAt)
}

// ErrorSignature groups attempt errors by their lower-cased 50-char prefix.
type ErrorSignature struct {
	Signature string `json:"signature"`
	Count     int    `json:"count"`
}

// Analysis summarizes a sequence of attempts for one logical task.
type Analysis struct {
	Attempts     int              `json:"attempts"`
	SuccessRate  float64          `json:"successRate"`
	MeanDuration time.Duration    `json:"meanDuration"`
	TopErrors    []ErrorSignature `json:"topErrors,omitempty"`
}

// Analyze computes success rate, mean duration, and the three most frequent
// error signatures across attempts.
func Analyze(attempts []types.ExecutionAttempt) Analysis {
	analysis := Analysis{Attempts: len(attempts)}
	if len(attempts) == 0 {
		return analysis
	}

	var successes int
	var totalDuration time.Duration
	errCounts := make(map[string]int)
	for _, a := range attempts {
		if a.Outcome == types.OutcomeSuccess {
			successes++
		}
		totalDuration += a.Duration
		if a.Error != "" {
			errCounts[errorSignature(a.Error)]++
		}
	}

	analysis.SuccessRate = float64(successes) / float64(len(attempts))
	analysis.MeanDuration = totalDuration / time.Duration(len(attempts))

	for sig, count := range errCounts {
		analysis.TopErrors = append(analysis.TopErrors, ErrorSignature{Signature: sig, Count: count})
	}
	sort.Slice(analysis.TopErrors, func(i, j int) bool {
		if analysis.TopErrors[i].Count != analysis.TopErrors[j].Count {
			return analysis.TopErrors[i].Count > analysis.TopErrors[j].Count
		}
		return analysis.TopErrors[i].Signature < analysis.TopErrors[j].Signature
	})
	if len(analysis.TopErrors) > 3 {
		analysis.TopErrors = analysis.TopErrors[:3]
	}
	return analysis
}

func errorSignature(errText string) string {
	sig := strings.ToLower(errText)
	if len(sig) > 50 {
		sig = sig[:50]
	}
	return sig
}
