package types

import "time"

// Signal extraction bounds and confidence weights.
const (
	// MinPromptLength short-circuits detection for trivial prompts.
	MinPromptLength = 10

	// MaxSignalText bounds the matched substring kept on a signal.
	MaxSignalText = 300
	// MaxClauseLength bounds rationale/constraint/tradeoff clauses.
	MaxClauseLength = 200
	// MaxClauses caps extracted constraint and tradeoff lists.
	MaxClauses = 5

	MinConfidence = 0.1
	MaxConfidence = 0.99

	// Decision confidence scoring.
	DecisionBaseConfidence   = 0.5
	StrongVerbBonus          = 0.2
	RationaleBonus           = 0.15
	AlternativesBonus        = 0.1
	EntityBonus              = 0.05 // per entity, applied at most twice
	ShortMatchPenalty        = 0.1  // matched text under ShortMatchLength
	ShortMatchLength         = 20
	HighConfidenceThreshold  = 0.7 // decisions below this stay out of the decisions bucket
	PreferenceWithEntity     = 0.8
	PreferenceWithoutEntity  = 0.6
	ProblemConfidence        = 0.75
	QuestionConfidence       = 0.8
)

// Calibration store bounds.
const (
	// MaxCalibrationRecords bounds the persisted record list; oldest are
	// evicted (and archived) first.
	MaxCalibrationRecords = 500

	// AdjustmentStep is applied per success (+) or failure/rejection (-).
	AdjustmentStep = 3
	// AdjustmentBound clamps adjustment magnitude.
	AdjustmentBound = 15

	// MinAdjustmentSamples hides pairings with too little evidence.
	MinAdjustmentSamples = 3
	// MinSuccessRateSamples gates per-agent success rates.
	MinSuccessRateSamples = 3

	// DecayAfter is the inactivity window before an adjustment decays.
	DecayAfter = 7 * 24 * time.Hour
	// DecayFactor shrinks stale adjustments toward zero per decay pass.
	DecayFactor = 0.9
)

// Retry policy defaults.
const (
	DefaultMaxRetries = 3
	BaseRetryDelay    = 1 * time.Second
	MaxRetryDelay     = 30 * time.Second
	// MaxJitterFraction bounds the random additive jitter on backoff.
	MaxJitterFraction = 0.10
)
