package calibration

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
	"time"

	"hookmind/internal/logging"
	"hookmind/internal/types"
)

// Store is the calibration learning state. It holds no document in memory
// between calls: every operation is load → mutate → save, so concurrent
// short-lived invocations only race at the file level (last writer wins, one
// learning signal lost at worst).
type Store struct {
	repo    Repository
	archive *Archive // optional cold store for evicted records
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithArchive attaches a cold store that receives records evicted from the
// bounded list.
func WithArchive(a *Archive) Option {
	return func(s *Store) { s.archive = a }
}

// WithClock overrides the time source. Tests use this to age adjustments.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a calibration store over the given repository.
func NewStore(repo Repository, opts ...Option) *Store {
	s := &Store{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the current calibration document, substituting a fresh
// default structure when none exists or the persisted one fails to parse.
func (s *Store) Load() *Data {
	data, err := s.repo.Load()
	if err != nil {
		logging.Get(logging.CategoryCalibration).Warnw("falling back to empty calibration data", "error", err)
		return s.defaultData()
	}
	if data == nil || data.SchemaVersion != SchemaVersion {
		return s.defaultData()
	}
	return data
}

func (s *Store) defaultData() *Data {
	now := s.now()
	return &Data{
		SchemaVersion: SchemaVersion,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Record appends one dispatch outcome and nudges the matched keyword/agent
// adjustments. Persistence failures are logged and swallowed: the learning
// signal for this call is lost, the caller never fails.
func (s *Store) Record(in RecordInput) {
	log := logging.Get(logging.CategoryCalibration)

	data := s.Load()
	now := s.now()

	rec := Record{
		Timestamp:          now,
		SessionID:          in.SessionID,
		Agent:              in.Agent,
		PromptHash:         HashPrompt(in.Prompt),
		MatchedKeywords:    in.MatchedKeywords,
		DispatchConfidence: in.Confidence,
		Outcome:            in.Outcome,
		Feedback:           in.Feedback,
	}
	if in.Duration > 0 {
		rec.DurationMS = in.Duration.Milliseconds()
	}

	data.Records = append(data.Records, rec)
	if overflow := len(data.Records) - types.MaxCalibrationRecords; overflow > 0 {
		evicted := data.Records[:overflow]
		data.Records = append([]Record(nil), data.Records[overflow:]...)
		if s.archive != nil {
			if err := s.archive.Append(evicted); err != nil {
				log.Warnw("failed to archive evicted records", "count", len(evicted), "error", err)
			}
		}
	}

	// Partial outcomes carry no learning signal for pairings.
	if step := adjustmentStep(in.Outcome); step != 0 {
		for _, keyword := range in.MatchedKeywords {
			s.nudge(data, keyword, in.Agent, step, now)
		}
	}

	data.Stats = computeStats(data.Records)
	data.UpdatedAt = now

	if err := s.repo.Save(data); err != nil {
		log.Errorw("failed to persist calibration data", "agent", in.Agent, "error", err)
		return
	}
	log.Debugw("dispatch outcome recorded",
		"agent", in.Agent, "outcome", in.Outcome, "keywords", len(in.MatchedKeywords))
}

func adjustmentStep(outcome types.Outcome) int {
	switch outcome {
	case types.OutcomeSuccess:
		return types.AdjustmentStep
	case types.OutcomeFailure, types.OutcomeRejected:
		return -types.AdjustmentStep
	default:
		return 0
	}
}

func (s *Store) nudge(data *Data, keyword, agent string, step int, now time.Time) {
	for i := range data.Adjustments {
		a := &data.Adjustments[i]
		if a.Keyword == keyword && a.Agent == agent {
			a.Adjustment = clampInt(a.Adjustment+step, -types.AdjustmentBound, types.AdjustmentBound)
			a.SampleCount++
			a.LastUpdated = now
			return
		}
	}
	data.Adjustments = append(data.Adjustments, Adjustment{
		Keyword:     keyword,
		Agent:       agent,
		Adjustment:  clampInt(step, -types.AdjustmentBound, types.AdjustmentBound),
		SampleCount: 1,
		LastUpdated: now,
	})
}

// Adjustments returns the learned pairings with enough evidence to act on.
func (s *Store) Adjustments() []Adjustment {
	data := s.Load()
	var out []Adjustment
	for _, a := range data.Adjustments {
		if a.SampleCount >= types.MinAdjustmentSamples {
			out = append(out, a)
		}
	}
	return out
}

// AdjustmentFor returns the learned adjustment for a (keyword, agent)
// pairing, regardless of sample count. The bool reports existence.
func (s *Store) AdjustmentFor(keyword, agent string) (Adjustment, bool) {
	data := s.Load()
	for _, a := range data.Adjustments {
		if a.Keyword == keyword && a.Agent == agent {
			return a, true
		}
	}
	return Adjustment{}, false
}

// SuccessRate returns the observed success rate for an agent, or nil when
// fewer than the minimum sample count exists.
func (s *Store) SuccessRate(agent string) *float64 {
	data := s.Load()
	var total, successes int
	for _, r := range data.Records {
		if r.Agent != agent {
			continue
		}
		total++
		if r.Outcome == types.OutcomeSuccess {
			successes++
		}
	}
	if total < types.MinSuccessRateSamples {
		return nil
	}
	rate := float64(successes) / float64(total)
	return &rate
}

// ApplyDecay shrinks adjustments that have been inactive for the decay
// window toward zero and drops the ones that reach it. Decay is never
// scheduled automatically; the operator (or the wrapper's maintenance hook)
// invokes it explicitly.
func (s *Store) ApplyDecay() {
	log := logging.Get(logging.CategoryCalibration)

	data := s.Load()
	now := s.now()
	cutoff := now.Add(-types.DecayAfter)

	var kept []Adjustment
	decayed, dropped := 0, 0
	for _, a := range data.Adjustments {
		if a.LastUpdated.Before(cutoff) {
			// Truncation toward zero guarantees strict shrinkage; a
			// magnitude below 1 is forgotten entirely.
			a.Adjustment = int(float64(a.Adjustment) * types.DecayFactor)
			decayed++
		}
		if a.Adjustment == 0 {
			dropped++
			continue
		}
		kept = append(kept, a)
	}
	data.Adjustments = kept
	data.UpdatedAt = now

	if err := s.repo.Save(data); err != nil {
		log.Errorw("failed to persist decayed calibration data", "error", err)
		return
	}
	log.Infow("adjustment decay applied", "decayed", decayed, "dropped", dropped)
}

// computeStats recomputes the aggregate summary over the full record set.
func computeStats(records []Record) Stats {
	stats := Stats{TotalDispatches: len(records)}
	if len(records) == 0 {
		return stats
	}

	type agentAgg struct {
		total     int
		successes int
	}
	byAgent := make(map[string]*agentAgg)
	successes := 0
	confidenceSum := 0.0
	for _, r := range records {
		confidenceSum += r.DispatchConfidence
		agg := byAgent[r.Agent]
		if agg == nil {
			agg = &agentAgg{}
			byAgent[r.Agent] = agg
		}
		agg.total++
		if r.Outcome == types.OutcomeSuccess {
			successes++
			agg.successes++
		}
	}

	stats.SuccessRate = float64(successes) / float64(len(records))
	stats.AvgConfidence = confidenceSum / float64(len(records))

	for agent, agg := range byAgent {
		stats.TopAgents = append(stats.TopAgents, AgentStats{
			Agent:       agent,
			Dispatches:  agg.total,
			SuccessRate: float64(agg.successes) / float64(agg.total),
		})
	}
	sort.Slice(stats.TopAgents, func(i, j int) bool {
		if stats.TopAgents[i].Dispatches != stats.TopAgents[j].Dispatches {
			return stats.TopAgents[i].Dispatches > stats.TopAgents[j].Dispatches
		}
		return stats.TopAgents[i].Agent < stats.TopAgents[j].Agent
	})
	if len(stats.TopAgents) > 10 {
		stats.TopAgents = stats.TopAgents[:10]
	}
	return stats
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// HashPrompt produces a one-way digest of the normalized prompt, so records
// can be deduplicated without storing raw text.
func HashPrompt(prompt string) string {
	normalized := whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(prompt)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:8])
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
