package calibration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hookmind/internal/types"
)

func newTestStore(t *testing.T, opts ...Option) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calibration.json")
	repo, err := NewFileRepository(path)
	require.NoError(t, err)
	return NewStore(repo, opts...), path
}

func failureInput(keyword, agent string) RecordInput {
	return RecordInput{
		Prompt:          "x",
		Agent:           agent,
		MatchedKeywords: []string{keyword},
		Confidence:      80,
		Outcome:         types.OutcomeFailure,
	}
}

func TestStore_ThreeFailuresNudgeAdjustment(t *testing.T) {
	store, _ := newTestStore(t)

	for i := 0; i < 3; i++ {
		store.Record(failureInput("api", "backend-system-architect"))
	}

	adj, ok := store.AdjustmentFor("api", "backend-system-architect")
	require.True(t, ok)
	assert.Equal(t, -9, adj.Adjustment)
	assert.Equal(t, 3, adj.SampleCount)
}

func TestStore_AdjustmentClampedToBound(t *testing.T) {
	store, _ := newTestStore(t)

	for i := 0; i < 20; i++ {
		store.Record(failureInput("api", "backend-system-architect"))
	}
	adj, ok := store.AdjustmentFor("api", "backend-system-architect")
	require.True(t, ok)
	assert.Equal(t, -types.AdjustmentBound, adj.Adjustment)
	assert.Equal(t, 20, adj.SampleCount)

	for i := 0; i < 20; i++ {
		in := failureInput("api", "backend-system-architect")
		in.Outcome = types.OutcomeSuccess
		store.Record(in)
	}
	adj, ok = store.AdjustmentFor("api", "backend-system-architect")
	require.True(t, ok)
	assert.LessOrEqual(t, adj.Adjustment, types.AdjustmentBound)
	assert.GreaterOrEqual(t, adj.Adjustment, -types.AdjustmentBound)
}

func TestStore_PartialOutcomeChangesNothing(t *testing.T) {
	store, _ := newTestStore(t)

	store.Record(failureInput("api", "backend-system-architect"))
	before, ok := store.AdjustmentFor("api", "backend-system-architect")
	require.True(t, ok)

	in := failureInput("api", "backend-system-architect")
	in.Outcome = types.OutcomePartial
	store.Record(in)

	after, ok := store.AdjustmentFor("api", "backend-system-architect")
	require.True(t, ok)
	assert.Equal(t, before.Adjustment, after.Adjustment)
	assert.Equal(t, before.SampleCount, after.SampleCount)

	// The record itself is still appended.
	assert.Equal(t, 2, store.Load().Stats.TotalDispatches)
}

func TestStore_AdjustmentsRequireMinimumSamples(t *testing.T) {
	store, _ := newTestStore(t)

	store.Record(failureInput("api", "backend-system-architect"))
	store.Record(failureInput("api", "backend-system-architect"))
	assert.Empty(t, store.Adjustments())

	store.Record(failureInput("api", "backend-system-architect"))
	assert.Len(t, store.Adjustments(), 1)
}

func TestStore_SuccessRateNeedsMinimumSamples(t *testing.T) {
	store, _ := newTestStore(t)

	in := failureInput("api", "backend-system-architect")
	in.Outcome = types.OutcomeSuccess
	store.Record(in)
	store.Record(in)
	assert.Nil(t, store.SuccessRate("backend-system-architect"))

	store.Record(failureInput("api", "backend-system-architect"))
	rate := store.SuccessRate("backend-system-architect")
	require.NotNil(t, rate)
	assert.InDelta(t, 2.0/3.0, *rate, 1e-9)

	assert.Nil(t, store.SuccessRate("never-dispatched"))
}

func TestStore_RecordListBoundedWithArchive(t *testing.T) {
	dir := t.TempDir()
	archive, err := OpenArchive(filepath.Join(dir, "archive.db"))
	require.NoError(t, err)
	defer archive.Close()

	repo, err := NewFileRepository(filepath.Join(dir, "calibration.json"))
	require.NoError(t, err)
	store := NewStore(repo, WithArchive(archive))

	in := RecordInput{Prompt: "x", Agent: "code-reviewer", Outcome: types.OutcomeSuccess}
	for i := 0; i < types.MaxCalibrationRecords+5; i++ {
		store.Record(in)
	}

	data := store.Load()
	assert.Len(t, data.Records, types.MaxCalibrationRecords)
	assert.Equal(t, types.MaxCalibrationRecords, data.Stats.TotalDispatches)

	n, err := archive.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	byAgent, err := archive.CountByAgent()
	require.NoError(t, err)
	assert.EqualValues(t, 5, byAgent["code-reviewer"])
}

func TestStore_DecayShrinksStaleAdjustments(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	store, _ := newTestStore(t, WithClock(clock))

	for i := 0; i < 3; i++ {
		store.Record(failureInput("api", "backend-system-architect"))
	}
	in := failureInput("db", "backend-system-architect")
	in.Outcome = types.OutcomeSuccess
	store.Record(in) // fresh pairing at +3

	// Age everything past the decay window, then refresh one pairing.
	now = now.Add(8 * 24 * time.Hour)
	store.Record(failureInput("db", "backend-system-architect")) // back to 0... and fresh

	store.ApplyDecay()
	data := store.Load()

	// api/-9 was stale: truncates to -8. db pairing hit zero and is gone.
	adj, ok := store.AdjustmentFor("api", "backend-system-architect")
	require.True(t, ok)
	assert.Equal(t, -8, adj.Adjustment)
	_, ok = store.AdjustmentFor("db", "backend-system-architect")
	assert.False(t, ok)
	assert.Len(t, data.Adjustments, 1)
}

func TestStore_DecayRemovesUnitAdjustments(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	store, _ := newTestStore(t, WithClock(clock))

	store.Record(failureInput("api", "backend-system-architect")) // -3
	now = now.Add(8 * 24 * time.Hour)

	// -3 -> -2 -> -1 -> 0 (removed); each pass strictly shrinks.
	magnitudes := []int{2, 1}
	for _, want := range magnitudes {
		store.ApplyDecay()
		adj, ok := store.AdjustmentFor("api", "backend-system-architect")
		require.True(t, ok)
		assert.Equal(t, -want, adj.Adjustment)
	}
	store.ApplyDecay()
	_, ok := store.AdjustmentFor("api", "backend-system-architect")
	assert.False(t, ok)
}

func TestStore_FreshAdjustmentsDoNotDecay(t *testing.T) {
	store, _ := newTestStore(t)

	store.Record(failureInput("api", "backend-system-architect"))
	store.ApplyDecay()

	adj, ok := store.AdjustmentFor("api", "backend-system-architect")
	require.True(t, ok)
	assert.Equal(t, -3, adj.Adjustment)
}

func TestStore_CorruptFileFallsBackToDefaults(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	data := store.Load()
	assert.Equal(t, SchemaVersion, data.SchemaVersion)
	assert.Empty(t, data.Records)

	// Recording over corrupt state replaces it with a valid document.
	store.Record(failureInput("api", "backend-system-architect"))
	assert.Equal(t, 1, store.Load().Stats.TotalDispatches)
}

func TestFileRepository_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calibration.json")
	repo, err := NewFileRepository(path)
	require.NoError(t, err)

	missing, err := repo.Load()
	require.NoError(t, err)
	assert.Nil(t, missing)

	want := &Data{
		SchemaVersion: SchemaVersion,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
		UpdatedAt:     time.Now().UTC().Truncate(time.Second),
		Records: []Record{{
			Timestamp:          time.Now().UTC().Truncate(time.Second),
			Agent:              "code-reviewer",
			PromptHash:         HashPrompt("review this"),
			DispatchConfidence: 72,
			Outcome:            types.OutcomeSuccess,
		}},
	}
	require.NoError(t, repo.Save(want))

	got, err := repo.Load()
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}

	// No temp files may survive a successful save.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestHashPrompt_NormalizesBeforeHashing(t *testing.T) {
	assert.Equal(t, HashPrompt("Use  PostgreSQL\n"), HashPrompt("use postgresql"))
	assert.NotEqual(t, HashPrompt("use postgresql"), HashPrompt("use mysql"))
}

func TestComputeStats_TopAgents(t *testing.T) {
	records := []Record{
		{Agent: "a", Outcome: types.OutcomeSuccess, DispatchConfidence: 80},
		{Agent: "a", Outcome: types.OutcomeFailure, DispatchConfidence: 60},
		{Agent: "b", Outcome: types.OutcomeSuccess, DispatchConfidence: 70},
	}
	stats := computeStats(records)

	assert.Equal(t, 3, stats.TotalDispatches)
	assert.InDelta(t, 2.0/3.0, stats.SuccessRate, 1e-9)
	assert.InDelta(t, 70.0, stats.AvgConfidence, 1e-9)
	require.Len(t, stats.TopAgents, 2)
	assert.Equal(t, "a", stats.TopAgents[0].Agent)
	assert.InDelta(t, 0.5, stats.TopAgents[0].SuccessRate, 1e-9)
}
