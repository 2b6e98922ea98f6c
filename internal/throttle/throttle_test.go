package throttle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubUsage struct {
	total      int
	byCategory map[string]int
}

func (s stubUsage) TotalTokens() int { return s.total }
func (s stubUsage) CategoryTokens(category string) int {
	return s.byCategory[category]
}

func TestPriorityOf(t *testing.T) {
	assert.Equal(t, P0, PriorityOf("security-scan"))
	assert.Equal(t, P1, PriorityOf("skill-injection"))
	assert.Equal(t, P3, PriorityOf("monitoring"))
	assert.Equal(t, P2, PriorityOf("some-unregistered-hook"))
}

func TestShouldThrottle_SecurityWorkNeverThrottled(t *testing.T) {
	th := New(true, stubUsage{total: TotalBudget * 10})

	assert.False(t, th.ShouldThrottle("security-scan"))
	assert.False(t, th.ShouldThrottle("secret-audit"))
}

func TestShouldThrottle_DisabledOrNoUsageIsInert(t *testing.T) {
	disabled := New(false, stubUsage{total: TotalBudget * 10})
	assert.False(t, disabled.ShouldThrottle("monitoring"))

	noUsage := New(true, nil)
	assert.False(t, noUsage.ShouldThrottle("monitoring"))
}

func TestShouldThrottle_ThresholdsByPriority(t *testing.T) {
	cases := []struct {
		name  string
		total int
		hook  string
		want  bool
	}{
		{"half usage skips best-effort", 1300, "suggestions", true},
		{"half usage keeps default", 1300, "decision-capture", false},
		{"70 percent skips default", 1820, "decision-capture", true},
		{"70 percent keeps core", 1820, "skill-injection", false},
		{"90 percent skips core", 2340, "skill-injection", true},
		{"just under half keeps best-effort", 1299, "monitoring", false},
		{"unknown hook uses default threshold", 1820, "some-unregistered-hook", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			th := New(true, stubUsage{total: tc.total})
			assert.Equal(t, tc.want, th.ShouldThrottle(tc.hook))
		})
	}
}

func TestIsOverBudget(t *testing.T) {
	th := New(true, stubUsage{byCategory: map[string]int{
		"suggestions": 400,
		"monitoring":  150,
	}})

	assert.True(t, th.IsOverBudget("suggestions")) // at budget counts as over
	assert.False(t, th.IsOverBudget("monitoring"))
	assert.False(t, th.IsOverBudget("not-a-category"))
}

func TestRemainingBudget(t *testing.T) {
	th := New(true, stubUsage{byCategory: map[string]int{
		"memory-inject": 300,
		"suggestions":   900,
	}})

	assert.Equal(t, 500, th.RemainingBudget("memory-inject"))
	assert.Equal(t, 0, th.RemainingBudget("suggestions")) // overspent floors at zero
	assert.Equal(t, 0, th.RemainingBudget("not-a-category"))

	noUsage := New(true, nil)
	assert.Equal(t, 800, noUsage.RemainingBudget("memory-inject"))
}

func TestBudgets_ReturnsCopy(t *testing.T) {
	b := Budgets()
	sum := 0
	for _, v := range b {
		sum += v
	}
	assert.Equal(t, 3100, sum)

	b["suggestions"] = 0
	assert.Equal(t, 400, Budgets()["suggestions"])
}
