// Package throttle suppresses lower-priority hook work when the shared token
// budget is under pressure. Priorities and budgets are static tables; the
// current usage comes from a collaborator behind the UsageReader interface.
package throttle

import (
	"hookmind/internal/logging"
)

// Priority orders hook work by how much it matters under pressure.
type Priority int

const (
	P0 Priority = iota // security-critical, never throttled
	P1                 // core assistant behavior
	P2                 // default
	P3                 // best-effort extras
)

func (p Priority) String() string {
	switch p {
	case P0:
		return "P0"
	case P1:
		return "P1"
	case P2:
		return "P2"
	default:
		return "P3"
	}
}

// hookPriorities is the static priority table. Unknown hooks default to P2.
var hookPriorities = map[string]Priority{
	"security-scan":    P0,
	"secret-audit":     P0,
	"skill-injection":  P1,
	"memory-inject":    P1,
	"decision-capture": P2,
	"context-enrich":   P2,
	"suggestions":      P3,
	"monitoring":       P3,
}

// usageThresholds maps each throttleable priority to the usage ratio at
// which its work starts being skipped.
var usageThresholds = map[Priority]float64{
	P1: 0.90,
	P2: 0.70,
	P3: 0.50,
}

// categoryBudgets is the fixed per-category token budget table.
var categoryBudgets = map[string]int{
	"skill-injection":  1200,
	"memory-inject":    800,
	"decision-capture": 500,
	"suggestions":      400,
	"monitoring":       200,
}

// TotalBudget is the whole-cycle token budget across categories.
const TotalBudget = 2600

// UsageReader supplies current token consumption. The usage tracker
// implements it; tests use stubs.
type UsageReader interface {
	TotalTokens() int
	CategoryTokens(category string) int
}

// Throttle evaluates whether hook work should be skipped this cycle.
type Throttle struct {
	enabled bool
	usage   UsageReader
}

// New creates a throttle. It is inert unless enabled via configuration.
func New(enabled bool, usage UsageReader) *Throttle {
	return &Throttle{enabled: enabled, usage: usage}
}

// Enabled reports whether throttling is active at all.
func (t *Throttle) Enabled() bool { return t.enabled }

// PriorityOf resolves a hook name against the static table.
func PriorityOf(name string) Priority {
	if p, ok := hookPriorities[name]; ok {
		return p
	}
	return P2
}

// ShouldThrottle reports whether the named hook should be skipped this
// cycle. P0 work is never throttled, regardless of usage or enablement.
func (t *Throttle) ShouldThrottle(name string) bool {
	priority := PriorityOf(name)
	if priority == P0 {
		return false
	}
	if !t.enabled || t.usage == nil {
		return false
	}

	ratio := float64(t.usage.TotalTokens()) / float64(TotalBudget)
	threshold := usageThresholds[priority]
	throttled := ratio >= threshold
	if throttled {
		logging.Get(logging.CategoryThrottle).Infow("hook throttled",
			"hook", name, "priority", priority.String(), "usageRatio", ratio, "threshold", threshold)
	}
	return throttled
}

// IsOverBudget reports whether a category has consumed its own budget.
// Unknown categories are never over budget.
func (t *Throttle) IsOverBudget(category string) bool {
	budget, ok := categoryBudgets[category]
	if !ok || t.usage == nil {
		return false
	}
	return t.usage.CategoryTokens(category) >= budget
}

// RemainingBudget returns the tokens left for a category, floored at zero.
// Unknown categories report zero.
func (t *Throttle) RemainingBudget(category string) int {
	budget, ok := categoryBudgets[category]
	if !ok {
		return 0
	}
	used := 0
	if t.usage != nil {
		used = t.usage.CategoryTokens(category)
	}
	if used >= budget {
		return 0
	}
	return budget - used
}

// Budgets returns a copy of the per-category budget table.
func Budgets() map[string]int {
	out := make(map[string]int, len(categoryBudgets))
	for k, v := range categoryBudgets {
		out[k] = v
	}
	return out
}
