// Package retry decides whether a failed agent dispatch should be retried
// with backoff or abandoned in favor of an alternative agent. Decisions are
// derived from ordered rule tables; only the jittered delay is
// non-deterministic, and the jitter source is injectable for tests.
package retry

import (
	"fmt"
	"math/rand"
	"regexp"
	"time"

	"hookmind/internal/logging"
	"hookmind/internal/types"
)

// alternativeAgents maps known agents to ordered fallback candidates. Lookup
// returns the first candidate not already tried.
var alternativeAgents = map[string][]string{
	"security-auditor":         {"security-layer-auditor", "code-reviewer"},
	"security-layer-auditor":   {"security-auditor"},
	"backend-system-architect": {"system-designer", "api-architect"},
	"frontend-developer":       {"ui-engineer", "web-developer"},
	"test-generator":           {"test-writer", "qa-engineer"},
	"code-reviewer":            {"security-auditor"},
	"debug-specialist":         {"root-cause-analyst"},
	"doc-writer":               {"technical-writer"},
}

// nonRetryablePatterns match errors that no amount of retrying will fix.
var nonRetryablePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)permission\s+denied`),
	regexp.MustCompile(`(?i)access\s+denied`),
	regexp.MustCompile(`(?i)(?:file|module|command|agent)\s+not\s+found`),
	regexp.MustCompile(`(?i)no\s+such\s+file`),
	regexp.MustCompile(`(?i)missing\s+required\s+(?:input|argument|field|parameter)`),
	regexp.MustCompile(`(?i)invalid\s+(?:credentials|api\s*key|token)`),
	regexp.MustCompile(`(?i)authentication\s+failed`),
	regexp.MustCompile(`(?i)quota\s+exceeded`),
	regexp.MustCompile(`(?i)rate\s+limit`),
}

// alternativePatterns match errors where the agent itself points at a better
// candidate.
var alternativePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)not\s+my\s+specializ`),
	regexp.MustCompile(`(?i)better\s+suited\s+for`),
	regexp.MustCompile(`(?i)outside\s+my\s+expertise`),
	regexp.MustCompile(`(?i)wrong\s+agent`),
	regexp.MustCompile(`(?i)should\s+be\s+handled\s+by`),
}

// Policy computes retry decisions. The zero value is not usable; construct
// with NewPolicy.
type Policy struct {
	baseDelay time.Duration
	maxDelay  time.Duration
	jitter    func() float64 // uniform in [0, 1)
}

// PolicyOption configures a Policy.
type PolicyOption func(*Policy)

// WithBaseDelay overrides the backoff base delay.
func WithBaseDelay(d time.Duration) PolicyOption {
	return func(p *Policy) { p.baseDelay = d }
}

// WithJitterSource injects the random source used for backoff jitter.
func WithJitterSource(f func() float64) PolicyOption {
	return func(p *Policy) { p.jitter = f }
}

// NewPolicy creates a retry policy with production defaults.
func NewPolicy(opts ...PolicyOption) *Policy {
	p := &Policy{
		baseDelay: types.BaseRetryDelay,
		maxDelay:  types.MaxRetryDelay,
		jitter:    rand.Float64,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Decide applies the failover rules in order; the first matching rule wins.
// maxRetries <= 0 falls back to the default budget. The returned delay is
// advisory: the caller waits it out, this core never sleeps.
func (p *Policy) Decide(agent string, attempt int, errText string, tried []string, maxRetries int) types.RetryDecision {
	if maxRetries <= 0 {
		maxRetries = types.DefaultMaxRetries
	}

	decision := types.RetryDecision{
		RetryCount: attempt,
		MaxRetries: maxRetries,
	}

	switch {
	case attempt >= maxRetries:
		decision.Reason = fmt.Sprintf("retry budget exhausted (%d/%d attempts)", attempt, maxRetries)
		decision.AlternativeAgent = nextAlternative(agent, tried)

	case matchesAny(errText, nonRetryablePatterns):
		decision.Reason = "error is not retryable"
		decision.AlternativeAgent = nextAlternative(agent, tried)

	case matchesAny(errText, alternativePatterns) && nextAlternative(agent, tried) != "":
		decision.Reason = "agent suggested a better-suited alternative"
		decision.AlternativeAgent = nextAlternative(agent, tried)

	default:
		decision.ShouldRetry = true
		decision.Delay = p.backoff(attempt)
		decision.Reason = fmt.Sprintf("transient failure, retrying (attempt %d/%d)", attempt+1, maxRetries)
	}

	logging.Get(logging.CategoryRetry).Debugw("retry decision",
		"agent", agent, "attempt", attempt, "shouldRetry", decision.ShouldRetry,
		"alternative", decision.AlternativeAgent, "reason", decision.Reason)
	return decision
}

// backoff computes base * 2^(attempt-1) plus up to 10% jitter, capped.
func (p *Policy) backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := p.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.maxDelay {
			break
		}
	}
	delay += time.Duration(p.jitter() * types.MaxJitterFraction * float64(delay))
	if delay > p.maxDelay {
		delay = p.maxDelay
	}
	return delay
}

// nextAlternative returns the first fallback candidate for agent that has
// not been tried yet, or "" when none remains.
func nextAlternative(agent string, tried []string) string {
	for _, candidate := range alternativeAgents[agent] {
		if candidate == agent {
			continue
		}
		seen := false
		for _, t := range tried {
			if t == candidate {
				seen = true
				break
			}
		}
		if !seen {
			return candidate
		}
	}
	return ""
}

func matchesAny(text string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
