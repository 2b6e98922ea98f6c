// Package signal extracts typed intent signals (decisions, preferences,
// problems, questions) from free-text prompts. Extraction is pure pattern
// matching over ordered regexp tables with confidence scoring; there is no
// I/O and no shared state, and Detect never fails — the worst case for
// malformed input is an empty result.
package signal

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"hookmind/internal/types"
)

// Result is the structured outcome of one detection pass. Signals holds every
// surviving signal; the buckets are views by kind, with Decisions restricted
// to high-confidence matches.
type Result struct {
	Signals []types.Signal `json:"signals"`

	Decisions   []types.Signal `json:"decisions"`
	Preferences []types.Signal `json:"preferences"`
	Problems    []types.Signal `json:"problems"`
	Questions   []types.Signal `json:"questions"`

	Summary string `json:"summary"`
}

// candidate pairs a signal with its true match span. The span (not the
// possibly truncated Text) drives overlap deduplication.
type candidate struct {
	sig   types.Signal
	start int
	end   int
}

// Detect scans a prompt for intent signals. Prompts shorter than the minimum
// length short-circuit to an empty result.
func Detect(prompt string) Result {
	if len(strings.TrimSpace(prompt)) < types.MinPromptLength {
		return Result{Summary: "Prompt too short for signal detection."}
	}

	// The four families are independent scans over the same text; run them
	// concurrently the same way the classifier stores are searched.
	var decisions, preferences, problems, questions []candidate
	g := new(errgroup.Group)
	g.Go(func() error { decisions = scanDecisions(prompt); return nil })
	g.Go(func() error { preferences = scanSimple(prompt, preferencePatterns, types.SignalPreference); return nil })
	g.Go(func() error { problems = scanSimple(prompt, problemPatterns, types.SignalProblem); return nil })
	g.Go(func() error { questions = scanSimple(prompt, questionPatterns, types.SignalQuestion); return nil })
	_ = g.Wait()

	all := make([]candidate, 0, len(decisions)+len(preferences)+len(problems)+len(questions))
	all = append(all, decisions...)
	all = append(all, preferences...)
	all = append(all, problems...)
	all = append(all, questions...)

	kept := dedupe(all)

	res := Result{Signals: make([]types.Signal, 0, len(kept))}
	for _, c := range kept {
		res.Signals = append(res.Signals, c.sig)
		switch c.sig.Kind {
		case types.SignalDecision:
			if c.sig.Confidence >= types.HighConfidenceThreshold {
				res.Decisions = append(res.Decisions, c.sig)
			}
		case types.SignalPreference:
			res.Preferences = append(res.Preferences, c.sig)
		case types.SignalProblem:
			res.Problems = append(res.Problems, c.sig)
		case types.SignalQuestion:
			res.Questions = append(res.Questions, c.sig)
		}
	}
	res.Summary = summarize(res.Signals)
	return res
}

func scanDecisions(prompt string) []candidate {
	var out []candidate
	for _, p := range decisionPatterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(prompt, -1) {
			start, end := m[0], m[1]
			matched := prompt[start:end]

			var alternatives []string
			if p.comparative && len(m) >= 6 && m[4] >= 0 {
				rejected := strings.TrimSpace(prompt[m[4]:m[5]])
				if rejected != "" {
					alternatives = []string{rejected}
				}
			}

			rationale := findRationale(prompt, start)
			constraints := findClauses(prompt, start, constraintPatterns)
			tradeoffs := findClauses(prompt, start, tradeoffPatterns)
			entities := extractEntities(window(prompt, start-50, start+300))

			sig := types.Signal{
				Kind:         types.SignalDecision,
				Confidence:   decisionConfidence(matched, rationale, alternatives, entities),
				Text:         truncate(matched, types.MaxSignalText),
				Entities:     entities,
				Rationale:    rationale,
				Alternatives: alternatives,
				Constraints:  constraints,
				Tradeoffs:    tradeoffs,
				Position:     start,
			}
			out = append(out, candidate{sig: sig, start: start, end: end})
		}
	}
	return out
}

func scanSimple(prompt string, patterns []*regexp.Regexp, kind types.SignalKind) []candidate {
	var out []candidate
	for _, re := range patterns {
		for _, m := range re.FindAllStringIndex(prompt, -1) {
			start, end := m[0], m[1]
			matched := prompt[start:end]
			entities := extractEntities(window(prompt, start-50, start+300))

			sig := types.Signal{
				Kind:        kind,
				Confidence:  simpleConfidence(kind, entities),
				Text:        truncate(strings.TrimSpace(matched), types.MaxSignalText),
				Entities:    entities,
				Rationale:   findRationale(prompt, start),
				Constraints: findClauses(prompt, start, constraintPatterns),
				Tradeoffs:   findClauses(prompt, start, tradeoffPatterns),
				Position:    start,
			}
			out = append(out, candidate{sig: sig, start: start, end: end})
		}
	}
	return out
}

// decisionConfidence applies the additive scoring model for decisions.
func decisionConfidence(matched, rationale string, alternatives, entities []string) float64 {
	score := types.DecisionBaseConfidence
	if strongVerbRe.MatchString(matched) {
		score += types.StrongVerbBonus
	}
	if rationale != "" {
		score += types.RationaleBonus
	}
	if len(alternatives) > 0 {
		score += types.AlternativesBonus
	}
	if len(entities) >= 1 {
		score += types.EntityBonus
	}
	if len(entities) >= 2 {
		score += types.EntityBonus
	}
	if len(matched) < types.ShortMatchLength {
		score -= types.ShortMatchPenalty
	}
	return clamp(score, types.MinConfidence, types.MaxConfidence)
}

func simpleConfidence(kind types.SignalKind, entities []string) float64 {
	switch kind {
	case types.SignalPreference:
		if len(entities) > 0 {
			return types.PreferenceWithEntity
		}
		return types.PreferenceWithoutEntity
	case types.SignalProblem:
		return types.ProblemConfidence
	default:
		return types.QuestionConfidence
	}
}

// findRationale returns the first justification clause near the match offset,
// following the priority order of rationalePatterns.
func findRationale(prompt string, start int) string {
	w := window(prompt, start-50, start+400)
	for _, re := range rationalePatterns {
		if m := re.FindStringSubmatch(w); m != nil {
			return truncate(strings.TrimSpace(m[1]), types.MaxClauseLength)
		}
	}
	return ""
}

// findClauses collects all clause matches near the match offset across a
// pattern list, deduplicated and capped.
func findClauses(prompt string, start int, patterns []*regexp.Regexp) []string {
	w := window(prompt, start-50, start+300)
	var clauses []string
	seen := make(map[string]bool)
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(w, -1) {
			clause := truncate(strings.TrimSpace(m[len(m)-1]), types.MaxClauseLength)
			if clause == "" {
				continue
			}
			key := strings.ToLower(clause)
			if seen[key] {
				continue
			}
			seen[key] = true
			clauses = append(clauses, clause)
			if len(clauses) >= types.MaxClauses {
				return clauses
			}
		}
	}
	return clauses
}

// dedupe keeps one signal per overlapping span: the higher-confidence one
// when both share a kind, otherwise the first by position.
func dedupe(cands []candidate) []candidate {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].start != cands[j].start {
			return cands[i].start < cands[j].start
		}
		return cands[i].end > cands[j].end
	})

	var kept []candidate
	for _, c := range cands {
		overlapped := false
		for i, k := range kept {
			if c.start < k.end && k.start < c.end {
				overlapped = true
				if c.sig.Kind == k.sig.Kind && c.sig.Confidence > k.sig.Confidence {
					kept[i] = c
				}
				break
			}
		}
		if !overlapped {
			kept = append(kept, c)
		}
	}
	return kept
}

// summarize renders the human-readable one-liner for a detection pass.
func summarize(signals []types.Signal) string {
	if len(signals) == 0 {
		return "No intent signals detected."
	}
	counts := map[types.SignalKind]int{}
	for _, s := range signals {
		counts[s.Kind]++
	}
	var parts []string
	for _, k := range []struct {
		kind     types.SignalKind
		singular string
		plural   string
	}{
		{types.SignalDecision, "decision", "decisions"},
		{types.SignalPreference, "preference", "preferences"},
		{types.SignalProblem, "problem", "problems"},
		{types.SignalQuestion, "question", "questions"},
	} {
		n := counts[k.kind]
		if n == 0 {
			continue
		}
		label := k.singular
		if n > 1 {
			label = k.plural
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, label))
	}
	return "Detected: " + strings.Join(parts, ", ")
}

func window(s string, from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(s) {
		to = len(s)
	}
	if from >= to {
		return ""
	}
	return s[from:to]
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
