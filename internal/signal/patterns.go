package signal

import "regexp"

// The extractor's intelligence lives in these ordered pattern tables, not in
// control flow. Adding a pattern means appending to a table.

// tokenSeq matches a short run of technology-ish tokens (the rejected side of
// a comparison). Non-greedy so it stops before trailing clauses.
const tokenSeq = `([A-Za-z0-9][A-Za-z0-9_.+#-]*(?:\s+[A-Za-z0-9][A-Za-z0-9_.+#-]*)*?)`

// decisionPattern is one entry in the decision family. Comparative patterns
// capture (chosen, rejected); simple patterns capture (chosen) only.
type decisionPattern struct {
	re          *regexp.Regexp
	comparative bool
}

var decisionPatterns = []decisionPattern{
	// Strong-verb comparisons: "decided to use X over Y", "chose X instead of Y".
	{re: regexp.MustCompile(`(?i)\b(?:decided|chose|selected|picked)\s+(?:to\s+)?(?:use\s+|go\s+with\s+|adopt\s+|on\s+)?([^,.;!?]+?)\s+(?:over|instead\s+of|rather\s+than)\s+` + tokenSeq), comparative: true},
	// First-person-plural comparisons: "let's use X instead of Y".
	{re: regexp.MustCompile(`(?i)\b(?:let'?s|we'?ll|we\s+will|we\s+should|we'?re\s+going\s+to|going\s+to|i'?ll)\s+(?:use|go\s+with|adopt|pick|switch\s+to|try)\s+([^,.;!?]+?)\s+(?:over|instead\s+of|rather\s+than)\s+` + tokenSeq), comparative: true},
	// Bare comparisons: "using X over Y".
	{re: regexp.MustCompile(`(?i)\b(?:use|using|went\s+with|going\s+with)\s+([^,.;!?]+?)\s+(?:over|instead\s+of|rather\s+than)\s+` + tokenSeq), comparative: true},
	// Strong-verb single-sided: "decided to adopt X".
	{re: regexp.MustCompile(`(?i)\b(?:decided|chose|selected|picked)\s+(?:to\s+)?(?:use\s+|go\s+with\s+|adopt\s+|on\s+|implement\s+)?([^,.;!?]+)`)},
	// First-person-plural single-sided: "we'll use X".
	{re: regexp.MustCompile(`(?i)\b(?:let'?s|we'?ll|we\s+will|we\s+should|we'?re\s+going\s+to)\s+(?:use|go\s+with|adopt|switch\s+to)\s+([^,.;!?]+)`)},
	// Present-tense standardization: "we are using X".
	{re: regexp.MustCompile(`(?i)\bwe(?:'re|\s+are)\s+(?:using|adopting|standardizing\s+on)\s+([^,.;!?]+)`)},
}

// strongVerbRe marks decision matches that use an explicit decision verb.
var strongVerbRe = regexp.MustCompile(`(?i)\b(?:decided|chose|selected)\b`)

var preferencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bi\s+(?:really\s+|strongly\s+)?prefer\s+(?:to\s+use\s+|using\s+)?([^,.;!?]+)`),
	regexp.MustCompile(`(?i)\bi'?d\s+rather\s+(?:use\s+)?([^,.;!?]+)`),
	regexp.MustCompile(`(?i)\bi\s+(?:really\s+)?(?:like|love|enjoy)\s+(?:using\s+|working\s+with\s+)?([^,.;!?]+)`),
	regexp.MustCompile(`(?i)\b(?:i\s+)?(?:always|usually|typically)\s+(?:use|go\s+with|reach\s+for)\s+([^,.;!?]+)`),
	regexp.MustCompile(`(?i)\bmy\s+(?:favorite|preferred|go-to)\s+(?:[\w-]+\s+)?is\s+([^,.;!?]+)`),
}

var problemPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:the\s+)?(?:problem|issue|bug|error)\s+(?:is|with|seems\s+to\s+be)\s+[^.;!?]+`),
	regexp.MustCompile(`(?i)\b(?:[\w'-]+\s+){0,6}(?:doesn'?t|does\s+not|isn'?t|won'?t|wasn'?t)\s+work(?:ing)?[^,.;!?]*`),
	regexp.MustCompile(`(?i)\b(?:is\s+)?(?:failing|crashing|crashes|broken|hangs|hanging|times\s+out|timing\s+out)\b[^.;!?]*`),
	regexp.MustCompile(`(?i)\b(?:i'?m\s+)?(?:struggling|stuck)\s+(?:with\s+|on\s+)?[^,.;!?]+`),
	regexp.MustCompile(`(?i)\bcan'?t\s+(?:get|figure\s+out|make|reproduce)\s+[^,.;!?]+`),
	regexp.MustCompile(`(?i)\bthrow(?:s|ing)?\s+(?:an?\s+)?(?:exception|error)[^.;!?]*`),
}

var questionPatterns = []*regexp.Regexp{
	// Anything ending in a question mark.
	regexp.MustCompile(`[^.;!?\n]+\?`),
	// Interrogative openers without a question mark.
	regexp.MustCompile(`(?i)\b(?:how\s+(?:do|can|should|would)|what(?:'s|\s+is|\s+are)|why\s+(?:is|does|do|are)|should\s+(?:i|we)|which\s+(?:one|is|approach)|is\s+there)\b[^.;!?\n]*`),
}

// rationalePatterns is priority-ordered: the first pattern that matches in
// the window supplies the rationale clause.
var rationalePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bbecause\s+(?:of\s+)?([^,.;!?]+)`),
	regexp.MustCompile(`(?i)\bsince\s+(?:it\s+)?([^,.;!?]+)`),
	regexp.MustCompile(`(?i)\bdue\s+to\s+([^,.;!?]+)`),
	regexp.MustCompile(`(?i)\bso\s+that\s+([^,.;!?]+)`),
	regexp.MustCompile(`(?i)\bin\s+order\s+to\s+([^,.;!?]+)`),
	regexp.MustCompile(`(?i)\bfor\s+(?:better|improved|the\s+sake\s+of)\s+([^,.;!?]+)`),
}

var constraintPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bmust\s+(?:be\s+|have\s+|support\s+|not\s+)?([^,.;!?]+)`),
	regexp.MustCompile(`(?i)\bneeds?\s+to\s+(?:be\s+)?([^,.;!?]+)`),
	regexp.MustCompile(`(?i)\brequire[sd]?\s+([^,.;!?]+)`),
	regexp.MustCompile(`(?i)\bhas\s+to\s+(?:be\s+)?([^,.;!?]+)`),
	regexp.MustCompile(`(?i)\bcan'?t\s+(?:use|exceed|break)\s+([^,.;!?]+)`),
	regexp.MustCompile(`(?i)\bwithin\s+(\d[^,.;!?]*)`),
	regexp.MustCompile(`(?i)\bonly\s+if\s+([^,.;!?]+)`),
}

var tradeoffPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\btrade-?offs?\s+(?:is|are|:)?\s*([^.;!?]+)`),
	regexp.MustCompile(`(?i)\bat\s+the\s+(?:cost|expense)\s+of\s+([^,.;!?]+)`),
	regexp.MustCompile(`(?i)\bsacrific(?:e|es|ing)\s+([^,.;!?]+)`),
	regexp.MustCompile(`(?i)\b(?:slower|faster|cheaper|simpler|heavier)\s+but\s+([^,.;!?]+)`),
	regexp.MustCompile(`(?i)\bdownside\s+(?:is|:)\s*([^.;!?]+)`),
	regexp.MustCompile(`(?i)\bon\s+the\s+other\s+hand\s*,?\s*([^.;!?]+)`),
}
