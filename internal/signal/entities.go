package signal

import (
	"regexp"
	"sort"
	"strings"
)

// technologyAliases canonicalizes technology names so the same technology is
// never double-counted ("postgres" and "postgresql" are one entity). Keys are
// the surface forms matched in text, values the canonical name.
var technologyAliases = map[string]string{
	"postgres":      "postgresql",
	"postgresql":    "postgresql",
	"mysql":         "mysql",
	"mariadb":       "mariadb",
	"sqlite":        "sqlite",
	"sqlite3":       "sqlite",
	"mongo":         "mongodb",
	"mongodb":       "mongodb",
	"redis":         "redis",
	"kafka":         "kafka",
	"rabbitmq":      "rabbitmq",
	"elasticsearch": "elasticsearch",
	"golang":        "go",
	"javascript":    "javascript",
	"js":            "javascript",
	"typescript":    "typescript",
	"ts":            "typescript",
	"python":        "python",
	"rust":          "rust",
	"java":          "java",
	"kotlin":        "kotlin",
	"ruby":          "ruby",
	"react":         "react",
	"reactjs":       "react",
	"vue":           "vue",
	"vuejs":         "vue",
	"angular":       "angular",
	"svelte":        "svelte",
	"node":          "nodejs",
	"nodejs":        "nodejs",
	"deno":          "deno",
	"docker":        "docker",
	"kubernetes":    "kubernetes",
	"k8s":           "kubernetes",
	"aws":           "aws",
	"gcp":           "gcp",
	"azure":         "azure",
	"graphql":       "graphql",
	"grpc":          "grpc",
	"protobuf":      "protobuf",
	"nginx":         "nginx",
	"linux":         "linux",
}

// architecturePatterns is a fixed vocabulary of architecture and testing
// patterns. Multi-word entries match with flexible hyphen/space separators
// ("event-sourcing", "event sourcing").
var architecturePatterns = []string{
	"event sourcing",
	"domain driven design",
	"test driven development",
	"clean architecture",
	"hexagonal architecture",
	"dependency injection",
	"circuit breaker",
	"message queue",
	"pub sub",
	"repository pattern",
	"unit testing",
	"integration testing",
	"microservices",
	"monolith",
	"cqrs",
	"ddd",
	"tdd",
	"rest api",
	"api gateway",
	"feature flag",
}

// toolVocabulary is a fixed vocabulary of developer tool names.
var toolVocabulary = []string{
	"git",
	"github",
	"gitlab",
	"jenkins",
	"terraform",
	"ansible",
	"webpack",
	"vite",
	"eslint",
	"prettier",
	"jest",
	"pytest",
	"npm",
	"yarn",
	"pnpm",
	"cargo",
	"maven",
	"gradle",
	"jira",
	"vscode",
}

type entityMatcher struct {
	re        *regexp.Regexp
	canonical string
}

// entityMatchers is compiled once at startup; per-call work is matching only.
var entityMatchers = buildEntityMatchers()

func buildEntityMatchers() []entityMatcher {
	matchers := make([]entityMatcher, 0, len(technologyAliases)+len(architecturePatterns)+len(toolVocabulary))

	// Pass 1: technology aliases, word-boundary matched. Iterate sorted keys
	// so the matcher order is deterministic.
	aliases := make([]string, 0, len(technologyAliases))
	for alias := range technologyAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	for _, alias := range aliases {
		matchers = append(matchers, entityMatcher{
			re:        regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(alias) + `\b`),
			canonical: technologyAliases[alias],
		})
	}

	// Pass 2: architecture/testing patterns with flexible separators.
	for _, pattern := range architecturePatterns {
		words := strings.Fields(pattern)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		matchers = append(matchers, entityMatcher{
			re:        regexp.MustCompile(`(?i)\b` + strings.Join(words, `[\s-]+`) + `\b`),
			canonical: strings.ReplaceAll(pattern, " ", "-"),
		})
	}

	// Pass 3: tool names, word-boundary matched.
	for _, tool := range toolVocabulary {
		matchers = append(matchers, entityMatcher{
			re:        regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(tool) + `\b`),
			canonical: tool,
		})
	}

	return matchers
}

// extractEntities returns the canonical names mentioned in text, sorted and
// deduplicated. Alias-stable: every surface form of a technology contributes
// the same single canonical entity.
func extractEntities(text string) []string {
	seen := make(map[string]bool)
	for _, m := range entityMatchers {
		if seen[m.canonical] {
			continue
		}
		if m.re.MatchString(text) {
			seen[m.canonical] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	entities := make([]string, 0, len(seen))
	for canonical := range seen {
		entities = append(entities, canonical)
	}
	sort.Strings(entities)
	return entities
}
