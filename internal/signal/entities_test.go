package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEntities_AliasStability(t *testing.T) {
	// Every surface form maps to one canonical name; mentioning two aliases
	// of the same technology yields a single entity.
	got := extractEntities("migrate postgres to PostgreSQL, then move k8s workloads")
	assert.Equal(t, []string{"kubernetes", "postgresql"}, got)

	got = extractEntities("node or nodejs, js or javascript")
	assert.Equal(t, []string{"javascript", "nodejs"}, got)
}

func TestExtractEntities_CaseInsensitiveAndWordBounded(t *testing.T) {
	assert.Equal(t, []string{"redis"}, extractEntities("REDIS cache"))

	// Substrings inside larger words must not match.
	assert.Nil(t, extractEntities("the jsonify helper"))         // no "js"
	assert.Nil(t, extractEntities("mysqldump output"))           // no "mysql"
	assert.Nil(t, extractEntities("we discussed gooseneck lamps")) // nothing
}

func TestExtractEntities_ArchitecturePatternSeparators(t *testing.T) {
	// Multi-word patterns match with spaces or hyphens and canonicalize to
	// the hyphenated form.
	for _, text := range []string{
		"adopt event sourcing for the ledger",
		"adopt event-sourcing for the ledger",
		"adopt Event   Sourcing for the ledger",
	} {
		assert.Equal(t, []string{"event-sourcing"}, extractEntities(text), "text %q", text)
	}
}

func TestExtractEntities_ToolsAndMixedKinds(t *testing.T) {
	got := extractEntities("run pytest in the Docker image, wire the circuit breaker")
	assert.Equal(t, []string{"circuit-breaker", "docker", "pytest"}, got)
}

func TestExtractEntities_SortedAndDeduplicated(t *testing.T) {
	got := extractEntities("redis redis kafka REDIS kafka")
	assert.Equal(t, []string{"kafka", "redis"}, got)
}

func TestExtractEntities_EmptyResultIsNil(t *testing.T) {
	assert.Nil(t, extractEntities(""))
	assert.Nil(t, extractEntities("nothing technical mentioned at all"))
}
