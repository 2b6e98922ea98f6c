package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "hookmind", cfg.Name)
	assert.False(t, cfg.Throttle.Enabled)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, 1000, cfg.Retry.BaseDelayMS)
	assert.True(t, cfg.Calibration.ArchiveEvicted)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.DebugMode)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	workspace := t.TempDir()
	writeConfig(t, workspace, `
throttle:
  enabled: true
retry:
  max_retries: 5
logging:
  level: debug
`)

	cfg, err := Load(workspace)
	require.NoError(t, err)
	assert.True(t, cfg.Throttle.Enabled)
	assert.Equal(t, 5, cfg.Retry.MaxRetries)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, 1000, cfg.Retry.BaseDelayMS)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvOverridesWinOverFile(t *testing.T) {
	workspace := t.TempDir()
	writeConfig(t, workspace, "throttle:\n  enabled: false\n")

	t.Setenv("HOOKMIND_THROTTLE_ENABLED", "true")
	t.Setenv("HOOKMIND_DEBUG", "1")
	t.Setenv("HOOKMIND_LOG_LEVEL", "warn")

	cfg, err := Load(workspace)
	require.NoError(t, err)
	assert.True(t, cfg.Throttle.Enabled)
	assert.True(t, cfg.Logging.DebugMode)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_UnparseableEnvBoolIgnored(t *testing.T) {
	t.Setenv("HOOKMIND_THROTTLE_ENABLED", "yes please")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.False(t, cfg.Throttle.Enabled)
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	workspace := t.TempDir()
	writeConfig(t, workspace, "retry:\n  max_retries: 0\n")
	_, err := Load(workspace)
	assert.ErrorContains(t, err, "max_retries")

	writeConfig(t, workspace, "logging:\n  level: verbose\n")
	_, err = Load(workspace)
	assert.ErrorContains(t, err, "logging.level")

	writeConfig(t, workspace, "retry: [not a mapping\n")
	_, err = Load(workspace)
	assert.ErrorContains(t, err, "parse config")
}

func TestFindWorkspaceRoot_WalksUpToMarker(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".hookmind"), 0755))
	nested := filepath.Join(root, "services", "api")
	require.NoError(t, os.MkdirAll(nested, 0755))
	chdir(t, nested)

	got, err := FindWorkspaceRoot()
	require.NoError(t, err)
	assertSamePath(t, root, got)
}

func TestFindWorkspaceRoot_NoMarkerFallsBackToCwd(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	got, err := FindWorkspaceRoot()
	require.NoError(t, err)
	assertSamePath(t, dir, got)
}

// chdir changes the working directory for the duration of the test,
// restoring the original directory on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(old))
	})
}

// assertSamePath compares paths after symlink resolution; t.TempDir may sit
// behind a symlink (macOS /var -> /private/var).
func assertSamePath(t *testing.T, want, got string) {
	t.Helper()
	wantReal, err := filepath.EvalSymlinks(want)
	require.NoError(t, err)
	gotReal, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, wantReal, gotReal)
}

func writeConfig(t *testing.T, workspace, body string) {
	t.Helper()
	dir := filepath.Join(workspace, ".hookmind")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644))
}
