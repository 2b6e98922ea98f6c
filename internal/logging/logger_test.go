package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_DebugOffIsSilent(t *testing.T) {
	workspace := t.TempDir()
	require.NoError(t, Initialize(workspace, false, "info"))

	Get(CategorySignals).Infow("should go nowhere")
	Sync()

	_, err := os.Stat(filepath.Join(workspace, ".hookmind", "logs"))
	assert.True(t, os.IsNotExist(err))
}

func TestInitialize_DebugWritesDatedLogFile(t *testing.T) {
	workspace := t.TempDir()
	require.NoError(t, Initialize(workspace, true, "debug"))
	defer func() { require.NoError(t, Initialize("", false, "")) }()

	Get(CategoryRetry).Debugw("retry decision", "agent", "code-reviewer")
	Sync()

	name := time.Now().Format("2006-01-02") + "_hookmind.log"
	raw, err := os.ReadFile(filepath.Join(workspace, ".hookmind", "logs", name))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"retry decision"`)
	assert.Contains(t, string(raw), `"code-reviewer"`)
}

func TestInitialize_LevelFiltersDebug(t *testing.T) {
	workspace := t.TempDir()
	require.NoError(t, Initialize(workspace, true, "warn"))
	defer func() { require.NoError(t, Initialize("", false, "")) }()

	Get(CategoryThrottle).Debugw("filtered out")
	Get(CategoryThrottle).Warnw("kept")
	Sync()

	name := time.Now().Format("2006-01-02") + "_hookmind.log"
	raw, err := os.ReadFile(filepath.Join(workspace, ".hookmind", "logs", name))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "filtered out")
	assert.Contains(t, string(raw), "kept")
}

func TestGet_CategoryNamesAppearInOutput(t *testing.T) {
	workspace := t.TempDir()
	require.NoError(t, Initialize(workspace, true, "info"))
	defer func() { require.NoError(t, Initialize("", false, "")) }()

	Get(CategoryCalibration).Infow("record appended")
	Sync()

	name := time.Now().Format("2006-01-02") + "_hookmind.log"
	raw, err := os.ReadFile(filepath.Join(workspace, ".hookmind", "logs", name))
	require.NoError(t, err)
	line := strings.TrimSpace(string(raw))
	assert.Contains(t, line, `"calibration"`)
}

func TestInitialize_DebugRequiresWorkspace(t *testing.T) {
	assert.Error(t, Initialize("", true, "info"))
}
