// hookmind is the operator/debug CLI for the decision core. The plugin's
// hook wrapper talks to the core in-process; this binary exists for humans:
// inspecting calibration state, running decay, and exercising the extractor.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"hookmind/internal/calibration"
	"hookmind/internal/config"
	"hookmind/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "hookmind",
	Short: "Decision core tooling: signal extraction, calibration, retry, throttling",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace, err := config.FindWorkspaceRoot()
		if err != nil {
			return err
		}
		cfg, err := config.Load(workspace)
		if err != nil {
			return err
		}
		if err := logging.Initialize(workspace, cfg.Logging.DebugMode, cfg.Logging.Level); err != nil {
			return err
		}
		cmd.SetContext(withRuntime(cmd.Context(), workspace, cfg))
		return nil
	},
}

func main() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore builds the calibration store for a workspace, attaching the
// archive when configured.
func openStore(workspace string, cfg *config.Config) (*calibration.Store, func(), error) {
	repo, err := calibration.NewFileRepository(filepath.Join(workspace, ".hookmind", "calibration.json"))
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	opts := []calibration.Option{}
	if cfg.Calibration.ArchiveEvicted {
		archive, err := calibration.OpenArchive(filepath.Join(workspace, ".hookmind", "calibration_archive.db"))
		if err != nil {
			// The archive is advisory; run without it.
			logging.Get(logging.CategoryCalibration).Warnw("archive unavailable", "error", err)
		} else {
			opts = append(opts, calibration.WithArchive(archive))
			cleanup = func() { archive.Close() }
		}
	}
	return calibration.NewStore(repo, opts...), cleanup, nil
}
