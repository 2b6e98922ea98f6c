package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var decayCmd = &cobra.Command{
	Use:   "decay",
	Short: "Shrink stale calibration adjustments toward zero",
	Long: `Applies adjustment decay: every keyword/agent pairing untouched for more
than seven days is shrunk toward zero, and pairings that reach zero are
forgotten. Decay never runs automatically; invoke this from a maintenance
hook or by hand.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := runtimeFrom(cmd.Context())
		store, cleanup, err := openStore(rt.workspace, rt.cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		before := len(store.Load().Adjustments)
		store.ApplyDecay()
		after := len(store.Load().Adjustments)

		fmt.Fprintf(cmd.OutOrStdout(), "Decay applied: %d adjustments -> %d\n", before, after)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decayCmd)
}
