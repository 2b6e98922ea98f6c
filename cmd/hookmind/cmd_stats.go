package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show calibration summary: dispatch volume, success rate, learned pairings",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := runtimeFrom(cmd.Context())
		store, cleanup, err := openStore(rt.workspace, rt.cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		data := store.Load()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Dispatches:       %d\n", data.Stats.TotalDispatches)
		fmt.Fprintf(out, "Success rate:     %.1f%%\n", data.Stats.SuccessRate*100)
		fmt.Fprintf(out, "Mean confidence:  %.1f\n", data.Stats.AvgConfidence)

		if len(data.Stats.TopAgents) > 0 {
			fmt.Fprintln(out, "\nTop agents:")
			for _, a := range data.Stats.TopAgents {
				fmt.Fprintf(out, "  %-28s %4d dispatches  %.1f%% success\n",
					a.Agent, a.Dispatches, a.SuccessRate*100)
			}
		}

		adjustments := store.Adjustments()
		if len(adjustments) > 0 {
			fmt.Fprintln(out, "\nLearned pairings (>= 3 samples):")
			for _, a := range adjustments {
				fmt.Fprintf(out, "  %-20s -> %-28s %+3d (%d samples)\n",
					a.Keyword, a.Agent, a.Adjustment, a.SampleCount)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
