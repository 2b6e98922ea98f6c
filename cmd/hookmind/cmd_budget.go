package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"hookmind/internal/throttle"
	"hookmind/internal/usage"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Show token usage against the per-category budget table",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := runtimeFrom(cmd.Context())
		tracker, err := usage.NewTracker(rt.workspace)
		if err != nil {
			return err
		}
		th := throttle.New(rt.cfg.Throttle.Enabled, tracker)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Throttle enabled: %v\n", th.Enabled())
		fmt.Fprintf(out, "Total usage:      %d / %d tokens\n\n", tracker.TotalTokens(), throttle.TotalBudget)

		budgets := throttle.Budgets()
		categories := make([]string, 0, len(budgets))
		for c := range budgets {
			categories = append(categories, c)
		}
		sort.Strings(categories)

		for _, c := range categories {
			marker := ""
			if th.IsOverBudget(c) {
				marker = "  OVER BUDGET"
			}
			fmt.Fprintf(out, "  %-18s %5d used / %5d budget (%d remaining)%s\n",
				c, tracker.CategoryTokens(c), budgets[c], th.RemainingBudget(c), marker)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(budgetCmd)
}
