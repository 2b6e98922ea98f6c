package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hookmind/internal/session"
	"hookmind/internal/signal"
)

var detectLog bool

var detectCmd = &cobra.Command{
	Use:   "detect [prompt]",
	Short: "Run signal extraction on a prompt and print the result as JSON",
	Long: `Runs the intent signal extractor on the given prompt (or stdin when no
argument is provided) and prints the structured result. With --log, the
signals are also tagged with the session context and appended to the
workspace event log, the same way the hook wrapper does.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var prompt string
		if len(args) == 1 {
			prompt = args[0]
		} else {
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read prompt from stdin: %w", err)
			}
			prompt = strings.TrimSpace(string(raw))
		}

		result := signal.Detect(prompt)

		if detectLog {
			rt := runtimeFrom(cmd.Context())
			ctx, err := session.New(rt.workspace)
			if err != nil {
				return err
			}
			log, err := session.OpenEventLog(rt.workspace)
			if err != nil {
				return err
			}
			if err := log.AppendSignals(ctx, result.Signals); err != nil {
				return err
			}
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	detectCmd.Flags().BoolVar(&detectLog, "log", false, "append tagged signals to the session event log")
	rootCmd.AddCommand(detectCmd)
}
