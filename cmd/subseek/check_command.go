package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subseek/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify directories, the lookup cache, and catalog reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			results := preflight.RunAll(cmd.Context(), cfg, logger)
			out := cmd.OutOrStdout()
			failed := 0
			for _, r := range results {
				mark := "ok"
				if !r.Passed {
					mark = "FAIL"
					failed++
				}
				fmt.Fprintf(out, "%-4s %-18s %s\n", mark, r.Name, r.Detail)
			}
			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}
