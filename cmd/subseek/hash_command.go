package main

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"

	"subseek/internal/fingerprint"
)

func newHashCommand() *cobra.Command {
	var workers int
	var asTable bool

	cmd := &cobra.Command{
		Use:         "hash <file>...",
		Short:       "Print the OpenSubtitles fingerprint of each file",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			results := fingerprint.ComputeAll(cmd.Context(), args, workers)

			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()
			failed := 0
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(errOut, "%s: %v\n", r.Path, r.Err)
					continue
				}
				if asTable {
					rows = append(rows, []string{r.Path, strconv.FormatUint(r.Fingerprint.Size, 10), r.Fingerprint.Digest})
					continue
				}
				fmt.Fprintf(out, "FILE(%s)=%d %s\n", r.Path, r.Fingerprint.Size, r.Fingerprint.Digest)
			}
			if asTable && len(rows) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"File", "Size", "Digest"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignLeft},
					isTerminal(out),
				))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be fingerprinted", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "Files hashed concurrently")
	cmd.Flags().BoolVar(&asTable, "table", false, "Render fingerprints as a table")
	return cmd
}
