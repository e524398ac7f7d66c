package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"subseek/internal/logging"
	"subseek/internal/lookupcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Lookup cache maintenance",
	}
	cacheCmd.AddCommand(newCachePurgeCommand(ctx))
	return cacheCmd
}

func newCachePurgeCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Drop cached fingerprints and searches older than a cutoff",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			store, err := lookupcache.Open(cfg)
			if err != nil {
				return fmt.Errorf("open lookup cache: %w", err)
			}
			defer store.Close()

			removed, err := store.Purge(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			logger.Info("lookup cache purged",
				logging.Int64("removed", removed),
				logging.Duration("older_than", olderThan),
				logging.String(logging.FieldEventType, "lookup_cache_purged"),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached entries from %s\n", removed, store.Path())
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "Only drop entries older than this (0 drops everything)")
	return cmd
}
