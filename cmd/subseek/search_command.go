package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"subseek/internal/config"
	"subseek/internal/fingerprint"
	"subseek/internal/logging"
	"subseek/internal/lookupcache"
	"subseek/internal/metrics"
	"subseek/internal/opensubtitles"
)

var errNoResults = errors.New("no results")

type searchOptions struct {
	table   bool
	noCache bool
	retries int
}

func newSearchOptions() *searchOptions {
	return &searchOptions{}
}

func (o *searchOptions) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.table, "table", false, "Render matches as a table")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "Bypass the lookup cache")
	cmd.Flags().IntVar(&o.retries, "retries", 0, "Retry transient catalog failures this many times")
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	opts := newSearchOptions()
	cmd := &cobra.Command{
		Use:   "search <file>",
		Short: "Fingerprint a file and list matching subtitles",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("provide the path to a media file. Example: subseek search /path/to/movie.avi")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, ctx, opts, args[0])
		},
	}
	opts.bind(cmd)
	return cmd
}

func runSearch(cmd *cobra.Command, ctx *commandContext, opts *searchOptions, source string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	runCtx := cmd.Context()
	if runCtx == nil {
		runCtx = context.Background()
	}
	recorder := ctx.ensureMetrics()
	defer ctx.flushMetrics(logger)

	var store *lookupcache.Store
	if cfg.Cache.Enabled && !opts.noCache {
		store = openLookupCache(cfg, logger)
		if store != nil {
			defer store.Close()
		}
	}

	fp, err := fingerprintFile(runCtx, store, recorder, source, logger)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "FILE(%s)=%d %s\n", source, fp.Size, fp.Digest)

	matches, err := lookupMatches(runCtx, cfg, store, recorder, fp, opts.retries, logger)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return errNoResults
	}

	if opts.table {
		fmt.Fprintln(out, renderMatchTable(matches, isTerminal(out)))
		return nil
	}
	writeMatches(out, matches)
	return nil
}

func openLookupCache(cfg *config.Config, logger *slog.Logger) *lookupcache.Store {
	store, err := lookupcache.Open(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "lookup cache unavailable", "lookup_cache_unavailable",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run subseek check or delete "+cfg.LookupDBPath()),
			logging.String(logging.FieldImpact, "fingerprints and searches will not be cached"),
		)
		return nil
	}
	return store
}

func fingerprintFile(ctx context.Context, store *lookupcache.Store, recorder *metrics.Recorder, source string, logger *slog.Logger) (fingerprint.Fingerprint, error) {
	info, err := os.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return fingerprint.Fingerprint{}, fmt.Errorf("source file %q not found", source)
		}
		return fingerprint.Fingerprint{}, fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return fingerprint.Fingerprint{}, fmt.Errorf("source path %q is a directory", source)
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		abs = source
	}

	if store != nil {
		fp, ok, err := store.LookupFingerprint(ctx, abs, info.Size(), info.ModTime())
		switch {
		case err != nil:
			logger.Debug("fingerprint cache lookup failed", logging.Error(err))
		case ok:
			recorder.ObserveCache("fingerprints", true)
			logger.Debug("fingerprint served from cache", logging.String("path", abs))
			return fp, nil
		default:
			recorder.ObserveCache("fingerprints", false)
		}
	}

	fp, err := fingerprint.Compute(ctx, abs)
	if err != nil {
		return fingerprint.Fingerprint{}, err
	}
	recorder.FingerprintComputed()
	if store != nil {
		if err := store.StoreFingerprint(ctx, abs, info.ModTime(), fp); err != nil {
			logger.Debug("fingerprint cache store failed", logging.Error(err))
		}
	}
	return fp, nil
}

func lookupMatches(ctx context.Context, cfg *config.Config, store *lookupcache.Store, recorder *metrics.Recorder, fp fingerprint.Fingerprint, retries int, logger *slog.Logger) ([]opensubtitles.Match, error) {
	if store != nil {
		entry, ok, err := store.LookupSearch(ctx, fp, cfg.SearchTTL())
		switch {
		case err != nil:
			logger.Debug("search cache lookup failed", logging.Error(err))
		case ok:
			recorder.ObserveCache("searches", true)
			logger.Info("search served from cache",
				logging.String("digest", fp.Digest),
				logging.Uint64("size", fp.Size),
				logging.String("searched_at", entry.SearchedAt.Format("2006-01-02 15:04:05")))
			return toMatches(entry.Matches), nil
		default:
			recorder.ObserveCache("searches", false)
		}
	}

	matches, err := searchCatalog(ctx, cfg, recorder, fp, retries, logger)
	if err != nil {
		return nil, err
	}

	if store != nil {
		if err := store.StoreSearch(ctx, fp, fromMatches(matches)); err != nil {
			logger.Debug("search cache store failed", logging.Error(err))
		}
	}
	return matches, nil
}

func searchCatalog(ctx context.Context, cfg *config.Config, recorder *metrics.Recorder, fp fingerprint.Fingerprint, retries int, logger *slog.Logger) ([]opensubtitles.Match, error) {
	lock, err := acquireSessionLock(cfg.SessionLockPath())
	if err != nil {
		return nil, err
	}
	defer lock.release(logger)

	transport, err := opensubtitles.NewTransportFromConfig(cfg, logger, recorder)
	if err != nil {
		return nil, err
	}
	sessionOpts := opensubtitles.OptionsFromConfig(cfg, logger)

	var matches []opensubtitles.Match
	search := func() error {
		return opensubtitles.With(ctx, transport, sessionOpts, cfg.Catalog.Username, cfg.Catalog.Password,
			func(s *opensubtitles.Session) error {
				var err error
				matches, err = s.SearchSubtitles(ctx, fp)
				return err
			})
	}

	backoff := opensubtitles.InitialBackoff
	for attempt := 0; ; attempt++ {
		err = search()
		if err == nil || attempt >= retries || !opensubtitles.IsRetriable(err) {
			break
		}
		logging.WarnWithContext(logger, "catalog call failed; retrying", "catalog_retry",
			logging.Error(err),
			logging.Int("attempt", attempt+1),
			logging.Duration("backoff", backoff),
			logging.String(logging.FieldImpact, "search delayed"),
		)
		if sleepErr := opensubtitles.SleepWithContext(ctx, backoff); sleepErr != nil {
			return nil, sleepErr
		}
		backoff = opensubtitles.NextBackoff(backoff)
	}
	if err != nil {
		logging.ErrorWithContext(logger, "catalog search failed", "catalog_search_failed",
			logging.Error(err),
			logging.String("digest", fp.Digest),
			logging.String(logging.FieldErrorHint, "run subseek check to verify the endpoint and credentials"),
		)
		return nil, err
	}
	return matches, nil
}

func toMatches(records []map[string]any) []opensubtitles.Match {
	if len(records) == 0 {
		return nil
	}
	out := make([]opensubtitles.Match, 0, len(records))
	for _, record := range records {
		out = append(out, opensubtitles.Match(record))
	}
	return out
}

func fromMatches(matches []opensubtitles.Match) []map[string]any {
	if len(matches) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(matches))
	for _, m := range matches {
		out = append(out, map[string]any(m))
	}
	return out
}

// writeMatches prints every field of every match, then the download links.
func writeMatches(out io.Writer, matches []opensubtitles.Match) {
	links := make([]string, 0, len(matches))
	for _, m := range matches {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "  [%s]=%s\n", k, m.Field(k))
		}
		fmt.Fprint(out, "--\n\n")
		links = append(links, m.Link())
	}
	fmt.Fprintln(out, strings.Join(links, " | "))
}
