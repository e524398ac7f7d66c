package preflight

import (
	"context"
	"log/slog"

	"subseek/internal/config"
	"subseek/internal/opensubtitles"
)

// endpointTimeoutSeconds bounds the catalog check when the configuration
// leaves timeouts unset.
const endpointTimeoutSeconds = 10

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config, logger *slog.Logger) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir))

	if cfg.Cache.Enabled {
		results = append(results, CheckLookupCache(cfg))
	}

	results = append(results, checkCatalogFromConfig(ctx, cfg, logger))

	return results
}

func checkCatalogFromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) Result {
	transport, err := opensubtitles.NewTransportFromConfig(boundedCatalogConfig(cfg), logger, nil)
	if err != nil {
		return Result{Name: catalogCheckName, Detail: err.Error()}
	}
	return CheckEndpoint(ctx, transport, cfg.Catalog.Endpoint)
}

// boundedCatalogConfig returns a copy of cfg whose unset catalog timeouts are
// replaced so a dead endpoint cannot hang the check.
func boundedCatalogConfig(cfg *config.Config) *config.Config {
	bounded := *cfg
	if bounded.Catalog.ConnectTimeoutSeconds <= 0 {
		bounded.Catalog.ConnectTimeoutSeconds = endpointTimeoutSeconds
	}
	if bounded.Catalog.ReadTimeoutSeconds <= 0 {
		bounded.Catalog.ReadTimeoutSeconds = endpointTimeoutSeconds
	}
	return &bounded
}
