package opensubtitles

import (
	"log/slog"

	"subseek/internal/config"
)

// NewTransportFromConfig builds a Transport from the catalog section of cfg.
// observer may be nil.
func NewTransportFromConfig(cfg *config.Config, logger *slog.Logger, observer CallObserver) (*Transport, error) {
	return NewTransport(TransportConfig{
		Endpoint:       cfg.Catalog.Endpoint,
		UserAgent:      cfg.Catalog.UserAgent,
		Compress:       cfg.Catalog.Compress,
		RawFallback:    cfg.Catalog.RawFallback,
		Proxy:          cfg.Catalog.Proxy,
		ConnectTimeout: cfg.ConnectTimeout(),
		ReadTimeout:    cfg.ReadTimeout(),
		Logger:         logger,
		Observer:       observer,
	})
}

// OptionsFromConfig returns session options for the catalog section of cfg.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	return Options{
		UserAgent:      cfg.Catalog.UserAgent,
		LanguageCode:   cfg.Catalog.LanguageCode,
		LanguagePolicy: LanguagePolicy(cfg.Catalog.LanguagePolicy),
		Logger:         logger,
	}
}
