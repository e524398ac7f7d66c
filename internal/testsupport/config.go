package testsupport

import (
	"path/filepath"
	"testing"

	"subseek/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Catalog.Endpoint = "http://127.0.0.1:0/xml-rpc"
	cfgVal.Catalog.UserAgent = "subseek-test"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithEndpoint points the catalog at url, typically an httptest server.
func WithEndpoint(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.Endpoint = url
	}
}

// WithCredentials sets the catalog login name and password.
func WithCredentials(username, password string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.Username = username
		b.cfg.Catalog.Password = password
	}
}

// WithCompression toggles gzip negotiation and the raw fallback.
func WithCompression(compress, rawFallback bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.Compress = compress
		b.cfg.Catalog.RawFallback = rawFallback
	}
}

// WithoutCache disables the lookup cache.
func WithoutCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.CacheDir)
}
