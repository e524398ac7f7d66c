package config

import (
	"fmt"
	"os"
	"strings"

	"subseek/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCatalog()
	c.normalizeCache()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir()
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() {
	c.Catalog.Endpoint = strings.TrimSpace(c.Catalog.Endpoint)
	if value, ok := os.LookupEnv(endpointEnvVar); ok && strings.TrimSpace(value) != "" {
		c.Catalog.Endpoint = strings.TrimSpace(value)
	}
	if c.Catalog.Endpoint == "" {
		c.Catalog.Endpoint = defaultEndpoint
	}
	c.Catalog.UserAgent = strings.TrimSpace(c.Catalog.UserAgent)
	if c.Catalog.UserAgent == "" {
		c.Catalog.UserAgent = defaultUserAgent
	}
	if c.Catalog.Username == "" {
		if value, ok := os.LookupEnv(usernameEnvVar); ok {
			c.Catalog.Username = strings.TrimSpace(value)
		}
	}
	if c.Catalog.Password == "" {
		if value, ok := os.LookupEnv(passwordEnvVar); ok {
			c.Catalog.Password = value
		}
	}

	code := strings.ToLower(strings.TrimSpace(c.Catalog.LanguageCode))
	if code == "" {
		code = defaultLanguageCode
	}
	if iso3 := language.ToISO3(code); iso3 != "" {
		code = iso3
	}
	c.Catalog.LanguageCode = code

	c.Catalog.LanguagePolicy = strings.ToLower(strings.TrimSpace(c.Catalog.LanguagePolicy))
	if c.Catalog.LanguagePolicy == "" {
		c.Catalog.LanguagePolicy = defaultLanguagePolicy
	}
	c.Catalog.Proxy = strings.TrimSpace(c.Catalog.Proxy)
	if c.Catalog.ConnectTimeoutSeconds < 0 {
		c.Catalog.ConnectTimeoutSeconds = 0
	}
	if c.Catalog.ReadTimeoutSeconds < 0 {
		c.Catalog.ReadTimeoutSeconds = 0
	}
}

func (c *Config) normalizeCache() {
	if c.Cache.SearchTTLHours < 0 {
		c.Cache.SearchTTLHours = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	// Presence alone enables debug output, whatever the value.
	if _, ok := os.LookupEnv(debugEnvVar); ok {
		c.Logging.Debug = true
	}
	if _, ok := os.LookupEnv(debugEnvVarAlt); ok {
		c.Logging.Debug = true
	}
}
