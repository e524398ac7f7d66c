package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		return errors.New("paths.cache_dir must be set")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	endpoint, err := url.Parse(c.Catalog.Endpoint)
	if err != nil {
		return fmt.Errorf("catalog.endpoint: %w", err)
	}
	if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
		return fmt.Errorf("catalog.endpoint must use http or https, got %q", c.Catalog.Endpoint)
	}
	if endpoint.Host == "" {
		return fmt.Errorf("catalog.endpoint must include a host, got %q", c.Catalog.Endpoint)
	}
	switch c.Catalog.LanguagePolicy {
	case LanguagePolicyAlways, LanguagePolicyAnonymousEmpty:
	default:
		return fmt.Errorf("catalog.language_policy must be %q or %q, got %q",
			LanguagePolicyAlways, LanguagePolicyAnonymousEmpty, c.Catalog.LanguagePolicy)
	}
	if len(c.Catalog.LanguageCode) != 3 {
		return fmt.Errorf("catalog.language_code must be a three-letter code, got %q", c.Catalog.LanguageCode)
	}
	if c.Catalog.Proxy != "" {
		proxy, err := url.Parse(c.Catalog.Proxy)
		if err != nil {
			return fmt.Errorf("catalog.proxy: %w", err)
		}
		if proxy.Host == "" {
			return fmt.Errorf("catalog.proxy must include a host, got %q", c.Catalog.Proxy)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
}
