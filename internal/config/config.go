package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Language policies decide which language code accompanies a login.
const (
	// LanguagePolicyAlways sends the configured language code on every login.
	LanguagePolicyAlways = "always"
	// LanguagePolicyAnonymousEmpty sends an empty code when no login name is given.
	LanguagePolicyAnonymousEmpty = "anonymous-empty"
)

// Paths contains directory configuration.
type Paths struct {
	LogDir   string `toml:"log_dir"`
	CacheDir string `toml:"cache_dir"`
}

// Catalog contains configuration for the OpenSubtitles XML-RPC endpoint.
type Catalog struct {
	Endpoint              string `toml:"endpoint"`
	UserAgent             string `toml:"user_agent"`
	Username              string `toml:"username"`
	Password              string `toml:"password"`
	LanguageCode          string `toml:"language_code"`
	LanguagePolicy        string `toml:"language_policy"`
	Compress              bool   `toml:"compress"`
	RawFallback           bool   `toml:"raw_fallback"`
	Proxy                 string `toml:"proxy"`
	ConnectTimeoutSeconds int    `toml:"connect_timeout_seconds"`
	ReadTimeoutSeconds    int    `toml:"read_timeout_seconds"`
}

// Cache contains configuration for the local lookup cache.
type Cache struct {
	Enabled        bool `toml:"enabled"`
	SearchTTLHours int  `toml:"search_ttl_hours"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Debug  bool   `toml:"debug"`
}

// Config encapsulates all configuration values for subseek.
//
// Configuration sections by subsystem:
//   - Paths: log and cache directories
//   - Catalog: XML-RPC endpoint, credentials, and transport negotiation
//   - Cache: fingerprint and search result caching
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Catalog Catalog `toml:"catalog"`
	Cache   Cache   `toml:"cache"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/subseek/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if os.IsNotExist(err) {
				return "", false, fmt.Errorf("config file %s not found", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("subseek.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log and cache directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.CacheDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ConnectTimeout returns the dial timeout; zero blocks indefinitely.
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.Catalog.ConnectTimeoutSeconds) * time.Second
}

// ReadTimeout returns the response header timeout; zero blocks indefinitely.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Catalog.ReadTimeoutSeconds) * time.Second
}

// SearchTTL returns how long cached search results stay fresh.
func (c *Config) SearchTTL() time.Duration {
	return time.Duration(c.Cache.SearchTTLHours) * time.Hour
}

// LookupDBPath returns the location of the lookup cache database.
func (c *Config) LookupDBPath() string {
	return filepath.Join(c.Paths.CacheDir, "lookups.db")
}

// SessionLockPath returns the lock file guarding concurrent catalog sessions.
func (c *Config) SessionLockPath() string {
	return filepath.Join(c.Paths.CacheDir, "session.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "subseek")
	}
	return "~/.cache/subseek"
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
