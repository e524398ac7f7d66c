package config

const (
	defaultLogDir           = "~/.local/share/subseek/logs"
	defaultEndpoint         = "http://api.opensubtitles.org/xml-rpc"
	defaultUserAgent        = "OS Test User Agent"
	defaultLanguageCode     = "eng"
	defaultLanguagePolicy   = LanguagePolicyAlways
	defaultSearchTTLHours   = 24
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	debugEnvVar             = "OSC_DEBUG"
	debugEnvVarAlt          = "SUBSEEK_DEBUG"
	usernameEnvVar          = "OPENSUBTITLES_USERNAME"
	passwordEnvVar          = "OPENSUBTITLES_PASSWORD"
	endpointEnvVar          = "OPENSUBTITLES_ENDPOINT"
	defaultCacheEnabled     = true
	defaultCompressRequests = false
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			CacheDir: defaultCacheDir(),
		},
		Catalog: Catalog{
			Endpoint:       defaultEndpoint,
			UserAgent:      defaultUserAgent,
			LanguageCode:   defaultLanguageCode,
			LanguagePolicy: defaultLanguagePolicy,
			Compress:       defaultCompressRequests,
		},
		Cache: Cache{
			Enabled:        defaultCacheEnabled,
			SearchTTLHours: defaultSearchTTLHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
