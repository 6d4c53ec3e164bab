package config

const (
	defaultDataDir             = "~/.local/share/turntable"
	defaultLogDir              = "~/.local/share/turntable/logs"
	defaultAPIBaseURL          = "https://api.telegram.org"
	defaultPollTimeoutSeconds  = 30
	defaultResolverTimeout     = 5
	defaultResolverMaxBodyKiB  = 256
	defaultResolverUserAgent   = "Turntable/0.1"
	defaultQueueInspectLimit   = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Telegram: Telegram{
			APIBaseURL:         defaultAPIBaseURL,
			PollTimeoutSeconds: defaultPollTimeoutSeconds,
		},
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Resolver: Resolver{
			TimeoutSeconds: defaultResolverTimeout,
			MaxBodyKiB:     defaultResolverMaxBodyKiB,
			UserAgent:      defaultResolverUserAgent,
		},
		Queue: Queue{
			InspectLimit: defaultQueueInspectLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
