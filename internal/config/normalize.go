package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTelegram()
	c.normalizeResolver()
	c.normalizeQueue()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTelegram() {
	if c.Telegram.Token == "" {
		if value, ok := os.LookupEnv("TURNTABLE_BOT_TOKEN"); ok {
			c.Telegram.Token = value
		}
	}
	c.Telegram.Token = strings.TrimSpace(c.Telegram.Token)
	c.Telegram.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.Telegram.APIBaseURL), "/")
	if c.Telegram.APIBaseURL == "" {
		c.Telegram.APIBaseURL = defaultAPIBaseURL
	}
	if c.Telegram.PollTimeoutSeconds <= 0 {
		c.Telegram.PollTimeoutSeconds = defaultPollTimeoutSeconds
	}
}

func (c *Config) normalizeResolver() {
	if c.Resolver.TimeoutSeconds <= 0 {
		c.Resolver.TimeoutSeconds = defaultResolverTimeout
	}
	if c.Resolver.MaxBodyKiB <= 0 {
		c.Resolver.MaxBodyKiB = defaultResolverMaxBodyKiB
	}
	c.Resolver.UserAgent = strings.TrimSpace(c.Resolver.UserAgent)
	if c.Resolver.UserAgent == "" {
		c.Resolver.UserAgent = defaultResolverUserAgent
	}
}

func (c *Config) normalizeQueue() {
	if c.Queue.InspectLimit <= 0 {
		c.Queue.InspectLimit = defaultQueueInspectLimit
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
