package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTelegram(); err != nil {
		return err
	}
	if err := c.validateResolver(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTelegram() error {
	if c.Telegram.Token == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/turntable/config.toml"
		}
		return fmt.Errorf("telegram.token is required. Set TURNTABLE_BOT_TOKEN env var or edit %s (create with 'turntable config init')", defaultPath)
	}
	if c.Telegram.PollTimeoutSeconds > 50 {
		return errors.New("telegram.poll_timeout_seconds must be 50 or less")
	}
	return nil
}

func (c *Config) validateResolver() error {
	if c.Resolver.TimeoutSeconds > 60 {
		return errors.New("resolver.timeout_seconds must be 60 or less")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
