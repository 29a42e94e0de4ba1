package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateConvert(); err != nil {
		return err
	}
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateConvert() error {
	if len(c.Convert.InputExtensions) == 0 {
		return errors.New("convert.input_extensions must list at least one extension")
	}
	for _, ext := range c.Convert.InputExtensions {
		if ext == "." {
			return fmt.Errorf("convert.input_extensions contains invalid entry %q", ext)
		}
	}
	if c.Convert.OutputExtension == "." {
		return errors.New("convert.output_extension is invalid")
	}
	if c.Convert.FileTimeout < 0 {
		return errors.New("convert.file_timeout must not be negative")
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	if strings.TrimSpace(c.FFmpeg.Binary) == "" {
		return errors.New("ffmpeg.binary must be set")
	}
	if strings.TrimSpace(c.FFmpeg.ProbeBinary) == "" {
		return errors.New("ffmpeg.probe_binary must be set")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.NtfyTopic == "" {
		return nil
	}
	if !strings.HasPrefix(c.Notifications.NtfyTopic, "http://") && !strings.HasPrefix(c.Notifications.NtfyTopic, "https://") {
		return errors.New("notifications.ntfy_topic must be a full ntfy URL (e.g. https://ntfy.sh/your-topic)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
