package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeConvert()
	c.normalizeFFmpeg()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeConvert() {
	if len(c.Convert.InputExtensions) == 0 {
		c.Convert.InputExtensions = defaultInputExtensions()
	}
	normalized := make([]string, 0, len(c.Convert.InputExtensions))
	for _, ext := range c.Convert.InputExtensions {
		if cleaned := normalizeExtension(ext); cleaned != "" {
			normalized = append(normalized, cleaned)
		}
	}
	c.Convert.InputExtensions = normalized

	c.Convert.OutputExtension = normalizeExtension(c.Convert.OutputExtension)
	if c.Convert.OutputExtension == "" {
		c.Convert.OutputExtension = defaultOutputExtension
	}
	c.Convert.AudioCodec = strings.TrimSpace(c.Convert.AudioCodec)
	if c.Convert.AudioCodec == "" {
		c.Convert.AudioCodec = defaultAudioCodec
	}
	c.Convert.AudioBitrate = strings.TrimSpace(c.Convert.AudioBitrate)
	if c.Convert.AudioBitrate == "" {
		c.Convert.AudioBitrate = defaultAudioBitrate
	}
}

func (c *Config) normalizeFFmpeg() {
	c.FFmpeg.Binary = strings.TrimSpace(c.FFmpeg.Binary)
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = "ffmpeg"
	}
	c.FFmpeg.ProbeBinary = strings.TrimSpace(c.FFmpeg.ProbeBinary)
	if c.FFmpeg.ProbeBinary == "" {
		c.FFmpeg.ProbeBinary = "ffprobe"
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyRequestTimeout
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
