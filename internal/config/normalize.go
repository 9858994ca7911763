package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAudio()
	c.normalizeReindex()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.RootDir) == "" {
		c.Paths.RootDir = defaultRootDir
	}
	if c.Paths.RootDir, err = expandPath(c.Paths.RootDir); err != nil {
		return fmt.Errorf("paths.root_dir: %w", err)
	}
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
	if strings.TrimSpace(c.Paths.APIBind) == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeAudio() {
	if len(c.Audio.Extensions) == 0 {
		c.Audio.Extensions = defaultAudioExtensions()
	}
	normalized := make([]string, 0, len(c.Audio.Extensions))
	for _, ext := range c.Audio.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	if len(normalized) > 0 {
		c.Audio.Extensions = normalized
	} else {
		c.Audio.Extensions = defaultAudioExtensions()
	}
	if strings.TrimSpace(c.Audio.FFmpegBinary) == "" {
		c.Audio.FFmpegBinary = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Audio.PlayerBinary) == "" {
		c.Audio.PlayerBinary = defaultPlayerBinary
	}
	if c.Audio.TranscodeTimeout <= 0 {
		c.Audio.TranscodeTimeout = defaultTranscodeTimeout
	}
	if c.Audio.CleanupDelay <= 0 {
		c.Audio.CleanupDelay = defaultCleanupDelay
	}
}

func (c *Config) normalizeReindex() {
	if c.Reindex.ProgressIntervalMS <= 0 {
		c.Reindex.ProgressIntervalMS = defaultProgressIntervalMS
	}
	ext := strings.ToLower(strings.TrimSpace(c.Reindex.CaptionExtension))
	if ext == "" {
		ext = defaultCaptionExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Reindex.CaptionExtension = ext
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
