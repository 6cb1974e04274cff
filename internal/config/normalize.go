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
	c.normalizeSpleeter()
	c.normalizeDemucs()
	c.normalizeSeparation()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if value, ok := os.LookupEnv("STEMSPLIT_OUTPUT_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.OutputDir = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("STEMSPLIT_MODEL_CACHE_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.ModelCacheDir = strings.TrimSpace(value)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ModelCacheDir) == "" {
		c.Paths.ModelCacheDir = defaultModelCacheDir()
	}
	if c.Paths.ModelCacheDir, err = expandPath(c.Paths.ModelCacheDir); err != nil {
		return fmt.Errorf("paths.model_cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSpleeter() {
	c.Spleeter.Binary = strings.TrimSpace(c.Spleeter.Binary)
	if c.Spleeter.Binary == "" {
		c.Spleeter.Binary = defaultSpleeterBinary
	}
	if c.Spleeter.Stems == 0 {
		c.Spleeter.Stems = defaultSpleeterStems
	}
	c.Spleeter.Codec = strings.ToLower(strings.TrimSpace(c.Spleeter.Codec))
	if c.Spleeter.Codec == "" {
		c.Spleeter.Codec = defaultSpleeterCodec
	}
	c.Spleeter.Bitrate = strings.ToLower(strings.TrimSpace(c.Spleeter.Bitrate))
	if c.Spleeter.Bitrate == "" {
		c.Spleeter.Bitrate = defaultSpleeterBitrate
	}
}

func (c *Config) normalizeDemucs() {
	c.Demucs.Binary = strings.TrimSpace(c.Demucs.Binary)
	if c.Demucs.Binary == "" {
		c.Demucs.Binary = defaultDemucsBinary
	}
	c.Demucs.Model = strings.TrimSpace(c.Demucs.Model)
	if c.Demucs.Model == "" {
		c.Demucs.Model = defaultDemucsModel
	}
	c.Demucs.Device = strings.ToLower(strings.TrimSpace(c.Demucs.Device))
	if c.Demucs.Device == "" {
		c.Demucs.Device = defaultDemucsDevice
	}
	if c.Demucs.Stems == 0 {
		c.Demucs.Stems = defaultDemucsStems
	}
	c.Demucs.TwoStemTarget = strings.ToLower(strings.TrimSpace(c.Demucs.TwoStemTarget))
	if c.Demucs.TwoStemTarget == "" {
		c.Demucs.TwoStemTarget = defaultDemucsTwoStem
	}
	c.Demucs.Format = strings.ToLower(strings.TrimSpace(c.Demucs.Format))
	if c.Demucs.Format == "" {
		c.Demucs.Format = defaultDemucsFormat
	}
	if c.Demucs.MP3Bitrate == 0 {
		c.Demucs.MP3Bitrate = defaultDemucsMP3Bitrate
	}
}

func (c *Config) normalizeSeparation() {
	c.Separation.DefaultTool = strings.ToLower(strings.TrimSpace(c.Separation.DefaultTool))
	if c.Separation.DefaultTool == "" {
		c.Separation.DefaultTool = defaultTool
	}
	if c.Separation.TimeoutSeconds == 0 {
		c.Separation.TimeoutSeconds = defaultTimeoutSeconds
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
