package config

import (
	"errors"
	"fmt"
	"regexp"
)

var bitratePattern = regexp.MustCompile(`^[0-9]+k$`)

var spleeterStemCounts = map[int]struct{}{2: {}, 4: {}, 5: {}}

var spleeterCodecs = map[string]struct{}{
	"wav":  {},
	"mp3":  {},
	"ogg":  {},
	"flac": {},
}

var demucsFormats = map[string]struct{}{
	"wav":  {},
	"mp3":  {},
	"flac": {},
}

var demucsStemNames = map[string]struct{}{
	"vocals": {},
	"drums":  {},
	"bass":   {},
	"other":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSpleeter(); err != nil {
		return err
	}
	if err := c.validateDemucs(); err != nil {
		return err
	}
	if err := c.validateSeparation(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSpleeter() error {
	if _, ok := spleeterStemCounts[c.Spleeter.Stems]; !ok {
		return fmt.Errorf("spleeter.stems must be 2, 4, or 5 (got %d)", c.Spleeter.Stems)
	}
	if _, ok := spleeterCodecs[c.Spleeter.Codec]; !ok {
		return fmt.Errorf("spleeter.codec must be one of wav, mp3, ogg, flac (got %q)", c.Spleeter.Codec)
	}
	if !bitratePattern.MatchString(c.Spleeter.Bitrate) {
		return fmt.Errorf("spleeter.bitrate must look like \"320k\" (got %q)", c.Spleeter.Bitrate)
	}
	return nil
}

func (c *Config) validateDemucs() error {
	switch c.Demucs.Device {
	case "cpu", "cuda":
	default:
		return fmt.Errorf("demucs.device must be cpu or cuda (got %q)", c.Demucs.Device)
	}
	if c.Demucs.Stems != 2 && c.Demucs.Stems != 4 {
		return fmt.Errorf("demucs.stems must be 2 or 4 (got %d)", c.Demucs.Stems)
	}
	if _, ok := demucsStemNames[c.Demucs.TwoStemTarget]; !ok {
		return fmt.Errorf("demucs.two_stem_target must be one of vocals, drums, bass, other (got %q)", c.Demucs.TwoStemTarget)
	}
	if _, ok := demucsFormats[c.Demucs.Format]; !ok {
		return fmt.Errorf("demucs.format must be one of wav, mp3, flac (got %q)", c.Demucs.Format)
	}
	if c.Demucs.MP3Bitrate <= 0 {
		return errors.New("demucs.mp3_bitrate must be positive")
	}
	if c.Demucs.Jobs < 0 {
		return errors.New("demucs.jobs must be >= 0")
	}
	if c.Demucs.Shifts < 0 {
		return errors.New("demucs.shifts must be >= 0")
	}
	if c.Demucs.Overlap < 0 || c.Demucs.Overlap >= 1 {
		return fmt.Errorf("demucs.overlap must be in [0, 1) (got %g)", c.Demucs.Overlap)
	}
	return nil
}

func (c *Config) validateSeparation() error {
	switch c.Separation.DefaultTool {
	case "spleeter", "demucs":
	default:
		return fmt.Errorf("separation.default_tool must be spleeter or demucs (got %q)", c.Separation.DefaultTool)
	}
	if c.Separation.TimeoutSeconds <= 0 {
		return errors.New("separation.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.MaxRuns < 0 {
		return errors.New("history.max_runs must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format must be auto, console, or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}
