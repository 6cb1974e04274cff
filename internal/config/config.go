package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir     string `toml:"output_dir"`
	WorkDir       string `toml:"work_dir"`
	LogDir        string `toml:"log_dir"`
	ModelCacheDir string `toml:"model_cache_dir"`
}

// Spleeter contains configuration for the Spleeter separation tool.
type Spleeter struct {
	Binary string `toml:"binary"`
	// Stems selects the pretrained model: 2, 4, or 5.
	Stems int `toml:"stems"`
	// Codec is the output audio codec (wav, mp3, ogg, flac).
	Codec string `toml:"codec"`
	// Bitrate applies to compressed codecs, e.g. "320k".
	Bitrate string `toml:"bitrate"`
	// SixteenKHz selects the -16kHz model variants, which separate
	// frequencies up to 16 kHz instead of 11 kHz.
	SixteenKHz bool `toml:"sixteen_khz"`
}

// Demucs contains configuration for the Demucs separation tool.
type Demucs struct {
	Binary string `toml:"binary"`
	Model  string `toml:"model"`
	// Device is the inference device (cpu or cuda).
	Device string `toml:"device"`
	// Stems is 4 for the full split or 2 for a single stem plus accompaniment.
	Stems int `toml:"stems"`
	// TwoStemTarget is the isolated stem when stems is 2.
	TwoStemTarget string `toml:"two_stem_target"`
	// Format is the output format (wav, mp3, flac).
	Format     string  `toml:"format"`
	MP3Bitrate int     `toml:"mp3_bitrate"`
	Jobs       int     `toml:"jobs"`
	Shifts     int     `toml:"shifts"`
	Overlap    float64 `toml:"overlap"`
}

// Separation contains settings that apply to every run regardless of tool.
type Separation struct {
	DefaultTool string `toml:"default_tool"`
	// KeepPartial leaves a failed run's output directory in place.
	KeepPartial    bool `toml:"keep_partial"`
	TimeoutSeconds int  `toml:"timeout_seconds"`
}

// History contains configuration for the run history store.
type History struct {
	Enabled bool `toml:"enabled"`
	// MaxRuns bounds the number of retained records; 0 keeps everything.
	MaxRuns int `toml:"max_runs"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for stemsplit.
//
// Configuration sections:
//   - Paths: output, scratch, log, and model cache directories
//   - Spleeter: Spleeter model and output options
//   - Demucs: Demucs model, device, and output options
//   - Separation: tool selection and run policy
//   - History: SQLite run history retention
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Spleeter   Spleeter   `toml:"spleeter"`
	Demucs     Demucs     `toml:"demucs"`
	Separation Separation `toml:"separation"`
	History    History    `toml:"history"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/stemsplit/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
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
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/stemsplit/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("stemsplit.toml")
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

// EnsureDirectories creates the directories every run needs. The output
// directory is handled per run so a rejected invocation never leaves an
// empty directory behind.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir, c.Paths.ModelCacheDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
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

func defaultModelCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "stemsplit", "models")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/stemsplit/models"
	}
	return filepath.Join(home, ".cache", "stemsplit", "models")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
