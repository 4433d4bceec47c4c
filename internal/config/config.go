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

	"github.com/mgpai22/tala/internal/align"
	"github.com/mgpai22/tala/internal/silence"
)

//go:embed sample_config.toml
var sampleConfig string

// Analysis tunes silence detection.
type Analysis struct {
	ThresholdDB        float64 `toml:"threshold_db"`
	MinSilenceDuration float64 `toml:"min_silence_duration"`
}

// Alignment selects how SingleEnd runs are resolved and the output format.
type Alignment struct {
	SideStrategy string  `toml:"side_strategy"`
	HeadGapMax   float64 `toml:"head_gap_max"`
	TailGapMin   float64 `toml:"tail_gap_min"`
	OutputFormat string  `toml:"output_format"`
}

// TTS configures the speech synthesis provider.
type TTS struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	Voice    string `toml:"voice"`
}

// Translate configures cue translation.
type Translate struct {
	Provider    string `toml:"provider"`
	Model       string `toml:"model"`
	BatchSize   int    `toml:"batch_size"`
	Concurrency int    `toml:"concurrency"`
}

// Keys holds provider API keys. Empty values are filled from the
// environment.
type Keys struct {
	OpenAI    string `toml:"openai"`
	Gemini    string `toml:"gemini"`
	Anthropic string `toml:"anthropic"`
}

// Paths contains on-disk state locations.
type Paths struct {
	StateDir string `toml:"state_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values for tala.
type Config struct {
	Analysis  Analysis  `toml:"analysis"`
	Alignment Alignment `toml:"alignment"`
	TTS       TTS       `toml:"tts"`
	Translate Translate `toml:"translate"`
	Keys      Keys      `toml:"keys"`
	Paths     Paths     `toml:"paths"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/tala/config.toml")
}

// Load locates, parses, normalizes and validates a configuration file. A
// missing file is not an error; defaults are returned with exists false.
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
		defer func() { _ = file.Close() }()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
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
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("tala.toml")
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

// SilenceOptions maps the analysis section onto detector options.
func (c *Config) SilenceOptions() silence.Options {
	return silence.Options{
		ThresholdDB: c.Analysis.ThresholdDB,
		MinDuration: c.Analysis.MinSilenceDuration,
	}
}

// SideStrategy builds the configured SingleEnd resolver.
func (c *Config) SideStrategy() (align.SideStrategy, error) {
	return align.NewSideStrategy(c.Alignment.SideStrategy, c.Alignment.HeadGapMax, c.Alignment.TailGapMin)
}

// APIKey returns the key for a provider name, or "".
func (c *Config) APIKey(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return c.Keys.OpenAI
	case "gemini":
		return c.Keys.Gemini
	case "anthropic":
		return c.Keys.Anthropic
	default:
		return ""
	}
}

// LockDir is where per-pair run locks live.
func (c *Config) LockDir() string {
	return filepath.Join(c.Paths.StateDir, "locks")
}

// HistoryPath is the sqlite database recording alignment runs.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// EnsureDirectories creates the state directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.LockDir()} {
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
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// CreateSample writes the commented sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
