package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/tala/internal/align"
	"github.com/mgpai22/tala/internal/silence"
)

const (
	defaultTTSProvider       = "openai"
	defaultTranslateProvider = "gemini"
	defaultBatchSize         = 50
	defaultConcurrency       = 3
	defaultOutputFormat      = "srt"
)

// per-provider default models
var (
	defaultTTSModels = map[string]string{
		"openai": "gpt-4o-mini-tts",
		"gemini": "gemini-2.5-flash-preview-tts",
	}
	defaultTTSVoices = map[string]string{
		"openai": "alloy",
		"gemini": "Kore",
	}
	defaultTranslateModels = map[string]string{
		"gemini":    "gemini-2.5-flash",
		"openai":    "gpt-4o-mini",
		"anthropic": "claude-haiku-4-5",
	}
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Analysis: Analysis{
			ThresholdDB:        silence.DefaultThresholdDB,
			MinSilenceDuration: silence.DefaultMinDuration,
		},
		Alignment: Alignment{
			SideStrategy: align.StrategyThreshold,
			HeadGapMax:   align.DefaultHeadGapMax,
			TailGapMin:   align.DefaultTailGapMin,
			OutputFormat: defaultOutputFormat,
		},
		TTS: TTS{
			Provider: defaultTTSProvider,
		},
		Translate: Translate{
			Provider:    defaultTranslateProvider,
			BatchSize:   defaultBatchSize,
			Concurrency: defaultConcurrency,
		},
		Paths: Paths{
			StateDir: defaultStateDir(),
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

func defaultStateDir() string {
	if base, ok := os.LookupEnv("XDG_STATE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "tala")
	}
	return "~/.local/state/tala"
}

// DefaultTTSModel returns the model used when none is configured.
func DefaultTTSModel(provider string) string {
	return defaultTTSModels[provider]
}

func DefaultTTSVoice(provider string) string {
	return defaultTTSVoices[provider]
}

func DefaultTranslateModel(provider string) string {
	return defaultTranslateModels[provider]
}
