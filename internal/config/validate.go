package config

import (
	"errors"
	"fmt"

	"github.com/mgpai22/tala/internal/logging"
	"github.com/mgpai22/tala/internal/subtitle"
)

// Validate ensures the configuration is usable. API keys are checked by
// the commands that need them.
func (c *Config) Validate() error {
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateAlignment(); err != nil {
		return err
	}
	if err := c.validateTTS(); err != nil {
		return err
	}
	if err := c.validateTranslate(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.ThresholdDB > 0 {
		return errors.New("analysis.threshold_db must be at most 0")
	}
	if c.Analysis.MinSilenceDuration < 0 {
		return errors.New("analysis.min_silence_duration must not be negative")
	}
	return nil
}

func (c *Config) validateAlignment() error {
	if _, err := c.SideStrategy(); err != nil {
		return fmt.Errorf("alignment.side_strategy: %w", err)
	}
	if c.Alignment.HeadGapMax < 0 || c.Alignment.TailGapMin < 0 {
		return errors.New("alignment.head_gap_max and alignment.tail_gap_min must not be negative")
	}
	if _, err := subtitle.ParseFormat(c.Alignment.OutputFormat); err != nil {
		return fmt.Errorf("alignment.output_format: %w", err)
	}
	return nil
}

func (c *Config) validateTTS() error {
	switch c.TTS.Provider {
	case "openai", "gemini":
		return nil
	default:
		return fmt.Errorf("tts.provider must be openai or gemini, got %q", c.TTS.Provider)
	}
}

func (c *Config) validateTranslate() error {
	switch c.Translate.Provider {
	case "gemini", "openai", "anthropic":
		return nil
	default:
		return fmt.Errorf("translate.provider must be gemini, openai or anthropic, got %q", c.Translate.Provider)
	}
}

func (c *Config) validateLogging() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "console", "text", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
}
