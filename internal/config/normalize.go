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
	c.normalizeAlignment()
	c.normalizeTTS()
	c.normalizeTranslate()
	c.normalizeKeys()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir()
	}
	var err error
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAlignment() {
	c.Alignment.SideStrategy = strings.ToLower(strings.TrimSpace(c.Alignment.SideStrategy))
	c.Alignment.OutputFormat = strings.ToLower(strings.TrimSpace(c.Alignment.OutputFormat))
	if c.Alignment.OutputFormat == "" {
		c.Alignment.OutputFormat = defaultOutputFormat
	}
}

func (c *Config) normalizeTTS() {
	c.TTS.Provider = strings.ToLower(strings.TrimSpace(c.TTS.Provider))
	if c.TTS.Provider == "" {
		c.TTS.Provider = defaultTTSProvider
	}
	if strings.TrimSpace(c.TTS.Model) == "" {
		c.TTS.Model = DefaultTTSModel(c.TTS.Provider)
	}
	if strings.TrimSpace(c.TTS.Voice) == "" {
		c.TTS.Voice = DefaultTTSVoice(c.TTS.Provider)
	}
}

func (c *Config) normalizeTranslate() {
	c.Translate.Provider = strings.ToLower(strings.TrimSpace(c.Translate.Provider))
	if c.Translate.Provider == "" {
		c.Translate.Provider = defaultTranslateProvider
	}
	if strings.TrimSpace(c.Translate.Model) == "" {
		c.Translate.Model = DefaultTranslateModel(c.Translate.Provider)
	}
	if c.Translate.BatchSize <= 0 {
		c.Translate.BatchSize = defaultBatchSize
	}
	if c.Translate.Concurrency <= 0 {
		c.Translate.Concurrency = defaultConcurrency
	}
}

func (c *Config) normalizeKeys() {
	fill := func(dst *string, env string) {
		if strings.TrimSpace(*dst) != "" {
			return
		}
		if value, ok := os.LookupEnv(env); ok {
			*dst = strings.TrimSpace(value)
		}
	}
	fill(&c.Keys.OpenAI, "OPENAI_API_KEY")
	fill(&c.Keys.Gemini, "GEMINI_API_KEY")
	fill(&c.Keys.Anthropic, "ANTHROPIC_API_KEY")
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}
