package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mgpai22/tala/internal/config"
	"github.com/mgpai22/tala/internal/subtitle"
	"github.com/mgpai22/tala/internal/translate"
)

type TranslateRequest struct {
	SubtitlePath   string
	OutputPath     string
	InputLanguage  string
	TargetLanguage string
	// translated text first, original on the next line
	Overlay bool
}

type TranslateResult struct {
	OutputPath string
	Subtitle   *subtitle.Subtitle
}

type TranslatorOptions struct {
	Provider       string
	APIKey         string
	Model          string
	InputLanguage  string
	TargetLanguage string
	BatchSize      int
	Concurrency    int
}

// Translator builds a translator for opts, falling back to the translate
// section of the config for anything left empty.
func (s *Service) Translator(ctx context.Context, opts TranslatorOptions) (*translate.Translator, error) {
	provider := opts.Provider
	if provider == "" {
		provider = s.cfg.Translate.Provider
	}
	model := opts.Model
	if model == "" {
		if provider == s.cfg.Translate.Provider {
			model = s.cfg.Translate.Model
		} else {
			model = config.DefaultTranslateModel(provider)
		}
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = s.cfg.Translate.BatchSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = s.cfg.Translate.Concurrency
	}
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = s.cfg.APIKey(provider)
	}
	if apiKey == "" {
		return nil, fmt.Errorf(
			"API key is required: use --api-key flag or set %s_API_KEY environment variable",
			strings.ToUpper(provider),
		)
	}

	return translate.Factory(ctx, translate.Provider(provider), apiKey, translate.Options{
		InputLanguage:  opts.InputLanguage,
		TargetLanguage: opts.TargetLanguage,
		Model:          model,
		BatchSize:      opts.BatchSize,
		Concurrency:    opts.Concurrency,
	}, s.logger)
}

// Translate rewrites the cue text of req.SubtitlePath. Timing is kept.
func (s *Service) Translate(ctx context.Context, tr *translate.Translator, req TranslateRequest) (*TranslateResult, error) {
	if req.TargetLanguage == "" {
		return nil, errors.New("target language is required")
	}
	if req.InputLanguage != "" &&
		strings.EqualFold(strings.TrimSpace(req.InputLanguage), strings.TrimSpace(req.TargetLanguage)) {
		return nil, fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			req.InputLanguage, req.TargetLanguage,
		)
	}

	sub, err := subtitle.ReadFile(req.SubtitlePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse subtitle file: %w", err)
	}
	if len(sub.Entries) == 0 {
		return nil, errors.New("subtitle file contains no entries")
	}

	outputPath := req.OutputPath
	if outputPath == "" {
		suffix := req.TargetLanguage
		if req.Overlay {
			suffix += ".overlay"
		}
		outputPath = DerivedPath(req.SubtitlePath, suffix, subtitle.GetExtensionForFormat(sub.Format))
	}

	s.logger.Infow("Translating subtitles",
		"input", req.SubtitlePath,
		"entries", len(sub.Entries),
		"target_language", req.TargetLanguage,
	)
	translated, err := tr.TranslateSubtitle(ctx, sub)
	if err != nil {
		return nil, err
	}
	if req.Overlay {
		for i := range translated.Entries {
			translated.Entries[i].Text += "\n" + sub.Entries[i].Text
		}
	}

	if err := s.writeSubtitle(translated, sub.Format, outputPath); err != nil {
		return nil, err
	}
	s.logger.Infow("Translation complete", "output", outputPath)
	return &TranslateResult{OutputPath: outputPath, Subtitle: translated}, nil
}
