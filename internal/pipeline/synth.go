package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mgpai22/tala/internal/align"
	"github.com/mgpai22/tala/internal/config"
	"github.com/mgpai22/tala/internal/runlock"
	"github.com/mgpai22/tala/internal/subtitle"
	"github.com/mgpai22/tala/internal/tts"
)

type SynthRequest struct {
	// plain text script (one cue per line) or an existing subtitle file
	ScriptPath string
	// defaults to <script>.wav
	AudioPath string
	// defaults to <script>.tts.<ext>
	OutputPath string
	Format     subtitle.Format
	ReportPath string
}

type SynthResult struct {
	RunID      string
	AudioPath  string
	OutputPath string
	Duration   float64
	Subtitle   *subtitle.Subtitle
	Report     *align.Report
	Analysis   *Analysis
}

// Synthesizer builds the speech provider named by provider, or the
// configured one when provider is empty.
func (s *Service) Synthesizer(ctx context.Context, provider, apiKey string) (tts.Synthesizer, error) {
	opts := tts.Options{Model: s.cfg.TTS.Model, Voice: s.cfg.TTS.Voice}
	if provider == "" {
		provider = s.cfg.TTS.Provider
	} else if provider != s.cfg.TTS.Provider {
		opts = tts.Options{
			Model: config.DefaultTTSModel(provider),
			Voice: config.DefaultTTSVoice(provider),
		}
	}
	if apiKey == "" {
		apiKey = s.cfg.APIKey(provider)
	}
	if apiKey == "" {
		return nil, fmt.Errorf(
			"API key is required: use --api-key flag or set %s_API_KEY environment variable",
			strings.ToUpper(provider),
		)
	}
	return tts.Factory(ctx, tts.Provider(provider), apiKey, opts)
}

// Synth voices a script, detects the pauses in the synthesized track and
// times the cues to them. Scripts given as subtitle files keep their cue
// boundaries; plain text gets one cue per line.
func (s *Service) Synth(ctx context.Context, synth tts.Synthesizer, req SynthRequest) (*SynthResult, error) {
	format, err := s.outputFormat(req.Format)
	if err != nil {
		return nil, err
	}
	audioPath := req.AudioPath
	if audioPath == "" {
		audioPath = DerivedPath(req.ScriptPath, "", ".wav")
	}
	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = DerivedPath(req.ScriptPath, "tts", subtitle.GetExtensionForFormat(format))
	}

	lock, err := runlock.Acquire(s.cfg.LockDir(), audioPath, req.ScriptPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			s.logger.Warnw("Failed to release run lock", "lock", lock.Path(), "error", err)
		}
	}()

	sub, err := loadScript(req.ScriptPath)
	if err != nil {
		return nil, err
	}
	script := tts.Script(sub.Texts())
	if script == "" {
		return nil, errors.New("script contains no text")
	}

	s.logger.Infow("Synthesizing speech", "input", req.ScriptPath, "lines", len(sub.Entries))
	speech, err := synth.Synthesize(ctx, script)
	if err != nil {
		return nil, fmt.Errorf("synthesis failed: %w", err)
	}
	if err := speech.Save(audioPath); err != nil {
		return nil, err
	}
	s.logger.Infow("Saved synthesized audio", "output", audioPath, "duration", speech.Duration())

	w := speech.Waveform()
	w.Path = audioPath
	analysis, err := s.analyzeWaveform(w)
	if err != nil {
		return nil, err
	}

	if sub.Format == "" {
		segments := subtitle.SegmentsFromScript(script, w.Duration())
		sub = subtitle.NewGenerator().Generate(segments)
	}

	out, report := s.alignSubtitle(analysis.Silences, sub)
	if err := s.writeSubtitle(out, format, outputPath); err != nil {
		return nil, err
	}
	if err := writeReport(report, req.ReportPath); err != nil {
		return nil, err
	}

	runID := s.record(ctx, s.historyRun(audioPath, req.ScriptPath, outputPath, report))
	return &SynthResult{
		RunID:      runID,
		AudioPath:  audioPath,
		OutputPath: outputPath,
		Duration:   w.Duration(),
		Subtitle:   out,
		Report:     report,
		Analysis:   analysis,
	}, nil
}

// loadScript reads a subtitle file as is. Plain text becomes an untimed
// track with an empty Format, one entry per non-empty line.
func loadScript(path string) (*subtitle.Subtitle, error) {
	if subtitle.IsSubtitleFile(path) {
		sub, err := subtitle.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse script: %w", err)
		}
		return sub, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	content, err := subtitle.DecodeText(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode script: %w", err)
	}

	sub := &subtitle.Subtitle{}
	for _, line := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sub.Entries = append(sub.Entries, subtitle.Entry{Index: len(sub.Entries) + 1, Text: line})
	}
	return sub, nil
}
