package pipeline

import (
	"context"

	"github.com/mgpai22/tala/internal/audio"
	"github.com/mgpai22/tala/internal/silence"
)

// Analysis is the outcome of running silence detection on one file.
type Analysis struct {
	Path       string
	Duration   float64
	SampleRate int
	Options    silence.Options
	Silences   []silence.Interval
}

// total silent time in seconds
func (a *Analysis) SilentDuration() float64 {
	return silence.TotalDuration(a.Silences)
}

// Analyze decodes audioPath and detects its silences. Cancelling ctx
// returns immediately; decoding stops with the ffmpeg process.
func (s *Service) Analyze(ctx context.Context, audioPath string) (*Analysis, error) {
	type outcome struct {
		analysis *Analysis
		err      error
	}
	done := make(chan outcome, 1)
	go func() {
		a, err := s.analyze(ctx, audioPath)
		done <- outcome{analysis: a, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case o := <-done:
		return o.analysis, o.err
	}
}

func (s *Service) analyze(ctx context.Context, audioPath string) (*Analysis, error) {
	s.logger.Infow("Analyzing audio", "input", audioPath)

	w, err := audio.Load(ctx, audioPath)
	if err != nil {
		return nil, &silence.AnalysisError{Path: audioPath, Err: err}
	}
	if w.Path == "" {
		w.Path = audioPath
	}
	return s.analyzeWaveform(w)
}

func (s *Service) analyzeWaveform(w *audio.Waveform) (*Analysis, error) {
	silences, err := s.detector.Detect(w)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Silence analysis complete",
		"input", w.Path,
		"duration", w.Duration(),
		"silences", len(silences),
	)
	return &Analysis{
		Path:       w.Path,
		Duration:   w.Duration(),
		SampleRate: w.SampleRate,
		Options:    s.detector.Options(),
		Silences:   silences,
	}, nil
}
