package silence

import (
	"errors"
	"fmt"

	"github.com/mgpai22/tala/internal/audio"
	"github.com/mgpai22/tala/internal/logging"
)

var (
	ErrEmptyWaveform     = errors.New("waveform has no samples")
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
)

// AnalysisError is returned when a waveform cannot be analyzed at all.
// It is distinct from a successful run that found no silences.
type AnalysisError struct {
	Path string
	Err  error
}

func (e *AnalysisError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("analysis failed: %v", e.Err)
	}
	return fmt.Sprintf("analysis of %s failed: %v", e.Path, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// Analyze runs the envelope and segmentation steps over mono samples.
func Analyze(samples []float64, sampleRate int, opts Options) ([]Interval, error) {
	if sampleRate <= 0 {
		return nil, &AnalysisError{Err: fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)}
	}
	if len(samples) == 0 {
		return nil, &AnalysisError{Err: ErrEmptyWaveform}
	}
	if err := opts.Validate(); err != nil {
		return nil, &AnalysisError{Err: err}
	}
	return Segment(ComputeEnvelope(samples, sampleRate), opts), nil
}

type Detector struct {
	opts   Options
	logger *logging.Logger
}

func NewDetector(opts Options, logger *logging.Logger) *Detector {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Detector{opts: opts, logger: logger}
}

func (d *Detector) Options() Options {
	return d.opts
}

// Detect analyzes a decoded waveform. Errors carry the waveform's path.
func (d *Detector) Detect(w *audio.Waveform) ([]Interval, error) {
	if w == nil {
		return nil, &AnalysisError{Err: ErrEmptyWaveform}
	}

	intervals, err := Analyze(w.Samples, w.SampleRate, d.opts)
	if err != nil {
		var ae *AnalysisError
		if errors.As(err, &ae) {
			ae.Path = w.Path
		}
		return nil, err
	}

	d.logger.Debugw("silence detection finished",
		"path", w.Path,
		"duration", w.Duration(),
		"threshold_db", d.opts.ThresholdDB,
		"min_duration", d.opts.MinDuration,
		"silences", len(intervals),
	)
	if len(intervals) == 0 {
		d.logger.Warnw("no silences detected, the threshold may be too low",
			"path", w.Path, "threshold_db", d.opts.ThresholdDB)
	}
	return intervals, nil
}
