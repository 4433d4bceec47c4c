// Package silence finds pauses in a waveform from its short-term energy.
package silence

import "fmt"

const (
	DefaultThresholdDB = -40.0
	DefaultMinDuration = 0.3

	// added to the RMS before taking the log so digital silence stays finite
	Epsilon = 1e-10

	// 10 ms analysis frames
	frameSeconds = 0.01
)

// FloorDB is the level reported for a frame of pure digital silence.
var FloorDB = toDB(0)

// half-open pause [Start, End) in seconds
type Interval struct {
	Start float64
	End   float64
}

func (s Interval) Duration() float64 {
	return s.End - s.Start
}

func (s Interval) Center() float64 {
	return (s.Start + s.End) / 2
}

func (s Interval) String() string {
	return fmt.Sprintf("[%.3f, %.3f)", s.Start, s.End)
}

// tuning knobs for the detector
type Options struct {
	// frames strictly below this level count as silent
	ThresholdDB float64
	// shorter silent runs are dropped
	MinDuration float64
}

func DefaultOptions() Options {
	return Options{
		ThresholdDB: DefaultThresholdDB,
		MinDuration: DefaultMinDuration,
	}
}

// Validate rejects values that would make every run vanish or
// produce inverted intervals.
func (o Options) Validate() error {
	if o.MinDuration < 0 {
		return fmt.Errorf("min silence duration must not be negative, got %g", o.MinDuration)
	}
	if o.ThresholdDB > 0 {
		return fmt.Errorf("threshold must be at most 0 dBFS, got %g", o.ThresholdDB)
	}
	return nil
}

// sum of all interval durations
func TotalDuration(intervals []Interval) float64 {
	var total float64
	for _, iv := range intervals {
		total += iv.Duration()
	}
	return total
}
