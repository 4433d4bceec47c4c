package align

import (
	"fmt"
	"math"
	"strings"

	"github.com/mgpai22/tala/internal/silence"
	"github.com/mgpai22/tala/internal/subtitle"
)

// which end of the track the extra silence belongs to when m == n
type Side int

const (
	SideHead Side = iota
	SideTail
)

func (s Side) String() string {
	if s == SideTail {
		return "tail"
	}
	return "head"
}

func (s Side) Case() Case {
	if s == SideTail {
		return CaseSingleEndTail
	}
	return CaseSingleEndHead
}

// SideStrategy resolves the SingleEnd case. It returns the chosen side and
// a human readable reason for the report. Both slices are non-empty.
type SideStrategy interface {
	Name() string
	Decide(silences []silence.Interval, cues []subtitle.Entry) (Side, string)
}

const (
	DefaultHeadGapMax = 2.0
	DefaultTailGapMin = 5.0

	StrategyThreshold = "threshold"
	StrategyMargin    = "margin"
)

// ThresholdSide uses absolute positions: a first silence starting before
// HeadGapMax marks a head gap, a last silence ending after TailGapMin marks
// a tail gap. When both or neither hold the head is chosen.
type ThresholdSide struct {
	HeadGapMax float64
	TailGapMin float64
}

func (t ThresholdSide) Name() string { return StrategyThreshold }

func (t ThresholdSide) Decide(silences []silence.Interval, _ []subtitle.Entry) (Side, string) {
	first := silences[0]
	last := silences[len(silences)-1]
	head := first.Start < t.HeadGapMax
	tail := last.End > t.TailGapMin

	switch {
	case head && !tail:
		return SideHead, fmt.Sprintf("first silence starts at %.3fs (< %.1fs), last ends at %.3fs (<= %.1fs)",
			first.Start, t.HeadGapMax, last.End, t.TailGapMin)
	case tail && !head:
		return SideTail, fmt.Sprintf("last silence ends at %.3fs (> %.1fs), first starts at %.3fs (>= %.1fs)",
			last.End, t.TailGapMin, first.Start, t.HeadGapMax)
	case head && tail:
		return SideHead, "ambiguous: both head and tail gaps present, defaulting to head"
	default:
		return SideHead, "ambiguous: neither head nor tail gap present, defaulting to head"
	}
}

// MarginSide compares how close the first and last silences sit to the
// cues' own leading and trailing boundaries and picks the closer end.
type MarginSide struct{}

func (MarginSide) Name() string { return StrategyMargin }

func (MarginSide) Decide(silences []silence.Interval, cues []subtitle.Entry) (Side, string) {
	headDist := math.Abs(silences[0].Center() - cues[0].Start)
	tailDist := math.Abs(silences[len(silences)-1].Center() - cues[len(cues)-1].End)
	if headDist <= tailDist {
		return SideHead, fmt.Sprintf("first silence is %.3fs from the first cue start, last is %.3fs from the last cue end", headDist, tailDist)
	}
	return SideTail, fmt.Sprintf("last silence is %.3fs from the last cue end, first is %.3fs from the first cue start", tailDist, headDist)
}

// NewSideStrategy builds a strategy by name. Zero thresholds fall back to
// the defaults.
func NewSideStrategy(name string, headGapMax, tailGapMin float64) (SideStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyThreshold:
		if headGapMax == 0 {
			headGapMax = DefaultHeadGapMax
		}
		if tailGapMin == 0 {
			tailGapMin = DefaultTailGapMin
		}
		return ThresholdSide{HeadGapMax: headGapMax, TailGapMin: tailGapMin}, nil
	case StrategyMargin:
		return MarginSide{}, nil
	default:
		return nil, fmt.Errorf("unknown side strategy %q: use threshold or margin", name)
	}
}
