package silence

// absorbs float error in hop-quantized run lengths
const durationTolerance = 1e-9

// Segment turns an envelope into ordered, non-overlapping silent intervals.
// A run is opened on the first frame below the threshold and closed at the
// first frame at or above it; a run still open at the end is closed at the
// end of the envelope.
func Segment(env Envelope, opts Options) []Interval {
	var (
		intervals []Interval
		inSilence bool
		start     float64
	)

	closeRun := func(end float64) {
		iv := Interval{Start: start, End: end}
		if iv.End > iv.Start && iv.Duration()+durationTolerance >= opts.MinDuration {
			intervals = append(intervals, iv)
		}
	}

	for i, db := range env.DB {
		silent := db < opts.ThresholdDB
		switch {
		case silent && !inSilence:
			inSilence = true
			start = env.FrameTime(i)
		case !silent && inSilence:
			inSilence = false
			closeRun(env.FrameTime(i))
		}
	}
	if inSilence {
		closeRun(env.FrameTime(env.Len()))
	}

	return intervals
}
