package silence

import "math"

// per-frame loudness curve in dBFS
type Envelope struct {
	DB         []float64
	Hop        int
	FrameSize  int
	SampleRate int
}

// FrameLength returns the 10 ms frame size and its 50% hop for a sample
// rate. Both are at least one sample.
func FrameLength(sampleRate int) (frame, hop int) {
	frame = int(math.Round(float64(sampleRate) * frameSeconds))
	if frame < 1 {
		frame = 1
	}
	hop = frame / 2
	if hop < 1 {
		hop = 1
	}
	return frame, hop
}

// ComputeEnvelope frames samples and returns the RMS level of each frame in
// dB. A signal shorter than one frame yields a single frame over whatever
// samples exist.
func ComputeEnvelope(samples []float64, sampleRate int) Envelope {
	frame, hop := FrameLength(sampleRate)
	env := Envelope{Hop: hop, FrameSize: frame, SampleRate: sampleRate}
	if len(samples) == 0 {
		return env
	}

	count := 1
	if len(samples) > frame {
		count = 1 + (len(samples)-frame)/hop
	}

	env.DB = make([]float64, count)
	for i := range env.DB {
		lo := i * hop
		hi := lo + frame
		if hi > len(samples) {
			hi = len(samples)
		}
		env.DB[i] = toDB(rms(samples[lo:hi]))
	}
	return env
}

// start time of frame i in seconds
func (e Envelope) FrameTime(i int) float64 {
	if e.SampleRate <= 0 {
		return 0
	}
	return float64(i*e.Hop) / float64(e.SampleRate)
}

func (e Envelope) Len() int {
	return len(e.DB)
}

func rms(frame []float64) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(frame)))
}

func toDB(energy float64) float64 {
	return 20 * math.Log10(energy+Epsilon)
}
