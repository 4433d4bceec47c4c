package audio

// decoded mono waveform normalized to [-1, 1]
type Waveform struct {
	Samples    []float64
	SampleRate int
	// channel count of the source before down-mixing
	Channels int
	Path     string
}

// length of the waveform in seconds
func (w *Waveform) Duration() float64 {
	if w == nil || w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// FromFloat down-mixes interleaved float samples by averaging across channels.
func FromFloat(interleaved []float64, channels, sampleRate int) *Waveform {
	if channels < 1 {
		channels = 1
	}
	frames := len(interleaved) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += interleaved[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}
	return &Waveform{
		Samples:    mono,
		SampleRate: sampleRate,
		Channels:   channels,
	}
}

// FromInt normalizes interleaved integer PCM by the largest magnitude the bit
// depth can hold, then down-mixes. 8-bit PCM is unsigned and is re-centered
// around zero first.
func FromInt(interleaved []int, channels, bitDepth, sampleRate int) *Waveform {
	maxMagnitude := MaxMagnitude(bitDepth)
	offset := 0
	if bitDepth == 8 {
		offset = 128
	}

	normalized := make([]float64, len(interleaved))
	for i, v := range interleaved {
		normalized[i] = float64(v-offset) / maxMagnitude
	}
	return FromFloat(normalized, channels, sampleRate)
}

// largest positive value of a signed sample at the given bit depth
func MaxMagnitude(bitDepth int) float64 {
	if bitDepth <= 1 || bitDepth > 32 {
		bitDepth = 16
	}
	return float64(int64(1)<<(bitDepth-1) - 1)
}
