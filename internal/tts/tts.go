// Package tts wraps speech synthesis providers. Every provider returns
// 24 kHz mono 16-bit PCM so the result can be analyzed without a decoder.
package tts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mgpai22/tala/internal/audio"
)

const (
	SampleRate = 24000
	Channels   = 1
)

// speech service provider
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

type Options struct {
	Model string
	Voice string
	// style hint, where the provider supports one
	Instructions string
}

// Speech is synthesized audio as raw little-endian 16-bit PCM.
type Speech struct {
	PCM        []byte
	SampleRate int
	Channels   int
}

// length in seconds
func (s *Speech) Duration() float64 {
	if s.SampleRate <= 0 || s.Channels <= 0 {
		return 0
	}
	return float64(len(s.PCM)/2/s.Channels) / float64(s.SampleRate)
}

// Save writes the speech as a WAV file.
func (s *Speech) Save(path string) error {
	return audio.WritePCM16(path, s.PCM, s.SampleRate, s.Channels)
}

// Waveform decodes the speech for silence analysis.
func (s *Speech) Waveform() *audio.Waveform {
	return audio.DecodePCM16(s.PCM, s.SampleRate, s.Channels)
}

// interface for text to speech
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*Speech, error)
}

// creates Synthesizer based on provider
func Factory(ctx context.Context, provider Provider, apiKey string, opts Options) (Synthesizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required for %s", provider)
	}
	switch provider {
	case ProviderOpenAI:
		return NewOpenAISynthesizer(apiKey, opts), nil
	case ProviderGemini:
		return NewGeminiSynthesizer(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported tts provider: %s", provider)
	}
}

// Script joins cue texts into the text sent for synthesis, one cue per
// line so the voice pauses between cues.
func Script(texts []string) string {
	lines := make([]string, 0, len(texts))
	for _, t := range texts {
		t = strings.Join(strings.Fields(t), " ")
		if t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n")
}
