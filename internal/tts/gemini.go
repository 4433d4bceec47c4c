package tts

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// implements Synthesizer using Gemini's audio output modality
type GeminiSynthesizer struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

func NewGeminiSynthesizer(ctx context.Context, apiKey string, opts Options) (*GeminiSynthesizer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash-preview-tts"
	}
	return &GeminiSynthesizer{client: client, model: model, config: geminiConfig(opts)}, nil
}

func geminiConfig(opts Options) *genai.GenerateContentConfig {
	voice := opts.Voice
	if voice == "" {
		voice = "Kore"
	}
	return &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}
}

func (s *GeminiSynthesizer) Synthesize(ctx context.Context, text string) (*Speech, error) {
	result, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(text), s.config)
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}
	return speechFromResponse(result)
}

// concatenates every inline audio part of the first candidate with content
func speechFromResponse(result *genai.GenerateContentResponse) (*Speech, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var pcm []byte
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil {
				pcm = append(pcm, part.InlineData.Data...)
			}
		}
		if len(pcm) > 0 {
			break
		}
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("no audio in Gemini response")
	}
	return &Speech{PCM: pcm, SampleRate: SampleRate, Channels: Channels}, nil
}
