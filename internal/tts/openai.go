package tts

import (
	"context"
	"fmt"
	"io"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// implements Synthesizer using the OpenAI speech endpoint
type OpenAISynthesizer struct {
	client openai.Client
	params openai.AudioSpeechNewParams
}

func NewOpenAISynthesizer(apiKey string, opts Options) *OpenAISynthesizer {
	return &OpenAISynthesizer{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		params: openAIParams(opts),
	}
}

func openAIParams(opts Options) openai.AudioSpeechNewParams {
	model := opts.Model
	if model == "" {
		model = "gpt-4o-mini-tts"
	}
	voice := opts.Voice
	if voice == "" {
		voice = "alloy"
	}

	params := openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(model),
		Voice:          openai.AudioSpeechNewParamsVoice(voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatPCM,
	}
	if opts.Instructions != "" {
		params.Instructions = openai.String(opts.Instructions)
	}
	return params
}

func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text string) (*Speech, error) {
	params := s.params
	params.Input = text

	resp, err := s.client.Audio.Speech.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read speech response: %w", err)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("empty audio from OpenAI")
	}
	return &Speech{PCM: pcm, SampleRate: SampleRate, Channels: Channels}, nil
}
