package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Load decodes an audio or video file into a mono waveform. PCM WAV files are
// read directly; anything else is transcoded to a temporary WAV with ffmpeg
// first.
func Load(ctx context.Context, path string) (*Waveform, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("audio file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat audio file: %w", err)
	}

	if isWAV(path) {
		w, err := ReadWAV(path)
		if err == nil {
			return w, nil
		}
		if !errors.Is(err, ErrUnsupportedWAV) {
			return nil, err
		}
	} else if !IsMediaFile(path) {
		return nil, fmt.Errorf(
			"unsupported file type: %s (expected audio or video file)",
			filepath.Ext(path),
		)
	}

	tempDir, err := os.MkdirTemp("", "tala-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	wavPath := filepath.Join(tempDir, "audio.wav")
	if err := Extract(ctx, path, wavPath, DefaultExtractOptions()); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	w, err := ReadWAV(wavPath)
	if err != nil {
		return nil, err
	}
	w.Path = path
	return w, nil
}
