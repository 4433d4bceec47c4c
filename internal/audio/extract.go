package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/tala/internal/ffmpeg"
)

// holds options for audio extraction
type ExtractOptions struct {
	Format     string // Output format (wav, flac, mp3)
	SampleRate int    // Sample rate in Hz, 0 keeps the source rate
	Channels   int    // Number of channels, 0 keeps the source layout
	Bitrate    string // Bitrate for lossy formats (e.g., "128k")
}

// lossless PCM that DecodeWAV understands, source rate and layout untouched
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{Format: "wav"}
}

// builds the ffmpeg argument list for an extraction
func extractArgs(inputPath, outputPath string, opts ExtractOptions) []string {
	kwargs := ffmpeg.KwArgs{
		"vn": "", // No video
	}
	if opts.SampleRate > 0 {
		kwargs["ar"] = opts.SampleRate
	}
	if opts.Channels > 0 {
		kwargs["ac"] = opts.Channels
	}

	switch opts.Format {
	case "mp3":
		kwargs["acodec"] = "libmp3lame"
		if opts.Bitrate != "" {
			kwargs["b:a"] = opts.Bitrate
		}
	case "flac":
		kwargs["acodec"] = "flac"
	default:
		kwargs["acodec"] = "pcm_s16le"
	}

	return ffmpeg.Input(inputPath).
		Output(outputPath, kwargs).
		OverWriteOutput().
		GetArgs()
}

// Extract decodes the audio track of any media file ffmpeg understands.
func Extract(
	ctx context.Context,
	inputPath, outputPath string,
	opts ExtractOptions,
) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(
		ctx,
		ffmpegPath,
		extractArgs(inputPath, outputPath, opts)...,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf(
			"ffmpeg extraction failed: %w: %s",
			err,
			lastLine(stderr.String()),
		)
	}

	return nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
