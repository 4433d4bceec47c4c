package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wave format tag for integer PCM
const formatPCM = 1

var (
	ErrInvalidWAV     = errors.New("not a valid WAV file")
	ErrUnsupportedWAV = errors.New("unsupported WAV encoding")
)

// decodes an integer PCM WAV stream into a mono waveform
func DecodeWAV(r io.ReadSeeker) (*Waveform, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidWAV
	}
	if decoder.WavAudioFormat != formatPCM {
		return nil, fmt.Errorf(
			"%w: format tag %d",
			ErrUnsupportedWAV,
			decoder.WavAudioFormat,
		)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read PCM buffer: %w", err)
	}
	if buf == nil || buf.Format == nil {
		return nil, ErrInvalidWAV
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(decoder.BitDepth)
	}

	return FromInt(
		buf.Data,
		buf.Format.NumChannels,
		bitDepth,
		buf.Format.SampleRate,
	), nil
}

// reads a WAV file from disk
func ReadWAV(path string) (*Waveform, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	w, err := DecodeWAV(file)
	if err != nil {
		return nil, err
	}
	w.Path = path
	return w, nil
}

// WriteWAV encodes interleaved integer samples as a PCM WAV file.
func WriteWAV(path string, data []int, sampleRate, bitDepth, channels int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create WAV file: %w", err)
	}

	encoder := wav.NewEncoder(out, sampleRate, bitDepth, channels, formatPCM)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := encoder.Write(buf); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to encode WAV: %w", err)
	}
	if err := encoder.Close(); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}
	return out.Close()
}

// wraps raw signed 16-bit little-endian PCM into a WAV file
func WritePCM16(path string, pcm []byte, sampleRate, channels int) error {
	return WriteWAV(path, pcm16ToInts(pcm), sampleRate, 16, channels)
}

// DecodePCM16 turns raw little-endian 16-bit PCM into a waveform without
// touching disk.
func DecodePCM16(pcm []byte, sampleRate, channels int) *Waveform {
	return FromInt(pcm16ToInts(pcm), channels, 16, sampleRate)
}

// a trailing odd byte is dropped
func pcm16ToInts(pcm []byte) []int {
	data := make([]int, len(pcm)/2)
	for i := range data {
		data[i] = int(int16(uint16(pcm[2*i]) | uint16(pcm[2*i+1])<<8))
	}
	return data
}
