package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadFile loads an SRT or WebVTT file. Files saved as UTF-16 with a BOM
// are transcoded; everything else is read as UTF-8.
func ReadFile(path string) (*Subtitle, error) {
	format, err := formatForPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}

	content, err := DecodeText(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}

	sub := Parse(content, format)
	return sub, nil
}

// Parse dispatches to the parser for format. ASS input is not supported and
// yields an empty track.
func Parse(content string, format Format) *Subtitle {
	var entries []Entry
	var warnings []ParseWarning
	switch format {
	case FormatVTT:
		entries, warnings = ParseVTT(content)
	default:
		format = FormatSRT
		entries, warnings = ParseSRT(content)
	}
	return &Subtitle{Entries: entries, Warnings: warnings, Format: format}
}

// DecodeText converts raw subtitle bytes to a string, honoring a UTF-8 or
// UTF-16 byte order mark.
func DecodeText(data []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func formatForPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".srt":
		return FormatSRT, nil
	case ".vtt":
		return FormatVTT, nil
	default:
		return "", fmt.Errorf("unsupported subtitle format: %s", ext)
	}
}

// whether path has an extension ReadFile understands
func IsSubtitleFile(path string) bool {
	_, err := formatForPath(path)
	return err == nil
}
