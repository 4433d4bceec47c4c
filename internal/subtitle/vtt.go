package subtitle

import (
	"fmt"
	"strings"
)

// ParseVTT parses WebVTT content. Header, NOTE, STYLE and REGION blocks
// are ignored; cue ids are optional and cue settings are dropped.
func ParseVTT(content string) ([]Entry, []ParseWarning) {
	blocks := blockSeparator.Split(strings.TrimSpace(normalizeText(content)), -1)

	kept := make([]string, 0, len(blocks))
	for i, block := range blocks {
		trimmed := strings.TrimSpace(block)
		if i == 0 && strings.HasPrefix(trimmed, "WEBVTT") {
			continue
		}
		if isVTTMetadata(trimmed) {
			continue
		}
		kept = append(kept, trimmed)
	}

	return parseBlocks(strings.Join(kept, "\n\n"), true)
}

func isVTTMetadata(block string) bool {
	for _, prefix := range []string{"NOTE", "STYLE", "REGION"} {
		if block == prefix || strings.HasPrefix(block, prefix+" ") || strings.HasPrefix(block, prefix+"\n") {
			return true
		}
	}
	return false
}

// EncodeVTT serializes entries as WebVTT with numeric cue ids.
func EncodeVTT(entries []Entry) []byte {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")
	for i, entry := range entries {
		fmt.Fprintf(&sb, "%d\n", i+1)
		fmt.Fprintf(&sb, "%s --> %s\n", formatVTTTimestamp(entry.Start), formatVTTTimestamp(entry.End))
		sb.WriteString(entry.Text)
		sb.WriteString("\n\n")
	}
	return []byte(sb.String())
}

func formatVTTTimestamp(seconds float64) string {
	h, m, s, ms := splitMillis(seconds)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
