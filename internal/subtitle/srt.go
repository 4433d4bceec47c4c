package subtitle

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var blockSeparator = regexp.MustCompile(`\n[ \t]*\n`)

// ParseTimestamp converts HH:MM:SS,mmm (or with '.') into seconds. The
// short MM:SS.mmm form used by WebVTT is accepted as well.
func ParseTimestamp(value string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	parts := strings.Split(normalized, ":")

	var hours, minutes int
	var secField string
	var err error
	switch len(parts) {
	case 3:
		if hours, err = strconv.Atoi(parts[0]); err != nil {
			return 0, fmt.Errorf("invalid hours in %q", value)
		}
		if minutes, err = strconv.Atoi(parts[1]); err != nil {
			return 0, fmt.Errorf("invalid minutes in %q", value)
		}
		secField = parts[2]
	case 2:
		if minutes, err = strconv.Atoi(parts[0]); err != nil {
			return 0, fmt.Errorf("invalid minutes in %q", value)
		}
		secField = parts[1]
	default:
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}

	seconds, err := strconv.ParseFloat(secField, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in %q", value)
	}
	if hours < 0 || minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("negative field in %q", value)
	}

	return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
}

// FormatTimestamp renders seconds as HH:MM:SS,mmm. Milliseconds are
// truncated; negative input renders as zero.
func FormatTimestamp(seconds float64) string {
	h, m, s, ms := splitMillis(seconds)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// the 1e-6 nudge keeps parsed values like 1.001 from flooring to 1.000
func toMillis(seconds float64) int64 {
	if seconds <= 0 || math.IsNaN(seconds) {
		return 0
	}
	return int64(math.Floor(seconds*1000 + 1e-6))
}

func splitMillis(seconds float64) (h, m, s, ms int64) {
	total := toMillis(seconds)
	h = total / 3600000
	m = total / 60000 % 60
	s = total / 1000 % 60
	ms = total % 1000
	return h, m, s, ms
}

// ParseSRT parses SubRip content. Malformed blocks are skipped and
// reported as warnings.
func ParseSRT(content string) ([]Entry, []ParseWarning) {
	return parseBlocks(normalizeText(content), false)
}

// EncodeSRT serializes entries as SubRip, renumbering cues 1..N.
func EncodeSRT(entries []Entry) []byte {
	var sb strings.Builder
	for i, entry := range entries {
		fmt.Fprintf(&sb, "%d\n", i+1)
		fmt.Fprintf(&sb, "%s --> %s\n", FormatTimestamp(entry.Start), FormatTimestamp(entry.End))
		sb.WriteString(entry.Text)
		sb.WriteString("\n\n")
	}
	return []byte(sb.String())
}

func normalizeText(content string) string {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}

// parseBlocks handles SRT and the cue part of WebVTT. With optionalID the
// index line may be missing or non-numeric, as WebVTT allows.
func parseBlocks(content string, optionalID bool) ([]Entry, []ParseWarning) {
	var (
		entries  []Entry
		warnings []ParseWarning
	)

	blocks := blockSeparator.Split(strings.TrimSpace(content), -1)
	for n, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := splitLines(block)
		excerpt := lines[0]
		warn := func(reason string) {
			warnings = append(warnings, ParseWarning{Block: n + 1, Reason: reason, Excerpt: excerpt})
		}

		index := len(entries) + 1
		if optionalID {
			if !strings.Contains(lines[0], "-->") {
				if id, err := strconv.Atoi(lines[0]); err == nil {
					index = id
				}
				lines = lines[1:]
			}
			// give the id-less cue the same shape as an SRT block
			lines = append([]string{""}, lines...)
		} else {
			id, err := strconv.Atoi(lines[0])
			if err != nil {
				if len(lines) >= 3 {
					warn("invalid cue index")
				} else {
					warn("incomplete block")
				}
				continue
			}
			index = id
		}

		if len(lines) < 3 {
			warn("incomplete block")
			continue
		}

		start, end, err := parseTimeRange(lines[1])
		if err != nil {
			warn(err.Error())
			continue
		}

		entries = append(entries, Entry{
			Index: index,
			Start: start,
			End:   end,
			Text:  strings.Join(lines[2:], "\n"),
		})
	}

	return entries, warnings
}

func splitLines(block string) []string {
	raw := strings.Split(block, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// "start --> end [settings]"
func parseTimeRange(line string) (float64, float64, error) {
	left, right, ok := strings.Cut(line, "-->")
	if !ok {
		return 0, 0, fmt.Errorf("missing --> in time line")
	}
	fields := strings.Fields(right)
	if len(fields) == 0 {
		return 0, 0, fmt.Errorf("missing end time")
	}

	start, err := ParseTimestamp(left)
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseTimestamp(fields[0])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
