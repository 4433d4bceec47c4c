package subtitle

import (
	"strings"
	"unicode/utf8"
)

// builds cues from timed speech segments, splitting long ones
type Generator struct {
	MaxCharsPerLine int
	MaxLinesPerCue  int
	MaxDuration     float64
}

func NewGenerator() *Generator {
	return &Generator{
		MaxCharsPerLine: 42,
		MaxLinesPerCue:  2,
		MaxDuration:     7,
	}
}

// Generate converts segments to cues. Empty segments are dropped.
func (g *Generator) Generate(segments []Segment) *Subtitle {
	entries := []Entry{}
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}

		if g.needsSplit(text, seg.End-seg.Start) {
			entries = append(entries, g.splitSegment(seg, len(entries)+1)...)
			continue
		}
		entries = append(entries, Entry{
			Index: len(entries) + 1,
			Start: seg.Start,
			End:   seg.End,
			Text:  g.formatText(text),
		})
	}

	return &Subtitle{Entries: entries, Format: FormatSRT}
}

// SegmentsFromScript spreads the non-empty lines of a script over total
// seconds, giving each line time in proportion to its length. The timing
// is a starting point for alignment against detected pauses.
func SegmentsFromScript(script string, total float64) []Segment {
	var lines []string
	var weights []int
	sum := 0
	for _, line := range strings.Split(normalizeText(script), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		w := utf8.RuneCountInString(line)
		lines = append(lines, line)
		weights = append(weights, w)
		sum += w
	}
	if len(lines) == 0 {
		return nil
	}

	segments := make([]Segment, len(lines))
	cursor := 0.0
	for i, line := range lines {
		span := total * float64(weights[i]) / float64(sum)
		end := cursor + span
		if i == len(lines)-1 {
			end = total
		}
		segments[i] = Segment{Start: cursor, End: end, Text: line}
		cursor = end
	}
	return segments
}

func (g *Generator) needsSplit(text string, duration float64) bool {
	if utf8.RuneCountInString(text) > g.MaxCharsPerLine*g.MaxLinesPerCue {
		return true
	}
	return duration > g.MaxDuration
}

// splits long segment into several cues sharing its time span evenly
func (g *Generator) splitSegment(seg Segment, startIndex int) []Entry {
	words := strings.Fields(seg.Text)
	if len(words) == 0 {
		return nil
	}
	total := seg.End - seg.Start

	maxChars := g.MaxCharsPerLine * g.MaxLinesPerCue
	parts := (utf8.RuneCountInString(strings.Join(words, " ")) + maxChars - 1) / maxChars
	if byTime := int(total/g.MaxDuration) + 1; byTime > parts {
		parts = byTime
	}
	if parts > len(words) {
		parts = len(words)
	}
	if parts < 1 {
		parts = 1
	}

	wordsPerPart := (len(words) + parts - 1) / parts
	step := total / float64(parts)

	var entries []Entry
	start := seg.Start
	for i := 0; len(words) > 0; i++ {
		take := wordsPerPart
		if take > len(words) {
			take = len(words)
		}
		chunk := words[:take]
		words = words[take:]

		end := start + step
		if len(words) == 0 {
			end = seg.End
		}
		entries = append(entries, Entry{
			Index: startIndex + i,
			Start: start,
			End:   end,
			Text:  g.formatText(strings.Join(chunk, " ")),
		})
		start = end
	}
	return entries
}

// wraps text onto two lines at the word break closest to the middle
func (g *Generator) formatText(text string) string {
	text = strings.TrimSpace(text)
	runeCount := utf8.RuneCountInString(text)
	if runeCount <= g.MaxCharsPerLine {
		return text
	}

	words := strings.Fields(text)
	if len(words) < 2 {
		return text
	}

	middle := runeCount / 2
	bestSplit, bestDiff := 0, runeCount
	length := 0
	for i, word := range words[:len(words)-1] {
		length += utf8.RuneCountInString(word)
		if i > 0 {
			length++
		}
		if diff := abs(length - middle); diff < bestDiff {
			bestDiff = diff
			bestSplit = i + 1
		}
	}

	return strings.Join(words[:bestSplit], " ") + "\n" + strings.Join(words[bestSplit:], " ")
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
