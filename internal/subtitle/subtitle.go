package subtitle

import (
	"fmt"
)

// represents single subtitle cue; times are seconds from the start of the track
type Entry struct {
	Index int
	Start float64
	End   float64
	Text  string
}

func (e Entry) Duration() float64 {
	return e.End - e.Start
}

// represents complete subtitle track
type Subtitle struct {
	Entries []Entry
	// blocks skipped while parsing
	Warnings []ParseWarning
	Language string
	Format   Format
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
	FormatASS Format = "ass"
)

// interface for writing subtitles to files
type Writer interface {
	Encode(sub *Subtitle) []byte
	Write(sub *Subtitle, path string) error
}

// represents a stretch of speech with known timing
type Segment struct {
	Start float64
	End   float64
	Text  string
}

func (s *Subtitle) SetText(index int, text string) error {
	if index < 0 || index >= len(s.Entries) {
		return fmt.Errorf("index %d out of range (0-%d)", index, len(s.Entries)-1)
	}
	s.Entries[index].Text = text
	return nil
}

// cue texts in order
func (s *Subtitle) Texts() []string {
	texts := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		texts[i] = e.Text
	}
	return texts
}

// Clone returns a deep copy so callers can edit cues without touching
// the parsed original.
func (s *Subtitle) Clone() *Subtitle {
	out := *s
	out.Entries = CloneEntries(s.Entries)
	out.Warnings = append([]ParseWarning(nil), s.Warnings...)
	return &out
}

func CloneEntries(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// renumbered 1..N in current order
func Renumber(entries []Entry) []Entry {
	out := CloneEntries(entries)
	for i := range out {
		out[i].Index = i + 1
	}
	return out
}
