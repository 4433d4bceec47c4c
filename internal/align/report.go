package align

import (
	"fmt"
	"strings"

	"github.com/mgpai22/tala/internal/subtitle"
)

type Span struct {
	Start float64
	End   float64
}

func (s Span) String() string {
	return subtitle.FormatTimestamp(s.Start) + " --> " + subtitle.FormatTimestamp(s.End)
}

// one re-timed cue
type Decision struct {
	// 0-based cue position
	Position  int
	Text      string
	Before    Span
	After     Span
	Rationale string
}

// Report traces every decision of one alignment run.
type Report struct {
	Case      Case
	Silences  int
	Cues      int
	Notes     []string
	Decisions []Decision
	// ErrEmptyInput when nothing was aligned
	Err error
}

func (r *Report) Aligned() bool {
	return r.Err == nil
}

func (r *Report) Summary() string {
	if r.Err != nil {
		return fmt.Sprintf("%v (%d silences, %d cues)", r.Err, r.Silences, r.Cues)
	}
	return fmt.Sprintf("case %s: %d silences, %d cues (%s)", r.Case, r.Silences, r.Cues, relation(r.Silences, r.Cues))
}

// Lines renders the report as text, one line per decision.
func (r *Report) Lines() []string {
	lines := []string{r.Summary()}
	for _, note := range r.Notes {
		lines = append(lines, "note: "+note)
	}
	for _, d := range r.Decisions {
		lines = append(lines, fmt.Sprintf("cue %d: %s => %s | %s", d.Position+1, d.Before, d.After, d.Rationale))
	}
	return lines
}

func (r *Report) String() string {
	return strings.Join(r.Lines(), "\n")
}
