package align

import (
	"errors"
	"fmt"
	"math"

	"github.com/mgpai22/tala/internal/silence"
	"github.com/mgpai22/tala/internal/subtitle"
)

// recorded on the report when there is nothing to align against
var ErrEmptyInput = errors.New("cannot align, empty input")

type Engine struct {
	side SideStrategy
}

// NewEngine returns an engine that resolves SingleEnd with side; nil
// selects the default threshold strategy.
func NewEngine(side SideStrategy) *Engine {
	if side == nil {
		side = ThresholdSide{HeadGapMax: DefaultHeadGapMax, TailGapMin: DefaultTailGapMin}
	}
	return &Engine{side: side}
}

func (e *Engine) Strategy() SideStrategy {
	return e.side
}

// Align maps cues onto the pauses between silences. The result has the
// same length, order and texts as cues; the input slice is not modified.
func (e *Engine) Align(silences []silence.Interval, cues []subtitle.Entry) ([]subtitle.Entry, *Report) {
	m, n := len(silences), len(cues)
	adjusted := subtitle.CloneEntries(cues)
	report := &Report{Silences: m, Cues: n}

	if m == 0 || n == 0 {
		report.Err = ErrEmptyInput
		return adjusted, report
	}

	run := &run{sil: silences, cues: cues, out: adjusted, report: report}
	report.Case = Classify(m, n)

	switch report.Case {
	case CaseStandard:
		run.standard()
	case CaseSingleEnd:
		side, reason := e.side.Decide(silences, cues)
		report.Case = side.Case()
		report.Notes = append(report.Notes, fmt.Sprintf("%s strategy chose %s: %s", e.side.Name(), side, reason))
		if side == SideTail {
			run.singleEndTail()
		} else {
			run.singleEndHead()
		}
	case CaseNoEnds:
		run.noEnds()
	default:
		if m > n {
			run.fallbackSpread()
		} else {
			run.fallbackPack()
		}
	}

	for i, cue := range adjusted {
		if cue.End < cue.Start {
			report.Notes = append(report.Notes, fmt.Sprintf("cue %d ends before it starts", i+1))
		}
	}
	return adjusted, report
}

// Align runs the default engine.
func Align(silences []silence.Interval, cues []subtitle.Entry) ([]subtitle.Entry, *Report) {
	return NewEngine(nil).Align(silences, cues)
}

// state for one alignment pass
type run struct {
	sil    []silence.Interval
	cues   []subtitle.Entry
	out    []subtitle.Entry
	report *Report
}

func (r *run) set(i int, start, end float64, rationale string) {
	before := r.cues[i]
	r.out[i].Start = start
	r.out[i].End = end
	r.report.Decisions = append(r.report.Decisions, Decision{
		Position:  i,
		Text:      before.Text,
		Before:    Span{Start: before.Start, End: before.End},
		After:     Span{Start: start, End: end},
		Rationale: rationale,
	})
}

// cue i sits between silence i and silence i+1
func (r *run) between(i, left, right int) {
	r.set(i, r.sil[left].End, r.sil[right].Start,
		fmt.Sprintf("start = silence %d end, end = silence %d start", left+1, right+1))
}

func (r *run) standard() {
	for i := range r.cues {
		r.between(i, i, i+1)
	}
}

func (r *run) singleEndHead() {
	last := len(r.cues) - 1
	for i := 0; i < last; i++ {
		r.between(i, i, i+1)
	}
	start := r.sil[len(r.sil)-1].End
	r.set(last, start, start+r.cues[last].Duration(),
		fmt.Sprintf("start = silence %d end, original duration %.3fs kept", len(r.sil), r.cues[last].Duration()))
}

func (r *run) singleEndTail() {
	dur := r.cues[0].Duration()
	end := r.sil[0].Start
	start := end - dur
	rationale := fmt.Sprintf("end = silence 1 start, original duration %.3fs kept", dur)
	if start < 0 {
		start = 0
		r.report.Notes = append(r.report.Notes, "cue 1 would start before 0s, clamped")
		rationale += ", start clamped to 0"
	}
	r.set(0, start, end, rationale)

	for i := 1; i < len(r.cues); i++ {
		r.between(i, i-1, i)
	}
}

func (r *run) noEnds() {
	n := len(r.cues)
	first := r.cues[0]
	r.set(0, first.Start, r.sil[0].Start, "start kept, end = silence 1 start")

	for i := 1; i < n-1; i++ {
		r.between(i, i-1, i)
	}

	last := r.cues[n-1]
	r.set(n-1, r.sil[len(r.sil)-1].End, last.End,
		fmt.Sprintf("start = silence %d end, end kept", len(r.sil)))
}

// more silences than cues: each cue takes the window of an evenly spaced
// silence
func (r *run) fallbackSpread() {
	m, n := len(r.sil), len(r.cues)
	r.report.Notes = append(r.report.Notes, fmt.Sprintf("stride %.3f, cues take silence windows", float64(m)/float64(n)))
	for i := range r.cues {
		idx := clamp(int(math.Round(float64(i)*float64(m)/float64(n))), m-1)
		r.set(i, r.sil[idx].Start, r.sil[idx].End, fmt.Sprintf("window of silence %d", idx+1))
	}
}

// more cues than silences: cues share silences, offset within each span
func (r *run) fallbackPack() {
	m, n := len(r.sil), len(r.cues)
	ratio := float64(n) / float64(m)
	r.report.Notes = append(r.report.Notes, fmt.Sprintf("%.3f cues per silence", ratio))
	for i, cue := range r.cues {
		idx := clamp(int(math.Floor(float64(i)/ratio)), m-1)
		frac := math.Mod(float64(i), ratio) / ratio
		sil := r.sil[idx]
		start := sil.Start + frac*sil.Duration()
		r.set(i, start, start+cue.Duration(),
			fmt.Sprintf("silence %d at offset %.3f, original duration kept", idx+1, frac))
	}
}

func clamp(i, hi int) int {
	if i < 0 {
		return 0
	}
	if i > hi {
		return hi
	}
	return i
}
