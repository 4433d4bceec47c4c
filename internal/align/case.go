// Package align re-times subtitle cues to the pauses detected in a speech
// track.
package align

import "fmt"

// relationship between the number of silences and cues
type Case string

const (
	CaseStandard Case = "Standard"
	// m == n before the head/tail decision is made
	CaseSingleEnd     Case = "SingleEnd"
	CaseSingleEndHead Case = "SingleEndHead"
	CaseSingleEndTail Case = "SingleEndTail"
	CaseNoEnds        Case = "NoEnds"
	CaseFallback      Case = "Fallback"
)

// Classify picks the mapping family for m silences and n cues.
func Classify(m, n int) Case {
	switch m {
	case n + 1:
		return CaseStandard
	case n:
		return CaseSingleEnd
	case n - 1:
		return CaseNoEnds
	default:
		return CaseFallback
	}
}

func ParseCase(name string) (Case, error) {
	switch c := Case(name); c {
	case CaseStandard, CaseSingleEnd, CaseSingleEndHead, CaseSingleEndTail, CaseNoEnds, CaseFallback:
		return c, nil
	default:
		return "", fmt.Errorf("unknown alignment case %q", name)
	}
}

func relation(m, n int) string {
	switch m {
	case n + 1:
		return "m = n+1"
	case n:
		return "m = n"
	case n - 1:
		return "m = n-1"
	default:
		return fmt.Sprintf("m = %d, n = %d", m, n)
	}
}
