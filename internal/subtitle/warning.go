package subtitle

import "fmt"

// ParseWarning describes a cue block that was skipped during parsing.
// The rest of the file is still loaded.
type ParseWarning struct {
	// 1-based position of the block in the file
	Block  int
	Reason string
	// first line of the offending block, for context
	Excerpt string
}

func (w ParseWarning) String() string {
	if w.Excerpt == "" {
		return fmt.Sprintf("block %d skipped: %s", w.Block, w.Reason)
	}
	return fmt.Sprintf("block %d skipped: %s (%q)", w.Block, w.Reason, w.Excerpt)
}
