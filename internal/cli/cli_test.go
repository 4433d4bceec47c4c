package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/mgpai22/tala/internal/align"
	"github.com/mgpai22/tala/internal/config"
	"github.com/mgpai22/tala/internal/history"
	"github.com/mgpai22/tala/internal/silence"
	"github.com/mgpai22/tala/internal/subtitle"
)

func TestApplyAnalysisFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addAnalysisFlags(cmd)
	if err := cmd.ParseFlags([]string{"--threshold", "-30", "--strategy", "margin"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	c := config.Default()
	applyAnalysisFlags(cmd, &c)

	if c.Analysis.ThresholdDB != -30 {
		t.Errorf("expected threshold -30, got %v", c.Analysis.ThresholdDB)
	}
	if c.Analysis.MinSilenceDuration != silence.DefaultMinDuration {
		t.Errorf("min silence should keep the config value, got %v", c.Analysis.MinSilenceDuration)
	}
	if c.Alignment.SideStrategy != align.StrategyMargin {
		t.Errorf("expected margin strategy, got %q", c.Alignment.SideStrategy)
	}
}

func TestRenderSilencesPlain(t *testing.T) {
	var buf bytes.Buffer
	renderSilences(&buf, []silence.Interval{{Start: 0, End: 0.5}, {Start: 2, End: 2.5}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
}

func TestRenderReportPlain(t *testing.T) {
	_, report := align.Align(
		[]silence.Interval{{Start: 0.5, End: 1.0}, {Start: 2.0, End: 2.5}, {Start: 5.0, End: 5.5}},
		[]subtitle.Entry{{Index: 1, Start: 0, End: 2, Text: "A"}, {Index: 2, Start: 3, End: 5, Text: "B"}},
	)

	var buf bytes.Buffer
	renderReport(&buf, report)
	if got := strings.TrimSpace(buf.String()); got != report.String() {
		t.Errorf("plain output should be the report lines, got:\n%s", got)
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"#", "Text"}, [][]string{{"1", "hello"}, {"2"}}, []columnAlignment{alignRight})
	if !strings.Contains(out, "hello") || !strings.Contains(out, "╭") {
		t.Errorf("unexpected table:\n%s", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Error("expected empty output without headers")
	}
}

func TestHistoryRowsShortID(t *testing.T) {
	rows := historyRows([]history.Run{{ID: "0123456789abcdef", Case: "Standard", Silences: 3, Cues: 2}})
	if rows[0][0] != "01234567" || rows[0][3] != "3/2" {
		t.Errorf("unexpected row %v", rows[0])
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"héllo wörld", 6, "héllo…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"align", "analyze", "config", "extract", "history", "synth", "translate"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered: %v", name, err)
		}
	}

	initCmd, _, err := rootCmd.Find([]string{"config", "init"})
	if err != nil || initCmd.Name() != "init" {
		t.Errorf("config init not registered: %v", err)
	}
}
