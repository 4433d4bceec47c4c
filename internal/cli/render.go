package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/mgpai22/tala/internal/align"
	"github.com/mgpai22/tala/internal/history"
	"github.com/mgpai22/tala/internal/silence"
	"github.com/mgpai22/tala/internal/subtitle"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		colAlign := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			colAlign = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       colAlign,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// tables on a terminal, plain lines when piped
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func silenceRows(silences []silence.Interval) [][]string {
	rows := make([][]string, len(silences))
	for i, s := range silences {
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			subtitle.FormatTimestamp(s.Start),
			subtitle.FormatTimestamp(s.End),
			fmt.Sprintf("%.3f", s.Duration()),
		}
	}
	return rows
}

func renderSilences(w io.Writer, silences []silence.Interval) {
	if len(silences) == 0 {
		return
	}
	if !isTerminal(w) {
		for _, s := range silences {
			fmt.Fprintln(w, s.String())
		}
		return
	}
	fmt.Fprintln(w, renderTable(
		[]string{"#", "Start", "End", "Seconds"},
		silenceRows(silences),
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
	))
}

func decisionRows(report *align.Report) [][]string {
	rows := make([][]string, len(report.Decisions))
	for i, d := range report.Decisions {
		rows[i] = []string{
			fmt.Sprintf("%d", d.Position+1),
			d.Before.String(),
			d.After.String(),
			d.Rationale,
			truncate(strings.ReplaceAll(d.Text, "\n", " "), 32),
		}
	}
	return rows
}

// renderReport prints the summary and notes, then the per-cue decisions.
func renderReport(w io.Writer, report *align.Report) {
	if !isTerminal(w) {
		fmt.Fprintln(w, report.String())
		return
	}
	fmt.Fprintln(w, report.Summary())
	for _, note := range report.Notes {
		fmt.Fprintf(w, "note: %s\n", note)
	}
	if len(report.Decisions) == 0 {
		return
	}
	fmt.Fprintln(w, renderTable(
		[]string{"Cue", "Before", "After", "Rationale", "Text"},
		decisionRows(report),
		[]columnAlignment{alignRight},
	))
}

func historyRows(runs []history.Run) [][]string {
	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			r.ID[:min(8, len(r.ID))],
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Case,
			fmt.Sprintf("%d/%d", r.Silences, r.Cues),
			r.OutputPath,
		}
	}
	return rows
}

func renderHistory(w io.Writer, runs []history.Run) {
	if !isTerminal(w) {
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
				r.ID, r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"), r.Case, r.Silences, r.Cues, r.OutputPath)
		}
		return
	}
	fmt.Fprintln(w, renderTable(
		[]string{"ID", "When", "Case", "Silences/Cues", "Output"},
		historyRows(runs),
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
	))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
