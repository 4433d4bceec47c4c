package subtitle

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseSRTSingleCue(t *testing.T) {
	entries, warnings := ParseSRT("1\n00:00:01,000 --> 00:00:02,500\nHello\n\n")

	want := []Entry{{Index: 1, Start: 1.0, End: 2.5, Text: "Hello"}}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestParseSRTSkipsMalformedBlocks(t *testing.T) {
	content := "1\n00:00:01,000 --> 00:00:02,000\nfirst\n\n" +
		"2\n00:00:03,000 --> 00:00:04,000\n\n" +
		"x\n00:00:05,000 --> 00:00:06,000\nbad index\n\n" +
		"4\nnot a time line\ntext\n\n" +
		"5\n00:00:07,000 --> 00:00:08,000\nlast\n"

	entries, warnings := ParseSRT(content)

	want := []Entry{
		{Index: 1, Start: 1, End: 2, Text: "first"},
		{Index: 5, Start: 7, End: 8, Text: "last"},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	if len(warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %v", warnings)
	}
	if warnings[0].Block != 2 || warnings[0].Reason != "incomplete block" {
		t.Errorf("unexpected first warning: %+v", warnings[0])
	}
}

func TestParseSRTWindowsLineEndings(t *testing.T) {
	content := "1\r\n00:00:01,000 --> 00:00:02,000\r\nline one\r\nline two\r\n\r\n2\r\n00:00:02.500 --> 00:00:03.000\r\nnext\r\n"

	entries, _ := ParseSRT(content)
	want := []Entry{
		{Index: 1, Start: 1, End: 2, Text: "line one\nline two"},
		{Index: 2, Start: 2.5, End: 3, Text: "next"},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"00:00:01,000", 1, false},
		{"00:00:01.000", 1, false},
		{"01:02:03,456", 3723.456, false},
		{" 00:00:02,500 ", 2.5, false},
		{"02:03.250", 123.25, false},
		{"10:00:00,000", 36000, false},
		{"1:2", 62, false},
		{"00:00", 0, false},
		{"abc", 0, true},
		{"00:xx:01,000", 0, true},
		{"00:00:-1,000", 0, true},
		{"1:2:3:4", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00,000"},
		{1, "00:00:01,000"},
		{2.5, "00:00:02,500"},
		{1.001, "00:00:01,001"},
		{1.0019, "00:00:01,001"},
		{3723.456, "01:02:03,456"},
		{59.9999, "00:00:59,999"},
		{360000, "100:00:00,000"},
		{-3, "00:00:00,000"},
	}

	for _, tt := range tests {
		if got := FormatTimestamp(tt.in); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEncodeSRTRenumbers(t *testing.T) {
	entries := []Entry{
		{Index: 7, Start: 1, End: 2, Text: "A"},
		{Index: 3, Start: 2.5, End: 5, Text: "B\nsecond line"},
	}

	got := string(EncodeSRT(entries))
	want := "1\n00:00:01,000 --> 00:00:02,000\nA\n\n" +
		"2\n00:00:02,500 --> 00:00:05,000\nB\nsecond line\n\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

type timing struct {
	Start, End float64
	Text       string
}

func timings(entries []Entry) []timing {
	out := make([]timing, len(entries))
	for i, e := range entries {
		out[i] = timing{e.Start, e.End, e.Text}
	}
	return out
}

func TestSRTRoundTrip(t *testing.T) {
	inputs := []string{
		"1\n00:00:01,000 --> 00:00:02,500\nHello\n\n",
		"3\n00:00:00,001 --> 00:00:00,999\nfirst\nsecond\n\n9\n01:59:59,999 --> 02:00:00,000\n  indented\n",
		"1\n00:00:10.010 --> 00:00:11.110\nperiod separator\n\n2\n00:00:12,345 --> 00:00:13,000\n<i>tagged</i>\n",
	}

	for _, in := range inputs {
		first, _ := ParseSRT(in)
		second, warnings := ParseSRT(string(EncodeSRT(first)))
		if len(warnings) != 0 {
			t.Errorf("re-parse produced warnings: %v", warnings)
		}
		if diff := cmp.Diff(timings(first), timings(second)); diff != "" {
			t.Errorf("round trip mismatch (-first +second):\n%s", diff)
		}
		for i, e := range second {
			if e.Index != i+1 {
				t.Errorf("entry %d has index %d after round trip", i, e.Index)
			}
		}
	}
}
