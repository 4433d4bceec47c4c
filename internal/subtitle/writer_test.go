package subtitle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleTrack() *Subtitle {
	return &Subtitle{
		Entries: []Entry{
			{Index: 1, Start: 1, End: 2.5, Text: "Hello"},
			{Index: 2, Start: 3723.456, End: 3725, Text: "two\nlines"},
		},
		Format: FormatSRT,
	}
}

func TestWritersRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, format := range []Format{FormatSRT, FormatVTT} {
		t.Run(string(format), func(t *testing.T) {
			w, err := NewWriter(format)
			if err != nil {
				t.Fatalf("NewWriter: %v", err)
			}
			path := filepath.Join(dir, "nested", "out"+GetExtensionForFormat(format))
			if err := w.Write(sampleTrack(), path); err != nil {
				t.Fatalf("Write: %v", err)
			}

			sub, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if diff := cmp.Diff(timings(sampleTrack().Entries), timings(sub.Entries)); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVTTEncoding(t *testing.T) {
	got := string(EncodeVTT(sampleTrack().Entries))
	if !strings.HasPrefix(got, "WEBVTT\n\n1\n00:00:01.000 --> 00:00:02.500\nHello\n\n") {
		t.Errorf("unexpected VTT output:\n%s", got)
	}
}

func TestASSWriter(t *testing.T) {
	w, err := NewWriter(FormatASS)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.ass")
	if err := w.Write(sampleTrack(), path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	out := string(data)
	for _, want := range []string{
		"[Script Info]",
		"Style: Default,Arial,20",
		"Dialogue: 0,0:00:01.00,0:00:02.50,Default,,0,0,0,,Hello",
		`Dialogue: 0,1:02:03.45,1:02:05.00,Default,,0,0,0,,two\Nlines`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestFormatHelpers(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.srt", FormatSRT},
		{"a.VTT", FormatVTT},
		{"a.ass", FormatASS},
		{"a.ssa", FormatASS},
		{"a.txt", FormatSRT},
	}
	for _, tt := range tests {
		if got := GetFormatFromExtension(tt.path); got != tt.want {
			t.Errorf("GetFormatFromExtension(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}

	if _, err := ParseFormat("json"); err == nil {
		t.Error("expected error for unknown format")
	}
	if f, err := ParseFormat(" VTT "); err != nil || f != FormatVTT {
		t.Errorf("ParseFormat(VTT) = %s, %v", f, err)
	}
	if _, err := NewWriter(Format("txt")); err == nil {
		t.Error("expected error for unknown writer format")
	}
}
