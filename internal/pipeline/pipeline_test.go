package pipeline

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mgpai22/tala/internal/align"
	"github.com/mgpai22/tala/internal/audio"
	"github.com/mgpai22/tala/internal/config"
	"github.com/mgpai22/tala/internal/runlock"
	"github.com/mgpai22/tala/internal/subtitle"
	"github.com/mgpai22/tala/internal/translate"
	"github.com/mgpai22/tala/internal/tts"
)

// pause/speech layout shared by the fixtures, in seconds
var layout = []struct {
	seconds float64
	loud    bool
}{
	{0.5, false},
	{1.5, true},
	{0.5, false},
	{2.5, true},
	{0.5, false},
}

func fixtureSamples(sampleRate int) []int {
	var samples []int
	for _, part := range layout {
		n := int(part.seconds * float64(sampleRate))
		v := 0
		if part.loud {
			v = 16000
		}
		for i := 0; i < n; i++ {
			samples = append(samples, v)
		}
	}
	return samples
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()
	svc, err := New(&cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return svc
}

func writeFixtures(t *testing.T) (audioPath, subPath string) {
	t.Helper()
	dir := t.TempDir()
	audioPath = filepath.Join(dir, "talk.wav")
	if err := audio.WriteWAV(audioPath, fixtureSamples(1000), 1000, 16, 1); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}
	subPath = filepath.Join(dir, "talk.srt")
	content := "1\n00:00:00,000 --> 00:00:02,000\nA\n\n2\n00:00:03,000 --> 00:00:05,000\nB\n\n"
	if err := os.WriteFile(subPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write srt: %v", err)
	}
	return audioPath, subPath
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Error("expected error for nil config")
	}
	cfg := config.Default()
	cfg.Analysis.ThresholdDB = 3
	if _, err := New(&cfg, nil); err == nil {
		t.Error("expected error for positive threshold")
	}
}

func TestAnalyze(t *testing.T) {
	svc := newTestService(t)
	audioPath, _ := writeFixtures(t)

	analysis, err := svc.Analyze(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analysis.Duration != 5.5 {
		t.Errorf("expected 5.5s, got %v", analysis.Duration)
	}

	got := make([][2]float64, len(analysis.Silences))
	for i, s := range analysis.Silences {
		got[i] = [2]float64{s.Start, s.End}
	}
	want := [][2]float64{{0, 0.495}, {2.0, 2.495}, {5.0, 5.495}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("silences mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeMissingFile(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Analyze(context.Background(), filepath.Join(t.TempDir(), "missing.wav"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "missing.wav") {
		t.Errorf("error should name the file: %v", err)
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	svc := newTestService(t)
	audioPath, _ := writeFixtures(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Analyze(ctx, audioPath); err != nil && !errors.Is(err, context.Canceled) {
		t.Errorf("expected nil or context.Canceled, got %v", err)
	}
}

func TestAlign(t *testing.T) {
	svc := newTestService(t)
	audioPath, subPath := writeFixtures(t)
	reportPath := filepath.Join(t.TempDir(), "report.txt")

	res, err := svc.Align(context.Background(), AlignRequest{
		AudioPath:    audioPath,
		SubtitlePath: subPath,
		ReportPath:   reportPath,
	})
	if err != nil {
		t.Fatalf("Align: %v", err)
	}

	if res.Report.Case != align.CaseStandard {
		t.Errorf("expected Standard, got %s", res.Report.Case)
	}
	wantOut := filepath.Join(filepath.Dir(subPath), "talk.aligned.srt")
	if res.OutputPath != wantOut {
		t.Errorf("expected output %s, got %s", wantOut, res.OutputPath)
	}

	data, err := os.ReadFile(res.OutputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "1\n00:00:00,495 --> 00:00:02,000\nA\n\n2\n00:00:02,495 --> 00:00:05,000\nB\n\n"
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	report, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.HasPrefix(string(report), "case Standard: 3 silences, 2 cues") {
		t.Errorf("unexpected report:\n%s", report)
	}

	if res.RunID == "" {
		t.Fatal("expected run to be recorded")
	}
	runs, err := svc.History(context.Background(), 5)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != res.RunID || runs[0].Case != "Standard" {
		t.Errorf("unexpected history %+v", runs)
	}
	run, err := svc.Run(context.Background(), res.RunID)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.Strategy != align.StrategyThreshold || run.Cues != 2 {
		t.Errorf("unexpected run %+v", run)
	}
}

func TestAlignVTTOutput(t *testing.T) {
	svc := newTestService(t)
	audioPath, subPath := writeFixtures(t)

	res, err := svc.Align(context.Background(), AlignRequest{
		AudioPath:    audioPath,
		SubtitlePath: subPath,
		Format:       subtitle.FormatVTT,
	})
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if filepath.Ext(res.OutputPath) != ".vtt" {
		t.Errorf("expected .vtt output, got %s", res.OutputPath)
	}
	data, err := os.ReadFile(res.OutputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "WEBVTT") {
		t.Errorf("expected WEBVTT header, got %q", data)
	}
}

func TestAlignEmptySubtitleLeavesCues(t *testing.T) {
	svc := newTestService(t)
	audioPath, subPath := writeFixtures(t)
	if err := os.WriteFile(subPath, []byte("garbage\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Align(context.Background(), AlignRequest{AudioPath: audioPath, SubtitlePath: subPath})
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if !errors.Is(res.Report.Err, align.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", res.Report.Err)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("expected 1 parse warning, got %v", res.Warnings)
	}
}

func TestAlignBusy(t *testing.T) {
	svc := newTestService(t)
	audioPath, subPath := writeFixtures(t)

	lock, err := runlock.Acquire(svc.Config().LockDir(), audioPath, subPath)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer func() { _ = lock.Release() }()

	_, err = svc.Align(context.Background(), AlignRequest{AudioPath: audioPath, SubtitlePath: subPath})
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

type fakeSynthesizer struct {
	script string
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text string) (*tts.Speech, error) {
	f.script = text
	samples := fixtureSamples(tts.SampleRate)
	pcm := make([]byte, 2*len(samples))
	for i, v := range samples {
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(int16(v)))
	}
	return &tts.Speech{PCM: pcm, SampleRate: tts.SampleRate, Channels: tts.Channels}, nil
}

func TestSynthFromText(t *testing.T) {
	svc := newTestService(t)
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "script.txt")
	if err := os.WriteFile(scriptPath, []byte("Hello there\n\n  General Kenobi  \n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fake := &fakeSynthesizer{}
	res, err := svc.Synth(context.Background(), fake, SynthRequest{ScriptPath: scriptPath})
	if err != nil {
		t.Fatalf("Synth: %v", err)
	}
	if fake.script != "Hello there\nGeneral Kenobi" {
		t.Errorf("unexpected script %q", fake.script)
	}
	if res.AudioPath != filepath.Join(dir, "script.wav") {
		t.Errorf("unexpected audio path %s", res.AudioPath)
	}
	if _, err := os.Stat(res.AudioPath); err != nil {
		t.Errorf("audio not written: %v", err)
	}
	if res.Report.Case != align.CaseStandard {
		t.Errorf("expected Standard, got %s", res.Report.Case)
	}

	type cue struct {
		Start, End float64
		Text       string
	}
	var got []cue
	for _, e := range res.Subtitle.Entries {
		got = append(got, cue{e.Start, e.End, e.Text})
	}
	want := []cue{{0.495, 2.0, "Hello there"}, {2.495, 5.0, "General Kenobi"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cues mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthFromSubtitleKeepsCues(t *testing.T) {
	svc := newTestService(t)
	_, subPath := writeFixtures(t)
	outPath := filepath.Join(t.TempDir(), "out.srt")

	res, err := svc.Synth(context.Background(), &fakeSynthesizer{}, SynthRequest{
		ScriptPath: subPath,
		OutputPath: outPath,
	})
	if err != nil {
		t.Fatalf("Synth: %v", err)
	}
	if len(res.Subtitle.Entries) != 2 || res.Subtitle.Entries[0].Start != 0.495 {
		t.Errorf("unexpected entries %+v", res.Subtitle.Entries)
	}
	if res.OutputPath != outPath {
		t.Errorf("unexpected output %s", res.OutputPath)
	}
}

func TestSynthEmptyScript(t *testing.T) {
	svc := newTestService(t)
	scriptPath := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(scriptPath, []byte("\n  \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Synth(context.Background(), &fakeSynthesizer{}, SynthRequest{ScriptPath: scriptPath}); err == nil {
		t.Error("expected error for empty script")
	}
}

func TestSynthesizerRequiresKey(t *testing.T) {
	svc := newTestService(t)
	svc.cfg.Keys = config.Keys{}
	if _, err := svc.Synthesizer(context.Background(), "openai", ""); err == nil {
		t.Error("expected error without API key")
	}
	if _, err := svc.Synthesizer(context.Background(), "gemini", "fake-key"); err != nil {
		t.Errorf("Synthesizer(gemini): %v", err)
	}
}

type shoutCompleter struct{}

func (shoutCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	start := strings.Index(prompt, "Input JSON:\n") + len("Input JSON:\n")
	end := strings.Index(prompt, "\n\nOutput the translated")
	var items []translate.Item
	if err := json.Unmarshal([]byte(prompt[start:end]), &items); err != nil {
		return "", err
	}
	for i := range items {
		items[i].Text = strings.ToUpper(items[i].Text) + "!"
	}
	data, err := json.Marshal(items)
	return string(data), err
}

func TestTranslate(t *testing.T) {
	svc := newTestService(t)
	_, subPath := writeFixtures(t)

	tr, err := translate.New(shoutCompleter{}, translate.Options{TargetLanguage: "shout"}, nil)
	if err != nil {
		t.Fatalf("translate.New: %v", err)
	}

	res, err := svc.Translate(context.Background(), tr, TranslateRequest{
		SubtitlePath:   subPath,
		TargetLanguage: "shout",
		Overlay:        true,
	})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if filepath.Base(res.OutputPath) != "talk.shout.overlay.srt" {
		t.Errorf("unexpected output %s", res.OutputPath)
	}

	sub, err := subtitle.ReadFile(res.OutputPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if diff := cmp.Diff([]string{"A!\nA", "B!\nB"}, sub.Texts()); diff != "" {
		t.Errorf("texts mismatch (-want +got):\n%s", diff)
	}
	if sub.Entries[1].Start != 3.0 || sub.Entries[1].End != 5.0 {
		t.Errorf("timing changed: %+v", sub.Entries[1])
	}
}

func TestTranslateSameLanguage(t *testing.T) {
	svc := newTestService(t)
	_, subPath := writeFixtures(t)
	tr, _ := translate.New(shoutCompleter{}, translate.Options{TargetLanguage: "en"}, nil)

	_, err := svc.Translate(context.Background(), tr, TranslateRequest{
		SubtitlePath:   subPath,
		InputLanguage:  "EN",
		TargetLanguage: "en",
	})
	if err == nil {
		t.Error("expected error for identical languages")
	}
}

func TestDerivedPath(t *testing.T) {
	tests := []struct {
		path, suffix, ext, want string
	}{
		{"talk.srt", "aligned", ".srt", "talk.aligned.srt"},
		{"dir/talk.srt", "aligned", ".vtt", "dir/talk.aligned.vtt"},
		{"script.txt", "", ".wav", "script.wav"},
	}
	for _, tt := range tests {
		if got := DerivedPath(tt.path, tt.suffix, tt.ext); got != tt.want {
			t.Errorf("DerivedPath(%q, %q, %q) = %q, want %q", tt.path, tt.suffix, tt.ext, got, tt.want)
		}
	}
}
