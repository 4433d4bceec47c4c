package runlock

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestKeyIsStableAndOrderSensitive(t *testing.T) {
	a, err := Key("voice.wav", "cues.srt")
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	b, _ := Key("voice.wav", "cues.srt")
	c, _ := Key("cues.srt", "voice.wav")

	if a != b {
		t.Errorf("same inputs produced different keys: %s vs %s", a, b)
	}
	if a == c {
		t.Error("swapped inputs should produce a different key")
	}
	if len(a) != 32 {
		t.Errorf("expected 32 hex chars, got %d", len(a))
	}
}

func TestAcquireRejectsSecondRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "locks")

	first, err := Acquire(dir, "voice.wav", "cues.srt")
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}

	if _, err := Acquire(dir, "voice.wav", "cues.srt"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	other, err := Acquire(dir, "other.wav", "cues.srt")
	if err != nil {
		t.Fatalf("independent pair should not block: %v", err)
	}
	if err := other.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	again, err := Acquire(dir, "voice.wav", "cues.srt")
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	_ = again.Release()
}

func TestReleaseNil(t *testing.T) {
	var l *Lock
	if err := l.Release(); err != nil {
		t.Errorf("nil Release returned %v", err)
	}
}
