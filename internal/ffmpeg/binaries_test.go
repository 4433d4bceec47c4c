package ffmpeg

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePrefersEnvironment(t *testing.T) {
	env := map[string]string{
		envFFmpegPath:  "/opt/ffmpeg",
		envFFprobePath: "/opt/ffprobe",
	}
	lookPath := func(string) (string, error) {
		t.Fatal("PATH should not be searched when both overrides are set")
		return "", nil
	}

	paths, err := resolve(func(k string) string { return env[k] }, lookPath, nil)
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	if paths.FFmpeg != "/opt/ffmpeg" || paths.FFprobe != "/opt/ffprobe" {
		t.Errorf("unexpected paths: %+v", paths)
	}
}

func TestResolveMixesEnvironmentAndPath(t *testing.T) {
	env := map[string]string{envFFmpegPath: "/custom/ffmpeg"}
	lookPath := func(name string) (string, error) {
		if name == "ffprobe" {
			return "/usr/bin/ffprobe", nil
		}
		return "/usr/bin/" + name, nil
	}
	fetch := func(string, string) error {
		t.Fatal("bundle should not be fetched when PATH has both binaries")
		return nil
	}

	paths, err := resolve(func(k string) string { return env[k] }, lookPath, fetch)
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	if paths.FFmpeg != "/custom/ffmpeg" {
		t.Errorf("expected env override for ffmpeg, got %q", paths.FFmpeg)
	}
	if paths.FFprobe != "/usr/bin/ffprobe" {
		t.Errorf("expected PATH lookup for ffprobe, got %q", paths.FFprobe)
	}
}

func TestAssetForPlatform(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         string
		wantErr      bool
	}{
		{"linux", "amd64", "ffmpeg-6.1-linux-64.zip", false},
		{"linux", "arm64", "ffmpeg-6.1-linux-arm-64.zip", false},
		{"darwin", "amd64", "ffmpeg-6.1-macos-64.zip", false},
		{"windows", "amd64", "ffmpeg-6.1-win-64.zip", false},
		{"plan9", "386", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			got, err := assetForPlatform(tt.goos, tt.goarch)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	zw := zip.NewWriter(f)
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create entry: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
}

func TestExtractArchive(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "bundle.zip")
	writeZip(t, archive, map[string]string{
		"bin/ffmpeg":  "ffmpeg-binary",
		"bin/ffprobe": "ffprobe-binary",
		"README.txt":  "ignored",
	})

	installDir := filepath.Join(dir, "install")
	if err := extractArchive(archive, installDir); err != nil {
		t.Fatalf("extractArchive failed: %v", err)
	}

	paths := BinaryPaths{
		FFmpeg:  filepath.Join(installDir, "ffmpeg"+executableSuffix()),
		FFprobe: filepath.Join(installDir, "ffprobe"+executableSuffix()),
	}
	if !binariesExist(paths) {
		t.Fatalf("expected binaries in %s", installDir)
	}
	if _, err := os.Stat(filepath.Join(installDir, "README.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("unrelated entries should not be extracted")
	}
}

func TestExtractArchiveMissingBinary(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "bundle.zip")
	writeZip(t, archive, map[string]string{"ffmpeg": "only one"})

	if err := extractArchive(archive, filepath.Join(dir, "install")); err == nil {
		t.Error("expected error when ffprobe is missing")
	}
}

func TestBinaryName(t *testing.T) {
	tests := map[string]string{
		"ffmpeg":      "ffmpeg",
		"FFMPEG.EXE":  "ffmpeg",
		"ffprobe.exe": "ffprobe",
		"ffplay":      "",
		"":            "",
	}
	for in, want := range tests {
		if got := binaryName(in); got != want {
			t.Errorf("binaryName(%q) = %q, want %q", in, got, want)
		}
	}
}
