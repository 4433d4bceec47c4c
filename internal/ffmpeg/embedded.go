//go:build ffmpeg_embedded

package ffmpeg

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
)

// release zips for the target platform, dropped in by the release build
//
//go:embed bundle/*
var bundle embed.FS

func openEmbeddedAsset(name string) (io.ReadCloser, bool, error) {
	file, err := bundle.Open(path.Join("bundle", name))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("open embedded ffmpeg bundle: %w", err)
	}
	return file, true, nil
}
