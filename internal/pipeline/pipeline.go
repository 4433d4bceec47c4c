// Package pipeline wires decoding, silence analysis, alignment and the
// provider integrations together for the CLI commands.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/tala/internal/align"
	"github.com/mgpai22/tala/internal/config"
	"github.com/mgpai22/tala/internal/history"
	"github.com/mgpai22/tala/internal/logging"
	"github.com/mgpai22/tala/internal/runlock"
	"github.com/mgpai22/tala/internal/silence"
	"github.com/mgpai22/tala/internal/subtitle"
)

// rejected when a run for the same inputs is already in flight
var ErrBusy = runlock.ErrBusy

type Service struct {
	cfg      *config.Config
	logger   *logging.Logger
	detector *silence.Detector
	engine   *align.Engine
}

// New validates cfg and builds the detector and alignment engine it
// describes.
func New(cfg *config.Config, logger *logging.Logger) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = logging.Nop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	side, err := cfg.SideStrategy()
	if err != nil {
		return nil, err
	}
	return &Service{
		cfg:      cfg,
		logger:   logger,
		detector: silence.NewDetector(cfg.SilenceOptions(), logger),
		engine:   align.NewEngine(side),
	}, nil
}

func (s *Service) Config() *config.Config {
	return s.cfg
}

// History lists recent runs, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]history.Run, error) {
	store, err := history.Open(ctx, s.cfg.HistoryPath())
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()
	return store.Recent(ctx, limit)
}

// Run returns one recorded run by id.
func (s *Service) Run(ctx context.Context, id string) (*history.Run, error) {
	store, err := history.Open(ctx, s.cfg.HistoryPath())
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()
	return store.Get(ctx, id)
}

// record stores run; a failing history database never fails the run.
func (s *Service) record(ctx context.Context, run history.Run) string {
	store, err := history.Open(ctx, s.cfg.HistoryPath())
	if err != nil {
		s.logger.Warnw("Failed to open history", "path", s.cfg.HistoryPath(), "error", err)
		return ""
	}
	defer func() { _ = store.Close() }()

	saved, err := store.Record(ctx, run)
	if err != nil {
		s.logger.Warnw("Failed to record run", "error", err)
		return ""
	}
	return saved.ID
}

func (s *Service) outputFormat(format subtitle.Format) (subtitle.Format, error) {
	if format != "" {
		return subtitle.ParseFormat(string(format))
	}
	return subtitle.ParseFormat(s.cfg.Alignment.OutputFormat)
}

func (s *Service) writeSubtitle(sub *subtitle.Subtitle, format subtitle.Format, path string) error {
	writer, err := subtitle.NewWriter(format)
	if err != nil {
		return err
	}
	sub.Format = format
	if err := writer.Write(sub, path); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// writes the report trace next to the output when path is set
func writeReport(report *align.Report, path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(report.String()+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// DerivedPath swaps the extension of path for suffix+ext, e.g.
// talk.srt -> talk.aligned.vtt.
func DerivedPath(path, suffix, ext string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if suffix != "" {
		base += "." + suffix
	}
	return base + ext
}
