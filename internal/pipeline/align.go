package pipeline

import (
	"context"
	"fmt"

	"github.com/mgpai22/tala/internal/align"
	"github.com/mgpai22/tala/internal/history"
	"github.com/mgpai22/tala/internal/runlock"
	"github.com/mgpai22/tala/internal/silence"
	"github.com/mgpai22/tala/internal/subtitle"
)

type AlignRequest struct {
	AudioPath    string
	SubtitlePath string
	// defaults to <subtitle>.aligned.<ext>
	OutputPath string
	// defaults to alignment.output_format
	Format     subtitle.Format
	ReportPath string
}

type AlignResult struct {
	RunID      string
	OutputPath string
	Subtitle   *subtitle.Subtitle
	Report     *align.Report
	Analysis   *Analysis
	Warnings   []subtitle.ParseWarning
}

// Align snaps the cues of req.SubtitlePath to the pauses detected in
// req.AudioPath and writes the result. Only one run per audio/subtitle
// pair may be in flight; a second one fails with ErrBusy.
func (s *Service) Align(ctx context.Context, req AlignRequest) (*AlignResult, error) {
	format, err := s.outputFormat(req.Format)
	if err != nil {
		return nil, err
	}
	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = DerivedPath(req.SubtitlePath, "aligned", subtitle.GetExtensionForFormat(format))
	}

	lock, err := runlock.Acquire(s.cfg.LockDir(), req.AudioPath, req.SubtitlePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			s.logger.Warnw("Failed to release run lock", "lock", lock.Path(), "error", err)
		}
	}()

	sub, err := subtitle.ReadFile(req.SubtitlePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse subtitle file: %w", err)
	}
	for _, w := range sub.Warnings {
		s.logger.Warnw("Skipped malformed cue", "input", req.SubtitlePath, "block", w.Block, "reason", w.Reason)
	}
	s.logger.Infow("Parsed subtitle file", "entries", len(sub.Entries), "format", sub.Format)

	analysis, err := s.Analyze(ctx, req.AudioPath)
	if err != nil {
		return nil, err
	}

	out, report := s.alignSubtitle(analysis.Silences, sub)

	if err := s.writeSubtitle(out, format, outputPath); err != nil {
		return nil, err
	}
	if err := writeReport(report, req.ReportPath); err != nil {
		return nil, err
	}

	runID := s.record(ctx, s.historyRun(req.AudioPath, req.SubtitlePath, outputPath, report))
	return &AlignResult{
		RunID:      runID,
		OutputPath: outputPath,
		Subtitle:   out,
		Report:     report,
		Analysis:   analysis,
		Warnings:   sub.Warnings,
	}, nil
}

func (s *Service) alignSubtitle(silences []silence.Interval, sub *subtitle.Subtitle) (*subtitle.Subtitle, *align.Report) {
	adjusted, report := s.engine.Align(silences, sub.Entries)
	if report.Err != nil {
		s.logger.Warnw("Cues left unchanged", "reason", report.Err,
			"silences", report.Silences, "cues", report.Cues)
	} else {
		s.logger.Infow("Alignment complete", "case", report.Case,
			"silences", report.Silences, "cues", report.Cues, "notes", len(report.Notes))
	}

	out := sub.Clone()
	out.Entries = adjusted
	return out, report
}

func (s *Service) historyRun(audioPath, subtitlePath, outputPath string, report *align.Report) history.Run {
	caseName := string(report.Case)
	if report.Err != nil {
		caseName = "none"
	}
	opts := s.detector.Options()
	return history.Run{
		AudioPath:    audioPath,
		SubtitlePath: subtitlePath,
		OutputPath:   outputPath,
		Case:         caseName,
		Silences:     report.Silences,
		Cues:         report.Cues,
		ThresholdDB:  opts.ThresholdDB,
		MinSilence:   opts.MinDuration,
		Strategy:     s.engine.Strategy().Name(),
		Report:       report.String(),
	}
}
