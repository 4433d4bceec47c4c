package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mgpai22/tala/internal/pipeline"
	"github.com/mgpai22/tala/internal/subtitle"
)

var alignCmd = &cobra.Command{
	Use:   "align [audio_file] [subtitle_file]",
	Short: "Move subtitle cue boundaries onto the pauses in speech",
	Long: `Detect the silences in an audio track and re-time the cues of a subtitle
file so that each cue starts and ends in a pause.

The mapping depends on how many silences were found compared to cues:
one more silence than cues maps each cue between neighbouring silences,
equal counts anchor one end of the track, one fewer leaves both ends
untouched, and anything else spreads cues proportionally.

Examples:
  tala align talk.wav talk.srt
  tala align lecture.mp4 lecture.srt --format vtt -o lecture.vtt
  tala align talk.wav talk.srt --strategy margin --report talk.report.txt`,
	Args: cobra.ExactArgs(2),
	RunE: runAlign,
}

func init() {
	rootCmd.AddCommand(alignCmd)
	addAnalysisFlags(alignCmd)

	alignCmd.Flags().
		StringP("format", "f", "", "Output subtitle format (srt, vtt, ass; default from config)")
	alignCmd.Flags().
		String("report", "", "Write the alignment report to this file")
	alignCmd.Flags().
		Bool("show-report", false, "Print every cue decision")
}

func runAlign(cmd *cobra.Command, args []string) error {
	audioPath, subtitlePath := args[0], args[1]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	formatStr, _ := cmd.Flags().GetString("format")
	reportPath, _ := cmd.Flags().GetString("report")
	showReport, _ := cmd.Flags().GetBool("show-report")
	outputPath, _ := cmd.Flags().GetString("output")

	var format subtitle.Format
	if formatStr != "" {
		f, err := subtitle.ParseFormat(formatStr)
		if err != nil {
			return err
		}
		format = f
	}

	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	res, err := svc.Align(ctx, pipeline.AlignRequest{
		AudioPath:    audioPath,
		SubtitlePath: subtitlePath,
		OutputPath:   outputPath,
		Format:       format,
		ReportPath:   reportPath,
	})
	if errors.Is(err, pipeline.ErrBusy) {
		return fmt.Errorf("%s and %s are already being aligned: %w", audioPath, subtitlePath, err)
	}
	if err != nil {
		return err
	}

	if showReport || verbose {
		renderReport(os.Stdout, res.Report)
	}

	absOutput, _ := filepath.Abs(res.OutputPath)
	fmt.Printf("Subtitles aligned successfully: %s\n", absOutput)
	fmt.Printf("  %s\n", res.Report.Summary())
	if len(res.Warnings) > 0 {
		fmt.Printf("  Skipped malformed blocks: %d\n", len(res.Warnings))
	}
	if res.RunID != "" {
		fmt.Printf("  Run: %s\n", res.RunID)
	}
	return nil
}
