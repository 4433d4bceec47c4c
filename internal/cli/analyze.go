package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [audio_file]",
	Short: "Detect the silent stretches of an audio or video file",
	Long: `Decode the audio track of a file and list every stretch quieter than the
threshold that lasts at least the minimum silence duration.

PCM WAV files are read directly; other formats are decoded with ffmpeg.

Examples:
  tala analyze talk.wav
  tala analyze lecture.mp4 --threshold -35 --min-silence 0.5`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addAnalysisFlags(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	audioPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	analysis, err := svc.Analyze(ctx, audioPath)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	renderSilences(os.Stdout, analysis.Silences)
	fmt.Printf("Silences detected: %d\n", len(analysis.Silences))
	fmt.Printf("  Duration: %.3fs (%.3fs silent)\n", analysis.Duration, analysis.SilentDuration())
	fmt.Printf("  Threshold: %.1f dB, min silence %.2fs\n",
		analysis.Options.ThresholdDB, analysis.Options.MinDuration)
	if len(analysis.Silences) == 0 {
		fmt.Println("  Hint: no pauses found, try a higher --threshold (e.g. -30)")
	}
	return nil
}
