package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [run_id]",
	Short: "List recent alignment runs",
	Long: `List the alignment runs recorded in the state directory, newest first.
With a run id, print the full report of that run.

Examples:
  tala history
  tala history --limit 50
  tala history 3f2b9c1e-...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Number of runs to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	limit, _ := cmd.Flags().GetInt("limit")

	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		run, err := svc.Run(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Run %s (%s)\n", run.ID, run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("  Audio: %s\n", run.AudioPath)
		fmt.Printf("  Subtitles: %s\n", run.SubtitlePath)
		fmt.Printf("  Output: %s\n", run.OutputPath)
		fmt.Printf("  Threshold: %.1f dB, min silence %.2fs, strategy %s\n",
			run.ThresholdDB, run.MinSilence, run.Strategy)
		fmt.Println(run.Report)
		return nil
	}

	runs, err := svc.History(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet")
		return nil
	}
	renderHistory(os.Stdout, runs)
	return nil
}
