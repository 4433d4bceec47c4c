package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mgpai22/tala/internal/align"
	"github.com/mgpai22/tala/internal/config"
	"github.com/mgpai22/tala/internal/logging"
	"github.com/mgpai22/tala/internal/pipeline"
)

var (
	verbose    bool
	configPath string
	cfg        *config.Config
	logger     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tala",
	Short: "Align subtitle timing to the pauses in speech audio",
	Long: `Tala detects the silent stretches of a speech recording and moves
subtitle cue boundaries onto them.

It can also synthesize speech for a script and time cues against the
generated track, and translate subtitle text with an LLM.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load() // best-effort: load .env if present

		loaded, _, _, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if verbose {
			cfg.Logging.Level = "debug"
		}

		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return err
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "", "Config file (default ~/.config/tala/config.toml or ./tala.toml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
}

// analysis flags shared by analyze, align and synth
func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("threshold", 0, "Silence threshold in dBFS (default from config, -40)")
	cmd.Flags().Float64("min-silence", 0, "Minimum silence duration in seconds (default from config, 0.3)")
	cmd.Flags().String("strategy", "", "SingleEnd side strategy (threshold, margin)")
}

// applies explicitly set analysis flags over the loaded config
func applyAnalysisFlags(cmd *cobra.Command, c *config.Config) {
	if cmd.Flags().Changed("threshold") {
		c.Analysis.ThresholdDB, _ = cmd.Flags().GetFloat64("threshold")
	}
	if cmd.Flags().Changed("min-silence") {
		c.Analysis.MinSilenceDuration, _ = cmd.Flags().GetFloat64("min-silence")
	}
	if cmd.Flags().Changed("strategy") {
		c.Alignment.SideStrategy, _ = cmd.Flags().GetString("strategy")
		if c.Alignment.SideStrategy == "" {
			c.Alignment.SideStrategy = align.StrategyThreshold
		}
	}
}

func newService(cmd *cobra.Command) (*pipeline.Service, error) {
	if cmd.Flags().Lookup("threshold") != nil {
		applyAnalysisFlags(cmd, cfg)
	}
	svc, err := pipeline.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return svc, nil
}
