package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mgpai22/tala/internal/config"
	"github.com/mgpai22/tala/internal/pipeline"
	"github.com/mgpai22/tala/internal/subtitle"
)

var synthCmd = &cobra.Command{
	Use:   "synth [script_file]",
	Short: "Synthesize speech for a script and time subtitles to it",
	Long: `Voice a script with a text-to-speech provider, then detect the pauses in
the generated audio and time subtitle cues to them.

The script is either plain text (one cue per line) or an existing SRT/VTT
file whose cue boundaries are kept.

Examples:
  tala synth script.txt
  tala synth episode.srt --provider gemini --voice Puck
  tala synth script.txt --audio-out narration.wav -o narration.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runSynth,
}

func init() {
	rootCmd.AddCommand(synthCmd)
	addAnalysisFlags(synthCmd)

	synthCmd.Flags().
		String("provider", "", "Speech provider (openai, gemini; default from config)")
	synthCmd.Flags().
		StringP("api-key", "k", "", "API key (or set OPENAI_API_KEY/GEMINI_API_KEY env var)")
	synthCmd.Flags().String("model", "", "Speech model (provider-specific)")
	synthCmd.Flags().String("voice", "", "Voice name (provider-specific)")
	synthCmd.Flags().String("audio-out", "", "Where to write the synthesized WAV")
	synthCmd.Flags().
		StringP("format", "f", "", "Output subtitle format (srt, vtt, ass; default from config)")
	synthCmd.Flags().String("report", "", "Write the alignment report to this file")
}

func runSynth(cmd *cobra.Command, args []string) error {
	scriptPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	provider, _ := cmd.Flags().GetString("provider")
	apiKey, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")
	voice, _ := cmd.Flags().GetString("voice")
	audioOut, _ := cmd.Flags().GetString("audio-out")
	formatStr, _ := cmd.Flags().GetString("format")
	reportPath, _ := cmd.Flags().GetString("report")
	outputPath, _ := cmd.Flags().GetString("output")

	if _, err := os.Stat(scriptPath); os.IsNotExist(err) {
		return fmt.Errorf("script file not found: %s", scriptPath)
	}

	var format subtitle.Format
	if formatStr != "" {
		f, err := subtitle.ParseFormat(formatStr)
		if err != nil {
			return err
		}
		format = f
	}

	if provider != "" && provider != cfg.TTS.Provider {
		cfg.TTS.Provider = provider
		cfg.TTS.Model = config.DefaultTTSModel(provider)
		cfg.TTS.Voice = config.DefaultTTSVoice(provider)
	}
	if model != "" {
		cfg.TTS.Model = model
	}
	if voice != "" {
		cfg.TTS.Voice = voice
	}

	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	synth, err := svc.Synthesizer(ctx, "", apiKey)
	if err != nil {
		return fmt.Errorf("failed to create synthesizer: %w", err)
	}

	logger.Infow("Starting speech synthesis",
		"input", scriptPath,
		"provider", cfg.TTS.Provider,
		"model", cfg.TTS.Model,
		"voice", cfg.TTS.Voice,
	)

	res, err := svc.Synth(ctx, synth, pipeline.SynthRequest{
		ScriptPath: scriptPath,
		AudioPath:  audioOut,
		OutputPath: outputPath,
		Format:     format,
		ReportPath: reportPath,
	})
	if err != nil {
		return err
	}

	if verbose {
		renderReport(os.Stdout, res.Report)
	}

	absAudio, _ := filepath.Abs(res.AudioPath)
	absOutput, _ := filepath.Abs(res.OutputPath)
	fmt.Printf("Speech synthesized successfully: %s\n", absAudio)
	fmt.Printf("  Subtitles: %s\n", absOutput)
	fmt.Printf("  Duration: %.2fs\n", res.Duration)
	fmt.Printf("  %s\n", res.Report.Summary())
	return nil
}
