package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mgpai22/tala/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the tala configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a commented sample configuration",
	Long: `Write a sample configuration file with every option and its default.
Without a path the file goes to ~/.config/tala/config.toml.`,
	Args: cobra.MaximumNArgs(1),
	// runs before a config exists, so skip loading one
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.CreateSample(path); err != nil {
		return err
	}
	fmt.Printf("Sample configuration written: %s\n", path)
	return nil
}
