package cmd

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/josephlewis42/lsh/core/config"
	"github.com/spf13/cobra"
)

// playgroundCmd runs the shell with a throwaway configuration for testing
var playgroundCmd = &cobra.Command{
	Use:   "playground",
	Short: "Run the shell with a temporary configuration, history and logs.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		dir, err := os.MkdirTemp("", "playground")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)

		playgroundLogger := log.New(cmd.ErrOrStderr(), "[playground] ", 0)
		cfg, err := config.Initialize(dir, playgroundLogger)
		if err != nil {
			return err
		}

		// Mark the prompt to tell the playground apart from a normal session.
		cfg.Prompt = "(playground) " + cfg.Prompt

		playgroundLogger.Printf("Logging to: file://%s\n", dir)
		playgroundLogger.Printf("See events with: tail -f %s\n", filepath.Join(dir, cfg.EventLog))
		playgroundLogger.Println(strings.Repeat("=", 80))

		return runShell(cmd, cfg)
	},
}

func init() {
	rootCmd.AddCommand(playgroundCmd)
}
