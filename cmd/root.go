package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/josephlewis42/lsh/core/config"
	"github.com/josephlewis42/lsh/core/logger"
	"github.com/josephlewis42/lsh/core/shell"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	cfgPath     string
	commandLine string

	// exitStatus is set by the shell when it terminates.
	exitStatus int
)

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lsh"
	}
	return filepath.Join(home, ".lsh")
}

func loadConfig() (*config.Configuration, error) {
	if err := os.MkdirAll(cfgPath, 0700); err != nil {
		return nil, err
	}
	return config.Load(cfgPath)
}

// runShell starts a shell on the process's standard streams. Diagnostics and
// events are written to the logs named in cfg.
func runShell(cmd *cobra.Command, cfg *config.Configuration) error {
	diagnostics := log.New(io.Discard, "[lsh] ", log.LstdFlags)
	if appLog, err := cfg.OpenAppLog(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "lsh: diagnostics disabled: %v\n", err)
	} else {
		defer appLog.Close()
		diagnostics.SetOutput(appLog)
	}

	events := logger.NewDiscardLogger()
	if eventLog, err := cfg.OpenEventLog(); err != nil {
		diagnostics.Printf("event log disabled: %v", err)
	} else {
		defer eventLog.Close()
		events = logger.NewJsonLinesLogRecorder(eventLog)
	}

	sh, err := shell.New(cfg, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}
	defer func() {
		if err := sh.Close(); err != nil {
			diagnostics.Printf("closing shell: %v", err)
		}
	}()
	sh.SetLogger(diagnostics)
	sh.Events = events.NewSession()

	switch {
	case cmd.Flags().Changed("command"):
		sh.Execute(commandLine)
	case isatty.IsTerminal(os.Stdin.Fd()):
		exitStatus = sh.Run()
	default:
		exitStatus = sh.RunScript(os.Stdin)
	}

	return nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lsh",
	Short: "A small interactive shell",
	Long: `A small interactive shell with pipelines, redirection, aliases
and background jobs.

Lines are read from the terminal, or from standard input if it isn't one.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		return runShell(cmd, cfg)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// It returns the status the process should exit with.
func Execute() int {
	cobra.CheckErr(rootCmd.Execute())
	return exitStatus
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "config directory")
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "execute a single line and exit")
}
