// Neckscan analyzes a photo of a neck with Gemini and reports a wrinkle tier,
// an estimated skin age and a two-step care routine.
//
// It runs as a full-screen terminal app, a one-shot command for scripts, or
// a LAN server that browsers drive over WebSocket.
//
// Usage:
//
//	neckscan [command] [flags]
//
// Running without arguments launches the interactive TUI.
// See 'neckscan --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neckcare/neckscan/internal/config"
	"github.com/neckcare/neckscan/internal/logging"
	"github.com/neckcare/neckscan/internal/version"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		// The error box has already been printed
		if !errors.Is(err, errAnalysisFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// Global flags
var (
	configPath string
	envFile    string
	logLevel   string
	logFile    string
)

// appConfig is loaded once in PersistentPreRunE
var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "neckscan",
	Short: "AI neck wrinkle analyzer",
	Long: `Analyze a photo of your neck with Gemini.

Neckscan grades neck wrinkles on a five-level scale, estimates the skin age
and suggests a two-step care routine.

If no command is specified, the interactive TUI launches automatically.
The Gemini API key is read from GEMINI_API_KEY (or API_KEY), optionally
loaded from a .env file.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentPreRunE = setup

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.config/neckscan/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load the API key from")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent if unset")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to a file instead of stderr")

	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and initializes logging for every command
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		appConfig, err = config.LoadFile(configPath)
	} else {
		appConfig, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts := logging.Options{Level: logLevel, File: logFile}
	if opts.Level == "" {
		opts.Level = appConfig.Logging.Level
	}
	if opts.File == "" {
		opts.File = appConfig.Logging.File
	}
	// The TUI owns the terminal, so it only logs to a file
	if !cmd.HasParent() && opts.File == "" && os.Getenv(logging.LogFileEnvVar) == "" {
		logging.SetLogger(zap.NewNop())
		return nil
	}
	return logging.Initialize(opts)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("neckscan %s (commit: %s)\n", version.Version, version.Commit)
	},
}
