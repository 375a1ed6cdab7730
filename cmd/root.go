package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"revealkit/config"

	"github.com/spf13/cobra"
)

var (
	// These variables are set via ldflags during build
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"

	// Global flags
	configPath string
	verbose    bool
)

// getVersionString returns the full version information
func getVersionString() string {
	return fmt.Sprintf("%s (Commit: %s)", Version, GitCommit)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "revealkit",
	Short: "Scaffold reveal.js decks and check them for overflowing slides.",
	Long: `revealkit generates reveal.js presentation scaffolds from a compact structure
description and checks rendered decks for slides whose content does not fit.`,
	Version: getVersionString(),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		fmt.Sprintf("Path to a config file (default: ./%s when present)", config.DefaultFileName))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddGroup(
		&cobra.Group{ID: "main", Title: "Commands:"},
		&cobra.Group{ID: "other", Title: "Other commands:"},
	)

	// Hide the completion command from help
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	// Hide the help subcommand from help
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}

// setupLogging installs the default slog logger. Without --verbose only
// warnings and errors are logged; report output goes to stdout separately.
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig reads --config, or revealkit.hcl from the working directory.
func loadConfig() (*config.File, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		slog.Debug("Loaded config file", "path", configPath)
	}
	return cfg, nil
}

// validateDeckArg is a Cobra Args validator that explains a missing deck path.
func validateDeckArg(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing required argument: PATH\n\nProvide the path to a reveal.js HTML file:\n  %s presentation.html\n", cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("expected 1 argument but received %d", len(args))
	}
	return nil
}
