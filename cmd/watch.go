package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"revealkit/api"
	"revealkit/audit"

	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch PATH",
	Short: "Check a deck for overflow and re-check whenever it changes (for deck authors)",
	Long: `Run the overflow check on the deck at PATH, then run it again every time an
.html, .css or .js file in the deck's directory changes. Stop with Ctrl+C.`,
	GroupID: "other",
	Args:    validateDeckArg,
	RunE:    runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addCheckFlags(watchCmd)
}

// runWatch runs the watch command
func runWatch(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	path := args[0]

	opts, err := loadCheckOptions(cmd)
	if err != nil {
		return err
	}

	watcher, err := api.NewFileWatcher(filepath.Dir(path))
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	defer watcher.Close()

	changes := make(chan string, 10)
	watcher.Subscribe(changes)
	defer watcher.Unsubscribe(changes)

	slog.Info("Watching deck for changes", "path", path)
	return watchDeck(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), newAuditor(opts), path, opts, changes)
}

// watchDeck checks the deck once and again after every change notification,
// until ctx is cancelled. Failed passes are reported and watching continues.
func watchDeck(ctx context.Context, out, errOut io.Writer, auditor *audit.Auditor, path string, opts checkOptions, changes <-chan string) error {
	// --fail-on-overflow only decides the exit status of a single check
	opts.failOnOverflow = false

	runPass := func() {
		if err := checkDeck(ctx, out, auditor, path, opts); err != nil {
			if ctx.Err() != nil {
				return
			}
			fmt.Fprintf(errOut, "Error: %v\n", err)
		}
		fmt.Fprintln(out, "\nWaiting for changes... (Ctrl+C to stop)")
	}

	runPass()
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case changed, ok := <-changes:
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "\nChange detected in %s, re-checking\n\n", filepath.Base(changed))
			runPass()
		}
	}
}
