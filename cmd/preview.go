package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"revealkit/api"
	"revealkit/browser"

	"github.com/spf13/cobra"
)

const (
	defaultPort        = 7825
	serverReadyTimeout = 5 * time.Second
)

var (
	previewPort    int
	previewNoOpen  bool
	previewNoWatch bool
)

// previewCmd represents the preview command
var previewCmd = &cobra.Command{
	Use:   "preview PATH",
	Short: "Serve a deck locally and open it in the browser",
	Long: `Serve the directory containing the deck at PATH on localhost and open the deck
in the default browser. The page reloads automatically when a deck file changes.`,
	GroupID: "other",
	Args:    validateDeckArg,
	RunE:    runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().IntVar(&previewPort, "port", defaultPort, "Port to serve the deck on")
	previewCmd.Flags().BoolVar(&previewNoOpen, "no-open", false, "Do not open the browser")
	previewCmd.Flags().BoolVar(&previewNoWatch, "no-watch", false, "Disable live reload")
}

// runPreview runs the preview command
func runPreview(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	ctx := cmd.Context()

	server, err := api.NewServer(api.ServerConfig{
		DeckPath: args[0],
		Port:     previewPort,
		Watch:    !previewNoWatch,
	})
	if err != nil {
		return err
	}
	defer server.Close()

	errCh := make(chan error, 1)
	go func() { errCh <- server.Run(ctx) }()

	readyCtx, cancel := context.WithTimeout(ctx, serverReadyTimeout)
	defer cancel()
	baseURL := fmt.Sprintf("http://localhost:%d", previewPort)
	if err := api.WaitForDeck(readyCtx, baseURL, server.DeckPath(), errCh); err != nil {
		return fmt.Errorf("%w\nHint: is another instance of revealkit already running on port %d?", err, previewPort)
	}

	slog.Info("Serving deck", "url", server.URL(), "liveReload", !previewNoWatch)
	if !previewNoOpen {
		browser.Open(server.URL())
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Previewing %s at %s\n", args[0], server.URL())
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop the server")

	select {
	case <-ctx.Done():
		return <-errCh
	case err := <-errCh:
		return err
	}
}
