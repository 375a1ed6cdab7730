package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"revealkit/audit"
	"revealkit/config"

	"github.com/spf13/cobra"
)

// checkFlagValues holds the raw values bound to the check and watch flags.
type checkFlagValues struct {
	timeout        time.Duration
	width          int
	height         int
	format         string
	failOnOverflow bool
}

var checkFlags checkFlagValues

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check PATH",
	Short: "Check a deck for slides whose content overflows",
	Long: `Render the deck at PATH in headless Chrome, wait for reveal.js to become
ready, and report every slide whose content is taller or wider than the slide.

Vertical stack containers are skipped; the slides inside them are checked.`,
	Example: `  revealkit check presentation.html
  revealkit check --format json --fail-on-overflow decks/q4.html`,
	GroupID: "main",
	Args:    validateDeckArg,
	RunE:    runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addCheckFlags(checkCmd)
}

// addCheckFlags registers the flags shared by check and watch.
func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&checkFlags.timeout, "timeout", audit.DefaultReadyTimeout, "How long to wait for reveal.js to become ready")
	cmd.Flags().IntVar(&checkFlags.width, "width", audit.DefaultViewportWidth, "Browser viewport width")
	cmd.Flags().IntVar(&checkFlags.height, "height", audit.DefaultViewportHeight, "Browser viewport height")
	cmd.Flags().StringVar(&checkFlags.format, "format", audit.FormatText, "Output format (text, json or yaml)")
	cmd.Flags().BoolVar(&checkFlags.failOnOverflow, "fail-on-overflow", false, "Exit with status 1 when any slide overflows")
}

// checkOptions is the fully resolved input of one check run.
type checkOptions struct {
	timeout        time.Duration
	width          int
	height         int
	format         string
	failOnOverflow bool
}

// runCheck runs the check command
func runCheck(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	opts, err := loadCheckOptions(cmd)
	if err != nil {
		return err
	}

	auditor := newAuditor(opts)
	return checkDeck(cmd.Context(), cmd.OutOrStdout(), auditor, args[0], opts)
}

func loadCheckOptions(cmd *cobra.Command) (checkOptions, error) {
	cfg, err := loadConfig()
	if err != nil {
		return checkOptions{}, err
	}
	return resolveCheckOptions(cmd.Flags().Changed, checkFlags, cfg.Check)
}

// resolveCheckOptions merges explicitly set flags, config file values and flag
// defaults, in that order of precedence.
func resolveCheckOptions(changed func(string) bool, flags checkFlagValues, block *config.CheckBlock) (checkOptions, error) {
	opts := checkOptions(flags)

	if block != nil {
		if !changed("timeout") {
			timeout, err := block.ReadyTimeout()
			if err != nil {
				return checkOptions{}, err
			}
			if timeout > 0 {
				opts.timeout = timeout
			}
		}
		if !changed("width") && block.Width != nil {
			opts.width = *block.Width
		}
		if !changed("height") && block.Height != nil {
			opts.height = *block.Height
		}
		if !changed("fail-on-overflow") && block.FailOnOverflow != nil {
			opts.failOnOverflow = *block.FailOnOverflow
		}
	}

	switch opts.format {
	case audit.FormatText, audit.FormatJSON, audit.FormatYAML:
	default:
		return checkOptions{}, fmt.Errorf("unknown output format %q (available: text, json, yaml)", opts.format)
	}
	if opts.timeout <= 0 {
		return checkOptions{}, fmt.Errorf("--timeout must be positive")
	}
	if opts.width <= 0 || opts.height <= 0 {
		return checkOptions{}, fmt.Errorf("viewport must be positive, got %dx%d", opts.width, opts.height)
	}

	return opts, nil
}

// newAuditor is swapped out in tests so no browser is started.
var newAuditor = func(opts checkOptions) *audit.Auditor {
	return audit.New(
		audit.NewChromeRenderer(opts.width, opts.height),
		audit.Options{ReadyTimeout: opts.timeout},
	)
}

// overflowError is returned by checkDeck under --fail-on-overflow.
type overflowError struct {
	count int
}

func (e *overflowError) Error() string {
	return fmt.Sprintf("%d slide(s) overflow", e.count)
}

// checkDeck runs one audit pass over path and writes the report to out.
func checkDeck(ctx context.Context, out io.Writer, auditor *audit.Auditor, path string, opts checkOptions) error {
	if opts.format == audit.FormatText {
		audit.WriteHeader(out, path)
	}

	report, err := auditor.Check(ctx, path)
	if err != nil {
		return err
	}

	if err := audit.WriteReport(out, report, opts.format); err != nil {
		return err
	}

	if opts.failOnOverflow && report.HasOverflow() {
		return &overflowError{count: len(report.Overflowing())}
	}
	return nil
}
