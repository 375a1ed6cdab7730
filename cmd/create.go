package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"revealkit/config"
	"revealkit/deck"

	"github.com/spf13/cobra"
)

// createFlagValues holds the raw values bound to the create command's flags.
type createFlagValues struct {
	slides     int
	structure  string
	output     string
	title      string
	styles     string
	baseStyles string
}

var createFlags createFlagValues

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate a reveal.js presentation scaffold",
	Long: `Generate a reveal.js presentation scaffold.

The deck layout is given either as a number of horizontal slides (--slides) or
as a comma-separated structure (--structure):
  - 1   a single horizontal slide
  - N>1 a vertical stack of N slides
  - d   a section divider slide
The first single slide becomes the title slide. Without either flag, 5
horizontal slides are generated.

A stylesheet is created next to the deck from the bundled base styles unless
one already exists.`,
	Example: `  revealkit create --slides 10 -o my-deck.html
  revealkit create --structure 1,1,d,3,1,d,1 -o my-deck.html
  revealkit create --structure 1,1,1,d,3,d,1,1 --title "Q4 Review"`,
	GroupID: "main",
	Args:    cobra.NoArgs,
	RunE:    runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().IntVarP(&createFlags.slides, "slides", "s", 0, "Number of horizontal slides (simple mode)")
	createCmd.Flags().StringVar(&createFlags.structure, "structure", "", `Mixed layout, e.g. "1,1,d,3,1,d,1" (cannot be used with --slides)`)
	createCmd.Flags().StringVarP(&createFlags.output, "output", "o", deck.DefaultOutput, "Output HTML file")
	createCmd.Flags().StringVar(&createFlags.title, "title", deck.DefaultTitle, "Presentation title")
	createCmd.Flags().StringVar(&createFlags.styles, "styles", deck.DefaultStyles, "Custom CSS filename, created next to the output")
	createCmd.Flags().StringVar(&createFlags.baseStyles, "base-styles", "", "File to seed a missing stylesheet from (default: bundled base styles)")
}

// createOptions is the fully resolved input of one create run.
type createOptions struct {
	slides     *int
	structure  *string
	output     string
	title      string
	styles     string
	baseStyles string
}

// runCreate runs the create command
func runCreate(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts, err := resolveCreateOptions(cmd.Flags().Changed, createFlags, cfg.Create)
	if err != nil {
		return err
	}

	return createDeck(cmd.OutOrStdout(), opts)
}

// resolveCreateOptions merges explicitly set flags, config file values and flag
// defaults, in that order of precedence. changed reports whether a flag was set.
func resolveCreateOptions(changed func(string) bool, flags createFlagValues, block *config.CreateBlock) (createOptions, error) {
	opts := createOptions{
		output:     flags.output,
		title:      flags.title,
		styles:     flags.styles,
		baseStyles: flags.baseStyles,
	}

	if changed("slides") {
		n := flags.slides
		opts.slides = &n
	}
	if changed("structure") {
		s := flags.structure
		opts.structure = &s
	}

	if block == nil {
		return opts, nil
	}

	// The layout comes from the config only when no layout flag was given.
	if opts.slides == nil && opts.structure == nil {
		opts.slides = block.Slides
		structure, err := block.StructureString()
		if err != nil {
			return createOptions{}, err
		}
		opts.structure = structure
	}

	if !changed("output") && block.Output != nil {
		opts.output = *block.Output
	}
	if !changed("title") && block.Title != nil {
		opts.title = *block.Title
	}
	if !changed("styles") && block.Styles != nil {
		opts.styles = *block.Styles
	}
	if !changed("base-styles") && block.BaseStyles != nil {
		opts.baseStyles = *block.BaseStyles
	}

	return opts, nil
}

// createDeck validates the layout, writes the deck and prints a summary.
// Nothing is written when validation fails.
func createDeck(out io.Writer, opts createOptions) error {
	layout, err := deck.ResolveLayout(opts.slides, opts.structure)
	if err != nil {
		return err
	}

	writer := deck.NewWriter()
	if opts.baseStyles != "" {
		writer = &deck.Writer{
			BaseStyles:     os.DirFS(filepath.Dir(opts.baseStyles)),
			BaseStylesName: filepath.Base(opts.baseStyles),
		}
	}

	result, err := writer.Write(deck.Options{
		Layout:     layout,
		Output:     opts.output,
		Title:      opts.title,
		StylesFile: opts.styles,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Created %s\n", result.Output)
	switch result.StylesAction {
	case deck.StylesSeeded:
		fmt.Fprintf(out, "Copied %s to %s\n", writer.BaseStylesName, result.StylesPath)
	case deck.StylesSkipped:
		fmt.Fprintf(out, "%s already exists, skipping\n", result.StylesPath)
	case deck.StylesMissing:
		fmt.Fprintf(out, "Please manually copy the base styles to %s\n", result.StylesPath)
	}

	fmt.Fprintf(out, "\nPresentation created with %d slides (structure: %s).\n",
		deck.TotalSlides(result.Tokens), deck.FormatStructure(result.Tokens))
	fmt.Fprintf(out, "Customize colors in %s, then open %s in a browser to view.\n", result.StylesPath, result.Output)

	return nil
}
