package deck

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"revealkit/templates/revealjs"
)

const (
	DefaultOutput = "presentation.html"
	DefaultTitle  = "Presentation"
	DefaultStyles = "styles.css"
)

// Options configures a generated deck.
type Options struct {
	Layout     Layout
	Output     string
	Title      string
	StylesFile string
}

func (o Options) withDefaults() Options {
	if o.Layout == nil {
		o.Layout = FlatCount(DefaultSlideCount)
	}
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.StylesFile == "" {
		o.StylesFile = DefaultStyles
	}
	return o
}

// Assemble renders the blocks into a complete reveal.js HTML document.
func Assemble(title, stylesFile string, blocks []Block) ([]byte, error) {
	sections := make([]revealjs.Section, 0, len(blocks))
	for _, b := range blocks {
		if b.Stack {
			children := make([]revealjs.Section, 0, len(b.Slides))
			for _, s := range b.Slides {
				children = append(children, revealjs.Section{ID: s.ID(), Heading: s.Heading(title)})
			}
			sections = append(sections, revealjs.Section{Children: children})
			continue
		}
		s := b.Slides[0]
		sections = append(sections, revealjs.Section{
			ID:      s.ID(),
			Heading: s.Heading(title),
			Divider: s.Role == RoleTitle || s.Role == RoleDivider,
		})
	}

	return revealjs.RenderDeck(revealjs.Context{
		Title:      title,
		StylesFile: stylesFile,
		Sections:   sections,
	})
}

// StylesAction records what happened to the sibling stylesheet.
type StylesAction string

const (
	StylesSeeded  StylesAction = "seeded"
	StylesSkipped StylesAction = "skipped" // already present
	StylesMissing StylesAction = "missing" // no default to seed from
)

// Result describes the files touched by Writer.Write.
type Result struct {
	Output       string
	StylesPath   string
	StylesAction StylesAction
	Tokens       []Token
}

// Writer writes decks to disk. BaseStyles and BaseStylesName locate the file a
// missing stylesheet is seeded from.
type Writer struct {
	BaseStyles     fs.FS
	BaseStylesName string
}

// NewWriter returns a Writer seeding stylesheets from the bundled default.
func NewWriter() *Writer {
	return &Writer{
		BaseStyles:     revealjs.Assets(),
		BaseStylesName: revealjs.BaseStylesName,
	}
}

// Write generates the deck described by opts, creating intermediate
// directories, and seeds the stylesheet next to it if it does not exist yet.
func (w *Writer) Write(opts Options) (*Result, error) {
	opts = opts.withDefaults()
	tokens := opts.Layout.Tokens()

	html, err := Assemble(opts.Title, opts.StylesFile, Expand(tokens))
	if err != nil {
		return nil, err
	}

	outputDir := filepath.Dir(opts.Output)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}
	if err := os.WriteFile(opts.Output, html, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", opts.Output, err)
	}
	slog.Debug("Wrote deck", "path", opts.Output, "structure", FormatStructure(tokens))

	result := &Result{
		Output:     opts.Output,
		StylesPath: filepath.Join(outputDir, opts.StylesFile),
		Tokens:     tokens,
	}

	action, err := w.seedStyles(result.StylesPath)
	if err != nil {
		return nil, err
	}
	result.StylesAction = action

	return result, nil
}

func (w *Writer) seedStyles(stylesPath string) (StylesAction, error) {
	if _, err := os.Stat(stylesPath); err == nil {
		return StylesSkipped, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to check %s: %w", stylesPath, err)
	}

	if w.BaseStyles == nil {
		slog.Warn("No default stylesheet configured", "stylesPath", stylesPath)
		return StylesMissing, nil
	}

	content, err := fs.ReadFile(w.BaseStyles, w.BaseStylesName)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Could not find default stylesheet, copy the base styles manually",
			"source", w.BaseStylesName, "stylesPath", stylesPath)
		return StylesMissing, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read default stylesheet %s: %w", w.BaseStylesName, err)
	}

	if err := os.MkdirAll(filepath.Dir(stylesPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", stylesPath, err)
	}
	if err := os.WriteFile(stylesPath, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", stylesPath, err)
	}
	return StylesSeeded, nil
}
