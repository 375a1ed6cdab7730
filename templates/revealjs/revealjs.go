// Package revealjs holds the reveal.js document template and the default
// stylesheet that generated decks are seeded with.
package revealjs

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
)

//go:embed deck.html.tmpl
var deckTemplate string

//go:embed base-styles.css
var assetsFS embed.FS

// BaseStylesName is the file name of the bundled default stylesheet.
const BaseStylesName = "base-styles.css"

// Section is a top-level <section> of the deck. Sections with Children render
// as a vertical stack container.
type Section struct {
	ID       string
	Heading  string
	Divider  bool // title and divider slides share the section-divider styling
	Children []Section
}

// Context provides data to the deck template.
type Context struct {
	Title      string
	StylesFile string
	Sections   []Section
}

var tmpl = template.Must(template.New("deck.html").Parse(deckTemplate))

// RenderDeck renders a complete HTML document.
func RenderDeck(ctx Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return nil, fmt.Errorf("failed to render deck template: %w", err)
	}
	return buf.Bytes(), nil
}

// Assets returns the filesystem holding the bundled stylesheet.
func Assets() fs.FS {
	return assetsFS
}
