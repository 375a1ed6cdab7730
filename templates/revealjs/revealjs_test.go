package revealjs

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDeck(t *testing.T) {
	out, err := RenderDeck(Context{
		Title:      "Demo",
		StylesFile: "styles.css",
		Sections: []Section{
			{ID: "title", Heading: "Demo", Divider: true},
			{Children: []Section{
				{ID: "slide-2-1", Heading: "Slide 2.1"},
				{ID: "slide-2-2", Heading: "Slide 2.2"},
			}},
			{ID: "slide-3", Heading: "Slide 3"},
		},
	})
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, `<section id="title" class="section-divider" data-state="is-section-divider">`)
	assert.Contains(t, html, `<h1>Demo</h1>`)
	assert.Contains(t, html, `<section id="slide-2-1">`)
	assert.Contains(t, html, `<h2>Slide 2.2</h2>`)
	assert.Contains(t, html, `<section id="slide-3">`)
	assert.Equal(t, 5, strings.Count(html, "<section"))
	assert.Equal(t, 5, strings.Count(html, "</section>"))
}

func TestAssets(t *testing.T) {
	css, err := fs.ReadFile(Assets(), BaseStylesName)
	require.NoError(t, err)
	assert.Contains(t, string(css), ".reveal .slides section.section-divider")
}
