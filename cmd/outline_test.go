package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"revealkit/deck"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generatedOutline(t *testing.T, structure string) []deck.OutlineEntry {
	t.Helper()
	tokens, err := deck.ParseStructure(structure)
	require.NoError(t, err)

	html, err := deck.Assemble("Demo", "styles.css", deck.Expand(tokens))
	require.NoError(t, err)

	entries, err := deck.Outline(bytes.NewReader(html))
	require.NoError(t, err)
	return entries
}

func TestWriteOutline_Text(t *testing.T) {
	entries := generatedOutline(t, "1,d,3,1")

	var out bytes.Buffer
	require.NoError(t, writeOutline(&out, entries, "text"))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "Structure: 1,d,3,1", lines[0])
	assert.Equal(t, "Slides: 6", lines[1])
	assert.Contains(t, lines[3], "slide")
	assert.Contains(t, lines[3], "title")
	assert.Contains(t, lines[4], "divider")
	assert.Contains(t, lines[4], "divider-1")
	assert.Contains(t, lines[5], "stack of 3")
	assert.Contains(t, lines[5], "slide-3-1 slide-3-2 slide-3-3")
}

func TestWriteOutline_JSON(t *testing.T) {
	entries := generatedOutline(t, "1,2")

	var out bytes.Buffer
	require.NoError(t, writeOutline(&out, entries, "json"))

	var doc outlineJSON
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "1,2", doc.Structure)
	assert.Equal(t, 3, doc.TotalSlides)
	require.Len(t, doc.Entries, 2)
	assert.Equal(t, 2, doc.Entries[1].Position)
	assert.Equal(t, "2", doc.Entries[1].Token)
	assert.Equal(t, []string{"slide-2-1", "slide-2-2"}, doc.Entries[1].IDs)
}

func TestWriteOutline_UnknownFormat(t *testing.T) {
	err := writeOutline(&bytes.Buffer{}, nil, "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}
