package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"revealkit/config"
	"revealkit/deck"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// changedSet returns a flag-changed predicate for the given flag names.
func changedSet(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func defaultCreateFlags() createFlagValues {
	return createFlagValues{
		output: deck.DefaultOutput,
		title:  deck.DefaultTitle,
		styles: deck.DefaultStyles,
	}
}

func ptr[T any](v T) *T { return &v }

func TestCreateDeck_Structure(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "deck.html")

	var out bytes.Buffer
	err := createDeck(&out, createOptions{
		structure: ptr("1,d,3,1"),
		output:    output,
		title:     "Quarterly Review",
		styles:    "styles.css",
	})
	require.NoError(t, err)

	assert.FileExists(t, output)
	assert.FileExists(t, filepath.Join(dir, "styles.css"))

	text := out.String()
	assert.Contains(t, text, "Created "+output)
	assert.Contains(t, text, "Copied base-styles.css to "+filepath.Join(dir, "styles.css"))
	assert.Contains(t, text, "Presentation created with 6 slides (structure: 1,d,3,1).")
}

func TestCreateDeck_DefaultLayout(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	err := createDeck(&out, createOptions{
		output: filepath.Join(dir, "deck.html"),
		title:  deck.DefaultTitle,
		styles: deck.DefaultStyles,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Presentation created with 5 slides (structure: 1,1,1,1,1).")
}

func TestCreateDeck_ExistingStylesAreKept(t *testing.T) {
	dir := t.TempDir()
	stylesPath := filepath.Join(dir, "styles.css")
	require.NoError(t, os.WriteFile(stylesPath, []byte("/* mine */"), 0644))

	var out bytes.Buffer
	err := createDeck(&out, createOptions{
		slides: ptr(2),
		output: filepath.Join(dir, "deck.html"),
		title:  "T",
		styles: "styles.css",
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), stylesPath+" already exists, skipping")
	content, err := os.ReadFile(stylesPath)
	require.NoError(t, err)
	assert.Equal(t, "/* mine */", string(content))
}

func TestCreateDeck_CustomBaseStyles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "brand.css")
	require.NoError(t, os.WriteFile(base, []byte("body { color: teal; }"), 0644))

	var out bytes.Buffer
	err := createDeck(&out, createOptions{
		slides:     ptr(1),
		output:     filepath.Join(dir, "out", "deck.html"),
		title:      "T",
		styles:     "styles.css",
		baseStyles: base,
	})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "out", "styles.css"))
	require.NoError(t, err)
	assert.Equal(t, "body { color: teal; }", string(content))
	assert.Contains(t, out.String(), "Copied brand.css to ")
}

func TestCreateDeck_MissingBaseStyles(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	err := createDeck(&out, createOptions{
		slides:     ptr(1),
		output:     filepath.Join(dir, "deck.html"),
		title:      "T",
		styles:     "styles.css",
		baseStyles: filepath.Join(dir, "nope.css"),
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Please manually copy the base styles to "+filepath.Join(dir, "styles.css"))
	assert.NoFileExists(t, filepath.Join(dir, "styles.css"))
}

func TestCreateDeck_InvalidInputWritesNothing(t *testing.T) {
	tests := []struct {
		name    string
		opts    createOptions
		wantErr string
	}{
		{
			name:    "both modes",
			opts:    createOptions{slides: ptr(3), structure: ptr("1,1")},
			wantErr: "cannot use both --slides and --structure",
		},
		{
			name:    "bad structure token",
			opts:    createOptions{structure: ptr("1,x")},
			wantErr: "invalid structure",
		},
		{
			name:    "zero slides",
			opts:    createOptions{slides: ptr(0)},
			wantErr: "at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.opts.output = filepath.Join(dir, "deck.html")
			tt.opts.styles = "styles.css"

			var out bytes.Buffer
			err := createDeck(&out, tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)
			assert.Empty(t, out.String())
		})
	}
}

func TestResolveCreateOptions_FlagsOnly(t *testing.T) {
	flags := defaultCreateFlags()
	flags.slides = 7

	opts, err := resolveCreateOptions(changedSet("slides"), flags, nil)
	require.NoError(t, err)

	require.NotNil(t, opts.slides)
	assert.Equal(t, 7, *opts.slides)
	assert.Nil(t, opts.structure)
	assert.Equal(t, deck.DefaultOutput, opts.output)
}

func TestResolveCreateOptions_UnsetLayoutFlagsStayNil(t *testing.T) {
	opts, err := resolveCreateOptions(changedSet(), defaultCreateFlags(), nil)
	require.NoError(t, err)
	assert.Nil(t, opts.slides)
	assert.Nil(t, opts.structure)
}

func TestResolveCreateOptions_ConfigFillsUnsetFlags(t *testing.T) {
	block := &config.CreateBlock{
		Title:     ptr("From Config"),
		Output:    ptr("decks/q4.html"),
		Styles:    ptr("q4.css"),
		Structure: cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.StringVal("d"), cty.NumberIntVal(3)}),
	}
	flags := defaultCreateFlags()
	flags.title = "From Flag"

	opts, err := resolveCreateOptions(changedSet("title"), flags, block)
	require.NoError(t, err)

	assert.Equal(t, "From Flag", opts.title)
	assert.Equal(t, "decks/q4.html", opts.output)
	assert.Equal(t, "q4.css", opts.styles)
	require.NotNil(t, opts.structure)
	assert.Equal(t, "1,d,3", *opts.structure)
	assert.Nil(t, opts.slides)
}

func TestResolveCreateOptions_LayoutFlagOverridesConfigLayout(t *testing.T) {
	block := &config.CreateBlock{
		Structure: cty.StringVal("1,d,3"),
	}
	flags := defaultCreateFlags()
	flags.slides = 4

	opts, err := resolveCreateOptions(changedSet("slides"), flags, block)
	require.NoError(t, err)

	require.NotNil(t, opts.slides)
	assert.Equal(t, 4, *opts.slides)
	assert.Nil(t, opts.structure, "config structure must not combine with --slides")
}

func TestResolveCreateOptions_InvalidConfigStructure(t *testing.T) {
	block := &config.CreateBlock{Structure: cty.StringVal("1,,3")}

	_, err := resolveCreateOptions(changedSet(), defaultCreateFlags(), block)
	require.Error(t, err)
}
