// Package config loads optional project defaults from a revealkit.hcl file.
//
// Example:
//
//	create {
//	  title     = "Q4 Review"
//	  output    = "decks/q4.html"
//	  structure = [1, "d", 3, 1]
//	}
//
//	check {
//	  timeout = "45s"
//	}
//
// Values set explicitly on the command line take precedence over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"revealkit/deck"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// DefaultFileName is looked up in the working directory when no --config is given.
const DefaultFileName = "revealkit.hcl"

// File is the decoded config file. Blocks that are absent stay nil.
type File struct {
	Create *CreateBlock `hcl:"create,block"`
	Check  *CheckBlock  `hcl:"check,block"`
}

// CreateBlock holds defaults for `revealkit create`.
type CreateBlock struct {
	Title      *string `hcl:"title,optional"`
	Output     *string `hcl:"output,optional"`
	Styles     *string `hcl:"styles,optional"`
	BaseStyles *string `hcl:"base_styles,optional"`
	Slides     *int    `hcl:"slides,optional"`

	// Structure is either a string ("1,d,3") or a tuple ([1, "d", 3]).
	Structure cty.Value `hcl:"structure,optional"`
}

// CheckBlock holds defaults for `revealkit check` and `revealkit watch`.
type CheckBlock struct {
	Timeout        *string `hcl:"timeout,optional"`
	Width          *int    `hcl:"width,optional"`
	Height         *int    `hcl:"height,optional"`
	FailOnOverflow *bool   `hcl:"fail_on_overflow,optional"`
}

// Load reads the config file at path. An empty path means DefaultFileName,
// which may be absent; an explicit path must exist.
func Load(path string) (*File, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return &File{}, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	var file File
	diags = gohcl.DecodeBody(hclFile.Body, nil, &file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}

	if err := file.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &file, nil
}

func (f *File) validate() error {
	if f.Create != nil {
		if _, err := f.Create.StructureString(); err != nil {
			return err
		}
	}
	if f.Check != nil {
		if _, err := f.Check.ReadyTimeout(); err != nil {
			return err
		}
	}
	return nil
}

// StructureString returns the structure in its comma-separated form, or nil
// when the block does not set one.
func (c *CreateBlock) StructureString() (*string, error) {
	if c.Structure == cty.NilVal || c.Structure.IsNull() {
		return nil, nil
	}

	tokens, err := tokensFromCty(c.Structure)
	if err != nil {
		return nil, err
	}
	if err := deck.ValidateTokens(tokens); err != nil {
		return nil, err
	}

	s := deck.FormatStructure(tokens)
	return &s, nil
}

func tokensFromCty(v cty.Value) ([]deck.Token, error) {
	ty := v.Type()

	switch {
	case ty == cty.String:
		return deck.ParseStructure(v.AsString())

	case ty.IsTupleType() || ty.IsListType():
		tokens := make([]deck.Token, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			tok, err := tokenFromCty(elem)
			if err != nil {
				return nil, &deck.ValidationError{
					Field:   "structure",
					Message: fmt.Sprintf("entry %d: %s", len(tokens)+1, err),
				}
			}
			tokens = append(tokens, tok)
		}
		return tokens, nil

	default:
		return nil, &deck.ValidationError{
			Field:   "structure",
			Message: fmt.Sprintf("expected a string or a list, got %s", ty.FriendlyName()),
		}
	}
}

func tokenFromCty(v cty.Value) (deck.Token, error) {
	if v.IsNull() || !v.IsKnown() {
		return deck.Token{}, fmt.Errorf("null value")
	}

	switch v.Type() {
	case cty.String:
		tok, err := deck.ParseToken(v.AsString())
		if err != nil {
			var ve *deck.ValidationError
			if errors.As(err, &ve) {
				return deck.Token{}, errors.New(ve.Message)
			}
			return deck.Token{}, err
		}
		return tok, nil

	case cty.Number:
		var n int
		if err := gocty.FromCtyValue(v, &n); err != nil {
			return deck.Token{}, fmt.Errorf("value must be a whole number")
		}
		if n < 1 {
			return deck.Token{}, fmt.Errorf("value %d must be a positive integer or %q", n, deck.DividerMarker)
		}
		return deck.Stack(n), nil

	default:
		return deck.Token{}, fmt.Errorf("unsupported type %s", v.Type().FriendlyName())
	}
}

// ReadyTimeout parses the timeout attribute. Zero means unset.
func (c *CheckBlock) ReadyTimeout() (time.Duration, error) {
	if c.Timeout == nil {
		return 0, nil
	}
	d, err := time.ParseDuration(*c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid check timeout %q: %w", *c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid check timeout %q: must be positive", *c.Timeout)
	}
	return d, nil
}
