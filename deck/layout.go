// Package deck generates reveal.js deck scaffolds from a compact structure
// description and reads the structure of existing decks back.
package deck

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DividerMarker is the structure list entry that produces a section divider slide.
const DividerMarker = "d"

// DefaultSlideCount is the number of flat slides generated when neither a slide
// count nor a structure is supplied.
const DefaultSlideCount = 5

// ValidationError reports a rejected command-line or config value.
type ValidationError struct {
	Field   string // e.g., "structure"
	Message string // e.g., `value "0" must be a positive integer or "d"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Token is one entry of a deck structure: either a divider or a run of Count
// slides (Count == 1 is a single slide, Count > 1 a vertical stack).
type Token struct {
	Divider bool
	Count   int
}

// Divider returns a divider token.
func Divider() Token { return Token{Divider: true} }

// Stack returns a token of n slides.
func Stack(n int) Token { return Token{Count: n} }

// String renders the token the way it is written in a structure list.
func (t Token) String() string {
	if t.Divider {
		return DividerMarker
	}
	return strconv.Itoa(t.Count)
}

// Slides returns how many slides the token produces.
func (t Token) Slides() int {
	if t.Divider {
		return 1
	}
	return t.Count
}

// FormatStructure joins tokens into the comma-separated form accepted by ParseStructure.
func FormatStructure(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}

// TotalSlides counts the slides a structure produces. Dividers count as one.
func TotalSlides(tokens []Token) int {
	total := 0
	for _, t := range tokens {
		total += t.Slides()
	}
	return total
}

// ParseStructure parses a comma-separated structure list such as "1,1,d,3,1".
func ParseStructure(s string) ([]Token, error) {
	if strings.TrimSpace(s) == "" {
		return nil, &ValidationError{Field: "structure", Message: "must not be empty"}
	}

	parts := strings.Split(s, ",")
	tokens := make([]Token, 0, len(parts))
	for i, part := range parts {
		tok, err := ParseToken(strings.TrimSpace(part))
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				ve.Message = fmt.Sprintf("entry %d: %s", i+1, ve.Message)
			}
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// ParseToken parses a single structure entry.
func ParseToken(s string) (Token, error) {
	if s == DividerMarker {
		return Divider(), nil
	}
	if s == "" {
		return Token{}, &ValidationError{Field: "structure", Message: "empty entry"}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return Token{}, &ValidationError{
			Field:   "structure",
			Message: fmt.Sprintf("value %q must be a positive integer or %q", s, DividerMarker),
		}
	}
	return Stack(n), nil
}

// ValidateTokens checks tokens built outside ParseStructure (e.g. from a config file).
func ValidateTokens(tokens []Token) error {
	if len(tokens) == 0 {
		return &ValidationError{Field: "structure", Message: "must not be empty"}
	}
	for i, t := range tokens {
		if !t.Divider && t.Count < 1 {
			return &ValidationError{
				Field:   "structure",
				Message: fmt.Sprintf("entry %d: value %d must be a positive integer or %q", i+1, t.Count, DividerMarker),
			}
		}
	}
	return nil
}

// Layout is how the caller described the deck: a flat slide count or an
// explicit structure. The two variants are FlatCount and ExplicitStructure.
type Layout interface {
	Tokens() []Token
	layout()
}

// FlatCount is a deck of N single horizontal slides.
type FlatCount int

// Tokens implements Layout.
func (n FlatCount) Tokens() []Token {
	tokens := make([]Token, int(n))
	for i := range tokens {
		tokens[i] = Stack(1)
	}
	return tokens
}

func (FlatCount) layout() {}

// ExplicitStructure is a deck described token by token.
type ExplicitStructure []Token

// Tokens implements Layout.
func (s ExplicitStructure) Tokens() []Token { return []Token(s) }

func (ExplicitStructure) layout() {}

// ResolveLayout picks the layout from the optional slide count and structure
// inputs. Supplying both is an error; supplying neither yields FlatCount(5).
func ResolveLayout(slides *int, structure *string) (Layout, error) {
	switch {
	case slides != nil && structure != nil:
		return nil, &ValidationError{Message: "cannot use both --slides and --structure, choose one"}
	case slides != nil:
		if *slides < 1 {
			return nil, &ValidationError{Field: "slides", Message: "slide count must be at least 1"}
		}
		return FlatCount(*slides), nil
	case structure != nil:
		tokens, err := ParseStructure(*structure)
		if err != nil {
			return nil, err
		}
		return ExplicitStructure(tokens), nil
	default:
		return FlatCount(DefaultSlideCount), nil
	}
}
