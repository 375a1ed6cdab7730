package deck

import "fmt"

// Role tags what a generated slide is for.
type Role int

const (
	RoleContent Role = iota
	RoleTitle
	RoleDivider
)

func (r Role) String() string {
	switch r {
	case RoleTitle:
		return "title"
	case RoleDivider:
		return "divider"
	default:
		return "content"
	}
}

// Slide describes one generated <section>.
type Slide struct {
	H       int  // 1-based horizontal position
	V       int  // 1-based position inside a vertical stack, 0 outside a stack
	Role    Role
	Divider int // 1-based divider number, set only for RoleDivider
}

// ID is the element id of the slide.
func (s Slide) ID() string {
	switch s.Role {
	case RoleTitle:
		return "title"
	case RoleDivider:
		return fmt.Sprintf("divider-%d", s.Divider)
	}
	if s.V > 0 {
		return fmt.Sprintf("slide-%d-%d", s.H, s.V)
	}
	return fmt.Sprintf("slide-%d", s.H)
}

// Label is the position shown in the placeholder heading: "4" or "3.2".
func (s Slide) Label() string {
	if s.V > 0 {
		return fmt.Sprintf("%d.%d", s.H, s.V)
	}
	return fmt.Sprintf("%d", s.H)
}

// Heading is the placeholder heading text. The title slide shows the deck
// title, falling back to a placeholder when it is empty.
func (s Slide) Heading(deckTitle string) string {
	switch s.Role {
	case RoleTitle:
		if deckTitle != "" {
			return deckTitle
		}
		return "Presentation Title"
	case RoleDivider:
		return fmt.Sprintf("Section %d", s.Divider)
	}
	return "Slide " + s.Label()
}

// Block is one horizontal position of the deck: a single slide, or a vertical
// stack whose container section holds the slides.
type Block struct {
	H      int
	Stack  bool
	Slides []Slide
}

// Expand turns a structure into blocks, one per token, in input order.
func Expand(tokens []Token) []Block {
	blocks := make([]Block, 0, len(tokens))
	h := 1
	dividers := 1

	for _, tok := range tokens {
		switch {
		case tok.Divider:
			blocks = append(blocks, Block{
				H:      h,
				Slides: []Slide{{H: h, Role: RoleDivider, Divider: dividers}},
			})
			dividers++
		case tok.Count == 1:
			role := RoleContent
			if h == 1 {
				role = RoleTitle
			}
			blocks = append(blocks, Block{
				H:      h,
				Slides: []Slide{{H: h, Role: role}},
			})
		default:
			stack := Block{H: h, Stack: true, Slides: make([]Slide, 0, tok.Count)}
			for v := 1; v <= tok.Count; v++ {
				stack.Slides = append(stack.Slides, Slide{H: h, V: v, Role: RoleContent})
			}
			blocks = append(blocks, stack)
		}
		h++
	}

	return blocks
}
