package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_DefaultStructure(t *testing.T) {
	blocks := Expand(FlatCount(5).Tokens())
	require.Len(t, blocks, 5)

	first := blocks[0]
	assert.False(t, first.Stack)
	require.Len(t, first.Slides, 1)
	assert.Equal(t, RoleTitle, first.Slides[0].Role)
	assert.Equal(t, "title", first.Slides[0].ID())

	for i, b := range blocks[1:] {
		h := i + 2
		assert.Equal(t, h, b.H)
		assert.False(t, b.Stack)
		require.Len(t, b.Slides, 1)
		s := b.Slides[0]
		assert.Equal(t, RoleContent, s.Role)
		assert.Equal(t, 0, s.V)
		assert.Equal(t, fmtInt(h), s.Label())
	}
}

func TestExpand_MixedStructure(t *testing.T) {
	blocks := Expand([]Token{Stack(1), Divider(), Stack(3), Stack(1)})
	require.Len(t, blocks, 4)

	assert.Equal(t, RoleTitle, blocks[0].Slides[0].Role)

	divider := blocks[1]
	require.Len(t, divider.Slides, 1)
	assert.Equal(t, RoleDivider, divider.Slides[0].Role)
	assert.Equal(t, 1, divider.Slides[0].Divider)
	assert.Equal(t, "divider-1", divider.Slides[0].ID())
	assert.Equal(t, "Section 1", divider.Slides[0].Heading("Deck"))

	stack := blocks[2]
	assert.True(t, stack.Stack)
	assert.Equal(t, 3, stack.H)
	require.Len(t, stack.Slides, 3)
	for v, s := range stack.Slides {
		assert.Equal(t, 3, s.H)
		assert.Equal(t, v+1, s.V)
		assert.Equal(t, RoleContent, s.Role)
	}
	assert.Equal(t, []string{"3.1", "3.2", "3.3"}, labels(stack.Slides))
	assert.Equal(t, "slide-3-2", stack.Slides[1].ID())

	last := blocks[3]
	assert.Equal(t, 4, last.H)
	assert.Equal(t, "slide-4", last.Slides[0].ID())
	assert.Equal(t, "Slide 4", last.Slides[0].Heading("Deck"))
}

func TestExpand_DividerCounterOnlyCountsDividers(t *testing.T) {
	blocks := Expand([]Token{Stack(1), Divider(), Stack(2), Stack(1), Divider(), Divider()})

	var dividers []int
	for _, b := range blocks {
		if b.Slides[0].Role == RoleDivider {
			dividers = append(dividers, b.Slides[0].Divider)
		}
	}
	assert.Equal(t, []int{1, 2, 3}, dividers)
	assert.Equal(t, 6, blocks[5].H)
}

func TestExpand_FirstTokenNotTitleWhenNotSingle(t *testing.T) {
	t.Run("leading stack", func(t *testing.T) {
		blocks := Expand([]Token{Stack(2), Stack(1)})
		assert.True(t, blocks[0].Stack)
		assert.Equal(t, RoleContent, blocks[0].Slides[0].Role)
		// The title variant is only used for position 1.
		assert.Equal(t, RoleContent, blocks[1].Slides[0].Role)
		assert.Equal(t, "slide-2", blocks[1].Slides[0].ID())
	})

	t.Run("leading divider", func(t *testing.T) {
		blocks := Expand([]Token{Divider(), Stack(1)})
		assert.Equal(t, RoleDivider, blocks[0].Slides[0].Role)
		assert.Equal(t, RoleContent, blocks[1].Slides[0].Role)
	})
}

func TestExpand_Empty(t *testing.T) {
	assert.Empty(t, Expand(nil))
}

func TestSlideHeading_TitleFallback(t *testing.T) {
	title := Slide{H: 1, Role: RoleTitle}
	assert.Equal(t, "Q4 Review", title.Heading("Q4 Review"))
	assert.Equal(t, "Presentation Title", title.Heading(""))
}

func labels(slides []Slide) []string {
	out := make([]string, len(slides))
	for i, s := range slides {
		out[i] = s.Label()
	}
	return out
}

func fmtInt(n int) string {
	return Slide{H: n}.Label()
}
