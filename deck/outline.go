package deck

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// OutlineEntry is one top-level section found in an existing deck.
type OutlineEntry struct {
	Token Token
	IDs   []string // ids of the slides, in document order
	Title string   // first heading text of the first slide
}

// Outline reads a reveal.js document and recovers its structure. A top-level
// section holding nested sections is a stack, a divider section is a divider,
// anything else is a single slide.
func Outline(r io.Reader) ([]OutlineEntry, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse deck: %w", err)
	}

	slides := doc.Find(".reveal .slides")
	if slides.Length() == 0 {
		return nil, fmt.Errorf("no reveal.js slides container found")
	}

	var entries []OutlineEntry
	slides.First().ChildrenFiltered("section").Each(func(i int, s *goquery.Selection) {
		nested := s.ChildrenFiltered("section")
		if nested.Length() > 0 {
			entry := OutlineEntry{Token: Stack(nested.Length())}
			nested.Each(func(_ int, child *goquery.Selection) {
				entry.IDs = append(entry.IDs, child.AttrOr("id", ""))
			})
			entry.Title = headingText(nested.First())
			entries = append(entries, entry)
			return
		}

		entry := OutlineEntry{
			Token: Stack(1),
			IDs:   []string{s.AttrOr("id", "")},
			Title: headingText(s),
		}
		if isDivider(i, s) {
			entry.Token = Divider()
		}
		entries = append(entries, entry)
	})

	if len(entries) == 0 {
		return nil, fmt.Errorf("deck contains no slides")
	}
	return entries, nil
}

// OutlineTokens returns just the structure of an outline.
func OutlineTokens(entries []OutlineEntry) []Token {
	tokens := make([]Token, len(entries))
	for i, e := range entries {
		tokens[i] = e.Token
	}
	return tokens
}

func headingText(s *goquery.Selection) string {
	return strings.TrimSpace(s.Find("h1, h2, h3").First().Text())
}

// isDivider recognises generated dividers by id. Hand-written decks often
// style their title slide as a divider, so only later section-divider slides
// without an id count.
func isDivider(i int, s *goquery.Selection) bool {
	id := s.AttrOr("id", "")
	switch {
	case id == "title":
		return false
	case strings.HasPrefix(id, "divider-"):
		return true
	}
	return i > 0 && s.HasClass("section-divider")
}
