package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"revealkit/deck"

	"github.com/spf13/cobra"
)

var outlineFormat string

// outlineCmd represents the outline command
var outlineCmd = &cobra.Command{
	Use:   "outline PATH",
	Short: "Print the structure of an existing deck",
	Long: `Read the reveal.js deck at PATH and print its structure in the form accepted
by "revealkit create --structure", followed by one line per horizontal position.`,
	GroupID: "other",
	Args:    validateDeckArg,
	RunE:    runOutline,
}

func init() {
	rootCmd.AddCommand(outlineCmd)
	outlineCmd.Flags().StringVar(&outlineFormat, "format", "text", "Output format (text or json)")
}

// runOutline runs the outline command
func runOutline(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("cannot open deck %s: %w", args[0], err)
	}
	defer f.Close()

	entries, err := deck.Outline(f)
	if err != nil {
		return err
	}

	return writeOutline(cmd.OutOrStdout(), entries, outlineFormat)
}

type outlineJSON struct {
	Structure   string             `json:"structure"`
	TotalSlides int                `json:"totalSlides"`
	Entries     []outlineEntryJSON `json:"entries"`
}

type outlineEntryJSON struct {
	Position int      `json:"position"`
	Token    string   `json:"token"`
	IDs      []string `json:"ids"`
	Title    string   `json:"title"`
}

func writeOutline(out io.Writer, entries []deck.OutlineEntry, format string) error {
	tokens := deck.OutlineTokens(entries)

	switch format {
	case "text":
		fmt.Fprintf(out, "Structure: %s\n", deck.FormatStructure(tokens))
		fmt.Fprintf(out, "Slides: %d\n\n", deck.TotalSlides(tokens))
		for i, e := range entries {
			kind := "slide"
			switch {
			case e.Token.Divider:
				kind = "divider"
			case e.Token.Count > 1:
				kind = fmt.Sprintf("stack of %d", e.Token.Count)
			}
			fmt.Fprintf(out, "%3d  %-12s %-24s %s\n", i+1, kind, e.Title, strings.Join(e.IDs, " "))
		}
		return nil

	case "json":
		doc := outlineJSON{
			Structure:   deck.FormatStructure(tokens),
			TotalSlides: deck.TotalSlides(tokens),
			Entries:     make([]outlineEntryJSON, 0, len(entries)),
		}
		for i, e := range entries {
			doc.Entries = append(doc.Entries, outlineEntryJSON{
				Position: i + 1,
				Token:    e.Token.String(),
				IDs:      e.IDs,
				Title:    e.Title,
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)

	default:
		return fmt.Errorf("unknown output format %q (available: text, json)", format)
	}
}
