package audit

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Dimensions are the extents of one slide, in CSS pixels.
type Dimensions struct {
	ScrollHeight   int `json:"scrollHeight" yaml:"scrollHeight"`
	ClientHeight   int `json:"clientHeight" yaml:"clientHeight"`
	ScrollWidth    int `json:"scrollWidth" yaml:"scrollWidth"`
	ClientWidth    int `json:"clientWidth" yaml:"clientWidth"`
	VerticalDiff   int `json:"verticalDiff" yaml:"verticalDiff"`
	HorizontalDiff int `json:"horizontalDiff" yaml:"horizontalDiff"`
}

// SlideResult is the overflow verdict for one slide.
type SlideResult struct {
	Index                 int        `json:"index" yaml:"index"`
	ID                    string     `json:"id" yaml:"id"`
	HasOverflow           bool       `json:"hasOverflow" yaml:"hasOverflow"`
	HasVerticalOverflow   bool       `json:"hasVerticalOverflow" yaml:"hasVerticalOverflow"`
	HasHorizontalOverflow bool       `json:"hasHorizontalOverflow" yaml:"hasHorizontalOverflow"`
	Dimensions            Dimensions `json:"dimensions" yaml:"dimensions"`
}

// Evaluate derives the overflow verdict from a measurement. Content overflows
// an axis when its scroll extent is larger than the client extent.
func Evaluate(m Measurement) SlideResult {
	r := SlideResult{
		Index: m.Index,
		ID:    m.ID,
		Dimensions: Dimensions{
			ScrollHeight:   m.ScrollHeight,
			ClientHeight:   m.ClientHeight,
			ScrollWidth:    m.ScrollWidth,
			ClientWidth:    m.ClientWidth,
			VerticalDiff:   m.ScrollHeight - m.ClientHeight,
			HorizontalDiff: m.ScrollWidth - m.ClientWidth,
		},
	}
	if r.ID == "" {
		r.ID = fmt.Sprintf("slide-%d", m.Index)
	}
	r.HasVerticalOverflow = m.ScrollHeight > m.ClientHeight
	r.HasHorizontalOverflow = m.ScrollWidth > m.ClientWidth
	r.HasOverflow = r.HasVerticalOverflow || r.HasHorizontalOverflow
	return r
}

// Report is the result of one audit pass.
type Report struct {
	Target string        `json:"target" yaml:"target"`
	Slides []SlideResult `json:"slides" yaml:"slides"`
}

// Overflowing returns the slides that overflow on either axis.
func (r *Report) Overflowing() []SlideResult {
	var out []SlideResult
	for _, s := range r.Slides {
		if s.HasOverflow {
			out = append(out, s)
		}
	}
	return out
}

// HasOverflow reports whether any slide overflows.
func (r *Report) HasOverflow() bool {
	return len(r.Overflowing()) > 0
}

// Output formats accepted by WriteReport.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// WriteReport writes report to w in the given format.
func WriteReport(w io.Writer, report *Report, format string) error {
	switch format {
	case "", FormatText:
		return writeText(w, report)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(structuredReport(report))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(structuredReport(report)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (available: text, json, yaml)", format)
	}
}

type summary struct {
	Target      string        `json:"target" yaml:"target"`
	Checked     int           `json:"checked" yaml:"checked"`
	Overflowing int           `json:"overflowing" yaml:"overflowing"`
	Slides      []SlideResult `json:"slides" yaml:"slides"`
}

func structuredReport(r *Report) summary {
	slides := r.Slides
	if slides == nil {
		slides = []SlideResult{}
	}
	return summary{
		Target:      r.Target,
		Checked:     len(r.Slides),
		Overflowing: len(r.Overflowing()),
		Slides:      slides,
	}
}

// WriteHeader writes the line printed before a text report.
func WriteHeader(w io.Writer, target string) {
	fmt.Fprintf(w, "Checking slides for overflow: %s\n\n", target)
}

func writeText(w io.Writer, r *Report) error {
	overflowing := r.Overflowing()
	for _, s := range overflowing {
		fmt.Fprintf(w, "OVERFLOW: Slide %d (%s)\n", s.Index, s.ID)
		d := s.Dimensions
		if s.HasVerticalOverflow {
			fmt.Fprintf(w, "  - Vertical overflow: %dpx (content: %dpx, container: %dpx)\n",
				d.VerticalDiff, d.ScrollHeight, d.ClientHeight)
		}
		if s.HasHorizontalOverflow {
			fmt.Fprintf(w, "  - Horizontal overflow: %dpx (content: %dpx, container: %dpx)\n",
				d.HorizontalDiff, d.ScrollWidth, d.ClientWidth)
		}
	}

	if len(overflowing) == 0 {
		fmt.Fprintln(w, "No overflow detected on any slides.")
	}

	_, err := fmt.Fprintf(w, "\nTotal slides checked: %d\n", len(r.Slides))
	return err
}
