package document

import (
	"fmt"
	"strings"

	"github.com/matzehuels/coursepaper/pkg/errors"
	"github.com/matzehuels/coursepaper/pkg/render"
)

// Heading is a sub-heading inside a section.
type Heading struct {
	Level int
	Text  string
}

// OutlineEntry summarises one section.
type OutlineEntry struct {
	ID       string
	Title    string
	Headings []Heading
	Figures  []string
	Blocks   int
}

// Outline lists the sections with their sub-headings and figures.
func (p *Paper) Outline() []OutlineEntry {
	out := make([]OutlineEntry, 0, len(p.Sections))
	for _, s := range p.Sections {
		e := OutlineEntry{ID: s.ID, Title: s.Title, Blocks: len(s.Blocks)}
		for _, b := range s.Blocks {
			switch b.Kind {
			case KindHeading:
				e.Headings = append(e.Headings, Heading{Level: b.Level, Text: b.Text})
			case KindFigure:
				e.Figures = append(e.Figures, b.Diagram)
			}
		}
		out = append(out, e)
	}
	return out
}

// PlainText renders a section as plain text, one block per paragraph.
func (p *Paper) PlainText(id string) (string, error) {
	s, ok := p.Section(id)
	if !ok {
		return "", errors.New(errors.ErrCodeNotFound, "no section %q", id)
	}

	var b strings.Builder
	b.WriteString(s.Title)
	b.WriteString("\n")

	for _, blk := range s.Blocks {
		b.WriteString("\n")
		lines, err := blockText(blk)
		if err != nil {
			return "", err
		}
		for _, l := range lines {
			b.WriteString(l)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

func blockText(blk Block) ([]string, error) {
	var out []string
	add := func(prefix, s string) error {
		t, err := Plain(s)
		if err != nil {
			return err
		}
		out = append(out, prefix+t)
		return nil
	}

	switch blk.Kind {
	case KindHeading:
		out = append(out, blk.Text)
	case KindParagraph:
		prefix := ""
		if blk.Indent {
			prefix = "    "
		}
		if err := add(prefix, blk.Text); err != nil {
			return nil, err
		}
	case KindList:
		for i, item := range blk.Items {
			prefix := "  • "
			if blk.Ordered {
				prefix = fmt.Sprintf("  %d. ", i+1)
			}
			if err := add(prefix, item); err != nil {
				return nil, err
			}
		}
	case KindCallout, KindBox:
		out = append(out, "["+blk.Title+"]")
		for _, para := range blk.Paragraphs {
			if err := add("", para); err != nil {
				return nil, err
			}
		}
		for _, item := range blk.Items {
			if err := add("  • ", item); err != nil {
				return nil, err
			}
		}
		if blk.Code != "" {
			out = append(out, blk.Code)
		}
	case KindTable:
		out = append(out, strings.Join(blk.Header, " | "))
		for _, row := range blk.Rows {
			out = append(out, strings.Join(row, " | "))
		}
	case KindFigure:
		caption, note := figureText(blk)
		out = append(out, "["+caption+"]", note)
	}
	return out, nil
}

// figureText returns the caption and note of a figure block, falling back
// to the registered diagram's.
func figureText(blk Block) (string, string) {
	caption, note := blk.Caption, blk.Note
	if d, err := render.Lookup(blk.Diagram); err == nil {
		if caption == "" {
			caption = d.Caption
		}
		if note == "" {
			note = d.Note
		}
	}
	return caption, note
}
