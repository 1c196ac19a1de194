package document

import (
	"github.com/matzehuels/coursepaper/pkg/errors"
	"github.com/matzehuels/coursepaper/pkg/render"
)

// Block kinds.
const (
	KindHeading   = "heading"
	KindParagraph = "paragraph"
	KindList      = "list"
	KindCallout   = "callout"
	KindBox       = "box"
	KindTable     = "table"
	KindFigure    = "figure"
)

// Callout tones.
const (
	ToneInfo    = "info"
	ToneSuccess = "success"
)

// Paper is the whole course paper.
type Paper struct {
	// Title is the document title used by the page and the Word export.
	Title string `yaml:"title"`
	// Brand is shown in the page's top bar.
	Brand     string    `yaml:"brand"`
	TitlePage TitlePage `yaml:"title_page"`
	Sections  []Section `yaml:"sections"`
}

// TitlePage is the formal cover of the paper.
type TitlePage struct {
	Ministry    string   `yaml:"ministry"`
	Institution []string `yaml:"institution"`
	Kind        string   `yaml:"kind"`
	Discipline  string   `yaml:"discipline"`
	Topic       string   `yaml:"topic"`
	Signatures  []string `yaml:"signatures"`
	City        string   `yaml:"city"`
}

// Section is a top-level part of the paper with an <h2> title.
type Section struct {
	ID     string  `yaml:"id"`
	Title  string  `yaml:"title"`
	Blocks []Block `yaml:"blocks"`
}

// Block is one element of a section. Kind selects which fields apply:
//
//	heading    Level (3 or 4), Text
//	paragraph  Text, Indent
//	list       Items, Ordered
//	callout    Title, Tone, Paragraphs
//	box        Title, Paragraphs, Items, Code
//	table      Header, Rows
//	figure     Diagram, and optionally Caption and Note
type Block struct {
	Kind       string     `yaml:"kind"`
	Level      int        `yaml:"level,omitempty"`
	Text       string     `yaml:"text,omitempty"`
	Indent     bool       `yaml:"indent,omitempty"`
	Ordered    bool       `yaml:"ordered,omitempty"`
	Items      []string   `yaml:"items,omitempty"`
	Title      string     `yaml:"title,omitempty"`
	Tone       string     `yaml:"tone,omitempty"`
	Paragraphs []string   `yaml:"paragraphs,omitempty"`
	Code       string     `yaml:"code,omitempty"`
	Header     []string   `yaml:"header,omitempty"`
	Rows       [][]string `yaml:"rows,omitempty"`
	Diagram    string     `yaml:"diagram,omitempty"`
	Caption    string     `yaml:"caption,omitempty"`
	Note       string     `yaml:"note,omitempty"`
}

// Section returns the section with the given id.
func (p *Paper) Section(id string) (Section, bool) {
	for _, s := range p.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Figures returns the diagram names referenced by the paper, in order.
func (p *Paper) Figures() []string {
	var out []string
	for _, s := range p.Sections {
		for _, b := range s.Blocks {
			if b.Kind == KindFigure {
				out = append(out, b.Diagram)
			}
		}
	}
	return out
}

// Validate checks section ids and every block's required fields.
func (p *Paper) Validate() error {
	if p.Title == "" {
		return errors.New(errors.ErrCodeInvalidContent, "paper has no title")
	}
	seen := make(map[string]struct{}, len(p.Sections))
	for _, s := range p.Sections {
		if s.ID == "" {
			return errors.New(errors.ErrCodeInvalidContent, "section %q has no id", s.Title)
		}
		if _, dup := seen[s.ID]; dup {
			return errors.New(errors.ErrCodeInvalidContent, "duplicate section id %q", s.ID)
		}
		seen[s.ID] = struct{}{}

		for i, b := range s.Blocks {
			if err := b.validate(); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidContent, err, "section %s, block %d", s.ID, i+1)
			}
		}
	}
	return nil
}

func (b Block) validate() error {
	switch b.Kind {
	case KindHeading:
		if b.Level != 3 && b.Level != 4 {
			return errors.New(errors.ErrCodeInvalidContent, "heading level %d (want 3 or 4)", b.Level)
		}
		if b.Text == "" {
			return errors.New(errors.ErrCodeInvalidContent, "empty heading")
		}
	case KindParagraph:
		if b.Text == "" {
			return errors.New(errors.ErrCodeInvalidContent, "empty paragraph")
		}
	case KindList:
		if len(b.Items) == 0 {
			return errors.New(errors.ErrCodeInvalidContent, "empty list")
		}
	case KindCallout:
		if b.Tone != ToneInfo && b.Tone != ToneSuccess {
			return errors.New(errors.ErrCodeInvalidContent, "unknown callout tone %q", b.Tone)
		}
		if b.Title == "" || len(b.Paragraphs) == 0 {
			return errors.New(errors.ErrCodeInvalidContent, "callout needs a title and text")
		}
	case KindBox:
		if b.Title == "" {
			return errors.New(errors.ErrCodeInvalidContent, "box without title")
		}
	case KindTable:
		if len(b.Header) == 0 {
			return errors.New(errors.ErrCodeInvalidContent, "table without header")
		}
		for i, row := range b.Rows {
			if len(row) != len(b.Header) {
				return errors.New(errors.ErrCodeInvalidContent, "table row %d has %d cells, want %d", i+1, len(row), len(b.Header))
			}
		}
	case KindFigure:
		if _, err := render.Lookup(b.Diagram); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidContent, "unknown block kind %q", b.Kind)
	}
	return nil
}
