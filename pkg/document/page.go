package document

import (
	"context"
	_ "embed"
	"html/template"
	"io"

	"github.com/matzehuels/coursepaper/pkg/errors"
	"github.com/matzehuels/coursepaper/pkg/render"
	"github.com/matzehuels/coursepaper/pkg/render/sink"
)

// ContainerID is the id of the element holding the paper.
const ContainerID = "document-content"

//go:embed templates/page.html.tmpl
var pageTemplate string

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"md": Inline,
}).Parse(pageTemplate))

// PageOptions configures [Page].
type PageOptions struct {
	// ExportURL is the target of the "Скачать в Word" button.
	ExportURL string
	// Figures resolves figure sources. Defaults to inline PNGs.
	Figures FigureSource
}

type pageView struct {
	Title       string
	Brand       string
	ContainerID string
	ExportURL   string
	TitlePage   TitlePage
	Sections    []sectionView
}

type sectionView struct {
	ID     string
	Title  string
	Blocks []blockView
}

type blockView struct {
	Block
	Src    template.URL
	Width  int
	Height int
}

// Page writes the complete HTML page for p.
func Page(ctx context.Context, w io.Writer, p *Paper, opts PageOptions) error {
	if opts.Figures == nil {
		opts.Figures = InlineFigures(nil, sink.DefaultOptions())
	}

	view := pageView{
		Title:       p.Title,
		Brand:       p.Brand,
		ContainerID: ContainerID,
		ExportURL:   opts.ExportURL,
		TitlePage:   p.TitlePage,
	}

	for _, s := range p.Sections {
		sv := sectionView{ID: s.ID, Title: s.Title}
		for _, b := range s.Blocks {
			bv := blockView{Block: b}
			if b.Kind == KindFigure {
				src, err := opts.Figures(ctx, b.Diagram)
				if err != nil {
					return errors.Wrap(errors.ErrCodeRender, err, "figure %s", b.Diagram)
				}
				bv.Src = template.URL(src)
				bv.Width, bv.Height = render.Width, render.Height
				bv.Caption, bv.Note = figureText(b)
			}
			sv.Blocks = append(sv.Blocks, bv)
		}
		view.Sections = append(view.Sections, sv)
	}

	if err := pageTmpl.Execute(w, view); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "execute page template")
	}
	return nil
}
