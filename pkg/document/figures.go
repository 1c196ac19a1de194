package document

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/matzehuels/coursepaper/pkg/render/sink"
)

// FigureSource resolves a diagram name to an <img> src.
type FigureSource func(ctx context.Context, name string) (string, error)

// Renderer produces encoded figures. [sink.Render] satisfies it; the server
// passes a cached variant.
type Renderer func(ctx context.Context, name string, f sink.Format, opts sink.Options) ([]byte, error)

// InlineFigures embeds each figure as a PNG data URI, which keeps the page
// and its Word export self-contained.
func InlineFigures(r Renderer, opts sink.Options) FigureSource {
	if r == nil {
		r = sink.Render
	}
	return func(ctx context.Context, name string) (string, error) {
		data, err := r(ctx, name, sink.FormatPNG, opts)
		if err != nil {
			return "", err
		}
		return DataURI(sink.FormatPNG.ContentType(), data), nil
	}
}

// LinkedFigures points each figure at a URL built from pattern, which must
// contain one %s for the diagram name (e.g. "/diagrams/%s.png").
func LinkedFigures(pattern string) FigureSource {
	return func(_ context.Context, name string) (string, error) {
		return fmt.Sprintf(pattern, name), nil
	}
}

// DataURI encodes data as a base64 data URI.
func DataURI(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
