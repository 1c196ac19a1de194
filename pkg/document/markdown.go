package document

import (
	"bytes"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
	xhtml "golang.org/x/net/html"

	"github.com/matzehuels/coursepaper/pkg/errors"
)

// Raw HTML passes through so that <sub> in parameter names survives.
var markdown = goldmark.New(
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// Inline renders a single-paragraph Markdown string to HTML without the
// enclosing <p> element.
func Inline(s string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(s), &buf); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidContent, err, "markdown")
	}
	out := strings.TrimSuffix(buf.String(), "\n")
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return template.HTML(out), nil
}

// Plain renders s and returns only its text, with entities decoded.
func Plain(s string) (string, error) {
	h, err := Inline(s)
	if err != nil {
		return "", err
	}
	return textContent(strings.NewReader(string(h)))
}

func textContent(r io.Reader) (string, error) {
	var b strings.Builder
	z := xhtml.NewTokenizer(r)
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", errors.Wrap(errors.ErrCodeInvalidContent, err, "tokenize")
			}
			return b.String(), nil
		case xhtml.TextToken:
			b.Write(z.Text())
		}
	}
}
