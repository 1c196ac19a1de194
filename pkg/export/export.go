package export

import (
	"bytes"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/matzehuels/coursepaper/pkg/errors"
)

// Defaults used by [New].
const (
	DefaultContainerID = "document-content"
	DefaultFilename    = "Курсовая_Графовые_и_Сетевые_Модели.doc"
	DefaultTitle       = "Курсовая работа - Графовые и сетевые модели"

	// ContentType is the MIME type of every artifact.
	ContentType = "application/msword"
)

// bom is the UTF-8 byte order mark written before the document.
const bom = "\ufeff"

// Exporter produces Word documents from HTML pages.
type Exporter struct {
	// ContainerID is the id of the element whose content is exported.
	ContainerID string
	// Filename is the suggested download name.
	Filename string
	// Title goes into the document's <title>.
	Title string
}

// New returns an exporter with the default container, filename and title.
func New() *Exporter {
	return &Exporter{
		ContainerID: DefaultContainerID,
		Filename:    DefaultFilename,
		Title:       DefaultTitle,
	}
}

// Validate checks the exporter's settings.
func (e *Exporter) Validate() error {
	if err := errors.ValidateElementID(e.ContainerID); err != nil {
		return err
	}
	return errors.ValidateFilename(e.Filename)
}

// Artifact is an exported document ready to be downloaded or written.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ContentDisposition returns an attachment header value. The filename is
// encoded per RFC 2231 since it is not ASCII.
func (a Artifact) ContentDisposition() string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename})
}

// WriteFile writes the artifact into dir under its filename and returns the
// full path.
func (a Artifact) WriteFile(dir string) (string, error) {
	if err := errors.ValidateFilename(a.Filename); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeExport, err, "create %s", dir)
	}
	path := filepath.Join(dir, a.Filename)
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeExport, err, "write %s", path)
	}
	return path, nil
}

// Export reads an HTML page and builds the Word document from the container
// element. If the page has no such element, ok is false and err is nil.
func (e *Exporter) Export(page io.Reader) (Artifact, bool, error) {
	doc, err := html.Parse(page)
	if err != nil {
		return Artifact{}, false, errors.Wrap(errors.ErrCodeExport, err, "parse page")
	}

	container := FindByID(doc, e.ContainerID)
	if container == nil {
		return Artifact{}, false, nil
	}

	inner, err := InnerHTML(container)
	if err != nil {
		return Artifact{}, false, errors.Wrap(errors.ErrCodeExport, err, "serialise #%s", e.ContainerID)
	}

	return Artifact{
		Filename:    e.Filename,
		ContentType: ContentType,
		Data:        Wrap(e.Title, inner),
	}, true, nil
}

// FindByID returns the first element in document order with the given id.
func FindByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Namespace == "" && a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := FindByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// InnerHTML serialises the children of n.
func InnerHTML(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// Wrap places body inside the Word document template and prefixes the BOM.
func Wrap(title, body string) []byte {
	var b strings.Builder
	b.Grow(len(bom) + len(wordHead) + len(body) + 256)
	b.WriteString(bom)
	b.WriteString(wordOpen)
	b.WriteString("<title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title>\n")
	b.WriteString(wordHead)
	b.WriteString(body)
	b.WriteString(wordClose)
	return []byte(b.String())
}
