// Package document holds the course paper and renders it as an HTML page.
//
// The paper text lives in content/paper.yaml, embedded in the binary. It is a
// title page plus a list of sections, each a sequence of typed [Block]s.
// Inline text is Markdown and may contain raw <sub> elements, rendered with
// goldmark.
//
// [Page] produces the complete page. Its element with id "document-content"
// holds the paper and is what the export package serialises. Figures refer to
// diagrams by name and are drawn through a [FigureSource].
package document
