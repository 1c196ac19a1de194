// Package export converts the course paper page into a Word-readable
// document.
//
// Word opens HTML files saved with a .doc extension when they carry the
// Office namespaces. [Exporter.Export] takes a page, finds the container
// element by id, and wraps its inner markup, unchanged, in a fixed template
// with print styles (A4, 2 cm margins, Times New Roman 14 pt). The result is
// prefixed with a UTF-8 byte order mark so Word detects the encoding.
//
// A page without the container is not an error: Export reports ok=false and
// produces nothing.
package export
