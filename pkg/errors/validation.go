package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateFilename validates a download filename for safety.
// It must be a plain basename: no separators, no control characters and no
// leading dot. Non-ASCII letters are allowed since the export filename is Cyrillic.
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "filename cannot be empty")
	}

	if len(name) > 255 {
		return New(ErrCodeInvalidPath, "filename too long (max 255 bytes)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "filename contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators")
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidPath, "filename cannot be a hidden file")
	}

	return nil
}

// diagramNameRegex matches registered diagram names ("transport", "project").
var diagramNameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]{0,31}$`)

// ValidateDiagramName validates a diagram name taken from a URL or flag.
func ValidateDiagramName(name string) error {
	if !diagramNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid diagram name: %q", name)
	}
	return nil
}

// ValidateElementID validates an HTML element id used to locate the export container.
func ValidateElementID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "element id cannot be empty")
	}
	if strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return New(ErrCodeInvalidInput, "element id cannot contain whitespace: %q", id)
	}
	return nil
}
