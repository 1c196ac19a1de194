package document

import (
	"bytes"
	_ "embed"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/coursepaper/pkg/errors"
)

//go:embed content/paper.yaml
var paperYAML []byte

// Default returns the embedded course paper.
func Default() (*Paper, error) {
	return Parse(paperYAML)
}

// Parse decodes and validates a paper. Unknown fields are rejected so that
// typos in content files surface immediately.
func Parse(data []byte) (*Paper, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Paper
	if err := dec.Decode(&p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidContent, err, "decode paper")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads a paper from a YAML file.
func Load(path string) (*Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidContent, err, "read %s", path)
	}
	return Parse(data)
}
