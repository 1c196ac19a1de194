// Package fonts provides the font faces used for raster diagram output.
//
// The faces are built from the Go font family (golang.org/x/image/font/gofont),
// which ships inside the binary and covers the Cyrillic labels of the figures.
// Vector output names FontFamily instead and leaves substitution to the viewer.
package fonts

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the CSS font-family used by SVG output and the HTML page.
const FontFamily = "Roboto, 'Go', 'Helvetica Neue', Arial, sans-serif"

var (
	parseOnce sync.Once
	regular   *truetype.Font
	bold      *truetype.Font
	parseErr  error
)

func parse() {
	regular, parseErr = truetype.Parse(goregular.TTF)
	if parseErr != nil {
		parseErr = fmt.Errorf("parse regular font: %w", parseErr)
		return
	}
	bold, parseErr = truetype.Parse(gobold.TTF)
	if parseErr != nil {
		parseErr = fmt.Errorf("parse bold font: %w", parseErr)
	}
}

// Face returns a new face of the given pixel size. The parsed fonts are
// shared, but each face keeps its own glyph cache and must not be used by two
// goroutines at once, so callers get a fresh one.
func Face(size float64, isBold bool) (font.Face, error) {
	parseOnce.Do(parse)
	if parseErr != nil {
		return nil, parseErr
	}

	src := regular
	if isBold {
		src = bold
	}
	return truetype.NewFace(src, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
