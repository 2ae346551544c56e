// Package fonts provides the font faces used for diagram labels.
//
// The Go regular font is embedded in golang.org/x/image and parsed once with
// freetype. Faces are not safe for concurrent use, so every renderer asks for
// its own with NewFace.
package fonts

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

// DPI is fixed at 72 so that a face of size N is N pixels tall, matching a
// CSS "Npx" font.
const DPI = 72

var (
	regular     *truetype.Font
	regularErr  error
	regularOnce sync.Once
)

// Regular returns the parsed Go regular font.
func Regular() (*truetype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = truetype.Parse(goregular.TTF)
	})
	return regular, regularErr
}

// NewFace returns a new face of the given pixel size. If the embedded font
// cannot be parsed it falls back to the fixed 7x13 bitmap face.
func NewFace(size float64) font.Face {
	f, err := Regular()
	if err != nil {
		return basicfont.Face7x13
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     DPI,
		Hinting: font.HintingFull,
	})
}
