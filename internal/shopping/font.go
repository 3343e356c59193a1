package shopping

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/sfnt"
)

// ErrMissingGlyph is returned when a string contains a rune the font has
// no glyph for. Rendering never falls back to another font.
var ErrMissingGlyph = errors.New("font has no glyph for character")

// Font is a TrueType font embedded into rendered documents.
type Font struct {
	Family string
	data   []byte
	face   *sfnt.Font
}

// DefaultFont returns Go Mono, a fixed-width font covering Latin, Greek and
// Cyrillic.
func DefaultFont() (*Font, error) {
	return ParseFont("GoMono", gomono.TTF)
}

// LoadFontFile reads a TrueType font from disk. The family is the file name
// without extension.
func LoadFontFile(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	family := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ParseFont(family, data)
}

// ParseFont parses TrueType data.
func ParseFont(family string, data []byte) (*Font, error) {
	face, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", family, err)
	}
	return &Font{Family: family, data: data, face: face}, nil
}

// Check verifies that every rune of text maps to a glyph.
func (f *Font) Check(text string) error {
	var buf sfnt.Buffer
	for _, r := range text {
		if r == '\n' {
			continue
		}
		idx, err := f.face.GlyphIndex(&buf, r)
		if err != nil {
			return fmt.Errorf("lookup glyph %q: %w", r, err)
		}
		if idx == 0 {
			return fmt.Errorf("%w: %q (U+%04X)", ErrMissingGlyph, r, r)
		}
	}
	return nil
}

// Data returns the raw font bytes.
func (f *Font) Data() []byte {
	return f.data
}
