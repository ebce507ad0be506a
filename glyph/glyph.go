// Package glyph defines the rasterized glyph bitmaps exchanged between font
// sources and the atlas.
package glyph

import "image"

// Metrics are font-wide vertical metrics in pixels.
type Metrics struct {
	// Ascent is the distance from the top of a line to the baseline.
	Ascent float32

	// Descent is the distance from the baseline to the bottom of a line.
	Descent float32

	// LineHeight is the recommended distance between baselines.
	LineHeight float32
}

// Image is a rasterized glyph.
//
// Exactly one of Mask and Color is set for visible glyphs; both are nil for
// glyphs without ink, such as the space.
type Image struct {
	// Mask is the coverage of a monochrome glyph.
	Mask *image.Alpha

	// Color is the bitmap of a colored glyph (emoji and the like).
	Color *image.NRGBA

	// Bounds is the ink box relative to the pen position on the baseline.
	Bounds image.Rectangle

	// Advance is the horizontal pen advance in pixels.
	Advance float32
}

// Colored reports whether the glyph carries its own color.
func (g *Image) Colored() bool {
	return g.Color != nil
}

// Empty reports whether the glyph has no visible pixels.
func (g *Image) Empty() bool {
	return g.Bounds.Empty() || (g.Mask == nil && g.Color == nil)
}

// Rasterizer produces glyph bitmaps for one font at one size.
type Rasterizer interface {
	// Metrics returns the vertical metrics of the font.
	Metrics() Metrics

	// HasGlyph reports whether the font maps r to a glyph.
	HasGlyph(r rune) bool

	// Rasterize renders r. It returns false when the font has no glyph for r.
	Rasterize(r rune) (*Image, bool)

	// Close releases the font resources.
	Close() error
}
