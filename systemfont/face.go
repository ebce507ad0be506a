package systemfont

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/fontatlas/glyph"
)

// Face rasterizes glyphs of one outline font at one pixel size.
// It implements glyph.Rasterizer.
//
// Face is not safe for concurrent use.
type Face struct {
	font    *sfnt.Font
	face    font.Face
	buf     sfnt.Buffer
	metrics glyph.Metrics
}

var _ glyph.Rasterizer = (*Face)(nil)

// NewFace parses TTF, OTF, TTC or OTC data and prepares face index for
// rasterization at sizePx pixels per em.
func NewFace(data []byte, index int, sizePx float64) (*Face, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("systemfont: invalid size %v", sizePx)
	}
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("systemfont: parse font: %w", err)
	}
	if index < 0 || index >= coll.NumFonts() {
		return nil, fmt.Errorf("systemfont: face index %d out of range [0, %d)", index, coll.NumFonts())
	}
	f, err := coll.Font(index)
	if err != nil {
		return nil, fmt.Errorf("systemfont: load face %d: %w", index, err)
	}

	// DPI 72 makes Size a pixel size.
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("systemfont: create face: %w", err)
	}

	m := face.Metrics()
	return &Face{
		font: f,
		face: face,
		metrics: glyph.Metrics{
			Ascent:     fixedToFloat32(m.Ascent),
			Descent:    fixedToFloat32(m.Descent),
			LineHeight: fixedToFloat32(m.Height),
		},
	}, nil
}

// Metrics returns the vertical metrics of the face.
func (f *Face) Metrics() glyph.Metrics {
	return f.metrics
}

// HasGlyph reports whether the font maps r to a glyph other than .notdef.
func (f *Face) HasGlyph(r rune) bool {
	if f.font == nil {
		return false
	}
	idx, err := f.font.GlyphIndex(&f.buf, r)
	return err == nil && idx != 0
}

// Rasterize renders r into a coverage mask positioned relative to the pen
// on the baseline.
func (f *Face) Rasterize(r rune) (*glyph.Image, bool) {
	if !f.HasGlyph(r) {
		return nil, false
	}
	dr, mask, maskp, advance, ok := f.face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return nil, false
	}

	img := &glyph.Image{
		Bounds:  dr,
		Advance: fixedToFloat32(advance),
	}
	if dr.Empty() || mask == nil {
		return img, true
	}
	dst := image.NewAlpha(dr)
	draw.Draw(dst, dr, mask, maskp, draw.Src)
	img.Mask = dst
	return img, true
}

// Close releases the face.
func (f *Face) Close() error {
	if f.face == nil {
		return nil
	}
	err := f.face.Close()
	f.face = nil
	f.font = nil
	return err
}

func fixedToFloat32(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
