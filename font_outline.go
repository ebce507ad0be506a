package fontatlas

import (
	"fmt"

	"github.com/gogpu/fontatlas/glyph"
)

// outlineFont is a direct font rasterized on demand into the planes.
type outlineFont struct {
	fontBase
	rast glyph.Rasterizer
}

func newOutlineFont(a *Atlas, rast glyph.Rasterizer, sizePx float32) *outlineFont {
	f := &outlineFont{fontBase: newFontBase(a, sizePx), rast: rast}
	m := rast.Metrics()
	f.font.Ascent = m.Ascent
	f.font.Descent = m.Descent
	f.font.LineHeight = m.LineHeight
	f.pickFallback(rast.HasGlyph)
	return f
}

func (f *outlineFont) Kind() FontKind { return FontDirect }

func (f *outlineFont) HasGlyph(r rune) bool {
	return f.rast.HasGlyph(r)
}

func (f *outlineFont) LoadGlyphs(runes ...rune) error {
	return f.atlas.scoped("LoadGlyphs", func() error {
		return f.loadEach(runes, f.load)
	})
}

func (f *outlineFont) load(r rune) error {
	img, ok := f.rast.Rasterize(r)
	if !ok {
		return nil
	}
	g := Glyph{Rune: r, AdvanceX: img.Advance, Texture: -1}
	if img.Empty() {
		f.font.add(g)
		return nil
	}

	b := img.Bounds
	alloc, err := f.atlas.Allocate(b.Dx(), b.Dy(), img.Colored())
	if err != nil {
		return fmt.Errorf("fontatlas: glyph %q: %w", r, err)
	}
	plane := f.atlas.planes[alloc.Plane]
	if img.Colored() {
		plane.writeColor(alloc, img.Color)
	} else {
		plane.writeMask(alloc, img.Mask, f.atlas.gammaLUT())
	}
	plane.dirty = true

	g.Visible = true
	g.Colored = img.Colored()
	g.X0 = float32(b.Min.X)
	g.Y0 = f.font.Ascent + float32(b.Min.Y)
	g.X1 = g.X0 + float32(b.Dx())
	g.Y1 = g.Y0 + float32(b.Dy())
	g.Texture = alloc.Plane
	g.U0, g.V0, g.U1, g.V1 = alloc.U0, alloc.V0, alloc.U1, alloc.V1
	f.font.add(g)
	return nil
}

func (f *outlineFont) release() error {
	return f.rast.Close()
}
