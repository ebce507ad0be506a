package fontatlas

import (
	"github.com/gogpu/fontatlas/gamefont"
)

// bitmapFont is a direct font whose glyphs already live in game textures.
type bitmapFont struct {
	fontBase
	layout   *gamefont.Layout
	textures []int
}

func newBitmapFont(a *Atlas, layout *gamefont.Layout, textures []int) *bitmapFont {
	f := &bitmapFont{
		fontBase: newFontBase(a, float32(layout.Size)),
		layout:   layout,
		textures: textures,
	}
	f.font.Ascent = float32(layout.Base)
	f.font.Descent = float32(layout.LineHeight - layout.Base)
	f.font.LineHeight = float32(layout.LineHeight)
	f.font.kerning = func(first, second rune) float32 {
		return float32(layout.Kerning(first, second))
	}
	f.pickFallback(layout.HasGlyph)
	return f
}

func (f *bitmapFont) Kind() FontKind { return FontDirect }

func (f *bitmapFont) HasGlyph(r rune) bool {
	return f.layout.HasGlyph(r)
}

func (f *bitmapFont) LoadGlyphs(runes ...rune) error {
	return f.atlas.scoped("LoadGlyphs", func() error {
		return f.loadEach(runes, f.load)
	})
}

func (f *bitmapFont) load(r rune) error {
	lg, ok := f.layout.Glyph(r)
	if !ok {
		return nil
	}
	g := Glyph{Rune: r, AdvanceX: float32(lg.XAdvance), Texture: -1}
	if lg.Width <= 0 || lg.Height <= 0 || lg.Page < 0 || lg.Page >= len(f.textures) {
		f.font.add(g)
		return nil
	}

	tex := f.textures[lg.Page]
	plane := f.atlas.planes[tex]
	du := float32(0)
	if lg.Channel != gamefont.ChannelColor {
		du = float32(1 + int(lg.Channel))
	}
	w, h := float32(plane.width), float32(plane.height)

	g.Visible = true
	g.Colored = lg.Channel == gamefont.ChannelColor
	g.X0 = float32(lg.XOffset)
	g.Y0 = float32(lg.YOffset)
	g.X1 = g.X0 + float32(lg.Width)
	g.Y1 = g.Y0 + float32(lg.Height)
	g.Texture = tex
	g.U0 = du + float32(lg.X)/w
	g.V0 = float32(lg.Y) / h
	g.U1 = du + float32(lg.X+lg.Width)/w
	g.V1 = float32(lg.Y+lg.Height) / h
	f.font.add(g)
	return nil
}

func (f *bitmapFont) release() error { return nil }
