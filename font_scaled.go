package fontatlas

// scaledFont presents a direct font at another size by scaling its quads.
// It shares the texture space of the base font.
type scaledFont struct {
	fontBase
	inner ResolvedFont
	scale float32
}

func newScaledFont(a *Atlas, inner ResolvedFont, sizePx, scale float32) *scaledFont {
	f := &scaledFont{fontBase: newFontBase(a, sizePx), inner: inner, scale: scale}
	in := inner.Font()
	f.font.Ascent = in.Ascent * scale
	f.font.Descent = in.Descent * scale
	f.font.LineHeight = in.LineHeight * scale
	f.font.FallbackRune = in.FallbackRune
	f.font.kerning = func(first, second rune) float32 {
		return in.Kerning(first, second) * scale
	}
	return f
}

func (f *scaledFont) Kind() FontKind { return FontScaled }

// Scale returns the ratio of this size to the base font size.
func (f *scaledFont) Scale() float32 { return f.scale }

func (f *scaledFont) HasGlyph(r rune) bool {
	return f.inner.HasGlyph(r)
}

func (f *scaledFont) LoadGlyphs(runes ...rune) error {
	return f.atlas.scoped("LoadGlyphs", func() error {
		return f.loadEach(runes, f.load)
	})
}

func (f *scaledFont) load(r rune) error {
	if err := f.inner.LoadGlyphs(r); err != nil {
		return err
	}
	if g, ok := f.inner.Font().Glyph(r); ok {
		f.font.add(f.scaled(g))
	}
	return nil
}

func (f *scaledFont) scaled(g Glyph) Glyph {
	s := f.scale
	g.AdvanceX *= s
	g.X0 *= s
	g.Y0 *= s
	g.X1 *= s
	g.Y1 *= s
	return g
}

func (f *scaledFont) release() error { return nil }
