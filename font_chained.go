package fontatlas

// chainedFont takes each glyph from the first member that has it. Glyphs of
// later members are moved so their baselines match the first member.
type chainedFont struct {
	fontBase
	members []ResolvedFont
}

func newChainedFont(a *Atlas, members []ResolvedFont) *chainedFont {
	primary := members[0].Font()
	f := &chainedFont{fontBase: newFontBase(a, primary.SizePx), members: members}
	f.font.Ascent = primary.Ascent
	f.font.Descent = primary.Descent
	f.font.LineHeight = primary.LineHeight
	f.font.kerning = f.kerning
	f.pickFallback(f.HasGlyph)
	return f
}

func (f *chainedFont) Kind() FontKind { return FontChained }

// Members returns the constituent fonts in chain order.
func (f *chainedFont) Members() []ResolvedFont {
	return append([]ResolvedFont(nil), f.members...)
}

func (f *chainedFont) HasGlyph(r rune) bool {
	return f.member(r) != nil
}

func (f *chainedFont) member(r rune) ResolvedFont {
	for _, m := range f.members {
		if m.HasGlyph(r) {
			return m
		}
	}
	return nil
}

// kerning applies the pairs of the member supplying both runes.
func (f *chainedFont) kerning(first, second rune) float32 {
	m := f.member(first)
	if m == nil || m != f.member(second) {
		return 0
	}
	return m.Font().Kerning(first, second)
}

func (f *chainedFont) LoadGlyphs(runes ...rune) error {
	return f.atlas.scoped("LoadGlyphs", func() error {
		return f.loadEach(runes, f.load)
	})
}

func (f *chainedFont) load(r rune) error {
	m := f.member(r)
	if m == nil {
		return nil
	}
	if err := m.LoadGlyphs(r); err != nil {
		return err
	}
	mf := m.Font()
	g, ok := mf.Glyph(r)
	if !ok {
		return nil
	}
	dy := f.font.Ascent - mf.Ascent
	g.Y0 += dy
	g.Y1 += dy
	f.font.add(g)
	return nil
}

func (f *chainedFont) release() error { return nil }
