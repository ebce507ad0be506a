package fontatlas

import "errors"

// FontKind tags the implementation behind a ResolvedFont.
type FontKind uint8

// Font kinds.
const (
	// FontDirect fonts rasterize (or copy) their own glyphs.
	FontDirect FontKind = iota

	// FontScaled fonts reuse the glyphs of a direct font at another size.
	FontScaled

	// FontChained fonts take each glyph from the first member that has it.
	FontChained
)

func (k FontKind) String() string {
	switch k {
	case FontDirect:
		return "direct"
	case FontScaled:
		return "scaled"
	case FontChained:
		return "chained"
	default:
		return "unknown"
	}
}

// Glyph is a loaded glyph ready for drawing.
//
// X0..Y1 is the quad relative to the pen position at the top of the line,
// in pixels. U0..V1 are texture coordinates in Texture. For monochrome
// glyphs the integer part of U selects the channel (1 + channel index).
type Glyph struct {
	Rune     rune
	Visible  bool
	Colored  bool
	AdvanceX float32

	X0, Y0, X1, Y1 float32

	// Texture is the texture slot index, or -1 for invisible glyphs.
	Texture int

	U0, V0, U1, V1 float32
}

// Font is the glyph table of a resolved font. It only grows.
type Font struct {
	SizePx     float32
	Ascent     float32
	Descent    float32
	LineHeight float32

	// FallbackRune is drawn for runes the font cannot supply.
	FallbackRune rune

	glyphs  []Glyph
	index   map[rune]int
	kerning func(first, second rune) float32
}

func newFont(sizePx float32) Font {
	return Font{SizePx: sizePx, index: make(map[rune]int)}
}

// Glyph returns the loaded glyph for r.
func (f *Font) Glyph(r rune) (Glyph, bool) {
	i, ok := f.index[r]
	if !ok {
		return Glyph{}, false
	}
	return f.glyphs[i], true
}

// FindGlyph returns the glyph for r, or the fallback glyph when r is not
// loaded.
func (f *Font) FindGlyph(r rune) (Glyph, bool) {
	if g, ok := f.Glyph(r); ok {
		return g, true
	}
	return f.Glyph(f.FallbackRune)
}

// Kerning returns the pen adjustment between first and second in pixels.
// Only game fonts carry kerning pairs.
func (f *Font) Kerning(first, second rune) float32 {
	if f.kerning == nil {
		return 0
	}
	return f.kerning(first, second)
}

// Glyphs returns the loaded glyphs in load order.
func (f *Font) Glyphs() []Glyph {
	return append([]Glyph(nil), f.glyphs...)
}

// GlyphCount returns the number of loaded glyphs.
func (f *Font) GlyphCount() int {
	return len(f.glyphs)
}

func (f *Font) add(g Glyph) {
	if i, ok := f.index[g.Rune]; ok {
		f.glyphs[i] = g
		return
	}
	f.index[g.Rune] = len(f.glyphs)
	f.glyphs = append(f.glyphs, g)
}

// ResolvedFont is a font produced by an Atlas.
//
// The set of implementations is closed: direct (outline or bitmap backed),
// scaled and chained fonts.
type ResolvedFont interface {
	// Kind returns the implementation kind.
	Kind() FontKind

	// Handle returns the atlas handle of the font.
	Handle() FontHandle

	// Font returns the glyph table. Loading glyphs adds to it.
	Font() *Font

	// HasGlyph reports whether the font can supply r.
	HasGlyph(r rune) bool

	// LoadGlyphs makes the given runes available in Font. Runes the font
	// cannot supply are skipped. Each rune is attempted once.
	LoadGlyphs(runes ...rune) error

	base() *fontBase
	release() error
}

// preloadRunes are loaded into every new font.
var preloadRunes = []rune{' ', '�', '?', '…', '.'}

// fallbackCandidates are tried in order for Font.FallbackRune.
var fallbackCandidates = []rune{'�', '?', ' '}

type fontBase struct {
	atlas     *Atlas
	handle    FontHandle
	font      Font
	attempted map[rune]struct{}
}

func newFontBase(a *Atlas, sizePx float32) fontBase {
	return fontBase{
		atlas:     a,
		font:      newFont(sizePx),
		attempted: make(map[rune]struct{}),
	}
}

func (b *fontBase) Handle() FontHandle { return b.handle }
func (b *fontBase) Font() *Font        { return &b.font }
func (b *fontBase) base() *fontBase    { return b }

// loadEach calls load once for every rune not attempted yet. A failed rune
// does not stop the rest of the batch and stays eligible for a later call.
func (b *fontBase) loadEach(runes []rune, load func(rune) error) error {
	var errs []error
	var failed []rune
	for _, r := range runes {
		if _, ok := b.attempted[r]; ok {
			continue
		}
		b.attempted[r] = struct{}{}
		if err := load(r); err != nil {
			errs = append(errs, err)
			failed = append(failed, r)
		}
	}
	for _, r := range failed {
		delete(b.attempted, r)
	}
	return errors.Join(errs...)
}

// pickFallback sets FallbackRune to the first candidate accepted by has.
func (b *fontBase) pickFallback(has func(rune) bool) {
	for _, r := range fallbackCandidates {
		if has(r) {
			b.font.FallbackRune = r
			return
		}
	}
	b.font.FallbackRune = ' '
}

// preload loads the common runes of a new font. Failures are logged; the
// font stays usable.
func preload(f ResolvedFont) {
	if err := f.LoadGlyphs(preloadRunes...); err != nil {
		Logger().Warn("fontatlas: preload glyphs", "font", f.Handle(), "err", err)
	}
}
