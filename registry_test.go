package fontatlas

import (
	"errors"
	"math"
	"strings"
	"testing"
	"unicode"

	"github.com/go-text/typesetting/font"
	"golang.org/x/text/unicode/rangetable"

	"github.com/gogpu/fontatlas/gamefont"
)

var sans = SystemFont("Sans", font.Aspect{})

func TestResolveRoundsSize(t *testing.T) {
	env := newTestEnv(t)
	a := env.atlas

	f1, err := a.Resolve(sans, 15.6)
	if err != nil {
		t.Fatalf("Resolve(15.6): %v", err)
	}
	f2, err := a.Resolve(sans, 16.4)
	if err != nil {
		t.Fatalf("Resolve(16.4): %v", err)
	}
	if f1 != f2 {
		t.Error("15.6px and 16.4px resolved to different fonts")
	}
	if got := f1.Font().SizePx; got != 16 {
		t.Errorf("SizePx = %v, want 16", got)
	}
	half, err := a.Resolve(sans, 16.5)
	if err != nil {
		t.Fatalf("Resolve(16.5): %v", err)
	}
	if half != f1 {
		t.Error("16.5px did not round to the 16px font")
	}
	f3, err := a.Resolve(sans, 17.5)
	if err != nil {
		t.Fatalf("Resolve(17.5): %v", err)
	}
	if f3 == f1 || f3.Font().SizePx != 18 {
		t.Errorf("17.5px resolved to a %vpx font, want a new 18px font", f3.Font().SizePx)
	}
	if got := env.sys.opens["Sans"]; got != 2 {
		t.Errorf("system font opened %d times, want 2", got)
	}
	if got := a.FontCount(); got != 2 {
		t.Errorf("FontCount() = %d, want 2", got)
	}
}

func TestResolveInvalidSize(t *testing.T) {
	a := newTestAtlas(t)
	for _, size := range []float32{0, -3, 0.4, float32(math.NaN()), float32(math.Inf(1))} {
		_, err := a.Resolve(sans, size)
		var ae *ArgumentError
		if !errors.As(err, &ae) {
			t.Errorf("Resolve(size %v) error = %v, want *ArgumentError", size, err)
		}
	}
	if n := len(a.FailedIdents()); n != 0 {
		t.Errorf("invalid sizes cached %d failures, want 0", n)
	}
}

func TestResolveFailureCached(t *testing.T) {
	env := newTestEnv(t)
	env.sys.fail["Missing"] = true
	a := env.atlas
	missing := SystemFont("Missing", font.Aspect{})

	_, err1 := a.Resolve(missing, 16)
	var ie *IdentityResolutionError
	if !errors.As(err1, &ie) {
		t.Fatalf("Resolve() error = %v, want *IdentityResolutionError", err1)
	}
	if want := (IdentKey{Ident: missing, SizePx: 16}); ie.Key != want {
		t.Errorf("Key = %v, want %v", ie.Key, want)
	}
	if !strings.Contains(err1.Error(), "not installed") {
		t.Errorf("error %q does not carry the provider message", err1)
	}

	_, err2 := a.Resolve(missing, 16.2)
	if err2 == nil || err2.Error() != err1.Error() {
		t.Errorf("replayed error = %v, want %v", err2, err1)
	}
	if got := env.sys.opens["Missing"]; got != 1 {
		t.Errorf("provider called %d times, want 1", got)
	}
	failed := a.FailedIdents()
	if _, ok := failed[IdentKey{Ident: missing, SizePx: 16}]; !ok || len(failed) != 1 {
		t.Errorf("FailedIdents() = %v", failed)
	}

	if err := a.ClearFailureHistory(); err != nil {
		t.Fatalf("ClearFailureHistory: %v", err)
	}
	if len(a.FailedIdents()) != 0 {
		t.Error("FailedIdents() not empty after ClearFailureHistory")
	}
	if _, err := a.Resolve(missing, 16); err == nil {
		t.Fatal("Resolve succeeded for a missing font")
	}
	if got := env.sys.opens["Missing"]; got != 2 {
		t.Errorf("provider called %d times after clearing, want 2", got)
	}
}

func TestResolveUnsupportedKinds(t *testing.T) {
	a := newTestAtlas(t)

	_, err := a.Resolve(FileFont("fonts/x.ttc", 1), 12)
	if !errors.Is(err, ErrUnsupportedIdent) {
		t.Errorf("file font error = %v, want ErrUnsupportedIdent", err)
	}
	_, err = a.Resolve(FileFont("fonts/x.ttc", 1), 12)
	if !errors.Is(err, ErrUnsupportedIdent) {
		t.Errorf("replayed file font error = %v, want ErrUnsupportedIdent", err)
	}

	_, err = a.Resolve(DefaultFont(), 12)
	var ae *ArgumentError
	if !errors.As(err, &ae) {
		t.Errorf("default identity error = %v, want *ArgumentError", err)
	}
	if n := len(a.FailedIdents()); n != 2 {
		t.Errorf("FailedIdents() has %d entries, want 2", n)
	}
	if a.TextureCount() != 1 || a.FontCount() != 0 {
		t.Errorf("failures allocated textures or fonts: %d, %d", a.TextureCount(), a.FontCount())
	}
}

func TestResolveWithoutProviders(t *testing.T) {
	a, err := New(WithDevice(&fakeDevice{}), WithTextureSize(256, 256))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Dispose()

	for _, id := range []FontIdent{sans, GameFont(gamefont.Axis)} {
		_, err := a.Resolve(id, 16)
		var ie *IdentityResolutionError
		if !errors.As(err, &ie) {
			t.Errorf("Resolve(%v) error = %v, want *IdentityResolutionError", id, err)
		}
	}
}

func TestOutlineFontPreload(t *testing.T) {
	env := newTestEnv(t)
	env.sys.missing["Sans"] = []rune{'�'}
	f, err := env.atlas.Resolve(sans, 16)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if f.Kind() != FontDirect {
		t.Errorf("Kind() = %v, want direct", f.Kind())
	}
	fnt := f.Font()
	if fnt.FallbackRune != '?' {
		t.Errorf("FallbackRune = %q, want '?'", fnt.FallbackRune)
	}
	for _, r := range []rune{' ', '?', '…', '.'} {
		if _, ok := fnt.Glyph(r); !ok {
			t.Errorf("glyph %q not preloaded", r)
		}
	}
	if _, ok := fnt.Glyph('�'); ok {
		t.Error("missing glyph U+FFFD loaded")
	}
	space, _ := fnt.Glyph(' ')
	if space.Visible || space.Texture != -1 || space.AdvanceX != 5 {
		t.Errorf("space glyph = %+v, want invisible with advance 5", space)
	}

	g, ok := fnt.FindGlyph('Z')
	if !ok || g.Rune != '?' {
		t.Errorf("FindGlyph('Z') = %q, %v, want the fallback glyph", g.Rune, ok)
	}
}

func TestOutlineGlyphGeometry(t *testing.T) {
	env := newTestEnv(t)
	f, err := env.atlas.Resolve(sans, 16)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := f.LoadGlyphs('A'); err != nil {
		t.Fatalf("LoadGlyphs: %v", err)
	}
	g, ok := f.Font().Glyph('A')
	if !ok {
		t.Fatal("glyph not loaded")
	}
	// The fake rasterizer draws a 10px box sitting on the baseline, and its
	// ascent is 10px, so the box starts at the top of the line.
	want := Glyph{Rune: 'A', Visible: true, AdvanceX: 10, X0: 0, Y0: 0, X1: 10, Y1: 10, Texture: 0}
	g.U0, g.V0, g.U1, g.V1 = 0, 0, 0, 0
	if g != want {
		t.Errorf("glyph = %+v, want %+v", g, want)
	}
}

func TestLoadGlyphsAttemptedOnce(t *testing.T) {
	env := newTestEnv(t)
	a := env.atlas
	f, err := a.Resolve(sans, 16)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for range 3 {
		if err := a.LoadGlyphs(f.Handle(), 'q', 'q', 'r'); err != nil {
			t.Fatalf("LoadGlyphs: %v", err)
		}
	}
	r := env.sys.opened[0]
	if r.calls['q'] != 1 || r.calls['r'] != 1 {
		t.Errorf("rasterize calls = %d, %d, want 1, 1", r.calls['q'], r.calls['r'])
	}
	if err := a.LoadGlyphs(FontHandle{}, 'x'); err != nil {
		t.Errorf("LoadGlyphs with an unknown handle = %v, want nil", err)
	}
}

func TestLoadGlyphRanges(t *testing.T) {
	env := newTestEnv(t)
	a := env.atlas
	f, err := a.Resolve(sans, 16)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	digits := rangetable.New('0', '1', '2')
	letters := rangetable.New('x', 'y')
	if err := a.LoadGlyphRanges(f.Handle(), digits, letters, digits); err != nil {
		t.Fatalf("LoadGlyphRanges: %v", err)
	}
	for _, r := range "012xy" {
		if _, ok := f.Font().Glyph(r); !ok {
			t.Errorf("glyph %q not loaded", r)
		}
	}
	if env.sys.opened[0].calls['1'] != 1 {
		t.Errorf("'1' rasterized %d times", env.sys.opened[0].calls['1'])
	}
	if err := a.LoadGlyphRanges(FontHandle{}, unicode.Latin); err != nil {
		t.Errorf("unknown handle: %v", err)
	}
}

func TestColoredGlyphsUseColorPlanes(t *testing.T) {
	env := newTestEnv(t)
	env.sys.colored = []rune{'😀'}
	a := env.atlas
	f, err := a.Resolve(sans, 16)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := f.LoadGlyphs('😀', 'm'); err != nil {
		t.Fatalf("LoadGlyphs: %v", err)
	}
	emoji, _ := f.Font().Glyph('😀')
	mono, _ := f.Font().Glyph('m')
	if !emoji.Colored || mono.Colored {
		t.Errorf("Colored = %v, %v, want true, false", emoji.Colored, mono.Colored)
	}
	if a.Plane(emoji.Texture).Kind() != PlaneColor || a.Plane(mono.Texture).Kind() != PlaneMonochrome {
		t.Errorf("plane kinds = %v, %v", a.Plane(emoji.Texture).Kind(), a.Plane(mono.Texture).Kind())
	}
	img := a.Plane(emoji.Texture).Image()
	x := int(emoji.U0*float32(img.Rect.Dx()) + 0.5)
	y := int(emoji.V0*float32(img.Rect.Dy()) + 0.5)
	if got := img.NRGBAAt(x, y); got.R != 0xC0 || got.A != 0xC0 {
		t.Errorf("color texel = %v, want 0xc0 components", got)
	}
}

func TestResolveChain(t *testing.T) {
	env := newTestEnv(t)
	env.sys.missing["Primary"] = []rune{'X'}
	a := env.atlas

	primary := SystemFont("Primary", font.Aspect{})
	fallback := SystemFont("Fallback", font.Aspect{})
	chain := NewFontChain(ChainEntry{primary, 16}, ChainEntry{fallback, 16})

	f, err := a.ResolveChain(chain)
	if err != nil {
		t.Fatalf("ResolveChain: %v", err)
	}
	if f.Kind() != FontChained {
		t.Errorf("Kind() = %v, want chained", f.Kind())
	}
	if !f.HasGlyph('X') || !f.HasGlyph('a') {
		t.Error("chain lacks a glyph of its members")
	}
	if err := f.LoadGlyphs('X', 'a'); err != nil {
		t.Fatalf("LoadGlyphs: %v", err)
	}

	pf, _ := a.Resolve(primary, 16)
	ff, _ := a.Resolve(fallback, 16)
	if _, ok := pf.Font().Glyph('X'); ok {
		t.Error("primary loaded a glyph it lacks")
	}
	got, _ := f.Font().Glyph('X')
	want, ok := ff.Font().Glyph('X')
	if !ok || got != want {
		t.Errorf("chained 'X' = %+v, want fallback glyph %+v", got, want)
	}
	got, _ = f.Font().Glyph('a')
	want, _ = pf.Font().Glyph('a')
	if got != want {
		t.Errorf("chained 'a' = %+v, want primary glyph %+v", got, want)
	}

	same := NewFontChain(ChainEntry{primary, 16}, ChainEntry{fallback, 16})
	again, err := a.ResolveChain(same)
	if err != nil || again != f {
		t.Errorf("equal chain resolved to %v, %v, want the cached font", again, err)
	}
	if got := a.FontCount(); got != 3 {
		t.Errorf("FontCount() = %d, want 3", got)
	}
}

func TestResolveChainSkipsDefault(t *testing.T) {
	a := newTestAtlas(t)
	f, err := a.ResolveChain(NewFontChain(ChainEntry{DefaultFont(), 0}, ChainEntry{sans, 14}))
	if err != nil {
		t.Fatalf("ResolveChain: %v", err)
	}
	cf := f.(*chainedFont)
	if members := cf.Members(); len(members) != 1 || members[0].Font().SizePx != 14 {
		t.Errorf("members = %v, want the single 14px font", members)
	}
}

func TestResolveChainInvalid(t *testing.T) {
	a := newTestAtlas(t)
	for _, chain := range []FontChain{
		NewFontChain(),
		NewFontChain(ChainEntry{DefaultFont(), 16}),
	} {
		_, err := a.ResolveChain(chain)
		if !errors.Is(err, ErrInvalidChain) {
			t.Errorf("ResolveChain(%q) error = %v, want ErrInvalidChain", chain, err)
		}
		_, err = a.ResolveChain(chain)
		if !errors.Is(err, ErrInvalidChain) {
			t.Errorf("replayed ResolveChain(%q) error = %v, want ErrInvalidChain", chain, err)
		}
	}
	if n := len(a.FailedChains()); n != 2 {
		t.Errorf("FailedChains() has %d entries, want 2", n)
	}
	if a.TextureCount() != 1 || a.FontCount() != 0 {
		t.Errorf("invalid chains allocated textures or fonts: %d, %d", a.TextureCount(), a.FontCount())
	}
}

func TestResolveChainMemberFailure(t *testing.T) {
	env := newTestEnv(t)
	env.sys.fail["Missing"] = true
	a := env.atlas
	chain := NewFontChain(ChainEntry{sans, 16}, ChainEntry{SystemFont("Missing", font.Aspect{}), 16})

	_, err := a.ResolveChain(chain)
	var ce *ChainResolutionError
	if !errors.As(err, &ce) {
		t.Fatalf("ResolveChain error = %v, want *ChainResolutionError", err)
	}
	if errors.Is(err, ErrInvalidChain) {
		t.Error("member failure reported as an invalid chain")
	}
	if !strings.Contains(ce.Reason, "not installed") || ce.Chain != chain.Key() {
		t.Errorf("error = %+v", ce)
	}

	_, err2 := a.ResolveChain(chain)
	if err2 == nil || err2.Error() != err.Error() {
		t.Errorf("replayed error = %v, want %v", err2, err)
	}
	if env.sys.opens["Missing"] != 1 {
		t.Errorf("Missing opened %d times, want 1", env.sys.opens["Missing"])
	}
	if _, ok := a.FailedChains()[chain.Key()]; !ok {
		t.Error("chain failure not listed")
	}

	if err := a.ClearFailureHistory(); err != nil {
		t.Fatalf("ClearFailureHistory: %v", err)
	}
	env.sys.fail["Missing"] = false
	if _, err := a.ResolveChain(chain); err != nil {
		t.Errorf("ResolveChain after clearing = %v", err)
	}
}

func TestUse(t *testing.T) {
	env := newTestEnv(t)
	a := env.atlas
	f, scope, err := a.Use(sans, 16)
	if err != nil {
		t.Fatalf("Use: %v", err)
	}
	before := env.dev.totalWrites()
	if err := f.LoadGlyphs('u', 'v'); err != nil {
		t.Fatalf("LoadGlyphs: %v", err)
	}
	if env.dev.totalWrites() != before {
		t.Error("upload inside a Use scope")
	}
	if err := scope.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if env.dev.totalWrites() != before+1 {
		t.Errorf("uploads after release = %d, want %d", env.dev.totalWrites(), before+1)
	}

	if _, _, err := a.Use(DefaultFont(), 16); err == nil {
		t.Error("Use(DefaultFont) succeeded")
	}
	if a.Suppressed() {
		t.Error("failed Use left a scope open")
	}
}

func TestFontSlots(t *testing.T) {
	a := newTestAtlas(t)
	f, err := a.Resolve(sans, 16)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	got, ok := a.FontAt(f.Handle().Slot())
	if !ok || got != f {
		t.Errorf("FontAt(%d) = %v, %v", f.Handle().Slot(), got, ok)
	}
	if _, ok := a.FontAt(5); ok {
		t.Error("FontAt(5) found a font")
	}
	if _, ok := a.FontAt(-1); ok {
		t.Error("FontAt(-1) found a font")
	}
}

func TestLoadGlyphsContinuesAfterFullAtlas(t *testing.T) {
	env := newTestEnv(t, WithMaxPlanes(1))
	env.sys.runeSizes = map[rune]int{'W': 250}
	a := env.atlas
	f, err := a.Resolve(sans, 16)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for i := 0; ; i++ {
		if _, err := a.Allocate(200, 255, false); err != nil {
			if !errors.Is(err, ErrResourceExhausted) {
				t.Fatalf("Allocate: %v", err)
			}
			break
		}
		if i > 4 {
			t.Fatal("plane never filled up")
		}
	}

	err = f.LoadGlyphs('W', 'a', 'b')
	if !errors.Is(err, ErrResourceExhausted) {
		t.Fatalf("LoadGlyphs error = %v, want ErrResourceExhausted", err)
	}
	for _, r := range "ab" {
		if g, ok := f.Font().Glyph(r); !ok || !g.Visible {
			t.Errorf("glyph %q after a full-atlas failure = %+v, %v, want loaded", r, g, ok)
		}
	}
	if _, ok := f.Font().Glyph('W'); ok {
		t.Error("glyph that did not fit was added")
	}

	if err := f.LoadGlyphs('W', 'a'); !errors.Is(err, ErrResourceExhausted) {
		t.Errorf("second LoadGlyphs error = %v, want ErrResourceExhausted", err)
	}
	r := env.sys.opened[0]
	if r.calls['W'] != 2 || r.calls['a'] != 1 {
		t.Errorf("rasterize calls W, a = %d, %d, want 2, 1", r.calls['W'], r.calls['a'])
	}
}

func TestLoadGlyphsContinuesAfterOversizedGlyph(t *testing.T) {
	env := newTestEnv(t)
	env.sys.runeSizes = map[rune]int{'W': 300}
	a := env.atlas
	f, err := a.Resolve(sans, 16)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	err = f.LoadGlyphs('W', 'a')
	var ae *ArgumentError
	if !errors.As(err, &ae) {
		t.Fatalf("LoadGlyphs error = %v, want *ArgumentError", err)
	}
	if _, ok := f.Font().Glyph('a'); !ok {
		t.Error("glyph after an oversized one not loaded")
	}

	chained, err := a.ResolveChain(NewFontChain(ChainEntry{sans, 16}))
	if err != nil {
		t.Fatalf("ResolveChain: %v", err)
	}
	if err := chained.LoadGlyphs('W', 'c'); !errors.As(err, &ae) {
		t.Errorf("chained LoadGlyphs error = %v, want *ArgumentError", err)
	}
	if _, ok := chained.Font().Glyph('c'); !ok {
		t.Error("chained glyph after an oversized one not loaded")
	}
}

func TestFontSlotsStable(t *testing.T) {
	env := newTestEnv(t)
	a := env.atlas
	first, err := a.Resolve(sans, 16)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	h := first.Handle()

	for i := range 10 {
		if _, err := a.Resolve(sans, float32(17+i)); err != nil {
			t.Fatalf("Resolve(%d): %v", 17+i, err)
		}
		if _, err := a.Resolve(SystemFont("Other", font.Aspect{}), float32(8+i)); err != nil {
			t.Fatalf("Resolve Other: %v", err)
		}
	}
	if _, err := a.Resolve(GameFont(gamefont.Axis), 14); err != nil {
		t.Fatalf("Resolve game: %v", err)
	}

	if got, ok := a.FontAt(h.Slot()); !ok || got != first {
		t.Errorf("FontAt(%d) = %v, %v, want the first font", h.Slot(), got, ok)
	}
	if got, ok := a.FontByHandle(h); !ok || got != first {
		t.Errorf("FontByHandle(%v) = %v, %v, want the first font", h, got, ok)
	}
	if again, err := a.Resolve(sans, 16); err != nil || again != first || again.Handle() != h {
		t.Errorf("Resolve(sans, 16) = %v, %v, want the first font", again, err)
	}
	for i := range a.FontCount() {
		f, _ := a.FontAt(i)
		if f.Handle().Slot() != i {
			t.Errorf("font in slot %d has handle slot %d", i, f.Handle().Slot())
		}
	}
}

func TestResolveGameThenChain(t *testing.T) {
	env := newTestEnv(t)
	a := env.atlas
	axis := GameFont(gamefont.Axis)

	h1, err := a.Resolve(axis, 14)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	textures, fonts := a.TextureCount(), a.FontCount()
	again, err := a.Resolve(axis, 14)
	if err != nil || again != h1 {
		t.Fatalf("second Resolve = %v, %v, want the first font", again, err)
	}
	if a.TextureCount() != textures || a.FontCount() != fonts {
		t.Errorf("second Resolve grew textures %d -> %d, fonts %d -> %d",
			textures, a.TextureCount(), fonts, a.FontCount())
	}

	h2, err := a.ResolveChain(NewFontChain(ChainEntry{axis, 14}, ChainEntry{sans, 12}))
	if err != nil {
		t.Fatalf("ResolveChain: %v", err)
	}
	if h2.Kind() != FontChained {
		t.Fatalf("Kind() = %v, want chained", h2.Kind())
	}
	h3, err := a.Resolve(sans, 12)
	if err != nil {
		t.Fatalf("Resolve system: %v", err)
	}
	members := h2.(*chainedFont).Members()
	if len(members) != 2 || members[0] != h1 || members[1] != h3 {
		t.Errorf("members = %v, want [%v %v]", members, h1.Handle(), h3.Handle())
	}
	if h3 == h1 || h2 == h1 || h2 == h3 {
		t.Error("chain and member fonts share a slot")
	}

	h2again, err := a.ResolveChain(NewFontChain(ChainEntry{axis, 14}, ChainEntry{sans, 12}))
	if err != nil || h2again != h2 {
		t.Errorf("ResolveChain of an equal literal = %v, %v, want the first chain", h2again, err)
	}
}
