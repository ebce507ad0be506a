package fontatlas

import (
	"errors"
	"testing"

	"github.com/gogpu/fontatlas/gamefont"
)

func TestResolveGameFontDirect(t *testing.T) {
	env := newTestEnv(t)
	a := env.atlas

	f, err := a.Resolve(GameFont(gamefont.Axis), 16)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if f.Kind() != FontDirect {
		t.Errorf("Kind() = %v, want direct", f.Kind())
	}
	fnt := f.Font()
	if fnt.Ascent != 16 || fnt.Descent != 4 || fnt.LineHeight != 20 {
		t.Errorf("metrics = %v, %v, %v, want 16, 4, 20", fnt.Ascent, fnt.Descent, fnt.LineHeight)
	}
	if fnt.FallbackRune != '?' {
		t.Errorf("FallbackRune = %q, want '?'", fnt.FallbackRune)
	}

	if got := a.TextureCount(); got != 2 {
		t.Fatalf("TextureCount() = %d, want 2", got)
	}
	p := a.Plane(1)
	if p.Kind() != PlaneWhole || p.Width() != 64 || p.Height() != 32 {
		t.Errorf("texture 1 = %v %dx%d, want whole 64x32", p.Kind(), p.Width(), p.Height())
	}
	tex := env.dev.textures[1]
	if env.dev.writes[1] != 1 {
		t.Errorf("game texture uploads = %d, want 1", env.dev.writes[1])
	}
	if got := tex.data[(1*64+1)*4 : (1*64+1)*4+4]; got[0] != 1 || got[1] != 2 || got[2] != 3 || got[3] != 4 {
		t.Errorf("uploaded texel = %v, want [1 2 3 4]", got)
	}

	if err := f.LoadGlyphs('A', 'B', 'Z'); err != nil {
		t.Fatalf("LoadGlyphs: %v", err)
	}
	tests := []struct {
		r    rune
		want Glyph
	}{
		{'A', Glyph{
			Rune: 'A', Visible: true, AdvanceX: 9,
			X0: 0, Y0: 4, X1: 8, Y1: 16, Texture: 1,
			U0: 1, V0: 0, U1: 1 + 8.0/64, V1: 12.0 / 32,
		}},
		{'B', Glyph{
			Rune: 'B', Visible: true, Colored: true, AdvanceX: 8,
			X0: 1, Y0: 4, X1: 8, Y1: 16, Texture: 1,
			U0: 8.0 / 64, V0: 0, U1: 15.0 / 64, V1: 12.0 / 32,
		}},
		{'?', Glyph{
			Rune: '?', Visible: true, AdvanceX: 7,
			X0: 0, Y0: 4, X1: 6, Y1: 16, Texture: 1,
			U0: 2 + 16.0/64, V0: 0, U1: 2 + 22.0/64, V1: 12.0 / 32,
		}},
		{' ', Glyph{Rune: ' ', AdvanceX: 4, Texture: -1}},
	}
	for _, tt := range tests {
		got, ok := fnt.Glyph(tt.r)
		if !ok {
			t.Errorf("glyph %q not loaded", tt.r)
			continue
		}
		if got != tt.want {
			t.Errorf("glyph %q = %+v, want %+v", tt.r, got, tt.want)
		}
	}
	if _, ok := fnt.Glyph('Z'); ok {
		t.Error("glyph absent from the layout was loaded")
	}
}

func TestResolveGameFontScaled(t *testing.T) {
	env := newTestEnv(t)
	a := env.atlas

	f, err := a.Resolve(GameFont(gamefont.Axis), 14)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if f.Kind() != FontScaled {
		t.Fatalf("Kind() = %v, want scaled", f.Kind())
	}
	base, err := a.Resolve(GameFont(gamefont.Axis), 16)
	if err != nil {
		t.Fatalf("Resolve base: %v", err)
	}
	if base.Kind() != FontDirect {
		t.Errorf("base Kind() = %v, want direct", base.Kind())
	}
	if got := f.(*scaledFont).Scale(); got != 14.0/16 {
		t.Errorf("Scale() = %v, want %v", got, 14.0/16)
	}
	if got := a.FontCount(); got != 2 {
		t.Errorf("FontCount() = %d, want 2", got)
	}

	if err := f.LoadGlyphs('A'); err != nil {
		t.Fatalf("LoadGlyphs: %v", err)
	}
	got, _ := f.Font().Glyph('A')
	orig, _ := base.Font().Glyph('A')
	if got.X1 != 7 || got.Y0 != 3.5 || got.Y1 != 14 || got.AdvanceX != 7.875 {
		t.Errorf("scaled glyph = %+v", got)
	}
	if got.U0 != orig.U0 || got.V1 != orig.V1 || got.Texture != orig.Texture {
		t.Errorf("scaled glyph UV %v,%v tex %d differ from base %v,%v tex %d",
			got.U0, got.V1, got.Texture, orig.U0, orig.V1, orig.Texture)
	}
	if f.Font().Ascent != 14 {
		t.Errorf("scaled Ascent = %v, want 14", f.Font().Ascent)
	}

	if env.game.loads != 1 || a.TextureCount() != 2 {
		t.Errorf("texture loads, count = %d, %d, want 1, 2", env.game.loads, a.TextureCount())
	}
}

func TestEnsureTextures(t *testing.T) {
	env := newTestEnv(t)
	a := env.atlas
	key := env.game.TextureSetKey()

	ids, err := a.EnsureTextures(key, 1)
	if err != nil {
		t.Fatalf("EnsureTextures: %v", err)
	}
	if len(ids) != 1 || ids[0] != 1 {
		t.Fatalf("EnsureTextures() = %v, want [1]", ids)
	}
	ids[0] = 99

	again, err := a.EnsureTextures(key, 1)
	if err != nil || len(again) != 1 || again[0] != 1 {
		t.Errorf("second EnsureTextures() = %v, %v, want [1]", again, err)
	}
	none, err := a.EnsureTextures(key, 0)
	if err != nil || len(none) != 0 {
		t.Errorf("EnsureTextures(0) = %v, %v", none, err)
	}
	if env.game.loads != 1 {
		t.Errorf("texture loads = %d, want 1", env.game.loads)
	}

	if _, err := a.EnsureTextures(key, 2); err == nil {
		t.Error("EnsureTextures of a missing page succeeded")
	}
	if got := a.TextureCount(); got != 2 {
		t.Errorf("TextureCount() = %d after a failed load, want 2", got)
	}

	var ae *ArgumentError
	if _, err := a.EnsureTextures(key, -1); !errors.As(err, &ae) {
		t.Errorf("EnsureTextures(-1) error = %v, want *ArgumentError", err)
	}
}

func TestEnsureTexturesFlushesFirst(t *testing.T) {
	env := newTestEnv(t)
	a := env.atlas
	if err := a.MarkDirty(0); err != nil {
		t.Fatalf("MarkDirty: %v", err)
	}
	if _, err := a.EnsureTextures(env.game.TextureSetKey(), 1); err != nil {
		t.Fatalf("EnsureTextures: %v", err)
	}
	if a.Plane(0).Dirty() {
		t.Error("pending plane upload not flushed before loading textures")
	}
}

func TestGameFontExhaustionNotCached(t *testing.T) {
	env := newTestEnv(t, WithMaxPlanes(1))
	a := env.atlas

	_, err := a.Resolve(GameFont(gamefont.Axis), 16)
	if !errors.Is(err, ErrResourceExhausted) {
		t.Fatalf("Resolve error = %v, want ErrResourceExhausted", err)
	}
	if n := len(a.FailedIdents()); n != 0 {
		t.Errorf("exhaustion cached %d failures", n)
	}
	if env.game.loads != 0 {
		t.Errorf("texture loads = %d, want 0", env.game.loads)
	}
}

func TestGameFontMissingLayout(t *testing.T) {
	a := newTestAtlas(t)
	_, err := a.Resolve(GameFont(gamefont.Jupiter), 21)
	var ie *IdentityResolutionError
	if !errors.As(err, &ie) {
		t.Fatalf("Resolve error = %v, want *IdentityResolutionError", err)
	}
	if _, ok := a.FailedIdents()[ie.Key]; !ok {
		t.Error("missing layout failure not cached")
	}

	_, err = a.Resolve(GameFont(gamefont.Undefined), 16)
	if !errors.As(err, &ie) {
		t.Errorf("undefined family error = %v, want *IdentityResolutionError", err)
	}
}

func TestEnsureTexturesIgnoresUnrelatedUploadFailure(t *testing.T) {
	env := newTestEnv(t)
	a := env.atlas
	env.dev.failIDs = map[int]bool{0: true}
	if err := a.MarkDirty(0); err != nil {
		t.Fatalf("MarkDirty: %v", err)
	}

	f, err := a.Resolve(GameFont(gamefont.Axis), 16)
	if err != nil {
		t.Fatalf("Resolve with a failing plane 0 = %v", err)
	}
	if f.Kind() != FontDirect {
		t.Errorf("Kind() = %v, want direct", f.Kind())
	}
	if !a.Plane(0).Dirty() {
		t.Error("failed plane 0 upload cleared the dirty flag")
	}

	env.dev.failIDs = nil
	if err := a.Flush(); err != nil {
		t.Fatalf("Flush after recovery: %v", err)
	}
	if a.Plane(0).Dirty() {
		t.Error("plane 0 still dirty after recovery")
	}
}

func TestGameFontUploadFailureNotCached(t *testing.T) {
	env := newTestEnv(t)
	a := env.atlas
	env.dev.failWrites = true

	_, err := a.Resolve(GameFont(gamefont.Axis), 16)
	var ue *UploadError
	if !errors.As(err, &ue) {
		t.Fatalf("Resolve error = %v, want *UploadError", err)
	}
	if n := len(a.FailedIdents()); n != 0 {
		t.Errorf("device failure cached %d failures", n)
	}

	env.dev.failWrites = false
	if _, err := a.Resolve(GameFont(gamefont.Axis), 16); err != nil {
		t.Errorf("Resolve after the device recovered = %v", err)
	}
}

func TestGameFontKerning(t *testing.T) {
	a := newTestAtlas(t)
	axis := GameFont(gamefont.Axis)

	direct, err := a.Resolve(axis, 16)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	scaled, err := a.Resolve(axis, 14)
	if err != nil {
		t.Fatalf("Resolve scaled: %v", err)
	}
	chained, err := a.ResolveChain(NewFontChain(ChainEntry{axis, 16}, ChainEntry{sans, 16}))
	if err != nil {
		t.Fatalf("ResolveChain: %v", err)
	}
	outline, err := a.Resolve(sans, 16)
	if err != nil {
		t.Fatalf("Resolve system: %v", err)
	}

	tests := []struct {
		name          string
		f             ResolvedFont
		first, second rune
		want          float32
	}{
		{"direct", direct, 'A', '?', -2},
		{"direct reversed", direct, '?', 'A', 0},
		{"scaled", scaled, 'A', '?', -2 * 14.0 / 16},
		{"chained", chained, 'A', '?', -2},
		{"chained across members", chained, 'A', 'x', 0},
		{"outline", outline, 'A', '?', 0},
	}
	for _, tt := range tests {
		if got := tt.f.Font().Kerning(tt.first, tt.second); got != tt.want {
			t.Errorf("%s: Kerning(%q, %q) = %v, want %v", tt.name, tt.first, tt.second, got, tt.want)
		}
	}
}
