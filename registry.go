package fontatlas

import (
	"fmt"
	"math"
	"unicode"

	"golang.org/x/text/unicode/rangetable"

	"github.com/gogpu/fontatlas/gamefont"
)

// Resolve returns the font for ident at sizePx pixels, creating it on first
// use. The size is rounded to the nearest whole pixel; requests that round
// to the same size share one font.
//
// Failures are remembered: a failed identity fails again with an equal
// error, without retrying, until ClearFailureHistory. Errors matching
// ErrResourceExhausted or ErrDisposed are not remembered.
func (a *Atlas) Resolve(ident FontIdent, sizePx float32) (ResolvedFont, error) {
	if a.disposed {
		return nil, disposedError("Resolve")
	}
	if !(sizePx > 0) || math.IsInf(float64(sizePx), 0) || roundSize(sizePx) < 1 {
		return nil, &ArgumentError{Arg: "size", Reason: fmt.Sprintf("%v is not a usable pixel size", sizePx)}
	}
	return a.resolveKey(IdentKey{Ident: ident, SizePx: roundSize(sizePx)})
}

func (a *Atlas) resolveKey(key IdentKey) (ResolvedFont, error) {
	if f, ok := a.byKey[key]; ok {
		return f, nil
	}
	if fl, ok := a.failedKeys[key]; ok {
		return nil, fl.err()
	}

	f, err := a.create(key)
	if err != nil {
		if !cacheable(err) {
			return nil, err
		}
		fl := identFailure(key, err)
		a.failedKeys[key] = fl
		Logger().Debug("fontatlas: resolve failed", "key", key, "err", err)
		return nil, fl.err()
	}
	a.byKey[key] = f
	Logger().Debug("fontatlas: font resolved", "key", key, "kind", f.Kind(), "handle", f.Handle())
	return f, nil
}

func (a *Atlas) create(key IdentKey) (ResolvedFont, error) {
	switch key.Ident.Kind {
	case KindGame:
		return a.createGame(key)
	case KindSystem:
		return a.createSystem(key)
	case KindFile:
		return nil, &IdentityResolutionError{Key: key, Reason: "file fonts are not supported", unsupported: true}
	default:
		return nil, &ArgumentError{Arg: "ident", Reason: key.Ident.Kind.String() + " identity cannot be resolved on its own"}
	}
}

func (a *Atlas) createGame(key IdentKey) (ResolvedFont, error) {
	if a.cfg.gameFonts == nil {
		return nil, &IdentityResolutionError{Key: key, Reason: "no game font provider"}
	}
	native := gamefont.Recommend(key.Ident.Game, float32(key.SizePx)*3/4)
	if !native.Valid() {
		return nil, &IdentityResolutionError{Key: key, Reason: "unknown game font family"}
	}

	nativePx := native.SizePx()
	if roundSize(nativePx) != key.SizePx {
		inner, err := a.Resolve(key.Ident, nativePx)
		if err != nil {
			return nil, err
		}
		f := newScaledFont(a, inner, float32(key.SizePx), float32(key.SizePx)/nativePx)
		a.register(f)
		preload(f)
		return f, nil
	}

	layout, err := a.cfg.gameFonts.Layout(native)
	if err != nil {
		return nil, &IdentityResolutionError{Key: key, Reason: err.Error()}
	}
	textures, err := a.EnsureTextures(a.cfg.gameFonts.TextureSetKey(), layout.PageCount())
	if err != nil {
		if !cacheable(err) {
			return nil, err
		}
		return nil, &IdentityResolutionError{Key: key, Reason: err.Error()}
	}
	f := newBitmapFont(a, layout, textures)
	a.register(f)
	preload(f)
	return f, nil
}

func (a *Atlas) createSystem(key IdentKey) (ResolvedFont, error) {
	if a.cfg.systemFonts == nil {
		return nil, &IdentityResolutionError{Key: key, Reason: "no system font provider"}
	}
	rast, err := a.cfg.systemFonts.OpenSystemFont(key.Ident.Name, key.Ident.Variant, float64(key.SizePx))
	if err != nil {
		return nil, &IdentityResolutionError{Key: key, Reason: err.Error()}
	}
	f := newOutlineFont(a, rast, float32(key.SizePx))
	a.register(f)
	preload(f)
	return f, nil
}

// register appends f to the font slots and issues its handle.
func (a *Atlas) register(f ResolvedFont) {
	h := FontHandle{gen: a.gen, slot: uint32(len(a.fonts))}
	f.base().handle = h
	a.fonts = append(a.fonts, f)
	a.byHandle[h] = f
}

// ResolveChain returns the font for chain, creating it on first use.
// Chains with equal entries share one font. Default entries are skipped;
// a chain made only of default entries is invalid.
//
// Failures are remembered like those of Resolve.
func (a *Atlas) ResolveChain(chain FontChain) (ResolvedFont, error) {
	if a.disposed {
		return nil, disposedError("ResolveChain")
	}
	key := chain.Key()
	if f, ok := a.byChain[key]; ok {
		return f, nil
	}
	if fl, ok := a.failedChains[key]; ok {
		return nil, fl.err()
	}
	if !chain.Valid() {
		fl := failure{kind: failChainInvalid, chain: key, msg: "chain has no non-default entry"}
		a.failedChains[key] = fl
		return nil, fl.err()
	}

	var members []ResolvedFont
	for _, e := range chain.entries {
		if e.Ident.Kind == KindDefault {
			continue
		}
		m, err := a.Resolve(e.Ident, e.SizePx)
		if err != nil {
			if !cacheable(err) {
				return nil, err
			}
			fl := failure{kind: failChain, chain: key, msg: err.Error()}
			a.failedChains[key] = fl
			Logger().Debug("fontatlas: chain failed", "chain", key, "err", err)
			return nil, fl.err()
		}
		members = append(members, m)
	}

	f := newChainedFont(a, members)
	a.register(f)
	preload(f)
	a.byChain[key] = f
	return f, nil
}

// ClearFailureHistory forgets every remembered failure so the next request
// retries.
func (a *Atlas) ClearFailureHistory() error {
	if a.disposed {
		return disposedError("ClearFailureHistory")
	}
	clear(a.failedKeys)
	clear(a.failedChains)
	return nil
}

// FailedIdents returns the remembered identity failures.
func (a *Atlas) FailedIdents() map[IdentKey]error {
	out := make(map[IdentKey]error, len(a.failedKeys))
	for k, fl := range a.failedKeys {
		out[k] = fl.err()
	}
	return out
}

// FailedChains returns the remembered chain failures by chain key.
func (a *Atlas) FailedChains() map[string]error {
	out := make(map[string]error, len(a.failedChains))
	for k, fl := range a.failedChains {
		out[k] = fl.err()
	}
	return out
}

// FontByHandle returns the font of h. Handles of other atlases are not
// found, and neither is any handle once the atlas is closed.
func (a *Atlas) FontByHandle(h FontHandle) (ResolvedFont, bool) {
	f, ok := a.byHandle[h]
	return f, ok
}

// FontAt returns the font in slot i. A closed atlas has no slots.
func (a *Atlas) FontAt(i int) (ResolvedFont, bool) {
	if i < 0 || i >= len(a.fonts) {
		return nil, false
	}
	return a.fonts[i], true
}

// FontCount returns the number of font slots.
func (a *Atlas) FontCount() int {
	return len(a.fonts)
}

// LoadGlyphs loads runes into the font of h. Unknown handles are ignored.
func (a *Atlas) LoadGlyphs(h FontHandle, runes ...rune) error {
	if a.disposed {
		return disposedError("LoadGlyphs")
	}
	f, ok := a.byHandle[h]
	if !ok {
		return nil
	}
	return f.LoadGlyphs(runes...)
}

// LoadGlyphRanges loads every rune of tables into the font of h.
//
//	err := a.LoadGlyphRanges(h, unicode.Latin, unicode.Greek)
func (a *Atlas) LoadGlyphRanges(h FontHandle, tables ...*unicode.RangeTable) error {
	if a.disposed {
		return disposedError("LoadGlyphRanges")
	}
	f, ok := a.byHandle[h]
	if !ok || len(tables) == 0 {
		return nil
	}
	var runes []rune
	rangetable.Visit(rangetable.Merge(tables...), func(r rune) {
		runes = append(runes, r)
	})
	return f.LoadGlyphs(runes...)
}

// Use resolves ident and opens a suppression scope for the caller's batch
// of glyph loads. The caller releases the scope when done.
func (a *Atlas) Use(ident FontIdent, sizePx float32) (ResolvedFont, *SuppressionScope, error) {
	f, err := a.Resolve(ident, sizePx)
	if err != nil {
		return nil, nil, err
	}
	scope, err := a.BeginSuppression()
	if err != nil {
		return nil, nil, err
	}
	return f, scope, nil
}
