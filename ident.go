package fontatlas

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-text/typesetting/font"

	"github.com/gogpu/fontatlas/gamefont"
)

// IdentKind tags the variant held by a FontIdent.
type IdentKind uint8

// Identity kinds.
const (
	KindDefault IdentKind = iota
	KindGame
	KindSystem
	KindFile
)

// String returns the kind name used in chain descriptors.
func (k IdentKind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindGame:
		return "game"
	case KindSystem:
		return "system"
	case KindFile:
		return "file"
	default:
		return fmt.Sprintf("IdentKind(%d)", uint8(k))
	}
}

// FontIdent identifies a font source. It is a comparable value: equal
// identities share cache entries. Only the fields of its Kind are set.
//
// The zero value is the default identity.
type FontIdent struct {
	Kind IdentKind

	// Game is the family of a KindGame identity.
	Game gamefont.Family

	// Name and Variant select a KindSystem identity.
	Name    string
	Variant font.Aspect

	// Path and Index select a face of a KindFile identity.
	Path  string
	Index int
}

// GameFont returns the identity of a game bitmap font family.
func GameFont(family gamefont.Family) FontIdent {
	return FontIdent{Kind: KindGame, Game: family}
}

// SystemFont returns the identity of an installed font family. Unset
// variant fields default to the regular face.
func SystemFont(name string, variant font.Aspect) FontIdent {
	variant.SetDefaults()
	return FontIdent{Kind: KindSystem, Name: name, Variant: variant}
}

// FileFont returns the identity of face index of a font file.
func FileFont(path string, index int) FontIdent {
	return FontIdent{Kind: KindFile, Path: path, Index: index}
}

// DefaultFont returns the default identity.
func DefaultFont() FontIdent {
	return FontIdent{}
}

// String renders the identity in chain descriptor syntax, for example
// `system:"Noto Sans"/bold+italic`.
func (id FontIdent) String() string {
	switch id.Kind {
	case KindGame:
		return "game:" + id.Game.String()
	case KindSystem:
		s := "system:" + strconv.Quote(id.Name)
		if words := VariantWords(id.Variant); len(words) > 0 {
			s += "/" + strings.Join(words, "+")
		}
		return s
	case KindFile:
		s := "file:" + strconv.Quote(id.Path)
		if id.Index != 0 {
			s += "#" + strconv.Itoa(id.Index)
		}
		return s
	default:
		return id.Kind.String()
	}
}

// IdentKey is the resolution cache key: an identity at a whole pixel size.
type IdentKey struct {
	Ident  FontIdent
	SizePx int
}

func (k IdentKey) String() string {
	return k.Ident.String() + "@" + strconv.Itoa(k.SizePx)
}

// roundSize rounds a pixel size to the nearest integer, halves away from zero.
func roundSize(sizePx float32) int {
	return int(math.RoundToEven(float64(sizePx)))
}

// ChainEntry is one font of a FontChain.
type ChainEntry struct {
	Ident  FontIdent
	SizePx float32
}

func (e ChainEntry) String() string {
	if e.SizePx == 0 {
		return e.Ident.String()
	}
	return e.Ident.String() + "@" + strconv.FormatFloat(float64(e.SizePx), 'g', -1, 32)
}

// FontChain is an ordered list of fonts: the first is primary, the rest
// supply glyphs the earlier ones lack. Chains with equal entries have equal
// keys and share one resolved font.
type FontChain struct {
	entries []ChainEntry
	key     string
}

// NewFontChain creates a chain. The entries are copied.
func NewFontChain(entries ...ChainEntry) FontChain {
	c := FontChain{entries: append([]ChainEntry(nil), entries...)}
	parts := make([]string, len(c.entries))
	for i, e := range c.entries {
		parts[i] = e.String()
	}
	c.key = strings.Join(parts, ", ")
	return c
}

// Entries returns a copy of the chain entries.
func (c FontChain) Entries() []ChainEntry {
	return append([]ChainEntry(nil), c.entries...)
}

// Len returns the number of entries.
func (c FontChain) Len() int {
	return len(c.entries)
}

// Key returns the canonical content key of the chain.
func (c FontChain) Key() string {
	return c.key
}

// String returns the chain in descriptor syntax.
func (c FontChain) String() string {
	return c.key
}

// Valid reports whether at least one entry is not the default identity.
func (c FontChain) Valid() bool {
	for _, e := range c.entries {
		if e.Ident.Kind != KindDefault {
			return true
		}
	}
	return false
}
