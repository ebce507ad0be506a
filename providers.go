package fontatlas

import (
	"image"

	"github.com/go-text/typesetting/font"

	"github.com/gogpu/fontatlas/gamefont"
	"github.com/gogpu/fontatlas/glyph"
)

// SystemFontProvider opens installed fonts for rasterization.
// The systemfont package provides the standard implementation.
type SystemFontProvider interface {
	// OpenSystemFont returns a rasterizer for the family name in the given
	// variant at sizePx pixels. It fails when the family is not installed.
	OpenSystemFont(name string, variant font.Aspect, sizePx float64) (glyph.Rasterizer, error)
}

// GameFontProvider supplies pre-rasterized game bitmap fonts.
// gamefont.FSProvider is the standard implementation.
type GameFontProvider interface {
	// Layout returns the glyph layout of one native size.
	Layout(fas gamefont.FamilyAndSize) (*gamefont.Layout, error)

	// TextureSetKey identifies the texture set shared by every layout.
	TextureSetKey() string

	// LoadTexture decodes texture index of the set.
	LoadTexture(index int) (image.Image, error)
}
