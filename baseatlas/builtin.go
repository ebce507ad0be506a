// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package baseatlas

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/fontatlas/internal/rectpack"
)

// maxLineWidth is the widest pre-rendered anti-aliased line.
const maxLineWidth = 63

// errTooSmall is returned when the reserved regions do not fit the texture.
var errTooSmall = errors.New("baseatlas: texture too small for reserved regions")

type builtin struct {
	name   string
	data   []byte
	sizePx float32
	ranges []Range
}

// BuiltinOption configures the built-in backend.
type BuiltinOption func(*builtin)

// WithFont replaces the default Go Regular font data.
func WithFont(name string, ttf []byte) BuiltinOption {
	return func(b *builtin) {
		b.name = name
		b.data = ttf
	}
}

// WithDefaultGlyphSet sets the size and ranges added by AddDefaultGlyphSet.
func WithDefaultGlyphSet(sizePx float32, ranges ...Range) BuiltinOption {
	return func(b *builtin) {
		b.sizePx = sizePx
		b.ranges = ranges
	}
}

// NewBuiltin returns a backend that rasterizes with golang.org/x/image.
// The default glyph set is the space of Go Regular at 13px: just enough
// for a valid build.
func NewBuiltin(opts ...BuiltinOption) Backend {
	b := &builtin{
		name:   "Go Regular",
		data:   goregular.TTF,
		sizePx: 13,
		ranges: []Range{{' ', ' '}},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *builtin) CreateAtlas(width, height int) (Atlas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("baseatlas: invalid size %dx%d", width, height)
	}
	return &builtinAtlas{backend: b, width: width, height: height}, nil
}

type builtinAtlas struct {
	backend   *builtin
	width     int
	height    int
	configs   []FontConfig
	result    *Result
	destroyed bool
}

func (a *builtinAtlas) AddDefaultGlyphSet() error {
	if a.destroyed {
		return ErrDestroyed
	}
	a.configs = append(a.configs, FontConfig{
		Name:   a.backend.name,
		SizePx: a.backend.sizePx,
		Ranges: append([]Range(nil), a.backend.ranges...),
	})
	return nil
}

func (a *builtinAtlas) Build() (*Result, error) {
	if a.destroyed {
		return nil, ErrDestroyed
	}
	if len(a.configs) == 0 {
		if err := a.AddDefaultGlyphSet(); err != nil {
			return nil, err
		}
	}
	f, err := opentype.Parse(a.backend.data)
	if err != nil {
		return nil, fmt.Errorf("baseatlas: parse %s: %w", a.backend.name, err)
	}

	res := &Result{
		Width:   a.width,
		Height:  a.height,
		Alpha:   make([]byte, a.width*a.height),
		Configs: append([]FontConfig(nil), a.configs...),
	}
	packer := rectpack.New(a.width, a.height, 1)

	if err := a.buildWhitePixel(res, packer); err != nil {
		return nil, err
	}
	if err := a.buildLines(res, packer); err != nil {
		return nil, err
	}
	for i, cfg := range a.configs {
		bf, err := a.buildFont(res, packer, f, cfg)
		if err != nil {
			return nil, err
		}
		bf.Config = i
		res.Fonts = append(res.Fonts, bf)
	}

	a.result = res
	return res, nil
}

func (a *builtinAtlas) buildWhitePixel(res *Result, packer *rectpack.Shelf) error {
	r, ok := packer.Pack(2, 2)
	if !ok {
		return errTooSmall
	}
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			res.Alpha[y*res.Width+x] = 0xFF
		}
	}
	res.CustomRects = append(res.CustomRects, CustomRect{
		ID: RectWhitePixel, X: r.X, Y: r.Y, Width: r.Width, Height: r.Height,
	})
	return nil
}

// buildLines renders one row per line width n: n opaque texels centered in
// the row, so sampling the row yields an anti-aliased line of width n.
func (a *builtinAtlas) buildLines(res *Result, packer *rectpack.Shelf) error {
	n := min(maxLineWidth, a.width-6, a.height-5)
	if n < 1 {
		return nil
	}
	r, ok := packer.Pack(n+2, n+1)
	if !ok {
		return errTooSmall
	}
	for w := 0; w <= n; w++ {
		y := r.Y + w
		pad := (r.Width - w) / 2
		row := res.Alpha[y*res.Width+r.X : y*res.Width+r.X+r.Width]
		for x := pad; x < pad+w; x++ {
			row[x] = 0xFF
		}
		res.Lines = append(res.Lines, Line{
			X0: float32(r.X + pad - 1),
			Y0: float32(y),
			X1: float32(r.X + pad + w + 1),
			Y1: float32(y + 1),
		})
	}
	res.CustomRects = append(res.CustomRects, CustomRect{
		ID: RectLines, X: r.X, Y: r.Y, Width: r.Width, Height: r.Height,
	})
	return nil
}

func (a *builtinAtlas) buildFont(res *Result, packer *rectpack.Shelf, f *sfnt.Font, cfg FontConfig) (BuiltFont, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(cfg.SizePx),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return BuiltFont{}, fmt.Errorf("baseatlas: %s: %w", cfg.Name, err)
	}
	defer face.Close()

	m := face.Metrics()
	bf := BuiltFont{
		Ascent:  float32(m.Ascent) / 64,
		Descent: float32(m.Descent) / 64,
	}
	var buf sfnt.Buffer
	for _, rg := range cfg.Ranges {
		for r := rg.Lo; r <= rg.Hi; r++ {
			if idx, err := f.GlyphIndex(&buf, r); err != nil || idx == 0 {
				continue
			}
			mask, advance, ok := rasterize(face, r)
			if !ok {
				continue
			}
			g := BuiltGlyph{Rune: r, Bounds: mask.Rect, Advance: advance}
			if !mask.Rect.Empty() {
				pr, ok := packer.Pack(mask.Rect.Dx(), mask.Rect.Dy())
				if !ok {
					return BuiltFont{}, errTooSmall
				}
				g.X, g.Y = pr.X, pr.Y
				blit(res, pr, mask)
			}
			bf.Glyphs = append(bf.Glyphs, g)
		}
	}
	return bf, nil
}

// rasterize draws r with the pen at the origin. The mask bounds are the ink
// box relative to the pen.
func rasterize(face font.Face, r rune) (*image.Alpha, float32, bool) {
	bounds, advance, ok := face.GlyphBounds(r)
	if !ok {
		return nil, 0, false
	}
	rect := image.Rect(
		bounds.Min.X.Floor(), bounds.Min.Y.Floor(),
		bounds.Max.X.Ceil(), bounds.Max.Y.Ceil(),
	)
	mask := image.NewAlpha(rect)
	if !rect.Empty() {
		d := &font.Drawer{
			Dst:  mask,
			Src:  image.White,
			Face: face,
			Dot:  fixed.Point26_6{},
		}
		d.DrawString(string(r))
	}
	return mask, float32(advance) / 64, true
}

func blit(res *Result, at rectpack.Rect, mask *image.Alpha) {
	for y := 0; y < at.Height; y++ {
		src := mask.Pix[y*mask.Stride : y*mask.Stride+at.Width]
		off := (at.Y+y)*res.Width + at.X
		copy(res.Alpha[off:off+at.Width], src)
	}
}

func (a *builtinAtlas) ClearFonts() {
	if a.result != nil {
		a.result.Fonts = nil
	}
}

func (a *builtinAtlas) Destroy() {
	a.destroyed = true
	a.result = nil
	a.configs = nil
}
