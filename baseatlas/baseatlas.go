// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package baseatlas is the native base atlas: the statically built texture
// that seeds a font atlas with a default glyph set, the white pixel and the
// anti-aliased line strips used by the renderer.
//
// The font atlas talks to it only through [Backend] and [Atlas], so a host
// UI library can plug in its own atlas builder.
package baseatlas

import (
	"errors"
	"image"
)

// ErrDestroyed is returned by operations on a destroyed atlas.
var ErrDestroyed = errors.New("baseatlas: atlas destroyed")

// Backend creates native atlases.
type Backend interface {
	CreateAtlas(width, height int) (Atlas, error)
}

// Atlas is a native atlas being configured and built.
type Atlas interface {
	// AddDefaultGlyphSet queues the default font configuration.
	AddDefaultGlyphSet() error

	// Build rasterizes every queued configuration into one texture.
	Build() (*Result, error)

	// ClearFonts drops the fonts produced by Build, keeping the texture.
	ClearFonts()

	// Destroy releases the atlas. Destroying twice is a no-op.
	Destroy()
}

// Range is an inclusive rune range.
type Range struct {
	Lo, Hi rune
}

// FontConfig describes one font queued for building.
type FontConfig struct {
	Name   string
	SizePx float32
	Ranges []Range
}

// CustomRect is a reserved texture region that is not a glyph.
type CustomRect struct {
	ID            int
	X, Y          int
	Width, Height int
}

// Rect returns the region as an image.Rectangle.
func (r CustomRect) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Custom rect identifiers.
const (
	RectWhitePixel = iota
	RectLines
)

// Line is the texel span of an anti-aliased line of one width, in pixels.
type Line struct {
	X0, Y0, X1, Y1 float32
}

// BuiltGlyph is a glyph placed by Build.
type BuiltGlyph struct {
	Rune    rune
	X, Y    int // texture position of the ink box
	Bounds  image.Rectangle
	Advance float32
}

// BuiltFont is a font produced by Build.
type BuiltFont struct {
	Config  int // index into Result.Configs
	Ascent  float32
	Descent float32
	Glyphs  []BuiltGlyph
}

// Result is the output of Build.
type Result struct {
	Width, Height int

	// Alpha holds Width*Height coverage bytes.
	Alpha []byte

	CustomRects []CustomRect
	Lines       []Line
	Fonts       []BuiltFont
	Configs     []FontConfig
}

// UsedBounds returns the smallest rectangle holding every custom rect and
// glyph, anchored at the origin.
func (r *Result) UsedBounds() image.Rectangle {
	var used image.Rectangle
	for _, cr := range r.CustomRects {
		used = used.Union(cr.Rect())
	}
	for _, f := range r.Fonts {
		for _, g := range f.Glyphs {
			used = used.Union(image.Rect(g.X, g.Y, g.X+g.Bounds.Dx(), g.Y+g.Bounds.Dy()))
		}
	}
	if used.Empty() {
		return image.Rectangle{}
	}
	return image.Rect(0, 0, used.Max.X, used.Max.Y)
}
