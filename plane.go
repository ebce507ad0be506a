package fontatlas

import (
	"image"

	"github.com/gogpu/fontatlas/gpu"
	"github.com/gogpu/fontatlas/internal/rectpack"
)

// PlaneKind describes how a texture slot is used.
type PlaneKind uint8

// Plane kinds.
const (
	// PlaneMonochrome planes pack coverage masks independently into each of
	// the four RGBA channels.
	PlaneMonochrome PlaneKind = iota

	// PlaneColor planes pack full-color bitmaps.
	PlaneColor

	// PlaneWhole slots hold a pre-rasterized texture that is never packed.
	PlaneWhole
)

func (k PlaneKind) String() string {
	switch k {
	case PlaneMonochrome:
		return "monochrome"
	case PlaneColor:
		return "color"
	case PlaneWhole:
		return "whole"
	default:
		return "unknown"
	}
}

// TexturePlane is one texture slot: a CPU-side RGBA buffer mirrored into a
// GPU texture.
type TexturePlane struct {
	kind          PlaneKind
	width, height int
	pix           []byte
	tex           gpu.Texture
	packers       []*rectpack.Shelf
	dirty         bool
}

func newTexturePlane(kind PlaneKind, width, height int, tex gpu.Texture) *TexturePlane {
	p := &TexturePlane{
		kind:   kind,
		width:  width,
		height: height,
		pix:    make([]byte, width*height*4),
		tex:    tex,
	}
	switch kind {
	case PlaneMonochrome:
		p.packers = make([]*rectpack.Shelf, 4)
	case PlaneColor:
		p.packers = make([]*rectpack.Shelf, 1)
	}
	for i := range p.packers {
		p.packers[i] = rectpack.New(width, height, 0)
	}
	return p
}

// Kind returns the plane kind.
func (p *TexturePlane) Kind() PlaneKind { return p.kind }

// Width returns the texture width in pixels.
func (p *TexturePlane) Width() int { return p.width }

// Height returns the texture height in pixels.
func (p *TexturePlane) Height() int { return p.height }

// Texture returns the GPU texture.
func (p *TexturePlane) Texture() gpu.Texture { return p.tex }

// Dirty reports whether the CPU buffer has changes not yet uploaded.
func (p *TexturePlane) Dirty() bool { return p.dirty }

// Image returns the CPU buffer as an image sharing its pixels.
// Monochrome planes hold one coverage mask per channel.
func (p *TexturePlane) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    p.pix,
		Stride: p.width * 4,
		Rect:   image.Rect(0, 0, p.width, p.height),
	}
}

// Utilization returns the packed fraction of each channel. Whole slots
// report nothing.
func (p *TexturePlane) Utilization() []float64 {
	out := make([]float64, len(p.packers))
	for i, pk := range p.packers {
		out[i] = pk.Utilization()
	}
	return out
}

// writeMask stores mask in the channel of a, mapping coverage through gamma.
func (p *TexturePlane) writeMask(a GlyphAllocation, mask *image.Alpha, gamma *[256]byte) {
	off := a.Channel
	for y := 0; y < a.Height; y++ {
		src := mask.Pix[mask.PixOffset(mask.Rect.Min.X, mask.Rect.Min.Y+y):]
		row := ((a.Y+1+y)*p.width + a.X + 1) * 4
		for x := 0; x < a.Width; x++ {
			p.pix[row+x*4+off] = gamma[src[x]]
		}
	}
	p.dirty = true
}

// writeColor copies img into the rectangle of a.
func (p *TexturePlane) writeColor(a GlyphAllocation, img *image.NRGBA) {
	for y := 0; y < a.Height; y++ {
		src := img.Pix[img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y):]
		row := ((a.Y+1+y)*p.width + a.X + 1) * 4
		copy(p.pix[row:row+a.Width*4], src[:a.Width*4])
	}
	p.dirty = true
}
