package fontatlas

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/fontatlas/internal/rectpack"
)

// GlyphAllocation is a reserved glyph rectangle.
//
// The glyph pixels live at (X+1, Y+1) of the plane; the packed area is one
// pixel larger in each direction. Channel is -1 on color planes.
// An allocation with Plane -1 is empty and occupies nothing.
type GlyphAllocation struct {
	Plane, Channel int
	X, Y           int
	Width, Height  int

	U0, V0, U1, V1 float32
}

// Empty reports whether the allocation occupies no plane.
func (g GlyphAllocation) Empty() bool {
	return g.Plane < 0
}

var emptyAllocation = GlyphAllocation{Plane: -1, Channel: -1}

// Allocate reserves a w×h rectangle on a monochrome or color plane.
//
// Existing planes are tried first in creation order, then their channels in
// order. When none has room a new plane is created, unless the atlas
// already holds the maximum number of textures, in which case the error
// matches ErrResourceExhausted. A zero-area request returns an empty
// allocation.
func (a *Atlas) Allocate(w, h int, needsColor bool) (GlyphAllocation, error) {
	if a.disposed {
		return GlyphAllocation{}, disposedError("Allocate")
	}
	if w < 0 || h < 0 {
		return GlyphAllocation{}, &ArgumentError{Arg: "size", Reason: fmt.Sprintf("negative glyph size %dx%d", w, h)}
	}
	if w == 0 || h == 0 {
		return emptyAllocation, nil
	}
	if w+1 > a.cfg.width || h+1 > a.cfg.height {
		return GlyphAllocation{}, &ArgumentError{
			Arg:    "size",
			Reason: fmt.Sprintf("glyph %dx%d does not fit a %dx%d texture", w, h, a.cfg.width, a.cfg.height),
		}
	}

	kind := PlaneMonochrome
	if needsColor {
		kind = PlaneColor
	}
	for i, p := range a.planes {
		if p.kind != kind {
			continue
		}
		for ch, pk := range p.packers {
			if r, ok := pk.Pack(w+1, h+1); ok {
				return a.allocation(i, ch, r), nil
			}
		}
	}

	if len(a.planes) >= a.cfg.maxPlanes {
		Logger().Warn("fontatlas: texture planes exhausted", "planes", len(a.planes), "color", needsColor)
		return GlyphAllocation{}, &ResourceExhaustedError{MaxPlanes: a.cfg.maxPlanes}
	}
	i, err := a.addPlane(kind)
	if err != nil {
		return GlyphAllocation{}, err
	}
	r, ok := a.planes[i].packers[0].Pack(w+1, h+1)
	if !ok {
		return GlyphAllocation{}, fmt.Errorf("fontatlas: %dx%d glyph does not fit an empty plane", w, h)
	}
	return a.allocation(i, 0, r), nil
}

// allocation computes the UV rectangle of r packed on channel ch of plane i.
func (a *Atlas) allocation(i, ch int, r rectpack.Rect) GlyphAllocation {
	p := a.planes[i]
	w, h := r.Width-1, r.Height-1
	du := float32(0)
	channel := -1
	if p.kind == PlaneMonochrome {
		du = float32(1 + ch)
		channel = ch
	}
	fw, fh := float32(p.width), float32(p.height)
	return GlyphAllocation{
		Plane:   i,
		Channel: channel,
		X:       r.X,
		Y:       r.Y,
		Width:   w,
		Height:  h,
		U0:      du + float32(r.X+1)/fw,
		V0:      float32(r.Y+1) / fh,
		U1:      du + float32(r.X+w+1)/fw,
		V1:      float32(r.Y+h+1) / fh,
	}
}

// addPlane creates a packing plane and returns its texture slot.
func (a *Atlas) addPlane(kind PlaneKind) (int, error) {
	i := len(a.planes)
	tex, err := a.device.CreateTexture(fmt.Sprintf("fontatlas plane %d", i),
		a.cfg.width, a.cfg.height, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		return 0, &UploadError{Op: "create", Texture: fmt.Sprintf("plane %d", i), Err: err}
	}
	a.planes = append(a.planes, newTexturePlane(kind, a.cfg.width, a.cfg.height, tex))
	Logger().Debug("fontatlas: plane created", "index", i, "kind", kind)
	return i, nil
}
