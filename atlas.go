package fontatlas

import (
	"errors"
	"fmt"
	"runtime"
	"slices"

	"github.com/gogpu/fontatlas/baseatlas"
	"github.com/gogpu/fontatlas/gpu"
)

// UV is a texture coordinate. For monochrome planes the integer part of U
// selects the channel (1 + channel index).
type UV struct {
	U, V float32
}

// UVRect is a texture coordinate rectangle.
type UVRect struct {
	U0, V0, U1, V1 float32
}

// Atlas resolves fonts and packs their glyphs into GPU textures on demand.
//
// Texture 0 is built eagerly by the native base atlas and holds its custom
// rectangles (the white pixel and anti-aliased lines) in channel 0. Further
// textures are packing planes and game font textures, appended as needed.
// Fonts and textures are never removed before Close.
//
// An Atlas is not safe for concurrent use; it belongs to the render thread.
type Atlas struct {
	cfg      config
	device   gpu.Device
	gen      uint32
	disposed bool
	native   *nativeRelease
	cleanup  runtime.Cleanup

	planes   []*TexturePlane
	suppress int
	gamma    gammaTable

	customRects []baseatlas.CustomRect
	fontConfigs []baseatlas.FontConfig
	lineUVs     []UVRect
	whitePixel  UV

	fonts        []ResolvedFont
	byHandle     map[FontHandle]ResolvedFont
	byKey        map[IdentKey]ResolvedFont
	byChain      map[string]ResolvedFont
	failedKeys   map[IdentKey]failure
	failedChains map[string]failure
	gameTextures map[string][]int
}

// nativeRelease owns the native atlas. It is shared with the cleanup
// backstop and must not reference the Atlas.
type nativeRelease struct {
	atlas baseatlas.Atlas
}

func (r *nativeRelease) destroy() {
	if r.atlas != nil {
		r.atlas.Destroy()
		r.atlas = nil
	}
}

func (r *nativeRelease) backstop() {
	if r.atlas == nil {
		return
	}
	Logger().Warn("fontatlas: atlas was not closed; releasing native atlas")
	r.destroy()
}

// New creates an atlas and builds its first texture.
//
// WithDevice is required.
func New(opts ...Option) (*Atlas, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	native, err := cfg.base.CreateAtlas(cfg.width, cfg.height)
	if err != nil {
		return nil, fmt.Errorf("fontatlas: create native atlas: %w", err)
	}
	a := &Atlas{
		cfg:          cfg,
		device:       cfg.device,
		gen:          nextGen(),
		native:       &nativeRelease{atlas: native},
		byHandle:     make(map[FontHandle]ResolvedFont),
		byKey:        make(map[IdentKey]ResolvedFont),
		byChain:      make(map[string]ResolvedFont),
		failedKeys:   make(map[IdentKey]failure),
		failedChains: make(map[string]failure),
		gameTextures: make(map[string][]int),
	}
	a.cleanup = runtime.AddCleanup(a, func(r *nativeRelease) { r.backstop() }, a.native)
	if err := a.buildBase(native); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

// buildBase builds the native atlas and turns its texture into plane 0.
func (a *Atlas) buildBase(native baseatlas.Atlas) error {
	if err := native.AddDefaultGlyphSet(); err != nil {
		return fmt.Errorf("fontatlas: add default glyph set: %w", err)
	}
	res, err := native.Build()
	if err != nil {
		return fmt.Errorf("fontatlas: build native atlas: %w", err)
	}
	if res.Width != a.cfg.width || res.Height != a.cfg.height || len(res.Alpha) != res.Width*res.Height {
		return fmt.Errorf("fontatlas: native atlas is %dx%d, want %dx%d",
			res.Width, res.Height, a.cfg.width, a.cfg.height)
	}
	a.fontConfigs = slices.Clone(res.Configs)
	a.customRects = slices.Clone(res.CustomRects)
	used := res.UsedBounds()
	native.ClearFonts()

	i, err := a.addPlane(PlaneMonochrome)
	if err != nil {
		return err
	}
	p := a.planes[i]
	for j, v := range res.Alpha {
		p.pix[j*4] = v
	}
	if !used.Empty() {
		if _, ok := p.packers[0].Pack(used.Dx()+1, used.Dy()+1); !ok {
			return fmt.Errorf("fontatlas: native atlas content %v does not fit", used)
		}
	}

	w, h := float32(res.Width), float32(res.Height)
	for _, cr := range a.customRects {
		if cr.ID == baseatlas.RectWhitePixel {
			a.whitePixel = UV{
				U: 1 + (float32(cr.X)+0.5)/w,
				V: (float32(cr.Y) + 0.5) / h,
			}
		}
	}
	a.lineUVs = make([]UVRect, len(res.Lines))
	for j, l := range res.Lines {
		a.lineUVs[j] = UVRect{U0: 1 + l.X0/w, V0: l.Y0 / h, U1: 1 + l.X1/w, V1: l.Y1 / h}
	}

	p.dirty = true
	return a.Flush()
}

// Close releases every font, texture and the native atlas. It is safe to
// call more than once; later calls do nothing.
func (a *Atlas) Close() error {
	if a.disposed {
		return nil
	}
	a.disposed = true
	a.cleanup.Stop()

	var errs []error
	for _, f := range a.fonts {
		if err := f.release(); err != nil {
			errs = append(errs, fmt.Errorf("fontatlas: release font %v: %w", f.Handle(), err))
		}
	}
	for _, p := range a.planes {
		a.device.DestroyTexture(p.tex)
	}
	a.native.destroy()

	a.planes = nil
	a.fonts = nil
	a.customRects = nil
	a.fontConfigs = nil
	a.lineUVs = nil
	a.byHandle = nil
	a.byKey = nil
	a.byChain = nil
	a.failedKeys = nil
	a.failedChains = nil
	a.gameTextures = nil
	a.suppress = 0
	return errors.Join(errs...)
}

// Dispose is Close without an error result.
func (a *Atlas) Dispose() {
	_ = a.Close()
}

// Disposed reports whether Close was called.
func (a *Atlas) Disposed() bool {
	return a.disposed
}

// TextureCount returns the number of texture slots of every kind.
func (a *Atlas) TextureCount() int {
	return len(a.planes)
}

// Texture returns the GPU texture of slot i, or nil.
func (a *Atlas) Texture(i int) gpu.Texture {
	if p := a.Plane(i); p != nil {
		return p.tex
	}
	return nil
}

// Plane returns texture slot i, or nil.
func (a *Atlas) Plane(i int) *TexturePlane {
	if i < 0 || i >= len(a.planes) {
		return nil
	}
	return a.planes[i]
}

// PlaneCount returns the number of packing planes, excluding game font
// textures.
func (a *Atlas) PlaneCount() int {
	n := 0
	for _, p := range a.planes {
		if p.kind != PlaneWhole {
			n++
		}
	}
	return n
}

// MaxTextures returns the texture slot limit.
func (a *Atlas) MaxTextures() int {
	return a.cfg.maxPlanes
}

// TextureSize returns the dimensions of packing planes.
func (a *Atlas) TextureSize() (width, height int) {
	return a.cfg.width, a.cfg.height
}

// CustomRects returns the custom rectangles of texture 0 in pixels.
func (a *Atlas) CustomRects() []baseatlas.CustomRect {
	return slices.Clone(a.customRects)
}

// FontConfigs returns the font configurations built into texture 0.
func (a *Atlas) FontConfigs() []baseatlas.FontConfig {
	return slices.Clone(a.fontConfigs)
}

// LineUVs returns the anti-aliased line spans of texture 0, indexed by
// line width.
func (a *Atlas) LineUVs() []UVRect {
	return slices.Clone(a.lineUVs)
}

// WhitePixelUV returns the center of the white pixel of texture 0.
func (a *Atlas) WhitePixelUV() UV {
	return a.whitePixel
}
