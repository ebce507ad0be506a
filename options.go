package fontatlas

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/fontatlas/baseatlas"
	"github.com/gogpu/fontatlas/gpu"
)

// MaxPlanes is the upper bound on texture slots of one atlas.
const MaxPlanes = 256

// DefaultGamma is the gamma applied to monochrome glyph coverage.
const DefaultGamma = 1.4

// Option configures an Atlas during creation.
//
// Example:
//
//	dev, closeDev, _ := gpu.OpenNoop()
//	defer closeDev()
//	a, err := fontatlas.New(
//	    fontatlas.WithDevice(dev),
//	    fontatlas.WithSystemFonts(systemfont.NewProvider()),
//	)
type Option func(*config)

type config struct {
	width, height int
	maxPlanes     int
	gamma         func() float32
	device        gpu.Device
	systemFonts   SystemFontProvider
	gameFonts     GameFontProvider
	base          baseatlas.Backend
}

func defaultConfig() config {
	return config{
		width:     1024,
		height:    1024,
		maxPlanes: MaxPlanes,
		gamma:     func() float32 { return DefaultGamma },
		base:      baseatlas.NewBuiltin(),
	}
}

// WithTextureSize sets the dimensions of every packing texture.
// The default is 1024×1024.
func WithTextureSize(width, height int) Option {
	return func(c *config) {
		c.width = width
		c.height = height
	}
}

// WithMaxPlanes lowers the texture slot limit. n must be in 1..MaxPlanes.
func WithMaxPlanes(n int) Option {
	return func(c *config) {
		c.maxPlanes = n
	}
}

// WithGamma sets the source of the gamma applied to monochrome coverage.
// It is consulted on every glyph load, so changes take effect for glyphs
// rasterized afterwards.
func WithGamma(gamma func() float32) Option {
	return func(c *config) {
		c.gamma = gamma
	}
}

// WithDevice sets the GPU device that owns the atlas textures. Required.
func WithDevice(d gpu.Device) Option {
	return func(c *config) {
		c.device = d
	}
}

// WithSystemFonts enables system font identities.
func WithSystemFonts(p SystemFontProvider) Option {
	return func(c *config) {
		c.systemFonts = p
	}
}

// WithGameFonts enables game font identities.
func WithGameFonts(p GameFontProvider) Option {
	return func(c *config) {
		c.gameFonts = p
	}
}

// WithBaseAtlas replaces the native atlas that builds texture 0.
func WithBaseAtlas(b baseatlas.Backend) Option {
	return func(c *config) {
		c.base = b
	}
}

func (c *config) validate() error {
	maxDim := int(gputypes.DefaultLimits().MaxTextureDimension2D)
	switch {
	case c.device == nil:
		return &ConfigError{Field: "Device", Reason: "a device is required"}
	case c.width < 16 || c.width > maxDim:
		return &ConfigError{Field: "Width", Reason: fmt.Sprintf("%d is outside 16..%d", c.width, maxDim)}
	case c.height < 16 || c.height > maxDim:
		return &ConfigError{Field: "Height", Reason: fmt.Sprintf("%d is outside 16..%d", c.height, maxDim)}
	case c.maxPlanes < 1 || c.maxPlanes > MaxPlanes:
		return &ConfigError{Field: "MaxPlanes", Reason: fmt.Sprintf("%d is outside 1..%d", c.maxPlanes, MaxPlanes)}
	case c.gamma == nil:
		return &ConfigError{Field: "Gamma", Reason: "gamma source is nil"}
	case c.base == nil:
		return &ConfigError{Field: "BaseAtlas", Reason: "backend is nil"}
	}
	return nil
}
