// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// CreatorDevice implements Device for hosts that only expose the
// gpucontext texture interfaces. Only RGBA8 textures are supported; writes
// require the created texture to implement gpucontext.TextureUpdater.
type CreatorDevice struct {
	creator gpucontext.TextureCreator
}

// NewCreatorDevice wraps a host texture creator.
func NewCreatorDevice(creator gpucontext.TextureCreator) *CreatorDevice {
	return &CreatorDevice{creator: creator}
}

// CreateTexture creates a transparent RGBA texture through the host.
func (d *CreatorDevice) CreateTexture(label string, width, height int, format gputypes.TextureFormat) (Texture, error) {
	if err := validateSize(width, height, format); err != nil {
		return nil, err
	}
	if format != gputypes.TextureFormatRGBA8Unorm {
		return nil, fmt.Errorf("%w: %s (texture creator is RGBA only)", ErrUnsupportedFormat, format)
	}
	tex, err := d.creator.NewTextureFromRGBA(width, height, make([]byte, width*height*4))
	if err != nil {
		return nil, fmt.Errorf("gpu: create texture %q: %w", label, err)
	}
	return tex, nil
}

// WriteTexture replaces the texture contents via gpucontext.TextureUpdater.
func (d *CreatorDevice) WriteTexture(tex Texture, data []byte) error {
	u, ok := tex.(gpucontext.TextureUpdater)
	if !ok {
		return fmt.Errorf("gpu: texture %T does not support updates", tex)
	}
	if err := checkDataSize(tex.Width(), tex.Height(), gputypes.TextureFormatRGBA8Unorm, data); err != nil {
		return err
	}
	return u.UpdateData(data)
}

// DestroyTexture calls Destroy on textures that provide it.
func (d *CreatorDevice) DestroyTexture(tex Texture) {
	if ds, ok := tex.(interface{ Destroy() }); ok {
		ds.Destroy()
	}
}
