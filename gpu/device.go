// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu is the texture device abstraction consumed by the font atlas.
//
// The atlas never talks to a graphics API directly. It creates textures,
// writes whole CPU buffers into them and destroys them through [Device].
// Three implementations are provided:
//
//   - [HALDevice] drives a wgpu hal.Device and hal.Queue directly.
//   - [CreatorDevice] adapts a host that implements gpucontext.TextureCreator.
//   - [OpenNoop] opens the wgpu noop backend, for tools and tests.
package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Texture is a GPU texture created by a Device.
type Texture = gpucontext.Texture

// Device creates, fills and destroys 2D textures.
//
// A Device is used from the render thread only.
type Device interface {
	// CreateTexture allocates an uninitialized width×height texture.
	CreateTexture(label string, width, height int, format gputypes.TextureFormat) (Texture, error)

	// WriteTexture replaces the whole contents of tex with data.
	// len(data) must be Width*Height*BytesPerPixel(format).
	WriteTexture(tex Texture, data []byte) error

	// DestroyTexture releases tex. Destroying twice is a no-op.
	DestroyTexture(tex Texture)
}

// Sentinel errors for the gpu package.
var (
	// ErrUnsupportedFormat is returned for texture formats a device cannot create.
	ErrUnsupportedFormat = errors.New("gpu: unsupported texture format")

	// ErrForeignTexture is returned when a texture was created by another device.
	ErrForeignTexture = errors.New("gpu: texture does not belong to this device")

	// ErrDataSize is returned when a write does not cover the whole texture.
	ErrDataSize = errors.New("gpu: data size does not match texture")
)

// BytesPerPixel returns the size of one texel, or 0 for formats the atlas
// does not use.
func BytesPerPixel(format gputypes.TextureFormat) int {
	switch format {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb:
		return 4
	default:
		return 0
	}
}

func validateSize(width, height int, format gputypes.TextureFormat) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("gpu: texture dimensions must be positive, got %dx%d", width, height)
	}
	if BytesPerPixel(format) == 0 {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return nil
}

func checkDataSize(width, height int, format gputypes.TextureFormat, data []byte) error {
	if want := width * height * BytesPerPixel(format); len(data) != want {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrDataSize, len(data), want)
	}
	return nil
}
