// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// textureUsage is the usage of every atlas texture: filled from the CPU and
// sampled by the renderer.
const textureUsage = gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding

// HALDevice implements Device on top of a wgpu HAL device and queue.
type HALDevice struct {
	device hal.Device
	queue  hal.Queue
}

// halTexture is a texture created by a HALDevice.
type halTexture struct {
	raw    hal.Texture
	owner  *HALDevice
	label  string
	width  int
	height int
	format gputypes.TextureFormat
}

func (t *halTexture) Width() int  { return t.width }
func (t *halTexture) Height() int { return t.height }

// Raw returns the underlying HAL texture, for bind group creation.
func (t *halTexture) Raw() hal.Texture { return t.raw }

// String returns the texture label.
func (t *halTexture) String() string { return t.label }

// NewHALDevice wraps a HAL device and queue owned by the caller.
func NewHALDevice(device hal.Device, queue hal.Queue) *HALDevice {
	return &HALDevice{device: device, queue: queue}
}

// NewDeviceFromProvider extracts the HAL device and queue from a host
// provider (for example a gogpu application) that exposes HalDevice and
// HalQueue accessors.
func NewDeviceFromProvider(provider any) (*HALDevice, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, errors.New("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, errors.New("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, errors.New("gpu: provider HalQueue is not hal.Queue")
	}
	return NewHALDevice(device, queue), nil
}

// CreateTexture creates a sampleable 2D texture.
func (d *HALDevice) CreateTexture(label string, width, height int, format gputypes.TextureFormat) (Texture, error) {
	if err := validateSize(width, height, format); err != nil {
		return nil, err
	}
	desc := &hal.TextureDescriptor{
		Label: label,
		Size: hal.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         textureUsage,
	}
	raw, err := d.device.CreateTexture(desc)
	if err != nil {
		return nil, fmt.Errorf("gpu: create texture %q: %w", label, err)
	}
	return &halTexture{
		raw:    raw,
		owner:  d,
		label:  label,
		width:  width,
		height: height,
		format: format,
	}, nil
}

// WriteTexture uploads data into the whole texture through the queue.
func (d *HALDevice) WriteTexture(tex Texture, data []byte) error {
	t, ok := tex.(*halTexture)
	if !ok || t.owner != d {
		return ErrForeignTexture
	}
	if t.raw == nil {
		return fmt.Errorf("gpu: write to destroyed texture %q", t.label)
	}
	if err := checkDataSize(t.width, t.height, t.format, data); err != nil {
		return err
	}

	dst := &hal.ImageCopyTexture{
		Texture:  t.raw,
		MipLevel: 0,
		Origin:   hal.Origin3D{X: 0, Y: 0, Z: 0},
		Aspect:   gputypes.TextureAspectAll,
	}
	layout := &hal.ImageDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(t.width * BytesPerPixel(t.format)),
		RowsPerImage: uint32(t.height),
	}
	size := &hal.Extent3D{
		Width:              uint32(t.width),
		Height:             uint32(t.height),
		DepthOrArrayLayers: 1,
	}
	if err := d.queue.WriteTexture(dst, data, layout, size); err != nil {
		return fmt.Errorf("gpu: write texture %q: %w", t.label, err)
	}
	return nil
}

// DestroyTexture releases the HAL texture.
func (d *HALDevice) DestroyTexture(tex Texture) {
	t, ok := tex.(*halTexture)
	if !ok || t.owner != d || t.raw == nil {
		return
	}
	d.device.DestroyTexture(t.raw)
	t.raw = nil
}
