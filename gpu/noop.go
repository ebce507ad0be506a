// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"
)

// OpenNoop opens the wgpu noop backend and returns a device on it together
// with a function that releases the device and instance.
//
// The noop backend accepts every call and keeps no pixels. It lets tools run
// the full atlas pipeline without a GPU.
func OpenNoop() (*HALDevice, func(), error) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("gpu: noop instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, nil, errors.New("gpu: noop backend exposes no adapter")
	}
	od, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, nil, fmt.Errorf("gpu: open noop adapter: %w", err)
	}
	release := func() {
		od.Device.Destroy()
		instance.Destroy()
	}
	return NewHALDevice(od.Device, od.Queue), release, nil
}
