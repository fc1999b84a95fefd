// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package native is a terminal driver link backed by a gogpu/wgpu HAL
// device.
//
// Driver answers the instance and device entry points the presentation layer
// forwards to, so the layer can run on a real GPU without a system Vulkan
// loader. Swapchain images allocated from device-local memory are backed by
// HAL textures; host-visible memory stays in process memory and is mapped
// directly. Image copies and blits run on the CPU between readback and
// upload passes on the HAL queue.
//
// A Driver is created from a HAL backend with Open or OpenWith, from a
// gpucontext.DeviceProvider with FromProvider, or from an existing device and
// queue with New:
//
//	drv, err := native.Open()
//	if err != nil {
//		return err
//	}
//	defer drv.Close()
//
//	layer := wsi.New()
//	inst, res := layer.CreateInstance(&vk.InstanceCreateInfo{Next: drv.InstanceChain()}, nil)
package native
