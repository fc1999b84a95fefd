// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package native_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/wgpu/hal/noop"
	"github.com/gogpu/wsi"
	"github.com/gogpu/wsi/backend/native"
	"github.com/gogpu/wsi/sink"
	"github.com/gogpu/wsi/vk"
)

func TestLayerOverNativeDriver(t *testing.T) {
	drv, err := native.OpenWith(&noop.API{})
	if err != nil {
		t.Fatalf("OpenWith: %v", err)
	}
	defer drv.Close()

	layer := wsi.New()
	instance, res := layer.CreateInstance(&vk.InstanceCreateInfo{Next: drv.InstanceChain()}, nil)
	if res != vk.Success {
		t.Fatalf("CreateInstance = %v", res)
	}
	defer layer.DestroyInstance(instance, nil)

	var n uint32 = 1
	pds := make([]vk.PhysicalDevice, 1)
	enumerate, ok := vk.ProcAs[vk.EnumeratePhysicalDevicesFunc](layer.GetInstanceProcAddr(instance, "vkEnumeratePhysicalDevices"))
	if !ok {
		t.Fatal("vkEnumeratePhysicalDevices not forwarded")
	}
	if res := enumerate(instance, &n, pds); res != vk.Success || n != 1 {
		t.Fatalf("EnumeratePhysicalDevices = (%v, %d)", res, n)
	}

	device, res := layer.CreateDevice(pds[0], &vk.DeviceCreateInfo{Next: drv.DeviceChain()}, nil)
	if res != vk.Success {
		t.Fatalf("CreateDevice = %v", res)
	}
	defer layer.DestroyDevice(device, nil)

	surf, res := layer.CreateHeadlessSurface(instance, &vk.HeadlessSurfaceCreateInfo{}, nil)
	if res != vk.Success {
		t.Fatalf("CreateHeadlessSurface = %v", res)
	}
	defer layer.DestroySurface(instance, surf, nil)

	var caps vk.SurfaceCapabilities
	if res := layer.GetPhysicalDeviceSurfaceCapabilities(pds[0], surf, &caps); res != vk.Success {
		t.Fatalf("GetPhysicalDeviceSurfaceCapabilities = %v", res)
	}
	if caps.MaxImageExtent.Width != drv.Properties().Limits.MaxImageDimension2D {
		t.Errorf("MaxImageExtent = %+v, want the driver limit", caps.MaxImageExtent)
	}

	k := sink.NewImageSink(16, 16)
	defer k.Close()
	if err := layer.SetBitmapHook(surf, k); err != nil {
		t.Fatalf("SetBitmapHook: %v", err)
	}

	sc, res := layer.CreateSwapchain(device, &vk.SwapchainCreateInfo{
		Surface:          surf,
		MinImageCount:    2,
		ImageFormat:      vk.FormatR8G8B8A8Unorm,
		ImageColorSpace:  vk.ColorSpaceSRGBNonlinear,
		ImageExtent:      vk.Extent2D{Width: 16, Height: 16},
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageColorAttachment,
		PresentMode:      vk.PresentModeFIFO,
	}, nil)
	if res != vk.Success {
		t.Fatalf("CreateSwapchain = %v", res)
	}
	defer layer.DestroySwapchain(device, sc, nil)

	n = 0
	if res := layer.GetSwapchainImages(device, sc, &n, nil); res != vk.Success || n < 2 {
		t.Fatalf("GetSwapchainImages count = (%v, %d)", res, n)
	}
	images := make([]vk.Image, n)
	layer.GetSwapchainImages(device, sc, &n, images)
	for _, img := range images {
		if _, ok := drv.Texture(img); !ok {
			t.Errorf("swapchain image %#x is not texture backed", uint64(img))
		}
	}

	frame := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for i := range frame.Pix {
		frame.Pix[i] = 0xFF
	}
	frame.SetRGBA(3, 4, color.RGBA{R: 1, G: 2, B: 3, A: 0xFF})

	for i := 0; i < 3; i++ {
		idx, res := layer.AcquireNextImage(device, sc, vk.InfiniteTimeout, vk.NullHandle, vk.NullHandle)
		if res != vk.Success {
			t.Fatalf("frame %d: AcquireNextImage = %v", i, res)
		}
		if err := drv.WriteImage(images[idx], frame); err != nil {
			t.Fatalf("frame %d: WriteImage: %v", i, err)
		}
		res = layer.QueuePresent(drv.Queue(), &vk.PresentInfo{
			Swapchains:   []vk.SwapchainKHR{sc},
			ImageIndices: []uint32{idx},
		})
		if res != vk.Success {
			t.Fatalf("frame %d: QueuePresent = %v", i, res)
		}
	}
	if got := k.Frames(); got != 3 {
		t.Errorf("sink received %d frames, want 3", got)
	}
}
