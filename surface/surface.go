// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"sync"

	"github.com/gogpu/wsi/internal/dispatch"
	"github.com/gogpu/wsi/internal/logger"
	"github.com/gogpu/wsi/sink"
	"github.com/gogpu/wsi/vk"
)

// Image count bounds reported by Capabilities.
const (
	MinImageCount = 1
	MaxImageCount = 3
)

// fallbackMaxExtent is the maximum extent reported when the physical device
// properties cannot be queried.
const fallbackMaxExtent = 16384

// SupportedUsage is the image usage every surface allows.
const SupportedUsage = vk.ImageUsageTransferSrc | vk.ImageUsageTransferDst |
	vk.ImageUsageSampled | vk.ImageUsageStorage |
	vk.ImageUsageColorAttachment | vk.ImageUsageInputAttachment

// SupportedCompositeAlpha is the composite alpha every surface allows.
const SupportedCompositeAlpha = vk.CompositeAlphaInherit | vk.CompositeAlphaOpaque |
	vk.CompositeAlphaPreMultiplied | vk.CompositeAlphaPostMultiplied

// presentModes are the modes a surface offers. Frames are handed over in
// order, so only the FIFO family applies.
var presentModes = []vk.PresentMode{vk.PresentModeFIFO, vk.PresentModeFIFORelaxed}

// Surface is a presentation target owned by one instance.
//
// Surface is safe for concurrent use.
type Surface struct {
	instance *dispatch.Instance

	mu   sync.Mutex
	sink sink.Sink
	live vk.SwapchainKHR
}

// New returns a surface of inst with no sink attached.
func New(inst *dispatch.Instance) *Surface {
	return &Surface{instance: inst}
}

// Instance returns the instance that owns the surface.
func (s *Surface) Instance() *dispatch.Instance {
	return s.instance
}

// SetBitmapHook attaches k as the consumer of presented frames, replacing
// any previous one. Attaching the current sink again does nothing; nil
// detaches.
func (s *Surface) SetBitmapHook(k sink.Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sink == k {
		return
	}
	s.sink = k
	logger.L().Debug("surface: sink attached", "sink", k != nil)
}

// Sink returns the attached consumer, or nil.
func (s *Surface) Sink() sink.Sink {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink
}

// CurrentExtent returns the sink's size, or the undefined extent when no
// sink is attached.
func (s *Surface) CurrentExtent() vk.Extent2D {
	k := s.Sink()
	if k == nil {
		return vk.Extent2D{Width: vk.UndefinedExtent, Height: vk.UndefinedExtent}
	}
	w, h := k.Size()
	return vk.Extent2D{Width: w, Height: h}
}

// Capabilities fills caps for pd. It always succeeds.
func (s *Surface) Capabilities(pd vk.PhysicalDevice, caps *vk.SurfaceCapabilities) vk.Result {
	maxExtent := uint32(fallbackMaxExtent)
	if get := s.instance.Hooks.GetPhysicalDeviceProperties; get != nil {
		var props vk.PhysicalDeviceProperties
		get(pd, &props)
		if props.Limits.MaxImageDimension2D != 0 {
			maxExtent = props.Limits.MaxImageDimension2D
		}
	}

	*caps = vk.SurfaceCapabilities{
		MinImageCount:           MinImageCount,
		MaxImageCount:           MaxImageCount,
		CurrentExtent:           s.CurrentExtent(),
		MinImageExtent:          vk.Extent2D{Width: 1, Height: 1},
		MaxImageExtent:          vk.Extent2D{Width: maxExtent, Height: maxExtent},
		MaxImageArrayLayers:     1,
		SupportedTransforms:     vk.SurfaceTransformIdentity,
		CurrentTransform:        vk.SurfaceTransformIdentity,
		SupportedCompositeAlpha: SupportedCompositeAlpha,
		SupportedUsageFlags:     SupportedUsage,
	}
	return vk.Success
}

// Formats enumerates the formats pd can render to as color attachments,
// all in the sRGB nonlinear color space.
func (s *Surface) Formats(pd vk.PhysicalDevice, count *uint32, out []vk.SurfaceFormat) vk.Result {
	return vk.Enumerate(s.probeFormats(pd), count, out)
}

func (s *Surface) probeFormats(pd vk.PhysicalDevice) []vk.SurfaceFormat {
	probe := s.instance.Hooks.GetPhysicalDeviceImageFormatProperties
	if probe == nil {
		logger.L().Warn("surface: format properties unavailable, reporting no formats")
		return nil
	}
	var formats []vk.SurfaceFormat
	for f := vk.Format(0); int(f) < vk.FormatCoreCount; f++ {
		var props vk.ImageFormatProperties
		res := probe(pd, f, vk.ImageType2D, vk.ImageTilingOptimal,
			vk.ImageUsageColorAttachment, vk.ImageCreateMutableFormat, &props)
		if res == vk.ErrorFormatNotSupported {
			continue
		}
		formats = append(formats, vk.SurfaceFormat{Format: f, ColorSpace: vk.ColorSpaceSRGBNonlinear})
	}
	return formats
}

// PresentModes enumerates the supported present modes.
func (s *Surface) PresentModes(count *uint32, out []vk.PresentMode) vk.Result {
	return vk.Enumerate(presentModes, count, out)
}

// PresentRectangles enumerates the one rectangle covering the current
// extent.
func (s *Surface) PresentRectangles(count *uint32, out []vk.Rect2D) vk.Result {
	return vk.Enumerate([]vk.Rect2D{{Extent: s.CurrentExtent()}}, count, out)
}

// Support reports whether queue family can present to the surface. Every
// family can.
func (s *Surface) Support(family uint32) bool {
	return true
}

// DeviceGroupPresentModes reports local presentation only.
func (s *Surface) DeviceGroupPresentModes() vk.DeviceGroupPresentModeFlags {
	return vk.DeviceGroupPresentModeLocal
}

// Capabilities2 is not implemented.
func (s *Surface) Capabilities2(vk.PhysicalDevice, *vk.SurfaceCapabilities2) vk.Result {
	logger.L().Error("surface: vkGetPhysicalDeviceSurfaceCapabilities2KHR not implemented")
	return vk.NotReady
}

// Formats2 is not implemented.
func (s *Surface) Formats2(vk.PhysicalDevice, *uint32, []vk.SurfaceFormat2) vk.Result {
	logger.L().Error("surface: vkGetPhysicalDeviceSurfaceFormats2KHR not implemented")
	return vk.NotReady
}

// Live returns the handle of the live swapchain, or NullHandle.
func (s *Surface) Live() vk.SwapchainKHR {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// Replace makes next the live swapchain if old is the live one. old may be
// NullHandle when no swapchain is live.
func (s *Surface) Replace(old, next vk.SwapchainKHR) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live != old {
		return false
	}
	s.live = next
	return true
}

// Detach clears the live swapchain if it is h.
func (s *Surface) Detach(h vk.SwapchainKHR) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h == vk.NullHandle || s.live != h {
		return false
	}
	s.live = vk.NullHandle
	return true
}
