package wsi

import (
	"errors"
	"fmt"

	"github.com/gogpu/wsi/internal/logger"
	"github.com/gogpu/wsi/sink"
	"github.com/gogpu/wsi/surface"
	"github.com/gogpu/wsi/vk"
)

// ErrUnknownSurface is returned by SetBitmapHook for handles the layer did
// not create or has already destroyed.
var ErrUnknownSurface = errors.New("wsi: unknown surface")

// CreateHeadlessSurface creates a surface of instance with no consumer
// attached. Frames presented to it are dropped until SetBitmapHook installs
// a sink.
func (l *Layer) CreateHeadlessSurface(instance vk.Instance, _ *vk.HeadlessSurfaceCreateInfo,
	_ *vk.AllocationCallbacks) (vk.SurfaceKHR, vk.Result) {
	inst, ok := l.registry.Instance(instance)
	if !ok {
		return vk.NullHandle, vk.ErrorInitializationFailed
	}
	return l.surfaces.Register(surface.New(inst)), vk.Success
}

// DestroySurface destroys surface. A swapchain still live on it stops
// delivering frames but stays valid until destroyed.
func (l *Layer) DestroySurface(_ vk.Instance, h vk.SurfaceKHR, _ *vk.AllocationCallbacks) {
	if s, ok := l.surfaces.Unregister(h); ok {
		s.SetBitmapHook(nil)
	}
}

// SetBitmapHook attaches k to surface h as the consumer of presented frames.
// A nil k detaches the current consumer.
func (l *Layer) SetBitmapHook(h vk.SurfaceKHR, k sink.Sink) error {
	s, ok := l.surfaces.Lookup(h)
	if !ok {
		return fmt.Errorf("%w %#x: %w", ErrUnknownSurface, uint64(h), vk.ErrorSurfaceLost)
	}
	s.SetBitmapHook(k)
	return nil
}

func (l *Layer) surface(h vk.SurfaceKHR) (*surface.Surface, vk.Result) {
	s, ok := l.surfaces.Lookup(h)
	if !ok {
		logger.L().Warn("wsi: unknown surface", "surface", uint64(h))
		return nil, vk.ErrorSurfaceLost
	}
	return s, vk.Success
}

// GetPhysicalDeviceSurfaceSupport reports every queue family as able to
// present.
func (l *Layer) GetPhysicalDeviceSurfaceSupport(_ vk.PhysicalDevice, family uint32, h vk.SurfaceKHR) (bool, vk.Result) {
	s, res := l.surface(h)
	if res != vk.Success {
		return false, res
	}
	return s.Support(family), vk.Success
}

// GetPhysicalDeviceSurfaceCapabilities fills caps for surface h.
func (l *Layer) GetPhysicalDeviceSurfaceCapabilities(pd vk.PhysicalDevice, h vk.SurfaceKHR, caps *vk.SurfaceCapabilities) vk.Result {
	s, res := l.surface(h)
	if res != vk.Success {
		return res
	}
	return s.Capabilities(pd, caps)
}

// GetPhysicalDeviceSurfaceFormats enumerates the formats pd can render
// presentable images in.
func (l *Layer) GetPhysicalDeviceSurfaceFormats(pd vk.PhysicalDevice, h vk.SurfaceKHR,
	count *uint32, out []vk.SurfaceFormat) vk.Result {
	s, res := l.surface(h)
	if res != vk.Success {
		return res
	}
	return s.Formats(pd, count, out)
}

// GetPhysicalDeviceSurfacePresentModes enumerates the present modes.
func (l *Layer) GetPhysicalDeviceSurfacePresentModes(_ vk.PhysicalDevice, h vk.SurfaceKHR,
	count *uint32, out []vk.PresentMode) vk.Result {
	s, res := l.surface(h)
	if res != vk.Success {
		return res
	}
	return s.PresentModes(count, out)
}

// GetPhysicalDevicePresentRectangles enumerates the single rectangle
// covering the surface.
func (l *Layer) GetPhysicalDevicePresentRectangles(_ vk.PhysicalDevice, h vk.SurfaceKHR,
	count *uint32, out []vk.Rect2D) vk.Result {
	s, res := l.surface(h)
	if res != vk.Success {
		return res
	}
	return s.PresentRectangles(count, out)
}

// GetPhysicalDeviceSurfaceCapabilities2 is not implemented and reports NotReady.
func (l *Layer) GetPhysicalDeviceSurfaceCapabilities2(pd vk.PhysicalDevice, info *vk.PhysicalDeviceSurfaceInfo2,
	caps *vk.SurfaceCapabilities2) vk.Result {
	s, res := l.surface(info.Surface)
	if res != vk.Success {
		return res
	}
	return s.Capabilities2(pd, caps)
}

// GetPhysicalDeviceSurfaceFormats2 is not implemented and reports NotReady.
func (l *Layer) GetPhysicalDeviceSurfaceFormats2(pd vk.PhysicalDevice, info *vk.PhysicalDeviceSurfaceInfo2,
	count *uint32, out []vk.SurfaceFormat2) vk.Result {
	s, res := l.surface(info.Surface)
	if res != vk.Success {
		return res
	}
	return s.Formats2(pd, count, out)
}

// GetDeviceGroupSurfacePresentModes reports local presentation only.
func (l *Layer) GetDeviceGroupSurfacePresentModes(_ vk.Device, h vk.SurfaceKHR, modes *vk.DeviceGroupPresentModeFlags) vk.Result {
	s, res := l.surface(h)
	if res != vk.Success {
		return res
	}
	*modes = s.DeviceGroupPresentModes()
	return vk.Success
}
