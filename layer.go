package wsi

import (
	"sync"

	"github.com/gogpu/wsi/internal/alloc"
	"github.com/gogpu/wsi/internal/dispatch"
	"github.com/gogpu/wsi/internal/handle"
	"github.com/gogpu/wsi/internal/logger"
	"github.com/gogpu/wsi/internal/swapchain"
	"github.com/gogpu/wsi/surface"
	"github.com/gogpu/wsi/vk"
)

// Layer identity reported by EnumerateInstanceLayerProperties.
const (
	LayerName                  = "VK_LAYER_window_system_integration"
	LayerDescription           = "Window system integration layer"
	LayerImplementationVersion = 1
)

// LayerSpecVersion is the API version the layer was written against.
var LayerSpecVersion = vk.MakeVersion(1, 0, vk.HeaderVersion)

// Layer is one window system integration layer. Its methods are the
// intercepted entry points; GetInstanceProcAddr and GetDeviceProcAddr hand
// them out and forward every other name to the next link.
//
// Layer is safe for concurrent use. Instances, devices, surfaces and
// swapchains created through one Layer are unknown to any other.
type Layer struct {
	opts options

	registry   *dispatch.Registry
	surfaces   *surface.Registry
	swapchains *handle.Table[*swapchain.Swapchain]

	allocMu    sync.RWMutex
	allocators map[vk.Device]*alloc.Allocator
}

// New creates a layer with the given options.
//
// Example:
//
//	layer := wsi.New(wsi.WithPresentTimeout(2 * time.Second))
func New(opts ...Option) *Layer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Layer{
		opts:       o,
		registry:   dispatch.NewRegistry(),
		surfaces:   surface.NewRegistry(),
		swapchains: handle.NewTable[*swapchain.Swapchain](),
		allocators: make(map[vk.Device]*alloc.Allocator),
	}
}

// instanceProcs are the instance-level entry points the layer intercepts.
func (l *Layer) instanceProcs() map[string]vk.Proc {
	return map[string]vk.Proc{
		"vkGetInstanceProcAddr":                     vk.GetInstanceProcAddrFunc(l.GetInstanceProcAddr),
		"vkCreateInstance":                          vk.CreateInstanceFunc(l.CreateInstance),
		"vkDestroyInstance":                         vk.DestroyInstanceFunc(l.DestroyInstance),
		"vkEnumerateInstanceLayerProperties":        vk.EnumerateInstanceLayerPropertiesFunc(l.EnumerateInstanceLayerProperties),
		"vkEnumerateInstanceExtensionProperties":    vk.EnumerateInstanceExtensionPropertiesFunc(l.enumerateInstanceExtensionProperties),
		"vkEnumerateDeviceExtensionProperties":      vk.EnumerateDeviceExtensionPropertiesFunc(l.EnumerateDeviceExtensionProperties),
		"vkCreateDevice":                            vk.CreateDeviceFunc(l.CreateDevice),
		"vkCreateHeadlessSurfaceEXT":                vk.CreateHeadlessSurfaceFunc(l.CreateHeadlessSurface),
		"vkDestroySurfaceKHR":                       vk.DestroySurfaceFunc(l.DestroySurface),
		"vkGetPhysicalDeviceSurfaceSupportKHR":      vk.GetPhysicalDeviceSurfaceSupportFunc(l.GetPhysicalDeviceSurfaceSupport),
		"vkGetPhysicalDeviceSurfaceCapabilitiesKHR": vk.GetPhysicalDeviceSurfaceCapabilitiesFunc(l.GetPhysicalDeviceSurfaceCapabilities),
		"vkGetPhysicalDeviceSurfaceFormatsKHR":      vk.GetPhysicalDeviceSurfaceFormatsFunc(l.GetPhysicalDeviceSurfaceFormats),
		"vkGetPhysicalDeviceSurfacePresentModesKHR": vk.GetPhysicalDeviceSurfacePresentModesFunc(l.GetPhysicalDeviceSurfacePresentModes),
		"vkGetPhysicalDevicePresentRectanglesKHR":   vk.GetPhysicalDevicePresentRectanglesFunc(l.GetPhysicalDevicePresentRectangles),

		"vkGetPhysicalDeviceSurfaceCapabilities2KHR": vk.GetPhysicalDeviceSurfaceCapabilities2Func(l.GetPhysicalDeviceSurfaceCapabilities2),
		"vkGetPhysicalDeviceSurfaceFormats2KHR":      vk.GetPhysicalDeviceSurfaceFormats2Func(l.GetPhysicalDeviceSurfaceFormats2),
	}
}

// deviceProcs are the device-level entry points the layer intercepts.
func (l *Layer) deviceProcs() map[string]vk.Proc {
	return map[string]vk.Proc{
		"vkGetDeviceProcAddr":                    vk.GetDeviceProcAddrFunc(l.GetDeviceProcAddr),
		"vkDestroyDevice":                        vk.DestroyDeviceFunc(l.DestroyDevice),
		"vkGetDeviceGroupSurfacePresentModesKHR": vk.GetDeviceGroupSurfacePresentModesFunc(l.GetDeviceGroupSurfacePresentModes),
		"vkCreateSwapchainKHR":                   vk.CreateSwapchainFunc(l.CreateSwapchain),
		"vkDestroySwapchainKHR":                  vk.DestroySwapchainFunc(l.DestroySwapchain),
		"vkGetSwapchainImagesKHR":                vk.GetSwapchainImagesFunc(l.GetSwapchainImages),
		"vkAcquireNextImageKHR":                  vk.AcquireNextImageFunc(l.AcquireNextImage),
		"vkAcquireNextImage2KHR":                 vk.AcquireNextImage2Func(l.AcquireNextImage2),
		"vkQueuePresentKHR":                      vk.QueuePresentFunc(l.QueuePresent),
	}
}

// GetInstanceProcAddr returns the layer's own entry point for name, or the
// next link's for instances created through the layer. Device-level names
// resolve too, as the loader requires. Unknown instances yield nil for
// names the layer does not intercept.
func (l *Layer) GetInstanceProcAddr(instance vk.Instance, name string) vk.Proc {
	if p, ok := l.instanceProcs()[name]; ok {
		return p
	}
	if p, ok := l.deviceProcs()[name]; ok {
		return p
	}
	inst, ok := l.registry.Instance(instance)
	if !ok {
		return nil
	}
	return inst.GetProcAddr(name)
}

// GetDeviceProcAddr returns the layer's own device-level entry point for
// name, or the next link's.
func (l *Layer) GetDeviceProcAddr(device vk.Device, name string) vk.Proc {
	if p, ok := l.deviceProcs()[name]; ok {
		return p
	}
	dev, ok := l.registry.Device(device)
	if !ok {
		return nil
	}
	return dev.GetProcAddr(name)
}

// CreateInstance creates an instance through the next link named in info's
// layer link list.
func (l *Layer) CreateInstance(info *vk.InstanceCreateInfo, allocator *vk.AllocationCallbacks) (vk.Instance, vk.Result) {
	inst, err := l.registry.RegisterInstance(info, allocator)
	if err != nil {
		logger.L().Warn("wsi: create instance failed", "err", err)
		return vk.NullHandle, vk.ResultOf(err)
	}
	return inst.Handle, vk.Success
}

// DestroyInstance destroys the instance's remaining surfaces, then the
// instance itself.
func (l *Layer) DestroyInstance(instance vk.Instance, allocator *vk.AllocationCallbacks) {
	inst, ok := l.registry.Instance(instance)
	if !ok {
		return
	}
	for _, h := range l.surfaces.Owned(inst) {
		l.surfaces.Unregister(h)
	}
	l.registry.UnregisterInstance(instance, allocator)
}

// EnumerateInstanceLayerProperties reports the layer itself.
func (l *Layer) EnumerateInstanceLayerProperties(count *uint32, out []vk.LayerProperties) vk.Result {
	return vk.Enumerate([]vk.LayerProperties{{
		LayerName:             LayerName,
		SpecVersion:           LayerSpecVersion,
		ImplementationVersion: LayerImplementationVersion,
		Description:           LayerDescription,
	}}, count, out)
}

// EnumerateInstanceExtensionProperties answers queries naming the layer
// with VK_KHR_surface and passes every other query down chain.
func (l *Layer) EnumerateInstanceExtensionProperties(chain *vk.EnumerateInstanceExtensionPropertiesChain,
	layerName string, count *uint32, out []vk.ExtensionProperties) vk.Result {
	if layerName == LayerName {
		return vk.Enumerate([]vk.ExtensionProperties{{
			ExtensionName: vk.KHRSurfaceExtensionName,
			SpecVersion:   vk.KHRSurfaceSpecVersion,
		}}, count, out)
	}
	return chain.CallDown(layerName, count, out)
}

func (l *Layer) enumerateInstanceExtensionProperties(layerName string, count *uint32, out []vk.ExtensionProperties) vk.Result {
	return l.EnumerateInstanceExtensionProperties(nil, layerName, count, out)
}

// EnumerateDeviceExtensionProperties answers queries naming the layer with
// VK_KHR_swapchain and forwards every other query to pd's instance.
func (l *Layer) EnumerateDeviceExtensionProperties(pd vk.PhysicalDevice, layerName string,
	count *uint32, out []vk.ExtensionProperties) vk.Result {
	if layerName == LayerName {
		return vk.Enumerate([]vk.ExtensionProperties{{
			ExtensionName: vk.KHRSwapchainExtensionName,
			SpecVersion:   vk.KHRSwapchainSpecVersion,
		}}, count, out)
	}
	inst := l.registry.InstanceForPhysicalDevice(pd)
	if inst == nil || inst.Hooks.EnumerateDeviceExtensionProperties == nil {
		var chain *vk.EnumerateInstanceExtensionPropertiesChain
		return chain.CallDown(layerName, count, out)
	}
	return inst.Hooks.EnumerateDeviceExtensionProperties(pd, layerName, count, out)
}

// CreateDevice creates a device through the next link with the external
// memory extension enabled, and prepares its allocator.
func (l *Layer) CreateDevice(pd vk.PhysicalDevice, info *vk.DeviceCreateInfo, allocator *vk.AllocationCallbacks) (vk.Device, vk.Result) {
	dev, err := l.registry.RegisterDevice(pd, info, allocator)
	if err != nil {
		logger.L().Warn("wsi: create device failed", "err", err)
		return vk.NullHandle, vk.ResultOf(err)
	}
	a := alloc.New(dev)
	l.allocMu.Lock()
	l.allocators[dev.Handle] = a
	l.allocMu.Unlock()
	return dev.Handle, vk.Success
}

// DestroyDevice destroys the device's remaining swapchains, then the device.
func (l *Layer) DestroyDevice(device vk.Device, allocator *vk.AllocationCallbacks) {
	var orphans []vk.SwapchainKHR
	l.swapchains.Each(func(h uint64, sc *swapchain.Swapchain) {
		if sc.Device().Handle == device {
			orphans = append(orphans, vk.SwapchainKHR(h))
		}
	})
	for _, h := range orphans {
		if sc, ok := l.swapchains.Remove(uint64(h)); ok {
			logger.L().Warn("wsi: swapchain outlived its device", "swapchain", uint64(h))
			sc.Destroy()
		}
	}

	l.allocMu.Lock()
	delete(l.allocators, device)
	l.allocMu.Unlock()
	l.registry.UnregisterDevice(device, allocator)
}

func (l *Layer) allocator(device vk.Device) (*alloc.Allocator, bool) {
	l.allocMu.RLock()
	defer l.allocMu.RUnlock()
	a, ok := l.allocators[device]
	return a, ok
}
