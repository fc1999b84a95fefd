// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vk

// Proc is a resolved entry point: a value of one of the *Func types below, or
// nil when the provider does not know the name.
type Proc any

// ProcAs converts a resolved entry point to its function type. It reports
// false for nil and for a value of a different type.
func ProcAs[F any](p Proc) (F, bool) {
	f, ok := p.(F)
	return f, ok
}

// Proc-address providers.
type (
	GetInstanceProcAddrFunc func(instance Instance, name string) Proc
	GetDeviceProcAddrFunc   func(device Device, name string) Proc
)

// Global and instance-level entry points.
type (
	CreateInstanceFunc                       func(info *InstanceCreateInfo, allocator *AllocationCallbacks) (Instance, Result)
	DestroyInstanceFunc                      func(instance Instance, allocator *AllocationCallbacks)
	EnumerateInstanceLayerPropertiesFunc     func(count *uint32, out []LayerProperties) Result
	EnumerateInstanceExtensionPropertiesFunc func(layerName string, count *uint32, out []ExtensionProperties) Result
	EnumeratePhysicalDevicesFunc             func(instance Instance, count *uint32, out []PhysicalDevice) Result
	EnumerateDeviceExtensionPropertiesFunc   func(pd PhysicalDevice, layerName string, count *uint32, out []ExtensionProperties) Result

	GetPhysicalDeviceImageFormatPropertiesFunc func(pd PhysicalDevice, format Format, typ ImageType, tiling ImageTiling,
		usage ImageUsageFlags, flags ImageCreateFlags, props *ImageFormatProperties) Result
	GetPhysicalDeviceMemoryPropertiesFunc func(pd PhysicalDevice, props *PhysicalDeviceMemoryProperties)
	GetPhysicalDevicePropertiesFunc       func(pd PhysicalDevice, props *PhysicalDeviceProperties)

	CreateDeviceFunc func(pd PhysicalDevice, info *DeviceCreateInfo, allocator *AllocationCallbacks) (Device, Result)
)

// Device-level entry points.
type (
	DestroyDeviceFunc  func(device Device, allocator *AllocationCallbacks)
	GetDeviceQueueFunc func(device Device, family, index uint32) Queue

	CreateImageFunc                func(device Device, info *ImageCreateInfo, allocator *AllocationCallbacks) (Image, Result)
	DestroyImageFunc               func(device Device, image Image, allocator *AllocationCallbacks)
	GetImageMemoryRequirementsFunc func(device Device, image Image, reqs *MemoryRequirements)
	GetImageSubresourceLayoutFunc  func(device Device, image Image, sub *ImageSubresource, layout *SubresourceLayout)

	AllocateMemoryFunc  func(device Device, info *MemoryAllocateInfo, allocator *AllocationCallbacks) (DeviceMemory, Result)
	FreeMemoryFunc      func(device Device, memory DeviceMemory, allocator *AllocationCallbacks)
	BindImageMemoryFunc func(device Device, image Image, memory DeviceMemory, offset uint64) Result
	MapMemoryFunc       func(device Device, memory DeviceMemory, offset, size uint64, flags uint32) ([]byte, Result)
	UnmapMemoryFunc     func(device Device, memory DeviceMemory)

	CreateFenceFunc   func(device Device, info *FenceCreateInfo, allocator *AllocationCallbacks) (Fence, Result)
	DestroyFenceFunc  func(device Device, fence Fence, allocator *AllocationCallbacks)
	ResetFencesFunc   func(device Device, fences []Fence) Result
	WaitForFencesFunc func(device Device, fences []Fence, waitAll bool, timeout uint64) Result

	CreateCommandPoolFunc      func(device Device, info *CommandPoolCreateInfo, allocator *AllocationCallbacks) (CommandPool, Result)
	DestroyCommandPoolFunc     func(device Device, pool CommandPool, allocator *AllocationCallbacks)
	AllocateCommandBuffersFunc func(device Device, info *CommandBufferAllocateInfo, out []CommandBuffer) Result
	FreeCommandBuffersFunc     func(device Device, pool CommandPool, buffers []CommandBuffer)
	BeginCommandBufferFunc     func(cb CommandBuffer, info *CommandBufferBeginInfo) Result
	EndCommandBufferFunc       func(cb CommandBuffer) Result

	CmdPipelineBarrierFunc func(cb CommandBuffer, src, dst PipelineStageFlags, deps DependencyFlags, barriers []ImageMemoryBarrier)
	CmdBlitImageFunc       func(cb CommandBuffer, src Image, srcLayout ImageLayout, dst Image, dstLayout ImageLayout,
		regions []ImageBlit, filter Filter)
	CmdCopyImageFunc func(cb CommandBuffer, src Image, srcLayout ImageLayout, dst Image, dstLayout ImageLayout,
		regions []ImageCopy)

	QueueSubmitFunc   func(queue Queue, submits []SubmitInfo, fence Fence) Result
	QueueWaitIdleFunc func(queue Queue) Result
)

// Surface and swapchain entry points provided by the layer.
type (
	CreateHeadlessSurfaceFunc func(instance Instance, info *HeadlessSurfaceCreateInfo,
		allocator *AllocationCallbacks) (SurfaceKHR, Result)
	DestroySurfaceFunc func(instance Instance, surface SurfaceKHR, allocator *AllocationCallbacks)

	GetPhysicalDeviceSurfaceSupportFunc      func(pd PhysicalDevice, family uint32, surface SurfaceKHR) (bool, Result)
	GetPhysicalDeviceSurfaceCapabilitiesFunc func(pd PhysicalDevice, surface SurfaceKHR, caps *SurfaceCapabilities) Result
	GetPhysicalDeviceSurfaceFormatsFunc      func(pd PhysicalDevice, surface SurfaceKHR, count *uint32, out []SurfaceFormat) Result
	GetPhysicalDeviceSurfacePresentModesFunc func(pd PhysicalDevice, surface SurfaceKHR, count *uint32, out []PresentMode) Result
	GetPhysicalDevicePresentRectanglesFunc   func(pd PhysicalDevice, surface SurfaceKHR, count *uint32, out []Rect2D) Result

	GetPhysicalDeviceSurfaceCapabilities2Func func(pd PhysicalDevice, info *PhysicalDeviceSurfaceInfo2,
		caps *SurfaceCapabilities2) Result
	GetPhysicalDeviceSurfaceFormats2Func func(pd PhysicalDevice, info *PhysicalDeviceSurfaceInfo2,
		count *uint32, out []SurfaceFormat2) Result

	GetDeviceGroupSurfacePresentModesFunc func(device Device, surface SurfaceKHR, modes *DeviceGroupPresentModeFlags) Result

	CreateSwapchainFunc    func(device Device, info *SwapchainCreateInfo, allocator *AllocationCallbacks) (SwapchainKHR, Result)
	DestroySwapchainFunc   func(device Device, swapchain SwapchainKHR, allocator *AllocationCallbacks)
	GetSwapchainImagesFunc func(device Device, swapchain SwapchainKHR, count *uint32, out []Image) Result
	AcquireNextImageFunc   func(device Device, swapchain SwapchainKHR, timeout uint64, semaphore Semaphore,
		fence Fence) (uint32, Result)
	AcquireNextImage2Func func(device Device, info *AcquireNextImageInfo) (uint32, Result)
	QueuePresentFunc      func(queue Queue, info *PresentInfo) Result
)

// EnumerateInstanceExtensionPropertiesChain is handed to a layer's
// instance-extension query so that it can answer for itself or pass the
// query to the links below.
type EnumerateInstanceExtensionPropertiesChain struct {
	Next EnumerateInstanceExtensionPropertiesFunc
}

// CallDown forwards the query to the next link. Without one, a named layer
// is reported as absent and an unnamed query as empty.
func (c *EnumerateInstanceExtensionPropertiesChain) CallDown(layerName string, count *uint32, out []ExtensionProperties) Result {
	if c == nil || c.Next == nil {
		if layerName != "" {
			return ErrorLayerNotPresent
		}
		*count = 0
		return Success
	}
	return c.Next(layerName, count, out)
}
