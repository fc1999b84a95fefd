// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vk

// AllocationCallbacks stands in for host allocator callbacks. The layer only
// forwards the pointer; Go code never allocates through it.
type AllocationCallbacks struct {
	UserData any
}

// Offset2D is a signed 2D offset.
type Offset2D struct {
	X, Y int32
}

// Offset3D is a signed 3D offset.
type Offset3D struct {
	X, Y, Z int32
}

// Extent2D is a 2D size.
type Extent2D struct {
	Width, Height uint32
}

// Extent3D is a 3D size.
type Extent3D struct {
	Width, Height, Depth uint32
}

// Rect2D is an axis-aligned rectangle.
type Rect2D struct {
	Offset Offset2D
	Extent Extent2D
}

// ApplicationInfo carries the client's identity.
type ApplicationInfo struct {
	ApplicationName    string
	ApplicationVersion uint32
	EngineName         string
	EngineVersion      uint32
	APIVersion         uint32
}

// InstanceCreateInfo describes a new instance.
type InstanceCreateInfo struct {
	Next                  Chainable
	ApplicationInfo       *ApplicationInfo
	EnabledLayerNames     []string
	EnabledExtensionNames []string
}

// DeviceQueueCreateInfo requests queues from one family.
type DeviceQueueCreateInfo struct {
	QueueFamilyIndex uint32
	QueuePriorities  []float32
}

// DeviceCreateInfo describes a new logical device.
type DeviceCreateInfo struct {
	Next                  Chainable
	QueueCreateInfos      []DeviceQueueCreateInfo
	EnabledExtensionNames []string
}

// PhysicalDeviceLimits holds the limits the layer reads.
type PhysicalDeviceLimits struct {
	MaxImageDimension2D       uint32
	MaxImageArrayLayers       uint32
	OptimalBufferCopyRowPitch uint64
}

// PhysicalDeviceType is a VkPhysicalDeviceType.
type PhysicalDeviceType int32

// Physical device types.
const (
	PhysicalDeviceTypeOther         PhysicalDeviceType = 0
	PhysicalDeviceTypeIntegratedGPU PhysicalDeviceType = 1
	PhysicalDeviceTypeDiscreteGPU   PhysicalDeviceType = 2
	PhysicalDeviceTypeVirtualGPU    PhysicalDeviceType = 3
	PhysicalDeviceTypeCPU           PhysicalDeviceType = 4
)

// PhysicalDeviceProperties describes a physical device.
type PhysicalDeviceProperties struct {
	APIVersion    uint32
	DriverVersion uint32
	VendorID      uint32
	DeviceID      uint32
	DeviceType    PhysicalDeviceType
	DeviceName    string
	Limits        PhysicalDeviceLimits
}

// MaxMemoryTypes is the size of the memory type table.
const MaxMemoryTypes = 32

// MemoryType is one entry of the memory type table.
type MemoryType struct {
	PropertyFlags MemoryPropertyFlags
	HeapIndex     uint32
}

// MemoryHeap is one memory heap.
type MemoryHeap struct {
	Size  uint64
	Flags uint32
}

// PhysicalDeviceMemoryProperties lists the memory types and heaps.
type PhysicalDeviceMemoryProperties struct {
	MemoryTypeCount uint32
	MemoryTypes     [MaxMemoryTypes]MemoryType
	MemoryHeapCount uint32
	MemoryHeaps     [16]MemoryHeap
}

// ImageFormatProperties is the answer to an image format probe.
type ImageFormatProperties struct {
	MaxExtent       Extent3D
	MaxMipLevels    uint32
	MaxArrayLayers  uint32
	SampleCounts    SampleCountFlags
	MaxResourceSize uint64
}

// ImageCreateInfo describes a new image.
type ImageCreateInfo struct {
	Next               Chainable
	Flags              ImageCreateFlags
	ImageType          ImageType
	Format             Format
	Extent             Extent3D
	MipLevels          uint32
	ArrayLayers        uint32
	Samples            SampleCountFlags
	Tiling             ImageTiling
	Usage              ImageUsageFlags
	SharingMode        SharingMode
	QueueFamilyIndices []uint32
	InitialLayout      ImageLayout
}

// MemoryRequirements is the answer to an image memory query.
type MemoryRequirements struct {
	Size           uint64
	Alignment      uint64
	MemoryTypeBits uint32
}

// ImageSubresource selects one mip level of one layer.
type ImageSubresource struct {
	AspectMask ImageAspectFlags
	MipLevel   uint32
	ArrayLayer uint32
}

// SubresourceLayout describes where a subresource lives in its memory.
type SubresourceLayout struct {
	Offset     uint64
	Size       uint64
	RowPitch   uint64
	ArrayPitch uint64
	DepthPitch uint64
}

// MemoryAllocateInfo describes a memory allocation.
type MemoryAllocateInfo struct {
	Next            Chainable
	AllocationSize  uint64
	MemoryTypeIndex uint32
}

// ImageSubresourceRange selects a range of mips and layers.
type ImageSubresourceRange struct {
	AspectMask     ImageAspectFlags
	BaseMipLevel   uint32
	LevelCount     uint32
	BaseArrayLayer uint32
	LayerCount     uint32
}

// ImageSubresourceLayers selects one mip of a range of layers.
type ImageSubresourceLayers struct {
	AspectMask     ImageAspectFlags
	MipLevel       uint32
	BaseArrayLayer uint32
	LayerCount     uint32
}

// ImageMemoryBarrier is an image layout transition.
type ImageMemoryBarrier struct {
	SrcAccessMask       AccessFlags
	DstAccessMask       AccessFlags
	OldLayout           ImageLayout
	NewLayout           ImageLayout
	SrcQueueFamilyIndex uint32
	DstQueueFamilyIndex uint32
	Image               Image
	SubresourceRange    ImageSubresourceRange
}

// ImageBlit is one blit region. Offsets hold the two corners of each box.
type ImageBlit struct {
	SrcSubresource ImageSubresourceLayers
	SrcOffsets     [2]Offset3D
	DstSubresource ImageSubresourceLayers
	DstOffsets     [2]Offset3D
}

// ImageCopy is one copy region.
type ImageCopy struct {
	SrcSubresource ImageSubresourceLayers
	SrcOffset      Offset3D
	DstSubresource ImageSubresourceLayers
	DstOffset      Offset3D
	Extent         Extent3D
}

// FenceCreateInfo describes a new fence.
type FenceCreateInfo struct {
	Flags FenceCreateFlags
}

// CommandPoolCreateInfo describes a new command pool.
type CommandPoolCreateInfo struct {
	Flags            CommandPoolCreateFlags
	QueueFamilyIndex uint32
}

// CommandBufferAllocateInfo describes a command buffer allocation.
type CommandBufferAllocateInfo struct {
	CommandPool        CommandPool
	Level              CommandBufferLevel
	CommandBufferCount uint32
}

// CommandBufferBeginInfo starts a recording.
type CommandBufferBeginInfo struct {
	Flags CommandBufferUsageFlags
}

// SubmitInfo is one batch of a queue submission.
type SubmitInfo struct {
	WaitSemaphores   []Semaphore
	WaitDstStageMask []PipelineStageFlags
	CommandBuffers   []CommandBuffer
	SignalSemaphores []Semaphore
}

// HeadlessSurfaceCreateInfo describes a surface with no native window.
type HeadlessSurfaceCreateInfo struct {
	Next Chainable
}

// SurfaceCapabilities describes what swapchains a surface supports.
type SurfaceCapabilities struct {
	MinImageCount           uint32
	MaxImageCount           uint32
	CurrentExtent           Extent2D
	MinImageExtent          Extent2D
	MaxImageExtent          Extent2D
	MaxImageArrayLayers     uint32
	SupportedTransforms     SurfaceTransformFlags
	CurrentTransform        SurfaceTransformFlags
	SupportedCompositeAlpha CompositeAlphaFlags
	SupportedUsageFlags     ImageUsageFlags
}

// SurfaceFormat is a supported format and color space pair.
type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

// PhysicalDeviceSurfaceInfo2 names the surface of an extended query.
type PhysicalDeviceSurfaceInfo2 struct {
	Next    Chainable
	Surface SurfaceKHR
}

// SurfaceCapabilities2 wraps SurfaceCapabilities for extended queries.
type SurfaceCapabilities2 struct {
	Next                Chainable
	SurfaceCapabilities SurfaceCapabilities
}

// SurfaceFormat2 wraps SurfaceFormat for extended queries.
type SurfaceFormat2 struct {
	Next          Chainable
	SurfaceFormat SurfaceFormat
}

// SwapchainCreateInfo describes a new swapchain.
type SwapchainCreateInfo struct {
	Next               Chainable
	Surface            SurfaceKHR
	MinImageCount      uint32
	ImageFormat        Format
	ImageColorSpace    ColorSpace
	ImageExtent        Extent2D
	ImageArrayLayers   uint32
	ImageUsage         ImageUsageFlags
	ImageSharingMode   SharingMode
	QueueFamilyIndices []uint32
	PreTransform       SurfaceTransformFlags
	CompositeAlpha     CompositeAlphaFlags
	PresentMode        PresentMode
	Clipped            bool
	OldSwapchain       SwapchainKHR
}

// PresentInfo is a batched present. When Results is non-nil it must have one
// slot per swapchain and receives each swapchain's own result.
type PresentInfo struct {
	Next           Chainable
	WaitSemaphores []Semaphore
	Swapchains     []SwapchainKHR
	ImageIndices   []uint32
	Results        []Result
}

// AcquireNextImageInfo is the extensible form of an acquire. DeviceMask is
// ignored; only single-device groups are supported.
type AcquireNextImageInfo struct {
	Next       Chainable
	Swapchain  SwapchainKHR
	Timeout    uint64
	Semaphore  Semaphore
	Fence      Fence
	DeviceMask uint32
}
