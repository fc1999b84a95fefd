// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vk

// Format is a VkFormat code.
type Format int32

// Formats the layer refers to by name. Every code in [0, FormatCoreCount) is
// a core 1.0 format.
const (
	FormatUndefined          Format = 0
	FormatR8Unorm            Format = 9
	FormatR8G8B8A8Unorm      Format = 37
	FormatR8G8B8A8Srgb       Format = 43
	FormatB8G8R8A8Unorm      Format = 44
	FormatB8G8R8A8Srgb       Format = 50
	FormatD24UnormS8Uint     Format = 129
	FormatASTC12x12SrgbBlock Format = 184

	// FormatCoreCount is one past the last core 1.0 format code.
	FormatCoreCount = int(FormatASTC12x12SrgbBlock) + 1
)

// BytesPerPixel returns the texel size of the uncompressed color formats the
// layer copies on the CPU, and 0 for everything else.
func (f Format) BytesPerPixel() int {
	switch f {
	case FormatR8Unorm:
		return 1
	case FormatR8G8B8A8Unorm, FormatR8G8B8A8Srgb, FormatB8G8R8A8Unorm, FormatB8G8R8A8Srgb:
		return 4
	}
	return 0
}

// IsBGRA reports whether the format stores blue in the first byte.
func (f Format) IsBGRA() bool {
	return f == FormatB8G8R8A8Unorm || f == FormatB8G8R8A8Srgb
}

// ColorSpace is a VkColorSpaceKHR.
type ColorSpace int32

// ColorSpaceSRGBNonlinear is the only color space the layer reports.
const ColorSpaceSRGBNonlinear ColorSpace = 0

// PresentMode is a VkPresentModeKHR.
type PresentMode int32

// Present modes.
const (
	PresentModeImmediate   PresentMode = 0
	PresentModeMailbox     PresentMode = 1
	PresentModeFIFO        PresentMode = 2
	PresentModeFIFORelaxed PresentMode = 3
)

// ImageType is a VkImageType.
type ImageType int32

// Image types.
const (
	ImageType1D ImageType = 0
	ImageType2D ImageType = 1
	ImageType3D ImageType = 2
)

// ImageTiling is a VkImageTiling.
type ImageTiling int32

// Image tilings.
const (
	ImageTilingOptimal ImageTiling = 0
	ImageTilingLinear  ImageTiling = 1
)

// ImageLayout is a VkImageLayout.
type ImageLayout int32

// Image layouts.
const (
	ImageLayoutUndefined              ImageLayout = 0
	ImageLayoutGeneral                ImageLayout = 1
	ImageLayoutColorAttachmentOptimal ImageLayout = 2
	ImageLayoutTransferSrcOptimal     ImageLayout = 6
	ImageLayoutTransferDstOptimal     ImageLayout = 7
	ImageLayoutPresentSrc             ImageLayout = 1000001002
)

// SharingMode is a VkSharingMode.
type SharingMode int32

// Sharing modes.
const (
	SharingModeExclusive  SharingMode = 0
	SharingModeConcurrent SharingMode = 1
)

// Filter is a VkFilter.
type Filter int32

// Filters.
const (
	FilterNearest Filter = 0
	FilterLinear  Filter = 1
)

// CommandBufferLevel is a VkCommandBufferLevel.
type CommandBufferLevel int32

// CommandBufferLevelPrimary is the only level the layer allocates.
const CommandBufferLevelPrimary CommandBufferLevel = 0

// ImageUsageFlags is a VkImageUsageFlags bitmask.
type ImageUsageFlags uint32

// Image usage bits.
const (
	ImageUsageTransferSrc            ImageUsageFlags = 0x01
	ImageUsageTransferDst            ImageUsageFlags = 0x02
	ImageUsageSampled                ImageUsageFlags = 0x04
	ImageUsageStorage                ImageUsageFlags = 0x08
	ImageUsageColorAttachment        ImageUsageFlags = 0x10
	ImageUsageDepthStencilAttachment ImageUsageFlags = 0x20
	ImageUsageInputAttachment        ImageUsageFlags = 0x80
)

// ImageCreateFlags is a VkImageCreateFlags bitmask.
type ImageCreateFlags uint32

// ImageCreateMutableFormat allows views with a different format.
const ImageCreateMutableFormat ImageCreateFlags = 0x08

// SampleCountFlags is a VkSampleCountFlags bitmask.
type SampleCountFlags uint32

// SampleCount1 is single sampling.
const SampleCount1 SampleCountFlags = 0x01

// ImageAspectFlags is a VkImageAspectFlags bitmask.
type ImageAspectFlags uint32

// ImageAspectColor selects the color aspect.
const ImageAspectColor ImageAspectFlags = 0x01

// MemoryPropertyFlags is a VkMemoryPropertyFlags bitmask.
type MemoryPropertyFlags uint32

// Memory property bits.
const (
	MemoryPropertyDeviceLocal  MemoryPropertyFlags = 0x01
	MemoryPropertyHostVisible  MemoryPropertyFlags = 0x02
	MemoryPropertyHostCoherent MemoryPropertyFlags = 0x04
	MemoryPropertyHostCached   MemoryPropertyFlags = 0x08
)

// AccessFlags is a VkAccessFlags bitmask.
type AccessFlags uint32

// Access bits.
const (
	AccessTransferRead  AccessFlags = 0x0800
	AccessTransferWrite AccessFlags = 0x1000
	AccessHostRead      AccessFlags = 0x2000
	AccessMemoryRead    AccessFlags = 0x8000
)

// PipelineStageFlags is a VkPipelineStageFlags bitmask.
type PipelineStageFlags uint32

// Pipeline stage bits.
const (
	PipelineStageTopOfPipe    PipelineStageFlags = 0x0001
	PipelineStageTransfer     PipelineStageFlags = 0x1000
	PipelineStageBottomOfPipe PipelineStageFlags = 0x2000
	PipelineStageHost         PipelineStageFlags = 0x4000
)

// DependencyFlags is a VkDependencyFlags bitmask.
type DependencyFlags uint32

// FenceCreateFlags is a VkFenceCreateFlags bitmask.
type FenceCreateFlags uint32

// FenceCreateSignaled creates the fence in the signaled state.
const FenceCreateSignaled FenceCreateFlags = 0x01

// CommandPoolCreateFlags is a VkCommandPoolCreateFlags bitmask.
type CommandPoolCreateFlags uint32

// CommandPoolCreateResetCommandBuffer lets Begin implicitly reset a buffer.
const CommandPoolCreateResetCommandBuffer CommandPoolCreateFlags = 0x02

// CommandBufferUsageFlags is a VkCommandBufferUsageFlags bitmask.
type CommandBufferUsageFlags uint32

// CommandBufferUsageOneTimeSubmit marks a recording submitted once.
const CommandBufferUsageOneTimeSubmit CommandBufferUsageFlags = 0x01

// SurfaceTransformFlags is a VkSurfaceTransformFlagsKHR bitmask.
type SurfaceTransformFlags uint32

// SurfaceTransformIdentity is the identity transform.
const SurfaceTransformIdentity SurfaceTransformFlags = 0x01

// CompositeAlphaFlags is a VkCompositeAlphaFlagsKHR bitmask.
type CompositeAlphaFlags uint32

// Composite alpha bits.
const (
	CompositeAlphaOpaque         CompositeAlphaFlags = 0x01
	CompositeAlphaPreMultiplied  CompositeAlphaFlags = 0x02
	CompositeAlphaPostMultiplied CompositeAlphaFlags = 0x04
	CompositeAlphaInherit        CompositeAlphaFlags = 0x08
)

// DeviceGroupPresentModeFlags is a VkDeviceGroupPresentModeFlagsKHR bitmask.
type DeviceGroupPresentModeFlags uint32

// DeviceGroupPresentModeLocal presents from the local device only.
const DeviceGroupPresentModeLocal DeviceGroupPresentModeFlags = 0x01

// ExternalMemoryHandleTypeFlags is a VkExternalMemoryHandleTypeFlags bitmask.
type ExternalMemoryHandleTypeFlags uint32

// External memory handle types.
const (
	ExternalMemoryHandleTypeOpaqueFD       ExternalMemoryHandleTypeFlags = 0x01
	ExternalMemoryHandleTypeHostAllocation ExternalMemoryHandleTypeFlags = 0x80
)
