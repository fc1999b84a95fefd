// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vk

// Handles are opaque 64-bit values. Zero is the null handle for every type.
// Dispatchable handles (Instance, PhysicalDevice, Device, Queue,
// CommandBuffer) are minted by the driver link that owns the object; the
// layer never interprets them.
type (
	Instance       uint64
	PhysicalDevice uint64
	Device         uint64
	Queue          uint64
	CommandBuffer  uint64
	CommandPool    uint64
	Image          uint64
	DeviceMemory   uint64
	Fence          uint64
	Semaphore      uint64
	SurfaceKHR     uint64
	SwapchainKHR   uint64
)

// NullHandle is the null value for every handle type.
const NullHandle = 0

// QueueFamilyIgnored marks a barrier that does not transfer queue ownership.
const QueueFamilyIgnored = ^uint32(0)

// WholeSize requests the remainder of a memory object.
const WholeSize = ^uint64(0)

// InfiniteTimeout waits without a deadline.
const InfiniteTimeout = ^uint64(0)

// UndefinedExtent is the width and height reported for a surface whose size is
// decided by the swapchain.
const UndefinedExtent = ^uint32(0)

// LayerProperties describes a layer.
type LayerProperties struct {
	LayerName             string
	SpecVersion           uint32
	ImplementationVersion uint32
	Description           string
}

// ExtensionProperties names an extension and its revision.
type ExtensionProperties struct {
	ExtensionName string
	SpecVersion   uint32
}

// MakeVersion packs a version number the way VK_MAKE_VERSION does.
func MakeVersion(major, minor, patch uint32) uint32 {
	return major<<22 | minor<<12 | patch
}

// HeaderVersion is the header revision the layer reports.
const HeaderVersion = 250
