// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package alloc creates images together with their backing memory.
//
// Every Image owns exactly one image handle and one memory allocation, plus,
// for images that a foreign reader must see, the shared region the memory
// imports. Destroy releases them in dependency order: image, memory, region.
package alloc

import (
	"errors"
	"fmt"

	"github.com/gogpu/wsi/internal/dispatch"
	"github.com/gogpu/wsi/internal/logger"
	"github.com/gogpu/wsi/shm"
	"github.com/gogpu/wsi/vk"
)

// ErrNoMemoryType is returned when no memory type satisfies an image.
var ErrNoMemoryType = errors.New("alloc: no suitable memory type")

// hostMemory is what CPU-visible images require.
const hostMemory = vk.MemoryPropertyHostVisible | vk.MemoryPropertyHostCoherent

// Options selects the memory an image is bound to.
type Options struct {
	// HostVisible binds host-visible, coherent memory. Without it the first
	// memory type the image allows is used.
	HostVisible bool

	// Shared backs the memory with a new shared region of this name. It
	// implies HostVisible.
	Shared string
}

// Image is an image bound to memory it owns.
type Image struct {
	Handle vk.Image
	Memory vk.DeviceMemory
	Size   uint64
	Format vk.Format
	Extent vk.Extent3D

	// Region is the shared memory the image's bytes live in, or nil.
	Region *shm.Region
}

// Allocator creates images on one device.
type Allocator struct {
	dev      *dispatch.Device
	memProps vk.PhysicalDeviceMemoryProperties
}

// New returns an allocator for dev. The memory properties of the device's
// physical device are read once.
func New(dev *dispatch.Device) *Allocator {
	a := &Allocator{dev: dev}
	if get := dev.Instance.Hooks.GetPhysicalDeviceMemoryProperties; get != nil {
		get(dev.PhysicalDevice, &a.memProps)
	} else {
		logger.L().Warn("alloc: memory properties unavailable, using first allowed type")
	}
	return a
}

// MemoryType returns the first memory type allowed by typeBits whose
// properties include required.
func MemoryType(props *vk.PhysicalDeviceMemoryProperties, typeBits uint32, required vk.MemoryPropertyFlags) (uint32, bool) {
	for i := uint32(0); i < props.MemoryTypeCount && i < vk.MaxMemoryTypes; i++ {
		if typeBits&(1<<i) == 0 {
			continue
		}
		if props.MemoryTypes[i].PropertyFlags&required == required {
			return i, true
		}
	}
	return 0, false
}

// firstAllowed returns the lowest set bit of typeBits.
func firstAllowed(typeBits uint32) (uint32, bool) {
	for i := uint32(0); i < vk.MaxMemoryTypes; i++ {
		if typeBits&(1<<i) != 0 {
			return i, true
		}
	}
	return 0, false
}

// NewImage creates an image from info and binds fresh memory to it. On
// failure everything created so far is released.
func (a *Allocator) NewImage(info *vk.ImageCreateInfo, opts Options) (img *Image, err error) {
	h := &a.dev.Hooks
	device := a.dev.Handle

	handle, res := h.CreateImage(device, info, nil)
	if res.IsError() {
		return nil, fmt.Errorf("alloc: create image: %w", res)
	}
	img = &Image{Handle: handle, Format: info.Format, Extent: info.Extent}
	defer func() {
		if err != nil {
			a.Destroy(img)
			img = nil
		}
	}()

	var reqs vk.MemoryRequirements
	h.GetImageMemoryRequirements(device, handle, &reqs)
	img.Size = reqs.Size

	var typeIndex uint32
	var ok bool
	if opts.HostVisible || opts.Shared != "" {
		typeIndex, ok = MemoryType(&a.memProps, reqs.MemoryTypeBits, hostMemory)
	} else {
		typeIndex, ok = firstAllowed(reqs.MemoryTypeBits)
	}
	if !ok {
		return img, fmt.Errorf("%w (type bits %#x): %w", ErrNoMemoryType, reqs.MemoryTypeBits, vk.ErrorOutOfDeviceMemory)
	}

	allocInfo := &vk.MemoryAllocateInfo{
		Next:            &vk.MemoryDedicatedAllocateInfo{Image: handle},
		AllocationSize:  reqs.Size,
		MemoryTypeIndex: typeIndex,
	}
	if opts.Shared != "" {
		region, err := shm.New(opts.Shared, int(reqs.Size))
		if err != nil {
			return img, fmt.Errorf("alloc: %w: %w", vk.ErrorOutOfHostMemory, err)
		}
		img.Region = region
		allocInfo.Next = &vk.ImportMemoryHostPointerInfo{
			Next:        allocInfo.Next,
			HandleType:  vk.ExternalMemoryHandleTypeHostAllocation,
			HostPointer: region.Bytes(),
		}
	}

	mem, res := h.AllocateMemory(device, allocInfo, nil)
	if res.IsError() {
		return img, fmt.Errorf("alloc: allocate %d bytes: %w", reqs.Size, res)
	}
	img.Memory = mem

	if res := h.BindImageMemory(device, handle, mem, 0); res.IsError() {
		return img, fmt.Errorf("alloc: bind memory: %w", res)
	}
	return img, nil
}

// Layout returns the placement of the image's first color subresource.
func (a *Allocator) Layout(img *Image) vk.SubresourceLayout {
	var layout vk.SubresourceLayout
	a.dev.Hooks.GetImageSubresourceLayout(a.dev.Handle, img.Handle,
		&vk.ImageSubresource{AspectMask: vk.ImageAspectColor}, &layout)
	return layout
}

// Destroy releases the image, then its memory, then its shared region.
// It is safe to call on a partially constructed image and on nil.
func (a *Allocator) Destroy(img *Image) {
	if img == nil {
		return
	}
	h := &a.dev.Hooks
	if img.Handle != vk.NullHandle {
		h.DestroyImage(a.dev.Handle, img.Handle, nil)
		img.Handle = vk.NullHandle
	}
	if img.Memory != vk.NullHandle {
		h.FreeMemory(a.dev.Handle, img.Memory, nil)
		img.Memory = vk.NullHandle
	}
	if img.Region != nil {
		if err := img.Region.Close(); err != nil {
			logger.L().Warn("alloc: close shared region", "err", err)
		}
		img.Region = nil
	}
}
