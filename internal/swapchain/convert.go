// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package swapchain

import (
	"fmt"

	"github.com/gogpu/wsi/internal/alloc"
	"github.com/gogpu/wsi/internal/dispatch"
	"github.com/gogpu/wsi/internal/logger"
	"github.com/gogpu/wsi/sink"
	"github.com/gogpu/wsi/vk"
)

// BitmapFormat is the pixel format of the bitmaps handed to sinks.
const BitmapFormat = vk.FormatB8G8R8A8Unorm

var colorRange = vk.ImageSubresourceRange{
	AspectMask: vk.ImageAspectColor,
	LevelCount: 1,
	LayerCount: 1,
}

var colorLayers = vk.ImageSubresourceLayers{
	AspectMask: vk.ImageAspectColor,
	LayerCount: 1,
}

// converter copies presented images into a host-visible image whose memory
// backs the bitmap given to the sink.
type converter struct {
	extent vk.Extent2D
	image  *alloc.Image
	layout vk.SubresourceLayout
	pool   vk.CommandPool
	cmd    vk.CommandBuffer

	// mapped is the conversion image's memory when it is not a shared
	// region; it is copied into the bitmap after each conversion.
	mapped []byte
	bitmap *sink.Bitmap
}

func newConverter(dev *dispatch.Device, a *alloc.Allocator, extent vk.Extent2D, shared bool) (_ *converter, err error) {
	c := &converter{extent: extent}
	defer func() {
		if err != nil {
			c.destroy(dev, a)
		}
	}()

	opts := alloc.Options{HostVisible: true}
	if shared {
		opts.Shared = fmt.Sprintf("wsi bitmap %dx%d", extent.Width, extent.Height)
	}
	img, err := a.NewImage(&vk.ImageCreateInfo{
		ImageType:     vk.ImageType2D,
		Format:        BitmapFormat,
		Extent:        vk.Extent3D{Width: extent.Width, Height: extent.Height, Depth: 1},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vk.SampleCount1,
		Tiling:        vk.ImageTilingLinear,
		Usage:         vk.ImageUsageTransferDst,
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("swapchain: conversion image: %w", err)
	}
	c.image = img
	c.layout = a.Layout(img)

	stride := int(c.layout.RowPitch)
	if stride == 0 {
		stride = int(extent.Width) * BitmapFormat.BytesPerPixel()
	}
	w, h := int(extent.Width), int(extent.Height)
	if img.Region != nil {
		// The bitmap maps the region on its own, so a sink may keep the last
		// frame after the swapchain is gone.
		region, err := img.Region.Clone()
		if err != nil {
			return nil, fmt.Errorf("swapchain: share bitmap: %w: %w", vk.ErrorOutOfHostMemory, err)
		}
		c.bitmap = sink.NewSharedBitmap(w, h, stride, BitmapFormat, region)
	} else {
		mapped, res := dev.Hooks.MapMemory(dev.Handle, img.Memory, 0, vk.WholeSize, 0)
		if res.IsError() {
			return nil, fmt.Errorf("swapchain: map conversion image: %w", res)
		}
		c.mapped = mapped[c.layout.Offset:]
		c.bitmap = sink.NewBitmap(w, h, stride, BitmapFormat, make([]byte, stride*h), nil)
	}

	pool, res := dev.Hooks.CreateCommandPool(dev.Handle, &vk.CommandPoolCreateInfo{
		Flags: vk.CommandPoolCreateResetCommandBuffer,
	}, nil)
	if res.IsError() {
		return nil, fmt.Errorf("swapchain: create command pool: %w", res)
	}
	c.pool = pool

	cmds := make([]vk.CommandBuffer, 1)
	if res := dev.Hooks.AllocateCommandBuffers(dev.Handle, &vk.CommandBufferAllocateInfo{
		CommandPool:        pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}, cmds); res.IsError() {
		return nil, fmt.Errorf("swapchain: allocate command buffer: %w", res)
	}
	c.cmd = cmds[0]
	return c, nil
}

// run records and executes the conversion of src and hands the bitmap to k.
// BGRA sources are copied texel for texel; anything else is converted by a
// nearest-filtered blit.
func (c *converter) run(s *Swapchain, src *alloc.Image, k sink.Sink) vk.Result {
	h := &s.dev.Hooks
	device := s.dev.Handle

	if res := h.BeginCommandBuffer(c.cmd, &vk.CommandBufferBeginInfo{Flags: vk.CommandBufferUsageOneTimeSubmit}); res.IsError() {
		return res
	}
	h.CmdPipelineBarrier(c.cmd, vk.PipelineStageTopOfPipe, vk.PipelineStageTransfer, 0, []vk.ImageMemoryBarrier{{
		DstAccessMask:       vk.AccessTransferWrite,
		OldLayout:           vk.ImageLayoutUndefined,
		NewLayout:           vk.ImageLayoutTransferDstOptimal,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               c.image.Handle,
		SubresourceRange:    colorRange,
	}})

	width := min(src.Extent.Width, c.extent.Width)
	height := min(src.Extent.Height, c.extent.Height)
	if src.Format.IsBGRA() {
		h.CmdCopyImage(c.cmd, src.Handle, vk.ImageLayoutTransferSrcOptimal,
			c.image.Handle, vk.ImageLayoutTransferDstOptimal, []vk.ImageCopy{{
				SrcSubresource: colorLayers,
				DstSubresource: colorLayers,
				Extent:         vk.Extent3D{Width: width, Height: height, Depth: 1},
			}})
	} else {
		h.CmdBlitImage(c.cmd, src.Handle, vk.ImageLayoutTransferSrcOptimal,
			c.image.Handle, vk.ImageLayoutTransferDstOptimal, []vk.ImageBlit{{
				SrcSubresource: colorLayers,
				SrcOffsets:     [2]vk.Offset3D{{}, {X: int32(src.Extent.Width), Y: int32(src.Extent.Height), Z: 1}},
				DstSubresource: colorLayers,
				DstOffsets:     [2]vk.Offset3D{{}, {X: int32(c.extent.Width), Y: int32(c.extent.Height), Z: 1}},
			}}, vk.FilterNearest)
	}

	h.CmdPipelineBarrier(c.cmd, vk.PipelineStageTransfer, vk.PipelineStageHost, 0, []vk.ImageMemoryBarrier{{
		SrcAccessMask:       vk.AccessTransferWrite,
		DstAccessMask:       vk.AccessHostRead,
		OldLayout:           vk.ImageLayoutTransferDstOptimal,
		NewLayout:           vk.ImageLayoutGeneral,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               c.image.Handle,
		SubresourceRange:    colorRange,
	}})
	if res := h.EndCommandBuffer(c.cmd); res.IsError() {
		return res
	}

	fence, res := h.CreateFence(device, &vk.FenceCreateInfo{}, nil)
	if res.IsError() {
		return res
	}
	defer h.DestroyFence(device, fence, nil)

	submit := []vk.SubmitInfo{{CommandBuffers: []vk.CommandBuffer{c.cmd}}}
	if res := h.QueueSubmit(s.queue, submit, fence); res.IsError() {
		return res
	}
	if res := s.wait(fence); res != vk.Success {
		return res
	}

	if c.mapped != nil {
		copy(c.bitmap.Pix(), c.mapped)
	}
	prev := k.SetBitmap(c.bitmap.Retain())
	prev.Release()
	logger.L().Debug("swapchain: frame converted", "width", width, "height", height)
	return vk.Success
}

// destroy frees the command buffer, the pool and the conversion image, and
// drops the converter's bitmap reference.
func (c *converter) destroy(dev *dispatch.Device, a *alloc.Allocator) {
	h := &dev.Hooks
	if c.cmd != vk.NullHandle {
		h.FreeCommandBuffers(dev.Handle, c.pool, []vk.CommandBuffer{c.cmd})
		c.cmd = vk.NullHandle
	}
	if c.pool != vk.NullHandle {
		h.DestroyCommandPool(dev.Handle, c.pool, nil)
		c.pool = vk.NullHandle
	}
	if c.mapped != nil && c.image != nil {
		h.UnmapMemory(dev.Handle, c.image.Memory)
		c.mapped = nil
	}
	a.Destroy(c.image)
	c.image = nil
	if c.bitmap != nil {
		c.bitmap.Release()
		c.bitmap = nil
	}
}
