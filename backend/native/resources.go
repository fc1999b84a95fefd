// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wsi/internal/logger"
	"github.com/gogpu/wsi/internal/texel"
	"github.com/gogpu/wsi/vk"
)

// copyPitchAlignment is the row pitch of every image. HAL buffer-texture
// copies require rows aligned to 256 bytes, so shadow memory can be read back
// and uploaded without repacking.
const copyPitchAlignment = 256

type vkImage struct {
	info     vk.ImageCreateInfo
	rowPitch uint64
	size     uint64
	mem      *memory
	offset   uint64
	layout   vk.ImageLayout

	// Set for images bound to device-local memory whose format has a
	// texture counterpart. mem then holds the host shadow of the texture.
	texture hal.Texture
	usage   gputypes.TextureUsage
}

type memory struct {
	data   []byte
	typ    uint32
	mapped bool
	bound  int
}

func alignUp(v, a uint64) uint64 {
	return (v + a - 1) / a * a
}

func (im *vkImage) view() texel.Image {
	return texel.Image{
		Pix:    im.mem.data[im.offset : im.offset+im.size],
		Stride: int(im.rowPitch),
		Format: im.info.Format,
		Width:  int(im.info.Extent.Width),
		Height: int(im.info.Extent.Height),
	}
}

// shadow returns the first layer of the image's memory.
func (im *vkImage) shadow() []byte {
	return im.mem.data[im.offset : im.offset+im.rowPitch*uint64(im.info.Extent.Height)]
}

func (d *Driver) createImage(_ vk.Device, info *vk.ImageCreateInfo, _ *vk.AllocationCallbacks) (vk.Image, vk.Result) {
	bpp := uint64(info.Format.BytesPerPixel())
	if bpp == 0 {
		return vk.NullHandle, vk.ErrorFormatNotSupported
	}
	maxDim := d.props.Limits.MaxImageDimension2D
	if info.Extent.Width == 0 || info.Extent.Height == 0 || info.Extent.Width > maxDim || info.Extent.Height > maxDim {
		return vk.NullHandle, vk.ErrorOutOfDeviceMemory
	}
	layers := uint64(max(info.ArrayLayers, 1))
	im := &vkImage{info: *info, layout: info.InitialLayout}
	im.rowPitch = alignUp(uint64(info.Extent.Width)*bpp, copyPitchAlignment)
	im.size = im.rowPitch * uint64(info.Extent.Height) * layers

	h := vk.Image(d.newID())
	d.mu.Lock()
	d.images[h] = im
	d.mu.Unlock()
	return h, vk.Success
}

func (d *Driver) destroyImage(_ vk.Device, img vk.Image, _ *vk.AllocationCallbacks) {
	d.mu.Lock()
	im, ok := d.images[img]
	if ok {
		delete(d.images, img)
		if im.mem != nil {
			im.mem.bound--
		}
	}
	d.mu.Unlock()

	if ok && im.texture != nil {
		d.device.DestroyTexture(im.texture)
	}
}

func (d *Driver) getImageMemoryRequirements(_ vk.Device, img vk.Image, reqs *vk.MemoryRequirements) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	im, ok := d.images[img]
	if !ok {
		*reqs = vk.MemoryRequirements{}
		return
	}
	*reqs = vk.MemoryRequirements{
		Size:           im.size,
		Alignment:      copyPitchAlignment,
		MemoryTypeBits: 1<<d.memProps.MemoryTypeCount - 1,
	}
}

func (d *Driver) getImageSubresourceLayout(_ vk.Device, img vk.Image, sub *vk.ImageSubresource, layout *vk.SubresourceLayout) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	im, ok := d.images[img]
	if !ok {
		*layout = vk.SubresourceLayout{}
		return
	}
	layerSize := im.rowPitch * uint64(im.info.Extent.Height)
	*layout = vk.SubresourceLayout{
		Offset:     uint64(sub.ArrayLayer) * layerSize,
		Size:       layerSize,
		RowPitch:   im.rowPitch,
		ArrayPitch: layerSize,
		DepthPitch: layerSize,
	}
}

func (d *Driver) allocateMemory(_ vk.Device, info *vk.MemoryAllocateInfo, _ *vk.AllocationCallbacks) (vk.DeviceMemory, vk.Result) {
	if info.MemoryTypeIndex >= d.memProps.MemoryTypeCount {
		return vk.NullHandle, vk.ErrorOutOfDeviceMemory
	}
	mem := &memory{typ: info.MemoryTypeIndex}
	if host, ok := vk.FindInChain[*vk.ImportMemoryHostPointerInfo](info.Next); ok {
		if uint64(len(host.HostPointer)) < info.AllocationSize {
			return vk.NullHandle, vk.ErrorOutOfHostMemory
		}
		mem.data = host.HostPointer[:info.AllocationSize]
	} else {
		mem.data = make([]byte, info.AllocationSize)
	}

	h := vk.DeviceMemory(d.newID())
	d.mu.Lock()
	d.memories[h] = mem
	d.mu.Unlock()
	return h, vk.Success
}

func (d *Driver) freeMemory(_ vk.Device, m vk.DeviceMemory, _ *vk.AllocationCallbacks) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if mem, ok := d.memories[m]; ok && mem.bound > 0 {
		logger.L().Warn("native: memory freed while bound", "memory", uint64(m))
	}
	delete(d.memories, m)
}

func (d *Driver) bindImageMemory(_ vk.Device, img vk.Image, m vk.DeviceMemory, offset uint64) vk.Result {
	d.mu.RLock()
	im, ok := d.images[img]
	mem, mok := d.memories[m]
	d.mu.RUnlock()
	if !ok || !mok {
		return vk.ErrorUnknown
	}
	if uint64(len(mem.data)) < offset+im.size {
		return vk.ErrorOutOfDeviceMemory
	}

	var texture hal.Texture
	if mem.typ == MemoryTypeDeviceLocal && supported(im.info.Format) && max(im.info.ArrayLayers, 1) == 1 {
		t, err := d.createTexture(img, im)
		if err != nil {
			logger.L().Error("native: create texture failed", "image", uint64(img), "err", err)
			return vk.ErrorOutOfDeviceMemory
		}
		texture = t
	}

	d.mu.Lock()
	im.mem = mem
	im.offset = offset
	im.texture = texture
	mem.bound++
	d.mu.Unlock()
	return vk.Success
}

func (d *Driver) createTexture(img vk.Image, im *vkImage) (hal.Texture, error) {
	desc := &hal.TextureDescriptor{
		Label: fmt.Sprintf("wsi-image-%d", uint64(img)),
		Size: hal.Extent3D{
			Width:              im.info.Extent.Width,
			Height:             im.info.Extent.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        im.info.Format.TextureFormat(),
		Usage:         im.info.Usage.TextureUsage() | gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst,
	}
	texture, err := d.device.CreateTexture(desc)
	if err != nil {
		return nil, fmt.Errorf("native: create texture: %w", err)
	}
	return texture, nil
}

func (d *Driver) mapMemory(_ vk.Device, m vk.DeviceMemory, offset, size uint64, _ uint32) ([]byte, vk.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	mem, ok := d.memories[m]
	if !ok || d.memProps.MemoryTypes[mem.typ].PropertyFlags&vk.MemoryPropertyHostVisible == 0 {
		return nil, vk.ErrorMemoryMapFailed
	}
	end := uint64(len(mem.data))
	if size != vk.WholeSize {
		end = offset + size
	}
	if offset > end || end > uint64(len(mem.data)) {
		return nil, vk.ErrorMemoryMapFailed
	}
	mem.mapped = true
	return mem.data[offset:end], vk.Success
}

func (d *Driver) unmapMemory(_ vk.Device, m vk.DeviceMemory) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if mem, ok := d.memories[m]; ok {
		mem.mapped = false
	}
}

func (d *Driver) createFence(_ vk.Device, info *vk.FenceCreateInfo, _ *vk.AllocationCallbacks) (vk.Fence, vk.Result) {
	h := vk.Fence(d.newID())
	d.mu.Lock()
	d.fences[h] = info != nil && info.Flags&vk.FenceCreateSignaled != 0
	d.mu.Unlock()
	return h, vk.Success
}

func (d *Driver) destroyFence(_ vk.Device, f vk.Fence, _ *vk.AllocationCallbacks) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.fences, f)
}

func (d *Driver) resetFences(_ vk.Device, fences []vk.Fence) vk.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, f := range fences {
		if _, ok := d.fences[f]; ok {
			d.fences[f] = false
		}
	}
	return vk.Success
}

// waitForFences never blocks. Submissions execute before QueueSubmit
// returns, so a fence that is not signaled yet never will be.
func (d *Driver) waitForFences(_ vk.Device, fences []vk.Fence, waitAll bool, _ uint64) vk.Result {
	d.mu.RLock()
	defer d.mu.RUnlock()
	signaled := 0
	for _, f := range fences {
		if d.fences[f] {
			signaled++
		}
	}
	if signaled == len(fences) || (!waitAll && signaled > 0) {
		return vk.Success
	}
	return vk.Timeout
}
