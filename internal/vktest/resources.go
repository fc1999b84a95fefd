// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vktest

import (
	"github.com/gogpu/wsi/internal/texel"
	"github.com/gogpu/wsi/vk"
)

func alignUp(v, a uint64) uint64 {
	return (v + a - 1) / a * a
}

func (d *Driver) createImage(_ vk.Device, info *vk.ImageCreateInfo, _ *vk.AllocationCallbacks) (vk.Image, vk.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if res := d.enter("vkCreateImage"); res != vk.Success {
		return vk.NullHandle, res
	}
	bpp := uint64(info.Format.BytesPerPixel())
	if bpp == 0 {
		return vk.NullHandle, vk.ErrorFormatNotSupported
	}
	layers := uint64(max(info.ArrayLayers, 1))
	im := &image{info: *info, layout: info.InitialLayout}
	im.rowPitch = alignUp(uint64(info.Extent.Width)*bpp, RowAlignment)
	im.size = im.rowPitch * uint64(info.Extent.Height) * layers
	h := vk.Image(d.handle())
	d.images[h] = im
	return h, vk.Success
}

func (d *Driver) destroyImage(_ vk.Device, img vk.Image, _ *vk.AllocationCallbacks) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enter("vkDestroyImage")
	im, ok := d.images[img]
	if !ok {
		d.errorf("destroy of unknown image %#x", uint64(img))
		return
	}
	if im.mem != nil {
		im.mem.bound--
	}
	delete(d.images, img)
}

func (d *Driver) getImageMemoryRequirements(_ vk.Device, img vk.Image, reqs *vk.MemoryRequirements) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enter("vkGetImageMemoryRequirements")
	im, ok := d.images[img]
	if !ok {
		d.errorf("memory requirements of unknown image %#x", uint64(img))
		return
	}
	*reqs = vk.MemoryRequirements{
		Size:           im.size,
		Alignment:      RowAlignment,
		MemoryTypeBits: 1<<d.MemoryProperties.MemoryTypeCount - 1,
	}
}

func (d *Driver) getImageSubresourceLayout(_ vk.Device, img vk.Image, _ *vk.ImageSubresource, layout *vk.SubresourceLayout) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enter("vkGetImageSubresourceLayout")
	im, ok := d.images[img]
	if !ok {
		d.errorf("layout of unknown image %#x", uint64(img))
		return
	}
	*layout = vk.SubresourceLayout{
		RowPitch: im.rowPitch,
		Size:     im.rowPitch * uint64(im.info.Extent.Height),
	}
}

func (d *Driver) allocateMemory(_ vk.Device, info *vk.MemoryAllocateInfo, _ *vk.AllocationCallbacks) (vk.DeviceMemory, vk.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if res := d.enter("vkAllocateMemory"); res != vk.Success {
		return vk.NullHandle, res
	}
	if info.MemoryTypeIndex >= d.MemoryProperties.MemoryTypeCount {
		d.errorf("memory type %d out of range", info.MemoryTypeIndex)
		return vk.NullHandle, vk.ErrorOutOfDeviceMemory
	}
	mem := &memory{typ: info.MemoryTypeIndex}
	if host, ok := vk.FindInChain[*vk.ImportMemoryHostPointerInfo](info.Next); ok {
		if uint64(len(host.HostPointer)) < info.AllocationSize {
			d.errorf("imported host memory smaller than allocation")
			return vk.NullHandle, vk.ErrorOutOfHostMemory
		}
		mem.data = host.HostPointer[:info.AllocationSize]
		mem.imported = true
	} else {
		mem.data = make([]byte, info.AllocationSize)
	}
	h := vk.DeviceMemory(d.handle())
	d.memories[h] = mem
	return h, vk.Success
}

func (d *Driver) freeMemory(_ vk.Device, m vk.DeviceMemory, _ *vk.AllocationCallbacks) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enter("vkFreeMemory")
	mem, ok := d.memories[m]
	if !ok {
		d.errorf("free of unknown memory %#x", uint64(m))
		return
	}
	if mem.bound > 0 {
		d.errorf("memory %#x freed while bound to an image", uint64(m))
	}
	delete(d.memories, m)
}

func (d *Driver) bindImageMemory(_ vk.Device, img vk.Image, m vk.DeviceMemory, offset uint64) vk.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if res := d.enter("vkBindImageMemory"); res != vk.Success {
		return res
	}
	im, ok := d.images[img]
	mem, mok := d.memories[m]
	if !ok || !mok {
		d.errorf("bind of unknown image/memory")
		return vk.ErrorUnknown
	}
	if uint64(len(mem.data)) < offset+im.size {
		d.errorf("memory too small for image")
		return vk.ErrorOutOfDeviceMemory
	}
	im.mem = mem
	im.offset = offset
	mem.bound++
	return vk.Success
}

func (d *Driver) mapMemory(_ vk.Device, m vk.DeviceMemory, offset, size uint64, _ uint32) ([]byte, vk.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if res := d.enter("vkMapMemory"); res != vk.Success {
		return nil, res
	}
	mem, ok := d.memories[m]
	if !ok {
		return nil, vk.ErrorMemoryMapFailed
	}
	if d.MemoryProperties.MemoryTypes[mem.typ].PropertyFlags&vk.MemoryPropertyHostVisible == 0 {
		d.errorf("map of memory that is not host visible")
		return nil, vk.ErrorMemoryMapFailed
	}
	end := uint64(len(mem.data))
	if size != vk.WholeSize {
		end = offset + size
	}
	mem.mapped = true
	return mem.data[offset:end], vk.Success
}

func (d *Driver) unmapMemory(_ vk.Device, m vk.DeviceMemory) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enter("vkUnmapMemory")
	if mem, ok := d.memories[m]; ok {
		mem.mapped = false
	}
}

func (d *Driver) createFence(_ vk.Device, info *vk.FenceCreateInfo, _ *vk.AllocationCallbacks) (vk.Fence, vk.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if res := d.enter("vkCreateFence"); res != vk.Success {
		return vk.NullHandle, res
	}
	h := vk.Fence(d.handle())
	d.fences[h] = info != nil && info.Flags&vk.FenceCreateSignaled != 0
	return h, vk.Success
}

func (d *Driver) destroyFence(_ vk.Device, f vk.Fence, _ *vk.AllocationCallbacks) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enter("vkDestroyFence")
	if _, ok := d.fences[f]; !ok {
		d.errorf("destroy of unknown fence %#x", uint64(f))
	}
	delete(d.fences, f)
}

func (d *Driver) resetFences(_ vk.Device, fences []vk.Fence) vk.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if res := d.enter("vkResetFences"); res != vk.Success {
		return res
	}
	for _, f := range fences {
		if _, ok := d.fences[f]; ok {
			d.fences[f] = false
		}
	}
	return vk.Success
}

// waitForFences never blocks: everything submitted has already executed, so
// an unsignaled fence would never signal and reports Timeout.
func (d *Driver) waitForFences(_ vk.Device, fences []vk.Fence, waitAll bool, _ uint64) vk.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if res := d.enter("vkWaitForFences"); res != vk.Success {
		return res
	}
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

func (d *Driver) createCommandPool(_ vk.Device, _ *vk.CommandPoolCreateInfo, _ *vk.AllocationCallbacks) (vk.CommandPool, vk.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if res := d.enter("vkCreateCommandPool"); res != vk.Success {
		return vk.NullHandle, res
	}
	h := vk.CommandPool(d.handle())
	d.pools[h] = true
	return h, vk.Success
}

func (d *Driver) destroyCommandPool(_ vk.Device, p vk.CommandPool, _ *vk.AllocationCallbacks) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enter("vkDestroyCommandPool")
	if !d.pools[p] {
		d.errorf("destroy of unknown command pool %#x", uint64(p))
	}
	for h, cb := range d.cmdbufs {
		if cb.pool == p {
			delete(d.cmdbufs, h)
		}
	}
	delete(d.pools, p)
}

func (d *Driver) allocateCommandBuffers(_ vk.Device, info *vk.CommandBufferAllocateInfo, out []vk.CommandBuffer) vk.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if res := d.enter("vkAllocateCommandBuffers"); res != vk.Success {
		return res
	}
	if !d.pools[info.CommandPool] {
		d.errorf("allocation from unknown command pool")
		return vk.ErrorUnknown
	}
	for i := 0; i < int(info.CommandBufferCount) && i < len(out); i++ {
		h := vk.CommandBuffer(d.handle())
		d.cmdbufs[h] = &commandBuffer{pool: info.CommandPool}
		out[i] = h
	}
	return vk.Success
}

func (d *Driver) freeCommandBuffers(_ vk.Device, _ vk.CommandPool, buffers []vk.CommandBuffer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enter("vkFreeCommandBuffers")
	for _, h := range buffers {
		if _, ok := d.cmdbufs[h]; !ok {
			d.errorf("free of unknown command buffer %#x", uint64(h))
		}
		delete(d.cmdbufs, h)
	}
}

func (d *Driver) beginCommandBuffer(cb vk.CommandBuffer, _ *vk.CommandBufferBeginInfo) vk.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if res := d.enter("vkBeginCommandBuffer"); res != vk.Success {
		return res
	}
	buf, ok := d.cmdbufs[cb]
	if !ok {
		return vk.ErrorUnknown
	}
	buf.recording = true
	buf.ops = buf.ops[:0]
	return vk.Success
}

func (d *Driver) endCommandBuffer(cb vk.CommandBuffer) vk.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if res := d.enter("vkEndCommandBuffer"); res != vk.Success {
		return res
	}
	buf, ok := d.cmdbufs[cb]
	if !ok || !buf.recording {
		return vk.ErrorUnknown
	}
	buf.recording = false
	return vk.Success
}

// record appends op to cb. Callers hold d.mu; op runs at submit with d.mu
// held.
func (d *Driver) record(cb vk.CommandBuffer, name string, op func()) {
	d.enter(name)
	buf, ok := d.cmdbufs[cb]
	if !ok || !buf.recording {
		d.errorf("%s outside recording", name)
		return
	}
	buf.ops = append(buf.ops, op)
}

func (d *Driver) cmdPipelineBarrier(cb vk.CommandBuffer, _, _ vk.PipelineStageFlags, _ vk.DependencyFlags, barriers []vk.ImageMemoryBarrier) {
	d.mu.Lock()
	defer d.mu.Unlock()
	barriers = append([]vk.ImageMemoryBarrier(nil), barriers...)
	d.record(cb, "vkCmdPipelineBarrier", func() {
		for _, b := range barriers {
			if im, ok := d.images[b.Image]; ok {
				im.layout = b.NewLayout
			}
		}
	})
}

func (d *Driver) cmdBlitImage(cb vk.CommandBuffer, src vk.Image, _ vk.ImageLayout, dst vk.Image, _ vk.ImageLayout,
	regions []vk.ImageBlit, _ vk.Filter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	regions = append([]vk.ImageBlit(nil), regions...)
	d.record(cb, "vkCmdBlitImage", func() {
		s, sok := d.images[src]
		t, tok := d.images[dst]
		if !sok || !tok || s.mem == nil || t.mem == nil {
			d.errorf("blit between unbound images")
			return
		}
		for _, r := range regions {
			texel.BlitNearest(t.view(), s.view(), r)
		}
	})
}

func (d *Driver) cmdCopyImage(cb vk.CommandBuffer, src vk.Image, _ vk.ImageLayout, dst vk.Image, _ vk.ImageLayout,
	regions []vk.ImageCopy) {
	d.mu.Lock()
	defer d.mu.Unlock()
	regions = append([]vk.ImageCopy(nil), regions...)
	d.record(cb, "vkCmdCopyImage", func() {
		s, sok := d.images[src]
		t, tok := d.images[dst]
		if !sok || !tok || s.mem == nil || t.mem == nil {
			d.errorf("copy between unbound images")
			return
		}
		for _, r := range regions {
			texel.Copy(t.view(), s.view(), r)
		}
	})
}

func (d *Driver) queueSubmit(q vk.Queue, submits []vk.SubmitInfo, fence vk.Fence) vk.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if res := d.enter("vkQueueSubmit"); res != vk.Success {
		return res
	}
	if q != d.queue {
		d.errorf("submit to unknown queue %#x", uint64(q))
		return vk.ErrorDeviceLost
	}
	for _, s := range submits {
		for _, w := range s.WaitSemaphores {
			if !d.semaphores[w] {
				d.errorf("wait on unsignaled semaphore %#x", uint64(w))
			}
			d.semaphores[w] = false
		}
		for _, cb := range s.CommandBuffers {
			buf, ok := d.cmdbufs[cb]
			if !ok || buf.recording {
				d.errorf("submit of unknown or open command buffer %#x", uint64(cb))
				continue
			}
			for _, op := range buf.ops {
				op()
			}
		}
		for _, sig := range s.SignalSemaphores {
			d.semaphores[sig] = true
		}
		d.submits++
	}
	if fence != vk.NullHandle {
		if _, ok := d.fences[fence]; !ok {
			d.errorf("submit signals unknown fence %#x", uint64(fence))
		} else {
			d.fences[fence] = true
		}
	}
	return vk.Success
}

func (d *Driver) queueWaitIdle(vk.Queue) vk.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enter("vkQueueWaitIdle")
}
