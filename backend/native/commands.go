// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package native

import (
	"fmt"

	"github.com/gogpu/wsi/internal/logger"
	"github.com/gogpu/wsi/internal/texel"
	"github.com/gogpu/wsi/vk"
)

type commandBuffer struct {
	pool      vk.CommandPool
	recording bool
	ops       []func() error
}

func (d *Driver) createCommandPool(_ vk.Device, _ *vk.CommandPoolCreateInfo, _ *vk.AllocationCallbacks) (vk.CommandPool, vk.Result) {
	h := vk.CommandPool(d.newID())
	d.mu.Lock()
	d.pools[h] = struct{}{}
	d.mu.Unlock()
	return h, vk.Success
}

func (d *Driver) destroyCommandPool(_ vk.Device, p vk.CommandPool, _ *vk.AllocationCallbacks) {
	d.mu.Lock()
	defer d.mu.Unlock()
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
	if _, ok := d.pools[info.CommandPool]; !ok {
		return vk.ErrorUnknown
	}
	for i := 0; i < int(info.CommandBufferCount) && i < len(out); i++ {
		h := vk.CommandBuffer(d.newID())
		d.cmdbufs[h] = &commandBuffer{pool: info.CommandPool}
		out[i] = h
	}
	return vk.Success
}

func (d *Driver) freeCommandBuffers(_ vk.Device, _ vk.CommandPool, buffers []vk.CommandBuffer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, h := range buffers {
		delete(d.cmdbufs, h)
	}
}

func (d *Driver) beginCommandBuffer(cb vk.CommandBuffer, _ *vk.CommandBufferBeginInfo) vk.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	buf, ok := d.cmdbufs[cb]
	if !ok {
		return vk.ErrorUnknown
	}
	buf.recording = true
	buf.ops = nil
	return vk.Success
}

func (d *Driver) endCommandBuffer(cb vk.CommandBuffer) vk.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	buf, ok := d.cmdbufs[cb]
	if !ok || !buf.recording {
		return vk.ErrorUnknown
	}
	buf.recording = false
	return vk.Success
}

// record appends op to cb. op runs at submit without d.mu held.
func (d *Driver) record(cb vk.CommandBuffer, name string, op func() error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	buf, ok := d.cmdbufs[cb]
	if !ok || !buf.recording {
		logger.L().Warn("native: command recorded outside a command buffer", "command", name)
		return
	}
	buf.ops = append(buf.ops, op)
}

func (d *Driver) cmdPipelineBarrier(cb vk.CommandBuffer, _, _ vk.PipelineStageFlags, _ vk.DependencyFlags, barriers []vk.ImageMemoryBarrier) {
	barriers = append([]vk.ImageMemoryBarrier(nil), barriers...)
	d.record(cb, "vkCmdPipelineBarrier", func() error {
		d.mu.Lock()
		defer d.mu.Unlock()
		for _, b := range barriers {
			if im, ok := d.images[b.Image]; ok {
				im.layout = b.NewLayout
			}
		}
		return nil
	})
}

func (d *Driver) cmdBlitImage(cb vk.CommandBuffer, src vk.Image, _ vk.ImageLayout, dst vk.Image, _ vk.ImageLayout,
	regions []vk.ImageBlit, _ vk.Filter) {
	regions = append([]vk.ImageBlit(nil), regions...)
	d.record(cb, "vkCmdBlitImage", func() error {
		return d.transfer(src, dst, func(t, s texel.Image) {
			for _, r := range regions {
				texel.BlitNearest(t, s, r)
			}
		})
	})
}

func (d *Driver) cmdCopyImage(cb vk.CommandBuffer, src vk.Image, _ vk.ImageLayout, dst vk.Image, _ vk.ImageLayout,
	regions []vk.ImageCopy) {
	regions = append([]vk.ImageCopy(nil), regions...)
	d.record(cb, "vkCmdCopyImage", func() error {
		return d.transfer(src, dst, func(t, s texel.Image) {
			for _, r := range regions {
				texel.Copy(t, s, r)
			}
		})
	})
}

// transfer brings the shadow of a texture-backed src up to date, applies op
// on the host and uploads the result into a texture-backed dst.
func (d *Driver) transfer(src, dst vk.Image, op func(dst, src texel.Image)) error {
	d.mu.RLock()
	s, sok := d.images[src]
	t, tok := d.images[dst]
	d.mu.RUnlock()
	if !sok || !tok || s.mem == nil || t.mem == nil {
		return fmt.Errorf("%w: transfer %#x -> %#x", ErrUnknownImage, uint64(src), uint64(dst))
	}
	if err := d.download(s); err != nil {
		return err
	}
	op(t.view(), s.view())
	return d.upload(t)
}

func (d *Driver) queueSubmit(q vk.Queue, submits []vk.SubmitInfo, fence vk.Fence) vk.Result {
	if q != d.vkQueue {
		return vk.ErrorDeviceLost
	}

	d.submitMu.Lock()
	defer d.submitMu.Unlock()

	for _, s := range submits {
		for _, cb := range s.CommandBuffers {
			d.mu.RLock()
			buf, ok := d.cmdbufs[cb]
			ready := ok && !buf.recording
			var ops []func() error
			if ready {
				ops = buf.ops
			}
			d.mu.RUnlock()
			if !ready {
				return vk.ErrorUnknown
			}
			for _, op := range ops {
				if err := op(); err != nil {
					logger.L().Error("native: command failed", "err", err)
					return vk.ErrorDeviceLost
				}
			}
		}
	}

	if fence != vk.NullHandle {
		d.mu.Lock()
		if _, ok := d.fences[fence]; ok {
			d.fences[fence] = true
		}
		d.mu.Unlock()
	}
	return vk.Success
}

func (d *Driver) queueWaitIdle(q vk.Queue) vk.Result {
	if q != d.vkQueue {
		return vk.ErrorDeviceLost
	}
	d.submitMu.Lock()
	defer d.submitMu.Unlock()
	if err := d.waitIdle(); err != nil {
		logger.L().Error("native: wait idle failed", "err", err)
		return vk.ErrorDeviceLost
	}
	return vk.Success
}
