// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package native

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wsi/vk"
)

// download copies the texture of im into its host shadow. Callers hold
// d.submitMu.
func (d *Driver) download(im *vkImage) error {
	if im.texture == nil {
		return nil
	}
	w, h := im.info.Extent.Width, im.info.Extent.Height

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "wsi_readback_encoder",
	})
	if err != nil {
		return fmt.Errorf("native: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("wsi_readback"); err != nil {
		return fmt.Errorf("native: begin encoding: %w", err)
	}

	stagingBuf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "wsi_readback_staging",
		Size:  im.rowPitch * uint64(h),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("native: create staging buffer: %w", err)
	}
	defer d.device.DestroyBuffer(stagingBuf)

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: im.texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: im.usage,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(im.texture, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: uint32(im.rowPitch), RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: im.texture, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("native: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	if err := d.submitAndWait([]hal.CommandBuffer{cmdBuf}); err != nil {
		return err
	}
	im.usage = gputypes.TextureUsageCopySrc

	if err := d.queue.ReadBuffer(stagingBuf, 0, im.shadow()); err != nil {
		return fmt.Errorf("native: readback: %w", err)
	}
	return nil
}

// upload writes the host shadow of im into its texture. Callers hold
// d.submitMu.
func (d *Driver) upload(im *vkImage) error {
	if im.texture == nil {
		return nil
	}
	w, h := im.info.Extent.Width, im.info.Extent.Height
	d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: im.texture, MipLevel: 0},
		im.shadow(),
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: uint32(im.rowPitch), RowsPerImage: h},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	im.usage = gputypes.TextureUsageCopyDst
	return nil
}

// submitAndWait submits cmds and blocks until the GPU finishes them.
func (d *Driver) submitAndWait(cmds []hal.CommandBuffer) error {
	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("native: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit(cmds, fence, 1); err != nil {
		return fmt.Errorf("native: submit: %w", err)
	}
	fenceOK, err := d.device.Wait(fence, 1, d.opts.fenceTimeout)
	if err != nil {
		return fmt.Errorf("native: wait for GPU: %w", err)
	}
	if !fenceOK {
		return ErrFenceTimeout
	}
	return nil
}

// waitIdle drains the HAL queue by waiting on an empty submission.
func (d *Driver) waitIdle() error {
	return d.submitAndWait(nil)
}

// image returns the bound image img.
func (d *Driver) image(img vk.Image) (*vkImage, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	im, ok := d.images[img]
	if !ok || im.mem == nil {
		return nil, fmt.Errorf("%w: %#x", ErrUnknownImage, uint64(img))
	}
	return im, nil
}

// WriteImage stores src into the first layer of img, converting to the image
// format, and uploads it when img is texture-backed. It stands in for an
// application rendering into a swapchain image.
func (d *Driver) WriteImage(img vk.Image, src *image.RGBA) error {
	im, err := d.image(img)
	if err != nil {
		return err
	}
	w, h := int(im.info.Extent.Width), int(im.info.Extent.Height)
	b := src.Bounds()
	if b.Dx() != w || b.Dy() != h {
		return fmt.Errorf("%w: %dx%d into %dx%d", ErrSizeMismatch, b.Dx(), b.Dy(), w, h)
	}

	d.submitMu.Lock()
	defer d.submitMu.Unlock()
	im.view().Fill(func(x, y int) [4]byte {
		off := src.PixOffset(b.Min.X+x, b.Min.Y+y)
		return [4]byte(src.Pix[off : off+4])
	})
	return d.upload(im)
}

// ReadImage returns the first layer of img as RGBA, reading texture-backed
// images back from the GPU.
func (d *Driver) ReadImage(img vk.Image) (*image.RGBA, error) {
	im, err := d.image(img)
	if err != nil {
		return nil, err
	}

	d.submitMu.Lock()
	defer d.submitMu.Unlock()
	if err := d.download(im); err != nil {
		return nil, err
	}
	view := im.view()
	out := image.NewRGBA(image.Rect(0, 0, view.Width, view.Height))
	for y := 0; y < view.Height; y++ {
		for x := 0; x < view.Width; x++ {
			px := view.Load(x, y)
			copy(out.Pix[out.PixOffset(x, y):], px[:])
		}
	}
	return out, nil
}

// Texture returns the HAL texture backing img, if any.
func (d *Driver) Texture(img vk.Image) (hal.Texture, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	im, ok := d.images[img]
	if !ok || im.texture == nil {
		return nil, false
	}
	return im.texture, true
}
