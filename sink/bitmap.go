// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sink

import (
	"image"
	"sync/atomic"

	"github.com/gogpu/wsi/shm"
	"github.com/gogpu/wsi/vk"
)

// Bitmap is a reference-counted view of presentable pixels.
//
// A Bitmap starts with one reference. Every holder that keeps it beyond the
// call that handed it over takes its own reference with Retain and drops it
// with Release; the last Release frees the backing store.
type Bitmap struct {
	width  int
	height int
	stride int
	format vk.Format
	pix    []byte
	region *shm.Region

	refs      atomic.Int32
	onRelease func()
}

// NewSharedBitmap wraps a shared memory region. The last Release closes the
// region.
func NewSharedBitmap(width, height, stride int, format vk.Format, region *shm.Region) *Bitmap {
	b := &Bitmap{
		width:  width,
		height: height,
		stride: stride,
		format: format,
		pix:    region.Bytes(),
		region: region,
	}
	b.onRelease = func() { _ = region.Close() }
	b.refs.Store(1)
	return b
}

// NewBitmap wraps process-private pixels. release, if not nil, runs once when
// the last reference is dropped.
func NewBitmap(width, height, stride int, format vk.Format, pix []byte, release func()) *Bitmap {
	b := &Bitmap{
		width:     width,
		height:    height,
		stride:    stride,
		format:    format,
		pix:       pix,
		onRelease: release,
	}
	b.refs.Store(1)
	return b
}

// Width returns the width in pixels.
func (b *Bitmap) Width() int { return b.width }

// Height returns the height in pixels.
func (b *Bitmap) Height() int { return b.height }

// Stride returns the distance in bytes between rows.
func (b *Bitmap) Stride() int { return b.stride }

// Format returns the pixel format.
func (b *Bitmap) Format() vk.Format { return b.format }

// Pix returns the pixel bytes. They stay valid while the caller holds a
// reference.
func (b *Bitmap) Pix() []byte { return b.pix }

// Region returns the shared region backing the bitmap, or nil for private
// pixels. A consumer in another process maps the same memory through the
// region's descriptor.
func (b *Bitmap) Region() *shm.Region { return b.region }

// Retain adds a reference and returns b.
func (b *Bitmap) Retain() *Bitmap {
	b.refs.Add(1)
	return b
}

// Release drops a reference. Release on a nil Bitmap is a no-op.
func (b *Bitmap) Release() {
	if b == nil {
		return
	}
	switch n := b.refs.Add(-1); {
	case n == 0:
		if b.onRelease != nil {
			b.onRelease()
		}
		b.pix = nil
	case n < 0:
		panic("sink: bitmap released too many times")
	}
}

// RGBA copies the pixels into a new straight RGBA image. BGRA formats are
// swizzled; single-channel formats are expanded to gray.
func (b *Bitmap) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	b.copyTo(img)
	return img
}

func (b *Bitmap) copyTo(img *image.RGBA) {
	bpp := b.format.BytesPerPixel()
	if bpp == 0 {
		return
	}
	for y := 0; y < b.height; y++ {
		src := b.pix[y*b.stride:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < b.width; x++ {
			s := src[x*bpp:]
			d := dst[x*4 : x*4+4]
			switch {
			case bpp == 1:
				d[0], d[1], d[2], d[3] = s[0], s[0], s[0], 0xFF
			case b.format.IsBGRA():
				d[0], d[1], d[2], d[3] = s[2], s[1], s[0], s[3]
			default:
				d[0], d[1], d[2], d[3] = s[0], s[1], s[2], s[3]
			}
		}
	}
}
