// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texel

import (
	"testing"

	"github.com/gogpu/wsi/vk"
)

func newImage(w, h int, format vk.Format) Image {
	stride := w*format.BytesPerPixel() + 8
	return Image{Pix: make([]byte, stride*h), Stride: stride, Format: format, Width: w, Height: h}
}

func TestLoadStore(t *testing.T) {
	tests := []struct {
		format vk.Format
		raw    []byte
	}{
		{vk.FormatR8G8B8A8Unorm, []byte{1, 2, 3, 4}},
		{vk.FormatB8G8R8A8Unorm, []byte{3, 2, 1, 4}},
		{vk.FormatB8G8R8A8Srgb, []byte{3, 2, 1, 4}},
	}
	for _, tt := range tests {
		m := newImage(2, 2, tt.format)
		m.Store(1, 1, [4]byte{1, 2, 3, 4})
		off := m.Stride + 4
		if got := m.Pix[off : off+4]; string(got) != string(tt.raw) {
			t.Errorf("format %d: stored %v, want %v", tt.format, got, tt.raw)
		}
		if got := m.Load(1, 1); got != [4]byte{1, 2, 3, 4} {
			t.Errorf("format %d: Load = %v", tt.format, got)
		}
	}

	gray := newImage(1, 1, vk.FormatR8Unorm)
	gray.Store(0, 0, [4]byte{9, 1, 1, 1})
	if got := gray.Load(0, 0); got != [4]byte{9, 9, 9, 0xFF} {
		t.Errorf("R8 Load = %v", got)
	}
}

func TestOutOfBounds(t *testing.T) {
	m := newImage(2, 2, vk.FormatR8G8B8A8Unorm)
	m.Store(-1, 0, [4]byte{1, 1, 1, 1})
	m.Store(2, 0, [4]byte{1, 1, 1, 1})
	if got := m.Load(0, 5); got != ([4]byte{}) {
		t.Errorf("Load outside = %v", got)
	}
	for _, b := range m.Pix {
		if b != 0 {
			t.Fatal("out-of-bounds store wrote into the image")
		}
	}
	// Unknown formats ignore every access.
	odd := Image{Pix: make([]byte, 16), Stride: 8, Format: vk.FormatD24UnormS8Uint, Width: 2, Height: 2}
	odd.Store(0, 0, [4]byte{1, 1, 1, 1})
	if got := odd.Load(0, 0); got != ([4]byte{}) {
		t.Errorf("Load of unknown format = %v", got)
	}
}

func TestCopy(t *testing.T) {
	src := newImage(4, 4, vk.FormatR8G8B8A8Unorm)
	src.Fill(func(x, y int) [4]byte { return [4]byte{uint8(x), uint8(y), 7, 0xFF} })

	for _, format := range []vk.Format{vk.FormatR8G8B8A8Unorm, vk.FormatB8G8R8A8Unorm} {
		dst := newImage(4, 4, format)
		Copy(dst, src, vk.ImageCopy{
			SrcOffset: vk.Offset3D{X: 1, Y: 1},
			DstOffset: vk.Offset3D{X: 0, Y: 2},
			Extent:    vk.Extent3D{Width: 3, Height: 2, Depth: 1},
		})
		if got := dst.Load(2, 3); got != [4]byte{3, 2, 7, 0xFF} {
			t.Errorf("format %d: copied texel = %v", format, got)
		}
		if got := dst.Load(3, 3); got != ([4]byte{}) {
			t.Errorf("format %d: texel outside the region = %v", format, got)
		}
	}
}

func TestBlitNearest(t *testing.T) {
	src := newImage(2, 2, vk.FormatB8G8R8A8Unorm)
	src.Fill(func(x, y int) [4]byte { return [4]byte{uint8(10 * x), uint8(10 * y), 0, 0xFF} })
	dst := newImage(4, 4, vk.FormatR8G8B8A8Unorm)

	BlitNearest(dst, src, vk.ImageBlit{
		SrcOffsets: [2]vk.Offset3D{{}, {X: 2, Y: 2, Z: 1}},
		DstOffsets: [2]vk.Offset3D{{}, {X: 4, Y: 4, Z: 1}},
	})
	tests := []struct {
		x, y int
		want [4]byte
	}{
		{0, 0, [4]byte{0, 0, 0, 0xFF}},
		{1, 1, [4]byte{0, 0, 0, 0xFF}},
		{2, 1, [4]byte{10, 0, 0, 0xFF}},
		{3, 3, [4]byte{10, 10, 0, 0xFF}},
	}
	for _, tt := range tests {
		if got := dst.Load(tt.x, tt.y); got != tt.want {
			t.Errorf("(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	// Empty regions do nothing.
	BlitNearest(dst, src, vk.ImageBlit{})
}
