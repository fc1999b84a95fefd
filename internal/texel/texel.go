// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package texel reads, writes and copies the texels of linear images held in
// host memory. Only the uncompressed 8-bit formats reported by
// vk.Format.BytesPerPixel are understood; every other texel reads as zero and
// ignores writes.
package texel

import "github.com/gogpu/wsi/vk"

// Image is a linear view of host memory.
type Image struct {
	Pix    []byte
	Stride int
	Format vk.Format
	Width  int
	Height int
}

func (m Image) at(x, y int) []byte {
	bpp := m.Format.BytesPerPixel()
	if bpp == 0 || x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return nil
	}
	off := y*m.Stride + x*bpp
	if off+bpp > len(m.Pix) {
		return nil
	}
	return m.Pix[off : off+bpp]
}

// Load returns the texel at (x, y) as RGBA.
func (m Image) Load(x, y int) [4]byte {
	t := m.at(x, y)
	switch {
	case len(t) == 1:
		return [4]byte{t[0], t[0], t[0], 0xFF}
	case len(t) == 4 && m.Format.IsBGRA():
		return [4]byte{t[2], t[1], t[0], t[3]}
	case len(t) == 4:
		return [4]byte{t[0], t[1], t[2], t[3]}
	}
	return [4]byte{}
}

// Store writes rgba to the texel at (x, y) in the image's format.
func (m Image) Store(x, y int, rgba [4]byte) {
	t := m.at(x, y)
	switch {
	case len(t) == 1:
		t[0] = rgba[0]
	case len(t) == 4 && m.Format.IsBGRA():
		t[0], t[1], t[2], t[3] = rgba[2], rgba[1], rgba[0], rgba[3]
	case len(t) == 4:
		t[0], t[1], t[2], t[3] = rgba[0], rgba[1], rgba[2], rgba[3]
	}
}

// Fill stores px(x, y) into every texel.
func (m Image) Fill(px func(x, y int) [4]byte) {
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			m.Store(x, y, px(x, y))
		}
	}
}

// Copy copies one region texel for texel, converting between the formats
// of src and dst.
func Copy(dst, src Image, r vk.ImageCopy) {
	sx, sy := int(r.SrcOffset.X), int(r.SrcOffset.Y)
	dx, dy := int(r.DstOffset.X), int(r.DstOffset.Y)
	if src.Format == dst.Format {
		bpp := src.Format.BytesPerPixel()
		n := min(int(r.Extent.Width), src.Width-sx, dst.Width-dx) * bpp
		for y := 0; y < int(r.Extent.Height); y++ {
			if n <= 0 || src.at(sx, sy+y) == nil || dst.at(dx, dy+y) == nil {
				continue
			}
			so := (sy+y)*src.Stride + sx*bpp
			do := (dy+y)*dst.Stride + dx*bpp
			if so+n > len(src.Pix) || do+n > len(dst.Pix) {
				continue
			}
			copy(dst.Pix[do:do+n], src.Pix[so:so+n])
		}
		return
	}
	for y := 0; y < int(r.Extent.Height); y++ {
		for x := 0; x < int(r.Extent.Width); x++ {
			dst.Store(dx+x, dy+y, src.Load(sx+x, sy+y))
		}
	}
}

// BlitNearest scales one region with nearest filtering, sampling texel
// centers, and converts between the formats of src and dst.
func BlitNearest(dst, src Image, r vk.ImageBlit) {
	sx0, sy0 := int(r.SrcOffsets[0].X), int(r.SrcOffsets[0].Y)
	sw, sh := int(r.SrcOffsets[1].X)-sx0, int(r.SrcOffsets[1].Y)-sy0
	dx0, dy0 := int(r.DstOffsets[0].X), int(r.DstOffsets[0].Y)
	dw, dh := int(r.DstOffsets[1].X)-dx0, int(r.DstOffsets[1].Y)-dy0
	if sw <= 0 || sh <= 0 || dw <= 0 || dh <= 0 {
		return
	}
	for y := 0; y < dh; y++ {
		sy := sy0 + (2*y+1)*sh/(2*dh)
		for x := 0; x < dw; x++ {
			sx := sx0 + (2*x+1)*sw/(2*dw)
			dst.Store(dx0+x, dy0+y, src.Load(sx, sy))
		}
	}
}
