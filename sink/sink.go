// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package sink defines the consumer side of presentation: whatever receives
// finished frames from a swapchain and reports the size it wants them in.
//
// A sink is installed on a surface through the layer's bitmap hook. After
// every successful present the swapchain hands it the presentable bitmap:
//
//	prev := s.SetBitmap(bitmap.Retain())
//	prev.Release()
//
// The sink owns the reference it receives until it returns that bitmap from a
// later SetBitmap call.
package sink

import (
	"image"
	"sync"

	xdraw "golang.org/x/image/draw"
)

// Sink receives presented frames.
type Sink interface {
	// Size returns the size the consumer currently displays. A swapchain
	// whose extent differs reports itself as suboptimal.
	Size() (width, height uint32)

	// SetBitmap installs b as the current frame and returns the previous
	// one, whose reference passes to the caller. The previous bitmap may be
	// nil, and may be b itself when the same bitmap is presented again.
	SetBitmap(b *Bitmap) *Bitmap
}

// ImageSink is an in-process Sink that keeps an RGBA snapshot of the last
// frame. It is safe for concurrent use.
type ImageSink struct {
	mu      sync.Mutex
	width   uint32
	height  uint32
	current *Bitmap
	frame   *image.RGBA
	frames  int
}

// NewImageSink returns a sink that reports the given size.
func NewImageSink(width, height uint32) *ImageSink {
	return &ImageSink{width: width, height: height}
}

// Size implements Sink.
func (s *ImageSink) Size() (width, height uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Resize changes the reported size, as a window resize would.
func (s *ImageSink) Resize(width, height uint32) {
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()
}

// SetBitmap implements Sink. The pixels are copied immediately, so the
// snapshot does not change when the producer reuses the bitmap's memory.
func (s *ImageSink) SetBitmap(b *Bitmap) *Bitmap {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.current
	s.current = b
	if b != nil {
		if s.frame == nil || s.frame.Rect.Dx() != b.Width() || s.frame.Rect.Dy() != b.Height() {
			s.frame = image.NewRGBA(image.Rect(0, 0, b.Width(), b.Height()))
		}
		b.copyTo(s.frame)
		s.frames++
	}
	return prev
}

// Frames returns how many bitmaps have been delivered.
func (s *ImageSink) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Frame returns a copy of the last delivered frame, or nil before the first.
func (s *ImageSink) Frame() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frame == nil {
		return nil
	}
	out := image.NewRGBA(s.frame.Rect)
	copy(out.Pix, s.frame.Pix)
	return out
}

// Scaled returns the last frame resampled to width x height with
// nearest-neighbor filtering, or nil before the first frame.
func (s *ImageSink) Scaled(width, height int) *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frame == nil || width <= 0 || height <= 0 {
		return nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), s.frame, s.frame.Bounds(), xdraw.Src, nil)
	return dst
}

// Close drops the reference to the current bitmap.
func (s *ImageSink) Close() {
	s.mu.Lock()
	b := s.current
	s.current = nil
	s.mu.Unlock()
	b.Release()
}
