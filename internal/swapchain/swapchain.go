// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package swapchain implements the presentable image ring behind a surface.
//
// A Swapchain owns its images, the pool of free image indices, a fence that
// serializes presents, and, when frames go to a CPU consumer, the
// conversion image the presented frame is copied into. Every index is
// either free in the pool or checked out by exactly one acquire; Present
// returns it to the pool on every path.
//
// Lifecycle:
//
//	Initializing -> Live -> Retired -> Destroyed
//	                  \_______________/
//
// A swapchain becomes Live when Activate installs it as the surface's live
// swapchain. It is Retired when a successor replaces it and Destroyed by
// Destroy. Acquire on anything but a Live swapchain reports
// ErrorOutOfDate. A Retired swapchain still presents the images it handed
// out before its successor took over, without passing them to the sink.
package swapchain

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/wsi/internal/alloc"
	"github.com/gogpu/wsi/internal/dispatch"
	"github.com/gogpu/wsi/internal/logger"
	"github.com/gogpu/wsi/internal/pool"
	"github.com/gogpu/wsi/surface"
	"github.com/gogpu/wsi/vk"
)

// DefaultPresentTimeout bounds the wait for a present's fence.
const DefaultPresentTimeout = 5 * time.Second

// State is the lifecycle stage of a swapchain.
type State int32

// Swapchain states.
const (
	Initializing State = iota
	Live
	Retired
	Destroyed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Initializing:
		return "Initializing"
	case Live:
		return "Live"
	case Retired:
		return "Retired"
	case Destroyed:
		return "Destroyed"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Config tunes presentation.
type Config struct {
	// PresentTimeout bounds fence waits. Zero means DefaultPresentTimeout.
	PresentTimeout time.Duration

	// CPUPresentation converts each presented frame into a bitmap for the
	// surface's sink.
	CPUPresentation bool

	// SharedMemory backs the bitmap with a shared region the sink can pass
	// to another process. Without it the bitmap is private host memory.
	SharedMemory bool
}

// Swapchain is a ring of presentable images. It is safe for concurrent
// use.
type Swapchain struct {
	dev     *dispatch.Device
	alloc   *alloc.Allocator
	surface *surface.Surface
	cfg     Config

	extent  vk.Extent2D
	format  vk.Format
	images  []*alloc.Image
	handles []vk.Image
	fence   vk.Fence
	queue   vk.Queue

	handle atomic.Uint64
	state  atomic.Int32

	// mu guards free and out; it is never held across a driver wait.
	mu   sync.Mutex
	cond *sync.Cond
	free *pool.Ring
	out  []bool

	// presentMu serializes users of the fence and the conversion
	// resources, and holds off Destroy while a present is in flight.
	presentMu sync.Mutex
	conv      *converter
}

// ImageInfo returns the create info of the images of a swapchain created
// from info. CPU presentation adds the transfer source usage the
// conversion needs.
func ImageInfo(info *vk.SwapchainCreateInfo, cpuPresentation bool) *vk.ImageCreateInfo {
	usage := info.ImageUsage
	if cpuPresentation {
		usage |= vk.ImageUsageTransferSrc
	}
	return &vk.ImageCreateInfo{
		ImageType: vk.ImageType2D,
		Format:    info.ImageFormat,
		Extent: vk.Extent3D{
			Width:  info.ImageExtent.Width,
			Height: info.ImageExtent.Height,
			Depth:  1,
		},
		MipLevels:          1,
		ArrayLayers:        max(info.ImageArrayLayers, 1),
		Samples:            vk.SampleCount1,
		Tiling:             vk.ImageTilingLinear,
		Usage:              usage,
		SharingMode:        info.ImageSharingMode,
		QueueFamilyIndices: info.QueueFamilyIndices,
		InitialLayout:      vk.ImageLayoutUndefined,
	}
}

// New creates the resources of a swapchain for surf. The swapchain stays
// Initializing until Activate. On failure everything created is released
// in reverse order.
func New(dev *dispatch.Device, a *alloc.Allocator, surf *surface.Surface, info *vk.SwapchainCreateInfo, cfg Config) (_ *Swapchain, err error) {
	if cfg.PresentTimeout <= 0 {
		cfg.PresentTimeout = DefaultPresentTimeout
	}
	s := &Swapchain{
		dev:     dev,
		alloc:   a,
		surface: surf,
		cfg:     cfg,
		extent:  info.ImageExtent,
		format:  info.ImageFormat,
	}
	s.cond = sync.NewCond(&s.mu)
	defer func() {
		if err != nil {
			s.release()
		}
	}()

	h := &dev.Hooks
	fence, res := h.CreateFence(dev.Handle, &vk.FenceCreateInfo{}, nil)
	if res.IsError() {
		return nil, fmt.Errorf("swapchain: create fence: %w", res)
	}
	s.fence = fence

	imageInfo := ImageInfo(info, cfg.CPUPresentation)
	n := max(info.MinImageCount, 1)
	s.images = make([]*alloc.Image, 0, n)
	s.handles = make([]vk.Image, 0, n)
	for i := uint32(0); i < n; i++ {
		img, err := a.NewImage(imageInfo, alloc.Options{})
		if err != nil {
			return nil, fmt.Errorf("swapchain: image %d of %d: %w", i, n, err)
		}
		s.images = append(s.images, img)
		s.handles = append(s.handles, img.Handle)
	}
	s.free = pool.NewFullRing(int(n))
	s.out = make([]bool, n)
	s.queue = h.GetDeviceQueue(dev.Handle, 0, 0)

	if cfg.CPUPresentation {
		conv, err := newConverter(dev, a, s.extent, cfg.SharedMemory)
		if err != nil {
			return nil, err
		}
		s.conv = conv
	}

	logger.L().Debug("swapchain: created",
		"images", n, "width", s.extent.Width, "height", s.extent.Height,
		"format", int32(s.format), "cpu", cfg.CPUPresentation)
	return s, nil
}

// Activate publishes s under handle h as the live swapchain of its surface,
// replacing prev, which may be nil. It reports false, leaving everything
// unchanged, if prev is no longer the surface's live swapchain.
func (s *Swapchain) Activate(h vk.SwapchainKHR, prev *Swapchain) bool {
	var old vk.SwapchainKHR
	if prev != nil {
		old = prev.Handle()
	}
	s.handle.Store(uint64(h))
	if !s.surface.Replace(old, h) {
		return false
	}
	s.state.CompareAndSwap(int32(Initializing), int32(Live))
	if prev != nil {
		prev.retire()
	}
	return true
}

// retire marks a Live swapchain Retired and wakes blocked acquirers.
func (s *Swapchain) retire() {
	if s.state.CompareAndSwap(int32(Live), int32(Retired)) {
		s.broadcast()
		logger.L().Debug("swapchain: retired", "swapchain", s.handle.Load())
	}
}

func (s *Swapchain) broadcast() {
	s.mu.Lock()
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Handle returns the handle s was activated under.
func (s *Swapchain) Handle() vk.SwapchainKHR { return vk.SwapchainKHR(s.handle.Load()) }

// State returns the lifecycle state.
func (s *Swapchain) State() State { return State(s.state.Load()) }

// Surface returns the surface s presents to.
func (s *Swapchain) Surface() *surface.Surface { return s.surface }

// Device returns the device s was created on.
func (s *Swapchain) Device() *dispatch.Device { return s.dev }

// Extent returns the image extent.
func (s *Swapchain) Extent() vk.Extent2D { return s.extent }

// Format returns the image format.
func (s *Swapchain) Format() vk.Format { return s.format }

// ImageCount returns the number of images.
func (s *Swapchain) ImageCount() int { return len(s.handles) }

// Images enumerates the image handles.
func (s *Swapchain) Images(count *uint32, out []vk.Image) vk.Result {
	return vk.Enumerate(s.handles, count, out)
}

// Free returns the number of indices in the pool.
func (s *Swapchain) Free() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.free.Len()
}

// status reports Suboptimal when the sink no longer matches the extent.
func (s *Swapchain) status() vk.Result {
	k := s.surface.Sink()
	if k == nil {
		return vk.Success
	}
	if w, h := k.Size(); w != s.extent.Width || h != s.extent.Height {
		return vk.Suboptimal
	}
	return vk.Success
}

// Acquire takes the oldest free image index. With timeout zero it returns
// NotReady when no index is free; otherwise it blocks until Present returns
// one. When sem or fence is not NullHandle, a submission without commands
// signals them.
func (s *Swapchain) Acquire(timeout uint64, sem vk.Semaphore, fence vk.Fence) (uint32, vk.Result) {
	s.mu.Lock()
	for {
		if s.State() != Live {
			s.mu.Unlock()
			return 0, vk.ErrorOutOfDate
		}
		if s.free.Len() > 0 {
			break
		}
		if timeout == 0 {
			s.mu.Unlock()
			return 0, vk.NotReady
		}
		s.cond.Wait()
	}
	idx, _ := s.free.Remove()
	s.out[idx] = true
	s.mu.Unlock()

	if sem != vk.NullHandle || fence != vk.NullHandle {
		var submits []vk.SubmitInfo
		if sem != vk.NullHandle {
			submits = []vk.SubmitInfo{{SignalSemaphores: []vk.Semaphore{sem}}}
		}
		if res := s.dev.Hooks.QueueSubmit(s.queue, submits, fence); res.IsError() {
			s.claim(idx)
			s.giveBack(idx)
			return 0, res
		}
	}
	return idx, s.status()
}

// giveBack returns idx to the pool and wakes one acquirer.
func (s *Swapchain) giveBack(idx uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.free.Add(idx) {
		logger.L().Error("swapchain: image pool overflow", "index", idx)
		return
	}
	s.cond.Signal()
}

// claim takes back an acquired idx. It reports false if idx is not
// checked out, so each acquire is presented at most once.
func (s *Swapchain) claim(idx uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx >= uint32(len(s.out)) || !s.out[idx] {
		return false
	}
	s.out[idx] = false
	return true
}

// Present submits the wait on wait to queue, waits for it, hands the image
// to the surface's sink and returns idx to the pool. idx must have been
// acquired.
func (s *Swapchain) Present(queue vk.Queue, idx uint32, wait []vk.Semaphore) vk.Result {
	if !s.claim(idx) {
		return vk.ErrorValidationFailed
	}
	defer s.giveBack(idx)

	s.presentMu.Lock()
	defer s.presentMu.Unlock()
	if s.State() == Destroyed {
		return vk.ErrorOutOfDate
	}

	h := &s.dev.Hooks
	if res := h.ResetFences(s.dev.Handle, []vk.Fence{s.fence}); res.IsError() {
		return res
	}
	stages := make([]vk.PipelineStageFlags, len(wait))
	for i := range stages {
		stages[i] = vk.PipelineStageBottomOfPipe
	}
	submit := []vk.SubmitInfo{{WaitSemaphores: wait, WaitDstStageMask: stages}}
	if res := h.QueueSubmit(queue, submit, s.fence); res.IsError() {
		return res
	}
	if res := s.wait(s.fence); res != vk.Success {
		return res
	}

	// A retired swapchain no longer owns the sink.
	if s.State() != Live {
		return s.status()
	}
	if k := s.surface.Sink(); k != nil && s.conv != nil {
		if res := s.conv.run(s, s.images[idx], k); res != vk.Success {
			return res
		}
	}
	return s.status()
}

// wait blocks on f for at most the present timeout. A fence that does not
// signal in time means the device is gone.
func (s *Swapchain) wait(f vk.Fence) vk.Result {
	timeout := uint64(s.cfg.PresentTimeout.Nanoseconds())
	res := s.dev.Hooks.WaitForFences(s.dev.Handle, []vk.Fence{f}, true, timeout)
	if res == vk.Timeout {
		logger.L().Warn("swapchain: fence wait timed out", "timeout", s.cfg.PresentTimeout)
		return vk.ErrorDeviceLost
	}
	return res
}

// Destroy releases every resource of the swapchain. Blocked acquirers
// return ErrorOutOfDate. It never fails and is idempotent.
func (s *Swapchain) Destroy() {
	prev := State(s.state.Swap(int32(Destroyed)))
	if prev == Destroyed {
		return
	}
	s.broadcast()

	s.presentMu.Lock()
	defer s.presentMu.Unlock()
	if res := s.dev.Hooks.QueueWaitIdle(s.queue); res.IsError() {
		logger.L().Warn("swapchain: queue wait idle failed", "err", res)
	}
	s.release()
	if prev == Live {
		s.surface.Detach(s.Handle())
	}
	logger.L().Debug("swapchain: destroyed", "swapchain", s.handle.Load())
}

// release frees the conversion resources, the images and the fence, in
// that order. It tolerates a partially constructed swapchain.
func (s *Swapchain) release() {
	if s.conv != nil {
		s.conv.destroy(s.dev, s.alloc)
		s.conv = nil
	}
	for i := len(s.images) - 1; i >= 0; i-- {
		s.alloc.Destroy(s.images[i])
	}
	s.images = nil
	if s.fence != vk.NullHandle {
		s.dev.Hooks.DestroyFence(s.dev.Handle, s.fence, nil)
		s.fence = vk.NullHandle
	}
}
