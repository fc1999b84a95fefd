package wsi

import (
	"github.com/gogpu/wsi/internal/logger"
	"github.com/gogpu/wsi/internal/swapchain"
	"github.com/gogpu/wsi/surface"
	"github.com/gogpu/wsi/vk"
)

// CreateSwapchain creates a swapchain on info.Surface and makes it the
// surface's live swapchain.
//
// info.OldSwapchain, when set, must be the live swapchain; anything else
// fails with ErrorNativeWindowInUse. When it is not set, a live swapchain
// is retired in favor of the new one.
func (l *Layer) CreateSwapchain(device vk.Device, info *vk.SwapchainCreateInfo, _ *vk.AllocationCallbacks) (vk.SwapchainKHR, vk.Result) {
	dev, ok := l.registry.Device(device)
	if !ok {
		return vk.NullHandle, vk.ErrorInitializationFailed
	}
	a, ok := l.allocator(device)
	if !ok {
		return vk.NullHandle, vk.ErrorInitializationFailed
	}
	surf, res := l.surface(info.Surface)
	if res != vk.Success {
		return vk.NullHandle, res
	}
	prev, res := l.predecessor(surf, info.OldSwapchain)
	if res != vk.Success {
		return vk.NullHandle, res
	}

	sc, err := swapchain.New(dev, a, surf, info, l.opts.swapchainConfig())
	if err != nil {
		logger.L().Warn("wsi: create swapchain failed", "err", err)
		return vk.NullHandle, vk.ResultOf(err)
	}
	h := vk.SwapchainKHR(l.swapchains.Insert(sc))
	if !sc.Activate(h, prev) {
		// Another swapchain went live on the surface in the meantime.
		l.swapchains.Remove(uint64(h))
		sc.Destroy()
		return vk.NullHandle, vk.ErrorNativeWindowInUse
	}
	logger.L().Debug("wsi: swapchain created", "swapchain", uint64(h), "surface", uint64(info.Surface))
	return h, vk.Success
}

// predecessor returns the swapchain a new one on surf replaces.
func (l *Layer) predecessor(surf *surface.Surface, old vk.SwapchainKHR) (*swapchain.Swapchain, vk.Result) {
	live := surf.Live()
	if old == vk.NullHandle {
		old = live
		if old == vk.NullHandle {
			return nil, vk.Success
		}
		logger.L().Debug("wsi: live swapchain overridden", "swapchain", uint64(old))
	} else if old != live {
		return nil, vk.ErrorNativeWindowInUse
	}
	prev, ok := l.swapchains.Get(uint64(old))
	if !ok || prev.Surface() != surf {
		return nil, vk.ErrorNativeWindowInUse
	}
	return prev, vk.Success
}

// DestroySwapchain destroys h. Unknown handles are ignored.
func (l *Layer) DestroySwapchain(_ vk.Device, h vk.SwapchainKHR, _ *vk.AllocationCallbacks) {
	if sc, ok := l.swapchains.Remove(uint64(h)); ok {
		sc.Destroy()
	}
}

func (l *Layer) swapchain(h vk.SwapchainKHR) (*swapchain.Swapchain, vk.Result) {
	sc, ok := l.swapchains.Get(uint64(h))
	if !ok {
		return nil, vk.ErrorOutOfDate
	}
	return sc, vk.Success
}

// GetSwapchainImages enumerates the presentable images of h.
func (l *Layer) GetSwapchainImages(_ vk.Device, h vk.SwapchainKHR, count *uint32, out []vk.Image) vk.Result {
	sc, res := l.swapchain(h)
	if res != vk.Success {
		return res
	}
	return sc.Images(count, out)
}

// AcquireNextImage takes a free image of h. A zero timeout never blocks.
// The semaphore and fence, either of which may be NullHandle, are signaled
// once the image may be rendered to.
func (l *Layer) AcquireNextImage(_ vk.Device, h vk.SwapchainKHR, timeout uint64,
	semaphore vk.Semaphore, fence vk.Fence) (uint32, vk.Result) {
	sc, res := l.swapchain(h)
	if res != vk.Success {
		return 0, res
	}
	return sc.Acquire(timeout, semaphore, fence)
}

// AcquireNextImage2 is AcquireNextImage taking its arguments from info.
func (l *Layer) AcquireNextImage2(device vk.Device, info *vk.AcquireNextImageInfo) (uint32, vk.Result) {
	return l.AcquireNextImage(device, info.Swapchain, info.Timeout, info.Semaphore, info.Fence)
}

// QueuePresent presents one image per listed swapchain. Entries are
// independent; each one's result is stored in info.Results when provided.
// The first error is returned, or else the first non-success result. The wait semaphores are
// waited on by the first entry only.
func (l *Layer) QueuePresent(queue vk.Queue, info *vk.PresentInfo) vk.Result {
	if len(info.ImageIndices) < len(info.Swapchains) {
		return vk.ErrorValidationFailed
	}
	overall := vk.Success
	wait := info.WaitSemaphores
	for i, h := range info.Swapchains {
		res := vk.ErrorOutOfDate
		if sc, ok := l.swapchains.Get(uint64(h)); ok {
			res = sc.Present(queue, info.ImageIndices[i], wait)
			wait = nil
		}
		if i < len(info.Results) {
			info.Results[i] = res
		}
		if (overall == vk.Success && res != vk.Success) || (!overall.IsError() && res.IsError()) {
			overall = res
		}
	}
	return overall
}
