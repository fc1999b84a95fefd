package wsi

import (
	"testing"
	"time"

	"github.com/gogpu/wsi/internal/swapchain"
	"github.com/gogpu/wsi/sink"
	"github.com/gogpu/wsi/vk"
)

func TestDefaultOptions(t *testing.T) {
	cfg := defaultOptions().swapchainConfig()
	want := swapchain.Config{
		PresentTimeout:  swapchain.DefaultPresentTimeout,
		CPUPresentation: true,
		SharedMemory:    true,
	}
	if cfg != want {
		t.Errorf("default config = %+v, want %+v", cfg, want)
	}
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want swapchain.Config
	}{
		{
			name: "present timeout",
			opts: []Option{WithPresentTimeout(time.Second)},
			want: swapchain.Config{PresentTimeout: time.Second, CPUPresentation: true, SharedMemory: true},
		},
		{
			name: "non-positive timeout restores default",
			opts: []Option{WithPresentTimeout(time.Second), WithPresentTimeout(-1)},
			want: swapchain.Config{PresentTimeout: swapchain.DefaultPresentTimeout, CPUPresentation: true, SharedMemory: true},
		},
		{
			name: "private memory",
			opts: []Option{WithSharedMemory(false)},
			want: swapchain.Config{PresentTimeout: swapchain.DefaultPresentTimeout, CPUPresentation: true},
		},
		{
			name: "no conversion",
			opts: []Option{WithCPUPresentation(false)},
			want: swapchain.Config{PresentTimeout: swapchain.DefaultPresentTimeout, SharedMemory: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.opts...).opts.swapchainConfig(); got != tt.want {
				t.Errorf("config = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestWithCPUPresentationDisabled(t *testing.T) {
	h := newHarness(t, WithCPUPresentation(false))
	defer h.close(t)
	s := h.surface(t)
	k := sink.NewImageSink(8, 8)
	defer k.Close()
	h.layer.SetBitmapHook(s, k)

	sc, res := h.layer.CreateSwapchain(h.device, swapchainInfo(s, 1, 8, 8), nil)
	if res != vk.Success {
		t.Fatalf("CreateSwapchain = %v", res)
	}
	idx, _ := h.layer.AcquireNextImage(h.device, sc, 0, vk.NullHandle, vk.NullHandle)
	res = h.layer.QueuePresent(h.drv.Queue(), &vk.PresentInfo{Swapchains: []vk.SwapchainKHR{sc}, ImageIndices: []uint32{idx}})
	if res != vk.Success {
		t.Fatalf("QueuePresent = %v", res)
	}
	if k.Frames() != 0 {
		t.Errorf("sink received %d frames with conversion disabled", k.Frames())
	}
	if n := h.drv.CallCount("vkCreateCommandPool"); n != 0 {
		t.Errorf("%d command pools created with conversion disabled", n)
	}
	h.layer.DestroySwapchain(h.device, sc, nil)
	h.layer.DestroySurface(h.instance, s, nil)
}

func TestWithSharedMemoryDisabled(t *testing.T) {
	h := newHarness(t, WithSharedMemory(false))
	defer h.close(t)
	s := h.surface(t)
	k := sink.NewImageSink(8, 8)
	defer k.Close()
	h.layer.SetBitmapHook(s, k)

	sc, _ := h.layer.CreateSwapchain(h.device, swapchainInfo(s, 1, 8, 8), nil)
	idx, _ := h.layer.AcquireNextImage(h.device, sc, 0, vk.NullHandle, vk.NullHandle)
	h.layer.QueuePresent(h.drv.Queue(), &vk.PresentInfo{Swapchains: []vk.SwapchainKHR{sc}, ImageIndices: []uint32{idx}})
	if k.Frames() != 1 {
		t.Errorf("Frames = %d, want 1", k.Frames())
	}
	if h.drv.CallCount("vkMapMemory") != 1 {
		t.Error("private bitmaps should map the conversion image")
	}
	h.layer.DestroySwapchain(h.device, sc, nil)
	h.layer.DestroySurface(h.instance, s, nil)
}
