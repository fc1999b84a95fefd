package wsi

import (
	"time"

	"github.com/gogpu/wsi/internal/swapchain"
)

// Option configures a Layer during creation.
// Use functional options to customize presentation.
//
// Example:
//
//	// Defaults: CPU presentation through shared memory, 5s present timeout
//	layer := wsi.New()
//
//	// Keep frames in private memory and fail presents faster
//	layer := wsi.New(wsi.WithSharedMemory(false), wsi.WithPresentTimeout(time.Second))
type Option func(*options)

// options holds optional configuration for Layer creation.
type options struct {
	presentTimeout  time.Duration
	cpuPresentation bool
	sharedMemory    bool
}

// defaultOptions returns the default layer options.
func defaultOptions() options {
	return options{
		presentTimeout:  swapchain.DefaultPresentTimeout,
		cpuPresentation: true,
		sharedMemory:    true,
	}
}

// swapchainConfig returns the configuration every new swapchain gets.
func (o options) swapchainConfig() swapchain.Config {
	return swapchain.Config{
		PresentTimeout:  o.presentTimeout,
		CPUPresentation: o.cpuPresentation,
		SharedMemory:    o.sharedMemory,
	}
}

// WithPresentTimeout bounds how long a present waits for the GPU. A present
// whose fence does not signal in time fails with vk.ErrorDeviceLost.
// Non-positive values restore the default.
func WithPresentTimeout(d time.Duration) Option {
	return func(o *options) {
		if d <= 0 {
			d = swapchain.DefaultPresentTimeout
		}
		o.presentTimeout = d
	}
}

// WithCPUPresentation enables or disables the conversion of presented
// images into bitmaps for the surface's sink.
//
// With conversion disabled, presents still synchronize with the GPU but
// sinks receive nothing.
func WithCPUPresentation(enabled bool) Option {
	return func(o *options) {
		o.cpuPresentation = enabled
	}
}

// WithSharedMemory selects whether bitmaps live in shared memory regions
// that a sink can hand to another process, or in private memory.
func WithSharedMemory(enabled bool) Option {
	return func(o *options) {
		o.sharedMemory = enabled
	}
}
