// Package wsi is a window system integration layer for GPU clients that
// have no native presentation path.
//
// # Overview
//
// wsi sits between a Vulkan-style client and the driver. It intercepts the
// surface and swapchain entry points, answers surface queries with values
// synthesized from the physical device, and runs its own swapchains: rings
// of linear images whose presented frames are copied into host memory and
// handed to a non-GPU consumer, the sink.
//
// Every other entry point passes straight through to the next link of the
// call chain.
//
// # Quick Start
//
//	layer := wsi.New()
//
//	// The loader (or a test) resolves entry points through the layer.
//	gipa := layer.GetInstanceProcAddr
//	create, _ := vk.ProcAs[vk.CreateInstanceFunc](gipa(vk.NullHandle, "vkCreateInstance"))
//	inst, res := create(&vk.InstanceCreateInfo{Next: link}, nil)
//
//	// Attach a consumer to a headless surface.
//	surf, _ := layer.CreateHeadlessSurface(inst, &vk.HeadlessSurfaceCreateInfo{}, nil)
//	screen := sink.NewImageSink(640, 480)
//	layer.SetBitmapHook(surf, screen)
//
// From there the client creates a swapchain, acquires, renders and presents
// exactly as it would on any window system. Each present lands in the sink
// as a *sink.Bitmap.
//
// # Layer negotiation
//
// Instance and device creation follow the loader's layer protocol: the
// create info carries a vk.LayerInstanceCreateInfo (or
// vk.LayerDeviceCreateInfo) whose link list names the next layer's
// proc-address providers. The layer consumes its element, advances the list
// and forwards the call.
//
// # Presentation
//
// By default each present blits or copies the presented image into a
// B8G8R8A8 host image backed by a shared memory region (see package shm),
// and passes that bitmap to the surface's sink. WithCPUPresentation(false)
// turns conversion off; WithSharedMemory(false) keeps the bitmap in private
// memory.
//
// # Architecture
//
// The module is organized into:
//   - Public API: Layer, Option, SetLogger
//   - vk: handles, results, create infos, entry point types
//   - surface: presentation surfaces and their registry
//   - sink, shm: frame consumers and shared memory
//   - internal: dispatch registry, allocator, image pool, swapchain engine
//   - backend/native: a terminal driver link over gogpu/wgpu's HAL
//
// # Logging
//
// wsi logs through log/slog and is silent by default. See SetLogger.
package wsi
