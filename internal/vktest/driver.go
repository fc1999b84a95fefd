// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package vktest provides an in-memory driver link for tests.
//
// Driver answers every entry point the layer forwards to. Images live in
// host memory with a linear layout, command buffers record closures that
// run on submit, and fences and semaphores are plain flags. Tests can make
// any entry point fail, hide it from proc-address lookups, and inspect the
// call log and the objects still alive.
package vktest

import (
	"fmt"
	"sync"

	"github.com/gogpu/wsi/internal/texel"
	"github.com/gogpu/wsi/vk"
)

// RowAlignment is the row pitch alignment of linear images.
const RowAlignment = 64

// Memory type indices of the default memory properties.
const (
	MemoryTypeDeviceLocal = 0
	MemoryTypeHostVisible = 1
	MemoryTypeHostCached  = 2
)

type image struct {
	info     vk.ImageCreateInfo
	rowPitch uint64
	size     uint64
	mem      *memory
	offset   uint64
	layout   vk.ImageLayout
}

type memory struct {
	data     []byte
	typ      uint32
	imported bool
	mapped   bool
	bound    int
}

type commandBuffer struct {
	pool      vk.CommandPool
	recording bool
	ops       []func()
}

type failure struct {
	after int
	res   vk.Result
}

// Driver is a fake terminal driver. It is safe for concurrent use.
type Driver struct {
	mu sync.Mutex

	nextHandle uint64
	calls      []string
	failures   map[string]*failure
	omitted    map[string]bool
	errs       []string

	// Configuration; set before the first call.
	PhysicalDevices  []vk.PhysicalDevice
	Properties       vk.PhysicalDeviceProperties
	MemoryProperties vk.PhysicalDeviceMemoryProperties
	Supported        map[vk.Format]bool

	instances  map[vk.Instance]bool
	devices    map[vk.Device]bool
	queue      vk.Queue
	images     map[vk.Image]*image
	memories   map[vk.DeviceMemory]*memory
	fences     map[vk.Fence]bool
	pools      map[vk.CommandPool]bool
	cmdbufs    map[vk.CommandBuffer]*commandBuffer
	semaphores map[vk.Semaphore]bool

	lastInstanceInfo *vk.InstanceCreateInfo
	lastDeviceInfo   *vk.DeviceCreateInfo
	submits          int
}

// New returns a driver with one physical device, three memory types and the
// four 8-bit RGBA/BGRA formats supported.
func New() *Driver {
	d := &Driver{
		failures:   make(map[string]*failure),
		omitted:    make(map[string]bool),
		instances:  make(map[vk.Instance]bool),
		devices:    make(map[vk.Device]bool),
		images:     make(map[vk.Image]*image),
		memories:   make(map[vk.DeviceMemory]*memory),
		fences:     make(map[vk.Fence]bool),
		pools:      make(map[vk.CommandPool]bool),
		cmdbufs:    make(map[vk.CommandBuffer]*commandBuffer),
		semaphores: make(map[vk.Semaphore]bool),
		nextHandle: 0x1000,
	}
	d.PhysicalDevices = []vk.PhysicalDevice{vk.PhysicalDevice(d.handle())}
	d.queue = vk.Queue(d.handle())
	d.Properties = vk.PhysicalDeviceProperties{
		APIVersion: vk.MakeVersion(1, 3, 0),
		DeviceType: vk.PhysicalDeviceTypeCPU,
		DeviceName: "vktest",
		Limits:     vk.PhysicalDeviceLimits{MaxImageDimension2D: 8192, MaxImageArrayLayers: 256},
	}
	d.MemoryProperties.MemoryTypeCount = 3
	d.MemoryProperties.MemoryTypes[MemoryTypeDeviceLocal] = vk.MemoryType{PropertyFlags: vk.MemoryPropertyDeviceLocal}
	d.MemoryProperties.MemoryTypes[MemoryTypeHostVisible] = vk.MemoryType{
		PropertyFlags: vk.MemoryPropertyHostVisible | vk.MemoryPropertyHostCoherent,
	}
	d.MemoryProperties.MemoryTypes[MemoryTypeHostCached] = vk.MemoryType{
		PropertyFlags: vk.MemoryPropertyHostVisible | vk.MemoryPropertyHostCoherent | vk.MemoryPropertyHostCached,
	}
	d.MemoryProperties.MemoryHeapCount = 1
	d.MemoryProperties.MemoryHeaps[0] = vk.MemoryHeap{Size: 1 << 30}
	d.Supported = map[vk.Format]bool{
		vk.FormatR8G8B8A8Unorm: true,
		vk.FormatR8G8B8A8Srgb:  true,
		vk.FormatB8G8R8A8Unorm: true,
		vk.FormatB8G8R8A8Srgb:  true,
	}
	return d
}

func (d *Driver) handle() uint64 {
	d.nextHandle++
	return d.nextHandle
}

// Fail makes every call of name return res.
func (d *Driver) Fail(name string, res vk.Result) { d.FailAfter(name, 0, res) }

// FailAfter lets n calls of name succeed and makes the following ones
// return res.
func (d *Driver) FailAfter(name string, n int, res vk.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures[name] = &failure{after: n, res: res}
}

// Heal removes an injected failure.
func (d *Driver) Heal(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.failures, name)
}

// Omit hides name from proc-address lookups.
func (d *Driver) Omit(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.omitted[name] = true
}

// enter logs a call and returns its injected result, or Success. Callers
// hold d.mu.
func (d *Driver) enter(name string) vk.Result {
	d.calls = append(d.calls, name)
	f, ok := d.failures[name]
	if !ok {
		return vk.Success
	}
	if f.after > 0 {
		f.after--
		return vk.Success
	}
	return f.res
}

func (d *Driver) errorf(format string, args ...any) {
	d.errs = append(d.errs, fmt.Sprintf(format, args...))
}

// Calls returns a copy of the call log.
func (d *Driver) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// CallCount returns how many times name was called.
func (d *Driver) CallCount(name string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.calls {
		if c == name {
			n++
		}
	}
	return n
}

// Errors returns misuse the driver detected: double frees, freeing memory
// that is still bound, blits from unbound images.
func (d *Driver) Errors() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.errs...)
}

// Live reports the objects not yet destroyed.
type Live struct {
	Images, Memories, Fences, Pools, CommandBuffers int
}

// Live returns the current object counts.
func (d *Driver) Live() Live {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Live{
		Images:         len(d.images),
		Memories:       len(d.memories),
		Fences:         len(d.fences),
		Pools:          len(d.pools),
		CommandBuffers: len(d.cmdbufs),
	}
}

// Submits returns the number of QueueSubmit batches executed.
func (d *Driver) Submits() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.submits
}

// LastDeviceExtensions returns the extensions the last device was created
// with.
func (d *Driver) LastDeviceExtensions() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lastDeviceInfo == nil {
		return nil
	}
	return append([]string(nil), d.lastDeviceInfo.EnabledExtensionNames...)
}

// LastInstanceInfo returns the create info of the last instance.
func (d *Driver) LastInstanceInfo() *vk.InstanceCreateInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastInstanceInfo
}

// Queue returns the handle GetDeviceQueue answers with.
func (d *Driver) Queue() vk.Queue { return d.queue }

// InstanceChain returns a link node naming this driver as the next link.
func (d *Driver) InstanceChain() *vk.LayerInstanceCreateInfo {
	return &vk.LayerInstanceCreateInfo{
		Function:  vk.LayerLinkInfo,
		LayerInfo: &vk.LayerInstanceLink{NextGetInstanceProcAddr: d.GetInstanceProcAddr},
	}
}

// DeviceChain returns a link node naming this driver as the next link.
func (d *Driver) DeviceChain() *vk.LayerDeviceCreateInfo {
	return &vk.LayerDeviceCreateInfo{
		Function: vk.LayerLinkInfo,
		LayerInfo: &vk.LayerDeviceLink{
			NextGetInstanceProcAddr: d.GetInstanceProcAddr,
			NextGetDeviceProcAddr:   d.GetDeviceProcAddr,
		},
	}
}

// SignalSemaphore marks s signaled, as if other GPU work had completed.
func (d *Driver) SignalSemaphore(s vk.Semaphore) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.semaphores[s] = true
}

// SemaphoreSignaled reports whether s is signaled and not yet waited on.
func (d *Driver) SemaphoreSignaled(s vk.Semaphore) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.semaphores[s]
}

// FenceSignaled reports whether f exists and is signaled.
func (d *Driver) FenceSignaled(f vk.Fence) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fences[f]
}

// ImageLayout returns the layout img was last transitioned to.
func (d *Driver) ImageLayout(img vk.Image) vk.ImageLayout {
	d.mu.Lock()
	defer d.mu.Unlock()
	if im, ok := d.images[img]; ok {
		return im.layout
	}
	return vk.ImageLayoutUndefined
}

// ImageInfo returns the create info of img.
func (d *Driver) ImageInfo(img vk.Image) (vk.ImageCreateInfo, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	im, ok := d.images[img]
	if !ok {
		return vk.ImageCreateInfo{}, false
	}
	return im.info, true
}

// ImageMemoryType returns the memory type index bound to img, or -1.
func (d *Driver) ImageMemoryType(img vk.Image) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	im, ok := d.images[img]
	if !ok || im.mem == nil {
		return -1
	}
	return int(im.mem.typ)
}

// ImageImported reports whether img is bound to imported host memory.
func (d *Driver) ImageImported(img vk.Image) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	im, ok := d.images[img]
	return ok && im.mem != nil && im.mem.imported
}

// Fill writes px(x, y) as RGBA into every texel of img, encoded in the
// image's format. It stands in for the client's rendering.
func (d *Driver) Fill(img vk.Image, px func(x, y int) [4]byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	im, ok := d.images[img]
	if !ok || im.mem == nil {
		return fmt.Errorf("vktest: image %#x has no memory", uint64(img))
	}
	im.view().Fill(px)
	return nil
}

// Pixel reads one texel of img as RGBA.
func (d *Driver) Pixel(img vk.Image, x, y int) [4]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	im, ok := d.images[img]
	if !ok || im.mem == nil {
		return [4]byte{}
	}
	return im.view().Load(x, y)
}

func (im *image) view() texel.Image {
	return texel.Image{
		Pix:    im.mem.data[im.offset:],
		Stride: int(im.rowPitch),
		Format: im.info.Format,
		Width:  int(im.info.Extent.Width),
		Height: int(im.info.Extent.Height),
	}
}
