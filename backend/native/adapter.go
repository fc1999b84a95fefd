// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package native

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan" // register the Vulkan HAL backend
	"github.com/gogpu/wsi/internal/logger"
	"github.com/gogpu/wsi/vk"
)

// Memory type indices reported by the driver.
const (
	MemoryTypeDeviceLocal = 0
	MemoryTypeHostVisible = 1
)

// Driver is a terminal driver link over a HAL device and queue.
//
// Thread Safety: Driver is safe for concurrent use from multiple goroutines.
// Object tables are protected by a mutex; HAL submissions are serialized.
type Driver struct {
	opts   options
	device hal.Device
	queue  hal.Queue

	// Set when the driver opened the device itself and must release it.
	instance hal.Instance
	owned    bool

	// ID generation
	nextID atomic.Uint64

	physical vk.PhysicalDevice
	vkQueue  vk.Queue
	props    vk.PhysicalDeviceProperties
	memProps vk.PhysicalDeviceMemoryProperties

	mu        sync.RWMutex
	instances map[vk.Instance]struct{}
	devices   map[vk.Device]struct{}
	images    map[vk.Image]*image
	memories  map[vk.DeviceMemory]*memory
	fences    map[vk.Fence]bool
	pools     map[vk.CommandPool]struct{}
	cmdbufs   map[vk.CommandBuffer]*commandBuffer

	// Serializes command execution and HAL queue access.
	submitMu sync.Mutex
}

// New creates a driver over an existing HAL device and queue. The caller
// keeps ownership of both.
func New(device hal.Device, queue hal.Queue, opts ...Option) *Driver {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newDriver(device, queue, vk.PhysicalDeviceTypeOther, o)
}

func newDriver(device hal.Device, queue hal.Queue, typ vk.PhysicalDeviceType, o options) *Driver {
	d := &Driver{
		opts:      o,
		device:    device,
		queue:     queue,
		instances: make(map[vk.Instance]struct{}),
		devices:   make(map[vk.Device]struct{}),
		images:    make(map[vk.Image]*image),
		memories:  make(map[vk.DeviceMemory]*memory),
		fences:    make(map[vk.Fence]bool),
		pools:     make(map[vk.CommandPool]struct{}),
		cmdbufs:   make(map[vk.CommandBuffer]*commandBuffer),
	}

	// Start ID generation at 1 (0 is the null handle)
	d.nextID.Store(1)

	d.physical = vk.PhysicalDevice(d.newID())
	d.vkQueue = vk.Queue(d.newID())

	name := o.deviceName
	if name == "" {
		name = "gogpu"
	}
	d.props = vk.PhysicalDeviceProperties{
		APIVersion: vk.MakeVersion(1, 3, 0),
		DeviceType: typ,
		DeviceName: name,
		Limits: vk.PhysicalDeviceLimits{
			MaxImageDimension2D:       o.maxDimension,
			MaxImageArrayLayers:       1,
			OptimalBufferCopyRowPitch: copyPitchAlignment,
		},
	}
	d.memProps.MemoryTypeCount = 2
	d.memProps.MemoryTypes[MemoryTypeDeviceLocal] = vk.MemoryType{PropertyFlags: vk.MemoryPropertyDeviceLocal}
	d.memProps.MemoryTypes[MemoryTypeHostVisible] = vk.MemoryType{
		PropertyFlags: vk.MemoryPropertyHostVisible | vk.MemoryPropertyHostCoherent,
	}
	d.memProps.MemoryHeapCount = 1
	d.memProps.MemoryHeaps[0] = vk.MemoryHeap{Size: 1 << 32}
	return d
}

// instanceCreator is the part of a HAL backend Open needs.
type instanceCreator interface {
	CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error)
}

// Open creates a driver on the first discrete or integrated adapter of the
// Vulkan HAL backend, falling back to the first adapter.
func Open(opts ...Option) (*Driver, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, ErrBackendUnavailable
	}
	return OpenWith(backend, opts...)
}

// OpenWith is Open for an explicit HAL backend, such as the noop backend.
func OpenWith(api instanceCreator, opts ...Option) (*Driver, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return openWith(api, o)
}

func openWith(api instanceCreator, o options) (*Driver, error) {
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("native: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoGPU
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("native: open device: %w", err)
	}

	if o.deviceName == "" {
		o.deviceName = selected.Info.Name
	}
	d := newDriver(openDev.Device, openDev.Queue, physicalDeviceType(selected.Info.DeviceType), o)
	d.instance = instance
	d.owned = true
	logger.L().Info("native: device opened", "adapter", selected.Info.Name)
	return d, nil
}

// FromProvider creates a driver over the HAL device and queue of a host
// application's provider. The provider keeps ownership of both.
func FromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Driver, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}

	// The provider must expose HAL types via HalDevice() and HalQueue().
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}
	return New(device, queue, opts...), nil
}

// Close releases the HAL textures of images that were never destroyed and,
// if the driver opened the device, the device and instance.
func (d *Driver) Close() {
	d.mu.Lock()
	var textures []hal.Texture
	for h, im := range d.images {
		if im.texture != nil {
			textures = append(textures, im.texture)
		}
		delete(d.images, h)
	}
	d.mu.Unlock()

	for _, t := range textures {
		d.device.DestroyTexture(t)
	}
	if d.owned {
		d.device.Destroy()
		d.instance.Destroy()
		d.owned = false
	}
}

// newID generates a unique handle value.
func (d *Driver) newID() uint64 {
	return d.nextID.Add(1) - 1
}

// Queue returns the handle GetDeviceQueue answers with.
func (d *Driver) Queue() vk.Queue { return d.vkQueue }

// Properties returns the physical device properties the driver reports.
func (d *Driver) Properties() vk.PhysicalDeviceProperties { return d.props }

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

func physicalDeviceType(t gputypes.DeviceType) vk.PhysicalDeviceType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return vk.PhysicalDeviceTypeDiscreteGPU
	case gputypes.DeviceTypeIntegratedGPU:
		return vk.PhysicalDeviceTypeIntegratedGPU
	}
	return vk.PhysicalDeviceTypeOther
}
