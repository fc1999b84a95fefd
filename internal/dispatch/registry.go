// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package dispatch records the instances and devices created through the
// layer together with the next link's entry points for each of them.
//
// Registration follows the loader's layer protocol: find this layer's
// element in the create info's link list, take the next link's proc-address
// providers from it, advance the list by one element, then forward the create
// call. Nothing is published to the registry unless every step succeeds.
package dispatch

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/wsi/internal/logger"
	"github.com/gogpu/wsi/vk"
)

// Instance is a registered instance.
type Instance struct {
	Handle vk.Instance
	Hooks  InstanceHooks
}

// GetProcAddr resolves name through the next link.
func (i *Instance) GetProcAddr(name string) vk.Proc {
	return i.Hooks.GetInstanceProcAddr(i.Handle, name)
}

// Device is a registered device.
type Device struct {
	Handle         vk.Device
	PhysicalDevice vk.PhysicalDevice
	Instance       *Instance
	Hooks          DeviceHooks
}

// GetProcAddr resolves name through the next link.
func (d *Device) GetProcAddr(name string) vk.Proc {
	return d.Hooks.GetDeviceProcAddr(d.Handle, name)
}

// Registry maps driver handles to registry entries. Each map has its own
// lock, held only for the map operation itself and never across a call into
// the next link.
type Registry struct {
	instMu    sync.RWMutex
	instances map[vk.Instance]*Instance

	devMu   sync.RWMutex
	devices map[vk.Device]*Device

	physMu   sync.RWMutex
	physical map[vk.PhysicalDevice]*Instance
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		instances: make(map[vk.Instance]*Instance),
		devices:   make(map[vk.Device]*Device),
		physical:  make(map[vk.PhysicalDevice]*Instance),
	}
}

func initFailed(format string, args ...any) error {
	return fmt.Errorf("dispatch: "+format+": %w", append(args, vk.ErrorInitializationFailed)...)
}

// RegisterInstance forwards instance creation to the next link and records
// the result. Missing instance hooks are tolerated; callers check the hook
// before use.
func (r *Registry) RegisterInstance(info *vk.InstanceCreateInfo, allocator *vk.AllocationCallbacks) (*Instance, error) {
	link := vk.FindLayerInstanceLink(info.Next)
	if link == nil {
		return nil, initFailed("instance create info has no layer link")
	}
	gipa := link.LayerInfo.NextGetInstanceProcAddr
	if gipa == nil {
		return nil, initFailed("layer link has no GetInstanceProcAddr")
	}
	link.Advance()

	create, ok := vk.ProcAs[vk.CreateInstanceFunc](gipa(vk.NullHandle, "vkCreateInstance"))
	if !ok {
		return nil, initFailed("next link has no vkCreateInstance")
	}
	handle, res := create(info, allocator)
	if res.IsError() {
		return nil, fmt.Errorf("dispatch: create instance: %w", res)
	}

	inst := &Instance{Handle: handle}
	inst.Hooks.GetInstanceProcAddr = gipa
	inst.Hooks.CreateInstance = create
	required, optional := resolve(inst.Hooks.bindings(), inst.GetProcAddr)
	for _, name := range append(required, optional...) {
		logger.L().Warn("dispatch: instance hook not resolved", "name", name)
	}

	physical := enumeratePhysicalDevices(inst)

	r.instMu.Lock()
	r.instances[handle] = inst
	r.instMu.Unlock()

	r.physMu.Lock()
	for _, pd := range physical {
		r.physical[pd] = inst
	}
	r.physMu.Unlock()

	logger.L().Debug("dispatch: instance registered", "instance", handle, "physicalDevices", len(physical))
	return inst, nil
}

func enumeratePhysicalDevices(inst *Instance) []vk.PhysicalDevice {
	enum := inst.Hooks.EnumeratePhysicalDevices
	if enum == nil {
		return nil
	}
	var n uint32
	if res := enum(inst.Handle, &n, nil); res.IsError() || n == 0 {
		return nil
	}
	out := make([]vk.PhysicalDevice, n)
	if res := enum(inst.Handle, &n, out); res.IsError() {
		return nil
	}
	return out[:n]
}

// RegisterDevice forwards device creation to the next link with the external
// memory extension enabled and records the result. Every required device hook
// must resolve; otherwise the new device is destroyed again and nothing is
// recorded.
func (r *Registry) RegisterDevice(pd vk.PhysicalDevice, info *vk.DeviceCreateInfo, allocator *vk.AllocationCallbacks) (*Device, error) {
	link := vk.FindLayerDeviceLink(info.Next)
	if link == nil {
		return nil, initFailed("device create info has no layer link")
	}
	gipa := link.LayerInfo.NextGetInstanceProcAddr
	gdpa := link.LayerInfo.NextGetDeviceProcAddr
	if gipa == nil || gdpa == nil {
		return nil, initFailed("layer link has no proc-address providers")
	}
	link.Advance()

	inst := r.InstanceForPhysicalDevice(pd)
	if inst == nil {
		return nil, initFailed("physical device %#x belongs to no registered instance", uint64(pd))
	}
	create, ok := vk.ProcAs[vk.CreateDeviceFunc](gipa(inst.Handle, "vkCreateDevice"))
	if !ok {
		return nil, initFailed("next link has no vkCreateDevice")
	}

	override := *info
	override.EnabledExtensionNames = vk.AppendExtension(info.EnabledExtensionNames, vk.KHRExternalMemoryFDExtensionName)
	handle, res := create(pd, &override, allocator)
	if res.IsError() {
		return nil, fmt.Errorf("dispatch: create device: %w", res)
	}

	dev := &Device{Handle: handle, PhysicalDevice: pd, Instance: inst}
	dev.Hooks.GetInstanceProcAddr = gipa
	dev.Hooks.GetDeviceProcAddr = gdpa
	if own, ok := vk.ProcAs[vk.GetDeviceProcAddrFunc](gdpa(handle, "vkGetDeviceProcAddr")); ok {
		dev.Hooks.GetDeviceProcAddr = own
	}
	dev.Hooks.CreateDevice = create

	if missing, _ := resolve(dev.Hooks.bindings(), dev.GetProcAddr); len(missing) > 0 {
		if dev.Hooks.DestroyDevice != nil {
			dev.Hooks.DestroyDevice(handle, allocator)
		}
		return nil, initFailed("device hooks not resolved: %s", strings.Join(missing, ", "))
	}

	r.devMu.Lock()
	r.devices[handle] = dev
	r.devMu.Unlock()

	logger.L().Debug("dispatch: device registered", "device", handle, "physicalDevice", pd)
	return dev, nil
}

// Instance returns the entry for h.
func (r *Registry) Instance(h vk.Instance) (*Instance, bool) {
	r.instMu.RLock()
	defer r.instMu.RUnlock()
	inst, ok := r.instances[h]
	return inst, ok
}

// Device returns the entry for h.
func (r *Registry) Device(h vk.Device) (*Device, bool) {
	r.devMu.RLock()
	defer r.devMu.RUnlock()
	dev, ok := r.devices[h]
	return dev, ok
}

// InstanceForPhysicalDevice returns the instance that enumerated pd. When the
// next link does not enumerate physical devices and exactly one instance is
// registered, that instance is returned.
func (r *Registry) InstanceForPhysicalDevice(pd vk.PhysicalDevice) *Instance {
	r.physMu.RLock()
	inst := r.physical[pd]
	r.physMu.RUnlock()
	if inst != nil {
		return inst
	}

	r.instMu.RLock()
	defer r.instMu.RUnlock()
	if len(r.instances) != 1 {
		return nil
	}
	for _, only := range r.instances {
		return only
	}
	return nil
}

// UnregisterInstance removes h and destroys it through the next link.
// Unknown handles are ignored.
func (r *Registry) UnregisterInstance(h vk.Instance, allocator *vk.AllocationCallbacks) {
	r.instMu.Lock()
	inst, ok := r.instances[h]
	delete(r.instances, h)
	r.instMu.Unlock()
	if !ok {
		return
	}

	r.physMu.Lock()
	for pd, owner := range r.physical {
		if owner == inst {
			delete(r.physical, pd)
		}
	}
	r.physMu.Unlock()

	if inst.Hooks.DestroyInstance != nil {
		inst.Hooks.DestroyInstance(h, allocator)
	}
	logger.L().Debug("dispatch: instance unregistered", "instance", h)
}

// UnregisterDevice removes h and destroys it through the next link.
// Unknown handles are ignored.
func (r *Registry) UnregisterDevice(h vk.Device, allocator *vk.AllocationCallbacks) {
	r.devMu.Lock()
	dev, ok := r.devices[h]
	delete(r.devices, h)
	r.devMu.Unlock()
	if !ok {
		return
	}
	dev.Hooks.DestroyDevice(h, allocator)
	logger.L().Debug("dispatch: device unregistered", "device", h)
}

// Len returns the number of registered instances and devices.
func (r *Registry) Len() (instances, devices int) {
	r.instMu.RLock()
	instances = len(r.instances)
	r.instMu.RUnlock()
	r.devMu.RLock()
	devices = len(r.devices)
	r.devMu.RUnlock()
	return instances, devices
}
