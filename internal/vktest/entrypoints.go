// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vktest

import (
	"github.com/gogpu/wsi/vk"
)

func (d *Driver) instanceProcs() map[string]vk.Proc {
	return map[string]vk.Proc{
		"vkGetInstanceProcAddr":                    vk.GetInstanceProcAddrFunc(d.GetInstanceProcAddr),
		"vkCreateInstance":                         vk.CreateInstanceFunc(d.createInstance),
		"vkDestroyInstance":                        vk.DestroyInstanceFunc(d.destroyInstance),
		"vkEnumeratePhysicalDevices":               vk.EnumeratePhysicalDevicesFunc(d.enumeratePhysicalDevices),
		"vkEnumerateDeviceExtensionProperties":     vk.EnumerateDeviceExtensionPropertiesFunc(d.enumerateDeviceExtensionProperties),
		"vkGetPhysicalDeviceImageFormatProperties": vk.GetPhysicalDeviceImageFormatPropertiesFunc(d.getImageFormatProperties),
		"vkGetPhysicalDeviceMemoryProperties":      vk.GetPhysicalDeviceMemoryPropertiesFunc(d.getMemoryProperties),
		"vkGetPhysicalDeviceProperties":            vk.GetPhysicalDevicePropertiesFunc(d.getProperties),
		"vkCreateDevice":                           vk.CreateDeviceFunc(d.createDevice),
	}
}

func (d *Driver) deviceProcs() map[string]vk.Proc {
	return map[string]vk.Proc{
		"vkGetDeviceProcAddr":          vk.GetDeviceProcAddrFunc(d.GetDeviceProcAddr),
		"vkDestroyDevice":              vk.DestroyDeviceFunc(d.destroyDevice),
		"vkGetDeviceQueue":             vk.GetDeviceQueueFunc(d.getDeviceQueue),
		"vkCreateImage":                vk.CreateImageFunc(d.createImage),
		"vkDestroyImage":               vk.DestroyImageFunc(d.destroyImage),
		"vkGetImageMemoryRequirements": vk.GetImageMemoryRequirementsFunc(d.getImageMemoryRequirements),
		"vkGetImageSubresourceLayout":  vk.GetImageSubresourceLayoutFunc(d.getImageSubresourceLayout),
		"vkAllocateMemory":             vk.AllocateMemoryFunc(d.allocateMemory),
		"vkFreeMemory":                 vk.FreeMemoryFunc(d.freeMemory),
		"vkBindImageMemory":            vk.BindImageMemoryFunc(d.bindImageMemory),
		"vkMapMemory":                  vk.MapMemoryFunc(d.mapMemory),
		"vkUnmapMemory":                vk.UnmapMemoryFunc(d.unmapMemory),
		"vkCreateFence":                vk.CreateFenceFunc(d.createFence),
		"vkDestroyFence":               vk.DestroyFenceFunc(d.destroyFence),
		"vkResetFences":                vk.ResetFencesFunc(d.resetFences),
		"vkWaitForFences":              vk.WaitForFencesFunc(d.waitForFences),
		"vkCreateCommandPool":          vk.CreateCommandPoolFunc(d.createCommandPool),
		"vkDestroyCommandPool":         vk.DestroyCommandPoolFunc(d.destroyCommandPool),
		"vkAllocateCommandBuffers":     vk.AllocateCommandBuffersFunc(d.allocateCommandBuffers),
		"vkFreeCommandBuffers":         vk.FreeCommandBuffersFunc(d.freeCommandBuffers),
		"vkBeginCommandBuffer":         vk.BeginCommandBufferFunc(d.beginCommandBuffer),
		"vkEndCommandBuffer":           vk.EndCommandBufferFunc(d.endCommandBuffer),
		"vkCmdPipelineBarrier":         vk.CmdPipelineBarrierFunc(d.cmdPipelineBarrier),
		"vkCmdBlitImage":               vk.CmdBlitImageFunc(d.cmdBlitImage),
		"vkCmdCopyImage":               vk.CmdCopyImageFunc(d.cmdCopyImage),
		"vkQueueSubmit":                vk.QueueSubmitFunc(d.queueSubmit),
		"vkQueueWaitIdle":              vk.QueueWaitIdleFunc(d.queueWaitIdle),
	}
}

// GetInstanceProcAddr resolves instance- and device-level names, as a real
// driver does.
func (d *Driver) GetInstanceProcAddr(_ vk.Instance, name string) vk.Proc {
	d.mu.Lock()
	omitted := d.omitted[name]
	d.mu.Unlock()
	if omitted {
		return nil
	}
	if p, ok := d.instanceProcs()[name]; ok {
		return p
	}
	if p, ok := d.deviceProcs()[name]; ok {
		return p
	}
	return nil
}

// GetDeviceProcAddr resolves device-level names.
func (d *Driver) GetDeviceProcAddr(_ vk.Device, name string) vk.Proc {
	d.mu.Lock()
	omitted := d.omitted[name]
	d.mu.Unlock()
	if omitted {
		return nil
	}
	if p, ok := d.deviceProcs()[name]; ok {
		return p
	}
	return nil
}

func (d *Driver) createInstance(info *vk.InstanceCreateInfo, _ *vk.AllocationCallbacks) (vk.Instance, vk.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if res := d.enter("vkCreateInstance"); res != vk.Success {
		return vk.NullHandle, res
	}
	d.lastInstanceInfo = info
	h := vk.Instance(d.handle())
	d.instances[h] = true
	return h, vk.Success
}

func (d *Driver) destroyInstance(inst vk.Instance, _ *vk.AllocationCallbacks) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enter("vkDestroyInstance")
	if !d.instances[inst] {
		d.errorf("destroy of unknown instance %#x", uint64(inst))
	}
	delete(d.instances, inst)
}

func (d *Driver) enumeratePhysicalDevices(_ vk.Instance, count *uint32, out []vk.PhysicalDevice) vk.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if res := d.enter("vkEnumeratePhysicalDevices"); res != vk.Success {
		return res
	}
	return vk.Enumerate(d.PhysicalDevices, count, out)
}

func (d *Driver) enumerateDeviceExtensionProperties(_ vk.PhysicalDevice, layerName string, count *uint32, out []vk.ExtensionProperties) vk.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if res := d.enter("vkEnumerateDeviceExtensionProperties"); res != vk.Success {
		return res
	}
	if layerName != "" {
		return vk.ErrorLayerNotPresent
	}
	return vk.Enumerate([]vk.ExtensionProperties{{ExtensionName: vk.KHRExternalMemoryFDExtensionName, SpecVersion: 1}}, count, out)
}

func (d *Driver) getImageFormatProperties(_ vk.PhysicalDevice, format vk.Format, _ vk.ImageType, _ vk.ImageTiling,
	_ vk.ImageUsageFlags, _ vk.ImageCreateFlags, props *vk.ImageFormatProperties) vk.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if res := d.enter("vkGetPhysicalDeviceImageFormatProperties"); res != vk.Success {
		return res
	}
	if !d.Supported[format] {
		return vk.ErrorFormatNotSupported
	}
	*props = vk.ImageFormatProperties{
		MaxExtent:      vk.Extent3D{Width: 8192, Height: 8192, Depth: 1},
		MaxMipLevels:   1,
		MaxArrayLayers: 1,
		SampleCounts:   vk.SampleCount1,
	}
	return vk.Success
}

func (d *Driver) getMemoryProperties(_ vk.PhysicalDevice, props *vk.PhysicalDeviceMemoryProperties) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enter("vkGetPhysicalDeviceMemoryProperties")
	*props = d.MemoryProperties
}

func (d *Driver) getProperties(_ vk.PhysicalDevice, props *vk.PhysicalDeviceProperties) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enter("vkGetPhysicalDeviceProperties")
	*props = d.Properties
}

func (d *Driver) createDevice(_ vk.PhysicalDevice, info *vk.DeviceCreateInfo, _ *vk.AllocationCallbacks) (vk.Device, vk.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if res := d.enter("vkCreateDevice"); res != vk.Success {
		return vk.NullHandle, res
	}
	d.lastDeviceInfo = info
	h := vk.Device(d.handle())
	d.devices[h] = true
	return h, vk.Success
}

func (d *Driver) destroyDevice(dev vk.Device, _ *vk.AllocationCallbacks) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enter("vkDestroyDevice")
	if !d.devices[dev] {
		d.errorf("destroy of unknown device %#x", uint64(dev))
	}
	delete(d.devices, dev)
}

func (d *Driver) getDeviceQueue(_ vk.Device, family, index uint32) vk.Queue {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enter("vkGetDeviceQueue")
	if family != 0 || index != 0 {
		d.errorf("queue %d/%d requested", family, index)
	}
	return d.queue
}
