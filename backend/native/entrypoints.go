// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package native

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wsi/internal/logger"
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

// GetInstanceProcAddr resolves instance- and device-level names.
func (d *Driver) GetInstanceProcAddr(_ vk.Instance, name string) vk.Proc {
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
	if p, ok := d.deviceProcs()[name]; ok {
		return p
	}
	return nil
}

func (d *Driver) createInstance(*vk.InstanceCreateInfo, *vk.AllocationCallbacks) (vk.Instance, vk.Result) {
	h := vk.Instance(d.newID())
	d.mu.Lock()
	d.instances[h] = struct{}{}
	d.mu.Unlock()
	return h, vk.Success
}

func (d *Driver) destroyInstance(inst vk.Instance, _ *vk.AllocationCallbacks) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.instances, inst)
}

func (d *Driver) enumeratePhysicalDevices(inst vk.Instance, count *uint32, out []vk.PhysicalDevice) vk.Result {
	d.mu.RLock()
	_, ok := d.instances[inst]
	d.mu.RUnlock()
	if !ok {
		return vk.ErrorInitializationFailed
	}
	return vk.Enumerate([]vk.PhysicalDevice{d.physical}, count, out)
}

func (d *Driver) enumerateDeviceExtensionProperties(_ vk.PhysicalDevice, layerName string, count *uint32, out []vk.ExtensionProperties) vk.Result {
	if layerName != "" {
		return vk.ErrorLayerNotPresent
	}
	return vk.Enumerate([]vk.ExtensionProperties{{ExtensionName: vk.KHRExternalMemoryFDExtensionName, SpecVersion: 1}}, count, out)
}

// supported reports whether images of format can be backed by a HAL texture
// and read by the texel routines.
func supported(format vk.Format) bool {
	return format.BytesPerPixel() != 0 && format.TextureFormat() != gputypes.TextureFormatUndefined
}

func (d *Driver) getImageFormatProperties(_ vk.PhysicalDevice, format vk.Format, typ vk.ImageType, _ vk.ImageTiling,
	usage vk.ImageUsageFlags, _ vk.ImageCreateFlags, props *vk.ImageFormatProperties) vk.Result {
	if typ != vk.ImageType2D || usage&vk.ImageUsageDepthStencilAttachment != 0 || !supported(format) {
		return vk.ErrorFormatNotSupported
	}
	dim := d.props.Limits.MaxImageDimension2D
	*props = vk.ImageFormatProperties{
		MaxExtent:       vk.Extent3D{Width: dim, Height: dim, Depth: 1},
		MaxMipLevels:    1,
		MaxArrayLayers:  1,
		SampleCounts:    vk.SampleCount1,
		MaxResourceSize: uint64(dim) * uint64(dim) * 4,
	}
	return vk.Success
}

func (d *Driver) getMemoryProperties(_ vk.PhysicalDevice, props *vk.PhysicalDeviceMemoryProperties) {
	*props = d.memProps
}

func (d *Driver) getProperties(_ vk.PhysicalDevice, props *vk.PhysicalDeviceProperties) {
	*props = d.props
}

func (d *Driver) createDevice(pd vk.PhysicalDevice, _ *vk.DeviceCreateInfo, _ *vk.AllocationCallbacks) (vk.Device, vk.Result) {
	if pd != d.physical {
		return vk.NullHandle, vk.ErrorInitializationFailed
	}
	h := vk.Device(d.newID())
	d.mu.Lock()
	d.devices[h] = struct{}{}
	d.mu.Unlock()
	logger.L().Debug("native: device created", "device", uint64(h))
	return h, vk.Success
}

func (d *Driver) destroyDevice(dev vk.Device, _ *vk.AllocationCallbacks) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.devices, dev)
}

func (d *Driver) getDeviceQueue(_ vk.Device, family, index uint32) vk.Queue {
	if family != 0 || index != 0 {
		return vk.NullHandle
	}
	return d.vkQueue
}
