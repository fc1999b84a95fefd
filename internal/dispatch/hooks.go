// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dispatch

import "github.com/gogpu/wsi/vk"

// InstanceHooks are the next link's instance-level entry points.
type InstanceHooks struct {
	GetInstanceProcAddr vk.GetInstanceProcAddrFunc
	CreateInstance      vk.CreateInstanceFunc

	DestroyInstance                        vk.DestroyInstanceFunc
	EnumerateDeviceExtensionProperties     vk.EnumerateDeviceExtensionPropertiesFunc
	GetPhysicalDeviceImageFormatProperties vk.GetPhysicalDeviceImageFormatPropertiesFunc
	GetPhysicalDeviceMemoryProperties      vk.GetPhysicalDeviceMemoryPropertiesFunc
	GetPhysicalDeviceProperties            vk.GetPhysicalDevicePropertiesFunc

	// Optional.
	EnumeratePhysicalDevices vk.EnumeratePhysicalDevicesFunc
}

// DeviceHooks are the next link's device-level entry points.
type DeviceHooks struct {
	GetInstanceProcAddr vk.GetInstanceProcAddrFunc
	GetDeviceProcAddr   vk.GetDeviceProcAddrFunc
	CreateDevice        vk.CreateDeviceFunc

	DestroyDevice              vk.DestroyDeviceFunc
	AllocateCommandBuffers     vk.AllocateCommandBuffersFunc
	AllocateMemory             vk.AllocateMemoryFunc
	BindImageMemory            vk.BindImageMemoryFunc
	CreateCommandPool          vk.CreateCommandPoolFunc
	CreateImage                vk.CreateImageFunc
	DestroyCommandPool         vk.DestroyCommandPoolFunc
	DestroyImage               vk.DestroyImageFunc
	FreeCommandBuffers         vk.FreeCommandBuffersFunc
	FreeMemory                 vk.FreeMemoryFunc
	GetDeviceQueue             vk.GetDeviceQueueFunc
	GetImageMemoryRequirements vk.GetImageMemoryRequirementsFunc
	GetImageSubresourceLayout  vk.GetImageSubresourceLayoutFunc
	MapMemory                  vk.MapMemoryFunc
	ResetFences                vk.ResetFencesFunc
	UnmapMemory                vk.UnmapMemoryFunc
	CreateFence                vk.CreateFenceFunc
	DestroyFence               vk.DestroyFenceFunc
	WaitForFences              vk.WaitForFencesFunc
	BeginCommandBuffer         vk.BeginCommandBufferFunc
	CmdCopyImage               vk.CmdCopyImageFunc
	CmdBlitImage               vk.CmdBlitImageFunc
	CmdPipelineBarrier         vk.CmdPipelineBarrierFunc
	EndCommandBuffer           vk.EndCommandBufferFunc
	QueueSubmit                vk.QueueSubmitFunc
	QueueWaitIdle              vk.QueueWaitIdleFunc
}

// binding resolves one named entry point into a hook field.
type binding struct {
	name     string
	required bool
	resolve  func(vk.Proc) bool
}

func bindTo[F any](dst *F) func(vk.Proc) bool {
	return func(p vk.Proc) bool {
		f, ok := vk.ProcAs[F](p)
		if ok {
			*dst = f
		}
		return ok
	}
}

func (h *InstanceHooks) bindings() []binding {
	return []binding{
		{"vkDestroyInstance", true, bindTo(&h.DestroyInstance)},
		{"vkEnumerateDeviceExtensionProperties", true, bindTo(&h.EnumerateDeviceExtensionProperties)},
		{"vkGetPhysicalDeviceImageFormatProperties", true, bindTo(&h.GetPhysicalDeviceImageFormatProperties)},
		{"vkGetPhysicalDeviceMemoryProperties", true, bindTo(&h.GetPhysicalDeviceMemoryProperties)},
		{"vkGetPhysicalDeviceProperties", true, bindTo(&h.GetPhysicalDeviceProperties)},
		{"vkEnumeratePhysicalDevices", false, bindTo(&h.EnumeratePhysicalDevices)},
	}
}

func (h *DeviceHooks) bindings() []binding {
	return []binding{
		{"vkDestroyDevice", true, bindTo(&h.DestroyDevice)},
		{"vkAllocateCommandBuffers", true, bindTo(&h.AllocateCommandBuffers)},
		{"vkAllocateMemory", true, bindTo(&h.AllocateMemory)},
		{"vkBindImageMemory", true, bindTo(&h.BindImageMemory)},
		{"vkCreateCommandPool", true, bindTo(&h.CreateCommandPool)},
		{"vkCreateImage", true, bindTo(&h.CreateImage)},
		{"vkDestroyCommandPool", true, bindTo(&h.DestroyCommandPool)},
		{"vkDestroyImage", true, bindTo(&h.DestroyImage)},
		{"vkFreeCommandBuffers", true, bindTo(&h.FreeCommandBuffers)},
		{"vkFreeMemory", true, bindTo(&h.FreeMemory)},
		{"vkGetDeviceQueue", true, bindTo(&h.GetDeviceQueue)},
		{"vkGetImageMemoryRequirements", true, bindTo(&h.GetImageMemoryRequirements)},
		{"vkGetImageSubresourceLayout", true, bindTo(&h.GetImageSubresourceLayout)},
		{"vkMapMemory", true, bindTo(&h.MapMemory)},
		{"vkResetFences", true, bindTo(&h.ResetFences)},
		{"vkUnmapMemory", true, bindTo(&h.UnmapMemory)},
		{"vkCreateFence", true, bindTo(&h.CreateFence)},
		{"vkDestroyFence", true, bindTo(&h.DestroyFence)},
		{"vkWaitForFences", true, bindTo(&h.WaitForFences)},
		{"vkBeginCommandBuffer", true, bindTo(&h.BeginCommandBuffer)},
		{"vkCmdCopyImage", true, bindTo(&h.CmdCopyImage)},
		{"vkCmdBlitImage", true, bindTo(&h.CmdBlitImage)},
		{"vkCmdPipelineBarrier", true, bindTo(&h.CmdPipelineBarrier)},
		{"vkEndCommandBuffer", true, bindTo(&h.EndCommandBuffer)},
		{"vkQueueSubmit", true, bindTo(&h.QueueSubmit)},
		{"vkQueueWaitIdle", true, bindTo(&h.QueueWaitIdle)},
	}
}

// resolve binds every entry in bs through gpa and returns the names of the
// required entries that did not resolve and of the optional ones that did not.
func resolve(bs []binding, gpa func(string) vk.Proc) (missingRequired, missingOptional []string) {
	for _, b := range bs {
		if b.resolve(gpa(b.name)) {
			continue
		}
		if b.required {
			missingRequired = append(missingRequired, b.name)
		} else {
			missingOptional = append(missingOptional, b.name)
		}
	}
	return missingRequired, missingOptional
}
