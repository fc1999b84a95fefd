// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vk

// Extension names and revisions the layer reports or requests.
const (
	KHRSurfaceExtensionName = "VK_KHR_surface"
	KHRSurfaceSpecVersion   = 25

	KHRSwapchainExtensionName = "VK_KHR_swapchain"
	KHRSwapchainSpecVersion   = 70

	KHRExternalMemoryFDExtensionName = "VK_KHR_external_memory_fd"

	EXTHeadlessSurfaceExtensionName = "VK_EXT_headless_surface"
)

// AppendExtension returns names with ext appended unless it is already
// present. The input slice is never modified.
func AppendExtension(names []string, ext string) []string {
	for _, n := range names {
		if n == ext {
			return names
		}
	}
	out := make([]string, len(names), len(names)+1)
	copy(out, names)
	return append(out, ext)
}
