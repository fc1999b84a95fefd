// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vk

import "github.com/gogpu/gputypes"

// TextureFormat returns the WebGPU texture format with the same texel layout,
// or TextureFormatUndefined when there is none.
func (f Format) TextureFormat() gputypes.TextureFormat {
	switch f {
	case FormatR8Unorm:
		return gputypes.TextureFormatR8Unorm
	case FormatR8G8B8A8Unorm, FormatR8G8B8A8Srgb:
		return gputypes.TextureFormatRGBA8Unorm
	case FormatB8G8R8A8Unorm, FormatB8G8R8A8Srgb:
		return gputypes.TextureFormatBGRA8Unorm
	case FormatD24UnormS8Uint:
		return gputypes.TextureFormatDepth24PlusStencil8
	}
	return gputypes.TextureFormatUndefined
}

// FormatFromTexture maps a WebGPU texture format back to a Format.
func FormatFromTexture(tf gputypes.TextureFormat) Format {
	switch tf {
	case gputypes.TextureFormatR8Unorm:
		return FormatR8Unorm
	case gputypes.TextureFormatRGBA8Unorm:
		return FormatR8G8B8A8Unorm
	case gputypes.TextureFormatBGRA8Unorm:
		return FormatB8G8R8A8Unorm
	case gputypes.TextureFormatDepth24PlusStencil8:
		return FormatD24UnormS8Uint
	}
	return FormatUndefined
}

// TextureUsage maps image usage bits to WebGPU texture usage bits. Storage
// and input attachments have no direct counterpart and map to binding use.
func (u ImageUsageFlags) TextureUsage() gputypes.TextureUsage {
	var out gputypes.TextureUsage
	if u&ImageUsageTransferSrc != 0 {
		out |= gputypes.TextureUsageCopySrc
	}
	if u&ImageUsageTransferDst != 0 {
		out |= gputypes.TextureUsageCopyDst
	}
	if u&(ImageUsageSampled|ImageUsageStorage|ImageUsageInputAttachment) != 0 {
		out |= gputypes.TextureUsageTextureBinding
	}
	if u&(ImageUsageColorAttachment|ImageUsageDepthStencilAttachment) != 0 {
		out |= gputypes.TextureUsageRenderAttachment
	}
	return out
}
