// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vk

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestResultErr(t *testing.T) {
	tests := []struct {
		r       Result
		wantErr bool
	}{
		{Success, false},
		{NotReady, false},
		{Incomplete, false},
		{Suboptimal, false},
		{ErrorOutOfDate, true},
		{ErrorNativeWindowInUse, true},
		{ErrorInitializationFailed, true},
	}
	for _, tt := range tests {
		t.Run(tt.r.String(), func(t *testing.T) {
			err := tt.r.Err()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Err() = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.r.IsError() != tt.wantErr {
				t.Errorf("IsError() = %v, want %v", tt.r.IsError(), tt.wantErr)
			}
		})
	}
}

func TestResultOf(t *testing.T) {
	wrapped := fmt.Errorf("swapchain: create fence: %w", ErrorOutOfDeviceMemory)
	if got := ResultOf(wrapped); got != ErrorOutOfDeviceMemory {
		t.Errorf("ResultOf(wrapped) = %v, want %v", got, ErrorOutOfDeviceMemory)
	}
	if got := ResultOf(nil); got != Success {
		t.Errorf("ResultOf(nil) = %v, want %v", got, Success)
	}
	if got := ResultOf(errors.New("plain")); got != ErrorUnknown {
		t.Errorf("ResultOf(plain) = %v, want %v", got, ErrorUnknown)
	}
	if !errors.Is(wrapped, ErrorOutOfDeviceMemory) {
		t.Error("errors.Is should see the wrapped result")
	}
}

func TestResultString(t *testing.T) {
	if got := ErrorOutOfDate.String(); got != "VK_ERROR_OUT_OF_DATE_KHR" {
		t.Errorf("String() = %q", got)
	}
	if got := Result(12345).String(); got != "VkResult(12345)" {
		t.Errorf("String() = %q", got)
	}
	if got := ErrorDeviceLost.Error(); got != "vk: VK_ERROR_DEVICE_LOST" {
		t.Errorf("Error() = %q", got)
	}
}

// TestEnumerateTwoCall checks the count/Incomplete contract for every
// capacity around the available size.
func TestEnumerateTwoCall(t *testing.T) {
	src := []PresentMode{PresentModeFIFO, PresentModeFIFORelaxed, PresentModeMailbox}

	var count uint32
	if r := Enumerate(src, &count, nil); r != Success || count != 3 {
		t.Fatalf("count query = (%v, %d), want (Success, 3)", r, count)
	}

	for capacity := 0; capacity <= 5; capacity++ {
		t.Run(fmt.Sprintf("cap%d", capacity), func(t *testing.T) {
			out := make([]PresentMode, capacity)
			n := uint32(capacity)
			r := Enumerate(src, &n, out)

			wantN := min(capacity, len(src))
			if int(n) != wantN {
				t.Errorf("written = %d, want %d", n, wantN)
			}
			want := Success
			if capacity < len(src) {
				want = Incomplete
			}
			if r != want {
				t.Errorf("result = %v, want %v", r, want)
			}
			for i := 0; i < wantN; i++ {
				if out[i] != src[i] {
					t.Errorf("out[%d] = %v, want %v", i, out[i], src[i])
				}
			}
		})
	}
}

func TestEnumerateCapacityClampedToSlice(t *testing.T) {
	src := []uint32{1, 2, 3}
	out := make([]uint32, 2)
	n := uint32(10)
	if r := Enumerate(src, &n, out); r != Incomplete || n != 2 {
		t.Errorf("Enumerate = (%v, %d), want (Incomplete, 2)", r, n)
	}
}

func TestFindLayerInstanceLinkAndAdvance(t *testing.T) {
	below := &LayerInstanceLink{}
	self := &LayerInstanceLink{Next: below}
	link := &LayerInstanceCreateInfo{Function: LayerLinkInfo, LayerInfo: self}
	callback := &LayerInstanceCreateInfo{Function: LoaderDataCallback, Next: link}
	dedicated := &MemoryDedicatedAllocateInfo{Next: callback}

	found := FindLayerInstanceLink(dedicated)
	if found != link {
		t.Fatalf("FindLayerInstanceLink = %p, want %p", found, link)
	}

	found.Advance()
	if link.LayerInfo != below {
		t.Error("Advance should leave the next layer's element at the head")
	}

	found.Advance()
	if FindLayerInstanceLink(dedicated) != nil {
		t.Error("a node with an exhausted layer list should not be found")
	}
}

func TestFindLayerDeviceLinkMissing(t *testing.T) {
	if FindLayerDeviceLink(nil) != nil {
		t.Error("empty chain should yield nil")
	}
	chain := &LayerDeviceCreateInfo{Function: LoaderDataCallback, LayerInfo: &LayerDeviceLink{}}
	if FindLayerDeviceLink(chain) != nil {
		t.Error("non-link node should be skipped")
	}
}

func TestFindInChain(t *testing.T) {
	host := &ImportMemoryHostPointerInfo{HandleType: ExternalMemoryHandleTypeHostAllocation}
	head := &MemoryDedicatedAllocateInfo{Image: 7, Next: host}

	got, ok := FindInChain[*ImportMemoryHostPointerInfo](head)
	if !ok || got != host {
		t.Fatalf("FindInChain = (%p, %v), want (%p, true)", got, ok, host)
	}
	if _, ok := FindInChain[*ImportMemoryFDInfo](head); ok {
		t.Error("absent node type should not be found")
	}
}

func TestProcAs(t *testing.T) {
	var p Proc = QueueWaitIdleFunc(func(Queue) Result { return Success })
	if _, ok := ProcAs[QueueWaitIdleFunc](p); !ok {
		t.Error("matching type should convert")
	}
	if _, ok := ProcAs[EndCommandBufferFunc](p); ok {
		t.Error("different type should not convert")
	}
	if _, ok := ProcAs[QueueWaitIdleFunc](nil); ok {
		t.Error("nil should not convert")
	}
}

func TestEnumerateInstanceExtensionPropertiesChain(t *testing.T) {
	var chain *EnumerateInstanceExtensionPropertiesChain
	var n uint32 = 4
	if r := chain.CallDown("", &n, nil); r != Success || n != 0 {
		t.Errorf("nil chain = (%v, %d), want (Success, 0)", r, n)
	}
	if r := chain.CallDown("VK_LAYER_other", &n, nil); r != ErrorLayerNotPresent {
		t.Errorf("nil chain named = %v, want %v", r, ErrorLayerNotPresent)
	}

	called := ""
	chain = &EnumerateInstanceExtensionPropertiesChain{
		Next: func(layerName string, count *uint32, out []ExtensionProperties) Result {
			called = layerName
			*count = 1
			return Success
		},
	}
	if r := chain.CallDown("VK_LAYER_other", &n, nil); r != Success || called != "VK_LAYER_other" || n != 1 {
		t.Errorf("CallDown = (%v, %q, %d)", r, called, n)
	}
}

func TestFormatConversions(t *testing.T) {
	tests := []struct {
		f    Format
		tf   gputypes.TextureFormat
		back Format
		bpp  int
	}{
		{FormatB8G8R8A8Unorm, gputypes.TextureFormatBGRA8Unorm, FormatB8G8R8A8Unorm, 4},
		{FormatB8G8R8A8Srgb, gputypes.TextureFormatBGRA8Unorm, FormatB8G8R8A8Unorm, 4},
		{FormatR8G8B8A8Unorm, gputypes.TextureFormatRGBA8Unorm, FormatR8G8B8A8Unorm, 4},
		{FormatR8Unorm, gputypes.TextureFormatR8Unorm, FormatR8Unorm, 1},
		{Format(100), gputypes.TextureFormatUndefined, FormatUndefined, 0},
	}
	for _, tt := range tests {
		if got := tt.f.TextureFormat(); got != tt.tf {
			t.Errorf("%d.TextureFormat() = %v, want %v", tt.f, got, tt.tf)
		}
		if got := FormatFromTexture(tt.tf); got != tt.back {
			t.Errorf("FormatFromTexture(%v) = %d, want %d", tt.tf, got, tt.back)
		}
		if got := tt.f.BytesPerPixel(); got != tt.bpp {
			t.Errorf("%d.BytesPerPixel() = %d, want %d", tt.f, got, tt.bpp)
		}
	}
}

func TestImageUsageTextureUsage(t *testing.T) {
	u := ImageUsageTransferSrc | ImageUsageColorAttachment
	got := u.TextureUsage()
	want := gputypes.TextureUsageCopySrc | gputypes.TextureUsageRenderAttachment
	if got != want {
		t.Errorf("TextureUsage() = %v, want %v", got, want)
	}
	if ImageUsageFlags(0).TextureUsage() != 0 {
		t.Error("no usage should map to no usage")
	}
}

func TestAppendExtension(t *testing.T) {
	names := make([]string, 1, 4)
	names[0] = KHRSwapchainExtensionName

	got := AppendExtension(names, KHRExternalMemoryFDExtensionName)
	if len(got) != 2 || got[1] != KHRExternalMemoryFDExtensionName {
		t.Fatalf("AppendExtension = %v", got)
	}
	if len(names) != 1 || names[:2][1] != "" {
		t.Error("AppendExtension must not write into the caller's backing array")
	}

	again := AppendExtension(got, KHRExternalMemoryFDExtensionName)
	if len(again) != 2 {
		t.Errorf("duplicate append produced %v", again)
	}
	if got := AppendExtension(nil, KHRSurfaceExtensionName); len(got) != 1 {
		t.Errorf("AppendExtension(nil) = %v", got)
	}
}
