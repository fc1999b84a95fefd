// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vk

// StructureType tags a node of an extension chain.
type StructureType int32

// Node types the layer creates or looks for.
const (
	StructureTypeLoaderInstanceCreateInfo    StructureType = 47
	StructureTypeLoaderDeviceCreateInfo      StructureType = 48
	StructureTypeImportMemoryFDInfo          StructureType = 1000074000
	StructureTypeMemoryDedicatedAllocateInfo StructureType = 1000127001
	StructureTypeImportMemoryHostPointerInfo StructureType = 1000178000
)

// Chainable is a node of a typed extension chain. The chain ends at a nil
// interface value; a typed nil pointer is not a valid terminator.
type Chainable interface {
	StructureType() StructureType
	NextInChain() Chainable
}

// Walk calls fn for every node of the chain starting at head, stopping early
// when fn returns false.
func Walk(head Chainable, fn func(Chainable) bool) {
	for node := head; node != nil; node = node.NextInChain() {
		if !fn(node) {
			return
		}
	}
}

// LayerFunction selects the purpose of a loader create info node.
type LayerFunction int32

// Loader node purposes.
const (
	LayerLinkInfo      LayerFunction = 0
	LoaderDataCallback LayerFunction = 1
)

// LayerInstanceLink is one element of the instance layer list. Each layer
// finds its own element at the head of the list.
type LayerInstanceLink struct {
	Next                    *LayerInstanceLink
	NextGetInstanceProcAddr GetInstanceProcAddrFunc
}

// LayerInstanceCreateInfo is the loader's instance negotiation node.
type LayerInstanceCreateInfo struct {
	Next      Chainable
	Function  LayerFunction
	LayerInfo *LayerInstanceLink
}

// StructureType implements Chainable.
func (*LayerInstanceCreateInfo) StructureType() StructureType {
	return StructureTypeLoaderInstanceCreateInfo
}

// NextInChain implements Chainable.
func (c *LayerInstanceCreateInfo) NextInChain() Chainable { return c.Next }

// Advance removes the head of the layer list so that the next link finds its
// own element there. A layer calls it exactly once, before forwarding create.
func (c *LayerInstanceCreateInfo) Advance() {
	if c.LayerInfo != nil {
		c.LayerInfo = c.LayerInfo.Next
	}
}

// LayerDeviceLink is one element of the device layer list.
type LayerDeviceLink struct {
	Next                    *LayerDeviceLink
	NextGetInstanceProcAddr GetInstanceProcAddrFunc
	NextGetDeviceProcAddr   GetDeviceProcAddrFunc
}

// LayerDeviceCreateInfo is the loader's device negotiation node.
type LayerDeviceCreateInfo struct {
	Next      Chainable
	Function  LayerFunction
	LayerInfo *LayerDeviceLink
}

// StructureType implements Chainable.
func (*LayerDeviceCreateInfo) StructureType() StructureType {
	return StructureTypeLoaderDeviceCreateInfo
}

// NextInChain implements Chainable.
func (c *LayerDeviceCreateInfo) NextInChain() Chainable { return c.Next }

// Advance removes the head of the layer list.
func (c *LayerDeviceCreateInfo) Advance() {
	if c.LayerInfo != nil {
		c.LayerInfo = c.LayerInfo.Next
	}
}

// FindLayerInstanceLink returns the first link-info node of the chain that
// still has a layer element, or nil.
func FindLayerInstanceLink(head Chainable) *LayerInstanceCreateInfo {
	var found *LayerInstanceCreateInfo
	Walk(head, func(node Chainable) bool {
		if info, ok := node.(*LayerInstanceCreateInfo); ok && info.Function == LayerLinkInfo && info.LayerInfo != nil {
			found = info
			return false
		}
		return true
	})
	return found
}

// FindLayerDeviceLink returns the first link-info node of the chain that
// still has a layer element, or nil.
func FindLayerDeviceLink(head Chainable) *LayerDeviceCreateInfo {
	var found *LayerDeviceCreateInfo
	Walk(head, func(node Chainable) bool {
		if info, ok := node.(*LayerDeviceCreateInfo); ok && info.Function == LayerLinkInfo && info.LayerInfo != nil {
			found = info
			return false
		}
		return true
	})
	return found
}

// MemoryDedicatedAllocateInfo ties an allocation to a single image.
type MemoryDedicatedAllocateInfo struct {
	Next  Chainable
	Image Image
}

// StructureType implements Chainable.
func (*MemoryDedicatedAllocateInfo) StructureType() StructureType {
	return StructureTypeMemoryDedicatedAllocateInfo
}

// NextInChain implements Chainable.
func (c *MemoryDedicatedAllocateInfo) NextInChain() Chainable { return c.Next }

// ImportMemoryHostPointerInfo backs an allocation with existing host memory.
type ImportMemoryHostPointerInfo struct {
	Next        Chainable
	HandleType  ExternalMemoryHandleTypeFlags
	HostPointer []byte
}

// StructureType implements Chainable.
func (*ImportMemoryHostPointerInfo) StructureType() StructureType {
	return StructureTypeImportMemoryHostPointerInfo
}

// NextInChain implements Chainable.
func (c *ImportMemoryHostPointerInfo) NextInChain() Chainable { return c.Next }

// ImportMemoryFDInfo backs an allocation with a file descriptor.
type ImportMemoryFDInfo struct {
	Next       Chainable
	HandleType ExternalMemoryHandleTypeFlags
	FD         int
}

// StructureType implements Chainable.
func (*ImportMemoryFDInfo) StructureType() StructureType {
	return StructureTypeImportMemoryFDInfo
}

// NextInChain implements Chainable.
func (c *ImportMemoryFDInfo) NextInChain() Chainable { return c.Next }

// FindInChain returns the first node of type T in the chain.
func FindInChain[T Chainable](head Chainable) (T, bool) {
	var found T
	ok := false
	Walk(head, func(node Chainable) bool {
		if v, match := node.(T); match {
			found, ok = v, true
			return false
		}
		return true
	})
	return found, ok
}
