// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vk

// Enumerate answers a two-call enumeration from the available set src.
//
// With a nil out it stores len(src) in *count. Otherwise it copies
// min(*count, len(out), len(src)) entries, stores the number written in
// *count and returns Incomplete when fewer than len(src) were written.
func Enumerate[T any](src []T, count *uint32, out []T) Result {
	if out == nil {
		*count = uint32(len(src))
		return Success
	}
	n := int(*count)
	if n > len(out) {
		n = len(out)
	}
	n = copy(out[:n], src)
	*count = uint32(n)
	if n < len(src) {
		return Incomplete
	}
	return Success
}
