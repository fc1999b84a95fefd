// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !linux

package shm

// Without memfd a region is ordinary heap memory; a clone aliases the same
// slice so that writes stay visible through both.

func create(_ string, size int) (int, []byte, error) {
	return -1, make([]byte, size), nil
}

func clone(_ int, data []byte) (int, []byte, error) {
	return -1, data, nil
}

func release(int, []byte) error {
	return nil
}
