// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import "errors"

// Package errors for the native driver.
var (
	// ErrBackendUnavailable is returned when the requested HAL backend is not
	// registered.
	ErrBackendUnavailable = errors.New("native: HAL backend not available")

	// ErrNoGPU is returned when the backend exposes no adapter.
	ErrNoGPU = errors.New("native: no GPU adapter available")

	// ErrNilProvider is returned when FromProvider is given a nil provider.
	ErrNilProvider = errors.New("native: nil device provider")

	// ErrNoHAL is returned when a provider does not expose HAL types.
	ErrNoHAL = errors.New("native: provider does not expose HAL device and queue")

	// ErrUnknownImage is returned for images the driver did not create or
	// that have no memory bound.
	ErrUnknownImage = errors.New("native: unknown or unbound image")

	// ErrSizeMismatch is returned when pixel data does not match the image
	// extent.
	ErrSizeMismatch = errors.New("native: pixel data does not match image extent")

	// ErrFenceTimeout is returned when a HAL submission does not complete in
	// time.
	ErrFenceTimeout = errors.New("native: timed out waiting for GPU")
)
