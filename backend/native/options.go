// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"time"

	"github.com/gogpu/gputypes"
)

// DefaultFenceTimeout bounds every HAL submission the driver waits on.
const DefaultFenceTimeout = 5 * time.Second

type options struct {
	maxDimension uint32
	fenceTimeout time.Duration
	deviceName   string
}

func defaultOptions() options {
	return options{
		maxDimension: gputypes.DefaultLimits().MaxTextureDimension2D,
		fenceTimeout: DefaultFenceTimeout,
	}
}

// Option configures a Driver.
type Option func(*options)

// WithMaxImageDimension caps the width and height of images the driver
// reports as supported. Zero keeps the HAL default limit.
func WithMaxImageDimension(n uint32) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDimension = n
		}
	}
}

// WithFenceTimeout sets how long the driver waits for a HAL submission.
// Non-positive values restore DefaultFenceTimeout.
func WithFenceTimeout(d time.Duration) Option {
	return func(o *options) {
		if d <= 0 {
			d = DefaultFenceTimeout
		}
		o.fenceTimeout = d
	}
}

// WithDeviceName sets the name reported in the physical device properties.
// Open defaults it to the adapter name.
func WithDeviceName(name string) Option {
	return func(o *options) { o.deviceName = name }
}
