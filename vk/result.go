// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vk

import (
	"errors"
	"strconv"
)

// Result is a Vulkan result code. Negative values are errors, zero is success
// and positive values are non-fatal status codes.
//
// Result implements error so that it can travel through fmt.Errorf wrapping
// and be recovered with [ResultOf]. Use [Result.Err] to turn a code returned
// by a driver call into a Go error: status codes become nil.
type Result int32

// Result codes used by the layer.
const (
	Success    Result = 0
	NotReady   Result = 1
	Timeout    Result = 2
	Incomplete Result = 5
	Suboptimal Result = 1000001003

	ErrorOutOfHostMemory      Result = -1
	ErrorOutOfDeviceMemory    Result = -2
	ErrorInitializationFailed Result = -3
	ErrorDeviceLost           Result = -4
	ErrorMemoryMapFailed      Result = -5
	ErrorLayerNotPresent      Result = -6
	ErrorExtensionNotPresent  Result = -7
	ErrorFormatNotSupported   Result = -11
	ErrorUnknown              Result = -13
	ErrorSurfaceLost          Result = -1000000000
	ErrorNativeWindowInUse    Result = -1000000001
	ErrorOutOfDate            Result = -1000001004
	ErrorValidationFailed     Result = -1000011001
)

var resultNames = map[Result]string{
	Success:                   "VK_SUCCESS",
	NotReady:                  "VK_NOT_READY",
	Timeout:                   "VK_TIMEOUT",
	Incomplete:                "VK_INCOMPLETE",
	Suboptimal:                "VK_SUBOPTIMAL_KHR",
	ErrorOutOfHostMemory:      "VK_ERROR_OUT_OF_HOST_MEMORY",
	ErrorOutOfDeviceMemory:    "VK_ERROR_OUT_OF_DEVICE_MEMORY",
	ErrorInitializationFailed: "VK_ERROR_INITIALIZATION_FAILED",
	ErrorDeviceLost:           "VK_ERROR_DEVICE_LOST",
	ErrorMemoryMapFailed:      "VK_ERROR_MEMORY_MAP_FAILED",
	ErrorLayerNotPresent:      "VK_ERROR_LAYER_NOT_PRESENT",
	ErrorExtensionNotPresent:  "VK_ERROR_EXTENSION_NOT_PRESENT",
	ErrorFormatNotSupported:   "VK_ERROR_FORMAT_NOT_SUPPORTED",
	ErrorUnknown:              "VK_ERROR_UNKNOWN",
	ErrorSurfaceLost:          "VK_ERROR_SURFACE_LOST_KHR",
	ErrorNativeWindowInUse:    "VK_ERROR_NATIVE_WINDOW_IN_USE_KHR",
	ErrorOutOfDate:            "VK_ERROR_OUT_OF_DATE_KHR",
	ErrorValidationFailed:     "VK_ERROR_VALIDATION_FAILED_EXT",
}

// String returns the Vulkan spelling of the code.
func (r Result) String() string {
	if s, ok := resultNames[r]; ok {
		return s
	}
	return "VkResult(" + strconv.Itoa(int(r)) + ")"
}

// Error implements error.
func (r Result) Error() string {
	return "vk: " + r.String()
}

// IsError reports whether r is an error code.
func (r Result) IsError() bool {
	return r < 0
}

// Err returns r as an error when it is an error code and nil otherwise.
func (r Result) Err() error {
	if r < 0 {
		return r
	}
	return nil
}

// ResultOf maps an error back to a Result.
// A nil error is Success; an error that does not wrap a Result is ErrorUnknown.
func ResultOf(err error) Result {
	if err == nil {
		return Success
	}
	var r Result
	if errors.As(err, &r) {
		return r
	}
	return ErrorUnknown
}
