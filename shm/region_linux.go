// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build linux

package shm

import (
	"errors"

	"golang.org/x/sys/unix"
)

func create(name string, size int) (int, []byte, error) {
	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC)
	if err != nil {
		return -1, nil, err
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		_ = unix.Close(fd)
		return -1, nil, err
	}
	data, err := mmap(fd, size)
	if err != nil {
		_ = unix.Close(fd)
		return -1, nil, err
	}
	return fd, data, nil
}

func clone(fd int, data []byte) (int, []byte, error) {
	dup, err := unix.FcntlInt(uintptr(fd), unix.F_DUPFD_CLOEXEC, 0)
	if err != nil {
		return -1, nil, err
	}
	mapping, err := mmap(dup, len(data))
	if err != nil {
		_ = unix.Close(dup)
		return -1, nil, err
	}
	return dup, mapping, nil
}

func release(fd int, data []byte) error {
	var errs []error
	if data != nil {
		errs = append(errs, unix.Munmap(data))
	}
	if fd >= 0 {
		errs = append(errs, unix.Close(fd))
	}
	return errors.Join(errs...)
}

func mmap(fd, size int) ([]byte, error) {
	return unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}
