// Copyright 2015 Aleksandr Demakin. All rights reserved.

//go:build darwin || freebsd
// +build darwin freebsd

package shm

import (
	"os"
	"syscall"
	"unsafe"

	"github.com/nxgtw/typedshm/internal/allocator"

	"golang.org/x/sys/unix"
)

func doDestroyMemoryObject(name string) error {
	err := shm_unlink(name)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func shmOpen(name string, flag int, perm os.FileMode) (*os.File, error) {
	flag |= unix.O_CLOEXEC
	fd, err := shm_open(name, flag, int(perm))
	if err != nil {
		return nil, err
	}
	return os.NewFile(fd, name), nil
}

// syscalls

func shm_open(name string, flags, mode int) (uintptr, error) {
	nameBytes, err := unix.BytePtrFromString(name)
	if err != nil {
		return 0, err
	}
	bytes := unsafe.Pointer(nameBytes)
	fd, _, errno := unix.Syscall(unix.SYS_SHM_OPEN, uintptr(bytes), uintptr(flags), uintptr(mode))
	allocator.Use(bytes)
	if errno != syscall.Errno(0) {
		if errno == unix.ENOENT || errno == unix.EEXIST {
			return 0, &os.PathError{Path: name, Op: "shm_open", Err: errno}
		}
		return 0, os.NewSyscallError("shm_open", errno)
	}
	return fd, nil
}

func shm_unlink(name string) error {
	nameBytes, err := unix.BytePtrFromString(name)
	if err != nil {
		return err
	}
	bytes := unsafe.Pointer(nameBytes)
	_, _, errno := unix.Syscall(unix.SYS_SHM_UNLINK, uintptr(bytes), uintptr(0), uintptr(0))
	allocator.Use(bytes)
	if errno != syscall.Errno(0) {
		if errno == unix.ENOENT {
			return &os.PathError{Path: name, Op: "shm_unlink", Err: errno}
		}
		return os.NewSyscallError("shm_unlink", errno)
	}
	return nil
}
