// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build windows
// +build windows

// Package sys contains raw windows syscalls, which are missing in golang.org/x/sys/windows,
// or which behave differently there.
package sys

import (
	"os"
	"unsafe"

	"github.com/nxgtw/typedshm/internal/allocator"

	"golang.org/x/sys/windows"
)

var (
	modkernel32           = windows.NewLazySystemDLL("kernel32.dll")
	procOpenFileMapping   = modkernel32.NewProc("OpenFileMappingW")
	procCreateFileMapping = modkernel32.NewProc("CreateFileMappingW")
)

// OpenFileMapping is a wrapper for windows syscall.
// If the object does not exist, it returns *os.PathError wrapping ERROR_FILE_NOT_FOUND.
func OpenFileMapping(access uint32, inheritHandle uint32, name string) (windows.Handle, error) {
	namep, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, err
	}
	nameu := unsafe.Pointer(namep)
	r1, _, err := procOpenFileMapping.Call(uintptr(access), uintptr(inheritHandle), uintptr(nameu))
	allocator.Use(nameu)
	if r1 == 0 {
		if err == windows.ERROR_FILE_NOT_FOUND {
			return 0, &os.PathError{Path: name, Op: "OpenFileMapping", Err: err}
		}
		return 0, os.NewSyscallError("OpenFileMapping", err)
	}
	return windows.Handle(r1), nil
}

// CreateFileMapping is a wrapper for windows syscall.
// We cannot use a call from golang.org/x/sys/windows, because it returns nil error, if the syscall returned a valid handle.
// However, CreateFileMapping may return a valid handle along with ERROR_ALREADY_EXISTS, and in this case
// we cannot find out, if the object existed before.
// Here, if the object already exists, the handle is closed and *os.PathError wrapping ERROR_ALREADY_EXISTS is returned.
func CreateFileMapping(fhandle windows.Handle, sa *windows.SecurityAttributes, prot uint32, maxSizeHigh uint32, maxSizeLow uint32, name string) (windows.Handle, error) {
	var namep *uint16
	var err error
	if len(name) > 0 {
		if namep, err = windows.UTF16PtrFromString(name); err != nil {
			return 0, err
		}
	}
	nameu := unsafe.Pointer(namep)
	sau := unsafe.Pointer(sa)
	r1, _, err := procCreateFileMapping.Call(uintptr(fhandle), uintptr(sau), uintptr(prot), uintptr(maxSizeHigh), uintptr(maxSizeLow), uintptr(nameu))
	allocator.Use(sau)
	allocator.Use(nameu)
	if r1 == 0 {
		if err == windows.ERROR_ALREADY_EXISTS {
			return 0, &os.PathError{Path: name, Op: "CreateFileMapping", Err: err}
		}
		return 0, os.NewSyscallError("CreateFileMapping", err)
	}
	if err == windows.ERROR_ALREADY_EXISTS {
		windows.CloseHandle(windows.Handle(r1))
		return 0, &os.PathError{Path: name, Op: "CreateFileMapping", Err: err}
	}
	return windows.Handle(r1), nil
}
