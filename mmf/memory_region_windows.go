// Copyright 2015 Aleksandr Demakin. All rights reserved.

package mmf

import (
	"os"
	"unsafe"

	"github.com/nxgtw/typedshm/internal/allocator"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

type memoryRegion struct {
	data []byte
	size int
}

// newMemoryRegion maps a view of the file mapping object, which handle is returned by obj.Fd().
func newMemoryRegion(obj Mappable, size int) (*memoryRegion, error) {
	handle := windows.Handle(obj.Fd())
	if handle == windows.InvalidHandle || handle == 0 {
		return nil, errors.Errorf("object %q has invalid handle", obj.Name())
	}
	addr, err := windows.MapViewOfFile(handle, windows.FILE_MAP_READ|windows.FILE_MAP_WRITE, 0, 0, uintptr(size))
	if err != nil {
		return nil, errors.Wrap(os.NewSyscallError("MapViewOfFile", err), "mmap failed")
	}
	return &memoryRegion{
		data: allocator.ByteSliceFromUnsafePointer(unsafe.Pointer(addr), size, size),
		size: size,
	}, nil
}

func (region *memoryRegion) Close() error {
	if region.data == nil {
		return nil
	}
	err := windows.UnmapViewOfFile(uintptr(allocator.ByteSliceData(region.data)))
	region.data = nil
	region.size = 0
	if err != nil {
		return errors.Wrap(os.NewSyscallError("UnmapViewOfFile", err), "munmap failed")
	}
	return nil
}

func (region *memoryRegion) Data() []byte {
	return region.data
}

func (region *memoryRegion) Size() int {
	return region.size
}

func (region *memoryRegion) Flush() error {
	if region.data == nil {
		return errors.New("region is closed")
	}
	err := windows.FlushViewOfFile(uintptr(allocator.ByteSliceData(region.data)), uintptr(len(region.data)))
	if err != nil {
		return errors.Wrap(os.NewSyscallError("FlushViewOfFile", err), "flush failed")
	}
	return nil
}
