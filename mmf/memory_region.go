// Copyright 2015 Aleksandr Demakin. All rights reserved.

// Package mmf maps shared memory objects into the process' address space.
package mmf

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
)

// MemoryRegion is a mmapped area of a memory object.
// Warning. The internal object has a finalizer set,
// so the region will be unmapped during the gc.
// Thus, you should be carefull getting internal data.
// For example, the following code may crash:
//	func f() {
//		region := NewMemoryRegion(...)
//		return g(region.Data())
//	}
// region may be gc'ed while its data is used by g().
// To avoid this, keep a reference to the region, or use region readers/writers.
type MemoryRegion struct {
	*memoryRegion
}

// Mappable is a named object, which can return a handle,
// that can be used as a file descriptor for mmap.
type Mappable interface {
	Fd() uintptr
	Name() string
}

// NewMemoryRegion creates a new shared read-write mapping of the first size bytes of the object.
// If the object's size is known and is less than size, an error is returned.
func NewMemoryRegion(object Mappable, size int) (*MemoryRegion, error) {
	if size <= 0 {
		return nil, errors.Errorf("invalid mapping length %d", size)
	}
	objSize, known, err := objectSize(object)
	if err != nil {
		return nil, errors.Wrap(err, "object size check failed")
	}
	// you can actually mmap more bytes, than the size of the object,
	// which can cause SIGBUS on access.
	if known && int64(size) > objSize {
		return nil, errors.Errorf("invalid mapping length: object size is %d, requested %d", objSize, size)
	}
	impl, err := newMemoryRegion(object, size)
	if err != nil {
		return nil, err
	}
	result := &MemoryRegion{impl}
	runtime.SetFinalizer(impl, func(region *memoryRegion) {
		region.Close()
	})
	return result, nil
}

// Close unmaps the regions so that it cannot be longer used.
// It is safe to call it several times.
func (region *MemoryRegion) Close() error {
	return region.memoryRegion.Close()
}

// Data returns region's mapped data, or nil, if the region was closed.
// This function can be dangerous, as the returned slice becomes invalid after Close.
func (region *MemoryRegion) Data() []byte {
	return region.memoryRegion.Data()
}

// Flush syncs mapped content with the object data.
func (region *MemoryRegion) Flush() error {
	return region.memoryRegion.Flush()
}

// Size returns mapping size.
func (region *MemoryRegion) Size() int {
	return region.memoryRegion.Size()
}

type sizer interface {
	Size() int64
}

type fileInfoGetter interface {
	Stat() (os.FileInfo, error)
}

// objectSize returns object's size and whether it is known.
// A stat-able object always has a known size, even if it is 0.
// For other objects with a Size method 0 means unknown.
func objectSize(object Mappable) (int64, bool, error) {
	switch typed := object.(type) {
	case fileInfoGetter:
		fi, err := typed.Stat()
		if err != nil {
			return 0, false, err
		}
		return fi.Size(), true, nil
	case sizer:
		size := typed.Size()
		return size, size > 0, nil
	}
	return 0, false, nil
}
