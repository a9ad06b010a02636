// Copyright 2015 Aleksandr Demakin. All rights reserved.

//go:build darwin || freebsd || linux
// +build darwin freebsd linux

package mmf

import (
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

type memoryRegion struct {
	data mmap.MMap
	size int
}

// fileGetter is implemented by objects, which are backed by an *os.File.
type fileGetter interface {
	File() *os.File
}

func newMemoryRegion(obj Mappable, size int) (*memoryRegion, error) {
	var file *os.File
	switch typed := obj.(type) {
	case *os.File:
		file = typed
	case fileGetter:
		file = typed.File()
	default:
		return nil, errors.Errorf("object %q is not backed by a file", obj.Name())
	}
	data, err := mmap.MapRegion(file, size, mmap.RDWR, 0, 0)
	if err != nil {
		return nil, errors.Wrap(err, "mmap failed")
	}
	return &memoryRegion{data: data, size: size}, nil
}

func (region *memoryRegion) Close() error {
	if region.data == nil {
		return nil
	}
	err := region.data.Unmap()
	region.data = nil
	region.size = 0
	if err != nil {
		return errors.Wrap(err, "munmap failed")
	}
	return nil
}

func (region *memoryRegion) Data() []byte {
	return region.data
}

func (region *memoryRegion) Flush() error {
	if region.data == nil {
		return errors.New("region is closed")
	}
	if err := region.data.Flush(); err != nil {
		return errors.Wrap(err, "msync failed")
	}
	return nil
}

func (region *memoryRegion) Size() int {
	return region.size
}
