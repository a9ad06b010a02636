// Copyright 2016 Aleksandr Demakin. All rights reserved.

package shm

import (
	"os"
	"strings"

	sys "github.com/nxgtw/typedshm/internal/sys/windows"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

const globalPrefix = `Global\`

// memoryObject is a standart windows shm implementation backed by a paging file.
// It does not follow the usual memory object semantics, and it is destroyed only when all its handles are closed.
type memoryObject struct {
	name   string
	size   int64
	handle windows.Handle
}

// QualifiedName returns the name of the backing object for the given user-supplied name.
// On windows the name is used as is. If global is set, the object is placed into the
// global namespace, so that it is visible from other sessions.
func QualifiedName(name string, global bool) string {
	if global && !strings.HasPrefix(name, globalPrefix) {
		return globalPrefix + name
	}
	return name
}

func createMemoryObject(name string, size int64, perm os.FileMode) (*memoryObject, error) {
	maxSizeHigh := uint32(size >> 32)
	maxSizeLow := uint32(size & 0xFFFFFFFF)
	handle, err := sys.CreateFileMapping(windows.InvalidHandle, nil, windows.PAGE_READWRITE, maxSizeHigh, maxSizeLow, name)
	if err != nil {
		return nil, errors.Wrap(err, "create mapping file failed")
	}
	return &memoryObject{name: name, size: size, handle: handle}, nil
}

func openMemoryObject(name string) (*memoryObject, error) {
	handle, err := sys.OpenFileMapping(windows.FILE_MAP_READ|windows.FILE_MAP_WRITE, 0, name)
	if err != nil {
		return nil, errors.Wrap(err, "open mapping file failed")
	}
	return &memoryObject{name: name, handle: handle}, nil
}

// Name returns the name of the object as it was given to Create or Open.
func (obj *memoryObject) Name() string {
	return obj.name
}

// Fd returns mapping object's handle.
func (obj *memoryObject) Fd() uintptr {
	return uintptr(obj.handle)
}

// Size returns mapping size for created objects. For opened objects it is unknown, and 0 is returned.
func (obj *memoryObject) Size() int64 {
	return obj.size
}

// Close closes mapping object. It is safe to call it several times.
func (obj *memoryObject) Close() error {
	if obj.handle == windows.InvalidHandle {
		return nil
	}
	err := windows.CloseHandle(obj.handle)
	obj.handle = windows.InvalidHandle
	if err != nil {
		return errors.Wrap(os.NewSyscallError("CloseHandle", err), "close handle failed")
	}
	return nil
}

// Destroy closes the handle. The object itself is removed by the system,
// when there are no more opened handles for it.
func (obj *memoryObject) Destroy() error {
	return obj.Close()
}

func destroyMemoryObject(name string) error {
	return errors.New("destroy by name cannot be done on windows shared memory")
}
