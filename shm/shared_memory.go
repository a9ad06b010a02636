// Copyright 2015 Aleksandr Demakin. All rights reserved.

// Package shm implements named shared memory objects, which can be mapped into
// the address space of several processes.
//
// On unix the object is a posix shared memory object, on windows it is a file mapping
// backed by the paging file. Objects are sized once, when they are created.
package shm

import (
	"os"
	"runtime"
)

// MemoryObject represents an object which can be used to
// map shared memory regions into the process' address space.
type MemoryObject struct {
	*memoryObject
}

// Create creates a new shared memory object of the given size.
// It fails if an object with the same name already exists, os.IsExist(errors.Cause(err)) is true in this case.
//	name - a platform-qualified object name, see QualifiedName.
//	size - object size in bytes.
//	perm - file's mode and permission bits. Not used on windows.
func Create(name string, size int64, perm os.FileMode) (*MemoryObject, error) {
	impl, err := createMemoryObject(name, size, perm)
	if err != nil {
		return nil, err
	}
	return newMemoryObject(impl), nil
}

// Open opens an existing shared memory object for reading and writing.
// If the object does not exist, os.IsNotExist(errors.Cause(err)) is true.
func Open(name string) (*MemoryObject, error) {
	impl, err := openMemoryObject(name)
	if err != nil {
		return nil, err
	}
	return newMemoryObject(impl), nil
}

func newMemoryObject(impl *memoryObject) *MemoryObject {
	result := &MemoryObject{impl}
	runtime.SetFinalizer(impl, func(memObject *memoryObject) {
		memObject.Close()
	})
	return result
}

// DestroyMemoryObject permanently removes the object with the given name.
// A missing object is not an error.
func DestroyMemoryObject(name string) error {
	return destroyMemoryObject(name)
}
