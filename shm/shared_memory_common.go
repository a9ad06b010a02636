// Copyright 2015 Aleksandr Demakin. All rights reserved.

package shm

// this is to ensure, that all implementations of shm-related structs
// satisfy the same minimal interface
var (
	_ iSharedMemoryObject = (*MemoryObject)(nil)
)

type iSharedMemoryObject interface {
	Name() string
	Size() int64
	Fd() uintptr
	Close() error
	Destroy() error
}
