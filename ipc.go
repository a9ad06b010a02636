// Copyright 2016 Aleksandr Demakin. All rights reserved.

package typedshm

import (
	"github.com/nxgtw/typedshm/shm"
)

// Destroyer is an object which can be permanently removed.
type Destroyer interface {
	Destroy() error
}

// Accessor gives unsynchronized access to a value of type T placed in shared memory.
type Accessor[T any] interface {
	Get() *T
	Load() T
	Store(v T)
	Close() error
}

var (
	_ Accessor[uint64] = (*Segment[uint64])(nil)
	_ Destroyer        = (*shm.MemoryObject)(nil)
)
