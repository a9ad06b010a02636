// Copyright 2016 Aleksandr Demakin. All rights reserved.

package typedshm

import (
	"os"
	"reflect"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/nxgtw/typedshm/internal/allocator"
	"github.com/nxgtw/typedshm/mmf"
	"github.com/nxgtw/typedshm/shm"
)

const defaultPerm os.FileMode = 0666

// Config describes a segment to construct. It is consumed once by New.
type Config[T any] struct {
	// Name is the segment name shared by all processes. If empty, RandomName is used.
	Name string
	// Owner makes the segment create, initialize and finally destroy the backing object.
	// Only one segment in the whole system may be the owner for a name.
	Owner bool
	// Initial is the value written by the owner. If nil, the zero value of T is written.
	Initial *T
	// Perm is the permission bits of a new backing object on unix. 0666 is used, if zero.
	Perm os.FileMode
	// Global places the object into the global namespace on windows. Ignored on unix.
	Global bool
}

// Segment is a single value of type T placed in a named shared memory object.
//
// T must be plain data: fixed-size numbers, and arrays and structs of them.
// Pointers, strings, slices, maps, interfaces, bools and platform-sized integers are rejected by New.
//
// Access to the value is not synchronized in any way. Concurrent writes and reads from different
// processes or goroutines may observe torn values, unless the caller coordinates access.
//
// Warning. The segment has a finalizer set, so the memory will be unmapped during the gc.
// The pointer returned by Get is valid only while the segment is alive and not closed.
type Segment[T any] struct {
	name  string
	owner bool
	size  int

	obj    *shm.MemoryObject
	region *mmf.MemoryRegion
	value  atomic.Pointer[T]

	mu     sync.Mutex
	closed bool
}

// New creates or opens a backing object described by cfg and maps it.
// An owner creates a new object and writes the initial value into it. It fails, if the object exists,
// IsExist(err) is true in this case. A non-owner opens an existing object, if there is
// no such object, IsNotExist(err) is true. Any returned error is an *Error.
//
// There is no synchronization between the owner's initial write and other processes:
// non-owners must be started after the owner has returned from New.
func New[T any](cfg Config[T]) (*Segment[T], error) {
	name := cfg.Name
	if len(name) == 0 {
		name = RandomName()
	}
	qualified := shm.QualifiedName(name, cfg.Global)
	if err := allocator.CheckPlainType(reflect.TypeOf((*T)(nil)).Elem()); err != nil {
		observe("validate", err)
		return nil, newError("validate", qualified, err)
	}
	perm := cfg.Perm
	if perm == 0 {
		perm = defaultPerm
	}
	if !cfg.Owner {
		return attach[T](qualified)
	}
	if !claimOwnership(qualified) {
		observe("create", ErrAlreadyOwned)
		return nil, newError("create", qualified, ErrAlreadyOwned)
	}
	initial := cfg.Initial
	if initial == nil {
		initial = new(T)
	}
	seg, err := create(qualified, perm, initial)
	if err != nil {
		releaseOwnership(qualified)
		return nil, err
	}
	return seg, nil
}

func create[T any](name string, perm os.FileMode, initial *T) (*Segment[T], error) {
	size := int(unsafe.Sizeof(*initial))
	obj, err := shm.Create(name, int64(size), perm)
	observe("create", err)
	if err != nil {
		return nil, newError("create", name, err)
	}
	region, err := mapObject(obj, name, size)
	if err != nil {
		logCleanupError("destroy", name, obj.Destroy())
		return nil, err
	}
	// the only write performed by the library. it establishes the shared state.
	_, err = mmf.NewMemoryRegionWriter(region).WriteAt(allocator.ObjectBytes(initial), 0)
	observe("init", err)
	if err != nil {
		logCleanupError("unmap", name, region.Close())
		logCleanupError("destroy", name, obj.Destroy())
		return nil, newError("init", name, err)
	}
	return newSegment[T](name, true, obj, region), nil
}

func attach[T any](name string) (*Segment[T], error) {
	size := int(unsafe.Sizeof(*new(T)))
	obj, err := shm.Open(name)
	observe("open", err)
	if err != nil {
		return nil, newError("open", name, err)
	}
	region, err := mapObject(obj, name, size)
	if err != nil {
		logCleanupError("close", name, obj.Close())
		return nil, err
	}
	return newSegment[T](name, false, obj, region), nil
}

func mapObject(obj *shm.MemoryObject, name string, size int) (*mmf.MemoryRegion, error) {
	region, err := mmf.NewMemoryRegion(obj, size)
	observe("map", err)
	if err != nil {
		return nil, newError("map", name, err)
	}
	return region, nil
}

// logCleanupError logs a failure of a cleanup step after a failed construction.
func logCleanupError(op, name string, err error) {
	if err == nil {
		return
	}
	observe(op, err)
	currentLogger().Error().Err(err).Str("name", name).Str("op", op).Msg("cleanup after failed construction failed")
}

func newSegment[T any](name string, owner bool, obj *shm.MemoryObject, region *mmf.MemoryRegion) *Segment[T] {
	seg := &Segment[T]{
		name:   name,
		owner:  owner,
		size:   region.Size(),
		obj:    obj,
		region: region,
	}
	seg.value.Store((*T)(allocator.ByteSliceData(region.Data())))
	segmentsLive.WithLabelValues(roleLabel(owner)).Inc()
	runtime.SetFinalizer(seg, func(s *Segment[T]) {
		if err := s.Close(); err != nil && err != ErrClosed {
			currentLogger().Error().Err(err).Str("name", s.name).Msg("closing a garbage-collected segment failed")
		}
	})
	currentLogger().Debug().
		Str("name", name).
		Bool("owner", owner).
		Int("size", seg.size).
		Msg("segment mapped")
	return seg
}

// Get returns a pointer to the shared value. No copy occurs: reads and writes through
// the pointer go directly to the shared memory, and are not synchronized.
// The pointer must not be used after Close. Get returns nil for a closed segment.
func (s *Segment[T]) Get() *T {
	return s.value.Load()
}

// Data returns the raw mapped bytes of the value, or nil for a closed segment.
// The same warnings as for Get apply.
func (s *Segment[T]) Data() []byte {
	p := s.value.Load()
	if p == nil {
		return nil
	}
	return allocator.ByteSliceFromUnsafePointer(unsafe.Pointer(p), s.size, s.size)
}

// Load returns a copy of the shared value.
// It panics with ErrClosed, if the segment is closed.
func (s *Segment[T]) Load() T {
	p := s.value.Load()
	if p == nil {
		panic(ErrClosed)
	}
	return *p
}

// Store overwrites the shared value.
// It panics with ErrClosed, if the segment is closed.
func (s *Segment[T]) Store(v T) {
	p := s.value.Load()
	if p == nil {
		panic(ErrClosed)
	}
	*p = v
}

// Flush syncs the mapping with the backing object.
func (s *Segment[T]) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	err := s.region.Flush()
	observe("flush", err)
	if err != nil {
		return newError("flush", s.name, err)
	}
	return nil
}

// Name returns the platform-qualified name of the backing object.
func (s *Segment[T]) Name() string {
	return s.name
}

// Owner returns true, if the segment will destroy the backing object on Close.
func (s *Segment[T]) Owner() bool {
	return s.owner
}

// Size returns the size of the value and the mapping in bytes.
func (s *Segment[T]) Size() int {
	return s.size
}

// Clone maps the same backing object once more. The clone is never an owner,
// so the object is still destroyed only once, by the original owner.
func (s *Segment[T]) Clone() (*Segment[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return attach[T](s.name)
}

// Close unmaps the memory and closes the backing object's descriptor.
// If the segment is the owner, the backing object is destroyed, so new segments
// cannot attach to it anymore.
// All the steps are executed even if some of them fail, and the first error is returned.
// Such errors are unrecoverable, and they are also logged.
// Close returns ErrClosed, if the segment has already been closed.
func (s *Segment[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	runtime.SetFinalizer(s, nil)
	s.value.Store(nil)
	segmentsLive.WithLabelValues(roleLabel(s.owner)).Dec()

	var errs []error
	err := s.region.Close()
	observe("unmap", err)
	if err != nil {
		errs = append(errs, newError("unmap", s.name, err))
	}
	if s.owner {
		err = s.obj.Destroy()
		releaseOwnership(s.name)
		observe("destroy", err)
		if err != nil {
			errs = append(errs, newError("destroy", s.name, err))
		}
	} else {
		err = s.obj.Close()
		observe("close", err)
		if err != nil {
			errs = append(errs, newError("close", s.name, err))
		}
	}
	for _, err := range errs {
		currentLogger().Error().Err(err).Str("name", s.name).Bool("owner", s.owner).Msg("segment destruction failed")
	}
	if len(errs) > 0 {
		return errs[0]
	}
	currentLogger().Debug().Str("name", s.name).Bool("owner", s.owner).Msg("segment closed")
	return nil
}

// Destroy permanently removes a backing object by name, for example,
// if its owner has crashed and has not destroyed it.
// Mappings of the object, which exist in other processes, remain valid.
// It is not supported on windows, where objects are removed with their last handle.
func Destroy(name string) error {
	qualified := shm.QualifiedName(name, false)
	err := shm.DestroyMemoryObject(qualified)
	observe("destroy", err)
	if err != nil {
		return newError("destroy", qualified, err)
	}
	return nil
}
