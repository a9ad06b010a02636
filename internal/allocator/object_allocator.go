// Copyright 2015 Aleksandr Demakin. All rights reserved.

// Package allocator contains helpers to reinterpret raw mapped memory as plain go values.
package allocator

import (
	"reflect"
	"runtime"
	"unsafe"

	"github.com/pkg/errors"
)

const maxObjectSize = 128 * 1024 * 1024

// CheckPlainType checks if an object of type t can be safely placed into shared memory
// and read back by another process byte by byte.
// The type must have a fixed, platform-independent size and must not contain
// any references (pointers, slices, strings, maps and so on).
// Every bit pattern must be a valid value of the type, so bools are not allowed.
func CheckPlainType(t reflect.Type) error {
	if t == nil {
		return errors.New("nil type")
	}
	if t.Size() == 0 {
		return errors.Errorf("type %s has zero size", t)
	}
	if t.Size() > maxObjectSize {
		return errors.Errorf("type %s exceeds max object size of %d", t, maxObjectSize)
	}
	return checkType(t)
}

func checkType(t reflect.Type) error {
	switch kind := t.Kind(); kind {
	case reflect.Array:
		if err := checkType(t.Elem()); err != nil {
			return errors.Wrapf(err, "array element")
		}
		return nil
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if err := checkType(field.Type); err != nil {
				return errors.Wrapf(err, "field %s", field.Name)
			}
		}
		return nil
	default:
		return checkNumericType(kind)
	}
}

func checkNumericType(kind reflect.Kind) error {
	switch kind {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return nil
	case reflect.Int, reflect.Uint, reflect.Uintptr:
		return errors.Errorf("type %q has platform-dependent size", kind.String())
	case reflect.Bool:
		return errors.Errorf("type %q has invalid bit patterns", kind.String())
	}
	return errors.Errorf("unsupported type %q", kind.String())
}

// ByteSliceFromUnsafePointer returns a slice of bytes with given length and capacity.
// Memory pointed by the unsafe.Pointer is used for the slice.
func ByteSliceFromUnsafePointer(memory unsafe.Pointer, length, capacity int) []byte {
	if memory == nil {
		return nil
	}
	return unsafe.Slice((*byte)(memory), capacity)[:length]
}

// ByteSliceData returns a pointer to the data of the given byte slice.
func ByteSliceData(slice []byte) unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(slice))
}

// ObjectBytes returns the underlying byte representation of a plain object.
// The returned slice aliases the object.
func ObjectBytes[T any](object *T) []byte {
	size := int(unsafe.Sizeof(*object))
	return ByteSliceFromUnsafePointer(unsafe.Pointer(object), size, size)
}

// Use ensures, that p is kept live until that point.
func Use(p unsafe.Pointer) {
	runtime.KeepAlive(p)
}
