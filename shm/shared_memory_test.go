// Copyright 2016 Aleksandr Demakin. All rights reserved.

package shm

import (
	"os"
	"runtime"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testObjectName = "go-typedshm-shm-test"
	testObjectSize = 1024
)

func testName() string {
	return QualifiedName(testObjectName, false)
}

func TestQualifiedName(t *testing.T) {
	if runtime.GOOS == "windows" {
		assert.Equal(t, "obj", QualifiedName("obj", false))
		assert.Equal(t, `Global\obj`, QualifiedName("obj", true))
		assert.Equal(t, `Global\obj`, QualifiedName(`Global\obj`, true))
	} else {
		assert.Equal(t, "/shmem_obj", QualifiedName("obj", false))
		assert.Equal(t, "/shmem_obj", QualifiedName("obj", true))
	}
}

func TestCreateMemoryObject(t *testing.T) {
	DestroyMemoryObject(testName())
	obj, err := Create(testName(), testObjectSize, 0666)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, obj.Destroy())
	}()
	assert.Equal(t, testName(), obj.Name())
	assert.GreaterOrEqual(t, obj.Size(), int64(testObjectSize))
}

func TestCreateExistingMemoryObject(t *testing.T) {
	DestroyMemoryObject(testName())
	obj, err := Create(testName(), testObjectSize, 0666)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, obj.Destroy())
	}()
	_, err = Create(testName(), testObjectSize, 0666)
	if assert.Error(t, err) {
		assert.True(t, os.IsExist(errors.Cause(err)))
		assert.False(t, os.IsNotExist(errors.Cause(err)))
	}
	// the first object must be still usable.
	opened, err := Open(testName())
	if assert.NoError(t, err) {
		assert.NoError(t, opened.Close())
	}
}

func TestOpenMissingMemoryObject(t *testing.T) {
	DestroyMemoryObject(testName())
	_, err := Open(testName())
	if assert.Error(t, err) {
		assert.True(t, os.IsNotExist(errors.Cause(err)))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	}
}

func TestDestroyMemoryObject(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("objects are destroyed with their last handle on windows")
	}
	DestroyMemoryObject(testName())
	obj, err := Create(testName(), testObjectSize, 0666)
	require.NoError(t, err)
	assert.NoError(t, obj.Close())
	opened, err := Open(testName())
	require.NoError(t, err)
	assert.NoError(t, opened.Close())
	assert.NoError(t, DestroyMemoryObject(testName()))
	_, err = Open(testName())
	assert.True(t, os.IsNotExist(errors.Cause(err)))
	assert.NoError(t, DestroyMemoryObject(testName()))
}

func TestCloseMemoryObjectTwice(t *testing.T) {
	DestroyMemoryObject(testName())
	obj, err := Create(testName(), testObjectSize, 0666)
	require.NoError(t, err)
	assert.NoError(t, obj.Close())
	assert.NoError(t, obj.Close())
	DestroyMemoryObject(testName())
}
