// Copyright 2016 Aleksandr Demakin. All rights reserved.

package typedshm

import (
	"strconv"
	"strings"
	"testing"

	testutil "github.com/nxgtw/typedshm/internal/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shmctlProg = "./cmd/shmctl"

func argsForShmctl(name, command string, args ...string) []string {
	return append([]string{shmctlProg, "-object=" + name, command}, args...)
}

func runShmctl(t *testing.T, name, command string, args ...string) testutil.TestAppResult {
	if testing.Short() {
		t.Skip("skipping multi-process test in short mode")
	}
	return testutil.RunTestApp(argsForShmctl(name, command, args...), nil)
}

func TestMultiProcessRead(t *testing.T) {
	name := testSegmentName(t)
	initial := uint64(10)
	owner := newOwner(t, name, &initial)
	defer owner.Close()
	result := runShmctl(t, name, "test", "10")
	assert.NoError(t, result.Err, result.Output)
	result = runShmctl(t, name, "test", "11")
	assert.Error(t, result.Err)
}

func TestMultiProcessWrite(t *testing.T) {
	name := testSegmentName(t)
	owner := newOwner[uint64](t, name, nil)
	defer owner.Close()
	result := runShmctl(t, name, "set", "20")
	require.NoError(t, result.Err, result.Output)
	assert.Equal(t, uint64(20), owner.Load())
	result = runShmctl(t, name, "add", "5")
	require.NoError(t, result.Err, result.Output)
	assert.Equal(t, uint64(25), owner.Load())
	assert.Contains(t, result.Output, strconv.FormatUint(25, 10))
	// attached processes must not destroy the object.
	attached, err := New(Config[uint64]{Name: name})
	require.NoError(t, err)
	assert.NoError(t, attached.Close())
}

func TestMultiProcessMissing(t *testing.T) {
	name := testSegmentName(t)
	result := runShmctl(t, name, "get")
	assert.Error(t, result.Err)
	assert.True(t, strings.Contains(result.Output, "command failed"), result.Output)
}
