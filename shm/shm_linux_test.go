// Copyright 2015 Aleksandr Demakin. All rights reserved.

package shm

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestShmFsFromReader(t *testing.T) {
	const (
		testData = `
			#
			# /etc/fstab
			# name dir type opts freq passno
			UUID=cd459033-ae0a-4fb4-96fb-2323365a8e21 /                       ext4    defaults        1 1
			UUID=4542ef12-df3d-4336-9d12-740763854139 /boot                   ext4    defaults        1 2
			UUID=53d61062-7b6b-4f5b-80fd-7baf4017f96d swap                    swap    defaults        0 0
			tmpfs /dev/shm tmpfs rw,seclabel,nosuid,nodev 0 0
		`
		testData2 = "tmpfs /dev/shm nottmpfs rw,seclabel,nosuid,nodev 0 0"
	)
	assert.Equal(t, "/dev/shm/", shmFsFromReader(strings.NewReader(testData)))
	assert.Empty(t, shmFsFromReader(strings.NewReader(testData2)))
}

func TestScanMountRecord(t *testing.T) {
	record := scanMountRecord("tmpfs /run/shm tmpfs rw,nosuid 0 2")
	if assert.NotNil(t, record) {
		assert.Equal(t, "tmpfs", record.fsname)
		assert.Equal(t, "/run/shm", record.dir)
		assert.Equal(t, "tmpfs", record.fstype)
		assert.Equal(t, "rw,nosuid", record.opts)
		assert.Equal(t, 0, record.freq)
		assert.Equal(t, 2, record.passno)
	}
	assert.Nil(t, scanMountRecord("# tmpfs /dev/shm tmpfs rw 0 0"))
	assert.Nil(t, scanMountRecord("tmpfs /dev/shm tmpfs rw 0"))
	assert.Nil(t, scanMountRecord("tmpfs /dev/shm tmpfs rw x 0"))
	assert.Nil(t, scanMountRecord(""))
}

func TestShmDirectory(t *testing.T) {
	assert.NotEmpty(t, shmDirectory(), "couldn't find a correct shm path")
}

func TestShmPathForName(t *testing.T) {
	path, err := shmPathForName("/shmem_test", "shm_open")
	if assert.NoError(t, err) {
		assert.Equal(t, shmDirectory()+"shmem_test", path)
	}
	for _, name := range []string{"", "/", "/a/b", "/" + strings.Repeat("a", maxNameLen)} {
		_, err = shmPathForName(name, "shm_open")
		if assert.Error(t, err, name) {
			pathErr, ok := err.(*os.PathError)
			if assert.True(t, ok) {
				assert.Equal(t, unix.EINVAL, pathErr.Err)
			}
		}
	}
}
