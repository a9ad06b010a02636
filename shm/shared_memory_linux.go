// Copyright 2015 Aleksandr Demakin. All rights reserved.

//go:build linux
// +build linux

package shm

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

const (
	maxNameLen       = 255
	defaultShmPath   = "/dev/shm/"
	cShmfsSuperMagic = 0x01021994
	cRamfsMagic      = 0x858458f6
)

var (
	shmPathOnce sync.Once
	shmPath     string
)

type mntent struct {
	fsname string /* Device or server for filesystem.  */
	dir    string /* Directory mounted on.  */
	fstype string /* Type of filesystem: ufs, nfs, etc.  */
	opts   string /* Comma-separated options for fs.  */
	freq   int    /* Dump frequency (in days).  */
	passno int    /* Pass number for `fsck'.  */
}

func doDestroyMemoryObject(name string) error {
	path, err := shmPathForName(name, "shm_unlink")
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// glibc/sysdeps/posix/shm_open.c
func shmOpen(name string, flag int, perm os.FileMode) (*os.File, error) {
	path, err := shmPathForName(name, "shm_open")
	if err != nil {
		return nil, err
	}
	return os.OpenFile(path, flag, perm)
}

// glibc/sysdeps/posix/shm-directory.h
func shmPathForName(name, op string) (string, error) {
	name = strings.TrimLeft(name, "/")
	nameLen := len(name)
	if nameLen == 0 || nameLen >= maxNameLen || strings.Contains(name, "/") {
		return "", &os.PathError{Op: op, Path: name, Err: unix.EINVAL}
	}
	dir := shmDirectory()
	if len(dir) == 0 {
		return "", &os.PathError{Op: op, Path: name, Err: unix.ENOSYS}
	}
	return dir + name, nil
}

func shmDirectory() string {
	shmPathOnce.Do(locateShmFs)
	return shmPath
}

// glibc/sysdeps/unix/sysv/linux/shm-directory.c
func locateShmFs() {
	if checkShmPath(defaultShmPath) {
		shmPath = defaultShmPath
	} else {
		shmPath = shmFsFromMounts()
	}
}

func checkShmPath(path string) bool {
	if len(path) == 0 {
		return false
	}
	var statfs unix.Statfs_t
	if err := unix.Statfs(path, &statfs); err != nil {
		return false
	}
	// statfs.Type has different types on different platforms.
	return isShmFs(int64(statfs.Type))
}

func isShmFs(fsType int64) bool {
	return fsType == cShmfsSuperMagic || fsType == cRamfsMagic
}

func shmFsFromMounts() string {
	for _, name := range []string{"/proc/mounts", "/etc/fstab"} {
		fsFile, err := os.Open(name)
		if err != nil {
			continue
		}
		result := shmFsFromReader(fsFile)
		fsFile.Close()
		if len(result) > 0 {
			return result
		}
	}
	return ""
}

func shmFsFromReader(r io.Reader) string {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		record := scanMountRecord(scanner.Text())
		if record == nil || (record.fstype != "tmpfs" && record.fstype != "shm") {
			continue
		}
		result := record.dir
		if checkShmPath(result) {
			if !strings.HasSuffix(result, "/") {
				result = result + "/"
			}
			return result
		}
	}
	return ""
}

func scanMountRecord(record string) *mntent {
	fields := strings.Fields(record)
	if len(fields) < 6 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	freq, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil
	}
	passno, err := strconv.Atoi(fields[5])
	if err != nil {
		return nil
	}
	return &mntent{
		fsname: fields[0],
		dir:    fields[1],
		fstype: fields[2],
		opts:   fields[3],
		freq:   freq,
		passno: passno,
	}
}
