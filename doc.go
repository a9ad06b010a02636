// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package typedshm places a single value of a fixed plain-data type into a named
// shared memory object, so that several processes can read and write it without any
// serialization.
//
// One process is the owner. It creates the backing object, writes the initial value
// and destroys the object, when its segment is closed. Other processes attach to the
// existing object by name:
//	// owner process
//	counter, err := typedshm.New(typedshm.Config[uint32]{Name: "counter", Owner: true})
//	if err != nil {
//		return err
//	}
//	defer counter.Close()
//	*counter.Get() = 10
//
//	// any other process
//	counter, err := typedshm.New(typedshm.Config[uint32]{Name: "counter"})
//	if typedshm.IsNotExist(err) {
//		// the owner has not started yet, or it has already finished.
//	}
//
// The library provides no cross-process locking, no atomicity for partial writes,
// and no change notification. The caller must impose its own coordination, if it needs it,
// including the ordering between the owner's initial write and the first read of other processes.
//
// Ownership is a simple boolean, not a reference count. The backing object lives until
// its owner closes the segment, even if other processes still use it, and it is not
// removed, when the last non-owner detaches. Having two owners for the same name leads to a double destroy.
// The package only prevents that within a single process.
//
// On unix backing objects are posix shared memory objects named '/shmem_<name>'.
// They survive process termination, so a crashed owner leaves a stale object, which can be removed with Destroy.
// On windows they are paging-file-backed file mappings named '<name>' or 'Global\<name>'.
package typedshm
