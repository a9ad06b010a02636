// Copyright 2016 Aleksandr Demakin. All rights reserved.

package typedshm

import (
	"sort"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// owners holds qualified names of live owner segments of this process.
// It cannot detect owners in other processes.
var owners = cmap.New[struct{}]()

func claimOwnership(name string) bool {
	return owners.SetIfAbsent(name, struct{}{})
}

func releaseOwnership(name string) {
	owners.Remove(name)
}

// OwnedNames returns sorted qualified names of all live segments owned by this process.
func OwnedNames() []string {
	names := owners.Keys()
	sort.Strings(names)
	return names
}
