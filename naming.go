// Copyright 2016 Aleksandr Demakin. All rights reserved.

package typedshm

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
)

// RandomName returns a random segment name. It is used, when Config.Name is empty.
// Such a name is useful only if it is passed to other processes somehow.
func RandomName() string {
	var seed [4]byte
	if _, err := rand.Read(seed[:]); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return strconv.FormatUint(uint64(binary.LittleEndian.Uint32(seed[:])), 10)
}
