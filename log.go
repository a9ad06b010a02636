// Copyright 2016 Aleksandr Demakin. All rights reserved.

package typedshm

import (
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

var logger atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.New(os.Stderr).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Str("lib", "typedshm").
		Logger()
	logger.Store(&l)
}

// SetLogger replaces the package logger.
// Segment lifecycle events are logged at debug level,
// destruction failures at error level.
func SetLogger(l zerolog.Logger) {
	logger.Store(&l)
}

func currentLogger() *zerolog.Logger {
	return logger.Load()
}
