package core

import (
	"errors"
)

var (
	// ErrDeviceLost indicates the GPU device stopped responding or a
	// fence wait primitive failed. Not recoverable; the render loop
	// must terminate.
	ErrDeviceLost = errors.New("device lost")
	// ErrDeviceRemoved indicates the device was torn down while work
	// was still being issued against it.
	ErrDeviceRemoved = errors.New("device removed")
	ErrUnknown       = errors.New("unknown")
)
