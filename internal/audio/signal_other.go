//go:build !unix

package audio

import (
	"errors"
	"os"
)

var errProcessDone = os.ErrProcessDone

var errPauseUnsupported = errors.New("pause is not supported on this platform")

func suspend(*os.Process) error { return errPauseUnsupported }

func resume(*os.Process) error { return nil }
