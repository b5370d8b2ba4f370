//go:build unix

package audio

import (
	"os"
	"syscall"
)

var errProcessDone = os.ErrProcessDone

func suspend(p *os.Process) error {
	return ignoreDone(p.Signal(syscall.SIGSTOP))
}

func resume(p *os.Process) error {
	return ignoreDone(p.Signal(syscall.SIGCONT))
}

func ignoreDone(err error) error {
	if err == os.ErrProcessDone {
		return nil
	}
	return err
}
