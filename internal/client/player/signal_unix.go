//go:build unix

package player

import (
	"os"
	"syscall"
)

var errProcessDone = os.ErrProcessDone

func suspendProcess(p *os.Process) error {
	return p.Signal(syscall.SIGSTOP)
}

func resumeProcess(p *os.Process) error {
	return p.Signal(syscall.SIGCONT)
}
