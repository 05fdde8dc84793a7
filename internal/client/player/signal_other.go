//go:build !unix

package player

import "os"

var errProcessDone = os.ErrProcessDone

// Suspension is not available; the external player keeps running until it
// is detached.
func suspendProcess(*os.Process) error { return nil }

func resumeProcess(*os.Process) error { return nil }
