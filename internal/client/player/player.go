// Package player provides media handles: owned playback resources that the
// feed and the single-video view attach, drive and detach explicitly.
package player

import "errors"

var ErrDetached = errors.New("handle detached")

// State is a snapshot of a handle.
type State struct {
	URL      string
	Attached bool
	Playing  bool
	Muted    bool
}

// Handle is one attached media resource. New handles start paused and muted.
type Handle interface {
	Play() error
	Pause() error
	SetMuted(muted bool) error
	State() State
	// Detach releases the resource; the handle is unusable afterwards.
	Detach() error
}

// Factory attaches a handle for a media URL.
type Factory interface {
	Attach(url string) (Handle, error)
}
