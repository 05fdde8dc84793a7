package player

import (
	"fmt"
	"sync"
)

// Op names recorded by VirtualFactory.
const (
	OpAttach = "attach"
	OpDetach = "detach"
	OpPlay   = "play"
	OpPause  = "pause"
	OpMute   = "mute"
	OpUnmute = "unmute"
)

// Event is one recorded handle operation.
type Event struct {
	Op  string
	URL string
}

func (e Event) String() string { return e.Op + ":" + e.URL }

// VirtualFactory creates in-memory handles and records every operation in
// order. It is used when no external player is configured and in tests.
type VirtualFactory struct {
	mu      sync.Mutex
	events  []Event
	handles []*VirtualHandle
}

func NewVirtualFactory() *VirtualFactory {
	return &VirtualFactory{}
}

func (f *VirtualFactory) Attach(url string) (Handle, error) {
	if url == "" {
		return nil, fmt.Errorf("attach: empty url")
	}
	h := &VirtualHandle{factory: f, state: State{URL: url, Attached: true, Muted: true}}

	f.mu.Lock()
	f.handles = append(f.handles, h)
	f.mu.Unlock()

	f.record(OpAttach, url)
	return h, nil
}

func (f *VirtualFactory) record(op, url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, Event{Op: op, URL: url})
}

// Events returns a copy of the operation log.
func (f *VirtualFactory) Events() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Event(nil), f.events...)
}

// Reset clears the operation log.
func (f *VirtualFactory) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = nil
}

// Live returns the states of every handle that is still attached.
func (f *VirtualFactory) Live() []State {
	f.mu.Lock()
	handles := append([]*VirtualHandle(nil), f.handles...)
	f.mu.Unlock()

	var out []State
	for _, h := range handles {
		if s := h.State(); s.Attached {
			out = append(out, s)
		}
	}
	return out
}

type VirtualHandle struct {
	factory *VirtualFactory
	mu      sync.Mutex
	state   State
}

func (h *VirtualHandle) Play() error {
	return h.apply(OpPlay, func(s *State) { s.Playing = true })
}

func (h *VirtualHandle) Pause() error {
	return h.apply(OpPause, func(s *State) { s.Playing = false })
}

func (h *VirtualHandle) SetMuted(muted bool) error {
	op := OpUnmute
	if muted {
		op = OpMute
	}
	return h.apply(op, func(s *State) { s.Muted = muted })
}

func (h *VirtualHandle) Detach() error {
	return h.apply(OpDetach, func(s *State) {
		s.Attached = false
		s.Playing = false
	})
}

func (h *VirtualHandle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *VirtualHandle) apply(op string, fn func(*State)) error {
	h.mu.Lock()
	if !h.state.Attached {
		h.mu.Unlock()
		return ErrDetached
	}
	fn(&h.state)
	url := h.state.URL
	h.mu.Unlock()

	h.factory.record(op, url)
	return nil
}
