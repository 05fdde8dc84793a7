package player

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/dmitrijs2005/vidgallery/internal/logging"
)

// ExecFactory plays media in an external program such as "mpv" or "vlc".
// The process is started on the first Play. An external program cannot be
// muted from outside, so a muted or paused handle suspends its process where
// the platform allows it.
type ExecFactory struct {
	name string
	args []string
	log  logging.Logger
}

// NewExecFactory splits command on white space; the media URL is appended
// as the last argument.
func NewExecFactory(command string, log logging.Logger) (*ExecFactory, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("player command is empty")
	}
	if log == nil {
		log = logging.Discard()
	}
	return &ExecFactory{name: fields[0], args: fields[1:], log: log.With("component", "player")}, nil
}

func (f *ExecFactory) Attach(url string) (Handle, error) {
	if url == "" {
		return nil, fmt.Errorf("attach: empty url")
	}
	return &execHandle{factory: f, state: State{URL: url, Attached: true, Muted: true}}, nil
}

type execHandle struct {
	factory *ExecFactory

	mu        sync.Mutex
	state     State
	cmd       *exec.Cmd
	exited    bool
	suspended bool
}

func (h *execHandle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.state.Attached {
		return ErrDetached
	}
	h.state.Playing = true
	if h.exited {
		h.cmd, h.exited, h.suspended = nil, false, false
	}
	if h.cmd == nil {
		return h.start()
	}
	if !h.state.Muted {
		h.resume()
	}
	return nil
}

func (h *execHandle) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.state.Attached {
		return ErrDetached
	}
	h.state.Playing = false
	h.suspend()
	return nil
}

func (h *execHandle) SetMuted(muted bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.state.Attached {
		return ErrDetached
	}
	h.state.Muted = muted
	switch {
	case muted:
		h.suspend()
	case h.state.Playing:
		h.resume()
	}
	return nil
}

func (h *execHandle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *execHandle) Detach() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.state.Attached {
		return nil
	}
	h.state.Attached = false
	h.state.Playing = false
	if h.cmd == nil || h.exited {
		return nil
	}
	if h.suspended {
		_ = resumeProcess(h.cmd.Process)
	}
	if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, errProcessDone) {
		return fmt.Errorf("stop player: %w", err)
	}
	return nil
}

// start must be called with h.mu held.
func (h *execHandle) start() error {
	args := append(append([]string(nil), h.factory.args...), h.state.URL)
	cmd := exec.Command(h.factory.name, args...)
	if err := cmd.Start(); err != nil {
		h.state.Playing = false
		return fmt.Errorf("start player: %w", err)
	}
	h.cmd = cmd
	h.factory.log.Debug(context.Background(), "player started", "pid", cmd.Process.Pid, "url", h.state.URL)

	go func() {
		err := cmd.Wait()
		h.mu.Lock()
		if h.cmd == cmd {
			h.exited = true
			h.state.Playing = false
		}
		h.mu.Unlock()
		h.factory.log.Debug(context.Background(), "player exited", "pid", cmd.Process.Pid, "err", err)
	}()
	return nil
}

func (h *execHandle) suspend() {
	if h.cmd == nil || h.exited || h.suspended {
		return
	}
	if err := suspendProcess(h.cmd.Process); err != nil {
		h.factory.log.Warn(context.Background(), "suspend player", "err", err)
		return
	}
	h.suspended = true
}

func (h *execHandle) resume() {
	if h.cmd == nil || h.exited || !h.suspended {
		return
	}
	if err := resumeProcess(h.cmd.Process); err != nil {
		h.factory.log.Warn(context.Background(), "resume player", "err", err)
		return
	}
	h.suspended = false
}
