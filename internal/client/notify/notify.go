// Package notify is the toast replacement: a small in-memory list of
// notices that is also echoed, styled, to a writer.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/vidgallery/internal/client/theme"
	"github.com/google/uuid"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// DefaultCapacity bounds how many notices are kept.
const DefaultCapacity = 32

type Notice struct {
	ID      string
	Kind    Kind
	Message string
	At      time.Time
}

// Notifier is what views and services depend on.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
	Notices() []Notice
}

type Service struct {
	mu       sync.Mutex
	out      io.Writer
	capacity int
	notices  []Notice
	now      func() time.Time
}

// New returns a Service echoing to out. A nil out keeps notices in memory only.
func New(out io.Writer, capacity int) *Service {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Service{out: out, capacity: capacity, now: time.Now}
}

// SetOutput swaps the echo writer; the feed view silences it while the
// alternate screen is active.
func (s *Service) SetOutput(out io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out = out
}

func (s *Service) Success(msg string) { s.add(KindSuccess, msg) }
func (s *Service) Error(msg string)   { s.add(KindError, msg) }
func (s *Service) Info(msg string)    { s.add(KindInfo, msg) }

func (s *Service) add(kind Kind, msg string) {
	n := Notice{ID: uuid.NewString(), Kind: kind, Message: msg, At: s.now()}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.notices = append(s.notices, n)
	if over := len(s.notices) - s.capacity; over > 0 {
		s.notices = append([]Notice(nil), s.notices[over:]...)
	}
	if s.out != nil {
		_, _ = fmt.Fprintln(s.out, Render(n))
	}
}

// Notices returns a copy, oldest first.
func (s *Service) Notices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Notice(nil), s.notices...)
}

// Last returns the most recent notice.
func (s *Service) Last() (Notice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.notices) == 0 {
		return Notice{}, false
	}
	return s.notices[len(s.notices)-1], true
}

// Render formats a notice as a single styled line.
func Render(n Notice) string {
	switch n.Kind {
	case KindSuccess:
		return theme.SuccessStyle.Render("✔ " + n.Message)
	case KindError:
		return theme.ErrorStyle.Render("✘ " + n.Message)
	default:
		return theme.InfoStyle.Render("• " + n.Message)
	}
}
