// Package feed is the swipeable feed: an explicit state, a pure transition
// function over input events and a Navigator that applies the media side
// effects of each transition.
package feed

import (
	"math"

	"github.com/dmitrijs2005/vidgallery/internal/client/models"
)

const (
	// Threshold is the displacement, in logical pixels, a gesture must
	// exceed to navigate.
	Threshold = 100.0
	// Damping scales a mouse drag into the visual offset.
	Damping = 0.5
	// Deadzone hides damped offsets up to this size.
	Deadzone = 20.0
)

type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Source is the kind of pointer that produced a gesture.
type Source int

const (
	sourceNone Source = iota
	SourceTouch
	SourceMouse
)

// Event is an input to Transition.
type Event interface {
	isEvent()
}

// Navigate moves one item in Dir; a target outside the list is ignored.
type Navigate struct{ Dir Direction }

// GestureStart begins a drag or swipe at pointer row Y.
type GestureStart struct {
	Y      float64
	Source Source
}

// GestureMove reports the pointer position during a gesture.
type GestureMove struct{ Y float64 }

// GestureEnd finishes a gesture at pointer position Y.
type GestureEnd struct{ Y float64 }

// Key is a named key press; "up" and "down" navigate.
type Key struct{ Name string }

// TogglePlay flips the playing flag of the active item.
type TogglePlay struct{}

func (Navigate) isEvent()     {}
func (GestureStart) isEvent() {}
func (GestureMove) isEvent()  {}
func (GestureEnd) isEvent()   {}
func (Key) isEvent()          {}
func (TogglePlay) isEvent()   {}

// State is the feed at one instant. Items is a snapshot taken when the feed
// opened and is never modified.
type State struct {
	Items    []models.Video
	Index    int
	Playing  bool
	Dragging bool
	// Offset is the damped drag displacement, a rendering hint only.
	Offset float64

	gesture Source
	startY  float64
	lastY   float64
}

// NewState starts at the first item, playing.
func NewState(items []models.Video) State {
	return State{Items: append([]models.Video(nil), items...), Playing: true}
}

// NewStateAt is NewState positioned on index, clamped to the list.
func NewStateAt(items []models.Video, index int) State {
	s := NewState(items)
	s.Index = clamp(index, len(s.Items))
	return s
}

func (s State) Len() int { return len(s.Items) }

func (s State) CanGoBack() bool { return s.Index > 0 }

func (s State) CanGoForward() bool { return s.Index < len(s.Items)-1 }

// Current returns the active record; ok is false for an empty feed.
func (s State) Current() (models.Video, bool) {
	if len(s.Items) == 0 {
		return models.Video{}, false
	}
	return s.Items[s.Index], true
}

// Gesturing reports whether a gesture has started and not ended.
func (s State) Gesturing() bool { return s.gesture != sourceNone }

// Transition applies ev to s and returns the next state. It has no side
// effects.
func Transition(s State, ev Event) State {
	switch e := ev.(type) {
	case Navigate:
		return navigate(s, e.Dir)

	case Key:
		switch e.Name {
		case "up":
			return navigate(s, Backward)
		case "down":
			return navigate(s, Forward)
		}
		return s

	case TogglePlay:
		if len(s.Items) == 0 {
			return s
		}
		s.Playing = !s.Playing
		return s

	case GestureStart:
		s.gesture = e.Source
		s.startY = e.Y
		s.lastY = e.Y
		s.Offset = 0
		s.Dragging = e.Source == SourceMouse
		return s

	case GestureMove:
		switch s.gesture {
		case SourceTouch:
			s.lastY = e.Y
		case SourceMouse:
			s.lastY = e.Y
			damped := (e.Y - s.startY) * Damping
			if math.Abs(damped) > Deadzone {
				s.Offset = damped
			} else {
				s.Offset = 0
			}
		}
		return s

	case GestureEnd:
		if s.gesture == sourceNone {
			return s
		}
		delta := e.Y - s.startY
		s = endGesture(s)
		if math.Abs(delta) > Threshold {
			if delta > 0 {
				return navigate(s, Backward)
			}
			return navigate(s, Forward)
		}
		return s
	}
	return s
}

func navigate(s State, dir Direction) State {
	target := s.Index + int(dir)
	if target < 0 || target >= len(s.Items) {
		return s
	}
	s.Index = target
	return s
}

func endGesture(s State) State {
	s.gesture = sourceNone
	s.startY = 0
	s.lastY = 0
	s.Offset = 0
	s.Dragging = false
	return s
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
