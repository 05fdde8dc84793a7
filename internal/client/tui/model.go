// Package tui renders the feed full-screen and turns keyboard and mouse
// input into feed events.
package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dmitrijs2005/vidgallery/internal/client/feed"
	"github.com/dmitrijs2005/vidgallery/internal/client/media"
	"github.com/dmitrijs2005/vidgallery/internal/client/notify"
	"github.com/dmitrijs2005/vidgallery/internal/client/theme"
)

const emptyMessage = "No videos yet. Use `add` in the gallery to upload one."

// Model drives a feed.Navigator from bubbletea messages.
type Model struct {
	nav      *feed.Navigator
	notices  notify.Notifier
	keys     keyMap
	help     help.Model
	pxPerRow float64

	width  int
	height int
}

// NewModel wraps nav. pxPerRow converts terminal rows into the logical pixels
// the gesture threshold is expressed in.
func NewModel(nav *feed.Navigator, notices notify.Notifier, pxPerRow int) Model {
	if pxPerRow <= 0 {
		pxPerRow = 20
	}
	m := Model{
		nav:      nav,
		notices:  notices,
		keys:     defaultKeys(),
		help:     help.New(),
		pxPerRow: float64(pxPerRow),
	}
	m.syncKeys()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.nav.Dispatch(feed.Key{Name: "up"})
		case key.Matches(msg, m.keys.Down):
			m.nav.Dispatch(feed.Key{Name: "down"})
		case key.Matches(msg, m.keys.Toggle):
			m.nav.Dispatch(feed.TogglePlay{})
		}

	case tea.MouseMsg:
		m.handleMouse(msg)
	}

	m.syncKeys()
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) {
	y := float64(msg.Y) * m.pxPerRow
	switch {
	case msg.Button == tea.MouseButtonWheelUp && msg.Action == tea.MouseActionPress:
		m.nav.Dispatch(feed.Navigate{Dir: feed.Backward})
	case msg.Button == tea.MouseButtonWheelDown && msg.Action == tea.MouseActionPress:
		m.nav.Dispatch(feed.Navigate{Dir: feed.Forward})
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.nav.Dispatch(feed.GestureStart{Y: y, Source: feed.SourceMouse})
	case msg.Action == tea.MouseActionMotion:
		m.nav.Dispatch(feed.GestureMove{Y: y})
	case msg.Action == tea.MouseActionRelease:
		m.nav.Dispatch(feed.GestureEnd{Y: y})
	}
}

// syncKeys offers a direction only when it has a target.
func (m *Model) syncKeys() {
	s := m.nav.State()
	m.keys.Up.SetEnabled(s.CanGoBack())
	m.keys.Down.SetEnabled(s.CanGoForward())
	m.keys.Toggle.SetEnabled(s.Len() > 0)
}

// Navigator exposes the wrapped navigator.
func (m Model) Navigator() *feed.Navigator { return m.nav }

func (m Model) View() string {
	s := m.nav.State()

	var b strings.Builder
	if s.Len() == 0 {
		b.WriteString(theme.BannerStyle.Render("Feed"))
		b.WriteString("\n\n")
		b.WriteString(theme.MutedStyle.Render(emptyMessage))
	} else {
		b.WriteString(m.renderItem(s))
	}

	b.WriteString("\n\n")
	if line := m.noticeLine(); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderItem(s feed.State) string {
	v, _ := s.Current()

	header := theme.BannerStyle.Render(fmt.Sprintf("Feed %d/%d", s.Index+1, s.Len()))

	status := theme.IconPlay + " playing"
	if !s.Playing {
		status = theme.IconPause + " paused"
	}
	url := m.nav.URL(s.Index)
	if url == "" {
		status = "unplayable"
		url = theme.MutedStyle.Render("no media path")
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		theme.TitleStyle.Render(v.Title),
		theme.MutedStyle.Render(theme.IconClock+" "+media.FormatTimestamp(v.CreatedAt)),
		"",
		url,
		"",
		theme.InfoStyle.Render(status),
	)

	style := theme.ActiveCardStyle
	if m.width > 4 {
		style = style.Width(m.width - 4)
	}

	// The damped drag offset becomes top padding, in rows.
	shift := int(math.Round(s.Offset / m.pxPerRow))
	card := style.Render(body)
	if shift > 0 {
		card = strings.Repeat("\n", shift) + card
	}

	var hints []string
	if s.CanGoBack() {
		hints = append(hints, theme.IconUp+" previous")
	}
	if s.CanGoForward() {
		hints = append(hints, theme.IconDown+" next")
	}

	parts := []string{header, card}
	if len(hints) > 0 {
		parts = append(parts, theme.MutedStyle.Render(strings.Join(hints, "   ")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) noticeLine() string {
	if m.notices == nil {
		return ""
	}
	list := m.notices.Notices()
	if len(list) == 0 {
		return ""
	}
	return notify.Render(list[len(list)-1])
}
