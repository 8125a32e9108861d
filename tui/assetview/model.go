// Package assetview is a terminal viewer for a hot-reloaded drawable. It is
// the consumer side of the gate: every frame it polls the LiveDrawable once
// and renders the snapshot.
package assetview

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/hotload/pkg/hotload"
	"github.com/grovetools/hotload/tui/theme"
)

// DefaultFrameInterval is how often the viewer polls.
const DefaultFrameInterval = 50 * time.Millisecond

// Source is the part of a LiveDrawable the viewer drives.
type Source interface {
	RequestLoad(path string, keepExistingMetadata bool)
	Poll() hotload.ChangeFlags
	Snapshot() hotload.Snapshot
	State() hotload.State
}

type frameMsg time.Time

// Model is the bubbletea model of the viewer.
type Model struct {
	src      Source
	path     string
	interval time.Duration

	keys     KeyMap
	help     help.Model
	theme    *theme.Theme
	spinner  spinner.Model
	viewport viewport.Model

	snap       hotload.Snapshot
	state      hotload.State
	lastFlags  hotload.ChangeFlags
	lastChange time.Time
	changes    int

	ready  bool
	width  int
	height int
}

// New creates a viewer for the drawable at path. The caller requests the
// first load.
func New(src Source, path string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.DefaultTheme.Accent

	return Model{
		src:      src,
		path:     path,
		interval: DefaultFrameInterval,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		theme:    theme.DefaultTheme,
		spinner:  sp,
		viewport: viewport.New(0, 0),
	}
}

// WithFrameInterval sets the polling interval.
func (m Model) WithFrameInterval(d time.Duration) Model {
	if d > 0 {
		m.interval = d
	}
	return m
}

func (m Model) frame() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// Init starts the frame loop and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.frame(), m.spinner.Tick)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case frameMsg:
		m = m.poll(time.Time(msg))
		cmds = append(cmds, m.frame())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-4)
		m.help.Width = msg.Width
		m.ready = true
		m.viewport.SetContent(renderSnapshot(m.snap, m.theme))

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reload):
			m.src.RequestLoad(m.path, true)
		case key.Matches(msg, m.keys.FullReload):
			m.src.RequestLoad(m.path, false)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// poll admits at most one pending change and refreshes the snapshot.
func (m Model) poll(now time.Time) Model {
	if flags := m.src.Poll(); flags != hotload.FlagNone {
		m.lastFlags = flags
		m.lastChange = now
		m.changes++
	}
	m.snap = m.src.Snapshot()
	m.state = m.src.State()
	m.viewport.SetContent(renderSnapshot(m.snap, m.theme))
	return m
}

// View renders the viewer.
func (m Model) View() string {
	if !m.ready {
		return "Initializing asset viewer..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header(),
		m.viewport.View(),
		m.help.View(m.keys),
	)
}

func (m Model) header() string {
	name := m.snap.Asset.Name
	if name == "" {
		name = m.path
	}
	title := m.theme.Header.UnsetMarginBottom().Render(name)

	status := m.theme.Muted.Render(m.state.String())
	if m.snap.IsLoading {
		status = m.spinner.View() + " " + m.theme.Info.Render("loading")
	}

	line := fmt.Sprintf("%s  %s", title, status)
	if m.changes > 0 {
		line += m.theme.Muted.Render(fmt.Sprintf("  %d changes, last %s at %s",
			m.changes, m.lastFlags, m.lastChange.Format("15:04:05")))
	}
	return line + "\n"
}
