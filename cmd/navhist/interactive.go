package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	navhistory "github.com/wippyai/nav-history"
	"github.com/wippyai/nav-history/engine"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	hrefStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	actionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	blockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const maxEvents = 8

type interactiveModel struct {
	eng     *engine.Engine
	backend navhistory.Backend
	name    string

	updates chan navhistory.Update
	blocked chan navhistory.Transition

	input   textinput.Model
	pending *navhistory.Transition
	unblock func() bool
	events  []string
	err     error
	state   modelState
}

type modelState int

const (
	stateBrowse modelState = iota
	stateInputPush
	stateInputReplace
	stateInputGo
	statePendingBlock
)

type updateMsg navhistory.Update

type blockedMsg navhistory.Transition

func newInteractiveModel(eng *engine.Engine, backend navhistory.Backend, name string) *interactiveModel {
	m := &interactiveModel{
		eng:     eng,
		backend: backend,
		name:    name,
		updates: make(chan navhistory.Update, 16),
		blocked: make(chan navhistory.Transition, 16),
	}

	eng.Listen(navhistory.ListenerFunc(func(u navhistory.Update) {
		select {
		case m.updates <- u:
		default:
		}
	}))

	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return tea.Batch(m.waitUpdate, m.waitBlocked)
}

func (m *interactiveModel) waitUpdate() tea.Msg {
	return updateMsg(<-m.updates)
}

func (m *interactiveModel) waitBlocked() tea.Msg {
	return blockedMsg(<-m.blocked)
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case updateMsg:
		u := navhistory.Update(msg)
		m.record(fmt.Sprintf("%s %s", u.Action, m.backend.CreateHref(u.Location.Path())))
		return m, m.waitUpdate

	case blockedMsg:
		tx := navhistory.Transition(msg)
		m.pending = &tx
		m.state = statePendingBlock
		return m, m.waitBlocked
	}

	if m.inputActive() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inputActive() {
		switch msg.String() {
		case "enter":
			m.submitInput()
			return m, nil
		case "esc":
			m.state = stateBrowse
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "left", "h":
		m.do(m.eng.Back)

	case "right", "l":
		m.do(m.eng.Forward)

	case "p":
		m.prepareInput("push path: ", stateInputPush)

	case "r":
		m.prepareInput("replace path: ", stateInputReplace)

	case "g":
		m.prepareInput("go delta: ", stateInputGo)

	case "x":
		m.toggleBlocker()

	case "y":
		if m.state == statePendingBlock && m.pending != nil {
			// Allow this one transition through: drop the blocker, let the
			// retry land, then leave blocking off.
			if m.unblock != nil {
				m.unblock()
				m.unblock = nil
			}
			retry := m.pending.Retry
			m.pending = nil
			m.state = stateBrowse
			retry()
		}

	case "n":
		if m.state == statePendingBlock {
			m.pending = nil
			m.state = stateBrowse
			m.record("transition discarded")
		}
	}

	return m, nil
}

func (m *interactiveModel) inputActive() bool {
	return m.state == stateInputPush || m.state == stateInputReplace || m.state == stateInputGo
}

func (m *interactiveModel) prepareInput(prompt string, next modelState) {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Width = 40
	ti.Focus()
	m.input = ti
	m.state = next
}

func (m *interactiveModel) submitInput() {
	value := strings.TrimSpace(m.input.Value())
	state := m.state
	m.state = stateBrowse
	if value == "" {
		return
	}

	switch state {
	case stateInputPush:
		m.do(func() error { return m.eng.Push(value, nil) })
	case stateInputReplace:
		m.do(func() error { return m.eng.Replace(value, nil) })
	case stateInputGo:
		delta, err := strconv.Atoi(value)
		if err != nil {
			m.err = err
			return
		}
		m.do(func() error { return m.eng.Go(delta) })
	}
}

func (m *interactiveModel) toggleBlocker() {
	if m.unblock != nil {
		m.unblock()
		m.unblock = nil
		m.record("blocking off")
		return
	}
	m.unblock = m.eng.Block(navhistory.BlockerFunc(func(tx navhistory.Transition) {
		select {
		case m.blocked <- tx:
		default:
		}
	}))
	m.record("blocking on")
}

func (m *interactiveModel) do(op func() error) {
	m.err = op()
}

func (m *interactiveModel) record(event string) {
	m.events = append(m.events, event)
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("nav-history"))
	b.WriteString(" " + m.name + " backend\n\n")

	loc := m.eng.Location()
	b.WriteString(fmt.Sprintf("%s %s\n",
		actionStyle.Render(m.eng.Action().String()),
		hrefStyle.Render(m.backend.CreateHref(loc.Path()))))
	b.WriteString(fmt.Sprintf("index %d of %d entries, key %s\n",
		m.eng.Index(), m.backend.Len(), loc.Key))
	if loc.State != nil {
		if data, err := json.Marshal(loc.State); err == nil {
			b.WriteString("state " + string(data) + "\n")
		}
	}
	b.WriteString("\n")

	switch {
	case m.inputActive():
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter confirm • esc cancel"))

	case m.state == statePendingBlock && m.pending != nil:
		b.WriteString(blockedStyle.Render(fmt.Sprintf("blocked: %s %s",
			m.pending.Action, m.backend.CreateHref(m.pending.Location.Path()))))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("y allow • n discard"))

	default:
		if len(m.events) > 0 {
			b.WriteString("recent:\n")
			for _, e := range m.events {
				b.WriteString("  " + eventStyle.Render(e) + "\n")
			}
			b.WriteString("\n")
		}
		if m.err != nil {
			b.WriteString(blockedStyle.Render("error: "+m.err.Error()) + "\n\n")
		}
		blocking := "off"
		if m.unblock != nil {
			blocking = "on"
		}
		b.WriteString(helpStyle.Render(
			"←/→ travel • p push • r replace • g go • x blocking (" + blocking + ") • q quit"))
	}

	return b.String()
}

// watcher is implemented by backends that can surface external slot
// rewrites.
type watcher interface {
	Watch(onPop func()) (func(), error)
}

func runInteractive(eng *engine.Engine, backend navhistory.Backend, name string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode needs a terminal")
	}

	if w, ok := backend.(watcher); ok {
		stop, err := w.Watch(eng.Pop)
		if err != nil {
			return err
		}
		defer stop()
	}

	p := tea.NewProgram(newInteractiveModel(eng, backend, name), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
