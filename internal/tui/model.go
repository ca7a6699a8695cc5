// Package tui is the interactive form: a textarea for the raw input, a
// spinner while the request is outstanding and the rendered outcome below.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Afrawles/dataproc/internal/coordinator"
	"github.com/Afrawles/dataproc/internal/input"
	"github.com/Afrawles/dataproc/internal/render"
)

var (
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	buttonStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("30")).Padding(0, 2)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// stateMsg carries the outcome of a submission back into the update loop.
type stateMsg struct {
	state coordinator.State
	err   error
}

type Options struct {
	Endpoint string
	// Warn shows the wrong-endpoint banner.
	Warn bool
}

type Model struct {
	ctx   context.Context
	coord *coordinator.Coordinator
	opts  Options

	textarea textarea.Model
	spinner  spinner.Model
	state    coordinator.State

	width    int
	quitting bool
}

func New(ctx context.Context, coord *coordinator.Coordinator, opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "e.g., " + input.DefaultValue
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(4)
	ta.SetWidth(60)
	ta.SetValue(input.DefaultValue)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:      ctx,
		coord:    coord,
		opts:     opts,
		textarea: ta,
		spinner:  sp,
		state:    coord.State(),
	}
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateMsg:
		return m.handleState(msg), nil

	case spinner.TickMsg:
		if !m.state.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > 4 {
			m.textarea.SetWidth(msg.Width - 4)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		m.coord.Close()
		return m, tea.Quit

	case "enter":
		if m.state.Loading() {
			return m, nil
		}
		raw := m.textarea.Value()
		if input.IsBlank(raw) {
			return m, m.submit(raw)
		}
		m.state = coordinator.State{Status: coordinator.StatusLoading}
		m.textarea.Blur()
		return m, tea.Batch(m.submit(raw), m.spinner.Tick)

	case "alt+enter":
		if !m.state.Loading() {
			m.textarea.InsertString("\n")
		}
		return m, nil
	}

	if m.state.Loading() {
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) handleState(msg stateMsg) Model {
	switch {
	case errors.Is(msg.err, coordinator.ErrBusy):
		return m
	case msg.err != nil:
		m.state = coordinator.State{Status: coordinator.StatusIdle}
	default:
		m.state = msg.state
	}
	m.textarea.Focus()
	return m
}

// submit runs the request off the update loop.
func (m Model) submit(raw string) tea.Cmd {
	ctx, coord := m.ctx, m.coord
	return func() tea.Msg {
		st, err := coord.Submit(ctx, raw)
		return stateMsg{state: st, err: err}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	if m.opts.Warn {
		b.WriteString(render.EndpointWarning(m.opts.Endpoint))
		b.WriteString("\n\n")
	}

	b.WriteString(render.Header())
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Input Data Array"))
	b.WriteString("\n")
	b.WriteString(m.textarea.View())
	b.WriteString("\n")

	if m.state.Loading() {
		fmt.Fprintf(&b, "%s %s\n", m.spinner.View(), render.LoadingText)
	} else {
		b.WriteString(buttonStyle.Render("Process Data"))
		b.WriteString(hintStyle.Render("  enter: submit • alt+enter: newline • esc: quit"))
		b.WriteString("\n")
	}

	if m.state.Status == coordinator.StatusFailed || m.state.Status == coordinator.StatusSuccess {
		b.WriteString("\n")
		b.WriteString(render.StateString(m.state))
	}

	b.WriteString("\n")
	b.WriteString(render.Footer(m.opts.Endpoint))
	b.WriteString("\n")

	return b.String()
}

// Run starts the form and blocks until the user quits or ctx is done. Any
// request still in flight is cancelled on return.
func Run(ctx context.Context, coord *coordinator.Coordinator, opts Options) error {
	defer coord.Close()

	p := tea.NewProgram(New(ctx, coord, opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("interactive form failed: %w", err)
	}
	return nil
}
