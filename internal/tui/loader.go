package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type loadDoneMsg struct {
	err error
}

type loaderTickMsg struct{}

type loaderModel struct {
	label  string
	fn     func(ctx context.Context) error
	ctx    context.Context
	cancel context.CancelFunc
	frame  int
	err    error
	done   bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.run(), m.tick())
}

func (m loaderModel) run() tea.Cmd {
	fn, ctx := m.fn, m.ctx
	return func() tea.Msg {
		return loadDoneMsg{err: fn(ctx)}
	}
}

func (m loaderModel) tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return loaderTickMsg{}
	})
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDoneMsg:
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case loaderTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, m.tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.done = true
			m.err = fmt.Errorf("cancelled")
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	spinner := lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render(spinnerFrames[m.frame])
	return fmt.Sprintf("%s %s\n", spinner, m.label)
}

// RunLoader shows a spinner labeled label while fn runs. It renders inline
// (no alt screen). ctrl+c cancels the context passed to fn.
func RunLoader(ctx context.Context, label string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := loaderModel{label: label, fn: fn, ctx: ctx, cancel: cancel}
	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return err
	}
	return result.(loaderModel).err
}
