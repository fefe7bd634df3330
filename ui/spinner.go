package ui

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"nameit/config"
)

// waitModel shows a spinner until the background work reports done.
type waitModel struct {
	spinner spinner.Model
	title   string
	work    tea.Cmd
	done    bool
}

// workDoneMsg signals the background work has finished
type workDoneMsg struct{}

func newWaitModel(title string, work tea.Cmd) waitModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = AccentStyle
	return waitModel{
		spinner: s,
		title:   title,
		work:    work,
	}
}

func (m waitModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.work)
}

func (m waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case workDoneMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m waitModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + DimStyle.Render(m.title)
}

// Wait runs fn while a spinner titled title is shown on stderr. When stderr
// is not a terminal fn simply runs. fn always runs exactly once and has
// finished when Wait returns.
func Wait(title string, fn func()) {
	var once sync.Once
	run := func() { once.Do(fn) }

	if !isatty.IsTerminal(os.Stderr.Fd()) {
		run()
		return
	}

	work := func() tea.Msg {
		run()
		return workDoneMsg{}
	}

	p := tea.NewProgram(
		newWaitModel(title, work),
		tea.WithOutput(os.Stderr),
		tea.WithInput(nil),
	)
	if _, err := p.Run(); err != nil {
		config.DebugLog.Debug().Err(err).Msg("spinner failed")
		fmt.Fprintln(os.Stderr, DimStyle.Render(title))
	}

	// Blocks until fn has returned if the program quit early.
	run()
}
