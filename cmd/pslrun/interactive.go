package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linqs/psl-runtime-go/bridge"
	"github.com/linqs/psl-runtime-go/configfile"
	"github.com/linqs/psl-runtime-go/value"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5F5FD7")).
			Padding(0, 1)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateInputPath modelState = iota
	stateRunning
	stateShowResult
)

type interactiveModel struct {
	err     error
	bridge  *bridge.Bridge
	input   textinput.Model
	spin    spinner.Model
	result  string
	state   modelState
	lastRun string
}

type runDoneMsg struct {
	err    error
	result string
}

func newInteractiveModel(b *bridge.Bridge, configPath string) *interactiveModel {
	input := textinput.New()
	input.Placeholder = "path/to/config.json"
	input.SetValue(configPath)
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &interactiveModel{
		bridge: b,
		input:  input,
		spin:   spin,
		state:  stateInputPath,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) runConfig(path string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		config, err := configfile.Load(path)
		if err != nil {
			return runDoneMsg{err: err}
		}

		result, err := m.bridge.Run(ctx, config, filepath.Dir(path))
		if err != nil {
			return runDoneMsg{err: err}
		}

		text, err := value.MarshalIndent(result, "", "    ")
		if err != nil {
			return runDoneMsg{err: err}
		}
		return runDoneMsg{result: text}
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if m.state == stateInputPath && m.input.Value() != "" {
				m.state = stateRunning
				m.lastRun = m.input.Value()
				return m, tea.Batch(m.spin.Tick, m.runConfig(m.lastRun))
			}
		case "r":
			if m.state == stateShowResult {
				m.state = stateInputPath
				m.err = nil
				m.result = ""
				m.input.Focus()
				return m, textinput.Blink
			}
		case "q":
			if m.state == stateShowResult {
				return m, tea.Quit
			}
		}

	case runDoneMsg:
		m.state = stateShowResult
		m.err = msg.err
		m.result = msg.result
		return m, nil

	case spinner.TickMsg:
		if m.state == stateRunning {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.state == stateInputPath {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) View() string {
	s := titleStyle.Render("psl runtime") + "\n\n"

	switch m.state {
	case stateInputPath:
		s += "Configuration file:\n"
		s += m.input.View() + "\n\n"
		s += helpStyle.Render("enter: run • esc: quit")

	case stateRunning:
		s += fmt.Sprintf("%s running %s\n\n", m.spin.View(), m.lastRun)
		s += helpStyle.Render("esc: quit")

	case stateShowResult:
		if m.err != nil {
			s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
		} else {
			s += resultStyle.Render(m.result) + "\n\n"
		}
		s += helpStyle.Render("r: run another • q: quit")
	}

	return s + "\n"
}

func runInteractive(b *bridge.Bridge, configPath string) error {
	defer b.Shutdown(context.Background())

	p := tea.NewProgram(newInteractiveModel(b, configPath))
	_, err := p.Run()
	return err
}
