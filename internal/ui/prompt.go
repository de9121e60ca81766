package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrAborted is returned when the operator interrupts a prompt.
var ErrAborted = errors.New("prompt aborted")

// Prompter asks the operator questions. It is the only interactive surface
// of the tool.
type Prompter interface {
	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, question string) (bool, error)
	// Acknowledge shows message and waits for any key.
	Acknowledge(ctx context.Context, message string) error
}

// IsYes reports whether an answer starts with y or Y.
func IsYes(answer string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y")
}

// TerminalPrompter runs prompts as small bubbletea programs.
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer
}

func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{In: os.Stdin, Out: os.Stdout}
}

func (t *TerminalPrompter) Confirm(ctx context.Context, question string) (bool, error) {
	m, err := t.run(ctx, newPromptModel(question, false))
	if err != nil {
		return false, err
	}
	return IsYes(m.input.Value()), nil
}

func (t *TerminalPrompter) Acknowledge(ctx context.Context, message string) error {
	_, err := t.run(ctx, newPromptModel(message, true))
	return err
}

func (t *TerminalPrompter) run(ctx context.Context, m promptModel) (promptModel, error) {
	p := tea.NewProgram(m, tea.WithInput(t.In), tea.WithOutput(t.Out), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return m, fmt.Errorf("prompt failed: %w", err)
	}
	result, ok := final.(promptModel)
	if !ok {
		return m, fmt.Errorf("prompt failed: unexpected model %T", final)
	}
	if result.aborted {
		return result, ErrAborted
	}
	return result, nil
}

var questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarn)).Bold(true)

type promptModel struct {
	question string
	anyKey   bool
	input    textinput.Model
	done     bool
	aborted  bool
}

func newPromptModel(question string, anyKey bool) promptModel {
	ti := textinput.New()
	ti.Placeholder = "y/n"
	ti.CharLimit = 16
	ti.Focus()
	return promptModel{question: question, anyKey: anyKey, input: ti}
}

func (m promptModel) Init() tea.Cmd {
	if m.anyKey {
		return nil
	}
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Type == tea.KeyCtrlC:
			m.aborted = true
			return m, tea.Quit
		case m.anyKey, key.Type == tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		}
	}
	if m.anyKey {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || m.aborted {
		if m.anyKey {
			return questionStyle.Render(m.question) + "\n"
		}
		return questionStyle.Render(m.question) + " " + m.input.Value() + "\n"
	}
	if m.anyKey {
		return questionStyle.Render(m.question) + "\n"
	}
	return questionStyle.Render(m.question) + " " + m.input.View() + "\n"
}
