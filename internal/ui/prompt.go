package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrPromptCancelled is returned when the user leaves a prompt with Esc or Ctrl+C.
var ErrPromptCancelled = errors.New("input cancelled")

// PromptPassword asks for a secret without echoing it.
func PromptPassword(label string) (string, error) {
	p := tea.NewProgram(newPasswordModel(label))
	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("error running prompt: %w", err)
	}
	result := finalModel.(passwordModel)
	if result.quit {
		return "", ErrPromptCancelled
	}
	return result.value, nil
}

type passwordModel struct {
	label     string
	textInput textinput.Model
	value     string
	quit      bool
}

func newPasswordModel(label string) passwordModel {
	ti := textinput.New()
	ti.Placeholder = "password"
	ti.EchoMode = textinput.EchoPassword
	ti.CharLimit = 128
	ti.Width = 40
	ti.Focus()
	return passwordModel{label: label, textInput: ti}
}

func (m passwordModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m passwordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			m.value = m.textInput.Value()
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quit = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m passwordModel) View() string {
	return "\n" + StyleTitle.Render(m.label) + "\n\n" +
		m.textInput.View() + "\n\n" +
		StyleSubtle.Render("Press Enter to confirm • Esc to cancel") + "\n"
}
