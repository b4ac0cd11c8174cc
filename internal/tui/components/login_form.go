package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/campus/internal/tui/styles"
)

// LoginForm collects a username and password
type LoginForm struct {
	inputs     []textinput.Model
	focus      int
	err        string
	submitting bool
	server     string
}

const (
	fieldUsername = iota
	fieldPassword
)

// NewLoginForm creates a login form for the given backend
func NewLoginForm(server string) LoginForm {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Prompt = "Username: "
	username.PromptStyle = styles.SubtitleStyle

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.Prompt = "Password: "
	password.PromptStyle = styles.SubtitleStyle
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	f := LoginForm{inputs: []textinput.Model{username, password}, server: server}
	f.inputs[fieldUsername].Focus()
	return f
}

// Reset clears the form for a fresh attempt
func (f *LoginForm) Reset() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	f.focus = fieldUsername
	f.submitting = false
	return f.inputs[fieldUsername].Focus()
}

// SetError shows a failed attempt and re-enables input
func (f *LoginForm) SetError(msg string) {
	f.err = msg
	f.submitting = false
	f.inputs[fieldPassword].SetValue("")
}

// Credentials returns the trimmed username and the password
func (f LoginForm) Credentials() (string, string) {
	return strings.TrimSpace(f.inputs[fieldUsername].Value()), f.inputs[fieldPassword].Value()
}

// Submitting returns true while a login request is outstanding
func (f LoginForm) Submitting() bool {
	return f.submitting
}

// Update handles input events, returns (form, cmd, submitted)
func (f LoginForm) Update(msg tea.Msg) (LoginForm, tea.Cmd, bool) {
	if f.submitting {
		return f, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "down", "shift+tab", "up":
			return f, f.setFocus(1 - f.focus), false
		case "enter":
			if f.focus == fieldUsername {
				return f, f.setFocus(fieldPassword), false
			}
			username, password := f.Credentials()
			if username == "" || password == "" {
				f.err = "Username and password are required"
				return f, nil, false
			}
			f.err = ""
			f.submitting = true
			return f, nil, true
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

func (f *LoginForm) setFocus(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = i
	return f.inputs[i].Focus()
}

// View renders the login form
func (f LoginForm) View() string {
	lines := []string{
		styles.ModalTitleStyle.Render("Sign in to campus"),
		styles.DimStyle.Render(f.server),
		"",
		f.inputs[fieldUsername].View(),
		f.inputs[fieldPassword].View(),
		"",
	}
	switch {
	case f.submitting:
		lines = append(lines, styles.DimStyle.Render("Signing in..."))
	case f.err != "":
		lines = append(lines, styles.ErrorStyle.Render(f.err))
	default:
		lines = append(lines, styles.DimStyle.Render("enter to continue · ctrl+c to quit"))
	}
	return styles.ModalStyle.Width(50).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
