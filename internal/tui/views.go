package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/campus/internal/state"
	"github.com/mmcdole/campus/internal/tui/components"
	"github.com/mmcdole/campus/internal/tui/styles"
)

// Layout proportions
const (
	ListColumnPercent = 60 // course list, inspector takes the rest
	MinColumnWidth    = 30

	// Header line plus footer line
	ChromeHeight = 2
)

// updateLayout sizes the components for the terminal
func (m *Model) updateLayout() {
	contentHeight := max(m.Height-ChromeHeight, 3)
	listWidth := max(m.Width*ListColumnPercent/100, MinColumnWidth)

	m.Courses.SetSize(listWidth, contentHeight)
	m.Inspector.SetSize(max(m.Width-listWidth, MinColumnWidth), contentHeight)
	m.Users.SetSize(m.Width, contentHeight)
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	switch m.State {
	case StateHelp:
		return m.renderHelp()
	case StateConfirmLogout:
		return m.renderLogoutConfirmation()
	case StateConfirmDelete:
		return m.renderDeleteConfirmation()
	}

	if m.Screen == ScreenLogin {
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.Place(m.Width, m.Height-1, lipgloss.Center, lipgloss.Center, m.LoginForm.View()),
			m.renderFooter(),
		)
	}

	var content string
	switch m.Screen {
	case ScreenCourses:
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.Courses.View(), m.Inspector.View())
	case ScreenEnrollments:
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.renderEnrollments(), m.Inspector.View())
	case ScreenUsers:
		content = m.Users.View()
	}

	view := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		content,
		m.renderFooter(),
	)

	// Overlay modals if visible
	switch {
	case m.SortModal.IsVisible():
		view = lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, m.SortModal.View())
	case m.FeedbackModal.IsVisible():
		view = lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, m.FeedbackModal.View())
	case m.InputModal.IsVisible():
		view = lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, m.InputModal.View())
	}

	return view
}

// renderHeader renders the tab bar and the signed-in user
func (m Model) renderHeader() string {
	var tabs []string
	for _, s := range m.tabs() {
		if s == m.Screen {
			tabs = append(tabs, styles.ActiveTabStyle.Render(s.String()))
		} else {
			tabs = append(tabs, styles.TabStyle.Render(s.String()))
		}
	}
	left := strings.Join(tabs, " ")

	right := ""
	if user := state.SelectUsername(m.app); user != "" {
		right = styles.SubtitleStyle.Render(user)
		if state.SelectIsAdmin(m.app) {
			right += styles.AccentStyle.Render(" (admin)")
		}
	}

	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// renderEnrollments renders the signed-in user's courses
func (m Model) renderEnrollments() string {
	width := max(m.Width*ListColumnPercent/100, MinColumnWidth)
	height := max(m.Height-ChromeHeight, 3)
	itemWidth := width - components.BorderWidth - 2

	list := state.SelectUserEnrollments(m.app)
	lines := []string{styles.AccentStyle.Render(fmt.Sprintf("My Courses · %d", len(list))), ""}
	if len(list) == 0 {
		lines = append(lines, styles.DimStyle.Render("You have not enrolled in any courses yet"))
	}
	for i, e := range list {
		price := styles.PriceStyle.Render(fmt.Sprintf("$%.2f", e.Price))
		instructor := styles.DimStyle.Render(styles.Truncate(e.Instructor, 20))
		nameWidth := max(itemWidth-lipgloss.Width(price)-lipgloss.Width(instructor)-2, 5)
		row := styles.Pad(styles.Truncate(e.CourseName, nameWidth), nameWidth) + " " + instructor + " " + price

		style := styles.NormalItemStyle
		if i == m.enrollCursor {
			style = styles.SelectedItemStyle
		}
		lines = append(lines, style.Render(row))
	}

	return styles.ActiveBorder.
		Width(width - components.BorderWidth).
		Height(height - components.BorderHeight).
		Render(strings.Join(lines, "\n"))
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	var left string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.SuccessStyle.Render(m.StatusMsg)
	case m.loading():
		left = m.Spinner.View() + " " + styles.DimStyle.Render("Loading...")
	}

	var hints []string
	hint := func(k, desc string) {
		hints = append(hints, styles.HelpKeyStyle.Render(k)+styles.HelpDescStyle.Render(" "+desc))
	}
	switch m.Screen {
	case ScreenCourses:
		hint("/", "filter")
		hint("s", "sort")
		if state.SelectIsAdmin(m.app) {
			hint("x", "delete")
		} else {
			hint("enter", "enroll")
		}
	case ScreenEnrollments:
		hint("f", "review")
	case ScreenUsers:
		hint("1-3", "sort")
		hint("x", "delete")
	}
	if m.Screen != ScreenLogin {
		hint("tab", "switch")
		hint("?", "help")
	}
	right := strings.Join(hints, "  ")

	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
NAVIGATION                      COURSES
  j/k        Up/down               Enter  Enroll
  h/l        Previous/next page    f      Leave feedback
  Tab        Switch view           i      Instructor profile
  /          Filter                o      Open image or profile link
  s          Sort                  x      Delete (admin)
  Esc        Close / Cancel

USERS (ADMIN)                   OTHER
  1/2/3      Sort by column        r      Refresh
  /          Filter                L      Logout
  x          Delete user           q      Quit
                                   ?      This help

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// renderLogoutConfirmation renders the logout confirmation modal
func (m Model) renderLogoutConfirmation() string {
	modal := `
              Log Out?

  This will forget your session on
  this machine and in other windows.

        [Y] Yes      [N] No
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(modal))
}

// renderDeleteConfirmation asks before removing a course or user
func (m Model) renderDeleteConfirmation() string {
	what := ""
	if m.pending != nil {
		if m.pending.email != "" {
			what = "user " + m.pending.title + " <" + m.pending.email + ">"
		} else {
			what = "course " + fmt.Sprintf("%q", m.pending.title)
		}
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		styles.ModalTitleStyle.Render("Delete?"),
		styles.SubtitleStyle.Render(styles.Truncate(what, 50)),
		"",
		"[Y] Yes      [N] No",
	)
	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(body))
}
