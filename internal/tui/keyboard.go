package tui

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/campus/internal/state"
	"github.com/mmcdole/campus/internal/view"
)

// handleKeyMsg routes a key press to the active modal, form or screen
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.State {
	case StateHelp:
		m.State = StateBrowsing
		return m, nil
	case StateConfirmLogout:
		return m.handleLogoutConfirm(msg)
	case StateConfirmDelete:
		return m.handleDeleteConfirm(msg)
	}

	if m.Screen == ScreenLogin {
		var cmd tea.Cmd
		var submitted bool
		m.LoginForm, cmd, submitted = m.LoginForm.Update(msg)
		if submitted {
			username, password := m.LoginForm.Credentials()
			return m, LoginCmd(m.svc.Auth, username, password)
		}
		return m, cmd
	}

	if m.FeedbackModal.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.FeedbackModal, cmd, submitted = m.FeedbackModal.Update(msg)
		if submitted {
			m.busy++
			fb := m.FeedbackModal.Feedback(state.SelectUsername(m.app))
			return m, SubmitFeedbackCmd(m.svc.Feedback, fb)
		}
		return m, cmd
	}

	if m.SortModal.IsVisible() {
		_, selection := m.SortModal.HandleKey(msg.String())
		if selection != nil {
			m.Courses.SetSort(*selection)
			m.updateInspector()
			return m, m.ratingCmds()
		}
		return m, nil
	}

	if m.InputModal.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.InputModal, cmd, submitted = m.InputModal.Update(msg)
		if submitted {
			m.Users.SetQuery(m.InputModal.Value())
		}
		return m, cmd
	}

	if m.Screen == ScreenCourses && m.Courses.IsFiltering() {
		cmd := m.Courses.Update(msg)
		m.updateInspector()
		return m, tea.Batch(cmd, m.ratingCmds())
	}

	if m.instructor != nil {
		return m.handleInstructorKeys(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil
	case key.Matches(msg, Keys.Logout):
		m.State = StateConfirmLogout
		return m, nil
	case key.Matches(msg, Keys.NextTab):
		return m.nextTab()
	case key.Matches(msg, Keys.Refresh):
		return m.refresh()
	}

	switch m.Screen {
	case ScreenCourses:
		return m.handleCourseKeys(msg)
	case ScreenEnrollments:
		return m.handleEnrollmentKeys(msg)
	case ScreenUsers:
		return m.handleUserKeys(msg)
	}
	return m, nil
}

func (m Model) handleCourseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Up):
		m.Courses.MoveUp()
	case key.Matches(msg, Keys.Down):
		m.Courses.MoveDown()
	case key.Matches(msg, Keys.PrevPage):
		m.Courses.PrevPage()
	case key.Matches(msg, Keys.NextPage):
		m.Courses.NextPage()
	case key.Matches(msg, Keys.Filter):
		return m, m.Courses.StartFilter()
	case key.Matches(msg, Keys.Sort):
		m.SortModal.Show(m.Courses.Sort())
		return m, nil
	case key.Matches(msg, Keys.Escape):
		if m.Courses.FilterQuery() != "" {
			m.Courses.ClearFilter()
		}
	case key.Matches(msg, Keys.Enroll):
		course, ok := m.Courses.Selected()
		if !ok {
			return m, nil
		}
		if state.SelectIsAdmin(m.app) {
			return m, m.setStatus("Administrators cannot enroll in courses", true)
		}
		if state.SelectIsEnrolled(m.app, course.CourseID()) {
			return m, m.setStatus("You are already enrolled in this course", false)
		}
		return m, DispatchCmd(m.svc.Store, state.EnrollUser{CourseID: course.CourseID(), CourseName: course.Title})
	case key.Matches(msg, Keys.Feedback):
		course, ok := m.Courses.Selected()
		if !ok {
			return m, nil
		}
		m.busy++
		return m, CheckEnrollmentCmd(m.svc.Membership, state.SelectEnrollments(m.app), course,
			state.SelectUsername(m.app), state.SelectIsAdmin(m.app))
	case key.Matches(msg, Keys.Instructor):
		if course, ok := m.Courses.Selected(); ok {
			return m.showInstructor(course.InstructorID)
		}
	case key.Matches(msg, Keys.Open):
		if course, ok := m.Courses.Selected(); ok && course.ImageURL != "" {
			return m, OpenLinkCmd(m.svc.Links, course.ImageURL)
		}
	case key.Matches(msg, Keys.Delete):
		course, ok := m.Courses.Selected()
		if !ok || !state.SelectIsAdmin(m.app) {
			return m, nil
		}
		m.pending = &pendingDelete{courseID: course.CourseID(), title: course.Title}
		m.State = StateConfirmDelete
		return m, nil
	default:
		return m, nil
	}

	m.updateInspector()
	return m, m.ratingCmds()
}

func (m Model) handleEnrollmentKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(state.SelectUserEnrollments(m.app))
	switch {
	case key.Matches(msg, Keys.Up):
		if m.enrollCursor > 0 {
			m.enrollCursor--
		}
	case key.Matches(msg, Keys.Down):
		if m.enrollCursor < n-1 {
			m.enrollCursor++
		}
	case key.Matches(msg, Keys.Feedback):
		if course, ok := m.selectedEnrollmentCourse(); ok {
			return m, m.FeedbackModal.Show(course.CourseID(), course.Title)
		}
	case key.Matches(msg, Keys.Instructor):
		if course, ok := m.selectedEnrollmentCourse(); ok {
			return m.showInstructor(course.InstructorID)
		}
	case key.Matches(msg, Keys.Open):
		if course, ok := m.selectedEnrollmentCourse(); ok && course.ImageURL != "" {
			return m, OpenLinkCmd(m.svc.Links, course.ImageURL)
		}
	}
	m.updateInspector()
	return m, nil
}

func (m Model) handleUserKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Up):
		m.Users.MoveUp()
	case key.Matches(msg, Keys.Down):
		m.Users.MoveDown()
	case key.Matches(msg, Keys.PrevPage):
		m.Users.PrevPage()
	case key.Matches(msg, Keys.NextPage):
		m.Users.NextPage()
	case key.Matches(msg, Keys.Filter):
		return m, m.InputModal.Show("Filter users", "name, username or email", m.Users.Query())
	case key.Matches(msg, Keys.Escape):
		m.Users.SetQuery("")
	case msg.String() == "1":
		m.Users.SortBy(view.UserSortName)
	case msg.String() == "2":
		m.Users.SortBy(view.UserSortUsername)
	case msg.String() == "3":
		m.Users.SortBy(view.UserSortEmail)
	case key.Matches(msg, Keys.Delete):
		if u, ok := m.Users.Selected(); ok {
			m.pending = &pendingDelete{email: u.Email, title: u.Username}
			m.State = StateConfirmDelete
		}
	}
	return m, nil
}

func (m Model) handleInstructorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Escape), key.Matches(msg, Keys.Quit), key.Matches(msg, Keys.Instructor):
		m.instructor = nil
		m.updateInspector()
	case key.Matches(msg, Keys.Up):
		m.Inspector.ScrollUp()
	case key.Matches(msg, Keys.Down):
		m.Inspector.ScrollDown()
	case key.Matches(msg, Keys.Open):
		for _, link := range []string{m.instructor.Profile.GithubURL, m.instructor.Profile.TwitterURL, m.instructor.Profile.PhotoURL} {
			if link != "" {
				return m, OpenLinkCmd(m.svc.Links, link)
			}
		}
		return m, m.setStatus("No profile links", false)
	}
	return m, nil
}

func (m Model) handleLogoutConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Confirm):
		m.State = StateBrowsing
		// The resulting AuthChangedMsg returns to the login screen
		m.svc.Auth.Logout()
	case key.Matches(msg, Keys.Deny):
		m.State = StateBrowsing
	}
	return m, nil
}

func (m Model) handleDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Confirm):
		target := m.pending
		m.pending = nil
		m.State = StateBrowsing
		if target == nil {
			return m, nil
		}
		if target.email != "" {
			m.busy++
			return m, DeleteUserCmd(m.svc.Users, target.email)
		}
		return m, DispatchCmd(m.svc.Store, state.DeleteCourse{CourseID: target.courseID})
	case key.Matches(msg, Keys.Deny):
		m.pending = nil
		m.State = StateBrowsing
	}
	return m, nil
}

func (m Model) showInstructor(id int64) (tea.Model, tea.Cmd) {
	if id == 0 {
		return m, m.setStatus("No instructor on record", false)
	}
	m.busy++
	return m, LoadInstructorCmd(m.svc.Instructors, m.svc.Feedback, id)
}

func (m Model) nextTab() (tea.Model, tea.Cmd) {
	tabs := m.tabs()
	i := slices.Index(tabs, m.Screen)
	m.Screen = tabs[(i+1)%len(tabs)]
	m.instructor = nil
	m.updateLayout()
	m.updateInspector()

	if m.Screen == ScreenUsers && !m.usersRequested {
		m.usersRequested = true
		m.busy++
		return m, LoadUsersCmd(m.svc.Users)
	}
	return m, nil
}

// refresh drops cached data and reloads the current screen
func (m Model) refresh() (tea.Model, tea.Cmd) {
	if m.Screen == ScreenUsers {
		m.Users.SetLoading(true)
		m.busy++
		return m, LoadUsersCmd(m.svc.Users)
	}
	m.svc.Cache.InvalidateAll()
	m.resetRatings()
	return m, DispatchCmd(m.svc.Store, state.LoadCourses{}, state.LoadEnrollments{})
}
