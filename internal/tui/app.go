package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"

	"github.com/mmcdole/campus/internal/domain"
	"github.com/mmcdole/campus/internal/state"
	"github.com/mmcdole/campus/internal/tui/components"
	"github.com/mmcdole/campus/internal/tui/styles"
	"github.com/mmcdole/campus/internal/view"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
	StateConfirmLogout
	StateConfirmDelete
)

// Screen is the top-level view being shown
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenCourses
	ScreenEnrollments
	ScreenUsers
)

// String returns the tab label for the screen
func (s Screen) String() string {
	switch s {
	case ScreenCourses:
		return "Courses"
	case ScreenEnrollments:
		return "My Courses"
	case ScreenUsers:
		return "Users"
	default:
		return "Sign in"
	}
}

// statusTTL is how long a status message stays in the footer
const statusTTL = 4 * time.Second

// Authenticator signs the user in and out
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
	Logout()
	IsAuthenticated() bool
}

// Dispatcher feeds actions to the central store
type Dispatcher interface {
	Dispatch(a state.Action)
	State() state.AppState
}

// CacheInvalidator drops cached backend data
type CacheInvalidator interface {
	InvalidateAll()
}

// FeedbackSubmitter stores reviews and counts an instructor's reviews
type FeedbackSubmitter interface {
	Submit(ctx context.Context, f domain.Feedback) (string, error)
	InstructorFeedbackCount(ctx context.Context, instructorID int64) (int64, error)
}

// InstructorDirectory looks up instructor profiles and their numbers
type InstructorDirectory interface {
	Details(ctx context.Context, id int64) (domain.InstructorDetails, error)
	Courses(ctx context.Context, id int64) ([]domain.InstructorCourse, error)
	AverageRating(ctx context.Context, id int64) (*float64, error)
	EnrollmentCount(ctx context.Context, id int64) (int64, error)
}

// UserDirectory is the admin account listing
type UserDirectory interface {
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, email string) (string, error)
}

// LinkOpener opens web links outside the terminal
type LinkOpener interface {
	Open(url string) error
}

// Services are the collaborators the UI drives
type Services struct {
	Auth        Authenticator
	Store       Dispatcher
	Cache       CacheInvalidator
	Feedback    FeedbackSubmitter
	Instructors InstructorDirectory
	Users       UserDirectory
	Links       LinkOpener
	Ratings     *view.RatingMemo
	Membership  *view.MembershipChecker
}

// Subscriptions are the event streams the UI listens to
type Subscriptions struct {
	State <-chan state.AppState
	Auth  <-chan bool
	Notes <-chan domain.Notification
}

// Options tune presentation
type Options struct {
	Server   string
	PageSize int
	Sort     view.CourseSort
}

// pendingDelete is the target awaiting confirmation
type pendingDelete struct {
	courseID int64
	title    string
	email    string
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State  ApplicationState
	Screen Screen
	Ready  bool

	svc  Services
	subs Subscriptions

	// Latest store snapshot
	app state.AppState

	// UI Components
	LoginForm     components.LoginForm
	Courses       *components.CourseList
	Users         *components.UserTable
	Inspector     components.Inspector
	SortModal     components.SortModal
	FeedbackModal components.FeedbackModal
	InputModal    components.InputModal
	Spinner       spinner.Model

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg      string
	StatusIsErr    bool
	enrollCursor   int
	instructor     *components.InstructorDetail
	pending        *pendingDelete
	ratingsAsked   map[int64]bool
	usersRequested bool
	busy           int // outstanding UI-initiated requests
}

// NewModel creates a new application model
func NewModel(svc Services, subs Subscriptions, opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.SpinnerStyle

	m := Model{
		State:         StateBrowsing,
		Screen:        ScreenLogin,
		svc:           svc,
		subs:          subs,
		LoginForm:     components.NewLoginForm(opts.Server),
		Courses:       components.NewCourseList(opts.PageSize, opts.Sort),
		Users:         components.NewUserTable(),
		Inspector:     components.NewInspector(),
		SortModal:     components.NewSortModal(),
		FeedbackModal: components.NewFeedbackModal(),
		InputModal:    components.NewInputModal(),
		Spinner:       sp,
		ratingsAsked:  make(map[int64]bool),
	}
	if svc.Auth.IsAuthenticated() {
		m.Screen = ScreenCourses
		m.app = svc.Store.State()
		m.Courses.SetLoading(true)
	}
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		WaitForStateCmd(m.subs.State),
		WaitForAuthCmd(m.subs.Auth),
		WaitForNotificationCmd(m.subs.Notes),
		m.Spinner.Tick,
	}
	// Loading starts from the first AuthChangedMsg, which the subscription
	// delivers immediately
	if m.Screen == ScreenLogin {
		cmds = append(cmds, textinput.Blink)
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case StateChangedMsg:
		prev := m.app
		m.app = msg.State
		m.syncFromState()

		cmds := []tea.Cmd{WaitForStateCmd(m.subs.State), m.ratingCmds()}
		if e := state.SelectError(m.app); e != "" && e != state.SelectError(prev) {
			cmds = append(cmds, m.setStatus(e, true))
		}
		if s := state.SelectMessage(m.app); s != "" && s != state.SelectMessage(prev) {
			cmds = append(cmds, m.setStatus(s, false))
		}
		return m, tea.Batch(cmds...)

	case AuthChangedMsg:
		cmds := []tea.Cmd{WaitForAuthCmd(m.subs.Auth)}
		if msg.Authenticated {
			if m.Screen == ScreenLogin {
				m.Screen = ScreenCourses
			}
			m.resetRatings()
			m.Courses.SetLoading(true)
			cmds = append(cmds, DispatchCmd(m.svc.Store, state.LoadCourses{}, state.LoadEnrollments{}))
			return m, tea.Batch(cmds...)
		}

		wasSignedIn := m.Screen != ScreenLogin
		m.Screen = ScreenLogin
		m.State = StateBrowsing
		m.instructor = nil
		m.pending = nil
		m.usersRequested = false
		m.Users = components.NewUserTable()
		m.FeedbackModal.Hide()
		m.resetRatings()
		cmds = append(cmds, m.LoginForm.Reset())
		if wasSignedIn {
			cmds = append(cmds, m.setStatus("Signed out", false))
		}
		return m, tea.Batch(cmds...)

	case NotificationMsg:
		return m, tea.Batch(
			WaitForNotificationCmd(m.subs.Notes),
			m.setStatus(msg.Note.Message, msg.Note.Level == domain.LevelError),
		)

	case LoginResultMsg:
		if msg.Err != nil {
			m.LoginForm.SetError(loginErrorText(msg.Err))
			return m, nil
		}
		return m, m.LoginForm.Reset()

	case RatingLoadedMsg:
		m.Courses.SetRating(msg.CourseID, msg.Rating)
		m.updateInspector()
		return m, nil

	case EnrollmentCheckedMsg:
		m.busy--
		if !msg.Enrolled {
			return m, m.setStatus("Enroll in this course to leave feedback", true)
		}
		return m, m.FeedbackModal.Show(msg.Course.CourseID(), msg.Course.Title)

	case FeedbackSubmittedMsg:
		m.busy--
		m.FeedbackModal.Hide()
		// New review changes the average; refetch it
		m.svc.Ratings.Reset()
		delete(m.ratingsAsked, msg.CourseID)
		return m, tea.Batch(m.setStatus(msg.Message, false), LoadRatingCmd(m.svc.Ratings, msg.CourseID))

	case InstructorLoadedMsg:
		m.busy--
		detail := msg.Detail
		m.instructor = &detail
		m.updateInspector()
		return m, nil

	case UsersLoadedMsg:
		m.busy--
		m.Users.SetUsers(msg.Users)
		return m, nil

	case UserDeletedMsg:
		// busy carries over to the reload
		text := msg.Message
		if text == "" {
			text = "Deleted " + msg.Email
		}
		return m, tea.Batch(m.setStatus(text, false), LoadUsersCmd(m.svc.Users))

	case LinkOpenedMsg:
		return m, m.setStatus("Opened "+msg.URL, false)

	case ErrMsg:
		if m.busy > 0 {
			m.busy--
		}
		if m.FeedbackModal.IsVisible() {
			m.FeedbackModal.SetError(domain.Message(msg.Err, msg.Err.Error()))
			return m, nil
		}
		if m.Screen == ScreenUsers {
			m.Users.SetLoading(false)
		}
		return m, m.setStatus(msg.Error(), true)

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		if state.SelectError(m.app) != "" || state.SelectMessage(m.app) != "" {
			return m, DispatchCmd(m.svc.Store, state.ClearCourseError{})
		}
		return m, nil
	}

	// Route remaining messages (cursor blink) to focused inputs
	return m.routeToInputs(msg)
}

func (m Model) routeToInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.Screen == ScreenLogin:
		m.LoginForm, cmd, _ = m.LoginForm.Update(msg)
	case m.FeedbackModal.IsVisible():
		m.FeedbackModal, cmd, _ = m.FeedbackModal.Update(msg)
	case m.InputModal.IsVisible():
		m.InputModal, cmd, _ = m.InputModal.Update(msg)
	case m.Courses.IsFiltering():
		cmd = m.Courses.Update(msg)
	}
	return m, cmd
}

// syncFromState copies the store snapshot into the components
func (m *Model) syncFromState() {
	m.Courses.SetCourses(state.SelectCourses(m.app))
	m.Courses.SetLoading(m.app.Course.CoursesStatus == state.StatusLoading)

	enrolled := make(map[int64]bool)
	for _, e := range state.SelectUserEnrollments(m.app) {
		enrolled[e.CourseID] = true
	}
	m.Courses.SetEnrolled(enrolled)

	if n := len(state.SelectUserEnrollments(m.app)); m.enrollCursor >= n {
		m.enrollCursor = max(n-1, 0)
	}
	m.updateInspector()
}

// ratingCmds fetches averages for the visible page
func (m *Model) ratingCmds() tea.Cmd {
	var cmds []tea.Cmd
	for _, c := range m.Courses.PageCourses() {
		id := c.CourseID()
		if id == 0 || m.ratingsAsked[id] {
			continue
		}
		m.ratingsAsked[id] = true
		if r, ok := m.svc.Ratings.Peek(id); ok {
			m.Courses.SetRating(id, r)
			continue
		}
		cmds = append(cmds, LoadRatingCmd(m.svc.Ratings, id))
	}
	return tea.Batch(cmds...)
}

func (m *Model) resetRatings() {
	m.svc.Ratings.Reset()
	m.Courses.ClearRatings()
	m.ratingsAsked = make(map[int64]bool)
}

// updateInspector shows the instructor profile or the selected course
func (m *Model) updateInspector() {
	if m.instructor != nil {
		m.Inspector.SetItem(*m.instructor)
		return
	}

	var course domain.Course
	var ok bool
	switch m.Screen {
	case ScreenCourses:
		course, ok = m.Courses.Selected()
	case ScreenEnrollments:
		course, ok = m.selectedEnrollmentCourse()
	}
	if !ok {
		m.Inspector.SetItem(nil)
		return
	}

	id := course.CourseID()
	rating, hasRating := m.svc.Ratings.Peek(id)
	m.Inspector.SetItem(components.CourseDetail{
		Course:    course,
		Rating:    rating,
		HasRating: hasRating,
		Enrolled:  state.SelectIsEnrolled(m.app, id),
		IsAdmin:   state.SelectIsAdmin(m.app),
	})
}

// selectedEnrollmentCourse returns the enrollment under the cursor as a course
func (m Model) selectedEnrollmentCourse() (domain.Course, bool) {
	list := state.SelectUserEnrollments(m.app)
	if m.enrollCursor < 0 || m.enrollCursor >= len(list) {
		return domain.Course{}, false
	}
	e := list[m.enrollCursor]
	if c, ok := state.SelectCourseByID(m.app, e.CourseID); ok {
		return c, true
	}
	id := e.CourseID
	c := domain.Course{
		ID:         &id,
		Title:      e.CourseName,
		Body:       e.Body,
		ImageURL:   e.ImageURL,
		Price:      e.Price,
		Instructor: e.Instructor,
	}
	if e.InstructorID != nil {
		c.InstructorID = *e.InstructorID
	}
	return c, true
}

// tabs returns the screens available to the current role
func (m Model) tabs() []Screen {
	if state.SelectIsAdmin(m.app) {
		return []Screen{ScreenCourses, ScreenUsers}
	}
	return []Screen{ScreenCourses, ScreenEnrollments}
}

func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.StatusMsg = msg
	m.StatusIsErr = isErr
	return ClearStatusCmd(statusTTL)
}

// loading reports whether anything is in flight
func (m Model) loading() bool {
	return m.busy > 0 ||
		m.LoginForm.Submitting() ||
		m.app.Course.CoursesStatus == state.StatusLoading ||
		m.app.Course.EnrollmentsStatus == state.StatusLoading
}

func loginErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Invalid username or password"
	case errors.Is(err, domain.ErrMalformedToken):
		return "The server returned an unreadable token"
	case errors.Is(err, domain.ErrServerOffline):
		return "Server is offline"
	default:
		return domain.Message(err, "Login failed")
	}
}
