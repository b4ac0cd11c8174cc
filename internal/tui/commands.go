package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/campus/internal/domain"
	"github.com/mmcdole/campus/internal/state"
	"github.com/mmcdole/campus/internal/tui/components"
	"github.com/mmcdole/campus/internal/view"
)

// Command factories for async operations

// requestTimeout bounds every backend call started from the UI
const requestTimeout = 30 * time.Second

// WaitForStateCmd delivers the next store snapshot
func WaitForStateCmd(ch <-chan state.AppState) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return StateChangedMsg{State: st}
	}
}

// WaitForAuthCmd delivers the next authentication change
func WaitForAuthCmd(ch <-chan bool) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		authenticated, ok := <-ch
		if !ok {
			return nil
		}
		return AuthChangedMsg{Authenticated: authenticated}
	}
}

// WaitForNotificationCmd delivers the next service notification
func WaitForNotificationCmd(ch <-chan domain.Notification) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		note, ok := <-ch
		if !ok {
			return nil
		}
		return NotificationMsg{Note: note}
	}
}

// DispatchCmd sends actions to the store
func DispatchCmd(store Dispatcher, actions ...state.Action) tea.Cmd {
	return func() tea.Msg {
		for _, a := range actions {
			store.Dispatch(a)
		}
		return nil
	}
}

// LoginCmd signs in with the given credentials
func LoginCmd(auth Authenticator, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		_, err := auth.Login(ctx, username, password)
		return LoginResultMsg{Err: err}
	}
}

// LoadRatingCmd resolves a course's average rating
func LoadRatingCmd(memo *view.RatingMemo, courseID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return RatingLoadedMsg{CourseID: courseID, Rating: memo.Average(ctx, courseID)}
	}
}

// SubmitFeedbackCmd stores a review
func SubmitFeedbackCmd(svc FeedbackSubmitter, fb domain.Feedback) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		msg, err := svc.Submit(ctx, fb)
		if err != nil {
			return ErrMsg{Err: err, Context: "submitting feedback"}
		}
		if msg == "" {
			msg = "Feedback submitted"
		}
		return FeedbackSubmittedMsg{CourseID: fb.CourseID, Message: msg}
	}
}

// CheckEnrollmentCmd confirms membership before a review is written
func CheckEnrollmentCmd(checker *view.MembershipChecker, snapshot []domain.Enrollment, course domain.Course, username string, isAdmin bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		enrolled := checker.IsEnrolled(ctx, snapshot, course.CourseID(), username, isAdmin)
		return EnrollmentCheckedMsg{Course: course, Enrolled: enrolled}
	}
}

// LoadInstructorCmd fetches an instructor profile. Only the profile is
// required; stats that fail to load are left at their zero values.
func LoadInstructorCmd(svc InstructorDirectory, feedback FeedbackSubmitter, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		details, err := svc.Details(ctx, id)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading instructor"}
		}
		detail := components.InstructorDetail{Profile: details}
		if taught, err := svc.Courses(ctx, id); err == nil {
			detail.Taught = taught
		}
		if rating, err := svc.AverageRating(ctx, id); err == nil {
			detail.Rating = rating
		}
		if n, err := svc.EnrollmentCount(ctx, id); err == nil {
			detail.Enrollments = n
		}
		if n, err := feedback.InstructorFeedbackCount(ctx, id); err == nil {
			detail.Reviews = n
		}
		return InstructorLoadedMsg{Detail: detail}
	}
}

// LoadUsersCmd fetches the admin user listing
func LoadUsersCmd(svc UserDirectory) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		users, err := svc.List(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return UsersLoadedMsg{Users: users}
	}
}

// DeleteUserCmd removes an account by email
func DeleteUserCmd(svc UserDirectory, email string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		msg, err := svc.Delete(ctx, email)
		if err != nil {
			return ErrMsg{Err: err, Context: "deleting user"}
		}
		return UserDeletedMsg{Email: email, Message: msg}
	}
}

// OpenLinkCmd hands a link to the browser
func OpenLinkCmd(opener LinkOpener, url string) tea.Cmd {
	return func() tea.Msg {
		if err := opener.Open(url); err != nil {
			return StatusMsg{Message: "Could not open link: " + err.Error(), IsError: true}
		}
		return LinkOpenedMsg{URL: url}
	}
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
