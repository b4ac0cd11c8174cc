package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/campus/internal/domain"
	"github.com/mmcdole/campus/internal/tui/styles"
)

// Rating bounds for reviews
const (
	MinRating  = 0.5
	MaxRating  = 5.0
	RatingStep = 0.5
)

// FeedbackModal collects a rating and comments for one course
type FeedbackModal struct {
	visible       bool
	courseID      int64
	courseName    string
	rating        float64
	ratingFocused bool
	comments      textinput.Model
	err           string
	submitting    bool
}

// NewFeedbackModal creates a new feedback modal
func NewFeedbackModal() FeedbackModal {
	ti := textinput.New()
	ti.Placeholder = "What did you think? (10-500 characters)"
	ti.CharLimit = 500
	ti.Width = 44
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return FeedbackModal{comments: ti, rating: MaxRating}
}

// Show opens the modal for a course
func (m *FeedbackModal) Show(courseID int64, courseName string) tea.Cmd {
	m.visible = true
	m.courseID = courseID
	m.courseName = courseName
	m.rating = MaxRating
	m.ratingFocused = true
	m.err = ""
	m.submitting = false
	m.comments.SetValue("")
	m.comments.Blur()
	return nil
}

// Hide dismisses the modal
func (m *FeedbackModal) Hide() {
	m.visible = false
	m.comments.Blur()
}

// IsVisible returns whether the modal is shown
func (m FeedbackModal) IsVisible() bool {
	return m.visible
}

// SetError shows a failure inside the modal and re-enables input
func (m *FeedbackModal) SetError(msg string) {
	m.err = msg
	m.submitting = false
}

// Rating returns the selected rating
func (m FeedbackModal) Rating() float64 {
	return m.rating
}

// Feedback builds the review for username
func (m FeedbackModal) Feedback(username string) domain.Feedback {
	return domain.Feedback{
		Username:   username,
		CourseID:   m.courseID,
		CourseName: m.courseName,
		Rating:     m.rating,
		Comments:   m.comments.Value(),
	}
}

// Update handles input events, returns (modal, cmd, submitted)
func (m FeedbackModal) Update(msg tea.Msg) (FeedbackModal, tea.Cmd, bool) {
	if !m.visible || m.submitting {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.Hide()
			return m, nil, false
		case "enter":
			m.err = ""
			m.submitting = true
			return m, nil, true
		case "tab", "shift+tab":
			m.ratingFocused = !m.ratingFocused
			if m.ratingFocused {
				m.comments.Blur()
				return m, nil, false
			}
			return m, m.comments.Focus(), false
		}

		if m.ratingFocused {
			switch keyMsg.String() {
			case "left", "h", "-":
				m.rating = max(m.rating-RatingStep, MinRating)
			case "right", "l", "+", "=":
				m.rating = min(m.rating+RatingStep, MaxRating)
			}
			return m, nil, false
		}
	}

	var cmd tea.Cmd
	m.comments, cmd = m.comments.Update(msg)
	return m, cmd, false
}

// View renders the feedback modal
func (m FeedbackModal) View() string {
	if !m.visible {
		return ""
	}

	label := func(text string, focused bool) string {
		if focused {
			return styles.AccentStyle.Render("› " + text)
		}
		return styles.DimStyle.Render("  " + text)
	}

	rating := fmt.Sprintf("%s %.1f", styles.RenderStars(m.rating), m.rating)
	lines := []string{
		styles.ModalTitleStyle.Render("Review: " + styles.Truncate(m.courseName, 40)),
		label("Rating  ←/→", m.ratingFocused) + "  " + rating,
		"",
		label("Comments", !m.ratingFocused),
		"  " + m.comments.View(),
		styles.DimStyle.Render(fmt.Sprintf("  %d/500", len([]rune(m.comments.Value())))),
	}
	switch {
	case m.submitting:
		lines = append(lines, "", styles.DimStyle.Render("Submitting..."))
	case m.err != "":
		lines = append(lines, "", styles.ErrorStyle.Render(m.err))
	}
	lines = append(lines, "", styles.HelpKeyStyle.Render("tab")+styles.HelpDescStyle.Render(" switch  ")+
		styles.HelpKeyStyle.Render("enter")+styles.HelpDescStyle.Render(" submit  ")+
		styles.HelpKeyStyle.Render("esc")+styles.HelpDescStyle.Render(" cancel"))

	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
