package components

import (
	"fmt"
	"strings"

	"github.com/mmcdole/campus/internal/domain"
	"github.com/mmcdole/campus/internal/tui/styles"
)

// Layout constants for inspector
const (
	InspectorBorderHeight     = 2
	InspectorScrollIndicators = 2
)

// inspectorContent holds the three-zone layout content
type inspectorContent struct {
	header string // fixed top
	body   string // scrollable middle
	footer string // fixed bottom
}

// CourseDetail is what the inspector shows for a catalog entry
type CourseDetail struct {
	Course    domain.Course
	Rating    float64
	HasRating bool
	Enrolled  bool
	IsAdmin   bool
}

// InstructorDetail is what the inspector shows for an instructor. Rating
// is nil when nobody has rated them yet.
type InstructorDetail struct {
	Profile     domain.InstructorDetails
	Taught      []domain.InstructorCourse
	Rating      *float64
	Enrollments int64
	Reviews     int64
}

// Inspector displays details for the selected course or instructor
type Inspector struct {
	item       any
	width      int
	height     int
	offset     int // scroll offset
	maxVisible int // max visible lines
}

// NewInspector creates a new inspector component
func NewInspector() Inspector {
	return Inspector{}
}

// SetItem sets the item to display, a CourseDetail or InstructorDetail
func (i *Inspector) SetItem(item any) {
	if !sameSubject(i.item, item) {
		i.offset = 0 // Reset scroll on item change
	}
	i.item = item
}

func sameSubject(a, b any) bool {
	ca, okA := a.(CourseDetail)
	cb, okB := b.(CourseDetail)
	return okA && okB && ca.Course.CourseID() == cb.Course.CourseID()
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
	// Reserve space for border, scroll indicators, title and blank line
	i.maxVisible = height - InspectorBorderHeight - InspectorScrollIndicators - 2
	if i.maxVisible < 1 {
		i.maxVisible = 1
	}
}

// ScrollDown moves the body one line down
func (i *Inspector) ScrollDown() { i.offset++ }

// ScrollUp moves the body one line up
func (i *Inspector) ScrollUp() {
	if i.offset > 0 {
		i.offset--
	}
}

// View renders the component
func (i Inspector) View() string {
	style := styles.InactiveBorder

	// Border takes 2 chars (1 each side), leave 1 char safety margin
	contentWidth := i.width - 3
	if contentWidth < 10 {
		contentWidth = 10
	}
	content := i.render(contentWidth)

	title := "Course"
	if _, ok := i.item.(InstructorDetail); ok {
		title = "Instructor"
	}
	titleLine := styles.AccentStyle.Render(styles.Truncate(title, contentWidth))

	headerLines := splitLines(content.header)
	footerLines := splitLines(content.footer)
	bodyLines := splitLines(content.body)

	availableForBody := max(i.maxVisible-len(headerLines)-len(footerLines), 1)
	maxOffset := max(len(bodyLines)-availableForBody, 0)
	offset := min(i.offset, maxOffset)
	end := min(offset+availableForBody, len(bodyLines))
	visibleBody := bodyLines[offset:end]

	up := " "
	if offset > 0 {
		up = styles.DimStyle.Render("↑ more")
	}
	down := " "
	if end < len(bodyLines) {
		down = styles.DimStyle.Render("↓ more")
	}

	parts := []string{titleLine, ""}
	if content.header != "" {
		parts = append(parts, content.header)
	}
	parts = append(parts, up)
	parts = append(parts, visibleBody...)
	for j := len(visibleBody); j < availableForBody; j++ {
		parts = append(parts, "")
	}
	parts = append(parts, down)
	if content.footer != "" {
		parts = append(parts, content.footer)
	}

	// Subtract frame (border) size so total rendered size equals i.width x i.height
	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(i.width-frameW, 0)).
		Height(max(i.height-frameH, 0)).
		Render(strings.Join(parts, "\n"))
}

func (i Inspector) render(width int) inspectorContent {
	switch v := i.item.(type) {
	case CourseDetail:
		return renderCourse(v, width)
	case InstructorDetail:
		return renderInstructor(v, width)
	default:
		return inspectorContent{body: styles.DimStyle.Render("No course selected")}
	}
}

func renderCourse(d CourseDetail, width int) inspectorContent {
	var header strings.Builder
	header.WriteString(styles.TitleStyle.Render(wordWrap(d.Course.Title, width)))
	header.WriteString("\n")
	header.WriteString(styles.SubtitleStyle.Render("by " + d.Course.Instructor))
	header.WriteString("\n")
	header.WriteString(styles.PriceStyle.Render(fmt.Sprintf("$%.2f", d.Course.Price)))
	if d.HasRating {
		header.WriteString("  " + styles.RenderStars(d.Rating))
		header.WriteString(styles.DimStyle.Render(fmt.Sprintf(" %.1f", d.Rating)))
	}
	if d.Enrolled {
		header.WriteString("  " + styles.EnrolledCheck + styles.SuccessStyle.Render(" enrolled"))
	}

	body := d.Course.Body
	if body == "" {
		body = "No description."
	}

	var hints []string
	switch {
	case d.IsAdmin:
		hints = append(hints, "x delete")
	case d.Enrolled:
		hints = append(hints, "f review")
	default:
		hints = append(hints, "enter enroll")
	}
	if d.Course.InstructorID != 0 {
		hints = append(hints, "i instructor")
	}
	if d.Course.ImageURL != "" {
		hints = append(hints, "o image")
	}

	return inspectorContent{
		header: header.String(),
		body:   wordWrap(body, width),
		footer: styles.DimStyle.Render(strings.Join(hints, " · ")),
	}
}

func renderInstructor(v InstructorDetail, width int) inspectorContent {
	d := v.Profile
	var header strings.Builder
	header.WriteString(styles.TitleStyle.Render(d.Name))
	if d.Email != "" {
		header.WriteString("\n" + styles.SubtitleStyle.Render(d.Email))
	}

	var body []string
	section := func(label, text string) {
		if text == "" {
			return
		}
		body = append(body, styles.AccentStyle.Render(label), wordWrap(text, width), "")
	}
	rating := "no ratings yet"
	if v.Rating != nil {
		rating = fmt.Sprintf("★ %.1f", *v.Rating)
	}
	body = append(body,
		styles.AccentStyle.Render("Stats"),
		fmt.Sprintf("%s · %d enrolled · %d reviews", rating, v.Enrollments, v.Reviews),
		"")
	section("About", d.AboutMe)
	section("Qualifications", d.Qualifications)
	section("Experience", d.Experience)
	if len(v.Taught) > 0 {
		body = append(body, styles.AccentStyle.Render("Courses"))
		for _, c := range v.Taught {
			body = append(body, styles.Truncate(fmt.Sprintf("%s  $%.2f", c.Title, c.Price), width))
		}
		body = append(body, "")
	} else {
		section("Courses", strings.Join(d.Courses, ", "))
	}
	section("GitHub", d.GithubURL)
	section("Twitter", d.TwitterURL)

	return inspectorContent{
		header: header.String(),
		body:   strings.TrimRight(strings.Join(body, "\n"), "\n"),
		footer: styles.DimStyle.Render("o open profile · esc back"),
	}
}

// splitLines splits a string into lines, returning empty slice for empty string
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lineLen := 0

	for i, word := range strings.Fields(text) {
		wordLen := len([]rune(word))

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}
