package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/campus/internal/domain"
	"github.com/mmcdole/campus/internal/tui/styles"
	"github.com/mmcdole/campus/internal/view"
)

// Layout constants for lists
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2
)

// CourseList is a paged, filterable and sortable course catalog
type CourseList struct {
	courses []domain.Course // as received from the store
	visible []domain.Course // filtered and sorted

	sort     view.CourseSort
	page     int
	pageSize int
	cursor   int // index within the current page

	ratings  map[int64]float64
	enrolled map[int64]bool

	width   int
	height  int
	loading bool

	// Filter state
	filterActive bool
	filterInput  textinput.Model
}

// NewCourseList creates an empty course list
func NewCourseList(pageSize int, sort view.CourseSort) *CourseList {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	if pageSize <= 0 {
		pageSize = view.CoursePageSize
	}
	if sort == "" {
		sort = view.SortTitleAsc
	}
	return &CourseList{
		sort:        sort,
		pageSize:    pageSize,
		ratings:     make(map[int64]float64),
		enrolled:    make(map[int64]bool),
		filterInput: ti,
	}
}

// SetCourses replaces the catalog, keeping the selection where possible
func (c *CourseList) SetCourses(courses []domain.Course) {
	selected, hadSelection := c.Selected()
	c.courses = courses
	c.loading = false
	c.rebuild()

	if hadSelection {
		for i, course := range c.visible {
			if course.CourseID() == selected.CourseID() {
				c.page = i / c.pageSize
				c.cursor = i % c.pageSize
				return
			}
		}
	}
	c.clamp()
}

// SetEnrolled marks which courses the user belongs to
func (c *CourseList) SetEnrolled(ids map[int64]bool) {
	c.enrolled = ids
}

// SetRating records a course's average rating for display
func (c *CourseList) SetRating(courseID int64, rating float64) {
	c.ratings[courseID] = rating
}

// ClearRatings forgets all displayed ratings
func (c *CourseList) ClearRatings() {
	c.ratings = make(map[int64]float64)
}

// HasRating reports whether a rating is displayed for the course
func (c *CourseList) HasRating(courseID int64) bool {
	_, ok := c.ratings[courseID]
	return ok
}

// SetLoading toggles the loading placeholder
func (c *CourseList) SetLoading(loading bool) {
	c.loading = loading
}

// SetSize updates the component dimensions
func (c *CourseList) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// Sort returns the active ordering
func (c *CourseList) Sort() view.CourseSort {
	return c.sort
}

// SetSort changes the ordering and returns to the first page
func (c *CourseList) SetSort(sort view.CourseSort) {
	c.sort = sort
	c.page, c.cursor = 0, 0
	c.rebuild()
}

// Page returns the zero-based current page
func (c *CourseList) Page() int {
	return c.page
}

// TotalPages returns the number of pages of visible courses
func (c *CourseList) TotalPages() int {
	return view.TotalPages(len(c.visible), c.pageSize)
}

// PageCourses returns the courses on the current page
func (c *CourseList) PageCourses() []domain.Course {
	return view.Paginate(c.visible, c.page, c.pageSize)
}

// Selected returns the course under the cursor
func (c *CourseList) Selected() (domain.Course, bool) {
	page := c.PageCourses()
	if c.cursor < 0 || c.cursor >= len(page) {
		return domain.Course{}, false
	}
	return page[c.cursor], true
}

// MoveUp moves the cursor up one row
func (c *CourseList) MoveUp() {
	if c.cursor > 0 {
		c.cursor--
	}
}

// MoveDown moves the cursor down one row
func (c *CourseList) MoveDown() {
	if c.cursor < len(c.PageCourses())-1 {
		c.cursor++
	}
}

// NextPage advances one page
func (c *CourseList) NextPage() {
	if c.page < c.TotalPages()-1 {
		c.page++
		c.cursor = 0
	}
}

// PrevPage goes back one page
func (c *CourseList) PrevPage() {
	if c.page > 0 {
		c.page--
		c.cursor = 0
	}
}

// StartFilter opens the filter bar
func (c *CourseList) StartFilter() tea.Cmd {
	c.filterActive = true
	return c.filterInput.Focus()
}

// IsFiltering returns true while the filter bar accepts input
func (c *CourseList) IsFiltering() bool {
	return c.filterActive && c.filterInput.Focused()
}

// FilterQuery returns the active filter text
func (c *CourseList) FilterQuery() string {
	if !c.filterActive {
		return ""
	}
	return c.filterInput.Value()
}

// ClearFilter closes the filter bar and shows every course
func (c *CourseList) ClearFilter() {
	c.filterActive = false
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.page, c.cursor = 0, 0
	c.rebuild()
}

// Update routes typing to the filter bar while it is focused
func (c *CourseList) Update(msg tea.Msg) tea.Cmd {
	if !c.IsFiltering() {
		return nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, listKeys.Escape):
			c.ClearFilter()
			return nil
		case key.Matches(keyMsg, listKeys.Accept):
			// Accept filter, blur input to allow navigation
			c.filterInput.Blur()
			return nil
		case keyMsg.String() == "backspace" && c.filterInput.Value() == "":
			c.ClearFilter()
			return nil
		}
	}

	var cmd tea.Cmd
	c.filterInput, cmd = c.filterInput.Update(msg)
	c.page, c.cursor = 0, 0
	c.rebuild()
	return cmd
}

// rebuild recomputes visible from courses, the filter and the sort
func (c *CourseList) rebuild() {
	query := strings.TrimSpace(c.FilterQuery())
	if query == "" {
		c.visible = view.SortCourses(c.courses, c.sort)
		return
	}

	// Substring matches keep the chosen order; fall back to fuzzy ranking
	if matches := view.FilterCourses(c.courses, query); len(matches) > 0 {
		c.visible = view.SortCourses(matches, c.sort)
		return
	}

	titles := make([]string, len(c.courses))
	for i, course := range c.courses {
		titles[i] = strings.ToLower(course.Title)
	}
	found := fuzzy.Find(strings.ToLower(query), titles)
	c.visible = make([]domain.Course, len(found))
	for i, match := range found {
		c.visible[i] = c.courses[match.Index]
	}
}

func (c *CourseList) clamp() {
	if total := c.TotalPages(); c.page >= total {
		c.page = max(total-1, 0)
	}
	if n := len(c.PageCourses()); c.cursor >= n {
		c.cursor = max(n-1, 0)
	}
}

// View renders the component
func (c *CourseList) View() string {
	itemWidth := c.width - BorderWidth
	if itemWidth < 20 {
		itemWidth = 20
	}

	title := fmt.Sprintf("Courses · %s", c.sort)
	titleLine := styles.AccentStyle.Render(styles.Truncate(title, itemWidth))

	var body string
	switch {
	case c.loading && len(c.courses) == 0:
		body = styles.DimStyle.Render("Loading courses...")
	case len(c.visible) == 0 && c.FilterQuery() != "":
		body = styles.DimStyle.Render("No matches")
	case len(c.visible) == 0:
		body = styles.DimStyle.Render("No courses available")
	default:
		var lines []string
		for i, course := range c.PageCourses() {
			lines = append(lines, c.renderRow(course, i == c.cursor, itemWidth))
		}
		body = strings.Join(lines, "\n")
	}

	pager := styles.DimStyle.Render(fmt.Sprintf("page %d/%d", c.page+1, max(c.TotalPages(), 1)))
	content := titleLine + "\n\n" + body + "\n\n" + pager
	if c.filterActive {
		content += "\n" + c.filterInput.View()
	}

	return styles.ActiveBorder.
		Width(max(c.width-BorderWidth, 0)).
		Height(max(c.height-BorderHeight, 0)).
		Render(content)
}

func (c *CourseList) renderRow(course domain.Course, selected bool, width int) string {
	marker := "  "
	if c.enrolled[course.CourseID()] {
		marker = styles.EnrolledCheck + " "
	}

	stars := styles.DimStyle.Render("·····")
	if r, ok := c.ratings[course.CourseID()]; ok {
		stars = styles.RenderStars(r)
	}
	price := styles.PriceStyle.Render(fmt.Sprintf("$%.2f", course.Price))

	fixed := lipgloss.Width(marker) + lipgloss.Width(stars) + lipgloss.Width(price) + 4
	name := styles.Pad(styles.Truncate(course.Title, width-fixed), width-fixed)

	style := styles.NormalItemStyle
	if selected {
		style = styles.SelectedItemStyle
	}
	return style.Render(marker + name + " " + stars + " " + price)
}
