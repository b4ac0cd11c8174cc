package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/campus/internal/tui/styles"
	"github.com/mmcdole/campus/internal/view"
)

// SortField represents a field to sort by
type SortField int

const (
	SortTitle SortField = iota
	SortPrice
)

// String returns the display name for the sort field
func (f SortField) String() string {
	switch f {
	case SortTitle:
		return "Title"
	case SortPrice:
		return "Price"
	default:
		return "Unknown"
	}
}

// SortDirection represents sort direction
type SortDirection int

const (
	SortAsc SortDirection = iota
	SortDesc
)

var sortFields = []SortField{SortTitle, SortPrice}

// CourseSortFor maps a field and direction to a catalog ordering
func CourseSortFor(field SortField, dir SortDirection) view.CourseSort {
	switch {
	case field == SortPrice && dir == SortDesc:
		return view.SortPriceDesc
	case field == SortPrice:
		return view.SortPriceAsc
	case dir == SortDesc:
		return view.SortTitleDesc
	default:
		return view.SortTitleAsc
	}
}

// splitCourseSort is the inverse of CourseSortFor
func splitCourseSort(s view.CourseSort) (SortField, SortDirection) {
	switch s {
	case view.SortTitleDesc:
		return SortTitle, SortDesc
	case view.SortPriceAsc:
		return SortPrice, SortAsc
	case view.SortPriceDesc:
		return SortPrice, SortDesc
	default:
		return SortTitle, SortAsc
	}
}

// SortModal is a small popup for choosing sort order
type SortModal struct {
	visible     bool
	cursor      int
	activeField SortField
	activeDir   SortDirection
}

// NewSortModal creates a new sort modal
func NewSortModal() SortModal {
	return SortModal{}
}

// Show displays the modal positioned on the current ordering
func (m *SortModal) Show(active view.CourseSort) {
	m.visible = true
	m.activeField, m.activeDir = splitCourseSort(active)
	m.cursor = 0
	for i, f := range sortFields {
		if f == m.activeField {
			m.cursor = i
			break
		}
	}
}

// Hide dismisses the modal
func (m *SortModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m SortModal) IsVisible() bool {
	return m.visible
}

// HandleKey processes a key press, returns (handled, selection).
// If selection is non-nil, the user confirmed a choice.
func (m *SortModal) HandleKey(key string) (handled bool, selection *view.CourseSort) {
	if !m.visible {
		return false, nil
	}

	switch key {
	case "j", "down":
		if m.cursor < len(sortFields)-1 {
			m.cursor++
		}
		return true, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return true, nil
	case "enter":
		chosen := sortFields[m.cursor]
		dir := SortAsc
		if chosen == m.activeField && m.activeDir == SortAsc {
			// Toggle direction
			dir = SortDesc
		}
		m.visible = false
		s := CourseSortFor(chosen, dir)
		return true, &s
	case "esc", "s":
		m.visible = false
		return true, nil
	}

	return true, nil // consume all keys when visible
}

// View renders the sort modal
func (m SortModal) View() string {
	if !m.visible {
		return ""
	}

	var lines []string
	for i, opt := range sortFields {
		isActive := opt == m.activeField

		prefix := "  "
		suffix := ""
		if isActive {
			prefix = "✓ "
			suffix = " ↑"
			if m.activeDir == SortDesc {
				suffix = " ↓"
			}
		}
		text := styles.Pad(prefix+opt.String()+suffix, 20)

		style := lipgloss.NewStyle().Foreground(styles.LightGray)
		switch {
		case i == m.cursor:
			style = lipgloss.NewStyle().Foreground(styles.White).Background(styles.SlateLight)
		case isActive:
			style = lipgloss.NewStyle().Foreground(styles.Teal)
		}
		lines = append(lines, style.Render(text))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Teal).
		Background(styles.SlateDark).
		Padding(0, 1).
		Render(styles.ModalTitleStyle.Render("Sort by") + "\n" + strings.Join(lines, "\n"))
}
