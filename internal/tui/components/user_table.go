package components

import (
	"fmt"
	"strings"

	"github.com/mmcdole/campus/internal/domain"
	"github.com/mmcdole/campus/internal/tui/styles"
	"github.com/mmcdole/campus/internal/view"
)

// UserTable is the admin listing of accounts
type UserTable struct {
	users   []domain.User
	visible []domain.User

	query     string
	sortField view.UserSortField
	ascending bool
	page      int
	cursor    int
	loading   bool

	width  int
	height int
}

// NewUserTable creates an empty table sorted by name
func NewUserTable() *UserTable {
	return &UserTable{sortField: view.UserSortName, ascending: true, loading: true}
}

// SetUsers replaces the listing
func (t *UserTable) SetUsers(users []domain.User) {
	t.users = users
	t.loading = false
	t.rebuild()
}

// SetLoading toggles the loading placeholder
func (t *UserTable) SetLoading(loading bool) {
	t.loading = loading
}

// SetSize updates the component dimensions
func (t *UserTable) SetSize(width, height int) {
	t.width = width
	t.height = height
}

// Query returns the active filter
func (t *UserTable) Query() string {
	return t.query
}

// SetQuery filters by name, username or email
func (t *UserTable) SetQuery(q string) {
	t.query = q
	t.page, t.cursor = 0, 0
	t.rebuild()
}

// SortBy orders by field; choosing the active field flips the direction
func (t *UserTable) SortBy(field view.UserSortField) {
	if t.sortField == field {
		t.ascending = !t.ascending
	} else {
		t.sortField = field
		t.ascending = true
	}
	t.rebuild()
}

// Visible returns the filtered and sorted users
func (t *UserTable) Visible() []domain.User {
	return t.visible
}

// Selected returns the user under the cursor
func (t *UserTable) Selected() (domain.User, bool) {
	page := view.Paginate(t.visible, t.page, view.UserPageSize)
	if t.cursor < 0 || t.cursor >= len(page) {
		return domain.User{}, false
	}
	return page[t.cursor], true
}

// MoveUp moves the cursor up one row
func (t *UserTable) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
	}
}

// MoveDown moves the cursor down one row
func (t *UserTable) MoveDown() {
	if t.cursor < len(view.Paginate(t.visible, t.page, view.UserPageSize))-1 {
		t.cursor++
	}
}

// NextPage advances one page
func (t *UserTable) NextPage() {
	if t.page < view.TotalPages(len(t.visible), view.UserPageSize)-1 {
		t.page++
		t.cursor = 0
	}
}

// PrevPage goes back one page
func (t *UserTable) PrevPage() {
	if t.page > 0 {
		t.page--
		t.cursor = 0
	}
}

func (t *UserTable) rebuild() {
	t.visible = view.SortUsers(view.FilterUsers(t.users, t.query), t.sortField, t.ascending)
	if total := view.TotalPages(len(t.visible), view.UserPageSize); t.page >= total {
		t.page = total - 1
	}
	if n := len(view.Paginate(t.visible, t.page, view.UserPageSize)); t.cursor >= n {
		t.cursor = max(n-1, 0)
	}
}

// View renders the component
func (t *UserTable) View() string {
	width := max(t.width-BorderWidth, 40)
	col := (width - 10) / 3

	heading := func(label string, field view.UserSortField) string {
		if t.sortField == field {
			if t.ascending {
				label += " ↑"
			} else {
				label += " ↓"
			}
		}
		return styles.Pad(label, col)
	}

	title := "Users"
	if t.query != "" {
		title += fmt.Sprintf(" · filter %q", t.query)
	}

	lines := []string{
		styles.AccentStyle.Render(title),
		"",
		styles.SubtitleStyle.Render(" " + heading("1 Name", view.UserSortName) + heading("2 Username", view.UserSortUsername) + heading("3 Email", view.UserSortEmail) + "Role"),
	}

	page := view.Paginate(t.visible, t.page, view.UserPageSize)
	switch {
	case t.loading:
		lines = append(lines, styles.DimStyle.Render("Loading users..."))
	case len(page) == 0:
		lines = append(lines, styles.DimStyle.Render("No users"))
	}
	for i, u := range page {
		row := styles.Pad(styles.Truncate(u.Name, col-1), col) +
			styles.Pad(styles.Truncate(u.Username, col-1), col) +
			styles.Pad(styles.Truncate(u.Email, col-1), col) +
			u.Role
		style := styles.NormalItemStyle
		if i == t.cursor {
			style = styles.SelectedItemStyle
		}
		lines = append(lines, style.Render(row))
	}

	total := view.TotalPages(len(t.visible), view.UserPageSize)
	lines = append(lines, "", styles.DimStyle.Render(fmt.Sprintf("page %d/%d · %d users", t.page+1, total, len(t.visible))))

	return styles.ActiveBorder.
		Width(max(t.width-BorderWidth, 0)).
		Height(max(t.height-BorderHeight, 0)).
		Render(strings.Join(lines, "\n"))
}
