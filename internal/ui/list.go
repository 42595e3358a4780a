package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/lostfound/internal/filter"
	"github.com/five82/lostfound/internal/lostfound"
)

// visibleItems derives the displayed subset from the full collection.
func (m Model) visibleItems() []lostfound.Item {
	return filter.Apply(m.snapshot.Items, m.statusFilter, m.search.Value())
}

// selectedItem returns the highlighted row, if any.
func (m Model) selectedItem() (lostfound.Item, bool) {
	items := m.visibleItems()
	if m.selectedRow < 0 || m.selectedRow >= len(items) {
		return lostfound.Item{}, false
	}
	return items[m.selectedRow], true
}

func (m *Model) clampSelection() {
	n := len(m.visibleItems())
	if m.selectedRow >= n {
		m.selectedRow = n - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

// handleListKey processes keyboard input for the list screen.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.search.Focused() {
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter:
			m.search.Blur()
			return m, nil
		}
		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			m.selectedRow = 0
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Close):
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.clampSelection()
		}
	case key.Matches(msg, m.keys.Search):
		cmd := m.search.Focus()
		return m, tea.Batch(cmd, textinput.Blink)
	case key.Matches(msg, m.keys.CycleFilter):
		m.statusFilter = m.statusFilter.Next()
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Refresh):
		m.snapshot.Refreshing = true
		return m, m.refreshCmd()
	case key.Matches(msg, m.keys.New):
		return m.openPostForm()
	case key.Matches(msg, m.keys.Open):
		item, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		return m.openDetail(item)
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(m.visibleItems())-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = max(len(m.visibleItems())-1, 0)
	}
	return m, nil
}

func (m Model) renderLoading() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)
	line := bg.Render(m.spinner.View(), styles.AccentText) + bg.Spaces(1) +
		bg.Render("Fetching items...", styles.MutedText)
	return m.renderTitledBox("Loading", line, m.width, m.contentHeight(), false)
}

// renderList renders the search bar, optional error banner and item table.
func (m Model) renderList() string {
	bgColor := m.theme.FocusBg
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles().WithBackground(bgColor)
	inner := max(m.width-2, 0)

	var top []string
	if m.search.Focused() || m.search.Value() != "" {
		top = append(top, bg.FillLine(m.search.View(), inner))
	}
	if m.banner != "" {
		top = append(top, bg.FillLine(bg.Render("! "+m.banner, styles.DangerText), inner))
	}

	items := m.visibleItems()
	rowsHeight := max(m.contentHeight()-2-len(top), 1)

	var lines []string
	lines = append(lines, top...)
	switch {
	case len(items) == 0 && len(m.snapshot.Items) == 0:
		lines = append(lines, bg.Render("No items reported yet. Press n to add one.", styles.MutedText))
	case len(items) == 0:
		lines = append(lines, bg.Render("No items match the current filter.", styles.MutedText))
	default:
		start := 0
		if m.selectedRow >= rowsHeight {
			start = m.selectedRow - rowsHeight + 1
		}
		end := min(start+rowsHeight, len(items))
		for i := start; i < end; i++ {
			lines = append(lines, m.renderRow(items[i], inner, i == m.selectedRow))
		}
	}

	title := fmt.Sprintf("Items (%d/%d) · %s", len(items), len(m.snapshot.Items), m.statusFilter.Label())
	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, m.contentHeight(), true)
}

// renderRow formats one item as "STATUS  Title  Location  Date".
func (m Model) renderRow(item lostfound.Item, width int, selected bool) string {
	bgColor := m.theme.FocusBg
	if selected {
		bgColor = m.theme.SelectionBg
	}
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles().WithBackground(bgColor)
	text := styles.Text
	muted := styles.MutedText
	if selected {
		text = text.Foreground(lipgloss.Color(m.theme.SelectionText))
		muted = text
	}

	const badgeWidth = 9
	const dateWidth = 10
	rest := max(width-badgeWidth-dateWidth-4, 10)
	locWidth := rest / 3
	titleWidth := rest - locWidth

	badge := styles.StatusBadge(item.Status).Width(badgeWidth).Render(item.Status.Label())
	parts := []string{
		badge,
		bg.Render(padRight(item.Title, titleWidth), text),
		bg.Render(padRight(item.Location, locWidth), muted),
		bg.Render(padRight(item.Date, dateWidth), muted),
	}
	return bg.FillLine(strings.Join(parts, bg.Spaces(1)), width)
}

// contentHeight is the space left under the header and command bar.
func (m Model) contentHeight() int {
	h := m.height - 2
	if m.notice.text != "" {
		h--
	}
	return max(h, 3)
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr, bgColorStr := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColorStr, bgColorStr = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)
	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColorStr))
	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	padded := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		padded = append(padded,
			bg.Render("│", borderStyle)+contentStyle.Render(line)+bg.Render("│", borderStyle))
	}
	return topBorder + "\n" + strings.Join(padded, "\n") + "\n" + bottomBorder
}
