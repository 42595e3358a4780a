package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/lostfound/internal/lostfound"
)

// renderHeader renders the status bar: logo, counts per status and the
// freshness of the list.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("lostfound", styles.Logo)}

	switch {
	case !m.snapshot.Loaded && m.snapshot.LastError == nil:
		parts = append(parts, bg.Render("Connecting to "+truncateMiddle(m.apiURL, 40)+"...", styles.WarningText.Bold(true)))
	case !m.snapshot.Loaded:
		parts = append(parts, bg.Render(classifyError(m.snapshot.LastError), styles.DangerText))
	default:
		counts := map[lostfound.Status]int{}
		for _, item := range m.snapshot.Items {
			counts[item.Status]++
		}
		parts = append(parts, bg.Render(fmt.Sprintf("%d items", len(m.snapshot.Items)), styles.Text.Bold(true)))
		for _, st := range lostfound.Statuses() {
			parts = append(parts,
				bg.Render(st.Label(), styles.MutedText)+bg.Spaces(1)+
					bg.Render(fmt.Sprint(counts[st]), styles.Text.Foreground(lipgloss.Color(m.theme.StatusColor(st)))))
		}
		if m.snapshot.IsOffline() {
			parts = append(parts, bg.Render("OFFLINE", styles.DangerText))
		} else if m.snapshot.LastError != nil {
			parts = append(parts, bg.Render(classifyError(m.snapshot.LastError), styles.WarningText))
		}
	}

	if m.snapshot.Refreshing {
		parts = append(parts, bg.Render(m.spinner.View()+" refreshing", styles.InfoText))
	} else if !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts, bg.Render("updated "+humanize.RelTime(m.snapshot.LastUpdated, m.now(), "ago", "from now"), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// classifyError shortens an error for the header.
func classifyError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(describeError(err))
	switch {
	case strings.HasPrefix(msg, "sign-in"):
		return "SIGN-IN REQUIRED"
	case strings.Contains(msg, "timed out"):
		return "TIMEOUT"
	case strings.HasPrefix(msg, "network"):
		return "UNREACHABLE"
	case strings.HasPrefix(msg, "server returned"):
		return "SERVER ERROR"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the key hints for the active screen.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch s := m.screen.(type) {
	case listScreen:
		if m.search.Focused() {
			commands = []cmd{{"enter", "Done"}, {"esc", "Done"}}
		} else {
			commands = []cmd{
				{"enter", "Open"},
				{"n", "New"},
				{"/", "Search"},
				{"f", m.statusFilter.Label()},
				{"r", "Refresh"},
				{"j/k", "Navigate"},
				{"?", "More"},
			}
		}
	case detailScreen:
		favLabel := "Favorite"
		if s.favoriteKnown && s.favorite {
			favLabel = "Unfavorite"
		}
		commands = []cmd{
			{"f", favLabel},
			{"s", "Share"},
			{"esc", "Back"},
			{"?", "More"},
		}
	case postFormScreen:
		commands = []cmd{
			{"tab", "Next"},
			{"ctrl+s", "Submit"},
			{"esc", "Cancel"},
		}
	default:
		commands = []cmd{{"q", "Quit"}}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	if q := m.search.Value(); q != "" && !m.search.Focused() {
		segments = append(segments, bg.Render("/"+truncate(q, 18), styles.AccentText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// renderNotice renders the one-line notification under the content.
func (m Model) renderNotice() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	style := styles.InfoText
	if m.notice.kind == noticeError {
		style = styles.DangerText
	}
	return styles.Header.Width(m.width).Render(NewBgStyle(m.theme.Surface).Render(truncate(m.notice.text, max(m.width-2, 0)), style))
}

// truncateMiddle keeps the start and end of s.
func truncateMiddle(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 5 {
		return s[:max]
	}
	endLen := (max - 3) * 2 / 3
	startLen := max - 3 - endLen
	return s[:startLen] + "..." + s[len(s)-endLen:]
}
