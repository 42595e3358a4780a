package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"
	"github.com/rs/zerolog/log"

	"github.com/five82/lostfound/internal/favorites"
	"github.com/five82/lostfound/internal/lostfound"
	"github.com/five82/lostfound/internal/share"
)

// openDetail shows item and starts the lazy favorite lookup.
func (m Model) openDetail(item lostfound.Item) (tea.Model, tea.Cmd) {
	s := detailScreen{item: item}
	m.screen = s
	m.resizeDetail()
	m.detailViewport.GotoTop()
	return m, favoriteStatusCmd(m.ctx, m.favorites, item.ID)
}

func (m Model) handleDetailKey(msg tea.KeyMsg, s detailScreen) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.screen = listScreen{}
		return m, nil
	case key.Matches(msg, m.keys.Favorite):
		return m, favoriteToggleCmd(m.ctx, m.favorites, s.item.ID)
	case key.Matches(msg, m.keys.Share):
		return m, shareCmd(m.sharer, s.item)
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m *Model) handleFavoriteStatus(msg favoriteStatusMsg) {
	s, ok := m.screen.(detailScreen)
	if !ok || s.item.ID != msg.id {
		return
	}
	if s.favoriteKnown {
		// A toggle already reported the current state; the lookup may predate it.
		return
	}
	if msg.err != nil {
		log.Warn().Err(msg.err).Str("item", msg.id.String()).Msg("favorite lookup failed")
		return
	}
	s.favorite = msg.favorite
	s.favoriteKnown = true
	m.screen = s
	m.detailViewport.SetContent(m.renderDetailContent(s))
}

// handleFavoriteToggled applies a toggle result. Storage failures are logged
// only; the displayed state stays as it was.
func (m *Model) handleFavoriteToggled(msg favoriteToggledMsg) {
	if msg.err != nil {
		log.Warn().Err(msg.err).Str("item", msg.id.String()).Msg("favorite toggle failed")
		return
	}
	s, ok := m.screen.(detailScreen)
	if !ok || s.item.ID != msg.id {
		return
	}
	s.favorite = msg.favorite
	s.favoriteKnown = true
	m.screen = s
	m.detailViewport.SetContent(m.renderDetailContent(s))
}

func (m *Model) resizeDetail() {
	m.detailViewport.Width = max(m.width-4, 10)
	m.detailViewport.Height = max(m.contentHeight()-2, 1)
	if s, ok := m.screen.(detailScreen); ok {
		m.detailViewport.SetContent(m.renderDetailContent(s))
	}
}

func (m Model) renderDetail(s detailScreen) string {
	title := "Details"
	if s.favoriteKnown && s.favorite {
		title = "★ Details"
	}
	return m.renderTitledBox(title, m.detailViewport.View(), m.width, m.contentHeight(), true)
}

// renderDetailContent renders the item fields and the wrapped description.
func (m Model) renderDetailContent(s detailScreen) string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	width := max(m.detailViewport.Width, 10)
	item := s.item

	var b strings.Builder
	b.WriteString(styles.StatusBadge(item.Status).Render(item.Status.Label()))
	b.WriteString(bg.Spaces(1))
	b.WriteString(bg.Render(item.Title, styles.Text.Bold(true)))
	b.WriteString("\n\n")

	row := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		b.WriteString(bg.Render(padRight(label, 10), styles.MutedText))
		b.WriteString(bg.Render(value, styles.Text))
		b.WriteString("\n")
	}
	row("Location", item.Location)
	row("Date", m.formatDate(item))
	row("Owner", item.Owner)
	row("ID", item.ID.String())
	if item.Image != "" {
		row("Image", imageLabel(item.Image))
	}

	fav := "…"
	if s.favoriteKnown {
		fav = "no"
		if s.favorite {
			fav = "★ yes"
		}
	}
	row("Favorite", fav)

	if desc := strings.TrimSpace(item.Description); desc != "" {
		b.WriteString("\n")
		for _, line := range strings.Split(wordwrap.String(desc, width), "\n") {
			b.WriteString(bg.Render(line, styles.Text))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatDate shows the raw date with a relative hint when it parses.
func (m Model) formatDate(item lostfound.Item) string {
	parsed := item.ParsedDate()
	if parsed.IsZero() {
		return item.Date
	}
	y, mo, d := m.now().Date()
	today := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	if parsed.Equal(today) {
		return item.Date + " (today)"
	}
	return fmt.Sprintf("%s (%s)", item.Date, humanize.RelTime(parsed, today, "ago", "from now"))
}

func imageLabel(image string) string {
	if strings.HasPrefix(image, "data:") {
		// ~3 bytes per 4 base64 chars
		if i := strings.Index(image, ","); i >= 0 {
			return "embedded, " + humanize.Bytes(uint64(len(image)-i-1)*3/4)
		}
		return "embedded"
	}
	return truncate(image, 60)
}

// Commands

func favoriteStatusCmd(ctx context.Context, store *favorites.Store, id lostfound.ID) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		fav, err := store.IsFavorite(ctx, id)
		return favoriteStatusMsg{id: id, favorite: fav, err: err}
	}
}

func favoriteToggleCmd(ctx context.Context, store *favorites.Store, id lostfound.ID) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		fav, err := store.Toggle(ctx, id)
		return favoriteToggledMsg{id: id, favorite: fav, err: err}
	}
}

func shareCmd(sharer share.Sharer, item lostfound.Item) tea.Cmd {
	if sharer == nil {
		return nil
	}
	return func() tea.Msg {
		return shareResultMsg{err: sharer.Share(share.Title(item), share.Message(item))}
	}
}
