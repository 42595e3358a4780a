package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/five82/lostfound/internal/form"
	"github.com/five82/lostfound/internal/imaging"
	"github.com/five82/lostfound/internal/lostfound"
)

// Form focus targets, in tab order.
const (
	focusTitle = iota
	focusDescription
	focusStatus
	focusLocation
	focusDate
	focusImage
	focusCount
)

var focusFields = [focusCount]string{
	focusTitle:       form.FieldTitle,
	focusDescription: form.FieldDescription,
	focusStatus:      form.FieldStatus,
	focusLocation:    form.FieldLocation,
	focusDate:        form.FieldDate,
	focusImage:       form.FieldImage,
}

var focusLabels = [focusCount]string{"Title", "Description", "Status", "Location", "Date", "Image"}

// postForm is the draft being edited. Text fields are held in inputs; the
// status selector has no input.
type postForm struct {
	inputs [focusCount]textinput.Model
	status lostfound.Status
	focus  int
	errors form.Errors

	image     imaging.Asset
	imagePath string // path the attached asset was read from
}

func newPostForm(now time.Time) postForm {
	d := form.NewDraft(now)
	f := postForm{status: d.Status}
	placeholders := [focusCount]string{
		focusTitle:       "What was lost or found?",
		focusDescription: "Colour, brand, distinguishing marks",
		focusLocation:    "Where?",
		focusDate:        lostfound.DateLayout,
		focusImage:       "Path to a JPEG or PNG (optional)",
	}
	for i := range f.inputs {
		if i == focusStatus {
			continue
		}
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.CharLimit = 500
		f.inputs[i] = in
	}
	f.inputs[focusTitle].CharLimit = 120
	f.inputs[focusDate].SetValue(d.Date)
	f.inputs[focusImage].CharLimit = 4096
	f.inputs[focusTitle].Focus()
	return f
}

// draft assembles the current field values.
func (f postForm) draft() lostfound.Draft {
	return lostfound.Draft{
		Title:       f.inputs[focusTitle].Value(),
		Description: f.inputs[focusDescription].Value(),
		Status:      f.status,
		Location:    f.inputs[focusLocation].Value(),
		Date:        f.inputs[focusDate].Value(),
		Image:       f.image.DataURI(),
	}
}

func (f *postForm) setFocus(i int) tea.Cmd {
	if f.focus != focusStatus {
		f.inputs[f.focus].Blur()
	}
	f.focus = (i + focusCount) % focusCount
	if f.focus == focusStatus {
		return nil
	}
	return f.inputs[f.focus].Focus()
}

// pendingImagePath returns a typed path that has not been attached yet.
func (f postForm) pendingImagePath() string {
	path := strings.TrimSpace(f.inputs[focusImage].Value())
	if path == "" || path == f.imagePath {
		return ""
	}
	return path
}

func (m Model) openPostForm() (tea.Model, tea.Cmd) {
	m.form = newPostForm(m.now())
	m.screen = postFormScreen{}
	return m, textinput.Blink
}

func (m Model) handlePostFormKey(msg tea.KeyMsg, s postFormScreen) (tea.Model, tea.Cmd) {
	if s.submitting {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Close):
		m.form = newPostForm(m.now())
		m.screen = listScreen{}
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.NextField):
		cmd := m.form.setFocus(m.form.focus + 1)
		return m, cmd
	case key.Matches(msg, m.keys.PrevField):
		cmd := m.form.setFocus(m.form.focus - 1)
		return m, cmd
	case key.Matches(msg, m.keys.Confirm):
		if m.form.focus == focusImage {
			return m, m.pickCmd(m.form.inputs[focusImage].Value())
		}
		cmd := m.form.setFocus(m.form.focus + 1)
		return m, cmd
	}

	if m.form.focus == focusStatus {
		if key.Matches(msg, m.keys.CycleStatus) {
			m.form.status = m.form.status.Next()
		}
		return m, nil
	}

	var cmd tea.Cmd
	i := m.form.focus
	m.form.inputs[i], cmd = m.form.inputs[i].Update(msg)
	if i == focusImage && m.form.imagePath != "" && strings.TrimSpace(m.form.inputs[i].Value()) != m.form.imagePath {
		// Path edited after attaching: the old asset no longer applies.
		m.form.image = imaging.Asset{}
		m.form.imagePath = ""
	}
	return m, cmd
}

// submit validates the draft locally and sends it only when every required
// field is present.
func (m Model) submit() (tea.Model, tea.Cmd) {
	draft := m.form.draft()
	errs := form.Validate(draft)
	if !errs.Valid() {
		m.form.errors = errs
		m.notify(noticeError, "Fix the highlighted fields")
		return m, nil
	}
	m.form.errors = nil
	m.screen = postFormScreen{submitting: true}
	return m, m.createCmd(form.Normalize(draft), m.form.pendingImagePath())
}

func (m Model) handleCreated(msg createResultMsg) (tea.Model, tea.Cmd) {
	if _, ok := m.screen.(postFormScreen); !ok {
		return m, nil
	}
	if msg.err != nil {
		log.Error().Err(msg.err).Msg("create item failed")
		var serverErr *lostfound.ServerError
		if errors.As(msg.err, &serverErr) && len(serverErr.Fields) > 0 {
			m.form.errors = form.Errors(serverErr.Fields)
		}
		m.screen = postFormScreen{}
		m.notify(noticeError, describeError(msg.err))
		return m, nil
	}

	log.Info().Str("item", msg.item.ID.String()).Str("status", string(msg.item.Status)).Msg("item reported")
	m.form = newPostForm(m.now())
	m.screen = loadingScreen{}
	m.notify(noticeInfo, fmt.Sprintf("Reported %q", msg.item.Title))
	return m, tea.Batch(m.refreshCmd(), m.spinner.Tick)
}

func (m *Model) handleImagePicked(msg imagePickedMsg) {
	if _, ok := m.screen.(postFormScreen); !ok {
		return
	}
	switch {
	case errors.Is(msg.err, imaging.ErrCancelled):
		m.form.image = imaging.Asset{}
		m.form.imagePath = ""
	case msg.err != nil:
		log.Warn().Err(msg.err).Msg("attach image failed")
		m.notify(noticeError, describeError(msg.err))
	default:
		m.form.image = msg.asset
		m.form.imagePath = msg.path
		m.notify(noticeInfo, fmt.Sprintf("Attached %dx%d image", msg.asset.Width, msg.asset.Height))
	}
}

func (m Model) renderPostForm(s postFormScreen) string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	inner := max(m.width-2, 0)

	var lines []string
	for i := 0; i < focusCount; i++ {
		label := styles.MutedText
		if i == m.form.focus {
			label = styles.AccentText.Bold(true)
		}
		marker := "  "
		if i == m.form.focus {
			marker = "› "
		}

		var value string
		if i == focusStatus {
			value = styles.StatusBadge(m.form.status).Render(m.form.status.Label())
			if i == m.form.focus {
				value += bg.Spaces(1) + bg.Render("space to change", styles.FaintText)
			}
		} else {
			value = m.form.inputs[i].View()
		}

		lines = append(lines, bg.FillLine(
			bg.Render(marker, styles.AccentText)+bg.Render(padRight(focusLabels[i], 12), label)+value, inner))

		if i == focusImage && m.form.image.Base64 != "" {
			lines = append(lines, bg.Render(fmt.Sprintf("%14sattached %dx%d", "", m.form.image.Width, m.form.image.Height), styles.SuccessText))
		}
		if msg, ok := m.form.errors[focusFields[i]]; ok {
			lines = append(lines, bg.Render(fmt.Sprintf("%14s%s", "", msg), styles.DangerText))
		}
	}

	lines = append(lines, "")
	if s.submitting {
		lines = append(lines, bg.Render(m.spinner.View(), styles.AccentText)+bg.Spaces(1)+
			bg.Render("Submitting...", styles.MutedText))
	} else {
		lines = append(lines, bg.Render("ctrl+s submit · tab next field · esc cancel", styles.FaintText))
	}

	return m.renderTitledBox(s.title(), strings.Join(lines, "\n"), m.width, m.contentHeight(), true)
}

// Commands

func (m Model) pickCmd(path string) tea.Cmd {
	pick := m.pick
	return func() tea.Msg {
		asset, err := pick(path)
		return imagePickedMsg{path: strings.TrimSpace(path), asset: asset, err: err}
	}
}

// createCmd attaches any image path typed but not yet attached, then posts
// the draft.
func (m Model) createCmd(draft lostfound.Draft, pendingImage string) tea.Cmd {
	repo, pick, ctx := m.repo, m.pick, m.ctx
	return func() tea.Msg {
		if repo == nil {
			return createResultMsg{err: errors.New("no item repository configured")}
		}
		if pendingImage != "" {
			asset, err := pick(pendingImage)
			if err != nil && !errors.Is(err, imaging.ErrCancelled) {
				return createResultMsg{err: err}
			}
			draft.Image = asset.DataURI()
		}
		item, err := repo.CreateItem(ctx, draft)
		return createResultMsg{item: item, err: err}
	}
}

