package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/five82/lostfound/internal/favorites"
	"github.com/five82/lostfound/internal/filter"
	"github.com/five82/lostfound/internal/imaging"
	"github.com/five82/lostfound/internal/kv"
	"github.com/five82/lostfound/internal/lostfound"
	"github.com/five82/lostfound/internal/share"
	"github.com/five82/lostfound/internal/state"
)

// ThemeKey is the kv key holding the selected theme name.
const ThemeKey = "theme"

// Options configures the UI.
type Options struct {
	Context   context.Context
	Repo      lostfound.Repository
	Store     *state.Store
	Favorites *favorites.Store
	Prefs     kv.Store // theme persistence; may be nil
	Sharer    share.Sharer
	Picker    func(path string) (imaging.Asset, error)
	ThemeName string
	APIURL    string
	Now       func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	repo      lostfound.Repository
	store     *state.Store
	favorites *favorites.Store
	prefs     kv.Store
	sharer    share.Sharer
	pick      func(string) (imaging.Asset, error)
	now       func() time.Time
	apiURL    string

	keys   keyMap
	theme  Theme
	width  int
	height int
	ready  bool

	screen   screen
	snapshot state.Snapshot
	banner   string // last fetch failure, shown above the list

	// List state
	selectedRow  int
	statusFilter filter.Status
	search       textinput.Model

	detailViewport viewport.Model

	form postForm

	spinner  spinner.Model
	showHelp bool
	notice   notice
}

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeError
)

type notice struct {
	kind noticeKind
	text string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	pick := opts.Picker
	if pick == nil {
		pick = imaging.Pick
	}
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "title or location"
	search.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:          ctx,
		repo:         opts.Repo,
		store:        store,
		favorites:    opts.Favorites,
		prefs:        opts.Prefs,
		sharer:       opts.Sharer,
		pick:         pick,
		now:          now,
		apiURL:       opts.APIURL,
		keys:         DefaultKeyMap(),
		theme:        GetTheme(opts.ThemeName),
		screen:       loadingScreen{},
		statusFilter: filter.All,
		search:       search,
		spinner:      sp,
		form:         newPostForm(now()),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.detailViewport = viewport.New(0, 0)
		}
		m.ready = true
		m.resizeDetail()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case itemsRefreshedMsg:
		return m.handleRefreshed(msg)

	case createResultMsg:
		return m.handleCreated(msg)

	case imagePickedMsg:
		m.handleImagePicked(msg)
		return m, nil

	case favoriteStatusMsg:
		m.handleFavoriteStatus(msg)
		return m, nil

	case favoriteToggledMsg:
		m.handleFavoriteToggled(msg)
		return m, nil

	case shareResultMsg:
		if msg.err != nil {
			m.notify(noticeError, "Share failed: "+msg.err.Error())
		} else {
			m.notify(noticeInfo, "Copied to clipboard")
		}
		return m, nil

	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	if m.notice.text != "" {
		b.WriteString("\n")
		b.WriteString(m.renderNotice())
	}
	return b.String()
}

func (m Model) renderContent() string {
	switch s := m.screen.(type) {
	case loadingScreen:
		return m.renderLoading()
	case listScreen:
		return m.renderList()
	case detailScreen:
		return m.renderDetail(s)
	case postFormScreen:
		return m.renderPostForm(s)
	default:
		return ""
	}
}

// typing reports whether key presses go to a text input.
func (m Model) typing() bool {
	switch m.screen.(type) {
	case listScreen:
		return m.search.Focused()
	case postFormScreen:
		return true
	}
	return false
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	m.notice = notice{}

	if !m.typing() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.CycleTheme):
			m.theme = GetTheme(NextTheme(m.theme.Name))
			return m, m.saveThemeCmd(m.theme.Name)
		}
	}

	switch s := m.screen.(type) {
	case listScreen:
		return m.handleListKey(msg)
	case detailScreen:
		return m.handleDetailKey(msg, s)
	case postFormScreen:
		return m.handlePostFormKey(msg, s)
	}
	return m, nil
}

func (m Model) handleRefreshed(msg itemsRefreshedMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, state.ErrSuperseded) {
		return m, nil
	}
	m.snapshot = m.store.Snapshot()
	if msg.err != nil {
		log.Warn().Err(msg.err).Int("failures", m.snapshot.ConsecutiveFailures).Msg("item refresh failed")
		m.banner = describeError(msg.err)
	} else {
		m.banner = ""
	}
	if _, ok := m.screen.(loadingScreen); ok {
		m.screen = listScreen{}
	}
	m.clampSelection()
	return m, nil
}

func (m *Model) notify(kind noticeKind, text string) {
	m.notice = notice{kind: kind, text: text}
}

// describeError turns an operation failure into a one-line notice.
func describeError(err error) string {
	var (
		authErr    *lostfound.AuthError
		netErr     *lostfound.NetworkError
		serverErr  *lostfound.ServerError
		pickErr    *imaging.PickError
		storageErr *favorites.StorageError
	)
	switch {
	case errors.As(err, &authErr):
		return "Sign-in required: " + authErr.Reason
	case errors.As(err, &netErr):
		if errors.Is(err, context.DeadlineExceeded) {
			return "Network error: request timed out"
		}
		return "Network error: could not reach the server"
	case errors.As(err, &serverErr):
		return serverErr.Error()
	case errors.As(err, &pickErr):
		return "Could not attach image: " + pickErr.Err.Error()
	case errors.As(err, &storageErr):
		return "Local storage error: " + storageErr.Error()
	default:
		return err.Error()
	}
}

// Messages

type itemsRefreshedMsg struct{ err error }

type createResultMsg struct {
	item lostfound.Item
	err  error
}

type imagePickedMsg struct {
	path  string
	asset imaging.Asset
	err   error
}

type favoriteStatusMsg struct {
	id       lostfound.ID
	favorite bool
	err      error
}

type favoriteToggledMsg struct {
	id       lostfound.ID
	favorite bool
	err      error
}

type shareResultMsg struct{ err error }

// Commands

func (m Model) refreshCmd() tea.Cmd {
	store, repo, ctx := m.store, m.repo, m.ctx
	return func() tea.Msg {
		if repo == nil {
			return itemsRefreshedMsg{err: errors.New("no item repository configured")}
		}
		return itemsRefreshedMsg{err: store.Refresh(ctx, repo)}
	}
}

func (m Model) saveThemeCmd(name string) tea.Cmd {
	prefs, ctx := m.prefs, m.ctx
	if prefs == nil {
		return nil
	}
	return func() tea.Msg {
		if err := prefs.Set(ctx, ThemeKey, name); err != nil {
			log.Warn().Err(err).Str("theme", name).Msg("persist theme failed")
		}
		return nil
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
