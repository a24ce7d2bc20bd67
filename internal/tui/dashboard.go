package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nathanbeddoewebdev/vitalmetrics/internal/api"
	"nathanbeddoewebdev/vitalmetrics/internal/domain"
	"nathanbeddoewebdev/vitalmetrics/internal/services/dashboard"
	"nathanbeddoewebdev/vitalmetrics/internal/tui/components"
	"nathanbeddoewebdev/vitalmetrics/internal/tui/styles"
	"nathanbeddoewebdev/vitalmetrics/internal/vitals"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"
)

// UserSource resolves the signed-in user. *auth.Gateway satisfies it.
type UserSource interface {
	CurrentUser(ctx context.Context) (*api.User, error)
}

// --- Messages ---

type dashboardReadyMsg struct {
	user *api.User
	snap *vitals.Snapshot
}

type snapshotMsg struct {
	snap *vitals.Snapshot
}

type dashboardErrorMsg struct {
	err error
}

// --- Dashboard model ---

type dashboardModel struct {
	ctx   context.Context
	users UserSource
	ctrl  *dashboard.Controller

	user *api.User
	snap *vitals.Snapshot

	spinner   spinner.Model
	filter    textinput.Model
	filtering bool
	loading   bool

	width  int
	height int

	err       error
	needLogin bool
}

// DashboardResult is the outcome of a dashboard session.
type DashboardResult struct {
	// Snapshot is the last snapshot shown, nil if none loaded.
	Snapshot *vitals.Snapshot

	// NeedLogin is set when the session was missing or revoked.
	NeedLogin bool
}

// RunDashboard starts the full-window dashboard. ctrl is closed when the
// program exits.
func RunDashboard(ctx context.Context, users UserSource, ctrl *dashboard.Controller, filter string) (*DashboardResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer ctrl.Close()

	m := newDashboardModel(ctx, users, ctrl, filter)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	result, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return nil, fmt.Errorf("failed to run dashboard: %w", err)
	}

	final, ok := result.(dashboardModel)
	if !ok {
		return &DashboardResult{Snapshot: ctrl.Snapshot()}, nil
	}
	return &DashboardResult{Snapshot: final.snap, NeedLogin: final.needLogin}, nil
}

func newDashboardModel(ctx context.Context, users UserSource, ctrl *dashboard.Controller, filter string) dashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.AccentText

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter pages"
	ti.Width = 40
	ti.SetValue(filter)

	return dashboardModel{
		ctx:     ctx,
		users:   users,
		ctrl:    ctrl,
		spinner: s,
		filter:  ti,
		loading: true,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.initialLoad(strings.TrimSpace(m.filter.Value())))
}

// initialLoad fetches the user and the first snapshot concurrently. A
// stale snapshot is not an error: a newer refresh will deliver its own,
// and the user is still shown.
func (m dashboardModel) initialLoad(filter string) tea.Cmd {
	ctx, users, ctrl := m.ctx, m.users, m.ctrl
	return func() tea.Msg {
		var msg dashboardReadyMsg
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			u, err := users.CurrentUser(gctx)
			if err != nil {
				return err
			}
			msg.user = u
			return nil
		})
		g.Go(func() error {
			snap, err := ctrl.Refresh(gctx, filter)
			if errors.Is(err, dashboard.ErrStale) {
				return nil
			}
			if err != nil {
				return err
			}
			msg.snap = snap
			return nil
		})

		if err := g.Wait(); err != nil {
			return dashboardErrorMsg{err: err}
		}
		return msg
	}
}

func (m dashboardModel) refresh(filter string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		snap, err := ctrl.Refresh(ctx, filter)
		if err != nil {
			return dashboardErrorMsg{err: err}
		}
		return snapshotMsg{snap: snap}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case dashboardReadyMsg:
		m.user = msg.user
		if msg.snap == nil {
			// Superseded; the newer refresh clears loading.
			return m, nil
		}
		m.snap = msg.snap
		m.loading = false
		m.err = nil
		return m, nil

	case snapshotMsg:
		m.snap = msg.snap
		m.loading = false
		m.err = nil
		return m, nil

	case dashboardErrorMsg:
		if errors.Is(msg.err, dashboard.ErrStale) {
			return m, nil
		}
		m.loading = false
		if errors.Is(msg.err, domain.ErrUnauthenticated) {
			m.needLogin = true
			return m, tea.Quit
		}
		m.err = msg.err
		return m, nil
	}

	if m.filtering {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "/":
		m.filtering = true
		cmd := m.filter.Focus()
		return m, cmd
	case "r":
		m.loading = true
		m.err = nil
		return m, m.refresh(strings.TrimSpace(m.filter.Value()))
	}
	return m, nil
}

func (m dashboardModel) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter", "esc":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() == before {
		return m, cmd
	}

	// Every edit starts a new load; the controller drops superseded ones.
	m.loading = true
	return m, tea.Batch(cmd, m.refresh(strings.TrimSpace(m.filter.Value())))
}

func (m dashboardModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	userLabel := ""
	if m.user != nil {
		userLabel = m.user.Email
	}
	header := components.Header(m.width, "dashboard", userLabel)

	var bindings []components.KeyBinding
	if m.filtering {
		bindings = []components.KeyBinding{
			{Key: "enter", Desc: "done"},
			{Key: "esc", Desc: "done"},
		}
	} else {
		bindings = []components.KeyBinding{
			{Key: "/", Desc: "filter"},
			{Key: "r", Desc: "refresh"},
			{Key: "q", Desc: "quit"},
		}
	}
	footer := components.Footer(m.width, bindings)

	statusBar := ""
	if m.err != nil {
		statusBar = components.StatusBar(m.width, "Error: "+m.err.Error(), true)
	}

	contentH := m.height - lipgloss.Height(header) - lipgloss.Height(footer) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	sections := []string{header, m.renderContent(contentH)}
	if statusBar != "" {
		sections = append(sections, statusBar)
	}
	sections = append(sections, footer)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m dashboardModel) renderContent(height int) string {
	if m.snap == nil {
		msg := m.spinner.View() + " Loading dashboard..."
		if !m.loading {
			msg = styles.MutedText.Render("No data loaded. Press r to retry.")
		}
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, msg)
	}

	filterLine := m.filter.View()
	if !m.filtering {
		if v := strings.TrimSpace(m.filter.Value()); v != "" {
			filterLine = styles.MutedText.Render("filter: ") + styles.Value.Render(v)
		} else {
			filterLine = styles.MutedText.Render("press / to filter pages")
		}
	}
	if m.loading {
		filterLine += "  " + m.spinner.View()
	}

	cards := components.MetricCards(m.snap.SummaryCards, m.width)

	var table string
	if len(m.snap.PageRows) == 0 {
		table = styles.MutedText.Render("No pages match the filter.")
	} else {
		table = components.PageTable(m.snap.PageRows, m.width-2)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		cards,
		"",
		filterLine,
		"",
		table,
	)
	return lipgloss.NewStyle().Height(height).MaxHeight(height).Padding(0, 1).Render(body)
}
