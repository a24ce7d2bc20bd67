package tui

import (
	"strings"

	"nathanbeddoewebdev/vitalmetrics/internal/tui/components"
	"nathanbeddoewebdev/vitalmetrics/internal/tui/styles"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AuthStatus describes the current session for display.
type AuthStatus struct {
	APIURL  string
	Backend string

	// Authenticated is true when the data source accepted the stored token.
	Authenticated bool
	Email         string
	Name          string

	// Detail explains a missing or failed session, e.g. "no session".
	Detail string
}

// Rows returns label/value pairs in display order.
func (s AuthStatus) Rows() [][2]string {
	session := "not authenticated"
	if s.Authenticated {
		session = "authenticated"
	}
	rows := [][2]string{
		{"API", s.APIURL},
		{"Backend", s.Backend},
		{"Session", session},
	}
	if s.Authenticated {
		rows = append(rows, [2]string{"Email", s.Email})
		if s.Name != "" {
			rows = append(rows, [2]string{"Name", s.Name})
		}
	} else if s.Detail != "" {
		rows = append(rows, [2]string{"Detail", s.Detail})
	}
	return rows
}

// --- Auth status model ---

type authStatusModel struct {
	status AuthStatus

	width  int
	height int
}

// RunAuthStatus starts the full-window auth status TUI.
func RunAuthStatus(status AuthStatus) error {
	p := tea.NewProgram(authStatusModel{status: status}, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m authStatusModel) Init() tea.Cmd {
	return nil
}

func (m authStatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m authStatusModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "auth status", m.status.Email)
	footer := components.Footer(m.width, []components.KeyBinding{
		{Key: "q", Desc: "quit"},
	})

	contentH := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentH < 1 {
		contentH = 1
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, m.renderContent(contentH), footer)
}

func (m authStatusModel) renderContent(height int) string {
	title := styles.Title.Render("Session")

	labelWidth := 12
	lines := make([]string, 0, 5)
	for _, row := range m.status.Rows() {
		label := styles.Label.Width(labelWidth).Render(row[0])

		var value string
		switch {
		case row[0] == "Session" && m.status.Authenticated:
			value = styles.SuccessText.Render(row[1])
		case row[0] == "Session" || row[0] == "Detail":
			value = styles.MutedText.Render(row[1])
		default:
			value = styles.Value.Render(row[1])
		}
		lines = append(lines, label+value)
	}

	card := styles.Card.Width(56).Render(strings.Join(lines, "\n"))
	combined := lipgloss.JoinVertical(lipgloss.Center, title, "", card)

	return lipgloss.Place(
		m.width, height,
		lipgloss.Center, lipgloss.Center,
		combined,
	)
}
