package tui

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"nathanbeddoewebdev/vitalmetrics/internal/config"
	"nathanbeddoewebdev/vitalmetrics/internal/tui/components"
	"nathanbeddoewebdev/vitalmetrics/internal/tui/styles"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Where an effective setting comes from, in increasing precedence.
const (
	sourceDefault = "default"
	sourceFile    = "file"
	sourceEnv     = "env"
)

// settingRow is one key as the editor shows it.
type settingRow struct {
	Name      string
	Stored    string // value in the config file, "" when unset
	Effective string
	Source    string
}

type settingSavedMsg struct {
	name string
}

type settingSaveFailedMsg struct {
	err error
}

// settingsEditor edits the config file and shows what each key resolves
// to once environment overrides and defaults are applied.
type settingsEditor struct {
	cfg  *config.Config
	keys []config.KeySpec
	rows []settingRow

	selected int
	editing  bool
	input    textinput.Model

	width  int
	height int

	notice    string
	noticeErr bool
}

// RunConfigEditor opens the interactive config editor.
func RunConfigEditor() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	p := tea.NewProgram(newSettingsEditor(cfg), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func newSettingsEditor(cfg *config.Config) settingsEditor {
	e := settingsEditor{cfg: cfg, keys: config.Keys}
	e.rows, e.notice, e.noticeErr = resolveRows(cfg, e.keys)
	return e
}

// resolveRows computes the table rows for cfg. A resolution failure, such
// as a malformed environment override, is returned as an error notice and
// the effective column falls back to the stored values.
func resolveRows(cfg *config.Config, keys []config.KeySpec) ([]settingRow, string, bool) {
	effective := map[string]string{}
	notice, isErr := "", false
	if s, err := config.Resolve(cfg); err != nil {
		notice, isErr = "Error: "+err.Error(), true
	} else {
		effective = effectiveValues(s)
	}

	rows := make([]settingRow, len(keys))
	for i, spec := range keys {
		r := settingRow{Name: spec.Name, Stored: spec.Get(cfg), Source: sourceDefault}
		switch {
		case envSet(spec.Name):
			r.Source = sourceEnv
		case r.Stored != "":
			r.Source = sourceFile
		}
		r.Effective = effective[spec.Name]
		if _, ok := effective[spec.Name]; !ok {
			r.Effective = r.Stored
		}
		rows[i] = r
	}
	return rows, notice, isErr
}

func effectiveValues(s *config.Settings) map[string]string {
	return map[string]string{
		"api-url":         s.APIURL,
		"session-backend": s.SessionBackend,
		"request-timeout": s.RequestTimeout.String(),
		"record-history":  strconv.FormatBool(s.RecordHistory),
		"log-file":        s.LogFile,
	}
}

// envSet reports whether name is overridden by VITALMETRICS_<NAME>.
func envSet(name string) bool {
	v := config.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	_, ok := os.LookupEnv(v)
	return ok
}

func (e settingsEditor) Init() tea.Cmd {
	return nil
}

func (e settingsEditor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.width, e.height = msg.Width, msg.Height
		return e, nil

	case tea.KeyMsg:
		if e.editing {
			return e.updateInput(msg)
		}
		return e.updateTable(msg)

	case settingSavedMsg:
		e.editing = false
		e.rows, e.notice, e.noticeErr = resolveRows(e.cfg, e.keys)
		if !e.noticeErr {
			e.notice = "Saved " + msg.name
		}
		return e, nil

	case settingSaveFailedMsg:
		e.notice, e.noticeErr = "Error: "+msg.err.Error(), true
		return e, nil
	}

	if e.editing {
		var cmd tea.Cmd
		e.input, cmd = e.input.Update(msg)
		return e, cmd
	}
	return e, nil
}

func (e settingsEditor) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return e, tea.Quit
	case "up", "k":
		e.selected = max(e.selected-1, 0)
	case "down", "j":
		e.selected = min(e.selected+1, len(e.keys)-1)
	case "home", "g":
		e.selected = 0
	case "end", "G":
		e.selected = len(e.keys) - 1
	case "enter", "e":
		if len(e.keys) == 0 {
			return e, nil
		}
		e.input = textinput.New()
		e.input.Prompt = e.keys[e.selected].Name + ": "
		e.input.Placeholder = e.rows[e.selected].Effective
		e.input.SetValue(e.rows[e.selected].Stored)
		e.input.Width = 40
		e.editing = true
		e.notice = ""
		cmd := e.input.Focus()
		return e, cmd
	}
	return e, nil
}

func (e settingsEditor) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return e, tea.Quit
	case "esc":
		e.editing = false
		e.input.Blur()
		return e, nil
	case "enter":
		spec := e.keys[e.selected]
		if err := spec.Set(e.cfg, strings.TrimSpace(e.input.Value())); err != nil {
			e.notice = fmt.Sprintf("Invalid %s: %v", spec.Name, err)
			e.noticeErr = true
			return e, nil
		}
		return e, saveSettings(e.cfg, spec.Name)
	}

	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return e, cmd
}

func saveSettings(cfg *config.Config, name string) tea.Cmd {
	return func() tea.Msg {
		if err := cfg.Save(); err != nil {
			return settingSaveFailedMsg{err: err}
		}
		return settingSavedMsg{name: name}
	}
}

func (e settingsEditor) View() string {
	if e.width == 0 || e.height == 0 {
		return ""
	}

	header := components.Header(e.width, "config", "")
	bindings := []components.KeyBinding{
		{Key: "j/k", Desc: "move"},
		{Key: "e", Desc: "edit"},
		{Key: "q", Desc: "quit"},
	}
	if e.editing {
		bindings = []components.KeyBinding{
			{Key: "enter", Desc: "save"},
			{Key: "esc", Desc: "cancel"},
		}
	}
	footer := components.Footer(e.width, bindings)

	var notice string
	if e.notice != "" {
		notice = components.StatusBar(e.width, e.notice, e.noticeErr)
	}

	bodyH := max(e.height-lipgloss.Height(header)-lipgloss.Height(footer)-lipgloss.Height(notice), 1)
	body := lipgloss.Place(e.width, bodyH, lipgloss.Center, lipgloss.Center, e.renderBody())

	parts := []string{header, body}
	if notice != "" {
		parts = append(parts, notice)
	}
	return lipgloss.JoinVertical(lipgloss.Left, append(parts, footer)...)
}

func (e settingsEditor) renderBody() string {
	if len(e.rows) == 0 {
		return styles.MutedText.Render("No configuration keys defined.")
	}

	data := make([][]string, len(e.rows))
	for i, r := range e.rows {
		value := r.Effective
		if value == "" {
			value = "(not set)"
		}
		data[i] = []string{r.Name, value, r.Source}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.DimGray)).
		BorderColumn(false).
		Headers("KEY", "VALUE", "SOURCE").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styles.TableHeader
			case row == e.selected:
				return styles.TableSelectedRow
			case col == 2 && row >= 0 && row < len(e.rows) && e.rows[row].Source == sourceDefault:
				return styles.TableCell.Foreground(styles.Gray)
			}
			return styles.TableCell
		})

	detail := styles.MutedText.Italic(true).Render(e.keys[e.selected].Description)
	if e.editing {
		detail = e.input.View()
	} else if e.rows[e.selected].Source == sourceEnv {
		detail += styles.MutedText.Render("  (overridden by the environment)")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render("Configuration"),
		"",
		t.Render(),
		"",
		detail,
	)
}
