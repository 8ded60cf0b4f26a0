package tui

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wolapp/wolctl/internal/logging"
	"github.com/wolapp/wolctl/internal/wolapi"
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

type arpLoadedMsg struct {
	mount int64
	rows  []wolapi.ArpRow
	err   error
}

// ArpTableModel shows the server's ARP table, loaded once on mount.
type ArpTableModel struct {
	api   API
	mount int64

	loading bool
	rows    []wolapi.ArpRow
	status  string

	// UI state
	Width   int
	Height  int
	Table   table.Model
	Spinner spinner.Model
	Help    help.Model
	Keys    arpKeyMap
}

// NewArpTableModel creates the arp screen. Init starts the fetch.
func NewArpTableModel(api API) ArpTableModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ip", Width: 18},
			{Title: "mac", Width: 19},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		BorderBottom(true).
		Bold(true)
	styles.Selected = SelectedRowStyle
	t.SetStyles(styles)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return ArpTableModel{
		api:     api,
		mount:   nextMount(),
		loading: true,
		Table:   t,
		Spinner: s,
		Help:    help.New(),
		Keys:    newArpKeyMap(newGlobalKeyMap()),
	}
}

// Init fetches the table
func (m ArpTableModel) Init() tea.Cmd {
	api, mount := m.api, m.mount
	return tea.Batch(m.Spinner.Tick, func() tea.Msg {
		rows, err := api.ArpTable(context.Background())
		return arpLoadedMsg{mount: mount, rows: rows, err: err}
	})
}

// Rows returns the rows as received.
func (m ArpTableModel) Rows() []wolapi.ArpRow { return m.rows }

// Loading reports whether the fetch is outstanding.
func (m ArpTableModel) Loading() bool { return m.loading }

// HelpKeys returns the bindings for the footer.
func (m ArpTableModel) HelpKeys() help.KeyMap { return m.Keys }

// Update handles messages and updates the model
func (m ArpTableModel) Update(msg tea.Msg) (ArpTableModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Table.SetHeight(max(3, msg.Height-14))
		return m, nil

	case arpLoadedMsg:
		if msg.mount != m.mount {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			logging.Warn("failed to fetch arp table", zap.Error(msg.err))
			return m, nil
		}
		m.rows = msg.rows
		rows := make([]table.Row, 0, len(msg.rows))
		for _, r := range msg.rows {
			rows = append(rows, table.Row{r.IP, r.MAC})
		}
		m.Table.SetRows(rows)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Add):
			if row, ok := m.selected(); ok {
				return m, Navigate(Route{Screen: ScreenAdd, MAC: row.MAC})
			}
			return m, nil
		case key.Matches(msg, m.Keys.Copy):
			if row, ok := m.selected(); ok {
				if err := copyToClipboard(row.MAC); err != nil {
					logging.Warn("failed to copy to clipboard", zap.Error(err))
					m.status = ErrorTextStyle.Render("could not copy " + row.MAC)
				} else {
					m.status = SuccessTextStyle.Render("copied " + row.MAC)
				}
			}
			return m, nil
		}
		m.status = ""
	}

	var cmd tea.Cmd
	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

func (m ArpTableModel) selected() (wolapi.ArpRow, bool) {
	i := m.Table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return wolapi.ArpRow{}, false
	}
	return m.rows[i], true
}

// View renders the arp screen
func (m ArpTableModel) View() string {
	intro := PrimaryBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render("arp table"),
		"these are the devices the server has seen on its network.",
		"press "+HighlightStyle.Render("enter")+" to add one as a machine.",
	))

	if m.loading {
		return lipgloss.JoinVertical(lipgloss.Left, intro, "", m.Spinner.View()+" fetching the arp table...")
	}

	parts := []string{intro, "", BoxStyle.Render(m.Table.View())}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
