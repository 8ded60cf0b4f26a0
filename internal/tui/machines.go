package tui

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/wolapp/wolctl/internal/action"
	"github.com/wolapp/wolctl/internal/logging"
	"github.com/wolapp/wolctl/internal/wolapi"
)

// mounts numbers screen model instances so responses addressed to a
// previous instance of a screen are dropped after navigation.
var mounts atomic.Int64

func nextMount() int64 { return mounts.Add(1) }

// Messages for the machine list
type refreshMsg struct {
	mount int64
}

type machinesLoadedMsg struct {
	mount    int64
	seq      int
	machines []wolapi.Machine
	err      error
}

type machineAction = action.Controller[wolapi.Machine]

// MachineListModel owns the list of registered machines and the wake and
// delete controllers of each row.
type MachineListModel struct {
	api   API
	mount int64

	// Fetch state. seq numbers requests; applied is the newest response
	// written to machines, so an older response never replaces a newer one.
	loading     bool
	seq         int
	applied     int
	machines    []wolapi.Machine
	lastRefresh time.Time
	lastErr     error

	cursor       int
	wake         map[string]machineAction
	del          map[string]machineAction
	modal        *action.Key
	dismissAfter time.Duration

	// UI state
	Width     int
	Height    int
	Spinner   spinner.Model
	Help      help.Model
	Keys      machinesKeyMap
	ModalKeys modalKeyMap
}

// NewMachineListModel creates the machines screen. Init starts the first fetch.
func NewMachineListModel(api API) MachineListModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return MachineListModel{
		api:          api,
		mount:        nextMount(),
		loading:      true,
		seq:          1,
		wake:         make(map[string]machineAction),
		del:          make(map[string]machineAction),
		dismissAfter: action.DefaultDismissAfter,
		Spinner:      s,
		Help:         help.New(),
		Keys:         newMachinesKeyMap(newGlobalKeyMap()),
		ModalKeys:    newModalKeyMap(),
	}
}

// Init fetches the machine list
func (m MachineListModel) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.Spinner.Tick)
}

// Refresh issues a fetch of the full machine list.
func (m MachineListModel) Refresh() (MachineListModel, tea.Cmd) {
	m.seq++
	return m, m.fetch()
}

func (m MachineListModel) fetch() tea.Cmd {
	api, mount, seq := m.api, m.mount, m.seq
	return func() tea.Msg {
		machines, err := api.ListMachines(context.Background())
		return machinesLoadedMsg{mount: mount, seq: seq, machines: machines, err: err}
	}
}

// refresher is the capability handed to each row's controllers.
func (m MachineListModel) refresher() action.Refresher {
	mount := m.mount
	return func() tea.Cmd {
		return func() tea.Msg { return refreshMsg{mount: mount} }
	}
}

// Update handles messages and updates the model
func (m MachineListModel) Update(msg tea.Msg) (MachineListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case refreshMsg:
		if msg.mount == m.mount {
			return m.Refresh()
		}

	case machinesLoadedMsg:
		if msg.mount != m.mount {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.lastErr = msg.err
			logging.Warn("failed to fetch machines", zap.Error(msg.err))
			return m, nil
		}
		if msg.seq <= m.applied {
			logging.Debug("dropping stale machine list", zap.Int("seq", msg.seq), zap.Int("applied", m.applied))
			return m, nil
		}
		m.applied = msg.seq
		m.lastErr = nil
		m.machines = msg.machines
		m.lastRefresh = time.Now()
		m.syncControllers()

	case action.SettledMsg, action.DismissMsg:
		return m.updateAction(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.modal != nil {
			return m.updateModal(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m MachineListModel) updateList(msg tea.KeyMsg) (MachineListModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.Keys.Down):
		if m.cursor < len(m.machines)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.Keys.Wake):
		return m.open(action.KindWake), nil
	case key.Matches(msg, m.Keys.Delete):
		return m.open(action.KindDelete), nil
	case key.Matches(msg, m.Keys.Refresh):
		return m.Refresh()
	}
	return m, nil
}

func (m MachineListModel) updateModal(msg tea.KeyMsg) (MachineListModel, tea.Cmd) {
	c, ok := m.controller(*m.modal)
	if !ok {
		m.modal = nil
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.ModalKeys.Confirm):
		c, cmd = c.Confirm()
	case key.Matches(msg, m.ModalKeys.Cancel):
		c = c.Close()
	default:
		return m, nil
	}
	m.store(c)
	if !c.Active() {
		m.modal = nil
		m.prune()
	}
	return m, cmd
}

func (m MachineListModel) updateAction(msg tea.Msg) (MachineListModel, tea.Cmd) {
	k, _ := action.KeyOf(msg)
	c, ok := m.controller(k)
	if !ok {
		if _, settled := msg.(action.SettledMsg); settled {
			return m.Refresh()
		}
		return m, nil
	}

	c, cmd := c.Update(msg)
	m.store(c)
	if !c.Active() && m.modal != nil && *m.modal == k {
		m.modal = nil
	}
	m.prune()
	return m, cmd
}

// open shows the confirmation dialog for the selected row.
func (m MachineListModel) open(kind action.Kind) MachineListModel {
	if m.cursor >= len(m.machines) {
		return m
	}
	k := action.Key{ID: m.machines[m.cursor].ID, Kind: kind}
	c, ok := m.controller(k)
	if !ok {
		return m
	}
	c = c.Open()
	m.store(c)
	if c.Active() {
		m.modal = &k
	}
	return m
}

func (m MachineListModel) controller(k action.Key) (machineAction, bool) {
	switch k.Kind {
	case action.KindWake:
		c, ok := m.wake[k.ID]
		return c, ok
	case action.KindDelete:
		c, ok := m.del[k.ID]
		return c, ok
	}
	return machineAction{}, false
}

func (m MachineListModel) store(c machineAction) {
	switch c.Key().Kind {
	case action.KindWake:
		m.wake[c.Key().ID] = c
	case action.KindDelete:
		m.del[c.Key().ID] = c
	}
}

// syncControllers gives every listed machine a wake and a delete controller.
func (m *MachineListModel) syncControllers() {
	api, refresh := m.api, m.refresher()
	for _, machine := range m.machines {
		if c, ok := m.wake[machine.ID]; ok {
			m.wake[machine.ID] = c.WithSubject(machine)
		} else {
			m.wake[machine.ID] = action.New(action.KindWake, machine.ID, machine,
				func(ctx context.Context, mc wolapi.Machine) error { return api.WakeMachine(ctx, mc.MAC) },
				refresh,
			).WithDismissAfter(m.dismissAfter)
		}
		if c, ok := m.del[machine.ID]; ok {
			m.del[machine.ID] = c.WithSubject(machine)
		} else {
			m.del[machine.ID] = action.New(action.KindDelete, machine.ID, machine,
				func(ctx context.Context, mc wolapi.Machine) error { return api.DeleteMachine(ctx, mc.ID) },
				refresh,
			).WithDismissAfter(m.dismissAfter)
		}
	}
	if m.cursor >= len(m.machines) {
		m.cursor = max(0, len(m.machines)-1)
	}
	m.prune()
}

// prune drops controllers of machines no longer listed once they are idle
// with nothing in flight.
func (m MachineListModel) prune() {
	listed := make(map[string]bool, len(m.machines))
	for _, machine := range m.machines {
		listed[machine.ID] = true
	}
	for _, set := range []map[string]machineAction{m.wake, m.del} {
		for id, c := range set {
			if !listed[id] && !c.Active() && !c.InFlight() {
				delete(set, id)
			}
		}
	}
}

// Machines returns the current list.
func (m MachineListModel) Machines() []wolapi.Machine { return m.machines }

// Loading reports whether the first fetch is outstanding.
func (m MachineListModel) Loading() bool { return m.loading }

// HelpKeys returns the bindings for the footer.
func (m MachineListModel) HelpKeys() help.KeyMap {
	if m.modal != nil {
		return m.ModalKeys
	}
	return m.Keys
}

// CapturesKeys reports whether global keys must be passed to this screen.
func (m MachineListModel) CapturesKeys() bool { return m.modal != nil }

// View renders the machines screen
func (m MachineListModel) View() string {
	if m.modal != nil {
		if c, ok := m.controller(*m.modal); ok {
			return RenderModal(renderActionDialog(c, m.Spinner.View()), m.Width, m.Height)
		}
	}

	var b strings.Builder
	switch {
	case m.loading:
		b.WriteString(PrimaryBoxStyle.Render(m.Spinner.View() + " loading your machines..."))
	case len(m.machines) == 0:
		b.WriteString(PrimaryBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			TitleStyle.Render("welcome to wolapp"),
			"get started by "+HighlightStyle.Render("adding a machine")+" (press 2).",
		)))
	default:
		n := len(m.machines)
		b.WriteString(PrimaryBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			TitleStyle.Render("machines"),
			fmt.Sprintf("you've added %d %s. select a machine below to wake it, or %s (press 2).",
				n, plural(n, "machine", "machines"), HighlightStyle.Render("add another machine")),
		)))
		b.WriteString("\n")
		b.WriteString(m.renderRows())
	}

	if !m.loading {
		b.WriteString("\n")
		b.WriteString(m.renderStatus())
	}
	return b.String()
}

func (m MachineListModel) renderRows() string {
	nameWidth := 4
	for _, machine := range m.machines {
		nameWidth = max(nameWidth, lipgloss.Width(machine.ID))
	}

	var rows []string
	for i, machine := range m.machines {
		line := fmt.Sprintf("%-*s  %s", nameWidth, machine.ID, machine.MAC)
		if s := m.rowStatus(machine.ID); s != "" {
			line += "  " + s
		}
		if i == m.cursor {
			rows = append(rows, SelectedRowStyle.Render("→ "+line))
		} else {
			rows = append(rows, RowStyle.Render("  "+line))
		}
	}
	return strings.Join(rows, "\n")
}

// rowStatus shows controllers running behind a closed dialog.
func (m MachineListModel) rowStatus(id string) string {
	var parts []string
	if c, ok := m.wake[id]; ok && c.InFlight() {
		parts = append(parts, SubtitleStyle.Render("waking..."))
	}
	if c, ok := m.del[id]; ok && c.InFlight() {
		parts = append(parts, SubtitleStyle.Render("deleting..."))
	}
	return strings.Join(parts, " ")
}

func (m MachineListModel) renderStatus() string {
	if m.lastErr != nil {
		msg := "could not refresh: " + wolapi.ShortMessage(m.lastErr)
		if wolapi.IsRetryable(m.lastErr) {
			msg += " (r to retry)"
		}
		return ErrorTextStyle.Render(msg)
	}
	if m.lastRefresh.IsZero() {
		return ""
	}
	return SubtitleStyle.Render("refreshed " + humanize.Time(m.lastRefresh))
}

// renderActionDialog renders the confirm dialog of a wake or delete controller.
func renderActionDialog(c machineAction, spin string) string {
	machine := c.Subject()
	name := HighlightStyle.Render(machine.ID)

	var title, question, verb, progress string
	switch c.Key().Kind {
	case action.KindWake:
		title = "wake " + name
		question = "send a wol packet to " + HighlightStyle.Render(machine.MAC) + "?"
		verb, progress = "wake", "waking..."
	default:
		title = "delete " + name
		question = "are you sure you'd like to delete " + name + " from your machines?"
		verb, progress = "delete", "deleting..."
	}

	var button string
	switch c.State() {
	case action.Pending:
		button = PrimaryButtonStyle.Render(spin + " " + progress)
	case action.Done:
		button = SuccessTextStyle.Render("success!")
	case action.Error:
		button = ErrorTextStyle.Render("error!")
	default:
		button = PrimaryButtonStyle.Render("y " + verb)
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Center, button, "  ", ButtonStyle.Render("n cancel"))

	lines := []string{TitleStyle.Render(title), question, "", buttons}
	if err := c.Err(); err != nil {
		lines = append(lines, "", SubtitleStyle.Render(wolapi.ShortMessage(err)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
