package tui

import (
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wolapp/wolctl/internal/action"
	"github.com/wolapp/wolctl/internal/wolapi"
	"github.com/wolapp/wolctl/internal/wolapi/wolapitest"
)

const testDismissAfter = 5 * time.Millisecond

func init() {
	// a blinking cursor schedules a timer on every keystroke
	cursorMode = cursor.CursorStatic
}

// screenMsg reports whether a screen model consumes msg. Spinner and cursor
// ticks are left out so driving a model always terminates.
func screenMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case machinesLoadedMsg, refreshMsg, action.SettledMsg, action.DismissMsg,
		selfLoadedMsg, machineAddedMsg, arpLoadedMsg:
		return true
	}
	return false
}

func appMsg(msg tea.Msg) bool {
	if _, ok := msg.(navigateMsg); ok {
		return true
	}
	return screenMsg(msg)
}

// drive runs cmd and every command it leads to, feeding the messages accepted
// by feed back through update. Everything else is returned in order.
func drive[M any](t *testing.T, m M, update func(M, tea.Msg) (M, tea.Cmd), feed func(tea.Msg) bool, cmd tea.Cmd) (M, []tea.Msg) {
	t.Helper()

	var other []tea.Msg
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 1000 {
			t.Fatal("command loop did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		msg := next()
		switch msg := msg.(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			if !feed(msg) {
				other = append(other, msg)
				continue
			}
			var c tea.Cmd
			m, c = update(m, msg)
			queue = append(queue, c)
		}
	}
	return m, other
}

func driveMachines(t *testing.T, m MachineListModel, cmd tea.Cmd) (MachineListModel, []tea.Msg) {
	t.Helper()
	return drive(t, m, MachineListModel.Update, screenMsg, cmd)
}

func driveAdd(t *testing.T, m AddMachineModel, cmd tea.Cmd) (AddMachineModel, []tea.Msg) {
	t.Helper()
	return drive(t, m, AddMachineModel.Update, screenMsg, cmd)
}

func driveArp(t *testing.T, m ArpTableModel, cmd tea.Cmd) (ArpTableModel, []tea.Msg) {
	t.Helper()
	return drive(t, m, ArpTableModel.Update, screenMsg, cmd)
}

func driveApp(t *testing.T, m AppModel, cmd tea.Cmd) (AppModel, []tea.Msg) {
	t.Helper()
	update := func(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
		next, cmd := m.Update(msg)
		return next.(AppModel), cmd
	}
	return drive(t, m, update, appMsg, cmd)
}

// navigation returns the last route requested among msgs.
func navigation(msgs []tea.Msg) (Route, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if nav, ok := msgs[i].(navigateMsg); ok {
			return nav.route, true
		}
	}
	return Route{}, false
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestServer(t *testing.T, machines ...wolapi.Machine) *wolapitest.Server {
	t.Helper()
	srv := wolapitest.NewServer()
	t.Cleanup(srv.Close)
	srv.SetMachines(machines...)
	return srv
}

// loadedMachines returns a machines screen after its first fetch.
func loadedMachines(t *testing.T, srv *wolapitest.Server) MachineListModel {
	t.Helper()
	m := NewMachineListModel(srv.Client())
	m.dismissAfter = testDismissAfter
	m, _ = driveMachines(t, m, m.fetch())
	return m
}

var (
	desktop = wolapi.Machine{ID: "desktop", MAC: "aa:bb:cc:dd:ee:01"}
	nas     = wolapi.Machine{ID: "nas", MAC: "aa:bb:cc:dd:ee:02"}
)
