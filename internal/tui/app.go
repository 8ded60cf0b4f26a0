package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/wolapp/wolctl/internal/action"
	"github.com/wolapp/wolctl/internal/logging"
	"github.com/wolapp/wolctl/internal/theme"
)

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	api    API
	server string

	// Current route
	Route Route

	// Screen models. MachinesModel lives for the whole session so its wake
	// and delete requests outlive navigation; the others are remounted on
	// each visit.
	MachinesModel   MachineListModel
	AddModel        AddMachineModel
	ArpModel        ArpTableModel
	machinesStarted bool

	// UI state
	Width  int
	Height int

	Help help.Model
	Keys globalKeyMap
}

// NewAppModel creates a new application model starting at route
func NewAppModel(api API, start Route, server string) AppModel {
	m := AppModel{
		api:    api,
		server: server,
		Help:   help.New(),
		Keys:   newGlobalKeyMap(),

		MachinesModel: NewMachineListModel(api),
	}
	m.mount(start)
	m.machinesStarted = m.Route.Screen == ScreenMachines
	return m
}

// Init initializes the current screen
func (m AppModel) Init() tea.Cmd {
	switch m.Route.Screen {
	case ScreenAdd:
		return m.AddModel.Init()
	case ScreenArp:
		return m.ArpModel.Init()
	default:
		return m.MachinesModel.Init()
	}
}

func (m *AppModel) mount(route Route) {
	m.Route = route
	switch route.Screen {
	case ScreenAdd:
		m.AddModel = NewAddMachineModel(m.api, route)
		m.AddModel.Width, m.AddModel.Height = m.Width, m.Height
	case ScreenArp:
		m.ArpModel = NewArpTableModel(m.api)
		m.ArpModel.Width, m.ArpModel.Height = m.Width, m.Height
	default:
		m.Route = Route{Screen: ScreenMachines}
	}
}

// enterScreen starts the screen just navigated to. Returning to the machines
// screen refetches the list instead of starting over.
func (m *AppModel) enterScreen() tea.Cmd {
	switch m.Route.Screen {
	case ScreenAdd:
		return m.AddModel.Init()
	case ScreenArp:
		return m.ArpModel.Init()
	}
	if !m.machinesStarted {
		m.machinesStarted = true
		return m.MachinesModel.Init()
	}
	var cmd tea.Cmd
	m.MachinesModel, cmd = m.MachinesModel.Refresh()
	return tea.Batch(cmd, m.MachinesModel.Spinner.Tick)
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		m.MachinesModel, _ = m.MachinesModel.Update(msg)
		if m.Route.Screen == ScreenMachines {
			return m, nil
		}
		// Screens mounted later copy the size in mount
		return m.updateCurrentScreen(msg)

	case machinesLoadedMsg, refreshMsg, action.SettledMsg, action.DismissMsg:
		// The machines screen owns these whichever screen is showing.
		var cmd tea.Cmd
		m.MachinesModel, cmd = m.MachinesModel.Update(msg)
		return m, cmd

	case navigateMsg:
		return m.transitionTo(msg.route)

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.globalKeysActive() {
			if next, cmd, ok := m.handleGlobalKey(msg); ok {
				return next, cmd
			}
		}
	}

	// Route to current screen
	return m.updateCurrentScreen(msg)
}

// globalKeysActive reports whether single-letter global keys apply. They are
// off while a text field or a dialog has the keyboard.
func (m AppModel) globalKeysActive() bool {
	switch m.Route.Screen {
	case ScreenAdd:
		return false
	case ScreenMachines:
		return !m.MachinesModel.CapturesKeys()
	}
	return true
}

func (m AppModel) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit, true
	case key.Matches(msg, m.Keys.Machines):
		next, cmd := m.transitionTo(Route{Screen: ScreenMachines})
		return next, cmd, true
	case key.Matches(msg, m.Keys.Add):
		next, cmd := m.transitionTo(Route{Screen: ScreenAdd})
		return next, cmd, true
	case key.Matches(msg, m.Keys.Arp):
		next, cmd := m.transitionTo(Route{Screen: ScreenArp})
		return next, cmd, true
	case key.Matches(msg, m.Keys.Theme):
		dark, err := theme.Toggle()
		if err != nil {
			logging.Warn("failed to save theme preference", zap.Error(err))
		}
		logging.Debug("theme toggled", zap.Bool("dark", dark))
		return m, nil, true
	}
	return m, nil, false
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.Route.Screen {
	case ScreenAdd:
		m.AddModel, cmd = m.AddModel.Update(msg)
	case ScreenArp:
		m.ArpModel, cmd = m.ArpModel.Update(msg)
	default:
		m.MachinesModel, cmd = m.MachinesModel.Update(msg)
	}
	return m, cmd
}

// transitionTo switches to route. Moving between two add routes keeps the
// form and the machines screen is never remounted; every other transition
// mounts a fresh screen.
func (m AppModel) transitionTo(route Route) (tea.Model, tea.Cmd) {
	logging.Debug("navigate", zap.String("from", m.Route.String()), zap.String("to", route.String()))

	if route.Screen == ScreenAdd && m.Route.Screen == ScreenAdd {
		m.Route = route
		m.AddModel = m.AddModel.WithMAC(route.MAC)
		return m, nil
	}

	m.mount(route)
	cmd := m.enterScreen()
	return m, cmd
}

// View renders the current screen inside the application container
func (m AppModel) View() string {
	var content string
	var keys help.KeyMap
	switch m.Route.Screen {
	case ScreenAdd:
		content, keys = m.AddModel.View(), m.AddModel.HelpKeys()
	case ScreenArp:
		content, keys = m.ArpModel.View(), m.ArpModel.HelpKeys()
	default:
		content, keys = m.MachinesModel.View(), m.MachinesModel.HelpKeys()
	}
	return RenderApplicationContainer(content, m.Help.View(keys), m.Route.Screen, m.server, m.Width, m.Height)
}
