package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wolapp/wolctl/internal/logging"
	"github.com/wolapp/wolctl/internal/macaddr"
	"github.com/wolapp/wolctl/internal/wolapi"
)

// Form errors shown under the add form.
var (
	ErrNameRequired = errors.New("specify a name")
	ErrMACRequired  = errors.New("specify a mac address")
	ErrMACInvalid   = errors.New("mac address is in an invalid form")
	ErrAddFailed    = errors.New("error occurred adding the machine")
)

// formErrorText is the line shown under the form for err.
func formErrorText(err error) string {
	switch {
	case errors.Is(err, ErrAddFailed):
		return err.Error() + " :/"
	case errors.Is(err, ErrNameRequired), errors.Is(err, ErrMACRequired), errors.Is(err, ErrMACInvalid):
		return err.Error() + "."
	}
	return err.Error()
}

// cursorMode is the cursor style of both form fields.
var cursorMode = cursor.CursorBlink

// Messages for async operations
type selfLoadedMsg struct {
	mount int64
	info  *wolapi.SelfArpInfo
	err   error
}

type machineAddedMsg struct {
	mount int64
	err   error
}

// AddMachineModel is the add form plus the "add self" suggestions.
type AddMachineModel struct {
	api   API
	mount int64

	// hasParam is set when the route carried a mac; suggestions are then
	// never shown.
	hasParam bool
	self     *wolapi.SelfArpInfo

	NameInput textinput.Model
	MACInput  textinput.Model
	focus     int // suggestions first, then name, then mac

	err        error
	submitting bool

	// UI state
	Width   int
	Height  int
	Spinner spinner.Model
	Help    help.Model
	Keys    addKeyMap
}

// NewAddMachineModel creates the add screen for route.
func NewAddMachineModel(api API, route Route) AddMachineModel {
	name := textinput.New()
	name.Placeholder = "my-desktop"
	name.Prompt = "name › "
	name.CharLimit = 64
	name.Width = 32
	name.Cursor.SetMode(cursorMode)

	mac := textinput.New()
	mac.Placeholder = "aa:bb:cc:dd:ee:ff"
	mac.Prompt = "mac  › "
	mac.CharLimit = 32
	mac.Width = 32
	mac.Cursor.SetMode(cursorMode)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	m := AddMachineModel{
		api:       api,
		mount:     nextMount(),
		NameInput: name,
		MACInput:  mac,
		Spinner:   s,
		Help:      help.New(),
		Keys:      newAddKeyMap(),
	}
	if route.MAC != "" {
		m.hasParam = true
		m.MACInput.SetValue(route.MAC)
	}
	m.focus = m.nameIndex()
	m.applyFocus()
	return m
}

// Init starts the cursor blinking and, without a mac parameter, looks up
// the caller's own addresses.
func (m AddMachineModel) Init() tea.Cmd {
	if m.hasParam {
		return textinput.Blink
	}
	api, mount := m.api, m.mount
	return tea.Batch(textinput.Blink, func() tea.Msg {
		info, err := api.ArpSelf(context.Background())
		return selfLoadedMsg{mount: mount, info: info, err: err}
	})
}

// WithMAC moves the form to a new mac parameter without remounting. The
// typed name is kept.
func (m AddMachineModel) WithMAC(mac string) AddMachineModel {
	if mac == "" {
		return m
	}
	m.hasParam = true
	m.MACInput.SetValue(mac)
	m.MACInput.CursorEnd()
	m.focus = m.nameIndex()
	m.applyFocus()
	return m
}

// Suggestions returns the addresses offered as shortcuts.
func (m AddMachineModel) Suggestions() []string {
	if m.hasParam || m.self == nil {
		return nil
	}
	return m.self.MACs
}

// Err returns the error under the form, if any.
func (m AddMachineModel) Err() error { return m.err }

// Submitting reports whether a create request is outstanding.
func (m AddMachineModel) Submitting() bool { return m.submitting }

// HelpKeys returns the bindings for the footer.
func (m AddMachineModel) HelpKeys() help.KeyMap { return m.Keys }

func (m AddMachineModel) nameIndex() int { return len(m.Suggestions()) }
func (m AddMachineModel) macIndex() int  { return len(m.Suggestions()) + 1 }

func (m *AddMachineModel) applyFocus() tea.Cmd {
	m.NameInput.Blur()
	m.MACInput.Blur()
	m.NameInput.PromptStyle = BlurredInputStyle
	m.MACInput.PromptStyle = BlurredInputStyle

	switch m.focus {
	case m.nameIndex():
		m.NameInput.PromptStyle = FocusedInputStyle
		return m.NameInput.Focus()
	case m.macIndex():
		m.MACInput.PromptStyle = FocusedInputStyle
		return m.MACInput.Focus()
	}
	return nil
}

func (m AddMachineModel) moveFocus(delta int) (AddMachineModel, tea.Cmd) {
	n := m.macIndex() + 1
	m.focus = ((m.focus+delta)%n + n) % n
	cmd := m.applyFocus()
	return m, cmd
}

// Update handles messages and updates the model
func (m AddMachineModel) Update(msg tea.Msg) (AddMachineModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case selfLoadedMsg:
		if msg.mount != m.mount {
			return m, nil
		}
		if msg.err != nil {
			logging.Warn("failed to look up own addresses", zap.Error(msg.err))
			return m, nil
		}
		if m.hasParam {
			return m, nil
		}
		m.self = msg.info
		// keep the same field focused now that suggestions precede it
		if m.NameInput.Focused() {
			m.focus = m.nameIndex()
		} else if m.MACInput.Focused() {
			m.focus = m.macIndex()
		}
		cmd := m.applyFocus()
		return m, cmd

	case machineAddedMsg:
		if msg.mount != m.mount {
			return m, nil
		}
		m.submitting = false
		if msg.err != nil {
			logging.Warn("failed to add machine", zap.Error(msg.err))
			m.err = ErrAddFailed
			return m, nil
		}
		return m, Navigate(Route{Screen: ScreenMachines})

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Back):
			return m, Navigate(Route{Screen: ScreenMachines})
		case key.Matches(msg, m.Keys.Next):
			return m.moveFocus(1)
		case key.Matches(msg, m.Keys.Prev):
			return m.moveFocus(-1)
		case key.Matches(msg, m.Keys.Submit):
			return m.enter(msg)
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case m.nameIndex():
		m.NameInput, cmd = m.NameInput.Update(msg)
	case m.macIndex():
		m.MACInput, cmd = m.MACInput.Update(msg)
	}
	return m, cmd
}

func (m AddMachineModel) enter(msg tea.KeyMsg) (AddMachineModel, tea.Cmd) {
	if suggestions := m.Suggestions(); m.focus < len(suggestions) {
		return m, Navigate(Route{Screen: ScreenAdd, MAC: suggestions[m.focus]})
	}
	if m.focus == m.nameIndex() && msg.String() == "enter" {
		m.focus = m.macIndex()
		cmd := m.applyFocus()
		return m, cmd
	}
	return m.Submit()
}

// Submit validates the form and, if it is valid, creates the machine.
func (m AddMachineModel) Submit() (AddMachineModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	name := strings.TrimSpace(m.NameInput.Value())
	mac := m.MACInput.Value()
	switch {
	case name == "":
		m.err = ErrNameRequired
		return m, nil
	case strings.TrimSpace(mac) == "":
		m.err = ErrMACRequired
		return m, nil
	case !macaddr.Validate(mac):
		m.err = ErrMACInvalid
		return m, nil
	}

	m.err = nil
	m.submitting = true
	api, mount := m.api, m.mount
	machine := wolapi.Machine{ID: name, MAC: mac}
	return m, tea.Batch(m.Spinner.Tick, func() tea.Msg {
		return machineAddedMsg{mount: mount, err: api.AddMachine(context.Background(), machine)}
	})
}

// View renders the add screen
func (m AddMachineModel) View() string {
	var sections []string

	if suggestions := m.Suggestions(); len(suggestions) > 0 {
		var buttons []string
		for i, mac := range suggestions {
			label := "add " + mac
			if i == m.focus {
				buttons = append(buttons, PrimaryButtonStyle.Render("→ "+label))
			} else {
				buttons = append(buttons, ButtonStyle.Render("  "+label))
			}
		}
		sections = append(sections, PrimaryBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			TitleStyle.Render("add self"),
			"the device you are running wolctl on has the ip "+HighlightStyle.Render(m.self.IP)+".",
			"would you like to add it as a wakable machine?",
			"",
			lipgloss.JoinVertical(lipgloss.Left, buttons...),
		)))
	}

	form := []string{
		TitleStyle.Render("add machine"),
		SubtitleStyle.Render("provide some information about your machine to add it as wakable."),
		"",
		m.NameInput.View(),
		m.MACInput.View(),
		"",
	}
	if m.submitting {
		form = append(form, PrimaryButtonStyle.Render(m.Spinner.View()+" adding..."))
	} else {
		form = append(form, PrimaryButtonStyle.Render("add"))
	}
	if m.err != nil {
		form = append(form, ErrorTextStyle.Render(formErrorText(m.err)))
	}
	sections = append(sections, BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, form...)))

	return lipgloss.JoinVertical(lipgloss.Left, joinWithGap(sections, "")...)
}
