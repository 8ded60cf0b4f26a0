package tui

import (
	"fmt"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenMachines Screen = "machines"
	ScreenAdd      Screen = "add"
	ScreenArp      Screen = "arp"
)

// Route is a screen plus its parameters. Its string form ("/", "/add?mac=..",
// "/arp") reproduces the same view when passed to --route.
type Route struct {
	Screen Screen
	MAC    string // add screen only
}

// ParseRoute parses a route string. An empty string is the machines screen.
func ParseRoute(s string) (Route, error) {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return Route{}, fmt.Errorf("invalid route %q: %w", s, err)
	}

	switch strings.TrimSuffix(u.Path, "/") {
	case "", "/machines":
		return Route{Screen: ScreenMachines}, nil
	case "/add":
		return Route{Screen: ScreenAdd, MAC: u.Query().Get("mac")}, nil
	case "/arp":
		return Route{Screen: ScreenArp}, nil
	default:
		return Route{}, fmt.Errorf("unknown route %q (use /, /add or /arp)", s)
	}
}

// String returns the route in its URL form.
func (r Route) String() string {
	switch r.Screen {
	case ScreenAdd:
		if r.MAC == "" {
			return "/add"
		}
		return "/add?" + url.Values{"mac": {r.MAC}}.Encode()
	case ScreenArp:
		return "/arp"
	default:
		return "/"
	}
}

// navigateMsg asks the app to switch routes.
type navigateMsg struct {
	route Route
}

// Navigate returns a command that switches to route.
func Navigate(route Route) tea.Cmd {
	return func() tea.Msg { return navigateMsg{route: route} }
}
