package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wolapp/wolctl/internal/theme"
	"github.com/wolapp/wolctl/internal/wolapi"
	"github.com/wolapp/wolctl/internal/wolapi/wolapitest"
)

func newTestApp(t *testing.T, start Route) (AppModel, *wolapitest.Server) {
	t.Helper()
	srv := newTestServer(t, desktop)
	m := NewAppModel(srv.Client(), start, srv.URL)
	m.MachinesModel.dismissAfter = testDismissAfter
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(AppModel)
	m, _ = driveApp(t, m, m.Init())
	return m, srv
}

func press(t *testing.T, m AppModel, k string) (AppModel, []tea.Msg) {
	t.Helper()
	next, cmd := m.Update(keyPress(k))
	return driveApp(t, next.(AppModel), cmd)
}

func TestAppStartRoutes(t *testing.T) {
	tests := []struct {
		route Route
		want  string
	}{
		{Route{Screen: ScreenMachines}, "you've added 1 machine."},
		{Route{Screen: ScreenArp}, "arp table"},
		{Route{Screen: ScreenAdd, MAC: "aa:bb:cc:dd:ee:ff"}, "provide some information"},
	}

	for _, tt := range tests {
		t.Run(tt.route.String(), func(t *testing.T) {
			m, _ := newTestApp(t, tt.route)
			if m.Route != tt.route {
				t.Errorf("route = %v, want %v", m.Route, tt.route)
			}
			view := m.View()
			if !strings.Contains(view, tt.want) {
				t.Errorf("view missing %q:\n%s", tt.want, view)
			}
			if !strings.Contains(view, AppName) {
				t.Error("view should be wrapped in the application container")
			}
		})
	}
}

func TestAppGlobalNavigation(t *testing.T) {
	m, srv := newTestApp(t, Route{Screen: ScreenMachines})

	m, _ = press(t, m, "3")
	if m.Route.Screen != ScreenArp {
		t.Fatalf("screen = %v, want arp", m.Route.Screen)
	}

	m, _ = press(t, m, "a")
	if m.Route.Screen != ScreenAdd {
		t.Fatalf("screen = %v, want add", m.Route.Screen)
	}

	// letters go to the form, not to the global keys
	for _, k := range []string{"q", "1", "t"} {
		m, _ = press(t, m, k)
	}
	if m.Route.Screen != ScreenAdd || m.AddModel.NameInput.Value() != "q1t" {
		t.Fatalf("screen = %v name = %q, want add and q1t", m.Route.Screen, m.AddModel.NameInput.Value())
	}

	before := srv.Count(wolapitest.ListMachines)
	m, _ = press(t, m, "esc")
	if m.Route.Screen != ScreenMachines {
		t.Fatalf("screen = %v, want machines", m.Route.Screen)
	}
	if srv.Count(wolapitest.ListMachines) != before+1 {
		t.Error("returning to machines should refetch the list")
	}
}

func TestAppQuit(t *testing.T) {
	m, _ := newTestApp(t, Route{Screen: ScreenMachines})

	_, cmd := m.Update(keyPress("q"))
	if cmd == nil {
		t.Fatal("q should quit on the machines screen")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}

	m, _ = newTestApp(t, Route{Screen: ScreenAdd})
	_, cmd = m.Update(keyPress("ctrl+c"))
	if cmd == nil {
		t.Fatal("ctrl+c should quit on the add screen")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should return tea.Quit")
	}
}

func TestAppDialogCapturesKeys(t *testing.T) {
	m, _ := newTestApp(t, Route{Screen: ScreenMachines})

	m, _ = press(t, m, "d")
	m, _ = press(t, m, "3")
	if m.Route.Screen != ScreenMachines {
		t.Error("global keys should be off while a dialog is open")
	}
	m, _ = press(t, m, "n")
	m, _ = press(t, m, "3")
	if m.Route.Screen != ScreenArp {
		t.Error("global keys should work again once the dialog closes")
	}
}

// confirmDelete opens and confirms the delete dialog on the selected row and
// returns the request without running it.
func confirmDelete(t *testing.T, m AppModel) (AppModel, tea.Cmd) {
	t.Helper()
	m, _ = press(t, m, "d")
	next, request := m.Update(keyPress("y"))
	if request == nil {
		t.Fatal("confirming should issue the delete request")
	}
	return next.(AppModel), request
}

func TestAppReconfirmAfterNavigationAdoptsRequest(t *testing.T) {
	m, srv := newTestApp(t, Route{Screen: ScreenMachines})

	m, request := confirmDelete(t, m)
	for _, k := range []string{"n", "3", "1", "d"} {
		m, _ = press(t, m, k)
	}
	next, cmd := m.Update(keyPress("y"))
	m = next.(AppModel)
	if cmd != nil {
		t.Error("confirming again should adopt the outstanding request")
	}
	m, _ = driveApp(t, m, cmd)
	if got := srv.Count(wolapitest.DeleteMachine); got != 0 {
		t.Fatalf("delete requests = %d before the first settles, want 0", got)
	}

	m, _ = driveApp(t, m, request)
	if got := srv.Count(wolapitest.DeleteMachine); got != 1 {
		t.Errorf("delete requests = %d, want 1", got)
	}
	if got := len(m.MachinesModel.Machines()); got != 0 {
		t.Errorf("machines listed = %d after the delete settled, want 0", got)
	}
	if strings.Contains(m.View(), "you've added 1 machine") {
		t.Error("deleted machine should no longer be shown")
	}
}

func TestAppSettleOnOtherScreenRefreshesMachines(t *testing.T) {
	m, srv := newTestApp(t, Route{Screen: ScreenMachines})

	m, request := confirmDelete(t, m)
	m, _ = press(t, m, "n")
	m, _ = press(t, m, "3")
	if m.Route.Screen != ScreenArp {
		t.Fatalf("screen = %v, want arp", m.Route.Screen)
	}

	before := srv.Count(wolapitest.ListMachines)
	m, _ = driveApp(t, m, request)
	if m.Route.Screen != ScreenArp {
		t.Errorf("screen = %v, settling should not navigate", m.Route.Screen)
	}
	if srv.Count(wolapitest.ListMachines) != before+1 {
		t.Error("a settle on another screen should still refetch the machine list")
	}
	if got := len(m.MachinesModel.Machines()); got != 0 {
		t.Errorf("machines listed = %d, want 0", got)
	}

	m, _ = press(t, m, "1")
	if !strings.Contains(m.View(), "welcome to wolapp") {
		t.Errorf("machines screen should be empty:\n%s", m.View())
	}
}

func TestAppMachinesScreenPersists(t *testing.T) {
	m, _ := newTestApp(t, Route{Screen: ScreenArp})

	m, _ = press(t, m, "1")
	mount := m.MachinesModel.mount
	if got := len(m.MachinesModel.Machines()); got != 1 {
		t.Fatalf("machines listed = %d on first visit, want 1", got)
	}

	m, _ = press(t, m, "3")
	m, _ = press(t, m, "1")
	if m.MachinesModel.mount != mount {
		t.Error("returning to machines should not remount the screen")
	}
}

func TestAppThemeToggle(t *testing.T) {
	theme.Init(false, nil)
	t.Cleanup(func() { theme.Init(false, nil) })

	m, _ := newTestApp(t, Route{Screen: ScreenMachines})
	if !strings.Contains(m.View(), "light") {
		t.Error("header should show the light theme")
	}

	m, _ = press(t, m, "t")
	if !theme.Dark() {
		t.Fatal("t should switch to dark mode")
	}
	if !strings.Contains(m.View(), "dark") {
		t.Error("header should show the dark theme")
	}
}

func TestAppAddToAddKeepsForm(t *testing.T) {
	m, srv := newTestApp(t, Route{Screen: ScreenArp})
	srv.SetSelf("10.0.0.5", "aa:bb:cc:dd:ee:ff")

	m, _ = press(t, m, "2")
	if got := len(m.AddModel.Suggestions()); got != 1 {
		t.Fatalf("suggestions = %d, want 1", got)
	}
	m, _ = press(t, m, "x")
	mount := m.AddModel.mount

	m, _ = press(t, m, "shift+tab")
	m, _ = press(t, m, "enter")

	want := Route{Screen: ScreenAdd, MAC: "aa:bb:cc:dd:ee:ff"}
	if m.Route != want {
		t.Fatalf("route = %v, want %v", m.Route, want)
	}
	if m.AddModel.mount != mount {
		t.Error("the add screen should not remount for a new mac")
	}
	if m.AddModel.NameInput.Value() != "x" || m.AddModel.MACInput.Value() != want.MAC {
		t.Errorf("form = %q %q", m.AddModel.NameInput.Value(), m.AddModel.MACInput.Value())
	}
	if got := len(m.AddModel.Suggestions()); got != 0 {
		t.Errorf("suggestions = %d after choosing one, want 0", got)
	}
}

func TestAppAddMachineEndToEnd(t *testing.T) {
	m, srv := newTestApp(t, Route{Screen: ScreenAdd, MAC: "aa:bb:cc:dd:ee:99"})

	for _, r := range "laptop" {
		m, _ = press(t, m, string(r))
	}
	m, _ = press(t, m, "tab")
	m, _ = press(t, m, "enter")

	if m.Route.Screen != ScreenMachines {
		t.Fatalf("screen = %v, want machines after adding", m.Route.Screen)
	}
	if _, ok := wolapi.FindMachine(srv.Machines(), "laptop"); !ok {
		t.Error("machine should be stored on the server")
	}
	if _, ok := wolapi.FindMachine(m.MachinesModel.Machines(), "laptop"); !ok {
		t.Error("machines screen should list the new machine")
	}
}
