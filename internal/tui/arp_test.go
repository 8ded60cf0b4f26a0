package tui

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wolapp/wolctl/internal/wolapi"
	"github.com/wolapp/wolctl/internal/wolapi/wolapitest"
)

var arpRows = []wolapi.ArpRow{
	{IP: "192.168.1.20", MAC: "aa:bb:cc:dd:ee:20"},
	{IP: "192.168.1.3", MAC: "aa:bb:cc:dd:ee:03"},
	{IP: "192.168.1.20", MAC: "aa:bb:cc:dd:ee:20"},
}

func loadedArp(t *testing.T, rows ...wolapi.ArpRow) ArpTableModel {
	t.Helper()
	srv := newTestServer(t)
	srv.SetArp(rows...)
	m := NewArpTableModel(srv.Client())
	m, _ = driveArp(t, m, m.Init())
	return m
}

func TestArpLoadsRowsInOrder(t *testing.T) {
	srv := newTestServer(t)
	srv.SetArp(arpRows...)

	m := NewArpTableModel(srv.Client())
	if !strings.Contains(m.View(), "fetching the arp table...") {
		t.Error("loading view should say the table is being fetched")
	}

	m, _ = driveArp(t, m, m.Init())
	if m.Loading() {
		t.Fatal("still loading after fetch")
	}

	got := m.Rows()
	if len(got) != len(arpRows) {
		t.Fatalf("rows = %d, want %d (no deduplication)", len(got), len(arpRows))
	}
	for i := range arpRows {
		if got[i] != arpRows[i] {
			t.Errorf("row %d = %v, want %v", i, got[i], arpRows[i])
		}
	}

	view := m.View()
	if strings.Contains(view, "fetching the arp table") {
		t.Error("loading message should be gone")
	}
	first := strings.Index(view, "192.168.1.20")
	second := strings.Index(view, "192.168.1.3")
	if first < 0 || second < 0 || first > second {
		t.Errorf("rows should render in received order:\n%s", view)
	}
}

func TestArpFetchError(t *testing.T) {
	srv := newTestServer(t)
	srv.Fail(wolapitest.ArpTable, http.StatusInternalServerError)

	m := NewArpTableModel(srv.Client())
	m, _ = driveArp(t, m, m.Init())
	if m.Loading() || len(m.Rows()) != 0 {
		t.Errorf("loading=%v rows=%d, want false 0", m.Loading(), len(m.Rows()))
	}
}

func TestArpRowNavigatesToAdd(t *testing.T) {
	m := loadedArp(t, arpRows...)

	m, _ = m.Update(keyPress("down"))
	_, cmd := m.Update(keyPress("enter"))
	if cmd == nil {
		t.Fatal("enter should navigate")
	}
	route, ok := navigation([]tea.Msg{cmd()})
	want := Route{Screen: ScreenAdd, MAC: arpRows[1].MAC}
	if !ok || route != want {
		t.Errorf("navigation = %v, want %v", route, want)
	}
}

func TestArpEnterOnEmptyTable(t *testing.T) {
	m := loadedArp(t)
	if _, cmd := m.Update(keyPress("enter")); cmd != nil {
		t.Error("enter on an empty table should do nothing")
	}
}

func TestArpCopy(t *testing.T) {
	var copied []string
	orig := copyToClipboard
	t.Cleanup(func() { copyToClipboard = orig })
	copyToClipboard = func(s string) error {
		copied = append(copied, s)
		return nil
	}

	m := loadedArp(t, arpRows...)
	m, _ = m.Update(keyPress("y"))
	if len(copied) != 1 || copied[0] != arpRows[0].MAC {
		t.Errorf("copied = %v, want [%s]", copied, arpRows[0].MAC)
	}
	if !strings.Contains(m.View(), "copied "+arpRows[0].MAC) {
		t.Error("view should confirm the copy")
	}

	copyToClipboard = func(string) error { return errors.New("no clipboard") }
	m, _ = m.Update(keyPress("c"))
	if !strings.Contains(m.View(), "could not copy") {
		t.Error("view should report a failed copy")
	}
}
