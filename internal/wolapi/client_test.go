package wolapi_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wolapp/wolctl/internal/wolapi"
	"github.com/wolapp/wolctl/internal/wolapi/wolapitest"
)

func TestNewClient(t *testing.T) {
	client := wolapi.NewClient("http://192.168.1.10:8080/")

	if client.BaseURL != "http://192.168.1.10:8080" {
		t.Errorf("BaseURL = %s, want http://192.168.1.10:8080", client.BaseURL)
	}
	if client.HTTPClient == nil {
		t.Fatal("HTTPClient should not be nil")
	}
	if client.HTTPClient.Timeout != wolapi.DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.HTTPClient.Timeout, wolapi.DefaultTimeout)
	}

	client.SetTimeout(3 * time.Second)
	if client.HTTPClient.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", client.HTTPClient.Timeout)
	}
}

func TestListMachines(t *testing.T) {
	srv := wolapitest.NewServer()
	defer srv.Close()

	ctx := context.Background()
	machines, err := srv.Client().ListMachines(ctx)
	if err != nil {
		t.Fatalf("ListMachines() error = %v", err)
	}
	if machines == nil || len(machines) != 0 {
		t.Errorf("ListMachines() = %v, want empty non-nil slice", machines)
	}

	srv.SetMachines(
		wolapi.Machine{ID: "nas", MAC: "aa:bb:cc:dd:ee:01"},
		wolapi.Machine{ID: "desktop", MAC: "aa:bb:cc:dd:ee:02"},
	)
	machines, err = srv.Client().ListMachines(ctx)
	if err != nil {
		t.Fatalf("ListMachines() error = %v", err)
	}
	if len(machines) != 2 || machines[0].ID != "nas" || machines[1].MAC != "aa:bb:cc:dd:ee:02" {
		t.Errorf("ListMachines() = %v", machines)
	}
}

func TestAddMachine(t *testing.T) {
	srv := wolapitest.NewServer()
	defer srv.Close()
	client := srv.Client()
	ctx := context.Background()

	if err := client.AddMachine(ctx, wolapi.Machine{ID: "server1", MAC: "AA:BB:CC:DD:EE:FF"}); err != nil {
		t.Fatalf("AddMachine() error = %v", err)
	}
	got := srv.Machines()
	if len(got) != 1 || got[0].MAC != "aa:bb:cc:dd:ee:ff" {
		t.Errorf("stored machines = %v, want server1 with lower-case mac", got)
	}

	err := client.AddMachine(ctx, wolapi.Machine{ID: "server1", MAC: "aa:bb:cc:dd:ee:ff"})
	var apiErr *wolapi.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusConflict {
		t.Errorf("duplicate AddMachine() error = %v, want HTTP 409", err)
	}
}

func TestAddMachine_ValidatesBeforeSending(t *testing.T) {
	srv := wolapitest.NewServer()
	defer srv.Close()

	tests := []wolapi.Machine{
		{ID: "", MAC: "aa:bb:cc:dd:ee:ff"},
		{ID: "server1", MAC: "not-a-mac"},
	}
	for _, m := range tests {
		err := srv.Client().AddMachine(context.Background(), m)
		var apiErr *wolapi.APIError
		if !errors.As(err, &apiErr) || apiErr.Type != wolapi.ErrTypeValidation {
			t.Errorf("AddMachine(%+v) error = %v, want validation error", m, err)
		}
	}
	if n := srv.Count(wolapitest.AddMachine); n != 0 {
		t.Errorf("server saw %d add requests, want 0", n)
	}
}

func TestDeleteMachine(t *testing.T) {
	srv := wolapitest.NewServer()
	defer srv.Close()
	srv.SetMachines(wolapi.Machine{ID: "nas", MAC: "aa:bb:cc:dd:ee:01"})
	client := srv.Client()

	if err := client.DeleteMachine(context.Background(), "nas"); err != nil {
		t.Fatalf("DeleteMachine() error = %v", err)
	}
	if len(srv.Machines()) != 0 {
		t.Errorf("machine not removed: %v", srv.Machines())
	}

	err := client.DeleteMachine(context.Background(), "nas")
	if !wolapi.IsNotFound(err) {
		t.Errorf("DeleteMachine() of missing machine error = %v, want 404", err)
	}
}

func TestWakeMachine(t *testing.T) {
	srv := wolapitest.NewServer()
	defer srv.Close()

	if err := srv.Client().WakeMachine(context.Background(), "AA:BB:CC:DD:EE:01"); err != nil {
		t.Fatalf("WakeMachine() error = %v", err)
	}
	wakes := srv.Wakes()
	if len(wakes) != 1 || wakes[0] != "aa:bb:cc:dd:ee:01" {
		t.Errorf("Wakes() = %v", wakes)
	}
}

func TestWakeMachine_RejectsMalformedMAC(t *testing.T) {
	srv := wolapitest.NewServer()
	defer srv.Close()

	for _, mac := range []string{"", "not-a-mac", "aa-bb-cc-dd-ee-ff", " aa:bb:cc:dd:ee:ff"} {
		err := srv.Client().WakeMachine(context.Background(), mac)
		var apiErr *wolapi.APIError
		if !errors.As(err, &apiErr) || apiErr.Type != wolapi.ErrTypeValidation {
			t.Errorf("WakeMachine(%q) error = %v, want validation error", mac, err)
		}
	}
	if n := srv.Count(wolapitest.WakeMachine); n != 0 {
		t.Errorf("wake requests = %d, want 0", n)
	}
}

func TestArpTable_PreservesOrder(t *testing.T) {
	srv := wolapitest.NewServer()
	defer srv.Close()
	srv.SetArp(
		wolapi.ArpRow{IP: "10.0.0.9", MAC: "aa:bb:cc:dd:ee:09"},
		wolapi.ArpRow{IP: "10.0.0.1", MAC: "aa:bb:cc:dd:ee:01"},
		wolapi.ArpRow{IP: "10.0.0.1", MAC: "aa:bb:cc:dd:ee:01"},
	)

	rows, err := srv.Client().ArpTable(context.Background())
	if err != nil {
		t.Fatalf("ArpTable() error = %v", err)
	}
	if len(rows) != 3 || rows[0].IP != "10.0.0.9" || rows[2].IP != "10.0.0.1" {
		t.Errorf("ArpTable() = %v, want rows in server order with duplicates", rows)
	}
}

func TestArpSelf(t *testing.T) {
	srv := wolapitest.NewServer()
	defer srv.Close()
	srv.SetSelf("10.0.0.5", "aa:bb:cc:dd:ee:ff")

	info, err := srv.Client().ArpSelf(context.Background())
	if err != nil {
		t.Fatalf("ArpSelf() error = %v", err)
	}
	if info.IP != "10.0.0.5" || len(info.MACs) != 1 || info.MACs[0] != "aa:bb:cc:dd:ee:ff" {
		t.Errorf("ArpSelf() = %+v", info)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := wolapitest.NewServer()
	defer srv.Close()

	if _, err := srv.Client().ListMachines(context.Background()); err != nil {
		t.Fatalf("ListMachines() error = %v", err)
	}
	if _, err := uuid.Parse(srv.LastRequestID()); err != nil {
		t.Errorf("request id %q is not a uuid: %v", srv.LastRequestID(), err)
	}
}

func TestServerErrors(t *testing.T) {
	srv := wolapitest.NewServer()
	defer srv.Close()
	srv.Fail(wolapitest.ListMachines, http.StatusInternalServerError)

	_, err := srv.Client().ListMachines(context.Background())
	var apiErr *wolapi.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Type != wolapi.ErrTypeHTTP || apiErr.StatusCode != 500 || !apiErr.Retryable {
		t.Errorf("APIError = %+v, want retryable HTTP 500", apiErr)
	}
	if apiErr.Path != "/api/machines" {
		t.Errorf("Path = %q", apiErr.Path)
	}

	srv.Fail(wolapitest.ListMachines, 0)
	if _, err := srv.Client().ListMachines(context.Background()); err != nil {
		t.Errorf("after clearing failure, error = %v", err)
	}
}

func TestContextCancelWhileHeld(t *testing.T) {
	srv := wolapitest.NewServer()
	defer srv.Close()
	release := srv.Hold(wolapitest.WakeMachine)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := srv.Client().WakeMachine(ctx, "aa:bb:cc:dd:ee:ff")
	if err == nil {
		t.Fatal("WakeMachine() expected error while held")
	}
	if !wolapi.IsNetworkError(err) {
		t.Errorf("error = %v, want network error", err)
	}
	if n := srv.Count(wolapitest.WakeMachine); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestConnectionRefused(t *testing.T) {
	srv := wolapitest.NewServer()
	url := srv.URL
	srv.Close()

	_, err := wolapi.NewClient(url).ListMachines(context.Background())
	if !wolapi.IsNetworkError(err) {
		t.Fatalf("error = %v, want network error", err)
	}
	if !wolapi.IsRetryable(err) {
		t.Error("connection failure should be retryable")
	}
}

func TestParseError(t *testing.T) {
	srv := http.NewServeMux()
	srv.HandleFunc("/api/arp", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})
	ts := newHTTPTestServer(t, srv)

	_, err := wolapi.NewClient(ts).ArpTable(context.Background())
	var apiErr *wolapi.APIError
	if !errors.As(err, &apiErr) || apiErr.Type != wolapi.ErrTypeParse {
		t.Errorf("error = %v, want parse error", err)
	}
}
