package tui

import "testing"

func TestParseRoute(t *testing.T) {
	tests := []struct {
		in      string
		want    Route
		wantErr bool
	}{
		{"", Route{Screen: ScreenMachines}, false},
		{"/", Route{Screen: ScreenMachines}, false},
		{"/machines", Route{Screen: ScreenMachines}, false},
		{"/add", Route{Screen: ScreenAdd}, false},
		{"/add?mac=aa:bb:cc:dd:ee:ff", Route{Screen: ScreenAdd, MAC: "aa:bb:cc:dd:ee:ff"}, false},
		{"/add?mac=aa%3Abb%3Acc%3Add%3Aee%3Aff", Route{Screen: ScreenAdd, MAC: "aa:bb:cc:dd:ee:ff"}, false},
		{"/arp/", Route{Screen: ScreenArp}, false},
		{"/settings", Route{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRoute(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRoute(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRoute(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRoute_StringRoundTrip(t *testing.T) {
	routes := []Route{
		{Screen: ScreenMachines},
		{Screen: ScreenAdd},
		{Screen: ScreenAdd, MAC: "aa:bb:cc:dd:ee:ff"},
		{Screen: ScreenArp},
	}
	for _, r := range routes {
		back, err := ParseRoute(r.String())
		if err != nil {
			t.Fatalf("ParseRoute(%q) error = %v", r.String(), err)
		}
		if back != r {
			t.Errorf("round trip of %+v gave %+v", r, back)
		}
	}
}
