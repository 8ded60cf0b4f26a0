package wolapi

// Machine is a registered wakable machine. ID is the user-chosen name and is
// unique per server.
type Machine struct {
	ID  string `json:"id"`
	MAC string `json:"mac"`
}

// ArpRow is one entry of the server's ARP table.
type ArpRow struct {
	IP  string `json:"ip"`
	MAC string `json:"mac"`
}

// SelfArpInfo holds the hardware addresses the server observed for the
// caller's own IP. MACs may be empty.
type SelfArpInfo struct {
	IP   string   `json:"ip"`
	MACs []string `json:"macs"`
}

// FindMachine returns the machine whose ID equals name.
func FindMachine(machines []Machine, name string) (Machine, bool) {
	for _, m := range machines {
		if m.ID == name {
			return m, true
		}
	}
	return Machine{}, false
}
