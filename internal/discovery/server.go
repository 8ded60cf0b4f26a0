package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Server is a wolapp server found on the local network.
type Server struct {
	// Instance is the advertised service instance name (e.g. "wolapp on nas")
	Instance string

	// Hostname is the mDNS hostname (e.g. "nas.local.")
	Hostname string

	// IP is the preferred address, IPv4 when one is advertised
	IP string

	// Port is the HTTP port
	Port int

	// Metadata contains the TXT record data, e.g. "version=1.2"
	Metadata map[string]string

	// DiscoveredAt is when the server was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the server
func (s *Server) String() string {
	return fmt.Sprintf("%s (%s) at %s", s.Instance, s.Hostname, s.BaseURL())
}

// BaseURL returns the HTTP base URL for the server. IPv6 addresses are bracketed.
func (s *Server) BaseURL() string {
	return "http://" + net.JoinHostPort(s.IP, strconv.Itoa(s.Port))
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (s *Server) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
