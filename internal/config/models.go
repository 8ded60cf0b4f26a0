package config

import (
	"time"
)

const (
	// CurrentVersion is the only config file version understood.
	CurrentVersion = 1

	// DefaultServer is used when neither flag, environment nor file name a server.
	DefaultServer = "http://localhost:8080"

	// ServerEnvVar overrides the configured server.
	ServerEnvVar = "WOLCTL_SERVER"
)

// Registry represents the entire user configuration file.
type Registry struct {
	Version      int                     `yaml:"version"`
	Server       string                  `yaml:"server,omitempty"`        // Base URL of the wolapp server
	KnownServers map[string]*KnownServer `yaml:"known_servers,omitempty"` // Servers found by discovery, keyed by URL
	Preferences  *Preferences            `yaml:"preferences,omitempty"`
}

// KnownServer records a wolapp server seen on the network.
type KnownServer struct {
	Name     string    `yaml:"name,omitempty"`      // mDNS instance name
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last discovery time
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DarkMode        bool `yaml:"dark_mode"`        // The UI colour scheme
	DiscoverTimeout int  `yaml:"discover_timeout"` // mDNS discovery timeout in seconds
	RequestTimeout  int  `yaml:"request_timeout"`  // API request timeout in seconds
}

func defaultPreferences() *Preferences {
	return &Preferences{
		DarkMode:        false,
		DiscoverTimeout: 5,
		RequestTimeout:  10,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:      CurrentVersion,
		KnownServers: make(map[string]*KnownServer),
		Preferences:  defaultPreferences(),
	}
}

// ResolveServer picks the server URL: flag, then WOLCTL_SERVER, then the
// file, then DefaultServer.
func (r *Registry) ResolveServer(flag string) string {
	if flag != "" {
		return flag
	}
	if env := getenv(ServerEnvVar); env != "" {
		return env
	}
	if r != nil && r.Server != "" {
		return r.Server
	}
	return DefaultServer
}

// RememberServer records a discovered server.
func (r *Registry) RememberServer(url, name string) {
	if r.KnownServers == nil {
		r.KnownServers = make(map[string]*KnownServer)
	}
	r.KnownServers[url] = &KnownServer{Name: name, LastSeen: time.Now()}
}

// RequestTimeout returns the configured API timeout.
func (r *Registry) RequestTimeout() time.Duration {
	if r == nil || r.Preferences == nil || r.Preferences.RequestTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(r.Preferences.RequestTimeout) * time.Second
}

// DiscoverTimeout returns the configured mDNS browse duration.
func (r *Registry) DiscoverTimeout() time.Duration {
	if r == nil || r.Preferences == nil || r.Preferences.DiscoverTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(r.Preferences.DiscoverTimeout) * time.Second
}
