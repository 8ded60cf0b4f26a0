package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/wolapp/wolctl/internal/logging"
)

const (
	// ServiceType is the mDNS service type wolapp servers advertise
	ServiceType = "_wolapp._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default browse duration
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is wolapp's default HTTP port
	DefaultPort = 8080
)

// Scanner handles mDNS server discovery
type Scanner struct {
	// Timeout is how long to browse before returning
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan browses for wolapp servers until the timeout elapses or ctx is done.
// Servers are returned in discovery order, de-duplicated by base URL.
func (s *Scanner) Scan(ctx context.Context) ([]*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	c := &collector{scanner: s, seen: make(map[string]bool)}
	go c.run(entries)

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	return c.snapshot(), nil
}

// First browses until one wolapp server answers or the timeout elapses.
func (s *Scanner) First(ctx context.Context) (*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan *Server, 1)
	go func() {
		for entry := range entries {
			if server := s.parseServiceEntry(entry); server != nil {
				select {
				case found <- server:
					cancel()
				default:
				}
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case server := <-found:
		return server, nil
	case <-ctx.Done():
		select {
		case server := <-found:
			return server, nil
		default:
		}
		return nil, fmt.Errorf("no wolapp server found within %s", s.Timeout)
	}
}

// collector gathers browse results de-duplicated by base URL.
type collector struct {
	scanner *Scanner

	mu      sync.Mutex
	seen    map[string]bool
	servers []*Server
}

func (c *collector) run(entries <-chan *zeroconf.ServiceEntry) {
	for entry := range entries {
		c.add(entry)
	}
}

func (c *collector) add(entry *zeroconf.ServiceEntry) {
	server := c.scanner.parseServiceEntry(entry)
	if server == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seen[server.BaseURL()] {
		return
	}
	c.seen[server.BaseURL()] = true
	c.servers = append(c.servers, server)
	logging.Debug("Discovered wolapp server",
		zap.String("instance", server.Instance),
		zap.String("url", server.BaseURL()),
	)
}

func (c *collector) snapshot() []*Server {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append(make([]*Server, 0, len(c.servers)), c.servers...)
}

// parseServiceEntry converts a zeroconf service entry to a Server.
// Returns nil if the entry carries no usable address.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Server {
	if entry == nil {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	instance := entry.Instance
	if instance == "" {
		instance = strings.TrimSuffix(entry.HostName, ".")
	}

	return &Server{
		Instance:     instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}
