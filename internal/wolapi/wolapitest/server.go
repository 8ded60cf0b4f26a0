// Package wolapitest provides an in-memory wolapp server for tests.
package wolapitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolapp/wolctl/internal/macaddr"
	"github.com/wolapp/wolctl/internal/wolapi"
)

// Endpoint names a route for counters, failure injection and holds.
type Endpoint string

const (
	ListMachines  Endpoint = "GET /api/machines"
	AddMachine    Endpoint = "POST /api/machines"
	DeleteMachine Endpoint = "DELETE /api/machines"
	WakeMachine   Endpoint = "POST /api/machines/wake"
	ArpTable      Endpoint = "GET /api/arp"
	ArpSelf       Endpoint = "GET /api/arp/me"
)

// Server is a fake wolapp server. Its zero state has no machines, an empty
// ARP table and no self addresses.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	machines  []wolapi.Machine
	arp       []wolapi.ArpRow
	self      wolapi.SelfArpInfo
	counts    map[Endpoint]int
	failures  map[Endpoint]int
	holds     map[Endpoint]chan struct{}
	wakes     []string
	requestID string
}

// NewServer starts a fake server. Callers must Close it.
func NewServer() *Server {
	s := &Server{
		machines: []wolapi.Machine{},
		arp:      []wolapi.ArpRow{},
		self:     wolapi.SelfArpInfo{IP: "127.0.0.1", MACs: []string{}},
		counts:   make(map[Endpoint]int),
		failures: make(map[Endpoint]int),
		holds:    make(map[Endpoint]chan struct{}),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/api", func(r chi.Router) {
		r.Get("/machines", s.wrap(ListMachines, s.handleList))
		r.Post("/machines", s.wrap(AddMachine, s.handleAdd))
		r.Delete("/machines", s.wrap(DeleteMachine, s.handleDelete))
		r.Post("/machines/wake", s.wrap(WakeMachine, s.handleWake))
		r.Get("/arp", s.wrap(ArpTable, s.handleArp))
		r.Get("/arp/me", s.wrap(ArpSelf, s.handleArpSelf))
	})

	s.Server = httptest.NewServer(r)
	return s
}

// Client returns a wolapi client pointed at the server.
func (s *Server) Client() *wolapi.Client {
	return wolapi.NewClient(s.URL)
}

// SetMachines replaces the stored machines.
func (s *Server) SetMachines(machines ...wolapi.Machine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machines = append([]wolapi.Machine{}, machines...)
}

// Machines returns a copy of the stored machines.
func (s *Server) Machines() []wolapi.Machine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]wolapi.Machine{}, s.machines...)
}

// SetArp replaces the ARP table.
func (s *Server) SetArp(rows ...wolapi.ArpRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.arp = append([]wolapi.ArpRow{}, rows...)
}

// SetSelf sets the /api/arp/me response.
func (s *Server) SetSelf(ip string, macs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.self = wolapi.SelfArpInfo{IP: ip, MACs: append([]string{}, macs...)}
}

// Fail makes every following request to e answer with status. A zero status
// clears the failure.
func (s *Server) Fail(e Endpoint, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, e)
		return
	}
	s.failures[e] = status
}

// Hold blocks requests to e until the returned release func is called.
// Requests are counted before they block.
func (s *Server) Hold(e Endpoint) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.holds[e] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.holds[e] == ch {
				delete(s.holds, e)
			}
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Count returns how many requests reached e.
func (s *Server) Count(e Endpoint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[e]
}

// Wakes returns the MACs woken so far, in order.
func (s *Server) Wakes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.wakes...)
}

// LastRequestID returns the X-Request-ID of the most recent request.
func (s *Server) LastRequestID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requestID
}

func (s *Server) wrap(e Endpoint, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.counts[e]++
		s.requestID = r.Header.Get(wolapi.RequestIDHeader)
		hold := s.holds[e]
		s.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}

		s.mu.Lock()
		status := s.failures[e]
		s.mu.Unlock()
		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Machines())
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var m wolapi.Machine
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	m.ID = strings.TrimSpace(m.ID)
	if m.ID == "" || !macaddr.Validate(m.MAC) {
		http.Error(w, "invalid machine", http.StatusBadRequest)
		return
	}
	m.MAC = macaddr.Normalize(m.MAC)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.machines {
		if existing.ID == m.ID {
			http.Error(w, "machine already exists", http.StatusConflict)
			return
		}
	}
	s.machines = append(s.machines, m)
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.machines {
		if m.ID == id {
			s.machines = append(s.machines[:i], s.machines[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	http.Error(w, "machine not found", http.StatusNotFound)
}

func (s *Server) handleWake(w http.ResponseWriter, r *http.Request) {
	mac := r.URL.Query().Get("mac")
	if !macaddr.Validate(mac) {
		http.Error(w, "invalid mac", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.wakes = append(s.wakes, macaddr.Normalize(mac))
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleArp(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rows := append([]wolapi.ArpRow{}, s.arp...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleArpSelf(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	info := s.self
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, info)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
