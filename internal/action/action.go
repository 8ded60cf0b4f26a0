package action

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wolapp/wolctl/internal/logging"
)

// DefaultDismissAfter is how long a settled result stays visible.
const DefaultDismissAfter = 2500 * time.Millisecond

// Kind names the action a controller performs.
type Kind string

const (
	KindWake   Kind = "wake"
	KindDelete Kind = "delete"
)

// State is the visible state of a controller.
type State int

const (
	Idle State = iota
	Open
	Pending
	Done
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Open:
		return "open"
	case Pending:
		return "pending"
	case Done:
		return "done"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Key identifies one controller: a subject ID plus an action kind.
type Key struct {
	ID   string
	Kind Kind
}

// Request performs the action against subject.
type Request[T any] func(ctx context.Context, subject T) error

// Refresher is invoked once per settled request, successful or not. The
// returned command, if any, is run by the program.
type Refresher func() tea.Cmd

// SettledMsg reports the outcome of a controller's request.
type SettledMsg struct {
	Key Key
	Err error
}

// DismissMsg fires when a settled result should be hidden.
type DismissMsg struct {
	Key Key
	gen int
}

// KeyOf returns the controller key carried by msg, if any.
func KeyOf(msg tea.Msg) (Key, bool) {
	switch msg := msg.(type) {
	case SettledMsg:
		return msg.Key, true
	case DismissMsg:
		return msg.Key, true
	}
	return Key{}, false
}

// Controller drives a single confirm-then-execute action.
//
// Idle -> Open on Open; Open -> Pending on Confirm; Pending -> Done or Error
// when the request settles; Done/Error -> Idle after the dismiss window or on
// Close. Close never cancels a request: its response still triggers the
// refresher but changes nothing visible. At most one request is outstanding
// at any time. Confirming while a closed session's request is still out
// adopts that request instead of sending another.
//
// Controller is a value type in the bubbletea style; methods return the
// updated copy.
type Controller[T any] struct {
	key          Key
	subject      T
	request      Request[T]
	refresh      Refresher
	dismissAfter time.Duration

	state    State
	err      error
	gen      int
	inflight bool
}

// New returns an idle controller.
func New[T any](kind Kind, id string, subject T, request Request[T], refresh Refresher) Controller[T] {
	return Controller[T]{
		key:          Key{ID: id, Kind: kind},
		subject:      subject,
		request:      request,
		refresh:      refresh,
		dismissAfter: DefaultDismissAfter,
	}
}

// WithDismissAfter overrides the dismiss window.
func (c Controller[T]) WithDismissAfter(d time.Duration) Controller[T] {
	c.dismissAfter = d
	return c
}

// WithSubject replaces the subject used by the next request.
func (c Controller[T]) WithSubject(subject T) Controller[T] {
	c.subject = subject
	return c
}

func (c Controller[T]) Key() Key       { return c.key }
func (c Controller[T]) Subject() T     { return c.subject }
func (c Controller[T]) State() State   { return c.state }
func (c Controller[T]) Err() error     { return c.err }
func (c Controller[T]) InFlight() bool { return c.inflight }

// Active reports whether the controller is showing anything.
func (c Controller[T]) Active() bool { return c.state != Idle }

// Open asks for confirmation. Ignored unless idle.
func (c Controller[T]) Open() Controller[T] {
	if c.state != Idle {
		return c
	}
	c.gen++
	c.transition(Open)
	return c
}

// Confirm issues the request. Ignored unless open.
func (c Controller[T]) Confirm() (Controller[T], tea.Cmd) {
	if c.state != Open {
		return c, nil
	}
	c.transition(Pending)
	if c.inflight {
		logging.LogAction(string(c.key.Kind), c.key.ID, "adopt in-flight request")
		return c, nil
	}
	c.inflight = true
	return c, c.send()
}

// Close resets to idle at once. An outstanding request is left running.
func (c Controller[T]) Close() Controller[T] {
	if c.state == Idle {
		return c
	}
	c.gen++
	c.err = nil
	c.transition(Idle)
	return c
}

// Update handles SettledMsg and DismissMsg addressed to this controller.
func (c Controller[T]) Update(msg tea.Msg) (Controller[T], tea.Cmd) {
	switch msg := msg.(type) {
	case SettledMsg:
		if msg.Key != c.key || !c.inflight {
			return c, nil
		}
		c.inflight = false

		var cmds []tea.Cmd
		if c.refresh != nil {
			cmds = append(cmds, c.refresh())
		}
		if c.state != Pending {
			logging.LogAction(string(c.key.Kind), c.key.ID, "late settle ignored")
			return c, tea.Batch(cmds...)
		}

		c.err = msg.Err
		if msg.Err != nil {
			c.transition(Error)
		} else {
			c.transition(Done)
		}
		cmds = append(cmds, c.dismiss())
		return c, tea.Batch(cmds...)

	case DismissMsg:
		if msg.Key != c.key || msg.gen != c.gen {
			return c, nil
		}
		if c.state == Done || c.state == Error {
			c.gen++
			c.err = nil
			c.transition(Idle)
		}
	}
	return c, nil
}

func (c Controller[T]) send() tea.Cmd {
	key, subject, request := c.key, c.subject, c.request
	return func() tea.Msg {
		return SettledMsg{Key: key, Err: request(context.Background(), subject)}
	}
}

func (c Controller[T]) dismiss() tea.Cmd {
	key, gen := c.key, c.gen
	return tea.Tick(c.dismissAfter, func(time.Time) tea.Msg {
		return DismissMsg{Key: key, gen: gen}
	})
}

func (c *Controller[T]) transition(to State) {
	logging.LogAction(string(c.key.Kind), c.key.ID, c.state.String()+"->"+to.String())
	c.state = to
}
