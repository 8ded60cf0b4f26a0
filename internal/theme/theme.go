// Package theme holds the process-wide dark mode flag.
//
// The flag is read once at startup with Init and changed only through Set or
// Toggle, which also switch lipgloss' default renderer so every
// AdaptiveColor resolves to the new scheme, then persist the value.
package theme

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wolapp/wolctl/internal/config"
	"github.com/wolapp/wolctl/internal/logging"
)

// Persist stores the flag. It may be nil.
type Persist func(dark bool) error

var (
	mu      sync.Mutex
	dark    bool
	persist Persist
)

// Init sets the initial flag and applies it. Nothing is persisted.
func Init(initial bool, p Persist) {
	mu.Lock()
	defer mu.Unlock()
	dark = initial
	persist = p
	apply(dark)
}

// FromRegistry initializes the flag from the config file and persists
// changes back to it.
func FromRegistry(reg *config.Registry) {
	if reg == nil {
		Init(false, nil)
		return
	}
	Init(reg.Preferences.DarkMode, func(d bool) error {
		reg.Preferences.DarkMode = d
		return reg.Save()
	})
}

// Dark reports the current flag.
func Dark() bool {
	mu.Lock()
	defer mu.Unlock()
	return dark
}

// Set changes the flag, applies it and persists it. The in-memory flag is
// updated even if persisting fails.
func Set(d bool) error {
	mu.Lock()
	dark = d
	p := persist
	apply(d)
	mu.Unlock()

	logging.Debug("Theme changed", zap.Bool("dark", d))
	if p == nil {
		return nil
	}
	return p(d)
}

// Toggle flips the flag and returns the new value.
func Toggle() (bool, error) {
	next := !Dark()
	return next, Set(next)
}

// Name returns "dark" or "light".
func Name() string {
	if Dark() {
		return "dark"
	}
	return "light"
}

func apply(d bool) {
	lipgloss.SetHasDarkBackground(d)
}
