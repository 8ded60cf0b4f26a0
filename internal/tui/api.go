package tui

import (
	"context"

	"github.com/wolapp/wolctl/internal/wolapi"
)

// API is the subset of the wolapp client the screens use.
type API interface {
	ListMachines(ctx context.Context) ([]wolapi.Machine, error)
	AddMachine(ctx context.Context, m wolapi.Machine) error
	DeleteMachine(ctx context.Context, id string) error
	WakeMachine(ctx context.Context, mac string) error
	ArpTable(ctx context.Context) ([]wolapi.ArpRow, error)
	ArpSelf(ctx context.Context) (*wolapi.SelfArpInfo, error)
}

var _ API = (*wolapi.Client)(nil)
