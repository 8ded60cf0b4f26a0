// Package action implements the confirm-then-execute state machine shared by
// the wake and delete actions on a machine row.
//
// A Controller is created per (machine, kind) pair with the request to run
// and a Refresher capability. Requests run as bubbletea commands; their
// results come back as SettledMsg and are fed to Update:
//
//	wake := action.New(action.KindWake, m.ID, m, wakeFn, list.Refresh)
//	wake = wake.Open()
//	wake, cmd := wake.Confirm()
//	...
//	wake, cmd = wake.Update(msg) // SettledMsg, then DismissMsg
package action
