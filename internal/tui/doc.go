// Package tui implements the full-screen wolctl client.
//
// It is built with Bubble Tea and has three screens, each a value-type model
// owned by AppModel:
//   - machines: the registered machines, with wake and delete dialogs driven
//     by action.Controller
//   - add: the add form, with "add self" suggestions from /api/arp/me
//   - arp: the server's ARP table with shortcuts into the add form
//
// Screens switch through Route values ("/", "/add?mac=..", "/arp"). A Route
// can be given on the command line to open the same view directly. Every
// screen except add is remounted on navigation, which refetches its data.
//
// All network calls run as tea.Cmd functions against the API interface, so
// the models can be tested without a terminal.
package tui
