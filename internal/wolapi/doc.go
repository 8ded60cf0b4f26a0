// Package wolapi is an HTTP client for the wolapp server API.
//
// The server keeps a list of named machines and can send Wake-on-LAN packets
// to them. It also exposes its ARP table so a user can find hardware
// addresses on the local segment.
//
// # Endpoints
//
//	GET    /api/machines            list machines
//	POST   /api/machines            register {id, mac}
//	DELETE /api/machines?id=NAME    remove a machine
//	POST   /api/machines/wake?mac=  send a magic packet
//	GET    /api/arp                 full ARP table
//	GET    /api/arp/me              addresses seen for the caller
//
// # Errors
//
// Every method returns *APIError on failure. Transport failures and non-2xx
// statuses are both errors; no method retries on its own.
//
//	machines, err := client.ListMachines(ctx)
//	if err != nil {
//	    fmt.Println(wolapi.ShortMessage(err))
//	    fmt.Println(wolapi.Hint(err))
//	}
//
// Package wolapitest provides an in-memory server for tests.
package wolapi
