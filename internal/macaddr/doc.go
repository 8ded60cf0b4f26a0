// Package macaddr validates and normalises hardware (MAC) addresses.
//
// The canonical form used throughout wolctl is six two-digit hexadecimal
// groups separated by colons, e.g. "01:23:45:67:89:ab". Validation is
// case-insensitive and anchored on both ends: surrounding whitespace,
// dashes, dots and partial matches are all rejected.
//
// # Usage Example
//
//	if !macaddr.Validate(input) {
//	    return errors.New("mac address is in an invalid form")
//	}
//	canonical := macaddr.Normalize(input) // "aa:bb:cc:dd:ee:ff"
//
// Validate is the only gate before a new machine is submitted to the server.
package macaddr
