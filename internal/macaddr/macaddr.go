package macaddr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// pattern matches six colon-separated hex byte pairs with nothing around them.
// Go's $ only matches at end of text, so a trailing newline is rejected too.
var pattern = regexp.MustCompile(`^([0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$`)

// Validate reports whether s is a hardware address in canonical
// six-octet colon-separated form. Hex digits may be either case.
func Validate(s string) bool {
	return pattern.MatchString(s)
}

// Normalize lower-cases a valid address. Invalid input is returned unchanged
// so callers can still show the user what they typed.
func Normalize(s string) string {
	if !Validate(s) {
		return s
	}
	return strings.ToLower(s)
}

// Parse converts a canonical address into its six raw bytes.
func Parse(s string) ([6]byte, error) {
	var out [6]byte
	if !Validate(s) {
		return out, fmt.Errorf("invalid mac address %q: expected form 01:23:45:67:89:ab", s)
	}
	for i, part := range strings.Split(s, ":") {
		b, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return out, fmt.Errorf("invalid mac address byte %q: %w", part, err)
		}
		out[i] = byte(b)
	}
	return out, nil
}
