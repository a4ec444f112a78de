// Package trackingcode generates the opaque public identifiers clients use
// to look up project status without authenticating.
package trackingcode

import (
	"crypto/rand"
	"strings"
)

const Prefix = "IRS-"

// 32-character alphabet with 0/O and 1/I removed so codes survive being read
// over the phone. 32^10 combinations make collisions negligible; the unique
// index on projects.tracking_code catches the rest.
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const randomLength = 10

// New draws a fresh code. Codes carry no information about the project or
// client they belong to.
func New() (string, error) {
	buf := make([]byte, randomLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		// len(alphabet) divides 256, so the modulo introduces no bias.
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return Prefix + string(buf), nil
}

// Valid reports whether code has the shape of an issued tracking code. Used
// to reject junk before it reaches the database on the public path.
func Valid(code string) bool {
	if !strings.HasPrefix(code, Prefix) {
		return false
	}
	body := code[len(Prefix):]
	if len(body) != randomLength {
		return false
	}
	for _, c := range body {
		if !strings.ContainsRune(alphabet, c) {
			return false
		}
	}
	return true
}
