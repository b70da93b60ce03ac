// Package common holds small helpers shared by the client packages.
package common

// WipeByteArray zeroes b in place. Nil is fine.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
