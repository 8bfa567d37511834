// core/iupac/rc.go
package iupac

import (
	log "github.com/sirupsen/logrus"
)

var complement [256]byte

func init() {
	pair := func(a, b byte) {
		complement[a], complement[b] = b, a
		complement[lower(a)], complement[lower(b)] = lower(b), lower(a)
	}
	pair('A', 'T')
	pair('C', 'G')
	pair('R', 'Y')
	pair('K', 'M')
	pair('B', 'V')
	pair('D', 'H')
	for _, c := range []byte("SWNswn.-?") {
		complement[c] = c
	}
}

// Complement maps every code to its IUPAC complement, preserving case.
// Unrecognized codes are copied unchanged and logged as a warning.
func Complement(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = complementOf(s[i])
	}
	return string(out)
}

// Reverse returns s with its bytes in reverse order.
func Reverse(s string) string {
	n := len(s)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = s[i]
	}
	return string(out)
}

// ReverseComplement is Reverse(Complement(s)) in a single pass.
func ReverseComplement(s string) string {
	n := len(s)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = complementOf(s[i])
	}
	return string(out)
}

func complementOf(c byte) byte {
	if r := complement[c]; r != 0 {
		return r
	}
	log.Warnf("unrecognized nucleotide code: %q", c)
	return c
}
