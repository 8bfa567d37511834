// core/iupac/iupac.go
package iupac

import (
	"strings"

	"oligo/core/oligoerr"
)

/* ---------------------- compatibility table ---------------------- */

// compatible[c] lists every lowercase code that c (lowercase) can stand for
// or be stood for by. An empty entry means c is not a recognized code.
var compatible [256]string

// mask[c] is the subset of {a,c,g,t} compatible with c: bit0=a bit1=c bit2=g bit3=t.
var mask [256]uint8

// Bases is the unambiguous alphabet in digit order.
const Bases = "acgt"

func init() {
	set := func(c byte, codes string) { compatible[c] = codes }
	set('a', "arwmdhvn")        // adenine
	set('c', "cysmbhvn")        // cytosine
	set('g', "grskbdvn")        // guanine
	set('t', "tywkbdhn")        // thymine
	set('r', "agrn")            // A/G
	set('y', "ctyn")            // C/T
	set('s', "gcsn")            // G/C
	set('w', "atwn")            // A/T
	set('k', "gtkn")            // G/T
	set('m', "acmn")            // A/C
	set('b', "cgtbn")           // C/G/T
	set('d', "agtdn")           // A/G/T
	set('h', "acthn")           // A/C/T
	set('v', "acgvn")           // A/C/G
	set('n', "acgtryswkmbdhvn") // any
	set('.', ".-")              // gap
	set('-', ".-")              // gap
	set('?', "?")               // unknown

	for c := 0; c < 256; c++ {
		codes := compatible[lower(byte(c))]
		for bit := 0; bit < len(Bases); bit++ {
			if strings.IndexByte(codes, Bases[bit]) >= 0 {
				mask[c] |= 1 << bit
			}
		}
	}
}

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// Known reports whether c (either case) is a recognized nucleotide code.
func Known(c byte) bool { return compatible[lower(c)] != "" }

// Mask returns the set of unambiguous bases (bit0=a ... bit3=t) that c matches.
// Gap, unknown and unrecognized codes return 0.
func Mask(c byte) uint8 { return mask[c] }

/* --------------------------- equality --------------------------- */

// NucleotideEquals reports whether b is compatible with the ambiguity class of a.
// Comparison is case-insensitive. An unrecognized a yields a FormatError and
// counts as a mismatch.
//
// Example: NucleotideEquals('R', 'g') == true because R = {A,G}.
func NucleotideEquals(a, b byte) (bool, error) {
	codes := compatible[lower(a)]
	if codes == "" {
		return false, oligoerr.Format("unrecognized nucleotide code %q", a)
	}
	return strings.IndexByte(codes, lower(b)) >= 0, nil
}

// SequenceEquals reports whether a and b have the same length and are
// nucleotide-equal at every position. Unrecognized codes never match.
func SequenceEquals(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if ok, _ := NucleotideEquals(a[i], b[i]); !ok {
			return false
		}
	}
	return true
}
