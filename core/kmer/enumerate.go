// core/kmer/enumerate.go
package kmer

import (
	"sort"

	"oligo/core/iupac"
)

// MaxK bounds k so that 4^k columns stay addressable and allocatable.
const MaxK = 12

// Columns is 4^k.
func Columns(k int) int { return 1 << (2 * uint(k)) }

// Enumerate lists all 4^k k-mers over a,c,g,t in column order.
//
// Column i is i written in base 4 with digits (a,c,g,t), the first character
// being the least significant digit: aa, ca, ga, ta, ac, cc, ...
func Enumerate(k int) []string {
	if k <= 0 {
		return nil
	}
	n := Columns(k)
	out := make([]string, n)
	buf := make([]byte, k)
	for i := 0; i < n; i++ {
		v := i
		for p := 0; p < k; p++ {
			buf[p] = iupac.Bases[v&3]
			v >>= 2
		}
		out[i] = string(buf)
	}
	return out
}

// Index returns the column of an unambiguous k-mer (case-insensitive).
func Index(kmer string) (int, bool) {
	idx := 0
	for p := len(kmer) - 1; p >= 0; p-- {
		d := digit(kmer[p])
		if d < 0 {
			return 0, false
		}
		idx = idx<<2 | d
	}
	return idx, true
}

func digit(c byte) int {
	switch c {
	case 'a', 'A':
		return 0
	case 'c', 'C':
		return 1
	case 'g', 'G':
		return 2
	case 't', 'T':
		return 3
	}
	return -1
}

// Matches appends to dst the column of every enumerated k-mer that chunk is
// iupac.SequenceEquals to, in increasing column order. An unambiguous chunk
// matches one column; ambiguity codes widen the set; a gap, '?' or an
// unrecognized code anywhere matches nothing.
func Matches(dst []int, chunk string) []int {
	dst = append(dst[:0], 0)
	weight := 1
	for p := 0; p < len(chunk); p++ {
		m := iupac.Mask(chunk[p])
		if m == 0 {
			return dst[:0]
		}
		n := len(dst)
		first := -1
		for d := 0; d < 4; d++ {
			if m&(1<<uint(d)) == 0 {
				continue
			}
			if first < 0 {
				first = d
				continue
			}
			for i := 0; i < n; i++ {
				dst = append(dst, dst[i]+d*weight)
			}
		}
		for i := 0; i < n; i++ {
			dst[i] += first * weight
		}
		weight <<= 2
	}
	if len(dst) > 1 {
		sort.Ints(dst)
	}
	return dst
}
