package iupac

import (
	"errors"
	"math/rand"
	"testing"

	"oligo/core/oligoerr"
)

const alphabet = "acgtryswkmbdhvn.-?ACGTRYSWKMBDHVN"

func TestNucleotideEquals(t *testing.T) {
	tests := []struct {
		a, b byte
		want bool
	}{
		{'a', 'a', true},
		{'A', 'a', true},
		{'r', 'g', true}, // R = A/G
		{'R', 'C', false},
		{'n', 't', true},
		{'b', 'a', false}, // B = C/G/T
		{'b', 'c', true},
		{'-', '.', true},
		{'-', 'a', false},
		{'?', '?', true},
		{'?', 'n', false},
		{'g', 's', true},
		{'w', 's', false},
	}
	for _, tt := range tests {
		got, err := NucleotideEquals(tt.a, tt.b)
		if err != nil {
			t.Fatalf("NucleotideEquals(%q,%q): %v", tt.a, tt.b, err)
		}
		if got != tt.want {
			t.Errorf("NucleotideEquals(%q,%q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNucleotideEqualsUnknownCode(t *testing.T) {
	ok, err := NucleotideEquals('x', 'a')
	if ok {
		t.Fatalf("unknown code must not match")
	}
	if !errors.Is(err, oligoerr.ErrFormat) {
		t.Fatalf("want FormatError, got %v", err)
	}
}

func TestNucleotideEqualsSymmetric(t *testing.T) {
	for i := 0; i < len(alphabet); i++ {
		for j := 0; j < len(alphabet); j++ {
			a, b := alphabet[i], alphabet[j]
			ab, _ := NucleotideEquals(a, b)
			ba, _ := NucleotideEquals(b, a)
			if ab != ba {
				t.Errorf("asymmetric: %q~%q=%v but %q~%q=%v", a, b, ab, b, a, ba)
			}
		}
	}
}

func TestSequenceEqualsSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	gen := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return string(b)
	}
	for n := 0; n < 6; n++ {
		for trial := 0; trial < 500; trial++ {
			a, b := gen(n), gen(n)
			if SequenceEquals(a, b) != SequenceEquals(b, a) {
				t.Fatalf("SequenceEquals not symmetric for %q / %q", a, b)
			}
		}
	}
}

func TestSequenceEquals(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"acgt", "ACGT", true},
		{"acgn", "acgt", true},
		{"acgt", "acg", false},
		{"", "", true},
		{"acxt", "acxt", false},
		{"rrrr", "agag", true},
	}
	for _, tt := range tests {
		if got := SequenceEquals(tt.a, tt.b); got != tt.want {
			t.Errorf("SequenceEquals(%q,%q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMaskMatchesTable(t *testing.T) {
	for i := 0; i < len(alphabet); i++ {
		c := alphabet[i]
		for bit := 0; bit < len(Bases); bit++ {
			eq, _ := NucleotideEquals(c, Bases[bit])
			inMask := Mask(c)&(1<<bit) != 0
			if eq != inMask {
				t.Errorf("Mask(%q) bit %c = %v, NucleotideEquals = %v", c, Bases[bit], inMask, eq)
			}
		}
	}
	if Mask('x') != 0 {
		t.Errorf("Mask('x') = %d, want 0", Mask('x'))
	}
	if Mask('N') != 0xF || Mask('a') != 1 || Mask('T') != 8 {
		t.Errorf("canonical masks corrupted: N=%d a=%d T=%d", Mask('N'), Mask('a'), Mask('T'))
	}
}
