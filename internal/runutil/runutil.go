// internal/runutil/runutil.go
package runutil

import (
	"fmt"
	"runtime"
	"time"
)

// EffectiveThreads returns threads when positive, otherwise the CPU count.
func EffectiveThreads(threads int) int {
	if threads > 0 {
		return threads
	}
	return runtime.NumCPU()
}

// ResolveSeed returns seed unless it is 0, in which case a clock-derived
// seed is chosen. The caller should log the resolved value so a run can be
// repeated.
func ResolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	s := time.Now().UnixNano()
	if s == 0 {
		s = 1
	}
	return s
}

// FileSeed derives the seed for the i-th input file so that each file's
// sampling is reproducible on its own and independent of the others.
func FileSeed(seed int64, i int) int64 {
	if i == 0 {
		return seed
	}
	// splitmix64 step
	z := uint64(seed) + uint64(i)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}

// ValidateSampling reports problems with the oligo and fragment lengths
// before any file is opened. An empty result means the pair is usable.
func ValidateSampling(oligoLength, fragmentLength, maxK int) []string {
	var errs []string
	if oligoLength < 1 || oligoLength > maxK {
		errs = append(errs, fmt.Sprintf("--oligo-length must be in [1,%d]", maxK))
	}
	if fragmentLength < oligoLength {
		errs = append(errs, "--fragment-length must be >= --oligo-length")
	}
	return errs
}
