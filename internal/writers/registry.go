// internal/writers/registry.go
package writers

import (
	"fmt"
	"sort"
	"strings"
)

// Output formats.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// Payload kinds, one per subcommand output.
const (
	KindTree       = "tree"
	KindAssignment = "assignment"
	KindMatrix     = "matrix"
	KindIndex      = "index"
)

// registry maps kind → supported formats. Filled from init() in each
// writer file.
var registry = map[string]map[string]bool{}

// Register declares that kind can be written in formats (idempotent).
func Register(kind string, formats ...string) {
	m := registry[kind]
	if m == nil {
		m = map[string]bool{}
		registry[kind] = m
	}
	for _, f := range formats {
		m[f] = true
	}
}

// Formats lists the formats registered for kind, sorted.
func Formats(kind string) []string {
	var out []string
	for f := range registry[kind] {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Validate fails unless format is registered for kind.
func Validate(kind, format string) error {
	if registry[kind][format] {
		return nil
	}
	return fmt.Errorf("unsupported output %q for %s (want %s)", format, kind, strings.Join(Formats(kind), ", "))
}
