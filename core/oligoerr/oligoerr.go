// Package oligoerr defines the error classes shared by the core packages.
//
// Every failure raised by fasta, iupac, kmer and newick belongs to exactly one
// class. Callers test the class with errors.Is against the sentinels below;
// the message carries the operation and the offending value.
package oligoerr

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrFileAccess: source file missing or unreadable.
	ErrFileAccess = errors.New("file access error")
	// ErrFormat: malformed record, zero records, or unrecognized IUPAC code.
	ErrFormat = errors.New("format error")
	// ErrParameter: fragment length smaller than k or longer than a retained sequence.
	ErrParameter = errors.New("parameter error")
	// ErrStructural: merge trace without exactly one root, or otherwise inconsistent.
	ErrStructural = errors.New("structural error")
)

// classError ties a message and an optional cause to one of the sentinels.
type classError struct {
	class error
	msg   string
	cause error
}

func (e *classError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.class, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.class, e.msg)
}

func (e *classError) Is(target error) bool { return target == e.class }

func (e *classError) Unwrap() error { return e.cause }

func newClass(class, cause error, format string, args ...any) error {
	return errors.WithStack(&classError{
		class: class,
		msg:   fmt.Sprintf(format, args...),
		cause: cause,
	})
}

// FileAccess wraps an I/O failure (usually from os.Open) as ErrFileAccess.
func FileAccess(cause error, format string, args ...any) error {
	return newClass(ErrFileAccess, cause, format, args...)
}

// Format reports malformed input.
func Format(format string, args ...any) error {
	return newClass(ErrFormat, nil, format, args...)
}

// Parameter reports an invalid caller-supplied parameter.
func Parameter(format string, args ...any) error {
	return newClass(ErrParameter, nil, format, args...)
}

// Structural reports an inconsistent merge trace or tree.
func Structural(format string, args ...any) error {
	return newClass(ErrStructural, nil, format, args...)
}

// Kind returns the class name of err ("FileAccessError", "FormatError",
// "ParameterError", "StructuralError") or "" when err belongs to none.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrFileAccess):
		return "FileAccessError"
	case errors.Is(err, ErrFormat):
		return "FormatError"
	case errors.Is(err, ErrParameter):
		return "ParameterError"
	case errors.Is(err, ErrStructural):
		return "StructuralError"
	}
	return ""
}
