// Package extract cuts 1-indexed inclusive line ranges out of source text.
package extract

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOutOfRange is returned when a requested range does not fit the source.
var ErrOutOfRange = errors.New("line range out of range")

// RangeError describes a rejected range request.
type RangeError struct {
	Start int
	End   int
	Lines int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("lines %d-%d: %v (source has %d lines)", e.Start, e.End, ErrOutOfRange, e.Lines)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// Lines splits src into lines, each keeping its terminator. A final line
// without a terminator is kept as is; an empty source has no lines.
func Lines(src []byte) []string {
	if len(src) == 0 {
		return nil
	}
	lines := strings.SplitAfter(string(src), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Range returns lines start..end (1-indexed, inclusive) joined verbatim.
func Range(lines []string, start, end int) (string, error) {
	if start < 1 || end < start || end > len(lines) {
		return "", &RangeError{Start: start, End: end, Lines: len(lines)}
	}
	return strings.Join(lines[start-1:end], ""), nil
}

// Span returns the number of lines a valid range covers.
func Span(start, end int) int {
	if end < start {
		return 0
	}
	return end - start + 1
}
