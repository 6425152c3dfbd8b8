// Package splice replaces byte ranges of a string while leaving every byte
// outside those ranges untouched.
package splice

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrOverlap is returned when two replacements cover a common byte.
	ErrOverlap = errors.New("overlapping replacements")
	// ErrOutOfBounds is returned when a range does not fit the code.
	ErrOutOfBounds = errors.New("range out of bounds")
)

// Range is a half-open byte range [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Replacement replaces Range with Text.
type Replacement struct {
	Range
	Text string
}

// Delta is the change in length caused by the replacement.
func (r Replacement) Delta() int {
	return len(r.Text) - r.Len()
}

// Sorted returns the replacements ordered by start offset after checking them
// against a code of length size.
func Sorted(size int, reps []Replacement) ([]Replacement, error) {
	sorted := make([]Replacement, len(reps))
	copy(sorted, reps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	prevEnd := 0
	for i, r := range sorted {
		if r.Start < 0 || r.End < r.Start || r.End > size {
			return nil, fmt.Errorf("%w: [%d,%d) in %d bytes", ErrOutOfBounds, r.Start, r.End, size)
		}
		if i > 0 && r.Start < prevEnd {
			return nil, fmt.Errorf("%w: [%d,%d) starts before %d", ErrOverlap, r.Start, r.End, prevEnd)
		}
		prevEnd = r.End
	}
	return sorted, nil
}

// Apply returns code with every replacement applied.
func Apply(code string, reps ...Replacement) (string, error) {
	sorted, err := Sorted(len(code), reps)
	if err != nil {
		return "", err
	}

	size := len(code)
	for _, r := range sorted {
		size += r.Delta()
	}

	var b strings.Builder
	b.Grow(size)
	pos := 0
	for _, r := range sorted {
		b.WriteString(code[pos:r.Start])
		b.WriteString(r.Text)
		pos = r.End
	}
	b.WriteString(code[pos:])
	return b.String(), nil
}

// Offset maps an offset in the original code to the corresponding offset after
// the (sorted) replacements. Offsets inside a replaced range collapse to its start.
func Offset(sorted []Replacement, offset int) int {
	shift := 0
	for _, r := range sorted {
		switch {
		case offset < r.Start:
			return offset + shift
		case offset < r.End:
			return r.Start + shift
		}
		shift += r.Delta()
	}
	return offset + shift
}
