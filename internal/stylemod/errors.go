package stylemod

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMarker is returned when the code does not register a stylesheet.
	ErrNoMarker = errors.New("no exports.push([module...]) call")
	// ErrMissingArgument is returned when the pushed array has no CSS element.
	ErrMissingArgument = errors.New("missing CSS argument")
)

// ExtractionError reports an expression shape the parser does not accept.
type ExtractionError struct {
	Offset int // byte offset into the module code
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract css at offset %d: %s", e.Offset, e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// AmbiguousPlaceholderError is returned when a placeholder token occurs more
// than once in the trimmed CSS.
type AmbiguousPlaceholderError struct {
	Token string
	Count int
}

func (e *AmbiguousPlaceholderError) Error() string {
	return fmt.Sprintf("placeholder %s occurs %d times in trimmed css", e.Token, e.Count)
}
