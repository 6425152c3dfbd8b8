package bundletrim

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/yacobolo/bundletrim/internal/bundle"
)

// Status is the outcome of one asset.
type Status int

// Asset statuses.
const (
	StatusUntouched Status = iota // no handler applies, or nothing to trim
	StatusRewritten
	StatusFailed // content kept as it was
)

func (s Status) String() string {
	switch s {
	case StatusRewritten:
		return "rewritten"
	case StatusFailed:
		return "failed"
	default:
		return "untouched"
	}
}

// AssetOutcome describes what happened to one asset.
type AssetOutcome struct {
	Name        string
	Kind        bundle.AssetKind
	Status      Status
	BytesBefore int
	BytesAfter  int
	Modules     int      // style modules rewritten
	Removed     int      // rules removed, when the trimmer reports it
	Skipped     []string // style modules not found in the asset
	Err         error
}

// Saved returns the number of bytes the rewrite removed.
func (o AssetOutcome) Saved() int {
	return o.BytesBefore - o.BytesAfter
}

// AssetError is the failure of one asset.
type AssetError struct {
	Asset string
	Err   error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("asset %s: %v", e.Asset, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one pass.
type Result struct {
	Assets    []AssetOutcome
	Fragments int // usage fragments harvested
}

// Count returns the number of assets with the given status.
func (r *Result) Count(status Status) int {
	n := 0
	for _, a := range r.Assets {
		if a.Status == status {
			n++
		}
	}
	return n
}

// Failed returns the outcomes of the assets that could not be rewritten.
func (r *Result) Failed() []AssetOutcome {
	var failed []AssetOutcome
	for _, a := range r.Assets {
		if a.Status == StatusFailed {
			failed = append(failed, a)
		}
	}
	return failed
}

// Saved returns the bytes removed across all assets.
func (r *Result) Saved() int {
	saved := 0
	for _, a := range r.Assets {
		saved += a.Saved()
	}
	return saved
}

// Err combines the asset failures, or returns nil.
func (r *Result) Err() error {
	var err error
	for _, a := range r.Failed() {
		err = multierr.Append(err, &AssetError{Asset: a.Name, Err: a.Err})
	}
	return err
}
