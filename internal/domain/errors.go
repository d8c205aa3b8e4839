package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures for the unified error report.
type ErrorKind string

const (
	ErrorKindGeometry      ErrorKind = "geometry"      // unreducible shape, record dropped
	ErrorKindNormalization ErrorKind = "normalization" // missing/invalid required field, record dropped
	ErrorKindSourceFetch   ErrorKind = "source_fetch"  // whole-batch fetch/parse failure, other sources unaffected
	ErrorKindConfig        ErrorKind = "config"        // invalid configuration, fatal at construction
)

// Sentinel errors for classification via errors.Is. Normalizers wrap these
// with record detail.
var (
	ErrGeometry      = errors.New("unreducible geometry")
	ErrNormalization = errors.New("invalid record")
	ErrConfig        = errors.New("invalid configuration")
)

// KindOf maps an error to its ErrorKind. Unclassified errors are reported
// as source fetch failures, the only kind produced outside the core.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrGeometry):
		return ErrorKindGeometry
	case errors.Is(err, ErrNormalization):
		return ErrorKindNormalization
	case errors.Is(err, ErrConfig):
		return ErrorKindConfig
	default:
		return ErrorKindSourceFetch
	}
}

// IngestError is one non-fatal failure encountered during fusion. Record
// level failures carry a RecordRef identifying the offending record within
// its batch; source-level failures leave it empty.
type IngestError struct {
	Source    Source    `json:"source"`
	RecordRef string    `json:"record_ref,omitempty"`
	Kind      ErrorKind `json:"kind"`
	Err       error     `json:"-"`
}

func (e IngestError) Error() string {
	if e.RecordRef == "" {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: record %s: %v", e.Source, e.Kind, e.RecordRef, e.Err)
}

func (e IngestError) Unwrap() error { return e.Err }
