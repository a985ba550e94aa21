// Package catalog reads the store/medicine catalog from the external
// collaborator. Sources are read-only; any failure surfaces as catalog
// unavailability and is never retried here.
package catalog

import (
	"errors"
	"fmt"
)

// ErrCatalogUnavailable is matched by every UnavailableError
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// UnavailableError reports that a source could not supply the store list
type UnavailableError struct {
	Source string
	Err    error
}

// Unavailable wraps err as an UnavailableError for the named source
func Unavailable(source string, err error) *UnavailableError {
	return &UnavailableError{Source: source, Err: err}
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrCatalogUnavailable, e.Source, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrCatalogUnavailable, e.Source)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrCatalogUnavailable) hold for any UnavailableError
func (e *UnavailableError) Is(target error) bool {
	return target == ErrCatalogUnavailable
}
