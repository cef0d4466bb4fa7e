package correlation

import (
	"errors"
	"fmt"
)

// Engine errors.
var (
	// ErrNoCohorts is returned when Correlate is called with no cohort configs.
	ErrNoCohorts = errors.New("no cohort configs provided")

	// ErrUnknownPolicy is returned for a match policy other than ALL or ANY.
	ErrUnknownPolicy = errors.New("unknown match policy")
)

// RetrievalError reports that a cohort's buyer records could not be
// obtained. It aborts the entire correlation run: a correlation across
// incomplete cohorts would produce a population that matches no policy's
// documented meaning.
type RetrievalError struct {
	Mint string
	Err  error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieve buyers for %s: %v", e.Mint, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}
