package extractor

import (
	"errors"
	"fmt"
)

// Extraction errors. All are terminal for the email in question: a failed
// extraction is routed to manual review, never retried, and never produces
// a partial CardUsage.
var (
	// ErrUnrecognizedFormat means no registered issuer format matched the
	// email text.
	ErrUnrecognizedFormat = errors.New("no registered card company format matched")

	// ErrFieldExtraction means a required field's anchor was missing or its
	// value failed to parse.
	ErrFieldExtraction = errors.New("field extraction failed")

	// ErrEncodingNormalization means a value that must be numeric still
	// contained un-normalizable characters after width folding.
	ErrEncodingNormalization = errors.New("encoding normalization failed")
)

// FieldError reports which field of which issuer format failed to extract.
type FieldError struct {
	Company string
	Field   string
	Err     error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("[%s] field %q: %v", e.Company, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Is matches FieldError against the ErrFieldExtraction sentinel regardless
// of the underlying parse cause.
func (e *FieldError) Is(target error) bool {
	return target == ErrFieldExtraction
}

func newFieldError(company, field string, err error) *FieldError {
	if err == nil {
		err = ErrFieldExtraction
	}
	return &FieldError{Company: company, Field: field, Err: err}
}
