// Package extractor turns raw card-issuer notification emails into
// structured card usage records. Each issuer has a registered format
// (detector probes plus field anchors); the extractor normalizes the body,
// picks a format, and parses the labeled fields. Extraction is pure over
// its inputs and the static registry.
package extractor

import (
	"fmt"
	"time"

	"github.com/cardwatch/backend/internal/model"
)

// Extractor extracts card usage records from raw email text. Safe for
// concurrent use; the only state is the reference timezone attached to
// zone-less datetimes.
type Extractor struct {
	loc *time.Location
}

// New creates an Extractor using loc as the reference timezone.
func New(loc *time.Location) *Extractor {
	if loc == nil {
		loc = time.UTC
	}
	return &Extractor{loc: loc}
}

// Extract parses one email into a CardUsage. When known is non-nil that
// issuer's format is applied directly; otherwise every registered detector
// runs in priority order and the first match wins. Any failure returns a
// nil record: no partial or zero-filled usage is ever produced.
func (e *Extractor) Extract(emailText string, known *model.CardCompany) (*model.CardUsage, error) {
	f, err := e.selectFormat(emailText, known)
	if err != nil {
		return nil, err
	}

	body := emailText
	if f.multipart {
		// plainTextBody failures are encoding errors: the format matched
		// but the body carries no text the field anchors could run over.
		body, err = plainTextBody(emailText)
		if err != nil {
			return nil, err
		}
	}

	return f.extract(body, e.loc)
}

func (e *Extractor) selectFormat(emailText string, known *model.CardCompany) (*Format, error) {
	if known != nil {
		f, ok := formatFor(*known)
		if !ok {
			return nil, fmt.Errorf("%w: card company %q", ErrUnrecognizedFormat, *known)
		}
		return f, nil
	}

	f, ok := detect(emailText)
	if !ok {
		return nil, ErrUnrecognizedFormat
	}
	return f, nil
}
