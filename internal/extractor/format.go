package extractor

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cardwatch/backend/internal/model"
)

// Field names used by format definitions and in extraction errors.
const (
	FieldCardName   = "cardName"
	FieldAmount     = "amount"
	FieldWhereToUse = "whereToUse"
	FieldDatetime   = "datetime"
)

// Format describes how one issuer's notification email is recognized and
// parsed: detector probes, per-field anchor patterns, and the date layouts
// the issuer uses. The set of formats is closed and known at build time.
type Format struct {
	Company model.CardCompany

	// probes are substrings that must all be present for the detector to
	// claim the email.
	probes []string

	// fields maps field names to anchor patterns. Each pattern captures
	// the value that follows the issuer's label in group 1.
	fields map[string]*regexp.Regexp

	// dateLayouts are tried in order against the normalized datetime value.
	// Layouts without a zone are interpreted in the reference location.
	dateLayouts []string

	// multipart marks issuers that send multipart HTML+text bodies.
	multipart bool
}

// Match reports whether the email text carries all of the format's
// detector probes.
func (f *Format) Match(text string) bool {
	for _, probe := range f.probes {
		if !strings.Contains(text, probe) {
			return false
		}
	}
	return true
}

// extract applies the format's anchors to the plain-text body and builds
// the usage record. The id is assigned by the store, not here.
func (f *Format) extract(text string, loc *time.Location) (*model.CardUsage, error) {
	cardName, err := f.requiredField(text, FieldCardName)
	if err != nil {
		return nil, err
	}

	rawAmount, err := f.requiredField(text, FieldAmount)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return nil, newFieldError(string(f.Company), FieldAmount, err)
	}

	rawDatetime, err := f.requiredField(text, FieldDatetime)
	if err != nil {
		return nil, err
	}
	datetime, err := f.parseDatetime(rawDatetime, loc)
	if err != nil {
		return nil, newFieldError(string(f.Company), FieldDatetime, err)
	}

	// Merchant is optional: some issuers omit it for certain transaction
	// kinds, and the record is still useful without it.
	whereToUse := f.optionalField(text, FieldWhereToUse)

	return &model.CardUsage{
		CardName:      strings.TrimSpace(cardName),
		Amount:        amount,
		WhereToUse:    strings.TrimSpace(whereToUse),
		DatetimeOfUse: datetime,
		CardCompany:   f.Company,
	}, nil
}

func (f *Format) requiredField(text, name string) (string, error) {
	re, ok := f.fields[name]
	if !ok {
		return "", newFieldError(string(f.Company), name, fmt.Errorf("format defines no anchor"))
	}
	m := re.FindStringSubmatch(text)
	if len(m) < 2 || strings.TrimSpace(m[1]) == "" {
		return "", newFieldError(string(f.Company), name, fmt.Errorf("anchor not found in email body"))
	}
	return m[1], nil
}

func (f *Format) optionalField(text, name string) string {
	re, ok := f.fields[name]
	if !ok {
		return ""
	}
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

func (f *Format) parseDatetime(raw string, loc *time.Location) (time.Time, error) {
	value := narrowValue(raw)
	for _, layout := range f.dateLayouts {
		var t time.Time
		var err error
		if strings.ContainsAny(layout, "Z-") && strings.Contains(layout, "07") {
			// Layout carries its own zone.
			t, err = time.Parse(layout, value)
		} else {
			t, err = time.ParseInLocation(layout, value, loc)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("datetime %q matches none of the layouts %v", value, f.dateLayouts)
}
