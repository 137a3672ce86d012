package extractor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/width"
)

var (
	reBoundary    = regexp.MustCompile(`(?i)boundary="?([^"\s;]+)"?`)
	reContentType = regexp.MustCompile(`(?i)content-type:\s*([a-z/+.-]+)`)
	reHTMLTag     = regexp.MustCompile(`(?i)<(html|body|table|div|br|p)[\s>/]`)
	reASCIIAmount = regexp.MustCompile(`^[0-9,]+$`)
)

// plainTextBody reduces a raw email body to plain text. Multipart bodies
// yield their text/plain part; an HTML-only body is stripped of markup so
// tags never leak into extracted field values.
func plainTextBody(raw string) (string, error) {
	boundary := detectBoundary(raw)
	if boundary != "" {
		if part := plainPart(raw, boundary); part != "" {
			return part, nil
		}
		// No text/plain part; strip the HTML part instead.
	}
	if reHTMLTag.MatchString(raw) {
		return stripHTML(raw)
	}
	if boundary != "" {
		return "", fmt.Errorf("%w: multipart body has no readable text part", ErrEncodingNormalization)
	}
	return raw, nil
}

func detectBoundary(raw string) string {
	m := reBoundary.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return m[1]
}

// plainPart returns the body of the first text/plain MIME part, or the
// empty string when none exists.
func plainPart(raw, boundary string) string {
	parts := strings.Split(raw, "--"+boundary)
	for _, part := range parts {
		ct := reContentType.FindStringSubmatch(part)
		if ct == nil || !strings.EqualFold(ct[1], "text/plain") {
			continue
		}
		// Part body starts after the blank line that ends the part headers.
		if idx := strings.Index(part, "\n\n"); idx >= 0 {
			return strings.TrimSpace(part[idx+2:])
		}
		if idx := strings.Index(part, "\r\n\r\n"); idx >= 0 {
			return strings.TrimSpace(part[idx+4:])
		}
	}
	return ""
}

func stripHTML(raw string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: parsing HTML body: %v", ErrEncodingNormalization, err)
	}
	doc.Find("script, style").Remove()
	// Issuer HTML is often minified with no whitespace between elements.
	// Each block element must end a line, or the line-anchored field
	// regexes would capture across label boundaries.
	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml("\n")
	})
	doc.Find("p, div, tr, li, h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml("\n")
	})
	return strings.TrimSpace(doc.Text()), nil
}

// narrowValue folds full-width digits and punctuation to their ASCII
// equivalents and trims surrounding whitespace, including the ideographic
// space. Applied only to amount and datetime values; card names and
// merchant strings keep their original width.
func narrowValue(s string) string {
	s = width.Narrow.String(s)
	return strings.Trim(s, " \t\r\n　")
}

// parseAmount parses a normalized amount string ("390", "１，２３４",
// "3,900円") into whole yen. The currency has no minor units, so any
// decimal point is a malformed value rather than a fraction to round.
func parseAmount(s string) (int64, error) {
	s = narrowValue(s)
	s = strings.TrimSuffix(s, "円")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrFieldExtraction)
	}
	if !reASCIIAmount.MatchString(s) {
		return 0, fmt.Errorf("%w: amount %q contains non-numeric characters", ErrEncodingNormalization, s)
	}
	s = strings.ReplaceAll(s, ",", "")
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parsing amount %q: %v", ErrFieldExtraction, s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative amount %d", ErrFieldExtraction, n)
	}
	return n, nil
}
