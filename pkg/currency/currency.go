// Package currency formats whole-yen amounts for display. Card usage
// amounts in this domain carry no decimal places, so amounts are plain
// int64 values and formatting is grouping plus the yen symbol.
package currency

import "strconv"

// Symbol is the yen sign used in alert and report payloads.
const Symbol = "¥"

// GroupDigits inserts comma thousands separators into a non-negative
// integer amount, e.g. 1234567 -> "1,234,567".
func GroupDigits(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	if len(s) <= 3 {
		return s
	}

	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

// FormatJPY renders an amount as "¥1,234".
func FormatJPY(amount int64) string {
	return Symbol + GroupDigits(amount)
}
