// rowdecode.go - Repairs applied to every value read back from the database.
//
// Some rows were written by clients that sent UTF-8 bytes declared as
// Latin-1, so Cyrillic text arrives double encoded ("Ð˜Ð²Ð°Ð½" instead of
// "Иван"). Temporal columns may be DATE, TIMESTAMP or free text depending
// on how old the row is. Both repairs are best effort: a value that cannot
// be repaired is returned as it was.
package rowdecode

import (
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"projectdesk/internal/model"
)

// Text re-encodes s as ISO-8859-1 and reinterprets the resulting bytes as
// UTF-8. It reports true only when that produced a different, valid
// string. Text that is already correct, including proper Cyrillic and
// plain ASCII, comes back unchanged with false.
func Text(s string) (string, bool) {
	if s == "" {
		return s, false
	}
	raw, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		// A rune outside Latin-1 means the text was never double encoded.
		return s, false
	}
	if raw == s || !utf8.ValidString(raw) {
		return s, false
	}
	return raw, true
}

// MustText is Text without the outcome flag.
func MustText(s string) string {
	out, _ := Text(s)
	return out
}

// Value applies Text to every string held in v, descending into maps and
// slices as produced by decoding a JSON column. Other values are returned
// untouched.
func Value(v any) any {
	switch x := v.(type) {
	case string:
		return MustText(x)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[MustText(k)] = Value(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = Value(val)
		}
		return out
	default:
		return v
	}
}

// Date normalizes a temporal column value to a calendar date. It reports
// false when v was text that matched none of model.DateLayouts; the
// returned Date then carries the raw text so the field is not lost. A nil
// value yields the zero Date.
func Date(v any) (model.Date, bool) {
	switch x := v.(type) {
	case nil:
		return model.Date{}, true
	case model.Date:
		return x, !x.IsRaw()
	case time.Time:
		if x.IsZero() {
			return model.Date{}, true
		}
		return model.DateOf(x), true
	case *time.Time:
		if x == nil {
			return model.Date{}, true
		}
		return Date(*x)
	case []byte:
		return Date(string(x))
	case string:
		if x == "" {
			return model.Date{}, true
		}
		d, err := model.ParseDate(x)
		if err != nil {
			return model.RawDate(x), false
		}
		return d, true
	default:
		return model.Date{}, false
	}
}

// MustDate is Date without the outcome flag.
func MustDate(v any) model.Date {
	d, _ := Date(v)
	return d
}
