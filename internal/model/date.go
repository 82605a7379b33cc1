package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// DateLayout is the wire format of a calendar date.
const DateLayout = "2006-01-02"

// DateLayouts lists the textual forms a stored temporal value may take.
// Order matters: the most specific layout is tried first.
var DateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	DateLayout,
	time.RFC3339,
}

// Date is a calendar date without time of day. A Date may instead carry
// a raw value that could not be parsed; it is serialized unchanged so
// that no field is silently dropped.
type Date struct {
	t   time.Time
	raw string
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// RawDate wraps a value that is not a recognizable date.
func RawDate(s string) Date {
	return Date{raw: s}
}

// Today returns the current calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses s against DateLayouts.
func ParseDate(s string) (Date, error) {
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, errors.New("unrecognized date: " + s)
}

// IsZero reports whether d holds neither a date nor a raw value.
func (d Date) IsZero() bool { return d.t.IsZero() && d.raw == "" }

// IsRaw reports whether d carries an unparsed source value.
func (d Date) IsRaw() bool { return d.raw != "" }

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time { return d.t }

func (d Date) String() string {
	if d.raw != "" {
		return d.raw
	}
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// Value returns the argument to bind for a nullable DATE column.
func (d Date) Value() any {
	if d.t.IsZero() {
		return nil
	}
	return d.t
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
