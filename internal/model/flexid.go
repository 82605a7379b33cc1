package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexID is an identifier that clients send either as a JSON number or as
// a numeric string.
type FlexID int64

func (id *FlexID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = 0
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		n = json.Number(strings.TrimSpace(s))
	}
	if n == "" {
		*id = 0
		return nil
	}
	v, err := strconv.ParseInt(string(n), 10, 64)
	if err != nil {
		return fmt.Errorf("id %q is not an integer", n)
	}
	*id = FlexID(v)
	return nil
}
