package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// The remote API is PHP backed and is loose about scalar types: ids, counters and
// amounts arrive as numbers or as numeric strings, flags as 0/1, "0"/"1" or bools.
// These types decode all of those shapes.

// ID is a record identifier that may be sent as a number or a string.
type ID string

// UnmarshalJSON implements json.Unmarshaler
func (id *ID) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		*id = ""
		return nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", raw, err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the identifier as text
func (id ID) String() string {
	return string(id)
}

// Number is a decimal amount that may be sent as a number or a numeric string. A value
// that is neither decodes as 0 so one odd field never fails a whole list.
type Number float64

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	*n = 0
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*n = Number(f)
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		*n = Number(f)
	}
	return nil
}

// Float returns the amount as float64
func (n Number) Float() float64 {
	return float64(n)
}

// Int returns the amount truncated to an int
func (n Number) Int() int {
	return int(n)
}

// String formats the amount without trailing zeros
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// Flag is a boolean that may be sent as true/false, 0/1 or "0"/"1". Other values count
// as set unless they are empty or zero.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler
func (f *Flag) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			raw = []byte(strings.TrimSpace(s))
		}
	}
	switch strings.ToLower(string(raw)) {
	case "", "0", "false", "no", "null":
		*f = false
	default:
		if v, err := strconv.ParseFloat(string(raw), 64); err == nil {
			*f = v != 0
			return nil
		}
		*f = true
	}
	return nil
}

// Bool returns the flag value
func (f Flag) Bool() bool {
	return bool(f)
}
