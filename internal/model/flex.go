package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// The generative service is asked for a strict schema but routinely bends it:
// numbers arrive as strings, strings as numbers, scalars as arrays. The Flex
// types absorb that looseness at the parse boundary so a single sloppy field
// never fails a whole document.

// FlexString accepts a JSON string, number, or boolean. Objects and arrays
// are kept as their raw JSON encoding.
type FlexString string

// UnmarshalJSON implements permissive string decoding.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(b)
	return nil
}

// String returns the underlying value.
func (f FlexString) String() string { return string(f) }

// FlexStringList accepts an array of loosely-typed values or a bare scalar,
// which is treated as a single-element list.
type FlexStringList []string

// UnmarshalJSON implements permissive list decoding.
func (f *FlexStringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = nil
		return nil
	}
	if b[0] == '[' {
		var items []FlexString
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			if s := strings.TrimSpace(it.String()); s != "" {
				out = append(out, s)
			}
		}
		*f = out
		return nil
	}
	var s FlexString
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if v := strings.TrimSpace(s.String()); v != "" {
		*f = []string{v}
	}
	return nil
}

// FlexFloat is a numeric field that may arrive as a JSON number, a numeric
// string, or a descriptive string with a leading numeric token
// ("42.5 ADJUSTED to 51.5 based on ..."). Valid reports whether a usable
// number was recovered; Raw preserves the original string form.
type FlexFloat struct {
	Val   float64
	Valid bool
	Raw   string
}

// UnmarshalJSON implements permissive numeric decoding.
func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*f = FlexFloat{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f.Raw = s
		if v, ok := LeadingNumber(s); ok {
			f.Val = v
			f.Valid = true
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		// Not a number or string (object, array, bool): treat as missing.
		f.Raw = string(b)
		return nil
	}
	f.Val = v
	f.Valid = true
	return nil
}

// MarshalJSON emits the numeric value when valid, the raw string otherwise.
func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if f.Valid {
		return json.Marshal(f.Val)
	}
	if f.Raw != "" {
		return json.Marshal(f.Raw)
	}
	return []byte("null"), nil
}

// Num constructs a valid FlexFloat, used by tests and fallbacks.
func Num(v float64) FlexFloat { return FlexFloat{Val: v, Valid: true} }

// LeadingNumber extracts the leading numeric token of a string, tolerating
// surrounding whitespace and a trailing explanation. Returns false when the
// string does not begin with a number.
func LeadingNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	end := 0
	seenDigit := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			end = i + 1
		case r == '.' || ((r == '-' || r == '+') && i == 0):
			end = i + 1
		default:
			goto parse
		}
	}
parse:
	if !seenDigit {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimRight(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FlexBool accepts a JSON boolean, a yes/no-ish string, or a number.
type FlexBool bool

// UnmarshalJSON implements permissive boolean decoding.
func (f *FlexBool) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*f = false
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	switch b[0] {
	case 't':
		*f = true
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "y", "1":
			*f = true
		}
	default:
		if v, err := strconv.ParseFloat(string(b), 64); err == nil && v != 0 {
			*f = true
		}
	}
	return nil
}
