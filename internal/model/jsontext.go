package model

import (
	"bytes"
	"encoding/json"
)

// JSONText holds a structured sub-object (timeline, success metrics,
// workforce impact, ...) exactly as received, so the persisted text encoding
// round-trips losslessly.
type JSONText struct {
	raw json.RawMessage
}

// UnmarshalJSON captures the raw encoding verbatim.
func (j *JSONText) UnmarshalJSON(b []byte) error {
	j.raw = append(j.raw[:0], b...)
	return nil
}

// MarshalJSON re-emits the captured encoding.
func (j JSONText) MarshalJSON() ([]byte, error) {
	if len(j.raw) == 0 {
		return []byte("null"), nil
	}
	return j.raw, nil
}

// Raw returns the captured JSON bytes, nil when absent.
func (j JSONText) Raw() json.RawMessage {
	if j.IsNull() {
		return nil
	}
	return j.raw
}

// IsNull reports whether the value is absent or JSON null.
func (j JSONText) IsNull() bool {
	return len(j.raw) == 0 || bytes.Equal(bytes.TrimSpace(j.raw), []byte("null"))
}

// StorageText returns the text persisted to the database:
//   - absent/null values map to SQL NULL,
//   - a JSON string value is stored verbatim (unquoted); if its contents are
//     themselves valid JSON, re-encoding is skipped so the text is idempotent,
//   - objects and arrays are stored as their JSON encoding.
func (j JSONText) StorageText() *string {
	if j.IsNull() {
		return nil
	}
	raw := bytes.TrimSpace(j.raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return &s
		}
	}
	s := string(raw)
	return &s
}

// JSONTextOf wraps an arbitrary value, used by tests and fallbacks.
func JSONTextOf(v any) JSONText {
	b, err := json.Marshal(v)
	if err != nil {
		return JSONText{}
	}
	return JSONText{raw: b}
}

// ParseJSONText interprets a persisted text column back into a JSONText,
// reversing StorageText.
func ParseJSONText(s *string) JSONText {
	if s == nil {
		return JSONText{}
	}
	b := []byte(*s)
	if json.Valid(b) {
		return JSONText{raw: b}
	}
	quoted, _ := json.Marshal(*s)
	return JSONText{raw: quoted}
}
