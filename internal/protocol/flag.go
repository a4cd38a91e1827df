package protocol

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Flag is a boolean field that also accepts the strings "true" and "false".
// Any other value decodes as false.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("true")):
		*f = true
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Flag(strings.EqualFold(strings.TrimSpace(s), "true"))
	default:
		*f = false
	}
	return nil
}

// Bool returns the flag as a bool.
func (f Flag) Bool() bool { return bool(f) }
