package models

import (
	"bytes"
	"fmt"
)

// StringID is a string identifier that also accepts a bare JSON number,
// another loose-typing quirk of the portal backend: subject ids arrive as
// "pt-77" from some endpoints and as 77 from others.
type StringID string

func (s *StringID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		*s = StringID(data[1 : len(data)-1])
		return nil
	}
	// Bare number: keep its textual form.
	*s = StringID(data)
	return nil
}

func (s StringID) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", string(s))), nil
}

func (s StringID) String() string { return string(s) }
