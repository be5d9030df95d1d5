// Package models defines client-side data models for the patient portal:
// messages, the care-team directory, profile, forms, and billing records.
package models

import (
	"bytes"
	"strconv"
)

// FlexID is an integer identifier that tolerates the loose typing of the
// portal backend: it decodes from a JSON number, a numeric string, or null.
// A malformed value resolves to zero instead of failing the whole decode;
// callers treat zero as "absent" and apply their documented fallback.
type FlexID int64

func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}

	if data[0] == '"' {
		s := string(data[1 : len(data)-1])
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			*f = 0 // data-quality fallback, not a decode failure
			return nil
		}
		*f = FlexID(n)
		return nil
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexID(n)
	return nil
}

func (f FlexID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(f), 10)), nil
}

func (f FlexID) Int64() int64 { return int64(f) }
