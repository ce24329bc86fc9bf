package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexibleInt decodes from a JSON number or a numeric string. A value that
// is neither leaves Valid false instead of failing the whole body.
type FlexibleInt struct {
	Value int64
	Valid bool
}

func (f *FlexibleInt) UnmarshalJSON(b []byte) error {
	*f = FlexibleInt{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	var s string
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
	} else {
		s = string(b)
	}

	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil
	}
	f.Value, f.Valid = n, true
	return nil
}

// FlexibleID is a FlexibleInt that must be a positive id.
type FlexibleID struct {
	FlexibleInt
}

func (f FlexibleID) ID() (uint, bool) {
	if !f.Valid || f.Value <= 0 {
		return 0, false
	}
	return uint(f.Value), true
}
