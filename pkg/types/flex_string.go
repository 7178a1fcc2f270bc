package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FlexString accepts a JSON string, number or boolean and keeps its textual form.
// Web forms post numeric inputs as strings while other clients send numbers.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	case '{', '[':
		return fmt.Errorf("expected string or number, got %s", string(trimmed))
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(trimmed, &b); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(trimmed))
	}
	*f = FlexString(fmt.Sprint(b))
	return nil
}

// String returns the value with surrounding whitespace removed.
func (f FlexString) String() string {
	return strings.TrimSpace(string(f))
}
