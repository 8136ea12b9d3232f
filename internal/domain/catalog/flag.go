package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Flag is a boolean that the platform encodes as "Y"/"N". Plain JSON booleans
// are accepted as well.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("flag: %w", err)
	}
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "Y", "YES", "TRUE", "1":
		*f = true
	case "", "N", "NO", "FALSE", "0":
		*f = false
	default:
		return fmt.Errorf("flag: unexpected value %q", s)
	}
	return nil
}

// MarshalJSON encodes the flag the way the platform does.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte(`"Y"`), nil
	}
	return []byte(`"N"`), nil
}
