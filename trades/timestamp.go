package trades

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// Layout is the timestamp format the MT4 terminal exports,
// e.g. "2024.03.01 14:30".
const Layout = "2006.01.02 15:04"

// Timestamp wraps time.Time with the terminal's wire format. A missing or
// empty field unmarshals to the zero value, which is how open trades encode
// the absence of a close time.
type Timestamp struct {
	time.Time
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + ts.Format(Layout) + `"`), nil
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		ts.Time = time.Time{}
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		ts.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		// Some export paths emit RFC3339; accept it rather than dropping
		// the row.
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("parse timestamp %q: %w", s, err)
		}
	}
	ts.Time = t
	return nil
}
