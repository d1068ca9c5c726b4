package db

import (
	"fmt"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// timestamp scans a column into a time.Time regardless of whether the driver
// hands back a native time or its text form (sqlite).
type timestamp struct {
	t *time.Time
}

func (ts timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*ts.t = v.UTC()
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case int64:
		*ts.t = time.Unix(v, 0).UTC()
		return nil
	case nil:
		*ts.t = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (ts timestamp) parse(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*ts.t = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", s)
}

// now is the write timestamp. Microsecond precision survives a postgres round trip.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
