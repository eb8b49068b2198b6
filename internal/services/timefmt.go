package services

import (
	"fmt"
	"strconv"
	"time"
)

// displayLayout is the fixed DD:MM:YYYY HH:MM form used in reports and exports.
const displayLayout = "02:01:2006 15:04"

// Formatter renders epoch-second values as localized display strings. The
// timezone is explicit and injected, never taken from the host environment.
type Formatter struct {
	loc *time.Location
}

func NewFormatter(timezone string) (*Formatter, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", timezone, err)
	}
	return &Formatter{loc: loc}, nil
}

// Format accepts an epoch value in seconds as a number or numeric string and
// returns the display string. ok is false when the input does not parse to a
// valid instant; callers substitute their own sentinel.
func (f *Formatter) Format(value any) (string, bool) {
	sec, ok := epochSeconds(value)
	if !ok || sec < 0 {
		return "", false
	}
	return f.FormatTime(time.Unix(sec, 0)), true
}

// FormatTime renders an already-parsed instant in the report timezone.
func (f *Formatter) FormatTime(t time.Time) string {
	return t.In(f.loc).Format(displayLayout)
}

func epochSeconds(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return int64(parsed), true
	default:
		return 0, false
	}
}
