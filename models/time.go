package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// UnixMillis stores an instant as epoch milliseconds in a bigint column. The
// summary query derives the weekday from this number with the database's own
// day-of-week function, so the column must stay numeric. On the wire it
// renders as RFC3339.
type UnixMillis int64

func NewUnixMillis(t time.Time) UnixMillis {
	return UnixMillis(t.UnixMilli())
}

func (m UnixMillis) Time() time.Time {
	return time.UnixMilli(int64(m)).UTC()
}

func (m UnixMillis) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Time().Format(time.RFC3339))
}

func (m *UnixMillis) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("parse time %q: %w", s, err)
		}
		*m = NewUnixMillis(t)
		return nil
	}
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("parse millis %q: %w", data, err)
	}
	*m = UnixMillis(ms)
	return nil
}

// StartOfDay truncates an instant to UTC midnight. Every date the service
// persists or compares goes through this, so creation, toggle and summary
// all agree on what "a day" is.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekDay returns the 0=Sunday..6=Saturday index used by habit_week_days.
func WeekDay(t time.Time) int {
	return int(t.UTC().Weekday())
}
