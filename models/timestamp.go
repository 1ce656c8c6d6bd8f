package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timestamp is a point in time stored as epoch milliseconds.
// It is the only date representation used by orders, products and payments.
type Timestamp int64

// TimestampFromTime converts t to epoch milliseconds.
func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp(t.UnixMilli())
}

// Time returns the timestamp in loc (time.Local when loc is nil).
func (ts Timestamp) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(int64(ts)).In(loc)
}

func (ts Timestamp) IsZero() bool {
	return ts == 0
}

// ParseTimestamp accepts epoch millis, RFC 3339, or a YYYY-MM-DD date
// (midnight in loc).
func ParseTimestamp(s string, loc *time.Location) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if loc == nil {
		loc = time.Local
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Timestamp(n), nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Timestamp(int64(f)), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return TimestampFromTime(t), nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, loc); err == nil {
		return TimestampFromTime(t), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return TimestampFromTime(t), nil
	}
	return 0, fmt.Errorf("invalid date %q", s)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(ts), 10)), nil
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*ts = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := ParseTimestamp(s, time.Local)
		if err != nil {
			return err
		}
		*ts = v
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("invalid timestamp %s", string(b))
	}
	*ts = Timestamp(int64(f))
	return nil
}

// Value implements driver.Valuer.
func (ts Timestamp) Value() (driver.Value, error) {
	return int64(ts), nil
}

// Scan implements sql.Scanner.
func (ts *Timestamp) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*ts = 0
	case int64:
		*ts = Timestamp(v)
	case int32:
		*ts = Timestamp(v)
	case float64:
		*ts = Timestamp(int64(v))
	case time.Time:
		*ts = TimestampFromTime(v)
	case []byte:
		return ts.Scan(string(v))
	case string:
		parsed, err := ParseTimestamp(v, time.Local)
		if err != nil {
			return err
		}
		*ts = parsed
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", value)
	}
	return nil
}
