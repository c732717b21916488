package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp is a store-assigned point in time that may be missing, for
// example on a record written before the store stamped it.
type Timestamp struct {
	t     time.Time
	valid bool
}

// NewTimestamp wraps t. The zero time is treated as missing.
func NewTimestamp(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{t: t.UTC(), valid: true}
}

func (ts Timestamp) Valid() bool {
	return ts.valid
}

// Time returns the wrapped time and whether it is present.
func (ts Timestamp) Time() (time.Time, bool) {
	return ts.t, ts.valid
}

// Millis returns milliseconds since the Unix epoch, or 0 when missing.
func (ts Timestamp) Millis() int64 {
	if !ts.valid {
		return 0
	}
	return ts.t.UnixMilli()
}

// Scan implements sql.Scanner.
func (ts *Timestamp) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*ts = Timestamp{}
	case time.Time:
		*ts = NewTimestamp(v)
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return fmt.Errorf("scan timestamp: %w", err)
		}
		*ts = NewTimestamp(t)
	default:
		return fmt.Errorf("scan timestamp: unsupported type %T", value)
	}
	return nil
}

// Value implements driver.Valuer.
func (ts Timestamp) Value() (driver.Value, error) {
	if !ts.valid {
		return nil, nil
	}
	return ts.t, nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if !ts.valid {
		return []byte("null"), nil
	}
	return json.Marshal(ts.t.Format(time.RFC3339Nano))
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*ts = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	*ts = NewTimestamp(t)
	return nil
}

// GormDataType lets AutoMigrate pick a time column.
func (Timestamp) GormDataType() string {
	return "time"
}
