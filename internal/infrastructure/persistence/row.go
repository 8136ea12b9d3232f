package persistence

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Row is one result row keyed by column name. Drivers disagree on the Go types
// they return, so the accessors below coerce the common representations.
type Row map[string]any

// String returns the column as text, or "" for NULL.
func (r Row) String(column string) string {
	switch v := r[column].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}

// Int64 returns the column as an integer. ok is false for NULL or values that
// do not convert.
func (r Row) Int64(column string) (n int64, ok bool) {
	switch v := r[column].(type) {
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case int:
		return int64(v), true
	case int16:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		return parsed, err == nil
	case []byte:
		parsed, err := strconv.ParseInt(string(v), 10, 64)
		return parsed, err == nil
	}
	return 0, false
}

// Decimal returns the column as a decimal, zero for NULL.
func (r Row) Decimal(column string) decimal.Decimal {
	switch v := r[column].(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case float32:
		return decimal.NewFromFloat32(v)
	case int64:
		return decimal.NewFromInt(v)
	case int32:
		return decimal.NewFromInt32(v)
	case string:
		d, err := decimal.NewFromString(v)
		if err == nil {
			return d
		}
	case []byte:
		d, err := decimal.NewFromString(string(v))
		if err == nil {
			return d
		}
	}
	return decimal.Zero
}

// Bool returns the column as a boolean. Integer columns are true when non-zero.
func (r Row) Bool(column string) bool {
	switch v := r[column].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

// Time returns the column as a timestamp, the zero time for NULL.
func (r Row) Time(column string) time.Time {
	switch v := r[column].(type) {
	case time.Time:
		return v
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
