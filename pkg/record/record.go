// Package record defines the transient name-keyed row representation
// produced by query execution. A Record is decoded from a result row using
// the column names the statement itself reports, so a record's shape follows
// the query, not any static schema.
package record

import "time"

// Record maps column names to decoded values for one result row.
type Record map[string]any

// Get returns the value for a column and whether it was present.
func (r Record) Get(name string) (any, bool) {
	v, ok := r[name]
	return v, ok
}

// GetString returns a column as a string. Byte slices are converted; any
// other type, or an absent column, yields the empty string.
func (r Record) GetString(name string) string {
	switch v := r[name].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

// GetInt64 returns a column as an int64; zero when absent or not numeric.
func (r Record) GetInt64(name string) int64 {
	switch v := r[name].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// GetTime returns a column as a time.Time; the zero time when absent or not
// a timestamp.
func (r Record) GetTime(name string) time.Time {
	if v, ok := r[name].(time.Time); ok {
		return v
	}
	return time.Time{}
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge copies every entry of other into r, overwriting existing keys.
func (r Record) Merge(other Record) {
	for k, v := range other {
		r[k] = v
	}
}
