package record

import (
	"database/sql"
	"fmt"
)

// Decode reads every remaining row into records, preserving row order.
// Column names come from the statement's own result metadata.
func Decode(rows *sql.Rows) ([]Record, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	var records []Record
	for rows.Next() {
		rec, err := scanRow(rows, names)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// DecodeOne reads at most one row. An empty result set returns (nil, nil):
// absence is a valid outcome, not a fault.
func DecodeOne(rows *sql.Rows) (Record, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error reading row: %w", err)
		}
		return nil, nil
	}

	return scanRow(rows, names)
}

// scanRow decodes the current row into a Record. Byte slices are copied out
// of the driver's buffers, which may be reused on the next fetch.
func scanRow(rows *sql.Rows, names []string) (Record, error) {
	values := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range values {
		ptrs[i] = &values[i]
	}

	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	rec := make(Record, len(names))
	for i, name := range names {
		if b, ok := values[i].([]byte); ok {
			rec[name] = string(b)
			continue
		}
		rec[name] = values[i]
	}

	return rec, nil
}
