package repository

import (
	"encoding/json"
	"errors"

	"github.com/lib/pq"
)

// marshalStrings encodes a keyword/sample list for a JSONB column.
// nil encodes as an empty array, not SQL NULL.
func marshalStrings(values []string) []byte {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return []byte("[]")
	}
	return b
}

// unmarshalStrings decodes a JSONB array column; empty or invalid input
// decodes to nil.
func unmarshalStrings(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	return values
}

// isUniqueViolation reports whether err is the Postgres unique_violation
// error class (23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
