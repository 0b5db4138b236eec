package repository

import (
	"errors"
	"time"

	"github.com/lib/pq"
)

// QueryObserver receives the label and duration of an executed query.
// Repositories call it when one is installed; the metrics service supplies
// the implementation in main.
type QueryObserver func(label string, duration time.Duration)

// uniqueViolation is the PostgreSQL error code raised on unique constraint
// conflicts. Get-or-create paths use it to detect a concurrent first insert
// and recover by re-fetching.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a PostgreSQL duplicate-key error.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}
