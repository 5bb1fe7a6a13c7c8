package store

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a row does not exist. Callers decide whether
// to surface it or translate it into an access-safe response.
var ErrNotFound = errors.New("record not found")

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation. Upsert-style writes treat it as "row already existed".
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
