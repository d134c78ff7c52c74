package repository

import "strings"

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation. Matched on the message so it works against both real pgx
// errors (SQLSTATE 23505) and the mock driver used in tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "unique") ||
		strings.Contains(msg, "duplicate key")
}
