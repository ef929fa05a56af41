package repository

import (
	"database/sql"
	"strconv"
)

// nullIfEmpty maps an optional date/text field to NULL instead of the empty
// string, so DATE columns don't reject "".
func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func itoa(n int) string { return strconv.Itoa(n) }
