package sqlite

import (
	"errors"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

// sqliteCode returns the extended result code carried by a SQLite driver
// error, or 0 if err did not come from the driver.
func sqliteCode(err error) int {
	var serr *msqlite.Error
	if errors.As(err, &serr) {
		return serr.Code()
	}
	return 0
}

// uniqueViolation reports whether err is a UNIQUE constraint failure on the
// given "table.column".
func uniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	if sqliteCode(err) != sqlitelib.SQLITE_CONSTRAINT_UNIQUE && !strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return false
	}
	return strings.Contains(err.Error(), column)
}

func foreignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return sqliteCode(err) == sqlitelib.SQLITE_CONSTRAINT_FOREIGNKEY ||
		strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
