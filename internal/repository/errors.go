package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsNotFound reports a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports a unique constraint violation, whether or not the
// dialect translated it to gorm.ErrDuplicatedKey.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505")
}

// likePattern builds a case-insensitive LIKE pattern for LOWER(column) LIKE ?.
func likePattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(strings.TrimSpace(search))) + "%"
}

// monthOf returns a SQL expression extracting the month (1-12) of a date column.
func monthOf(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "sqlite" {
		return "CAST(strftime('%m', substr(" + column + ", 1, 10)) AS INTEGER)"
	}
	return "EXTRACT(MONTH FROM " + column + ")"
}
