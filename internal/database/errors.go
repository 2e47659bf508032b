package database

import "errors"

var (
	// ErrReportNotFound is returned when no stored report matches the query.
	ErrReportNotFound = errors.New("report not found")

	// ErrDatabaseNotFound is returned by Open when the database file does
	// not exist and creation was not requested.
	ErrDatabaseNotFound = errors.New("database not found")
)
