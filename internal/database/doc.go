// Package database provides SQLite-based storage of analysis reports.
//
// Every scan saved with HistoryDB becomes one record keyed by a random
// UUID and indexed by page URL, so the history of a page can be listed,
// compared and cleared. The database is a single file, by default in the
// XDG data directory, opened through the CGO-free modernc.org/sqlite
// driver.
package database
