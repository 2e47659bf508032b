package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/copychecker/internal/model"
)

// FileName is the name of the database file inside the database directory.
const FileName = "copychecker.db"

// timestampLayout is fixed width so that stored timestamps sort as text.
const timestampLayout = "2006-01-02 15:04:05.000000000"

// HistoryDB stores analysis reports in SQLite.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// newID generates record ids.
	newID func() string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// Otherwise a missing database yields ErrDatabaseNotFound.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	var dsn string
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?mode=rwc"
	} else {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
		newID:  func() string { return uuid.NewString() },
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		url TEXT NOT NULL,
		title TEXT,
		language TEXT NOT NULL,
		scanned_at TEXT NOT NULL,
		issue_count INTEGER NOT NULL,
		summary TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_url ON reports(url);
	CREATE INDEX IF NOT EXISTS idx_reports_scanned_at ON reports(scanned_at);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// Metadata summarises a stored report without its issues.
type Metadata struct {
	// ID is the record id.
	ID string `json:"id"`

	// URL is the analysed page.
	URL string `json:"url"`

	// Title is the page title.
	Title string `json:"title,omitempty"`

	// Language is the variant the page was checked in.
	Language model.Language `json:"language"`

	// ScannedAt is when the scan started, in UTC.
	ScannedAt time.Time `json:"scanned_at"`

	// IssueCount is the total number of issues.
	IssueCount int `json:"issue_count"`

	// Summary is the number of issues per kind.
	Summary map[model.IssueKind]int `json:"summary"`
}

// Record is a stored report with its metadata.
type Record struct {
	Metadata
	Report *model.AnalysisReport `json:"report"`
}

// PageSummary describes the stored history of one page.
type PageSummary struct {
	URL         string    `json:"url"`
	Reports     int       `json:"reports"`
	LastScanned time.Time `json:"last_scanned"`
}

// SaveReport stores report and returns the new record id.
func (h *HistoryDB) SaveReport(ctx context.Context, report *model.AnalysisReport, scannedAt time.Time) (string, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}

	summary := make(map[model.IssueKind]int)
	for _, kc := range report.Summary() {
		summary[kc.Kind] = kc.Count
	}
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("failed to serialize summary: %w", err)
	}

	id := h.newID()
	query := `
	INSERT INTO reports (id, url, title, language, scanned_at, issue_count, summary, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = h.db.ExecContext(ctx, query,
		id,
		report.URL,
		report.Title,
		string(report.Language),
		scannedAt.UTC().Format(timestampLayout),
		report.IssueCount(),
		string(summaryJSON),
		string(reportJSON),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	return id, nil
}

// recordColumns is the column list scanned by scanRecord.
const recordColumns = `id, url, title, language, scanned_at, issue_count, summary, report_json`

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord reads one row selected with recordColumns.
func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec        Record
		title      sql.NullString
		language   string
		scannedAt  string
		summary    sql.NullString
		reportJSON string
	)
	if err := row.Scan(&rec.ID, &rec.URL, &title, &language, &scannedAt, &rec.IssueCount, &summary, &reportJSON); err != nil {
		return nil, err
	}

	rec.Title = title.String
	rec.Language = model.Language(language)
	rec.ScannedAt = parseTimestamp(scannedAt)
	rec.Summary = parseSummary(summary)

	var report model.AnalysisReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", rec.ID, err)
	}
	rec.Report = &report

	return &rec, nil
}

// LatestReport returns the most recent report of url.
func (h *HistoryDB) LatestReport(ctx context.Context, url string) (*Record, error) {
	records, err := h.RecentReports(ctx, url, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrReportNotFound, url)
	}
	return records[0], nil
}

// RecentReports returns up to limit reports of url, newest first.
func (h *HistoryDB) RecentReports(ctx context.Context, url string, limit int) ([]*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM reports
	WHERE url = ?
	ORDER BY scanned_at DESC, seq DESC
	LIMIT ?
	`

	rows, err := h.db.QueryContext(ctx, query, url, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get reports: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetReport returns the report with the given id.
func (h *HistoryDB) GetReport(ctx context.Context, id string) (*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM reports WHERE id = ?`

	rec, err := scanRecord(h.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return rec, nil
}

// History returns the metadata of every report of url, newest first.
// This is cheaper than loading the reports themselves.
func (h *HistoryDB) History(ctx context.Context, url string) ([]Metadata, error) {
	query := `
	SELECT id, url, title, language, scanned_at, issue_count, summary
	FROM reports
	WHERE url = ?
	ORDER BY scanned_at DESC, seq DESC
	`

	rows, err := h.db.QueryContext(ctx, query, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var results []Metadata
	for rows.Next() {
		var (
			meta      Metadata
			title     sql.NullString
			language  string
			scannedAt string
			summary   sql.NullString
		)
		if err := rows.Scan(&meta.ID, &meta.URL, &title, &language, &scannedAt, &meta.IssueCount, &summary); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		meta.Title = title.String
		meta.Language = model.Language(language)
		meta.ScannedAt = parseTimestamp(scannedAt)
		meta.Summary = parseSummary(summary)

		results = append(results, meta)
	}

	return results, rows.Err()
}

// ListPages returns every page with stored reports, ordered by URL.
func (h *HistoryDB) ListPages(ctx context.Context) ([]PageSummary, error) {
	query := `
	SELECT url, COUNT(*), MAX(scanned_at)
	FROM reports
	GROUP BY url
	ORDER BY url
	`

	rows, err := h.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	var pages []PageSummary
	for rows.Next() {
		var (
			p    PageSummary
			last string
		)
		if err := rows.Scan(&p.URL, &p.Reports, &last); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		p.LastScanned = parseTimestamp(last)
		pages = append(pages, p)
	}

	return pages, rows.Err()
}

// DeletePage removes every report of url and returns how many were removed.
func (h *HistoryDB) DeletePage(ctx context.Context, url string) (int64, error) {
	res, err := h.db.ExecContext(ctx, `DELETE FROM reports WHERE url = ?`, url)
	if err != nil {
		return 0, fmt.Errorf("failed to delete reports: %w", err)
	}
	return res.RowsAffected()
}

// parseSummary decodes a stored per-kind summary. Malformed or missing
// summaries yield an empty map.
func parseSummary(s sql.NullString) map[model.IssueKind]int {
	summary := make(map[model.IssueKind]int)
	if s.Valid && s.String != "" {
		if err := json.Unmarshal([]byte(s.String), &summary); err != nil {
			return make(map[model.IssueKind]int)
		}
	}
	return summary
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampLayout,
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

// parseTimestamp parses a stored timestamp as UTC.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
