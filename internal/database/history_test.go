package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/copychecker/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// sampleReport returns a report of url with n double spaces and one
// spelling issue.
func sampleReport(url string, n int) *model.AnalysisReport {
	issues := []model.Issue{{Kind: model.KindSpelling, Text: "teh", Suggestion: "the", Offset: 0, Length: 3}}
	for range n {
		issues = append(issues, model.Issue{Kind: model.KindDoubleSpace, Text: "  ", Suggestion: " ", Length: 2})
	}
	return &model.AnalysisReport{
		URL:      url,
		Title:    "Sample",
		Language: model.LanguageUK,
		Groups: []model.LocatedIssueGroup{{
			Path:    "html > body > p",
			Issues:  issues,
			Context: model.NewGroupContext(model.ContextStandard),
		}},
	}
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); err != nil {
			t.Errorf("database file was not created: %v", err)
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("unexpected path %q", db.Path())
		}
	})

	t.Run("missing database without create", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if !errors.Is(err, ErrDatabaseNotFound) {
			t.Errorf("expected ErrDatabaseNotFound, got %v", err)
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		if _, err := db.SaveReport(context.Background(), sampleReport("https://example.com/", 1), time.Now()); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		_ = db.Close()

		db, err = Open(dir, Options{CreateIfNotExists: false})
		if err != nil {
			t.Fatalf("failed to reopen: %v", err)
		}
		defer db.Close()

		pages, err := db.ListPages(context.Background())
		if err != nil {
			t.Fatalf("failed to list pages: %v", err)
		}
		if len(pages) != 1 {
			t.Errorf("expected 1 page after reopening, got %d", len(pages))
		}
	})
}

// TestSaveAndGetReport tests the round trip of a report.
func TestSaveAndGetReport(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	scannedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	id, err := db.SaveReport(ctx, sampleReport("https://example.com/", 2), scannedAt)
	if err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if len(id) != 36 {
		t.Errorf("expected a UUID id, got %q", id)
	}

	rec, err := db.GetReport(ctx, id)
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if rec.URL != "https://example.com/" || rec.Title != "Sample" || rec.Language != model.LanguageUK {
		t.Errorf("unexpected metadata %+v", rec.Metadata)
	}
	if !rec.ScannedAt.Equal(scannedAt) {
		t.Errorf("expected %v, got %v", scannedAt, rec.ScannedAt)
	}
	if rec.IssueCount != 3 || rec.Summary[model.KindDoubleSpace] != 2 || rec.Summary[model.KindSpelling] != 1 {
		t.Errorf("unexpected counts %d %v", rec.IssueCount, rec.Summary)
	}
	if rec.Report.IssueCount() != 3 || rec.Report.Groups[0].Issues[0].Suggestion != "the" {
		t.Errorf("unexpected report %+v", rec.Report)
	}

	if _, err := db.GetReport(ctx, "no-such-id"); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("expected ErrReportNotFound, got %v", err)
	}
}

// TestHistory tests ordering of the history of a page.
func TestHistory(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// saved out of order
	for i, n := range []int{1, 3, 2} {
		offset := []time.Duration{time.Hour, 3 * time.Hour, 2 * time.Hour}[i]
		if _, err := db.SaveReport(ctx, sampleReport("https://example.com/", n), base.Add(offset)); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
	}
	if _, err := db.SaveReport(ctx, sampleReport("https://other.example/", 0), base); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	history, err := db.History(ctx, "https://example.com/")
	if err != nil {
		t.Fatalf("failed to get history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(history))
	}
	for i, want := range []int{4, 3, 2} {
		if history[i].IssueCount != want {
			t.Errorf("entry %d: expected %d issues, got %d", i, want, history[i].IssueCount)
		}
	}

	latest, err := db.LatestReport(ctx, "https://example.com/")
	if err != nil {
		t.Fatalf("failed to get latest: %v", err)
	}
	if latest.ID != history[0].ID {
		t.Errorf("expected latest %s, got %s", history[0].ID, latest.ID)
	}

	recent, err := db.RecentReports(ctx, "https://example.com/", 2)
	if err != nil {
		t.Fatalf("failed to get recent reports: %v", err)
	}
	if len(recent) != 2 || recent[1].ID != history[1].ID {
		t.Errorf("unexpected recent reports %+v", recent)
	}

	if _, err := db.LatestReport(ctx, "https://unknown.example/"); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("expected ErrReportNotFound, got %v", err)
	}
}

// TestListAndDeletePages tests page listing and deletion.
func TestListAndDeletePages(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now()

	for _, url := range []string{"https://b.example/", "https://a.example/", "https://b.example/"} {
		if _, err := db.SaveReport(ctx, sampleReport(url, 0), now); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
	}

	pages, err := db.ListPages(ctx)
	if err != nil {
		t.Fatalf("failed to list pages: %v", err)
	}
	if len(pages) != 2 || pages[0].URL != "https://a.example/" || pages[1].Reports != 2 {
		t.Fatalf("unexpected pages %+v", pages)
	}
	if pages[1].LastScanned.IsZero() {
		t.Error("expected last scan time")
	}

	n, err := db.DeletePage(ctx, "https://b.example/")
	if err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 deleted reports, got %d", n)
	}

	pages, err = db.ListPages(ctx)
	if err != nil {
		t.Fatalf("failed to list pages: %v", err)
	}
	if len(pages) != 1 {
		t.Errorf("expected 1 page left, got %d", len(pages))
	}
}

// TestParseTimestamp tests the supported timestamp formats.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	want := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []string{
		"2025-01-02 03:04:05.000000000",
		"2025-01-02 03:04:05",
		"2025-01-02T03:04:05Z",
	}
	for _, in := range tests {
		if got := parseTimestamp(in); !got.Equal(want) {
			t.Errorf("parseTimestamp(%q) = %v, want %v", in, got, want)
		}
	}
	if got := parseTimestamp("yesterday"); !got.IsZero() {
		t.Errorf("expected zero time, got %v", got)
	}
}
