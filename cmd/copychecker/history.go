package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/copychecker/internal/config"
	"github.com/nao1215/copychecker/internal/database"
	"github.com/nao1215/copychecker/internal/model"
	"github.com/nao1215/copychecker/internal/page"
	"github.com/nao1215/copychecker/internal/report"
)

// dateLayout is how scan times are printed.
const dateLayout = "2006-01-02 15:04:05"

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url|file]",
		Short: "Show, compare and clear stored reports",
		Long: `History works with the reports saved by 'copychecker scan'.

Without flags it lists the stored reports of a page. With --diff it shows
the issues that appeared or were fixed between the latest two scans.

Examples:
  # List the stored reports of a page
  copychecker history https://www.example.com/

  # Show what changed since the previous scan
  copychecker history --diff https://www.example.com/

  # Show one stored report
  copychecker history --show 3f2c9a0e-...

  # List every page with stored reports
  copychecker history --list-pages

  # Delete the history of a page
  copychecker history --clear https://www.example.com/`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-pages", "L", false,
		"List all pages with stored reports")
	cmd.Flags().StringP("show", "s", "",
		"Show the stored report with the given ID")
	cmd.Flags().BoolP("diff", "d", false,
		"Compare the latest two reports of the page")
	cmd.Flags().Bool("clear", false,
		"Delete all stored reports of the page")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().String("db-dir", "",
		"Directory of the history database (default: XDG data directory)")

	cmd.MarkFlagsMutuallyExclusive("list-pages", "show", "diff", "clear")

	return cmd
}

// historyOptions are the parsed flags of the history command.
type historyOptions struct {
	listPages bool
	showID    string
	diff      bool
	clear     bool
	json      bool
	dbDir     string
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	opts, err := parseHistoryFlags(cmd)
	if err != nil {
		return err
	}

	// Validate arguments before opening the database
	var pageURL string
	if !opts.listPages && opts.showID == "" {
		if len(args) == 0 {
			return errors.New("a page URL or file is required (use --list-pages to see stored pages)")
		}
		u, err := page.ParseTarget(args[0])
		if err != nil {
			return fmt.Errorf("invalid target: %w", err)
		}
		pageURL = u.String()
	}

	db, err := database.Open(opts.dbDir, database.Options{})
	if errors.Is(err, database.ErrDatabaseNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), "No reports stored yet.")
		fmt.Fprintln(cmd.OutOrStdout(), "\nUse 'copychecker scan <url>' to scan a page.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	switch {
	case opts.listPages:
		return listPages(ctx, out, db, opts.json)
	case opts.showID != "":
		return showReport(ctx, out, db, opts.showID, opts.json)
	case opts.diff:
		return diffLatest(ctx, out, db, pageURL, opts.json)
	case opts.clear:
		return clearPage(ctx, out, db, pageURL)
	default:
		return listHistory(ctx, out, db, pageURL, opts.json)
	}
}

// parseHistoryFlags reads the history flags. The database directory falls
// back to the configured one.
func parseHistoryFlags(cmd *cobra.Command) (historyOptions, error) {
	var (
		opts historyOptions
		err  error
	)
	flags := cmd.Flags()
	if opts.listPages, err = flags.GetBool("list-pages"); err != nil {
		return opts, err
	}
	if opts.showID, err = flags.GetString("show"); err != nil {
		return opts, err
	}
	if opts.diff, err = flags.GetBool("diff"); err != nil {
		return opts, err
	}
	if opts.clear, err = flags.GetBool("clear"); err != nil {
		return opts, err
	}
	if opts.json, err = flags.GetBool("json"); err != nil {
		return opts, err
	}
	if opts.dbDir, err = flags.GetString("db-dir"); err != nil {
		return opts, err
	}
	if opts.dbDir == "" {
		cfg, err := config.Load("")
		if err != nil {
			return opts, fmt.Errorf("failed to load configuration: %w", err)
		}
		opts.dbDir = cfg.DBDir
	}
	return opts, nil
}

// writeJSON writes v as indented JSON.
func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// listPages lists every page with stored reports.
func listPages(ctx context.Context, out io.Writer, db *database.HistoryDB, asJSON bool) error {
	pages, err := db.ListPages(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pages: %w", err)
	}

	if asJSON {
		return writeJSON(out, pages)
	}

	if len(pages) == 0 {
		fmt.Fprintln(out, "No pages found in the history.")
		fmt.Fprintln(out, "\nUse 'copychecker scan <url>' to scan a page.")
		return nil
	}

	fmt.Fprintf(out, "Scanned pages (%d):\n\n", len(pages))
	fmt.Fprintf(out, "  %-8s  %-20s  %s\n", "Reports", "Last scanned", "URL")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 60))
	for _, p := range pages {
		fmt.Fprintf(out, "  %-8d  %-20s  %s\n", p.Reports, p.LastScanned.Local().Format(dateLayout), p.URL)
	}
	fmt.Fprintln(out, "\nUse 'copychecker history <url>' to see the reports of a page.")

	return nil
}

// listHistory lists the stored reports of pageURL, newest first.
func listHistory(ctx context.Context, out io.Writer, db *database.HistoryDB, pageURL string, asJSON bool) error {
	history, err := db.History(ctx, pageURL)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if asJSON {
		return writeJSON(out, history)
	}

	if len(history) == 0 {
		fmt.Fprintf(out, "No reports found for %s\n", pageURL)
		fmt.Fprintln(out, "\nUse 'copychecker scan' to scan this page.")
		return nil
	}

	fmt.Fprintf(out, "Reports for %s (%d):\n\n", pageURL, len(history))
	fmt.Fprintf(out, "  %-36s  %-20s  %-8s  %s\n", "ID", "Date", "Language", "Issues")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 80))
	for _, meta := range history {
		fmt.Fprintf(out, "  %-36s  %-20s  %-8s  %s\n",
			meta.ID,
			meta.ScannedAt.Local().Format(dateLayout),
			meta.Language,
			formatSummary(meta.Summary),
		)
	}
	fmt.Fprintln(out, "\nUse 'copychecker history --diff <url>' to compare the latest two reports.")

	return nil
}

// formatSummary formats per-kind counts as "Double Spaces: 2, ...".
func formatSummary(summary map[model.IssueKind]int) string {
	var parts []string
	for _, kind := range model.IssueKinds() {
		if n := summary[kind]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", report.GroupLabel(kind), n))
		}
	}
	if len(parts) == 0 {
		return "No issues"
	}
	return strings.Join(parts, ", ")
}

// showReport prints one stored report.
func showReport(ctx context.Context, out io.Writer, db *database.HistoryDB, id string, asJSON bool) error {
	rec, err := db.GetReport(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get report %s: %w", id, err)
	}

	var writer report.Writer
	if asJSON {
		writer = report.NewFullJSONWriter(out, getVersion(), report.WithPrettyPrint())
	} else {
		writer = report.NewSimpleWriter(out, report.WithSimpleClock(func() time.Time { return rec.ScannedAt.Local() }))
	}
	_, err = writer.Write(rec.Report)
	return err
}

// clearPage deletes the stored reports of pageURL.
func clearPage(ctx context.Context, out io.Writer, db *database.HistoryDB, pageURL string) error {
	n, err := db.DeletePage(ctx, pageURL)
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	fmt.Fprintf(out, "Deleted %d report(s) for %s\n", n, pageURL)
	return nil
}

// diffResult is the JSON form of a comparison.
type diffResult struct {
	URL      string            `json:"url"`
	Previous database.Metadata `json:"previous"`
	Current  database.Metadata `json:"current"`
	model.ReportDiff
}

// diffLatest compares the latest two reports of pageURL.
func diffLatest(ctx context.Context, out io.Writer, db *database.HistoryDB, pageURL string, asJSON bool) error {
	records, err := db.RecentReports(ctx, pageURL, 2)
	if err != nil {
		return fmt.Errorf("failed to get reports: %w", err)
	}
	if len(records) < 2 {
		return fmt.Errorf("at least two reports of %s are needed for a comparison (found %d)", pageURL, len(records))
	}

	current, previous := records[0], records[1]
	result := diffResult{
		URL:        pageURL,
		Previous:   previous.Metadata,
		Current:    current.Metadata,
		ReportDiff: model.DiffReports(previous.Report, current.Report),
	}

	if asJSON {
		return writeJSON(out, result)
	}
	return writeDiffText(out, result)
}

// writeDiffText prints a comparison for humans.
func writeDiffText(out io.Writer, result diffResult) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Comparison for %s\n", result.URL)
	fmt.Fprintf(&sb, "  Previous: %s (%d issues)\n",
		result.Previous.ScannedAt.Local().Format(dateLayout), result.Previous.IssueCount)
	fmt.Fprintf(&sb, "  Current:  %s (%d issues)\n\n",
		result.Current.ScannedAt.Local().Format(dateLayout), result.Current.IssueCount)

	if !result.Changed() {
		sb.WriteString("No changes since the previous scan.\n")
		_, err := io.WriteString(out, sb.String())
		return err
	}

	writeDiffSection(&sb, "New issues", "+", result.Added)
	writeDiffSection(&sb, "Resolved issues", "-", result.Resolved)

	_, err := io.WriteString(out, sb.String())
	return err
}

// writeDiffSection prints one list of a comparison.
func writeDiffSection(sb *strings.Builder, title, marker string, issues []model.LocatedIssue) {
	fmt.Fprintf(sb, "%s (%d):\n", title, len(issues))
	for _, li := range issues {
		fmt.Fprintf(sb, "  %s [%s] %q at %s\n", marker, report.Label(li.Kind), li.Text, li.Location())
	}
	sb.WriteString("\n")
}
