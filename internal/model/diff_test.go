package model

import "testing"

func TestDiffReports(t *testing.T) {
	t.Parallel()

	group := func(path string, texts ...string) LocatedIssueGroup {
		g := LocatedIssueGroup{Path: path, Context: NewGroupContext(ContextStandard)}
		for _, text := range texts {
			g.Issues = append(g.Issues, Issue{Kind: KindSpelling, Text: text})
		}
		return g
	}

	older := &AnalysisReport{Groups: []LocatedIssueGroup{
		group("body > p", "teh", "recieve"),
		group("body > h1", "wrold"),
	}}
	newer := &AnalysisReport{Groups: []LocatedIssueGroup{
		group("body > p", "teh", "teh"),
		group("body > h1", "wrold"),
	}}

	t.Run("added and resolved", func(t *testing.T) {
		t.Parallel()

		d := DiffReports(older, newer)
		if !d.Changed() {
			t.Fatal("expected a change")
		}
		if len(d.Added) != 1 || d.Added[0].Text != "teh" {
			t.Errorf("unexpected added %+v", d.Added)
		}
		if len(d.Resolved) != 1 || d.Resolved[0].Text != "recieve" {
			t.Errorf("unexpected resolved %+v", d.Resolved)
		}
	})

	t.Run("identical reports", func(t *testing.T) {
		t.Parallel()

		if d := DiffReports(newer, newer); d.Changed() {
			t.Errorf("expected no change, got %+v", d)
		}
	})

	t.Run("nil older report", func(t *testing.T) {
		t.Parallel()

		d := DiffReports(nil, newer)
		if len(d.Added) != 3 || len(d.Resolved) != 0 {
			t.Errorf("unexpected diff %+v", d)
		}
	})
}

// TestDiffReports_SharedLocator tests paragraphs that share a locator.
func TestDiffReports_SharedLocator(t *testing.T) {
	t.Parallel()

	paragraph := func(segment string, offset int) LocatedIssueGroup {
		return LocatedIssueGroup{
			Path:    "html > body > p",
			Context: NewGroupContext(ContextStandard),
			Segment: segment,
			Issues:  []Issue{{Kind: KindDoubleSpace, Text: "  ", Offset: offset, Length: 2}},
		}
	}

	older := &AnalysisReport{Groups: []LocatedIssueGroup{
		paragraph("This  is a test.", 4),
		paragraph("Second  line.", 6),
	}}
	newer := &AnalysisReport{Groups: []LocatedIssueGroup{
		paragraph("Second  line.", 6),
		paragraph("New  text.", 3),
	}}

	d := DiffReports(older, newer)
	if len(d.Added) != 1 || d.Added[0].Segment != "New  text." {
		t.Errorf("unexpected added %+v", d.Added)
	}
	if len(d.Resolved) != 1 || d.Resolved[0].Segment != "This  is a test." {
		t.Errorf("unexpected resolved %+v", d.Resolved)
	}
}
