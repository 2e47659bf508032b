package model

// ReportDiff lists the issues that appeared or disappeared between two
// reports of the same page.
type ReportDiff struct {
	// Added are issues of the newer report missing from the older one.
	Added []LocatedIssue `json:"added"`

	// Resolved are issues of the older report missing from the newer one.
	Resolved []LocatedIssue `json:"resolved"`
}

// Changed reports whether the diff is non-empty.
func (d ReportDiff) Changed() bool {
	return len(d.Added) > 0 || len(d.Resolved) > 0
}

// issueKey identifies an issue across scans. The segment text separates
// sibling elements that share a locator. Offsets are left out because
// they add nothing once the segment is known.
type issueKey struct {
	kind    IssueKind
	path    string
	context ContextKind
	segment string
	text    string
}

// DiffReports compares older with newer. Identical issues are matched as
// a multiset, so a second occurrence of the same defect counts as added.
// Either report may be nil.
func DiffReports(older, newer *AnalysisReport) ReportDiff {
	oldIssues := older.locatedIssues()
	newIssues := newer.locatedIssues()

	diff := ReportDiff{
		Added:    unmatched(newIssues, oldIssues),
		Resolved: unmatched(oldIssues, newIssues),
	}
	return diff
}

// unmatched returns the issues of a that have no counterpart in b.
func unmatched(a, b []LocatedIssue) []LocatedIssue {
	remaining := make(map[issueKey]int)
	for _, li := range b {
		remaining[li.key()]++
	}

	out := make([]LocatedIssue, 0)
	for _, li := range a {
		k := li.key()
		if remaining[k] > 0 {
			remaining[k]--
			continue
		}
		out = append(out, li)
	}
	return out
}

func (li LocatedIssue) key() issueKey {
	return issueKey{kind: li.Kind, path: li.Path, context: li.Context, segment: li.Segment, text: li.Text}
}

// locatedIssues flattens the report in group order.
func (r *AnalysisReport) locatedIssues() []LocatedIssue {
	if r == nil {
		return nil
	}
	var out []LocatedIssue
	for _, g := range r.Groups {
		for _, is := range g.Issues {
			out = append(out, g.locate(is))
		}
	}
	return out
}
