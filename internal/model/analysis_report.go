package model

// LocatedIssueGroup holds the issues found in one text segment together
// with the segment's structural locator. A group is never empty.
type LocatedIssueGroup struct {
	// Path is the locator of the element that owns the segment,
	// e.g. "body > div#main > p.intro".
	Path string `json:"path"`

	// Issues lists local findings first, then remote findings.
	Issues []Issue `json:"issues"`

	// Context tells where the segment was found.
	Context GroupContext `json:"context"`

	// Segment is the checked text. Locators repeat across sibling
	// elements, so history diffs use it to tell groups apart.
	Segment string `json:"segment,omitempty"`
}

// Location returns the path followed by the context description,
// the form used by every textual writer.
func (g LocatedIssueGroup) Location() string {
	return g.Path + g.Context.Description
}

// AnalysisReport is the result of analysing one page.
type AnalysisReport struct {
	// URL identifies the analysed page. For local files it is a file:// URL.
	URL string `json:"url"`

	// Title is the page title if the document had one.
	Title string `json:"title,omitempty"`

	// Language is the variant used for grammar checking.
	Language Language `json:"language"`

	// Groups follows the extraction order of the segments.
	Groups []LocatedIssueGroup `json:"groups"`
}

// LocatedIssue is an Issue flattened together with its group's location.
// Writers use it to list issues by kind.
type LocatedIssue struct {
	Issue
	Path    string      `json:"path"`
	Context ContextKind `json:"context"`
	Segment string      `json:"segment,omitempty"`
}

// Location returns the path followed by the context description.
func (li LocatedIssue) Location() string {
	return li.Path + li.Context.Description()
}

// KindCount is the number of issues of one kind.
type KindCount struct {
	Kind  IssueKind `json:"type"`
	Count int       `json:"count"`
}

// IssueCount returns the total number of issues in the report.
func (r *AnalysisReport) IssueCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, g := range r.Groups {
		n += len(g.Issues)
	}
	return n
}

// Summary counts issues per kind. Kinds with no issues are omitted and
// the result follows IssueKinds order, with unknown kinds last.
func (r *AnalysisReport) Summary() []KindCount {
	if r == nil {
		return nil
	}

	counts := make(map[IssueKind]int)
	var extra []IssueKind
	for _, g := range r.Groups {
		for _, is := range g.Issues {
			if _, seen := counts[is.Kind]; !seen && !is.Kind.Valid() {
				extra = append(extra, is.Kind)
			}
			counts[is.Kind]++
		}
	}

	var out []KindCount
	for _, k := range append(IssueKinds(), extra...) {
		if counts[k] > 0 {
			out = append(out, KindCount{Kind: k, Count: counts[k]})
		}
	}
	return out
}

// IssuesByKind returns every issue of the given kind in report order.
func (r *AnalysisReport) IssuesByKind(kind IssueKind) []LocatedIssue {
	if r == nil {
		return nil
	}
	var out []LocatedIssue
	for _, g := range r.Groups {
		for _, is := range g.Issues {
			if is.Kind == kind {
				out = append(out, g.locate(is))
			}
		}
	}
	return out
}

func (g LocatedIssueGroup) locate(is Issue) LocatedIssue {
	return LocatedIssue{Issue: is, Path: g.Path, Context: g.Context.Kind, Segment: g.Segment}
}
