package model

import (
	"errors"
	"testing"
)

// TestIssueKindValid tests the known kinds.
func TestIssueKindValid(t *testing.T) {
	t.Parallel()

	for _, k := range IssueKinds() {
		if !k.Valid() {
			t.Errorf("expected %q to be valid", k)
		}
	}
	if IssueKind("style").Valid() {
		t.Error("expected unknown kind to be invalid")
	}
}

// TestContextKindDescription tests the description suffix of each context kind.
func TestContextKindDescription(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		kind     ContextKind
		expected string
	}{
		{ContextStandard, ""},
		{ContextIframe, " (found in iframe)"},
		{ContextShadowDOM, " (found in shadow DOM)"},
		{ContextHidden, " (found in hidden element)"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.kind), func(t *testing.T) {
			t.Parallel()
			if got := tc.kind.Description(); got != tc.expected {
				t.Errorf("got %q, expected %q", got, tc.expected)
			}
			if got := NewGroupContext(tc.kind).Description; got != tc.expected {
				t.Errorf("NewGroupContext: got %q, expected %q", got, tc.expected)
			}
		})
	}
}

// TestParseLanguage tests language selector parsing and locale mapping.
func TestParseLanguage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected Language
		locale   string
	}{
		{"UK", LanguageUK, "en-GB"},
		{"uk", LanguageUK, "en-GB"},
		{"en-GB", LanguageUK, "en-GB"},
		{"US", LanguageUS, "en-US"},
		{" us ", LanguageUS, "en-US"},
		{"en-us", LanguageUS, "en-US"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLanguage(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("got %q, expected %q", got, tc.expected)
			}
			if got.Code() != tc.locale {
				t.Errorf("got locale %q, expected %q", got.Code(), tc.locale)
			}
		})
	}

	t.Run("unknown selector", func(t *testing.T) {
		t.Parallel()
		_, err := ParseLanguage("FR")
		if !errors.Is(err, ErrUnknownLanguage) {
			t.Errorf("expected ErrUnknownLanguage, got %v", err)
		}
	})

	t.Run("zero value checks as American English", func(t *testing.T) {
		t.Parallel()
		if got := Language("").Code(); got != "en-US" {
			t.Errorf("expected en-US, got %q", got)
		}
	})
}

// TestAnalysisReportSummary tests issue counting and per-kind flattening.
func TestAnalysisReportSummary(t *testing.T) {
	t.Parallel()

	report := &AnalysisReport{
		URL:      "https://example.com/",
		Language: LanguageUK,
		Groups: []LocatedIssueGroup{
			{
				Path: "body > p",
				Issues: []Issue{
					{Kind: KindDoubleSpace, Text: "  ", Suggestion: " ", Offset: 4, Length: 2},
					{Kind: KindSpelling, Text: "teh", Suggestion: "the", Offset: 0, Length: 3},
				},
				Context: NewGroupContext(ContextStandard),
			},
			{
				Path:    "div#frame > p",
				Issues:  []Issue{{Kind: KindDoubleSpace, Text: "  ", Offset: 1, Length: 2}},
				Context: NewGroupContext(ContextIframe),
			},
		},
	}

	if got := report.IssueCount(); got != 3 {
		t.Errorf("expected 3 issues, got %d", got)
	}

	summary := report.Summary()
	if len(summary) != 2 {
		t.Fatalf("expected 2 summary entries, got %d", len(summary))
	}
	if summary[0].Kind != KindDoubleSpace || summary[0].Count != 2 {
		t.Errorf("expected double_space=2 first, got %+v", summary[0])
	}
	if summary[1].Kind != KindSpelling || summary[1].Count != 1 {
		t.Errorf("expected spelling=1 second, got %+v", summary[1])
	}

	spaces := report.IssuesByKind(KindDoubleSpace)
	if len(spaces) != 2 {
		t.Fatalf("expected 2 double space issues, got %d", len(spaces))
	}
	if got := spaces[1].Location(); got != "div#frame > p (found in iframe)" {
		t.Errorf("unexpected location: %q", got)
	}

	t.Run("nil report", func(t *testing.T) {
		t.Parallel()
		var r *AnalysisReport
		if r.IssueCount() != 0 || r.Summary() != nil || r.IssuesByKind(KindSpelling) != nil {
			t.Error("expected nil report to be empty")
		}
	})
}
