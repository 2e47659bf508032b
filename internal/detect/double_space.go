package detect

import (
	"regexp"
	"unicode/utf8"

	"github.com/nao1215/copychecker/internal/model"
)

// whitespaceRun matches two or more consecutive whitespace characters:
// ASCII whitespace, Unicode space separators, line and paragraph
// separators and the byte order mark.
var whitespaceRun = regexp.MustCompile(`[\t\n\v\f\r\p{Zs}\x{2028}\x{2029}\x{FEFF}]{2,}`)

const (
	doubleSpaceMessage = "Double space detected"
	doubleSpaceRule    = "Double Space"
)

// DoubleSpace returns one issue per maximal run of two or more whitespace
// characters in text, in order of occurrence. It is a pure function.
func DoubleSpace(text string) []model.Issue {
	locs := whitespaceRun.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	issues := make([]model.Issue, 0, len(locs))
	for _, loc := range locs {
		match := text[loc[0]:loc[1]]
		issues = append(issues, model.Issue{
			Kind:       model.KindDoubleSpace,
			Text:       match,
			Suggestion: " ",
			Offset:     utf8.RuneCountInString(text[:loc[0]]),
			Length:     utf8.RuneCountInString(match),
			Message:    doubleSpaceMessage,
			Rule:       doubleSpaceRule,
		})
	}
	return issues
}

// Detector adapts DoubleSpace to the detector interface used by the analyzer.
type Detector struct{}

// NewDetector returns the local double-space detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect runs DoubleSpace on text.
func (*Detector) Detect(text string) []model.Issue {
	return DoubleSpace(text)
}

// Name returns the detector name used in logs.
func (*Detector) Name() string {
	return "double-space"
}
