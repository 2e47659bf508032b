package report

import "github.com/nao1215/copychecker/internal/model"

// kindLabels maps an issue kind to its singular and group display strings.
var kindLabels = map[model.IssueKind]struct{ single, group string }{
	model.KindDoubleSpace: {single: "Double Space", group: "Double Spaces"},
	model.KindSpelling:    {single: "Spelling/Grammar", group: "Spelling and Grammar Issues"},
	model.KindHomophone:   {single: "Grammar/Homophone", group: "Grammar/Homophone Issues"},
}

// Label returns the display name of a single issue of kind k.
// Unknown kinds are returned as is.
func Label(k model.IssueKind) string {
	if l, ok := kindLabels[k]; ok {
		return l.single
	}
	return string(k)
}

// GroupLabel returns the display name of a list of issues of kind k.
// Unknown kinds are returned as is.
func GroupLabel(k model.IssueKind) string {
	if l, ok := kindLabels[k]; ok {
		return l.group
	}
	return string(k)
}
