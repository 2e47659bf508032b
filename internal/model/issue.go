package model

// IssueKind classifies an Issue by the detector family that produced it.
type IssueKind string

const (
	// KindDoubleSpace marks a run of two or more whitespace characters.
	// Produced by the local detector.
	KindDoubleSpace IssueKind = "double_space"

	// KindSpelling marks spelling and grammar findings of the remote checker.
	KindSpelling IssueKind = "spelling"

	// KindHomophone is reserved for homophone findings. No detector
	// produces it yet, but writers and the history store accept it.
	KindHomophone IssueKind = "homophone"
)

// IssueKinds returns every kind in presentation order.
func IssueKinds() []IssueKind {
	return []IssueKind{KindDoubleSpace, KindSpelling, KindHomophone}
}

// Valid reports whether k is one of the known kinds.
func (k IssueKind) Valid() bool {
	switch k {
	case KindDoubleSpace, KindSpelling, KindHomophone:
		return true
	default:
		return false
	}
}

// Issue is a single writing-quality defect.
//
// Offset and Length are counted in Unicode code points and always index
// the text of the segment the issue belongs to, even when the remote
// checker was given the surrounding block text.
type Issue struct {
	// Kind is the detector family.
	Kind IssueKind `json:"type"`

	// Text is the flagged text.
	Text string `json:"text"`

	// Suggestion is the proposed replacement, possibly empty.
	Suggestion string `json:"suggestion"`

	// Offset is the code point offset of Text in the segment.
	Offset int `json:"index"`

	// Length is the code point length of the flagged span.
	Length int `json:"length"`

	// Message explains the issue.
	Message string `json:"message"`

	// Rule is the description of the rule that fired.
	Rule string `json:"rule"`
}
