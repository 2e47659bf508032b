package grammar

import "unicode/utf16"

// Match is one finding returned by the grammar service.
// Offset and Length count UTF-16 code units of the checked text.
type Match struct {
	Message      string        `json:"message"`
	ShortMessage string        `json:"shortMessage,omitempty"`
	Offset       int           `json:"offset"`
	Length       int           `json:"length"`
	Replacements []Replacement `json:"replacements"`
	Context      MatchContext  `json:"context"`
	Rule         Rule          `json:"rule"`
}

// Replacement is a suggested replacement for the matched text.
type Replacement struct {
	Value string `json:"value"`
}

// MatchContext is a window of the checked text around the match.
// Offset and Length locate the match inside Text in UTF-16 code units.
type MatchContext struct {
	Text   string `json:"text"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
}

// Rule describes the rule that produced a match.
type Rule struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	IssueType   string   `json:"issueType,omitempty"`
	Category    Category `json:"category"`
}

// Category groups rules.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// checkResponse is the body of a successful check call.
type checkResponse struct {
	Matches []Match `json:"matches"`
}

// Suggestion returns the first replacement, or "" if there is none.
func (m Match) Suggestion() string {
	if len(m.Replacements) == 0 {
		return ""
	}
	return m.Replacements[0].Value
}

// MatchedText returns the flagged text as found in the context window.
// It returns false when the window does not contain the span it describes.
func (m Match) MatchedText() (string, bool) {
	units := utf16.Encode([]rune(m.Context.Text))
	start, end := m.Context.Offset, m.Context.Offset+m.Context.Length
	if start < 0 || end > len(units) || start > end {
		return "", false
	}
	return string(utf16.Decode(units[start:end])), true
}
