package grammar

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// sentenceStartRuleID is the LanguageTool rule that asks for a capital
// letter at the start of a sentence.
const sentenceStartRuleID = "UPPERCASE_SENTENCE_START"

// sentenceTerminators end a sentence.
const sentenceTerminators = ".!?"

// isWhitespaceMatch reports whether a match is about whitespace or
// typography. Such matches overlap the local double-space detector.
func isWhitespaceMatch(m Match) bool {
	fields := []string{m.Rule.ID, m.Message, m.Rule.Description, m.Rule.Category.ID, m.Rule.Category.Name}
	for _, f := range fields {
		f = strings.ToLower(f)
		if strings.Contains(f, "whitespace") || strings.Contains(f, "typography") {
			return true
		}
	}
	return false
}

// isSentenceStartMatch reports whether a match asks for a capital letter at
// the start of a sentence.
func isSentenceStartMatch(m Match) bool {
	if strings.EqualFold(m.Rule.ID, sentenceStartRuleID) {
		return true
	}
	msg := strings.ToLower(m.Message)
	if !strings.Contains(msg, "sentence") {
		return false
	}
	return strings.Contains(msg, "capital") || strings.Contains(msg, "uppercase")
}

// startsSentence reports whether the code point at offset begins a
// sentence: the text before it, with trailing whitespace removed, is empty
// or ends in a sentence terminator.
func startsSentence(runes []rune, offset int) bool {
	offset = min(max(offset, 0), len(runes))
	before := strings.TrimRightFunc(string(runes[:offset]), unicode.IsSpace)
	if before == "" {
		return true
	}
	last, _ := utf8.DecodeLastRuneInString(before)
	return strings.ContainsRune(sentenceTerminators, last)
}
