// Package grammar checks text against a LanguageTool compatible grammar
// service and turns its matches into issues anchored in a text segment.
//
// Client speaks the service's minimal contract: a form encoded POST of the
// text and language, answered by a JSON list of matches. Checker sits on top
// of any Service and owns everything copychecker adds:
//   - whitespace and typography matches are discarded, the local
//     double-space detector owns that class of problem
//   - "sentence should start with a capital" matches are kept only when the
//     flagged text really starts a sentence
//   - offsets are converted from the service's UTF-16 code units into code
//     points and re-anchored from the block text to the segment
//   - every call has its own timeout and a failing call yields no issues
//
// # Usage
//
//	client := grammar.NewClient(grammar.DefaultEndpoint, grammar.WithRateLimit(20))
//	checker := grammar.NewChecker(client, grammar.WithCheckTimeout(15*time.Second))
//	issues := checker.Check(ctx, segment, model.LanguageUK)
package grammar
