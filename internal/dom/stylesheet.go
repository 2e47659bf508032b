package dom

import (
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/gorilla/css/scanner"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// declaration is a single "property: value" pair of a style rule.
type declaration struct {
	property  string
	value     string
	important bool
}

// rule is a parsed style rule with a single selector. A rule with a
// selector list is split into one rule per selector so each keeps its own
// specificity.
type rule struct {
	selector     cascadia.Sel
	specificity  cascadia.Specificity
	order        int
	declarations []declaration
}

// StyleSheet holds the author style rules of one document tree.
// Only plain style rules are kept; at-rules such as @media and @import are
// ignored, as are selectors cascadia cannot compile and pseudo-element
// selectors.
type StyleSheet struct {
	rules []rule
}

// importantSuffix matches a trailing !important marker.
var importantSuffix = regexp.MustCompile(`(?i)!\s*important\s*$`)

// NewStyleSheet collects every <style> element under root, outside of
// template content, and parses its rules in document order.
func NewStyleSheet(root *html.Node) *StyleSheet {
	ss := &StyleSheet{}
	if root == nil {
		return ss
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if isTemplate(n) && n != root {
			return
		}
		if isElement(n) && n.DataAtom == atom.Style {
			var text strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					text.WriteString(c.Data)
				}
			}
			ss.add(text.String())
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return ss
}

// ParseStyleSheet parses CSS source text into a StyleSheet.
func ParseStyleSheet(css string) *StyleSheet {
	ss := &StyleSheet{}
	ss.add(css)
	return ss
}

// add appends the rules found in css.
func (ss *StyleSheet) add(css string) {
	s := scanner.New(css)

	var prelude strings.Builder
	atRule := false
	for {
		tok := s.Next()
		if tok.Type == scanner.TokenEOF || tok.Type == scanner.TokenError {
			return
		}

		switch {
		case tok.Type == scanner.TokenComment || tok.Type == scanner.TokenCDO || tok.Type == scanner.TokenCDC:
			continue
		case tok.Type == scanner.TokenAtKeyword && strings.TrimSpace(prelude.String()) == "":
			atRule = true
			prelude.WriteString(tok.Value)
		case tok.Type == scanner.TokenChar && tok.Value == ";" && atRule:
			// statement at-rule such as @import or @charset
			atRule = false
			prelude.Reset()
		case tok.Type == scanner.TokenChar && tok.Value == "{":
			body := readBlock(s)
			if !atRule {
				ss.addRule(prelude.String(), body)
			}
			atRule = false
			prelude.Reset()
		default:
			prelude.WriteString(tok.Value)
		}
	}
}

// readBlock consumes tokens up to the "}" that closes the block whose
// opening brace was just read, and returns the raw block content.
func readBlock(s *scanner.Scanner) string {
	var body strings.Builder
	depth := 1
	for {
		tok := s.Next()
		if tok.Type == scanner.TokenEOF || tok.Type == scanner.TokenError {
			return body.String()
		}
		if tok.Type == scanner.TokenChar {
			switch tok.Value {
			case "{":
				depth++
			case "}":
				depth--
				if depth == 0 {
					return body.String()
				}
			}
		}
		body.WriteString(tok.Value)
	}
}

// addRule compiles the selector list of one rule and stores a rule per selector.
func (ss *StyleSheet) addRule(selectors, body string) {
	decls := parseDeclarations(body)
	if len(decls) == 0 {
		return
	}

	group, err := cascadia.ParseGroup(strings.TrimSpace(selectors))
	if err != nil {
		return
	}
	for _, sel := range group {
		if sel.PseudoElement() != "" {
			continue
		}
		ss.rules = append(ss.rules, rule{
			selector:     sel,
			specificity:  sel.Specificity(),
			order:        len(ss.rules),
			declarations: decls,
		})
	}
}

// parseDeclarations parses a declaration block or an inline style attribute.
// Property names are lowercased; values are lowercased with whitespace
// collapsed and the !important marker removed.
func parseDeclarations(block string) []declaration {
	s := scanner.New(block)

	var (
		decls    []declaration
		name     strings.Builder
		value    strings.Builder
		inValue  bool
		parenDep int
	)
	flush := func() {
		prop := strings.ToLower(strings.TrimSpace(name.String()))
		raw := strings.TrimSpace(value.String())
		if prop != "" && inValue {
			important := importantSuffix.MatchString(raw)
			if important {
				raw = importantSuffix.ReplaceAllString(raw, "")
			}
			decls = append(decls, declaration{
				property:  prop,
				value:     strings.ToLower(strings.Join(strings.Fields(raw), " ")),
				important: important,
			})
		}
		name.Reset()
		value.Reset()
		inValue = false
		parenDep = 0
	}

	for {
		tok := s.Next()
		if tok.Type == scanner.TokenEOF || tok.Type == scanner.TokenError {
			flush()
			return decls
		}
		if tok.Type == scanner.TokenComment {
			continue
		}

		switch {
		case tok.Type == scanner.TokenFunction:
			parenDep++
		case tok.Type == scanner.TokenChar && tok.Value == "(":
			parenDep++
		case tok.Type == scanner.TokenChar && tok.Value == ")":
			if parenDep > 0 {
				parenDep--
			}
		case tok.Type == scanner.TokenChar && tok.Value == ";" && parenDep == 0:
			flush()
			continue
		case tok.Type == scanner.TokenChar && tok.Value == ":" && !inValue:
			inValue = true
			continue
		}

		if inValue {
			value.WriteString(tok.Value)
		} else {
			name.WriteString(tok.Value)
		}
	}
}

// cascaded is a declaration together with the precedence it won with.
type cascaded struct {
	declaration
	inline      bool
	specificity cascadia.Specificity
	order       int
}

// beats reports whether c takes precedence over other.
func (c cascaded) beats(other cascaded) bool {
	if c.important != other.important {
		return c.important
	}
	if c.inline != other.inline {
		return c.inline
	}
	for i := range c.specificity {
		if c.specificity[i] != other.specificity[i] {
			return c.specificity[i] > other.specificity[i]
		}
	}
	return c.order >= other.order
}

// Declared returns the cascaded author values of the element: matching rules
// of the sheet overridden by the element's inline style attribute.
// Properties that no rule sets are absent from the result.
func (ss *StyleSheet) Declared(n *html.Node) map[string]string {
	if !isElement(n) {
		return nil
	}

	winners := make(map[string]cascaded)
	apply := func(c cascaded) {
		if cur, ok := winners[c.property]; !ok || c.beats(cur) {
			winners[c.property] = c
		}
	}

	// rules are stored in source order, so matched is too
	matched := make([]rule, 0)
	if ss != nil {
		for _, r := range ss.rules {
			if r.selector.Match(n) {
				matched = append(matched, r)
			}
		}
	}
	for _, r := range matched {
		for _, d := range r.declarations {
			apply(cascaded{declaration: d, specificity: r.specificity, order: r.order})
		}
	}

	for i, d := range parseDeclarations(getAttr(n, "style")) {
		apply(cascaded{declaration: d, inline: true, order: len(matched) + i})
	}

	out := make(map[string]string, len(winners))
	for prop, c := range winners {
		out[prop] = c.value
	}
	return out
}
