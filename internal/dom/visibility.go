package dom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// uaHidden lists the elements the user agent style sheet renders with
// display:none.
var uaHidden = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Template: true,
	atom.Noscript: true,
	atom.Title:    true,
	atom.Meta:     true,
	atom.Link:     true,
	atom.Datalist: true,
	atom.Area:     true,
	atom.Param:    true,
	atom.Rp:       true,
}

// Visibility classifies elements of one document tree as visible or hidden.
//
// An element is hidden when its computed visibility is "hidden", or when it
// or one of its ancestors has display:none, an opacity of zero, a clip
// rectangle with no area, or aria-hidden="true". Computed values come from
// the user agent defaults, the document's StyleSheet and inline styles.
//
// A Visibility caches computed styles and is not safe for concurrent use.
type Visibility struct {
	sheet *StyleSheet
	cache map[*html.Node]map[string]string
}

// NewVisibility returns a classifier that resolves styles against sheet.
// A nil sheet means only user agent defaults and inline styles apply.
func NewVisibility(sheet *StyleSheet) *Visibility {
	return &Visibility{
		sheet: sheet,
		cache: make(map[*html.Node]map[string]string),
	}
}

// Hidden reports whether n is effectively hidden from the reader.
// A nil node, or a node that is not an element, is reported as hidden.
func (v *Visibility) Hidden(n *html.Node) bool {
	if !isElement(n) {
		return true
	}
	if v.visibility(n) == "hidden" {
		return true
	}
	for e := n; isElement(e) && !isTemplate(e); e = e.Parent {
		if v.selfHidden(e) {
			return true
		}
	}
	// n itself may be a template, whose content is never rendered
	return isTemplate(n)
}

// selfHidden checks the non-inherited properties of a single element.
func (v *Visibility) selfHidden(e *html.Node) bool {
	style := v.style(e)
	if style["display"] == "none" {
		return true
	}
	if isZeroOpacity(style["opacity"]) {
		return true
	}
	if isEmptyClip(style["clip"]) {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(getAttr(e, "aria-hidden")), "true")
}

// visibility resolves the inherited visibility property.
func (v *Visibility) visibility(n *html.Node) string {
	for e := n; isElement(e) && !isTemplate(e); e = e.Parent {
		if val := v.style(e)["visibility"]; val != "" && val != "inherit" {
			return val
		}
	}
	return "visible"
}

// style returns the cascaded style of e including user agent defaults.
func (v *Visibility) style(e *html.Node) map[string]string {
	if s, ok := v.cache[e]; ok {
		return s
	}

	s := v.sheet.Declared(e)
	if s == nil {
		s = make(map[string]string)
	}
	if _, ok := s["display"]; !ok && uaDisplayNone(e) {
		s["display"] = "none"
	}

	v.cache[e] = s
	return s
}

// uaDisplayNone reports whether the user agent hides e by default.
func uaDisplayNone(e *html.Node) bool {
	if uaHidden[e.DataAtom] || hasAttr(e, "hidden") {
		return true
	}
	return e.DataAtom == atom.Dialog && !hasAttr(e, "open")
}

// isZeroOpacity reports whether an opacity value is exactly zero.
func isZeroOpacity(val string) bool {
	if val == "" {
		return false
	}
	val = strings.TrimSuffix(val, "%")
	f, err := strconv.ParseFloat(val, 64)
	return err == nil && f == 0
}

// isEmptyClip reports whether a clip value is a rect() with no width or no
// height, such as "rect(0px, 0px, 0px, 0px)" or "rect(1px 1px 1px 1px)".
func isEmptyClip(val string) bool {
	if !strings.HasPrefix(val, "rect(") || !strings.HasSuffix(val, ")") {
		return false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(val, "rect("), ")")
	parts := strings.FieldsFunc(inner, func(r rune) bool { return r == ',' || r == ' ' })
	if len(parts) != 4 {
		return false
	}

	edges := make([]float64, 4)
	auto := make([]bool, 4)
	for i, p := range parts {
		if p == "auto" {
			auto[i] = true
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimRightFunc(p, isUnitRune), 64)
		if err != nil {
			return false
		}
		edges[i] = f
	}

	// rect(top, right, bottom, left)
	top, right, bottom, left := 0, 1, 2, 3
	if !auto[top] && !auto[bottom] && edges[bottom] <= edges[top] {
		return true
	}
	return !auto[left] && !auto[right] && edges[right] <= edges[left]
}

// isUnitRune reports whether r can be part of a CSS length unit.
func isUnitRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || r == '%'
}
