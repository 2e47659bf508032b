package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Locator returns the structural path of an element, from the outermost
// ancestor to the element itself, joined by " > ".
//
// Each step is the lowercase tag name followed by "#id" when the element has
// a non-empty id, otherwise by ".class1.class2" when it has classes. The walk
// stops at the first node that is not an element (the document or a frame
// document) and at template elements, so locators of shadow-root content
// start below the shadow root.
//
// A nil node or a node that is not an element yields "".
func Locator(n *html.Node) string {
	var steps []string
	for ; isElement(n) && !isTemplate(n); n = n.Parent {
		steps = append(steps, locatorStep(n))
	}

	// steps were collected leaf first
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return strings.Join(steps, " > ")
}

// locatorStep renders one element of a locator.
func locatorStep(n *html.Node) string {
	tag := strings.ToLower(n.Data)
	if id := getAttr(n, "id"); id != "" {
		return tag + "#" + id
	}
	if classes := strings.Fields(getAttr(n, "class")); len(classes) > 0 {
		return tag + "." + strings.Join(classes, ".")
	}
	return tag
}
