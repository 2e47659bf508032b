package dom

import "testing"

// TestLocator tests the structural path of elements.
func TestLocator(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `<html><body>
		<div id="main">
			<p class="intro  lead" id="">
				<span id="target">x</span>
				<em data-id="e1">y</em>
			</p>
		</div>
		<div id="host"><template shadowrootmode="open"><section class="card"><b id="inner">z</b></section></template></div>
	</body></html>`)

	testCases := []struct {
		name     string
		id       string
		expected string
	}{
		{
			name:     "id wins over classes and stops nothing",
			id:       "target",
			expected: "html > body > div#main > p.intro.lead > span#target",
		},
		{
			name:     "shadow root content starts below the template",
			id:       "inner",
			expected: "section.card > b#inner",
		},
		{
			name:     "element with id",
			id:       "main",
			expected: "html > body > div#main",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			n := findByID(root, tc.id)
			if n == nil {
				t.Fatalf("element #%s not found", tc.id)
			}
			if got := Locator(n); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}

	t.Run("element without id or class", func(t *testing.T) {
		t.Parallel()
		em := findByID(root, "target").Parent.LastChild
		for em != nil && (!isElement(em) || em.Data != "em") {
			em = em.PrevSibling
		}
		if em == nil {
			t.Fatal("em element not found")
		}
		if got := Locator(em); got != "html > body > div#main > p.intro.lead > em" {
			t.Errorf("unexpected locator %q", got)
		}
	})

	t.Run("nil node", func(t *testing.T) {
		t.Parallel()
		if got := Locator(nil); got != "" {
			t.Errorf("expected empty locator, got %q", got)
		}
	})

	t.Run("document node", func(t *testing.T) {
		t.Parallel()
		if got := Locator(root); got != "" {
			t.Errorf("expected empty locator, got %q", got)
		}
	})
}
