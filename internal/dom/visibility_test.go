package dom

import "testing"

// TestVisibilityHidden tests each rule that makes an element hidden.
func TestVisibilityHidden(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `<html><head><style>
		.gone { display: none }
		.ghost { visibility: hidden }
		#shown.gone { display: block }
		.forced { display: none !important }
		@media print { .print-only { display: none } }
		p::before { display: none }
	</style></head><body>
		<p id="plain">visible</p>
		<p id="inline-none" style="display: none">x</p>
		<p id="inline-hidden" style="visibility:hidden">x</p>
		<div style="visibility: hidden"><span id="inherits">x</span><span id="overrides" style="visibility: visible">x</span></div>
		<p id="opacity" style="opacity: 0">x</p>
		<p id="opacity-float" style="opacity:0.0">x</p>
		<p id="opacity-half" style="opacity: .5">x</p>
		<p id="clip" style="position:absolute; clip: rect(0px, 0px, 0px, 0px)">x</p>
		<p id="clip-sr" style="clip: rect(1px 1px 1px 1px)">x</p>
		<p id="clip-auto" style="clip: rect(auto, auto, auto, auto)">x</p>
		<p id="aria" aria-hidden="true">x</p>
		<p id="aria-false" aria-hidden="false">x</p>
		<p id="attr" hidden>x</p>
		<p id="attr-overridden" hidden style="display:block">x</p>
		<p id="class" class="gone">x</p>
		<p id="ghost" class="ghost">x</p>
		<p id="shown" class="gone">x</p>
		<p id="important" class="forced" style="display:block">x</p>
		<p id="media" class="print-only">x</p>
		<div style="display:none"><em id="nested">x</em></div>
		<dialog><b id="dialog">x</b></dialog>
	</body></html>`)

	vis := NewVisibility(NewStyleSheet(root))

	testCases := []struct {
		id     string
		hidden bool
	}{
		{"plain", false},
		{"inline-none", true},
		{"inline-hidden", true},
		{"inherits", true},
		{"overrides", false},
		{"opacity", true},
		{"opacity-float", true},
		{"opacity-half", false},
		{"clip", true},
		{"clip-sr", true},
		{"clip-auto", false},
		{"aria", true},
		{"aria-false", false},
		{"attr", true},
		{"attr-overridden", false},
		{"class", true},
		{"ghost", true},
		{"shown", false},
		{"important", true},
		{"media", false},
		{"nested", true},
		{"dialog", true},
	}

	for _, tc := range testCases {
		t.Run(tc.id, func(t *testing.T) {
			t.Parallel()
			n := findByID(root, tc.id)
			if n == nil {
				t.Fatalf("element #%s not found", tc.id)
			}
			// Visibility caches styles and is not safe for concurrent use.
			got := NewVisibility(vis.sheet).Hidden(n)
			if got != tc.hidden {
				t.Errorf("expected hidden=%v, got %v", tc.hidden, got)
			}
		})
	}

	t.Run("nil element is hidden", func(t *testing.T) {
		t.Parallel()
		if !NewVisibility(nil).Hidden(nil) {
			t.Error("expected nil element to be hidden")
		}
	})
}

// TestParseDeclarations tests parsing of inline style declarations.
func TestParseDeclarations(t *testing.T) {
	t.Parallel()

	decls := parseDeclarations(`Display : NONE ; clip: rect( 0px,0px , 0px, 0px ) !important; /* c */ color: red;`)
	if len(decls) != 3 {
		t.Fatalf("expected 3 declarations, got %d: %+v", len(decls), decls)
	}
	if decls[0].property != "display" || decls[0].value != "none" {
		t.Errorf("unexpected first declaration: %+v", decls[0])
	}
	if !decls[1].important {
		t.Error("expected clip declaration to be important")
	}
	if !isEmptyClip(decls[1].value) {
		t.Errorf("expected %q to be an empty clip", decls[1].value)
	}
}
