package dom

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/nao1215/copychecker/internal/model"
)

// TestExtract_MainDocument tests extraction from a single document.
func TestExtract_MainDocument(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `<html><head><title>Ignored</title><style>.x{display:none}</style></head><body>
		<h1>  Heading  </h1>
		<script>var s = "not text";</script>
		<style>p { color: red }</style>
		<noscript>enable scripts</noscript>
		<p>First <b>bold</b> last.</p>
		<p class="x">Hidden by class</p>
		<template><p>inert</p></template>
		<p>   </p>
	</body></html>`)

	segs := Extract(&Document{Root: root})

	want := []string{"Heading", "First", "bold", "last.", "Hidden by class"}
	if got := texts(segs); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if segs[0].Locator != "html > body > h1" {
		t.Errorf("unexpected locator %q", segs[0].Locator)
	}
	if segs[2].Locator != "html > body > p > b" {
		t.Errorf("unexpected locator %q", segs[2].Locator)
	}
	for _, s := range segs[:4] {
		if s.Kind != model.ContextStandard {
			t.Errorf("expected %q to be standard, got %q", s.Text, s.Kind)
		}
		if s.Root != root {
			t.Errorf("expected %q to have the document as root", s.Text)
		}
		if s.Context != nil {
			t.Errorf("expected no block context before segmentation")
		}
	}
	if segs[4].Kind != model.ContextHidden {
		t.Errorf("expected hidden kind, got %q", segs[4].Kind)
	}
}

// TestExtract_TraversalOrder tests that main document text precedes frame
// text, which precedes shadow root text.
func TestExtract_TraversalOrder(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `<html><body>
		<div id="host"><template shadowrootmode="open"><p>shadow one</p></template></div>
		<p>main one</p>
		<iframe id="frame" src="/frame.html">fallback text</iframe>
		<iframe id="blocked" src="https://other.example/"></iframe>
		<iframe id="unresolved"></iframe>
		<p style="display:none">main hidden</p>
	</body></html>`)

	frameRoot := mustParse(t, `<html><body>
		<p>frame one</p>
		<div><template shadowroot="closed"><span>frame shadow</span></template></div>
	</body></html>`)

	doc := &Document{
		Root: root,
		Frames: []*Frame{
			{Element: findByID(root, "frame"), Source: "https://example.com/frame.html", Document: &Document{Root: frameRoot}},
			{Element: findByID(root, "blocked"), Source: "https://other.example/", Err: errors.New("cross-origin")},
		},
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	segs := Extract(doc, WithLogger(logger))

	want := []string{"main one", "main hidden", "frame one", "shadow one", "frame shadow"}
	if got := texts(segs); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}

	wantKinds := []model.ContextKind{
		model.ContextStandard,
		model.ContextHidden,
		model.ContextIframe,
		model.ContextShadowDOM,
		model.ContextIframe,
	}
	for i, s := range segs {
		if s.Kind != wantKinds[i] {
			t.Errorf("segment %q: expected kind %q, got %q", s.Text, wantKinds[i], s.Kind)
		}
	}

	if segs[2].Locator != "html > body > p" {
		t.Errorf("frame locator should start at the frame document, got %q", segs[2].Locator)
	}
	if segs[3].Locator != "p" {
		t.Errorf("shadow locator should start below the shadow root, got %q", segs[3].Locator)
	}
	if segs[2].Root != frameRoot {
		t.Error("expected frame segment to carry the frame document as root")
	}

	out := logs.String()
	if !strings.Contains(out, "skipping inaccessible frame") {
		t.Errorf("expected skipped frames to be logged, got %q", out)
	}
	if !strings.Contains(out, "cross-origin") {
		t.Errorf("expected frame error in log, got %q", out)
	}
}

// TestExtract_NoBody tests that a tree without a body is walked from the root.
func TestExtract_NoBody(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `<p>fragment</p>`)
	// html.Parse always synthesizes a body; detach it to simulate a bare tree.
	body := findBody(root)
	p := body.FirstChild
	body.RemoveChild(p)
	root.FirstChild.RemoveChild(body)
	root.FirstChild.AppendChild(p)

	segs := Extract(&Document{Root: root})
	if got := texts(segs); !reflect.DeepEqual(got, []string{"fragment"}) {
		t.Errorf("unexpected segments %q", got)
	}

	if Extract(nil) != nil {
		t.Error("expected nil document to yield no segments")
	}
}
