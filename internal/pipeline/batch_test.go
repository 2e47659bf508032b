package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/copychecker/internal/model"
)

// reportStep stores a report whose URL is the target.
func reportStep() *mockStep {
	return &mockStep{name: "report", doFunc: func(_ context.Context, scan *Scan) error {
		if strings.Contains(scan.Target, "broken") {
			return errors.New("unreachable")
		}
		scan.Report = &model.AnalysisReport{URL: scan.Target, Language: scan.Language}
		return nil
	}}
}

// TestBatchProcessorNew tests the BatchProcessor constructor.
func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	t.Run("creates processor with defaults", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })

		if bp.concurrency != 4 {
			t.Errorf("expected default concurrency 4, got %d", bp.concurrency)
		}
		if got := bp.languageFor("x"); got != model.DefaultLanguage {
			t.Errorf("expected default language, got %q", got)
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(0))

		if bp.concurrency != 4 {
			t.Errorf("expected concurrency 4, got %d", bp.concurrency)
		}
	})
}

// TestProcessBatch tests concurrent batch scans.
func TestProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("keeps input order and records failures", func(t *testing.T) {
		t.Parallel()

		targets := []string{"https://a.example/", "https://broken.example/", "https://c.example/"}
		bp := NewBatchProcessor(
			func() *Pipeline {
				p := New()
				p.AddStep(reportStep())
				return p
			},
			WithConcurrency(3),
			WithLanguage(func(target string) model.Language {
				if strings.HasPrefix(target, "https://c.") {
					return model.LanguageUS
				}
				return model.LanguageUK
			}),
		)

		scans, err := bp.ProcessBatch(context.Background(), targets)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(scans) != len(targets) {
			t.Fatalf("expected %d scans, got %d", len(targets), len(scans))
		}
		for i, s := range scans {
			if s.Target != targets[i] {
				t.Errorf("scan %d: expected target %q, got %q", i, targets[i], s.Target)
			}
		}
		if !scans[1].Failed() || scans[1].Report != nil {
			t.Error("expected broken target to fail without report")
		}
		if scans[2].Language != model.LanguageUS {
			t.Errorf("expected US language for c, got %q", scans[2].Language)
		}
	})

	t.Run("respects the concurrency limit", func(t *testing.T) {
		t.Parallel()

		var running, peak atomic.Int32
		slow := func() *Pipeline {
			p := New()
			p.AddStep(&mockStep{name: "slow", doFunc: func(context.Context, *Scan) error {
				n := running.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				running.Add(-1)
				return nil
			}})
			return p
		}

		targets := make([]string, 8)
		for i := range targets {
			targets[i] = "https://example.com/"
		}

		if _, err := NewBatchProcessor(slow, WithConcurrency(2)).ProcessBatch(context.Background(), targets); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if peak.Load() > 2 {
			t.Errorf("expected at most 2 concurrent scans, got %d", peak.Load())
		}
	})

	t.Run("returns cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })
		_, err := bp.ProcessBatch(ctx, []string{"https://example.com/"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

// TestProcessBatchWithCallback tests streaming results.
func TestProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	targets := []string{"https://a.example/", "https://b.example/"}
	bp := NewBatchProcessor(func() *Pipeline {
		p := New()
		p.AddStep(reportStep())
		return p
	})

	var mu sync.Mutex
	seen := make(map[int]string)
	err := bp.ProcessBatchWithCallback(context.Background(), targets, func(scan *Scan, index int) {
		mu.Lock()
		defer mu.Unlock()
		seen[index] = scan.Report.URL
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, target := range targets {
		if seen[i] != target {
			t.Errorf("index %d: expected %q, got %q", i, target, seen[i])
		}
	}
}
