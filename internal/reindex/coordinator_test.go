package reindex_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"uttale/internal/logging"
	"uttale/internal/reindex"
	"uttale/internal/testsupport"
)

func TestRunIndexesValidAndSkipsMalformed(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWorkers(3))
	store := testsupport.MustOpenStore(t, cfg)
	root := cfg.Paths.RootDir

	testsupport.WriteVTT(t, root, "show/ep1.vtt",
		testsupport.Cue{Start: "00:00:01.000", End: "00:00:02.000", Text: "hi there"})
	testsupport.WriteVTT(t, root, "show/ep2.vtt",
		testsupport.Cue{Start: "00:00:01.000", End: "00:00:02.000", Text: "line a"},
		testsupport.Cue{Start: "00:00:03.000", End: "00:00:04.000", Text: "line b"})
	testsupport.WriteVTT(t, root, "film/intro.vtt",
		testsupport.Cue{Start: "00:01:00.000", End: "00:01:05.000", Text: "once upon"})
	testsupport.WriteFile(t, root, "broken/bad.vtt", "not a caption file\n")
	testsupport.WriteFile(t, root, "notes/readme.txt", "ignored entirely\n")

	coordinator := reindex.NewCoordinator(cfg, store, logging.NewNop())
	summary, err := coordinator.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.TotalFiles != 4 {
		t.Errorf("TotalFiles = %d, want 4 (three valid, one malformed)", summary.TotalFiles)
	}
	if summary.ParsedFiles != 3 {
		t.Errorf("ParsedFiles = %d, want 3", summary.ParsedFiles)
	}
	if summary.Records != 4 {
		t.Errorf("Records = %d, want 4", summary.Records)
	}

	lines, scopes, err := store.Counts(context.Background())
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if lines != 4 {
		t.Errorf("indexed lines = %d, want 4", lines)
	}
	if scopes != 3 {
		t.Errorf("distinct scopes = %d, want 3", scopes)
	}
}

func TestRunScenario(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	testsupport.WriteVTT(t, cfg.Paths.RootDir, "show/ep1.vtt",
		testsupport.Cue{Start: "00:00:01.000", End: "00:00:02.000", Text: "hi there"})

	coordinator := reindex.NewCoordinator(cfg, store, logging.NewNop())
	if _, err := coordinator.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	ctx := context.Background()
	scopes, err := store.SearchScopes(ctx, "show", 100)
	if err != nil {
		t.Fatalf("SearchScopes failed: %v", err)
	}
	if len(scopes) != 1 || scopes[0] != "show/ep1.vtt" {
		t.Fatalf("SearchScopes = %v, want [show/ep1.vtt]", scopes)
	}

	records, err := store.SearchText(ctx, "hi", "show", 100)
	if err != nil {
		t.Fatalf("SearchText failed: %v", err)
	}
	if len(records) != 1 || records[0].Start != "00:00:01.000" {
		t.Fatalf("SearchText = %#v", records)
	}
}

func TestRunEmptyRootIsNoOp(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.WriteVTT(t, cfg.Paths.RootDir, "show/ep1.vtt",
		testsupport.Cue{Start: "00:00:01.000", End: "00:00:02.000", Text: "hi there"})
	coordinator := reindex.NewCoordinator(cfg, store, logging.NewNop())
	if _, err := coordinator.Run(ctx); err != nil {
		t.Fatalf("seed Run failed: %v", err)
	}

	// Point the root somewhere nonexistent: discovery fails, index survives.
	cfg.Paths.RootDir = cfg.Paths.RootDir + "-missing"
	if _, err := coordinator.Run(ctx); err != nil {
		t.Fatalf("no-op Run returned error: %v", err)
	}

	lines, _, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if lines != 1 {
		t.Fatalf("previous index was disturbed: %d lines", lines)
	}
}

// recordingHandler collects log messages so tests can count emissions.
type recordingHandler struct {
	mu       sync.Mutex
	messages []string
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, record slog.Record) error {
	h.mu.Lock()
	h.messages = append(h.messages, record.Message)
	h.mu.Unlock()
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *recordingHandler) WithGroup(string) slog.Handler { return h }

func (h *recordingHandler) count(message string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, msg := range h.messages {
		if msg == message {
			n++
		}
	}
	return n
}

func TestRunLogsProgressOnEveryRun(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWorkers(2))
	store := testsupport.MustOpenStore(t, cfg)
	root := cfg.Paths.RootDir

	for _, rel := range []string{"a/1.vtt", "a/2.vtt", "b/3.vtt"} {
		testsupport.WriteVTT(t, root, rel,
			testsupport.Cue{Start: "00:00:01.000", End: "00:00:02.000", Text: "x"})
	}

	handler := &recordingHandler{}
	coordinator := reindex.NewCoordinator(cfg, store, slog.New(handler))

	ctx := context.Background()
	if _, err := coordinator.Run(ctx); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	firstRun := handler.count("reindex progress")
	if firstRun == 0 {
		t.Fatal("first run emitted no progress samples")
	}

	// A long-lived server reuses one coordinator across reindex requests;
	// later runs must still report the final 100% sample.
	if _, err := coordinator.Run(ctx); err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if handler.count("reindex progress") <= firstRun {
		t.Fatal("second run emitted no progress samples")
	}
}

func TestRunReportsMonotonicProgressEndingAtTotal(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWorkers(2))
	store := testsupport.MustOpenStore(t, cfg)
	root := cfg.Paths.RootDir

	for _, rel := range []string{"a/1.vtt", "a/2.vtt", "b/3.vtt", "b/4.vtt", "c/5.vtt"} {
		testsupport.WriteVTT(t, root, rel,
			testsupport.Cue{Start: "00:00:01.000", End: "00:00:02.000", Text: "x"})
	}

	var mu sync.Mutex
	var samples [][2]int
	reporter := func(completed, total int) {
		mu.Lock()
		samples = append(samples, [2]int{completed, total})
		mu.Unlock()
	}

	coordinator := reindex.NewCoordinator(cfg, store, logging.NewNop(), reindex.WithReporter(reporter))
	if _, err := coordinator.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(samples) == 0 {
		t.Fatal("expected at least the final progress sample")
	}
	prev := -1
	for i, sample := range samples {
		if sample[1] != 5 {
			t.Errorf("sample %d total = %d, want 5", i, sample[1])
		}
		if sample[0] < prev {
			t.Errorf("progress decreased: %v", samples)
		}
		prev = sample[0]
	}
	final := samples[len(samples)-1]
	if final[0] != 5 {
		t.Errorf("final sample = %d/%d, want 5/5", final[0], final[1])
	}
}
