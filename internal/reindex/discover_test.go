package reindex

import "testing"

func TestPartition(t *testing.T) {
	files := []string{"a", "b", "c", "d", "e", "f", "g"}

	chunks := partition(files, 3)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	// ceil(7/3) = 3, so chunks of 3, 3, 1; order preserved within each.
	if len(chunks[0]) != 3 || len(chunks[1]) != 3 || len(chunks[2]) != 1 {
		t.Fatalf("chunk sizes = %d/%d/%d", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}
	if chunks[0][0] != "a" || chunks[2][0] != "g" {
		t.Fatalf("discovery order not preserved: %v", chunks)
	}

	if got := partition(nil, 4); got != nil {
		t.Fatalf("partition(nil) = %v", got)
	}
	if got := partition(files, 1); len(got) != 1 || len(got[0]) != 7 {
		t.Fatalf("single worker partition = %v", got)
	}
}

func TestProgressSnapshot(t *testing.T) {
	p := NewProgress(4)
	if percent := p.Percent(); percent != 0 {
		t.Fatalf("initial percent = %v", percent)
	}
	p.Increment()
	p.Increment()
	completed, total := p.Snapshot()
	if completed != 2 || total != 4 {
		t.Fatalf("snapshot = %d/%d", completed, total)
	}
	if percent := p.Percent(); percent != 50 {
		t.Fatalf("percent = %v", percent)
	}
	if percent := NewProgress(0).Percent(); percent != 100 {
		t.Fatalf("zero-total percent = %v", percent)
	}
}
