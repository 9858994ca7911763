package reindex

import "sync"

// Progress is the shared completion counter for one reindex run. Workers
// increment it once per fully processed file; the reporter polls it. The
// counter never decreases and is discarded when the run ends.
type Progress struct {
	mu        sync.Mutex
	total     int
	completed int
}

// NewProgress creates a counter for a run covering total files.
func NewProgress(total int) *Progress {
	return &Progress{total: total}
}

// Increment records one fully processed file. The lock is held only for the
// increment, never across parsing.
func (p *Progress) Increment() {
	p.mu.Lock()
	p.completed++
	p.mu.Unlock()
}

// Snapshot returns the current completed and total counts.
func (p *Progress) Snapshot() (completed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed, p.total
}

// Percent returns completion as 0-100. A zero-file run reports 100.
func (p *Progress) Percent() float64 {
	completed, total := p.Snapshot()
	if total <= 0 {
		return 100
	}
	return float64(completed) / float64(total) * 100
}
