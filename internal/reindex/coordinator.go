package reindex

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"uttale/internal/captions"
	"uttale/internal/config"
	"uttale/internal/index"
	"uttale/internal/logging"
)

// Summary describes a completed reindex run.
type Summary struct {
	RunID      string
	TotalFiles int
	// ParsedFiles counts files that produced at least one record. Malformed
	// files stay counted in TotalFiles but drop out of the index.
	ParsedFiles int
	Records     int
	Elapsed     time.Duration
}

// Coordinator drives reindex runs against a single index store.
type Coordinator struct {
	cfg    *config.Config
	store  *index.Store
	logger *slog.Logger
	report ReportFunc
}

// Option customizes coordinator construction.
type Option func(*Coordinator)

// WithReporter replaces the default log-based progress reporter, e.g. with a
// terminal progress bar.
func WithReporter(report ReportFunc) Option {
	return func(c *Coordinator) {
		if report != nil {
			c.report = report
		}
	}
}

// NewCoordinator constructs a coordinator publishing into store.
func NewCoordinator(cfg *config.Config, store *index.Store, logger *slog.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "reindex"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes one end-to-end reindex of the configured caption root. A
// discovery failure or an empty root is a no-op that leaves the existing
// index untouched; per-file parse failures are swallowed. The returned error
// is non-nil only when publishing the merged records fails.
func (c *Coordinator) Run(ctx context.Context) (Summary, error) {
	runID := uuid.NewString()
	logger := c.logger.With(logging.String("run_id", runID))
	started := time.Now()

	// The default reporter carries sampling state, so each run gets a fresh
	// one. Runs may overlap; a shared sampler would race and stay saturated
	// at the 100% bucket after the first run.
	report := c.report
	if report == nil {
		report = logReporter(logger)
	}

	root := c.cfg.Paths.RootDir
	files, err := discover(root, c.cfg.Reindex.CaptionExtension)
	if err != nil {
		logger.Warn("caption discovery failed, keeping existing index", logging.Error(err))
		return Summary{RunID: runID}, nil
	}
	if len(files) == 0 {
		logger.Info("no caption files found, keeping existing index")
		return Summary{RunID: runID}, nil
	}

	workers := c.workerCount(len(files))
	chunks := partition(files, workers)
	logger.Info("reindex started",
		logging.Int("files", len(files)),
		logging.Int("workers", len(chunks)),
	)

	progress := NewProgress(len(files))
	results := make([]chunkResult, len(chunks))

	var wg sync.WaitGroup
	for idx, chunk := range chunks {
		wg.Add(1)
		go func(idx int, chunk []string) {
			defer wg.Done()
			results[idx] = parseChunk(root, chunk, progress, logger)
		}(idx, chunk)
	}

	stop := make(chan struct{})
	var reporterDone sync.WaitGroup
	reporterDone.Add(1)
	go func() {
		defer reporterDone.Done()
		watch(progress, c.progressInterval(), stop, report)
	}()

	wg.Wait()
	close(stop)
	reporterDone.Wait()

	// Final sample after the barrier so a last poll gap never hides files.
	completed, total := progress.Snapshot()
	report(completed, total)

	summary := Summary{RunID: runID, TotalFiles: len(files)}
	var merged []captions.Record
	for _, result := range results {
		summary.ParsedFiles += result.parsed
		merged = append(merged, result.rows...)
	}
	summary.Records = len(merged)

	if err := c.store.ReplaceAll(ctx, merged); err != nil {
		logger.Error("index publish failed", logging.Error(err))
		return summary, err
	}

	summary.Elapsed = time.Since(started)
	logger.Info("reindex finished",
		logging.Int("files", summary.TotalFiles),
		logging.Int("records", summary.Records),
		logging.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

type chunkResult struct {
	rows   []captions.Record
	parsed int
}

// parseChunk parses every file of one chunk in discovery order. Each file
// increments the shared counter exactly once, success or not.
func parseChunk(root string, chunk []string, progress *Progress, logger *slog.Logger) chunkResult {
	var result chunkResult
	for _, rel := range chunk {
		records, err := captions.ParseFile(root, rel)
		if err != nil {
			logger.Debug("skipping caption file", logging.String("file", rel), logging.Error(err))
		} else {
			result.rows = append(result.rows, records...)
			result.parsed++
		}
		progress.Increment()
	}
	return result
}

func (c *Coordinator) workerCount(files int) int {
	workers := c.cfg.Reindex.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
		if workers > 8 {
			workers = 8
		}
	}
	if workers > files {
		workers = files
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

func (c *Coordinator) progressInterval() time.Duration {
	ms := c.cfg.Reindex.ProgressIntervalMS
	if ms <= 0 {
		ms = 500
	}
	return time.Duration(ms) * time.Millisecond
}
