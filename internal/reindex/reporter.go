package reindex

import (
	"log/slog"
	"time"

	"uttale/internal/logging"
)

// ReportFunc receives progress samples during a run. It is called from the
// reporter goroutine at every poll tick and exactly once more, with
// completed == total, after all workers have joined.
type ReportFunc func(completed, total int)

// logReporter emits sampled progress percentages through the run logger.
// Bucketing keeps a large run from flooding the log at every tick.
func logReporter(logger *slog.Logger) ReportFunc {
	sampler := logging.NewProgressSampler(5)
	return func(completed, total int) {
		percent := 100.0
		if total > 0 {
			percent = float64(completed) / float64(total) * 100
		}
		if !sampler.ShouldLog(percent) {
			return
		}
		logger.Info("reindex progress",
			logging.Int("completed", completed),
			logging.Int("total", total),
			logging.Float64("percent", percent),
		)
	}
}

// watch polls the progress counter until stop closes, forwarding samples to
// report. The final 100% sample is the coordinator's responsibility, issued
// after the join barrier so the last tick gap cannot hide completed files.
func watch(progress *Progress, interval time.Duration, stop <-chan struct{}, report ReportFunc) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			completed, total := progress.Snapshot()
			report(completed, total)
			if completed >= total {
				return
			}
		}
	}
}
