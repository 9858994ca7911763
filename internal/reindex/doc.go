// Package reindex implements the caption reindex pipeline.
//
// A run discovers caption files under the configured root, partitions them
// into contiguous chunks, parses each chunk on its own worker, and publishes
// the merged records to the index store as one atomic replace. A shared
// Progress counter, incremented once per file under a mutex, feeds a reporter
// that polls at a fixed interval and emits a final 100% sample after the join
// barrier.
//
// Failure policy: per-file parse failures are swallowed (the file is simply
// absent from the index); a discovery failure or an empty root degrades the
// whole run to a no-op, leaving the previous index untouched. Concurrent runs
// are not mutually excluded; the last run to reach the publish transaction
// wins.
package reindex
