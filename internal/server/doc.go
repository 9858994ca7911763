// Package server exposes the caption index and audio extractor over HTTP.
//
// It owns the thin query-service layer: request validation, translation of
// store and extractor errors into status codes, and fire-and-forget reindex
// triggering. A flock-based lock prevents two servers from sharing one index
// database.
package server
