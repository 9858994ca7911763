// Package index persists the queryable caption index in SQLite.
//
// The Store holds two logical tables: lines (one row per caption record) and
// scopes (the sorted distinct scope list derived from lines). A reindex run
// replaces both inside a single transaction, so readers observe either the
// entirely-old or entirely-new index, never a half-applied replace. The store
// is single-writer by construction; only the reindex coordinator publishes.
//
// Search is unranked case-insensitive substring matching. Spaces inside a
// query act as wildcards spanning any run of characters.
package index
