// Package captions parses WebVTT caption files into timestamped records.
//
// The parser is deliberately forgiving at the cue level: timestamps are stored
// as written, end-before-start cues are kept verbatim, and unparseable cue
// blocks are skipped. A file that is not WebVTT at all yields an error, which
// the reindex pipeline swallows per file.
package captions
