package server

import "uttale/internal/captions"

// ScopesResponse echoes the query alongside matching scope names.
type ScopesResponse struct {
	Q            string   `json:"q"`
	Limit        int      `json:"limit"`
	ResultsCount int      `json:"results_count"`
	Results      []string `json:"results"`
}

// SearchResponse echoes the query alongside matching caption records.
type SearchResponse struct {
	Q            string            `json:"q"`
	Scope        string            `json:"scope"`
	Limit        int               `json:"limit"`
	ResultsCount int               `json:"results_count"`
	Results      []captions.Record `json:"results"`
}

// PlayResponse reports a started playback.
type PlayResponse struct {
	Filename string `json:"filename"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Status   string `json:"status"`
}

// ReindexResponse acknowledges a background reindex trigger.
type ReindexResponse struct {
	Status string `json:"status"`
}

// StatusResponse summarizes the live index.
type StatusResponse struct {
	Lines  int64 `json:"lines"`
	Scopes int64 `json:"scopes"`
}
