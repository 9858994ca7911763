package index

import (
	"strings"

	"golang.org/x/text/cases"
)

// fold lowercases text for matching using full Unicode case folding. Both the
// stored shadow columns and incoming queries pass through this, so matching
// stays case-insensitive beyond ASCII. Casers are stateful, so one is built
// per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// likePattern turns a user query into a SQL LIKE pattern over the folded
// columns: case-folded, wrapped in wildcards, with internal spaces widened to
// match any run of characters.
func likePattern(query string) string {
	folded := fold(strings.TrimSpace(query))
	folded = strings.ReplaceAll(folded, " ", "%")
	return "%" + folded + "%"
}
