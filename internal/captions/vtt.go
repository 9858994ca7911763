package captions

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Record is one timestamped caption line. Scope is the caption file's path
// relative to the indexed root, forward-slash separated. Start and End are
// caption timestamps as written in the file; Text may span multiple lines but
// is stored as a single string.
type Record struct {
	Scope string `json:"filename"`
	Start string `json:"start"`
	End   string `json:"end"`
	Text  string `json:"text"`
}

// ParseFile reads the caption file at rel under root and returns its cue
// records. The scope of every record is rel normalized to forward slashes.
func ParseFile(root, rel string) ([]Record, error) {
	scope := filepath.ToSlash(rel)
	data, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		return nil, fmt.Errorf("read caption file: %w", err)
	}
	return parse(scope, string(data))
}

func parse(scope, content string) ([]Record, error) {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")

	header, _, _ := strings.Cut(strings.TrimLeft(content, "\n"), "\n")
	if !strings.HasPrefix(header, "WEBVTT") {
		return nil, fmt.Errorf("missing WEBVTT header in %s", scope)
	}

	var records []Record
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.Trim(block, "\n")
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		if skipBlock(lines[0]) {
			continue
		}
		rec, ok := cueRecord(scope, lines)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// skipBlock reports whether a block is metadata rather than a cue.
func skipBlock(first string) bool {
	switch {
	case strings.HasPrefix(first, "WEBVTT"),
		strings.HasPrefix(first, "NOTE"),
		strings.HasPrefix(first, "STYLE"),
		strings.HasPrefix(first, "REGION"):
		return true
	}
	return false
}

func cueRecord(scope string, lines []string) (Record, bool) {
	for i, line := range lines {
		if !strings.Contains(line, "-->") {
			continue
		}
		start, rest, found := strings.Cut(line, "-->")
		if !found {
			continue
		}
		// Cue settings may trail the end timestamp.
		end := strings.TrimSpace(rest)
		if idx := strings.IndexAny(end, " \t"); idx >= 0 {
			end = end[:idx]
		}
		text := strings.Join(lines[i+1:], "\n")
		if strings.TrimSpace(text) == "" {
			return Record{}, false
		}
		return Record{
			Scope: scope,
			Start: strings.TrimSpace(start),
			End:   end,
			Text:  text,
		}, true
	}
	return Record{}, false
}
