package reindex

import (
	"io/fs"
	"path/filepath"
	"strings"

	"uttale/internal/services"
)

// discover walks root and returns the relative paths of all caption files,
// forward-slash separated, in lexical walk order.
func discover(root, extension string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), extension) {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrDiscovery, "reindex", "discover", "walk caption root", err)
	}
	return files, nil
}

// partition splits files into at most workers contiguous chunks of near-equal
// size, preserving discovery order within each chunk.
func partition(files []string, workers int) [][]string {
	if len(files) == 0 || workers <= 0 {
		return nil
	}
	chunkSize := (len(files) + workers - 1) / workers
	var chunks [][]string
	for start := 0; start < len(files); start += chunkSize {
		end := start + chunkSize
		if end > len(files) {
			end = len(files)
		}
		chunks = append(chunks, files[start:end])
	}
	return chunks
}
