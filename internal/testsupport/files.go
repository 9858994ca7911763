package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Cue is one caption for WriteVTT.
type Cue struct {
	Start string
	End   string
	Text  string
}

// WriteVTT writes a well-formed WebVTT file at rel under root.
func WriteVTT(t testing.TB, root, rel string, cues ...Cue) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("WEBVTT\n")
	for _, cue := range cues {
		fmt.Fprintf(&sb, "\n%s --> %s\n%s\n", cue.Start, cue.End, cue.Text)
	}
	return WriteFile(t, root, rel, sb.String())
}

// WriteFile writes content at rel under root, creating parent directories.
func WriteFile(t testing.TB, root, rel, content string) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteBytes writes size bytes of a repeating pattern at rel under root.
func WriteBytes(t testing.TB, root, rel string, size int) string {
	t.Helper()

	data := make([]byte, size)
	for i := range data {
		data[i] = byte('a' + i%26)
	}
	return WriteFile(t, root, rel, string(data))
}
