package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"uttale/internal/captions"
	"uttale/internal/config"
	"uttale/internal/logging"
	"uttale/internal/services"
)

const cacheControl = "max-age=86400"

// Segment is the outcome of one extraction: the audio bytes plus the HTTP
// metadata describing them. Partial is true for byte-range slices, which the
// API answers with 206.
type Segment struct {
	Data    []byte
	Headers map[string]string
	Partial bool
}

// Request names the slice of audio wanted. Start/End are caption timestamps;
// RangeHeader is a raw HTTP Range value. Supplying both a time window and a
// byte range is a caller error. All empty means the whole file.
type Request struct {
	Filename    string
	Start       string
	End         string
	RangeHeader string
}

// Extractor resolves audio files and serves sub-segments of them.
type Extractor struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewExtractor constructs an extractor rooted at the configured media root.
func NewExtractor(cfg *config.Config, logger *slog.Logger) *Extractor {
	return &Extractor{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "audio"),
	}
}

// Resolve returns the audio file backing the named caption file, trying the
// configured extensions in priority order. Filenames must stay inside the
// media root; absolute paths and ".." escapes are rejected.
func (e *Extractor) Resolve(filename string) (string, error) {
	rel := filepath.FromSlash(filename)
	if !filepath.IsLocal(rel) {
		return "", services.Wrap(services.ErrValidation, "audio", "resolve", "filename escapes the media root", nil)
	}
	base := filepath.Join(e.cfg.Paths.RootDir, rel)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, ext := range e.cfg.Audio.Extensions {
		candidate := base + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", services.Wrap(services.ErrNotFound, "audio", "resolve", "no audio file for "+filename, nil)
}

// Extract serves the requested slice of the audio file backing req.Filename.
func (e *Extractor) Extract(ctx context.Context, req Request) (Segment, error) {
	path, err := e.Resolve(req.Filename)
	if err != nil {
		return Segment{}, err
	}

	hasWindow := req.Start != "" || req.End != ""
	hasRange := strings.TrimSpace(req.RangeHeader) != ""
	switch {
	case hasWindow && hasRange:
		return Segment{}, services.Wrap(services.ErrValidation, "audio", "extract",
			"cannot combine a Range header with start/end parameters", nil)
	case hasRange:
		return e.byteRange(path, req.RangeHeader)
	case hasWindow:
		return e.timeWindow(ctx, path, req.Start, req.End)
	default:
		return wholeFile(path)
	}
}

func wholeFile(path string) (Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Segment{}, services.Wrap(services.ErrNotFound, "audio", "read", "audio file vanished", nil)
		}
		return Segment{}, services.Wrap(services.ErrExternalTool, "audio", "read", "read audio file", err)
	}
	return Segment{
		Data:    data,
		Headers: map[string]string{"Cache-Control": cacheControl},
	}, nil
}

func (e *Extractor) byteRange(path, rangeHeader string) (Segment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Segment{}, services.Wrap(services.ErrNotFound, "audio", "byte range", "audio file vanished", nil)
	}
	size := info.Size()

	start, end, err := parseByteRange(rangeHeader, size)
	if err != nil {
		return Segment{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return Segment{}, services.Wrap(services.ErrExternalTool, "audio", "byte range", "open audio file", err)
	}
	defer file.Close()

	data := make([]byte, end-start+1)
	if _, err := file.ReadAt(data, start); err != nil {
		return Segment{}, services.Wrap(services.ErrExternalTool, "audio", "byte range", "read audio slice", err)
	}

	return Segment{
		Data: data,
		Headers: map[string]string{
			"Content-Range":  fmt.Sprintf("bytes %d-%d/%d", start, end, size),
			"Accept-Ranges":  "bytes",
			"Content-Length": strconv.FormatInt(end-start+1, 10),
			"Cache-Control":  cacheControl,
		},
		Partial: true,
	}, nil
}

// parseByteRange resolves a "bytes=start-end" header against the file size.
// Open ends default to 0 and size-1. The satisfiable upper bound is size-1.
func parseByteRange(header string, size int64) (start, end int64, err error) {
	value, found := strings.CutPrefix(strings.TrimSpace(header), "bytes=")
	if !found {
		return 0, 0, services.Wrap(services.ErrValidation, "audio", "byte range", "invalid range header", nil)
	}
	startText, endText, found := strings.Cut(value, "-")
	if !found {
		return 0, 0, services.Wrap(services.ErrValidation, "audio", "byte range", "invalid range header", nil)
	}

	start, end = 0, size-1
	if trimmed := strings.TrimSpace(startText); trimmed != "" {
		if start, err = strconv.ParseInt(trimmed, 10, 64); err != nil {
			return 0, 0, services.Wrap(services.ErrValidation, "audio", "byte range", "invalid range header", nil)
		}
	}
	if trimmed := strings.TrimSpace(endText); trimmed != "" {
		if end, err = strconv.ParseInt(trimmed, 10, 64); err != nil {
			return 0, 0, services.Wrap(services.ErrValidation, "audio", "byte range", "invalid range header", nil)
		}
	}

	if start < 0 || start >= size || end >= size || start > end {
		return 0, 0, services.Wrap(services.ErrUnsatisfiableRange, "audio", "byte range",
			fmt.Sprintf("bytes %d-%d outside size %d", start, end, size), nil)
	}
	return start, end, nil
}

func (e *Extractor) timeWindow(ctx context.Context, path, start, end string) (Segment, error) {
	startSec, err := captions.ParseTimestamp(start)
	if err != nil {
		return Segment{}, services.Wrap(services.ErrValidation, "audio", "time window", "invalid start time", err)
	}
	endSec, err := captions.ParseTimestamp(end)
	if err != nil {
		return Segment{}, services.Wrap(services.ErrValidation, "audio", "time window", "invalid end time", err)
	}
	duration := endSec - startSec
	if duration <= 0 {
		return Segment{}, services.Wrap(services.ErrValidation, "audio", "time window",
			"end time must be greater than start time", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(e.cfg.Audio.TranscodeTimeout)*time.Second)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.cfg.Audio.FFmpegBinary,
		"-ss", formatSeconds(startSec),
		"-t", formatSeconds(duration),
		"-i", path,
		"-f", "ogg",
		"pipe:1",
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		e.logger.Error("transcode failed",
			logging.String("file", filepath.Base(path)),
			logging.String("stderr", tail(stderr.String(), 400)),
			logging.Error(err),
		)
		// The caller gets a generic failure; absolute paths stay in the log.
		return Segment{}, services.Wrap(services.ErrExternalTool, "audio", "time window", "audio processing failed", nil)
	}

	return Segment{
		Data:    stdout.Bytes(),
		Headers: map[string]string{"Cache-Control": cacheControl},
	}, nil
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}

func tail(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[len(s)-max:]
}
