package audio

import (
	"context"
	"os"
	"os/exec"
	"time"

	"uttale/internal/logging"
	"uttale/internal/services"
)

// Play extracts the requested window, writes it to a transient file, and
// hands that file to the configured player process. The file is removed on a
// best-effort basis after the configured delay; deletion failures are ignored.
func (e *Extractor) Play(ctx context.Context, req Request) error {
	segment, err := e.Extract(ctx, req)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp("", "uttale-*.ogg")
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "audio", "play", "create playback file", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(segment.Data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrExternalTool, "audio", "play", "write playback file", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrExternalTool, "audio", "play", "close playback file", err)
	}

	cmd := exec.Command(e.cfg.Audio.PlayerBinary, tmpPath)
	if err := cmd.Start(); err != nil {
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrExternalTool, "audio", "play", "audio playback failed", err)
	}
	go func() {
		// Orphaned player processes would accumulate as zombies otherwise.
		_ = cmd.Wait()
	}()

	delay := time.Duration(e.cfg.Audio.CleanupDelay) * time.Second
	time.AfterFunc(delay, func() {
		_ = os.Remove(tmpPath)
	})

	e.logger.Info("playback started",
		logging.String("file", req.Filename),
		logging.String("start", req.Start),
		logging.String("end", req.End),
	)
	return nil
}
