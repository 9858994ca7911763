package config

const (
	defaultRootDir            = "."
	defaultDataDir            = "~/.local/share/uttale"
	defaultLogDir             = "~/.local/share/uttale/logs"
	defaultAPIBind            = "0.0.0.0:7010"
	defaultFFmpegBinary       = "ffmpeg"
	defaultPlayerBinary       = "play"
	defaultTranscodeTimeout   = 60
	defaultCleanupDelay       = 5
	defaultWorkerCap          = 8
	defaultProgressIntervalMS = 500
	defaultCaptionExtension   = ".vtt"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

func defaultAudioExtensions() []string {
	return []string{".ogg", ".opus", ".mp3", ".m4a", ".flac"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RootDir: defaultRootDir,
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Audio: Audio{
			Extensions:       defaultAudioExtensions(),
			FFmpegBinary:     defaultFFmpegBinary,
			PlayerBinary:     defaultPlayerBinary,
			TranscodeTimeout: defaultTranscodeTimeout,
			CleanupDelay:     defaultCleanupDelay,
		},
		Reindex: Reindex{
			ProgressIntervalMS: defaultProgressIntervalMS,
			CaptionExtension:   defaultCaptionExtension,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
