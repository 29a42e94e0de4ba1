package config

const (
	defaultOutputDir          = "~/Music/soundrip"
	defaultLogDir             = "~/.local/share/soundrip/logs"
	defaultOutputExtension    = ".mp3"
	defaultAudioCodec         = "libmp3lame"
	defaultAudioBitrate       = "192k"
	defaultFileTimeoutSeconds = 0
	defaultNtfyRequestTimeout = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

func defaultInputExtensions() []string {
	return []string{".mp4"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Convert: Convert{
			InputExtensions: defaultInputExtensions(),
			OutputExtension: defaultOutputExtension,
			AudioCodec:      defaultAudioCodec,
			AudioBitrate:    defaultAudioBitrate,
			FileTimeout:     defaultFileTimeoutSeconds,
		},
		FFmpeg: FFmpeg{
			Binary:      "ffmpeg",
			ProbeBinary: "ffprobe",
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
			BatchStarted:   true,
			BatchFinished:  true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
