package config

const (
	defaultLogDir             = "~/.local/share/scrub/logs"
	defaultLedgerPath         = "~/.local/share/scrub/ledger.db"
	defaultWorkDir            = "~/.local/share/scrub/work"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLanguage           = "en"
	defaultFFmpegBinary       = "ffmpeg"
	defaultFFprobeBinary      = "ffprobe"
	defaultBlurSigma          = 20.0
	defaultBlurSteps          = 1
	defaultBlackColor         = "black"
	defaultVideoCodec         = "libx264"
	defaultCRF                = 23
	defaultPreset             = "medium"
	defaultAudioCodec         = "aac"
	defaultAudioBitrate       = "192k"
	defaultWatchSettleSeconds = 2
)

func defaultVideoExtensions() []string {
	return []string{".mp4", ".mkv", ".avi", ".mov", ".m4v", ".ts"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:          defaultLogDir,
			LedgerPath:      defaultLedgerPath,
			WorkDir:         defaultWorkDir,
			VideoExtensions: defaultVideoExtensions(),
		},
		Filters: Filters{
			BlurSigma:  defaultBlurSigma,
			BlurSteps:  defaultBlurSteps,
			BlackColor: defaultBlackColor,
		},
		Run: Run{
			WatchSettleSeconds: defaultWatchSettleSeconds,
		},
		Subtitles: Subtitles{
			Language: defaultLanguage,
		},
		Tools: Tools{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Logging: Logging{
			Level:     defaultLogLevel,
			Format:    defaultLogFormat,
			LogToFile: true,
		},
		Encode: Encode{
			VideoCodec:   defaultVideoCodec,
			CRF:          defaultCRF,
			Preset:       defaultPreset,
			AudioCodec:   defaultAudioCodec,
			AudioBitrate: defaultAudioBitrate,
		},
	}
}
