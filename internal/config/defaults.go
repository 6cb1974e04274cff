package config

const (
	defaultOutputDir         = "output_stems"
	defaultWorkDir           = "~/.local/share/stemsplit/work"
	defaultLogDir            = "~/.local/share/stemsplit/logs"
	defaultSpleeterBinary    = "spleeter"
	defaultSpleeterStems     = 5
	defaultSpleeterCodec     = "wav"
	defaultSpleeterBitrate   = "320k"
	defaultDemucsBinary      = "demucs"
	defaultDemucsModel       = "htdemucs"
	defaultDemucsDevice      = "cpu"
	defaultDemucsStems       = 4
	defaultDemucsTwoStem     = "vocals"
	defaultDemucsFormat      = "wav"
	defaultDemucsMP3Bitrate  = 320
	defaultDemucsOverlap     = 0.25
	defaultTool              = "demucs"
	defaultTimeoutSeconds    = 3600
	defaultHistoryEnabled    = true
	defaultHistoryMaxRuns    = 500
	defaultLogFormat         = "auto"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:     defaultOutputDir,
			WorkDir:       defaultWorkDir,
			LogDir:        defaultLogDir,
			ModelCacheDir: defaultModelCacheDir(),
		},
		Spleeter: Spleeter{
			Binary:     defaultSpleeterBinary,
			Stems:      defaultSpleeterStems,
			Codec:      defaultSpleeterCodec,
			Bitrate:    defaultSpleeterBitrate,
			SixteenKHz: true,
		},
		Demucs: Demucs{
			Binary:        defaultDemucsBinary,
			Model:         defaultDemucsModel,
			Device:        defaultDemucsDevice,
			Stems:         defaultDemucsStems,
			TwoStemTarget: defaultDemucsTwoStem,
			Format:        defaultDemucsFormat,
			MP3Bitrate:    defaultDemucsMP3Bitrate,
			Overlap:       defaultDemucsOverlap,
		},
		Separation: Separation{
			DefaultTool:    defaultTool,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
			MaxRuns: defaultHistoryMaxRuns,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
