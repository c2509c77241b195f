package config

const (
	defaultCacheDir            = "~/.cache/avstream"
	defaultLogDir              = "~/.local/share/avstream/logs"
	defaultMinDuration         = 0.1
	defaultMaxDuration         = 0.0
	defaultSampleRate          = 16000
	defaultFFmpegBinary        = "ffmpeg"
	defaultFFprobeBinary       = "ffprobe"
	defaultShardStrategy       = "scatter"
	defaultPadID               = 0
	defaultBOSID               = -1
	defaultEOSID               = -1
	defaultDatastoreMaxGiB     = 50
	defaultFetchTimeoutSeconds = 300
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir: defaultCacheDir,
			LogDir:   defaultLogDir,
		},
		Manifest: Manifest{
			MinDuration: defaultMinDuration,
			MaxDuration: defaultMaxDuration,
		},
		Audio: Audio{
			SampleRate: defaultSampleRate,
		},
		Video: Video{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Loader: Loader{
			ShardStrategy: defaultShardStrategy,
			PadID:         defaultPadID,
			BOSID:         defaultBOSID,
			EOSID:         defaultEOSID,
		},
		Datastore: Datastore{
			MaxGiB:              defaultDatastoreMaxGiB,
			FetchTimeoutSeconds: defaultFetchTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
