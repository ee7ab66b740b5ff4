package config

const (
	defaultConfigPath      = "~/.config/imgopt/config.toml"
	defaultCompressQuality = 75
	defaultCompressScale   = 1.0
	defaultCompressSubdir  = "comp"
	defaultConvertQuality  = 75
	defaultConvertSubdir   = "webps"
	defaultRenameTimeZone  = "America/Chicago"
	defaultRenameSubdir    = "renamed"
	defaultLogFormat       = "console"
	defaultLogLevel        = "warn"
	maxQuality             = 100
	minQuality             = 0
	maxWorkers             = 256
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			PicturesDir: defaultPicturesDir(),
		},
		Compress: Compress{
			Quality:      defaultCompressQuality,
			Scale:        defaultCompressScale,
			OutputSubdir: defaultCompressSubdir,
		},
		Convert: Convert{
			Quality:      defaultConvertQuality,
			OutputSubdir: defaultConvertSubdir,
		},
		Rename: Rename{
			TimeZone:     defaultRenameTimeZone,
			OutputSubdir: defaultRenameSubdir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
