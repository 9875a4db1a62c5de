package config

const (
	defaultBaseDir     = "/data"
	defaultLogDir      = "~/.local/share/subgen/logs"
	defaultWorkDir     = "~/.cache/subgen/work"
	defaultWebBind     = "127.0.0.1:8000"
	defaultModel       = "small"
	defaultComputeType = "int8_float16"
	defaultBeamSize    = 5
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			BaseDir: defaultBaseDir,
			LogDir:  defaultLogDir,
			WorkDir: defaultWorkDir,
		},
		Whisper: Whisper{
			Model:       defaultModel,
			ComputeType: defaultComputeType,
			BeamSize:    defaultBeamSize,
			VADFilter:   true,
		},
		Scan: Scan{
			Recursive: true,
		},
		Web: Web{
			Bind: defaultWebBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
