package config

import "github.com/spf13/pflag"

var (
	flagConfig   string
	flagDebug    bool
	flagQuality  int
	flagMaxSize  int
	flagIndent   bool
	flagStrictUV bool
	flagLogFile  string
)

// BindFlags registers the override flags on fs. The cobra root command
// binds them as persistent flags.
func BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&flagConfig, "config", "", "Path to config file")
	fs.BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	fs.IntVar(&flagQuality, "quality", 0, "JPEG quality for exported textures (1-100)")
	fs.IntVar(&flagMaxSize, "max-texture-size", 0, "Downscale textures to this longest edge")
	fs.BoolVar(&flagIndent, "indent", false, "Pretty-print the scene document")
	fs.BoolVar(&flagStrictUV, "strict-uv", false, "Fail on meshes without a UV layer")
	fs.StringVar(&flagLogFile, "log-file", "", "Also log to this file")
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if flagDebug {
		cfg.Logging.Level = "debug"
	}
	if flagQuality > 0 {
		cfg.Textures.Quality = flagQuality
	}
	if flagMaxSize > 0 {
		cfg.Textures.MaxSize = flagMaxSize
	}
	if flagIndent {
		cfg.Output.Indent = true
	}
	if flagStrictUV {
		cfg.Geometry.StrictUV = true
	}
	if flagLogFile != "" {
		cfg.Logging.LogFile = flagLogFile
	}
}
