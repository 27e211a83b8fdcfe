// Package config handles exporter configuration loading and management.
package config

// Config holds all exporter settings.
type Config struct {
	Scene    SceneConfig    `yaml:"scene"`
	Textures TextureConfig  `yaml:"textures"`
	Geometry GeometryConfig `yaml:"geometry"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SceneConfig holds the scalar scene settings written to every document.
type SceneConfig struct {
	ShadowRayEpsilon  float64    `yaml:"shadow_ray_epsilon"`
	MaxRecursionDepth int        `yaml:"max_recursion_depth"`
	AmbientLight      [3]float64 `yaml:"ambient_light"`
}

// TextureConfig holds texture export settings.
type TextureConfig struct {
	Dir     string     `yaml:"dir"`      // Subdirectory beside the document
	Quality int        `yaml:"quality"`  // JPEG quality, 1-100
	MaxSize int        `yaml:"max_size"` // Longest edge in pixels, 0 = keep
	Matte   [3]float64 `yaml:"matte"`    // Color transparent pixels are flattened onto
}

// GeometryConfig holds mesh export settings.
type GeometryConfig struct {
	StrictUV bool `yaml:"strict_uv"` // Fail on any mesh without UVs
}

// OutputConfig holds document rendering settings.
type OutputConfig struct {
	Indent bool `yaml:"indent"`
	Header bool `yaml:"header"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Scene: SceneConfig{
			ShadowRayEpsilon:  1e-3,
			MaxRecursionDepth: 6,
		},
		Textures: TextureConfig{
			Dir:     "textures",
			Quality: 90,
			Matte:   [3]float64{1, 1, 1},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
