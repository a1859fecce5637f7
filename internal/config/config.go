// Package config handles configuration loading for the earthglobe tools.
package config

// Config holds all settings.
type Config struct {
	Globe   GlobeConfig   `yaml:"globe"`
	Render  RenderConfig  `yaml:"render"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// GlobeConfig configures the globe component.
type GlobeConfig struct {
	Size          float64 `yaml:"size"`
	DayTexture    string  `yaml:"day_texture"`
	NightTexture  string  `yaml:"night_texture"`
	RotationSpeed float64 `yaml:"rotation_speed"`
	AutoRotate    *bool   `yaml:"auto_rotate"` // nil means true

	// SunMode is "realtime", "astro", or "manual".
	SunMode      string     `yaml:"sun_mode"`
	SunDirection [3]float64 `yaml:"sun_direction"` // manual mode only
	Time         string     `yaml:"time"`          // RFC3339; pins the time-based modes
}

// RenderConfig configures the software renderer and its camera.
type RenderConfig struct {
	Size            int     `yaml:"size"`
	Supersample     int     `yaml:"supersample"`
	MaxTextureWidth int     `yaml:"max_texture_width"`
	Distance        float64 `yaml:"distance"`
	Azimuth         float64 `yaml:"azimuth"`
	Elevation       float64 `yaml:"elevation"`
	FOV             float64 `yaml:"fov"`
}

// ServerConfig configures the websocket preview server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	FPS  int    `yaml:"fps"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Globe: GlobeConfig{
			Size:          1.8,
			DayTexture:    "assets/world.200408.tif",
			NightTexture:  "assets/night.tif",
			RotationSpeed: 0.001,
			SunMode:       "realtime",
		},
		Render: RenderConfig{
			Size:        640,
			Supersample: 3,
			Distance:    6.0,
			Azimuth:     0.0,
			Elevation:   0.0,
			FOV:         40.0,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
			FPS:  30,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// AutoRotateEnabled resolves the tri-state auto_rotate setting.
func (g GlobeConfig) AutoRotateEnabled() bool {
	return g.AutoRotate == nil || *g.AutoRotate
}
