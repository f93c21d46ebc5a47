// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Camera     CameraConfig     `yaml:"camera"`
	Simulation SimulationConfig `yaml:"simulation"`
	Scene      SceneConfig      `yaml:"scene"`
	Debug      DebugConfig      `yaml:"debug"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	Wireframe  bool       `yaml:"wireframe"`
	ClearColor [3]float32 `yaml:"clear_color"`
}

// CameraConfig holds the initial camera state.
type CameraConfig struct {
	Position [3]float32 `yaml:"position"`
	Target   [3]float32 `yaml:"target"`
	FOV      float32    `yaml:"fov"` // vertical, degrees
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	MoveStep float32    `yaml:"move_step"` // distance per arrow key press
}

// SimulationConfig holds animation settings.
type SimulationConfig struct {
	TimeScale        float64 `yaml:"time_scale"`
	Paused           bool    `yaml:"paused"`
	Workers          int     `yaml:"workers"` // >1 evaluates body transforms concurrently
	SphereResolution int     `yaml:"sphere_resolution"`
}

// SceneConfig selects the scene definition file.
type SceneConfig struct {
	Path  string `yaml:"path"` // empty uses the built-in sun/earth/moon scene
	Watch bool   `yaml:"watch"`
}

// DebugConfig holds developer tooling settings.
type DebugConfig struct {
	ScreenshotDir    string `yaml:"screenshot_dir"`
	ScreenshotFormat string `yaml:"screenshot_format"` // png or webp
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1024,
			Height:     768,
			Fullscreen: false,
			VSync:      true,
			Wireframe:  false,
			ClearColor: [3]float32{0, 0, 0},
		},
		Camera: CameraConfig{
			Position: [3]float32{0, 0, 20},
			Target:   [3]float32{0, 0, 0},
			FOV:      45,
			Near:     0.1,
			Far:      80.1,
			MoveStep: 0.1,
		},
		Simulation: SimulationConfig{
			TimeScale:        1,
			Paused:           false,
			Workers:          1,
			SphereResolution: 16,
		},
		Scene: SceneConfig{
			Path:  "",
			Watch: false,
		},
		Debug: DebugConfig{
			ScreenshotDir:    "screenshots",
			ScreenshotFormat: "png",
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}
