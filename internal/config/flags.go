package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed    = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen  = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
	flagScene       = flag.String("scene", "", "Scene definition file (.yaml, .yml or .toml)")
	flagWatch       = flag.Bool("watch", false, "Reload the scene file when it changes")
	flagResolution  = flag.Int("resolution", 0, "Sphere tessellation resolution")
	flagTimeScale   = flag.Float64("time-scale", 0, "Simulation speed multiplier")
	flagWorkers     = flag.Int("workers", 0, "Goroutines used to compute body transforms")
	flagScreenshots = flag.String("screenshots", "", "Directory for F12 screenshots")
	flagWriteConfig = flag.Bool("write-config", false, "Write the effective config to the config directory and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigRequested reports whether --write-config was given.
func WriteConfigRequested() bool {
	return *flagWriteConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagScene != "" {
		cfg.Scene.Path = *flagScene
	}
	if *flagWatch {
		cfg.Scene.Watch = true
	}
	if *flagResolution > 0 {
		cfg.Simulation.SphereResolution = *flagResolution
	}
	if *flagTimeScale > 0 {
		cfg.Simulation.TimeScale = *flagTimeScale
	}
	if *flagWorkers > 0 {
		cfg.Simulation.Workers = *flagWorkers
	}
	if *flagScreenshots != "" {
		cfg.Debug.ScreenshotDir = *flagScreenshots
	}
}
