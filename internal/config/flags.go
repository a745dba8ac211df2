package config

import "github.com/spf13/pflag"

// Flags holds command-line overrides. Zero values leave the config untouched.
type Flags struct {
	Config     string
	Debug      bool
	Windowed   bool
	Fullscreen bool
	Mute       bool
	Width      int
	Height     int
	State      string
}

// BindFlags registers the override flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&f.Windowed, "windowed", false, "Run in windowed mode")
	fs.BoolVar(&f.Fullscreen, "fullscreen", false, "Run in fullscreen mode")
	fs.BoolVar(&f.Mute, "mute", false, "Disable audio")
	fs.IntVar(&f.Width, "width", 0, "Window width")
	fs.IntVar(&f.Height, "height", 0, "Window height")
	fs.StringVar(&f.State, "state", "", "Name of the state to start in")
	return f
}

// ConfigPath returns the explicit config path if one was given.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return f.Config
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
		cfg.Graphics.ShowStats = true
	}
	if f.Windowed {
		cfg.Graphics.Fullscreen = false
	}
	if f.Fullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if f.Mute {
		cfg.Audio.Enabled = false
	}
	if f.Width > 0 {
		cfg.Graphics.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Graphics.Height = f.Height
	}
	if f.State != "" {
		cfg.Demo.InitialState = f.State
	}
}
