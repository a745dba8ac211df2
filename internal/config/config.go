// Package config handles demo configuration loading and management.
package config

import "time"

// Config holds all demo settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Audio    AudioConfig    `yaml:"audio"`
	Camera   CameraConfig   `yaml:"camera"`
	Demo     DemoConfig     `yaml:"demo"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	ShowStats  bool `yaml:"show_stats"`
}

// AudioConfig holds audio settings. Empty paths disable the sound.
type AudioConfig struct {
	Enabled      bool    `yaml:"enabled"`
	MasterVolume float64 `yaml:"master_volume"`
	MusicVolume  float64 `yaml:"music_volume"`
	SFXVolume    float64 `yaml:"sfx_volume"`
	MenuMusic    string  `yaml:"menu_music"`
	ClickSound   string  `yaml:"click_sound"`
}

// CameraConfig holds free-look camera tuning for the game state.
type CameraConfig struct {
	MoveSpeed        float32 `yaml:"move_speed"`        // units per second
	MouseSensitivity float32 `yaml:"mouse_sensitivity"` // degrees per pixel
}

// DemoConfig holds state stack and frame loop settings.
type DemoConfig struct {
	Title         string        `yaml:"title"`
	InitialState  string        `yaml:"initial_state"`
	MinFrameDelta time.Duration `yaml:"min_frame_delta"`
	MaterialsFile string        `yaml:"materials_file"`
	ScreenshotDir string        `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1024,
			Height:     768,
			Fullscreen: false,
			VSync:      true,
			ShowStats:  true,
		},
		Audio: AudioConfig{
			Enabled:      true,
			MasterVolume: 0.8,
			MusicVolume:  0.7,
			SFXVolume:    0.8,
		},
		Camera: CameraConfig{
			MoveSpeed:        100,
			MouseSensitivity: 0.1,
		},
		Demo: DemoConfig{
			Title:         "AppState Demo",
			InitialState:  "MenuState",
			MinFrameDelta: 100 * time.Microsecond,
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
