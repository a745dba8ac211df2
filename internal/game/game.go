// Package game wires the demo states to the engine and runs the frame loop.
package game

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/appstate-demo/internal/config"
	"github.com/Faultbox/appstate-demo/internal/engine/audio"
	"github.com/Faultbox/appstate-demo/internal/engine/display"
	"github.com/Faultbox/appstate-demo/internal/engine/framework"
	"github.com/Faultbox/appstate-demo/internal/engine/scene"
	"github.com/Faultbox/appstate-demo/internal/game/states"
	"github.com/Faultbox/appstate-demo/internal/logger"
)

// Game is the running demo: the engine framework plus the state stack.
type Game struct {
	cfg     *config.Config
	fw      *framework.Framework
	manager *states.Manager
}

// New opens the window and audio device and starts the demo on the
// configured initial state.
func New(cfg *config.Config) (*Game, error) {
	logger.Info("initializing demo",
		zap.String("title", cfg.Demo.Title),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	materials, err := scene.LoadMaterials(cfg.Demo.MaterialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load materials: %w", err)
	}

	// Window first, the GL context must exist before the renderer.
	disp, err := display.Open(display.Config{
		Title:      cfg.Demo.Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open display: %w", err)
	}

	var snd framework.Audio = framework.NopAudio{}
	if cfg.Audio.Enabled {
		mgr, err := audio.NewManager(audio.Config{
			MasterVolume: cfg.Audio.MasterVolume,
			MusicVolume:  cfg.Audio.MusicVolume,
			SFXVolume:    cfg.Audio.SFXVolume,
		})
		if err != nil {
			logger.Warn("audio disabled", zap.Error(err))
		} else {
			snd = mgr
		}
	}

	fw, err := framework.New(framework.Options{
		Display:       disp,
		Audio:         snd,
		Materials:     materials,
		ScreenshotDir: cfg.Demo.ScreenshotDir,
	})
	if err != nil {
		snd.Close()
		disp.Close()
		return nil, err
	}

	g, err := NewWithFramework(fw, cfg)
	if err != nil {
		fw.Close()
		return nil, err
	}
	logger.Info("demo initialized successfully")
	return g, nil
}

// NewWithFramework registers the demo states on fw and enters the
// configured initial state.
func NewWithFramework(fw *framework.Framework, cfg *config.Config) (*Game, error) {
	m := states.NewManager()
	for _, s := range []struct {
		name  string
		state states.State
	}{
		{states.MenuStateName, states.NewMenuState(fw, m, cfg)},
		{states.GameStateName, states.NewGameState(fw, m, cfg)},
		{states.PauseStateName, states.NewPauseState(fw, m, cfg)},
	} {
		if err := m.Register(s.name, s.state); err != nil {
			return nil, err
		}
	}

	initial := cfg.Demo.InitialState
	if initial == "" {
		initial = states.MenuStateName
	}
	if err := m.Start(initial); err != nil {
		m.Close()
		return nil, fmt.Errorf("failed to start %q: %w", initial, err)
	}
	return &Game{cfg: cfg, fw: fw, manager: m}, nil
}

// Framework returns the engine context.
func (g *Game) Framework() *framework.Framework { return g.fw }

// Manager returns the state stack.
func (g *Game) Manager() *states.Manager { return g.manager }

// Run drives frames until the stack empties, a state requests shutdown or
// the window is closed.
func (g *Game) Run() error {
	minDelta := g.cfg.Demo.MinFrameDelta.Seconds()

	var (
		accum      float64
		frameCount int
		fpsTimer   float64
	)

	logger.Info("starting frame loop")
	for !g.manager.Done() && !g.fw.IsShuttingDown() {
		g.fw.PumpEvents(g.manager)
		if g.fw.IsShuttingDown() {
			break
		}

		// Zero-length frames are skipped even when no minimum is set.
		accum += g.fw.ElapsedFrameTime()
		if accum <= 0 || accum < minDelta {
			continue
		}
		dt := accum
		accum = 0

		if err := g.manager.Update(dt); err != nil {
			return fmt.Errorf("update error: %w", err)
		}
		if g.manager.Done() {
			break
		}
		if err := g.fw.RenderOneFrame(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		frameCount++
		fpsTimer += dt
		if fpsTimer >= 1 {
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Duration("dt", time.Duration(dt*float64(time.Second))))
			frameCount = 0
			fpsTimer = 0
		}
	}
	logger.Info("frame loop finished", zap.Strings("active", g.manager.Active()))
	return nil
}

// Close exits every active state and then shuts the engine down.
func (g *Game) Close() error {
	logger.Info("closing demo")
	err := g.manager.Close()
	g.fw.Close()
	return err
}
