// Package framework is the engine context shared by every application
// state: scene root, viewport, overlay tray, input devices, audio and the
// display they are drawn to.
package framework

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/appstate-demo/internal/engine/debug"
	"github.com/Faultbox/appstate-demo/internal/engine/input"
	"github.com/Faultbox/appstate-demo/internal/engine/overlay"
	"github.com/Faultbox/appstate-demo/internal/engine/scene"
	"github.com/Faultbox/appstate-demo/internal/logger"
)

// Options configures a Framework.
type Options struct {
	Display       Display
	Audio         Audio                  // nil means silent
	Materials     *scene.MaterialLibrary // nil means built-ins
	ScreenshotDir string
	ShowStats     bool
	Clock         func() time.Time // nil means time.Now
}

// Framework owns the engine objects that outlive any single state.
type Framework struct {
	root     *scene.Root
	viewport *scene.Viewport
	tray     *overlay.Tray
	devices  *input.Devices
	display  Display
	audio    Audio
	shots    *debug.ScreenshotCapture

	polygonMode  PolygonMode
	shuttingDown bool
	closed       bool

	clock      func() time.Time
	lastFrame  time.Time
	lastRender time.Time
}

// New creates the framework around an already opened display.
func New(opts Options) (*Framework, error) {
	if opts.Display == nil {
		return nil, errors.New("framework: display is required")
	}
	if opts.Audio == nil {
		opts.Audio = NopAudio{}
	}
	if opts.Materials == nil {
		opts.Materials = scene.DefaultMaterials()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	w, h := opts.Display.Size()
	now := opts.Clock()
	f := &Framework{
		root:       scene.NewRoot(opts.Materials),
		viewport:   scene.NewViewport(w, h),
		tray:       overlay.NewTray(w, h),
		devices:    input.NewDevices(),
		display:    opts.Display,
		audio:      opts.Audio,
		shots:      debug.NewScreenshotCapture(opts.ScreenshotDir, "screenshot"),
		clock:      opts.Clock,
		lastFrame:  now,
		lastRender: now,
	}
	if opts.ShowStats {
		f.tray.ShowFrameStats(overlay.BottomLeft)
	}

	logger.Info("framework initialized", zap.Int("width", w), zap.Int("height", h))
	return f, nil
}

// Root returns the scene root.
func (f *Framework) Root() *scene.Root { return f.root }

// Viewport returns the window viewport.
func (f *Framework) Viewport() *scene.Viewport { return f.viewport }

// Tray returns the overlay tray manager.
func (f *Framework) Tray() *overlay.Tray { return f.tray }

// Devices returns the keyboard and mouse state.
func (f *Framework) Devices() *input.Devices { return f.devices }

// Audio returns the audio backend.
func (f *Framework) Audio() Audio { return f.audio }

// PolygonMode returns the current rasterization mode.
func (f *Framework) PolygonMode() PolygonMode { return f.polygonMode }

// ElapsedFrameTime returns the seconds since the previous call (or since New
// for the first call).
func (f *Framework) ElapsedFrameTime() float64 {
	now := f.clock()
	dt := now.Sub(f.lastFrame).Seconds()
	f.lastFrame = now
	if dt < 0 {
		return 0
	}
	return dt
}

// PumpEvents dispatches pending device events to l and picks up window
// resizes. A close request from the window starts shutdown.
func (f *Framework) PumpEvents(l input.Listener) {
	if f.display.PumpEvents(f.devices, l) {
		logger.Info("window close requested")
		f.shuttingDown = true
	}

	w, h := f.display.Size()
	if w != f.viewport.ActualWidth() || h != f.viewport.ActualHeight() {
		f.viewport.Resize(w, h)
		f.tray.Resize(w, h)
		logger.Debug("viewport resized", zap.Int("width", w), zap.Int("height", h))
	}
}

// RenderOneFrame advances the overlay and draws the viewport's camera view
// with the overlay on top.
func (f *Framework) RenderOneFrame() error {
	now := f.clock()
	f.tray.Update(now.Sub(f.lastRender).Seconds())
	f.lastRender = now

	return f.display.Render(Frame{
		Viewport:      f.viewport,
		Camera:        f.viewport.Camera(),
		Materials:     f.root.Materials(),
		Overlay:       f.tray.Primitives(),
		PolygonMode:   f.polygonMode,
		CursorVisible: f.tray.IsCursorVisible(),
	})
}

// IsShuttingDown reports whether shutdown was requested.
func (f *Framework) IsShuttingDown() bool { return f.shuttingDown }

// RequestShutdown asks the frame loop to stop.
func (f *Framework) RequestShutdown() { f.shuttingDown = true }

// Screenshot captures the last frame to a PNG file and returns its path.
func (f *Framework) Screenshot() (string, error) {
	pixels, w, h, err := f.display.Capture()
	if err != nil {
		return "", err
	}
	return f.shots.CaptureFromPixels(pixels, w, h)
}

// KeyPressed is the default handler states fall back to for keys they do
// not use: SysRq or F12 saves a screenshot, O toggles the frame stats and M
// cycles the polygon mode.
func (f *Framework) KeyPressed(e input.KeyEvent) bool {
	switch e.Key {
	case input.KeySysRq, input.KeyF12:
		path, err := f.Screenshot()
		if err != nil {
			logger.Warn("screenshot failed", zap.Error(err))
			return true
		}
		logger.Info("screenshot saved", zap.String("path", path))
	case input.KeyO:
		f.tray.ToggleFrameStats()
	case input.KeyM:
		f.polygonMode = f.polygonMode.next()
		logger.Debug("polygon mode", zap.Stringer("mode", f.polygonMode))
	default:
		return false
	}
	return true
}

// KeyReleased is the default release handler.
func (f *Framework) KeyReleased(e input.KeyEvent) bool {
	return true
}

// Close releases audio and the display. It is safe to call twice.
func (f *Framework) Close() {
	if f.closed {
		return
	}
	f.closed = true
	logger.Info("closing framework")

	f.audio.Close()
	f.display.Close()
}
