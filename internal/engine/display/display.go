// Package display is the SDL/OpenGL implementation of framework.Display:
// a window, the scene renderer and the overlay renderer.
package display

import (
	"fmt"

	"github.com/Faultbox/appstate-demo/internal/engine/framework"
	"github.com/Faultbox/appstate-demo/internal/engine/input"
	"github.com/Faultbox/appstate-demo/internal/engine/renderer"
	"github.com/Faultbox/appstate-demo/internal/engine/ui2d"
	"github.com/Faultbox/appstate-demo/internal/engine/window"
)

// Config holds window settings.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// Display draws frames into an SDL window.
type Display struct {
	window   *window.Window
	scene    *renderer.Renderer
	overlay  *ui2d.Renderer
	drawW    int
	drawH    int
	logicalW int
	logicalH int
}

var _ framework.Display = (*Display)(nil)

// Open creates the window and both renderers.
func Open(cfg Config) (*Display, error) {
	win, err := window.New(window.Config{
		Title:      cfg.Title,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Fullscreen: cfg.Fullscreen,
		VSync:      cfg.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	d := &Display{window: win}
	d.drawW, d.drawH = win.DrawableSize()
	d.logicalW, d.logicalH = win.Size()

	d.scene, err = renderer.New(renderer.Config{Width: d.drawW, Height: d.drawH})
	if err != nil {
		win.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	d.overlay, err = ui2d.New(d.logicalW, d.logicalH)
	if err != nil {
		d.scene.Close()
		win.Close()
		return nil, fmt.Errorf("failed to create overlay renderer: %w", err)
	}
	return d, nil
}

// PumpEvents forwards window input to l and tracks resizes.
func (d *Display) PumpEvents(dev *input.Devices, l input.Listener) bool {
	quit := d.window.PumpEvents(dev, l)
	d.syncSize()
	return quit
}

func (d *Display) syncSize() {
	if w, h := d.window.DrawableSize(); w != d.drawW || h != d.drawH {
		d.drawW, d.drawH = w, h
		d.scene.Resize(w, h)
	}
	if w, h := d.window.Size(); w != d.logicalW || h != d.logicalH {
		d.logicalW, d.logicalH = w, h
		d.overlay.Resize(w, h)
	}
}

// Size returns the window size in the coordinates mouse events use.
func (d *Display) Size() (int, int) {
	return d.logicalW, d.logicalH
}

// Render draws the scene, then the overlay, and presents.
func (d *Display) Render(f framework.Frame) error {
	var mode renderer.PolygonMode
	switch f.PolygonMode {
	case framework.PolygonWireframe:
		mode = renderer.Line
	case framework.PolygonPoints:
		mode = renderer.Point
	}

	d.scene.DrawScene(f.Camera, f.Materials, f.Viewport.BackgroundColour(), mode)
	d.overlay.Draw(f.Overlay)
	d.window.SetCursorVisible(f.CursorVisible)
	d.window.SwapBuffers()

	return d.scene.CheckError()
}

// Capture reads the last presented frame as bottom-up RGBA rows.
func (d *Display) Capture() ([]byte, int, int, error) {
	return d.scene.ReadPixels()
}

// Close releases the renderers and the window.
func (d *Display) Close() {
	d.overlay.Close()
	d.scene.Close()
	d.window.Close()
}
