package framework

import (
	"fmt"

	"github.com/Faultbox/appstate-demo/internal/engine/input"
	"github.com/Faultbox/appstate-demo/internal/engine/overlay"
	"github.com/Faultbox/appstate-demo/internal/engine/scene"
)

// PolygonMode selects how scene geometry is rasterized.
type PolygonMode int

const (
	PolygonSolid PolygonMode = iota
	PolygonWireframe
	PolygonPoints
)

func (m PolygonMode) String() string {
	switch m {
	case PolygonSolid:
		return "solid"
	case PolygonWireframe:
		return "wireframe"
	case PolygonPoints:
		return "points"
	}
	return fmt.Sprintf("PolygonMode(%d)", int(m))
}

// next cycles solid -> wireframe -> points -> solid.
func (m PolygonMode) next() PolygonMode {
	return (m + 1) % 3
}

// Frame is everything a display needs to draw one frame.
type Frame struct {
	Viewport      *scene.Viewport
	Camera        *scene.Camera // nil when no live camera is attached
	Materials     *scene.MaterialLibrary
	Overlay       []overlay.Primitive
	PolygonMode   PolygonMode
	CursorVisible bool
}

// Display is the window and renderer behind the framework.
type Display interface {
	// PumpEvents feeds pending device events into devices, which forwards
	// them to l. It reports true when the window asked to close.
	PumpEvents(devices *input.Devices, l input.Listener) bool

	// Size returns the window size in the coordinates mouse events use.
	Size() (int, int)

	// Render draws and presents one frame.
	Render(f Frame) error

	// Capture reads back the last frame as bottom-up RGBA pixels.
	Capture() (pixels []byte, width, height int, err error)

	Close()
}

// Audio plays music and sound effects by file path.
type Audio interface {
	PlayBGM(path string, loop bool) error
	StopBGM()
	PlaySFX(path string) error
	Close()
}

// NopAudio is a silent Audio.
type NopAudio struct{}

func (NopAudio) PlayBGM(string, bool) error { return nil }
func (NopAudio) StopBGM()                   {}
func (NopAudio) PlaySFX(string) error       { return nil }
func (NopAudio) Close()                     {}
