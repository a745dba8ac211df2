package window

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/appstate-demo/internal/engine/input"
)

var scancodeKeys = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_ESCAPE:      input.KeyEscape,
	sdl.SCANCODE_RETURN:      input.KeyReturn,
	sdl.SCANCODE_KP_ENTER:    input.KeyNumpadEnter,
	sdl.SCANCODE_TAB:         input.KeyTab,
	sdl.SCANCODE_SPACE:       input.KeySpace,
	sdl.SCANCODE_BACKSPACE:   input.KeyBackspace,
	sdl.SCANCODE_LSHIFT:      input.KeyLeftShift,
	sdl.SCANCODE_RSHIFT:      input.KeyRightShift,
	sdl.SCANCODE_UP:          input.KeyUp,
	sdl.SCANCODE_DOWN:        input.KeyDown,
	sdl.SCANCODE_LEFT:        input.KeyLeft,
	sdl.SCANCODE_RIGHT:       input.KeyRight,
	sdl.SCANCODE_A:           input.KeyA,
	sdl.SCANCODE_D:           input.KeyD,
	sdl.SCANCODE_I:           input.KeyI,
	sdl.SCANCODE_M:           input.KeyM,
	sdl.SCANCODE_O:           input.KeyO,
	sdl.SCANCODE_S:           input.KeyS,
	sdl.SCANCODE_W:           input.KeyW,
	sdl.SCANCODE_SYSREQ:      input.KeySysRq,
	sdl.SCANCODE_PRINTSCREEN: input.KeySysRq,
	sdl.SCANCODE_F12:         input.KeyF12,
}

func mouseButton(b uint8) (input.MouseButton, bool) {
	switch b {
	case sdl.BUTTON_LEFT:
		return input.MouseLeft, true
	case sdl.BUTTON_RIGHT:
		return input.MouseRight, true
	case sdl.BUTTON_MIDDLE:
		return input.MouseMiddle, true
	}
	return 0, false
}

// PumpEvents drains the SDL queue into d, forwarding each event to l. It
// reports whether the window was asked to close. Keys the demo does not
// know are dropped; key repeats are ignored.
func (w *Window) PumpEvents(d *input.Devices, l input.Listener) bool {
	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_CLOSE {
				quit = true
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			key, ok := scancodeKeys[e.Keysym.Scancode]
			if !ok {
				continue
			}
			if e.Type == sdl.KEYDOWN {
				d.InjectKeyDown(key, l)
			} else if e.Type == sdl.KEYUP {
				d.InjectKeyUp(key, l)
			}

		case *sdl.MouseMotionEvent:
			w.mouseX, w.mouseY = int(e.X), int(e.Y)
			d.InjectMouseMove(input.MouseEvent{
				X:    w.mouseX,
				Y:    w.mouseY,
				RelX: int(e.XRel),
				RelY: int(e.YRel),
			}, l)

		case *sdl.MouseButtonEvent:
			b, ok := mouseButton(e.Button)
			if !ok {
				continue
			}
			w.mouseX, w.mouseY = int(e.X), int(e.Y)
			me := input.MouseEvent{X: w.mouseX, Y: w.mouseY}
			if e.Type == sdl.MOUSEBUTTONDOWN {
				d.InjectMouseDown(me, b, l)
			} else if e.Type == sdl.MOUSEBUTTONUP {
				d.InjectMouseUp(me, b, l)
			}

		case *sdl.MouseWheelEvent:
			d.InjectMouseMove(input.MouseEvent{X: w.mouseX, Y: w.mouseY, Wheel: int(e.Y)}, l)
		}
	}
	return quit
}
