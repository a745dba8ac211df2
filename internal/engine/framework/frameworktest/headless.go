// Package frameworktest provides a scripted framework.Display for tests
// that drive states and the frame loop without a window.
package frameworktest

import (
	"github.com/Faultbox/appstate-demo/internal/engine/framework"
	"github.com/Faultbox/appstate-demo/internal/engine/input"
)

// Headless is a Display without a window. Queued events are delivered on
// the next PumpEvents; rendered frames are counted and the last one kept.
type Headless struct {
	width, height  int
	queue          []func(d *input.Devices, l input.Listener)
	mouseX, mouseY int
	closeRequested bool

	frames int
	last   framework.Frame
	closed bool

	// RenderErr, when set, is returned by Render.
	RenderErr error
}

var _ framework.Display = (*Headless)(nil)

// NewHeadless creates a headless display of the given size.
func NewHeadless(width, height int) *Headless {
	return &Headless{width: width, height: height}
}

// QueueKey queues a press and release of k.
func (h *Headless) QueueKey(k input.Key) {
	h.QueueKeyDown(k)
	h.QueueKeyUp(k)
}

// QueueKeyDown queues a key press.
func (h *Headless) QueueKeyDown(k input.Key) {
	h.queue = append(h.queue, func(d *input.Devices, l input.Listener) {
		d.InjectKeyDown(k, l)
	})
}

// QueueKeyUp queues a key release.
func (h *Headless) QueueKeyUp(k input.Key) {
	h.queue = append(h.queue, func(d *input.Devices, l input.Listener) {
		d.InjectKeyUp(k, l)
	})
}

// QueueMouseMove queues a cursor move to (x, y).
func (h *Headless) QueueMouseMove(x, y int) {
	h.queue = append(h.queue, func(d *input.Devices, l input.Listener) {
		e := input.MouseEvent{X: x, Y: y, RelX: x - h.mouseX, RelY: y - h.mouseY}
		h.mouseX, h.mouseY = x, y
		d.InjectMouseMove(e, l)
	})
}

// QueueMouseDown queues a button press at the current cursor position.
func (h *Headless) QueueMouseDown(b input.MouseButton) {
	h.queue = append(h.queue, func(d *input.Devices, l input.Listener) {
		d.InjectMouseDown(input.MouseEvent{X: h.mouseX, Y: h.mouseY}, b, l)
	})
}

// QueueMouseUp queues a button release at the current cursor position.
func (h *Headless) QueueMouseUp(b input.MouseButton) {
	h.queue = append(h.queue, func(d *input.Devices, l input.Listener) {
		d.InjectMouseUp(input.MouseEvent{X: h.mouseX, Y: h.mouseY}, b, l)
	})
}

// QueueClose makes the next PumpEvents report a close request.
func (h *Headless) QueueClose() {
	h.queue = append(h.queue, func(*input.Devices, input.Listener) {
		h.closeRequested = true
	})
}

// Resize changes the reported size.
func (h *Headless) Resize(width, height int) {
	h.width, h.height = width, height
}

func (h *Headless) PumpEvents(d *input.Devices, l input.Listener) bool {
	queue := h.queue
	h.queue = nil
	for _, ev := range queue {
		ev(d, l)
	}
	return h.closeRequested
}

func (h *Headless) Size() (int, int) {
	return h.width, h.height
}

func (h *Headless) Render(f framework.Frame) error {
	if h.RenderErr != nil {
		return h.RenderErr
	}
	h.frames++
	h.last = f
	return nil
}

// Capture returns a blank frame of the current size.
func (h *Headless) Capture() ([]byte, int, int, error) {
	return make([]byte, h.width*h.height*4), h.width, h.height, nil
}

func (h *Headless) Close() {
	h.closed = true
}

// FrameCount returns the number of frames rendered.
func (h *Headless) FrameCount() int { return h.frames }

// LastFrame returns the most recently rendered frame.
func (h *Headless) LastFrame() framework.Frame { return h.last }

// Closed reports whether Close was called.
func (h *Headless) Closed() bool { return h.closed }
