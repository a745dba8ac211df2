// Package input defines device-independent keyboard and mouse events.
//
// Device backends (see the window package) translate native events into
// these types, record them in Devices and forward them to a Listener.
package input

// Key identifies a keyboard key.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyReturn
	KeyNumpadEnter
	KeyTab
	KeySpace
	KeyBackspace
	KeyLeftShift
	KeyRightShift
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyA
	KeyD
	KeyI
	KeyM
	KeyO
	KeyS
	KeyW
	KeySysRq
	KeyF12
)

var keyNames = map[Key]string{
	KeyUnknown:     "Unknown",
	KeyEscape:      "Escape",
	KeyReturn:      "Return",
	KeyNumpadEnter: "NumpadEnter",
	KeyTab:         "Tab",
	KeySpace:       "Space",
	KeyBackspace:   "Backspace",
	KeyLeftShift:   "LeftShift",
	KeyRightShift:  "RightShift",
	KeyUp:          "Up",
	KeyDown:        "Down",
	KeyLeft:        "Left",
	KeyRight:       "Right",
	KeyA:           "A",
	KeyD:           "D",
	KeyI:           "I",
	KeyM:           "M",
	KeyO:           "O",
	KeyS:           "S",
	KeyW:           "W",
	KeySysRq:       "SysRq",
	KeyF12:         "F12",
}

// String returns the key name.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "Unknown"
}

// MouseButton identifies a mouse button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// String returns the button name.
func (b MouseButton) String() string {
	switch b {
	case MouseLeft:
		return "Left"
	case MouseRight:
		return "Right"
	case MouseMiddle:
		return "Middle"
	}
	return "Unknown"
}

// KeyEvent is a key press or release.
type KeyEvent struct {
	Key Key
}

// MouseEvent carries the cursor state at the time of a mouse event.
type MouseEvent struct {
	X, Y       int // absolute position in window coordinates
	RelX, RelY int // motion since the previous event
	Wheel      int
}

// Listener receives device events. Every callback reports whether the
// event was consumed.
type Listener interface {
	KeyPressed(e KeyEvent) bool
	KeyReleased(e KeyEvent) bool
	MouseMoved(e MouseEvent) bool
	MousePressed(e MouseEvent, button MouseButton) bool
	MouseReleased(e MouseEvent, button MouseButton) bool
}
