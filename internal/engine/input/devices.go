package input

// Devices tracks keyboard and mouse state for polling.
//
// Inject methods update the state first and then forward the event, so a
// listener that polls IsKeyDown from inside a callback sees the new state.
type Devices struct {
	keys    map[Key]bool
	buttons map[MouseButton]bool
	mouseX  int
	mouseY  int
}

// NewDevices creates empty device state.
func NewDevices() *Devices {
	return &Devices{
		keys:    make(map[Key]bool),
		buttons: make(map[MouseButton]bool),
	}
}

// IsKeyDown reports whether key is currently held.
func (d *Devices) IsKeyDown(key Key) bool {
	return d.keys[key]
}

// IsButtonDown reports whether button is currently held.
func (d *Devices) IsButtonDown(button MouseButton) bool {
	return d.buttons[button]
}

// MousePosition returns the last known cursor position.
func (d *Devices) MousePosition() (int, int) {
	return d.mouseX, d.mouseY
}

// Reset releases every key and button, e.g. after focus loss.
func (d *Devices) Reset() {
	clear(d.keys)
	clear(d.buttons)
}

// InjectKeyDown records a key press and forwards it to l.
func (d *Devices) InjectKeyDown(key Key, l Listener) bool {
	d.keys[key] = true
	if l == nil {
		return false
	}
	return l.KeyPressed(KeyEvent{Key: key})
}

// InjectKeyUp records a key release and forwards it to l.
func (d *Devices) InjectKeyUp(key Key, l Listener) bool {
	delete(d.keys, key)
	if l == nil {
		return false
	}
	return l.KeyReleased(KeyEvent{Key: key})
}

// InjectMouseMove records cursor motion and forwards it to l.
func (d *Devices) InjectMouseMove(e MouseEvent, l Listener) bool {
	d.mouseX, d.mouseY = e.X, e.Y
	if l == nil {
		return false
	}
	return l.MouseMoved(e)
}

// InjectMouseDown records a button press and forwards it to l.
func (d *Devices) InjectMouseDown(e MouseEvent, button MouseButton, l Listener) bool {
	d.mouseX, d.mouseY = e.X, e.Y
	d.buttons[button] = true
	if l == nil {
		return false
	}
	return l.MousePressed(e, button)
}

// InjectMouseUp records a button release and forwards it to l.
func (d *Devices) InjectMouseUp(e MouseEvent, button MouseButton, l Listener) bool {
	d.mouseX, d.mouseY = e.X, e.Y
	delete(d.buttons, button)
	if l == nil {
		return false
	}
	return l.MouseReleased(e, button)
}
