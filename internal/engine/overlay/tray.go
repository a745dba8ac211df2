// Package overlay lays out 2D widgets in screen-anchored trays and turns them
// into draw primitives. It owns no GPU resources; a renderer draws the
// primitives it emits.
package overlay

import (
	"errors"
	"fmt"

	"github.com/Faultbox/appstate-demo/internal/engine/input"
)

const (
	trayMargin    = 8
	trayPadding   = 6
	widgetSpacing = 4
)

// ErrDuplicateWidget is returned when a widget name is already in use.
var ErrDuplicateWidget = errors.New("overlay: duplicate widget name")

// ErrUnknownWidget is returned for names that do not exist.
var ErrUnknownWidget = errors.New("overlay: unknown widget")

// Listener receives widget events.
type Listener interface {
	ButtonHit(b *Button)
	YesNoDialogClosed(question string, yes bool)
}

// Tray manages every overlay widget of a window.
type Tray struct {
	width, height float32
	listener      Listener

	widgets []Widget
	byName  map[string]Widget
	trays   map[Location]Rect

	stats         statsWidget
	cursorVisible bool
	cursorX       float32
	cursorY       float32

	pressed  *Button
	dialog   *yesNoDialog
	backdrop backdrop
}

// NewTray creates an empty tray manager for a width x height screen.
func NewTray(width, height int) *Tray {
	t := &Tray{
		width:  float32(width),
		height: float32(height),
		byName: make(map[string]Widget),
		trays:  make(map[Location]Rect),
	}
	t.stats.name = "FrameStats"
	t.stats.width = statsWidth
	return t
}

// SetListener sets the receiver of button and dialog events.
func (t *Tray) SetListener(l Listener) {
	t.listener = l
}

// Resize updates the screen size used for layout.
func (t *Tray) Resize(width, height int) {
	t.width = float32(width)
	t.height = float32(height)
}

func (t *Tray) add(w Widget) error {
	if _, exists := t.byName[w.Name()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateWidget, w.Name())
	}
	t.widgets = append(t.widgets, w)
	t.byName[w.Name()] = w
	return nil
}

// CreateLabel adds a text label.
func (t *Tray) CreateLabel(loc Location, name, caption string, width float32) (*Label, error) {
	l := &Label{widget: widget{name: name, loc: loc, width: width}, caption: caption}
	if err := t.add(l); err != nil {
		return nil, err
	}
	return l, nil
}

// CreateButton adds a push button. A width of zero fits the caption.
func (t *Tray) CreateButton(loc Location, name, caption string, width float32) (*Button, error) {
	b := &Button{widget: widget{name: name, loc: loc, width: width}, caption: caption}
	if err := t.add(b); err != nil {
		return nil, err
	}
	return b, nil
}

// CreateParamsPanel adds a panel with one empty value per parameter name.
func (t *Tray) CreateParamsPanel(loc Location, name string, width float32, params []string) (*ParamsPanel, error) {
	p := &ParamsPanel{
		widget: widget{name: name, loc: loc, width: width},
		names:  append([]string(nil), params...),
		values: make([]string, len(params)),
	}
	if err := t.add(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Widget returns the named widget, or nil.
func (t *Tray) Widget(name string) Widget {
	return t.byName[name]
}

// Widgets returns the live widgets in creation order.
func (t *Tray) Widgets() []Widget {
	return t.widgets
}

// MoveWidgetToTray places the named widget at the end of another tray.
func (t *Tray) MoveWidgetToTray(name string, loc Location) error {
	w, ok := t.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownWidget, name)
	}
	t.remove(w)
	w.base().loc = loc
	t.widgets = append(t.widgets, w)
	return nil
}

// RemoveWidgetFromTray takes the named widget out of its tray without
// destroying it.
func (t *Tray) RemoveWidgetFromTray(name string) error {
	return t.MoveWidgetToTray(name, LocationNone)
}

// DestroyWidget removes the named widget.
func (t *Tray) DestroyWidget(name string) {
	w, ok := t.byName[name]
	if !ok {
		return
	}
	t.remove(w)
	delete(t.byName, name)
	w.base().destroyed = true
	if t.pressed != nil && t.pressed.Name() == name {
		t.pressed = nil
	}
}

// DestroyAllWidgets removes every widget and closes any open dialog. Frame
// stats and cursor visibility are kept.
func (t *Tray) DestroyAllWidgets() {
	for _, w := range t.widgets {
		w.base().destroyed = true
	}
	t.widgets = nil
	t.byName = make(map[string]Widget)
	t.pressed = nil
	t.CloseDialog()
}

func (t *Tray) remove(w Widget) {
	for i, cur := range t.widgets {
		if cur == w {
			t.widgets = append(t.widgets[:i], t.widgets[i+1:]...)
			return
		}
	}
}

// ShowFrameStats shows the frame statistics in the given tray.
func (t *Tray) ShowFrameStats(loc Location) {
	t.stats.loc = loc
	t.stats.hidden = false
}

// HideFrameStats hides the frame statistics.
func (t *Tray) HideFrameStats() {
	t.stats.hidden = true
}

// AreFrameStatsVisible reports whether the frame statistics are shown.
func (t *Tray) AreFrameStatsVisible() bool {
	return t.stats.IsVisible()
}

// ToggleFrameStats flips frame statistics visibility, defaulting to the
// bottom-left tray.
func (t *Tray) ToggleFrameStats() {
	if t.AreFrameStatsVisible() {
		t.HideFrameStats()
		return
	}
	loc := t.stats.loc
	if loc == LocationNone {
		loc = BottomLeft
	}
	t.ShowFrameStats(loc)
}

// FrameStats returns the averaged frames per second and the last frame time
// in seconds.
func (t *Tray) FrameStats() (fps, frameTime float64) {
	return t.stats.fps, t.stats.last
}

// ShowCursor enables mouse interaction with the widgets.
func (t *Tray) ShowCursor() { t.cursorVisible = true }

// HideCursor disables mouse interaction with the widgets.
func (t *Tray) HideCursor() {
	t.cursorVisible = false
	if t.pressed != nil {
		t.pressed.state = ButtonUp
		t.pressed = nil
	}
}

// IsCursorVisible reports whether the cursor is shown.
func (t *Tray) IsCursorVisible() bool { return t.cursorVisible }

// Update advances frame statistics and the backdrop fade by dt seconds.
func (t *Tray) Update(dt float64) {
	t.stats.tick(dt)
	t.backdrop.update(dt)
}

// InjectMouseMove updates hover states. It reports true when a modal dialog
// swallowed the move.
func (t *Tray) InjectMouseMove(x, y float32) bool {
	t.cursorX, t.cursorY = x, y
	if !t.cursorVisible {
		return false
	}
	t.layout()

	buttons := t.activeButtons()
	for _, b := range buttons {
		over := b.rect.Contains(x, y)
		switch {
		case b == t.pressed && over:
			b.state = ButtonDown
		case over && t.pressed == nil:
			b.state = ButtonOver
		default:
			b.state = ButtonUp
		}
	}
	return t.dialog != nil
}

// InjectMouseDown presses the button under the cursor. It reports true when
// the cursor is over a widget or a dialog is open.
func (t *Tray) InjectMouseDown(button input.MouseButton) bool {
	if !t.cursorVisible {
		return false
	}
	t.layout()

	if button == input.MouseLeft {
		for _, b := range t.activeButtons() {
			if b.rect.Contains(t.cursorX, t.cursorY) {
				t.pressed = b
				b.state = ButtonDown
				return true
			}
		}
	}
	return t.dialog != nil || t.overWidget()
}

// InjectMouseUp releases the pressed button, firing it when the cursor is
// still over it. It reports true when the event belonged to the overlay.
func (t *Tray) InjectMouseUp(button input.MouseButton) bool {
	if !t.cursorVisible {
		return false
	}
	t.layout()

	if button == input.MouseLeft && t.pressed != nil {
		b := t.pressed
		t.pressed = nil
		if !b.rect.Contains(t.cursorX, t.cursorY) {
			b.state = ButtonUp
			return true
		}
		b.state = ButtonOver
		t.fire(b)
		return true
	}
	return t.dialog != nil || t.overWidget()
}

func (t *Tray) fire(b *Button) {
	if d := t.dialog; d != nil && (b == d.yes || b == d.no) {
		question := d.question
		t.dialog = nil
		if t.listener != nil {
			t.listener.YesNoDialogClosed(question, b == d.yes)
		}
		return
	}
	if t.listener != nil {
		t.listener.ButtonHit(b)
	}
}

// activeButtons returns the buttons that can take input: the dialog's while
// it is open, otherwise every visible tray button.
func (t *Tray) activeButtons() []*Button {
	if t.dialog != nil {
		return []*Button{t.dialog.yes, t.dialog.no}
	}
	var out []*Button
	for _, w := range t.widgets {
		if b, ok := w.(*Button); ok && b.IsVisible() {
			out = append(out, b)
		}
	}
	return out
}

func (t *Tray) overWidget() bool {
	for _, r := range t.trays {
		if r.Contains(t.cursorX, t.cursorY) {
			return true
		}
	}
	return false
}

func (t *Tray) column(loc Location) []Widget {
	var ws []Widget
	for _, w := range t.widgets {
		if w.Location() == loc && w.IsVisible() {
			ws = append(ws, w)
		}
	}
	if t.stats.loc == loc && t.stats.IsVisible() {
		ws = append(ws, &t.stats)
	}
	return ws
}

// layout assigns every visible widget its rectangle.
func (t *Tray) layout() {
	clear(t.trays)
	for loc := TopLeft; loc <= BottomRight; loc++ {
		ws := t.column(loc)
		if len(ws) == 0 {
			continue
		}

		var trayW, trayH float32
		for i, w := range ws {
			ww, wh := w.size()
			trayW = max(trayW, ww)
			trayH += wh
			if i > 0 {
				trayH += widgetSpacing
			}
		}

		var x, y float32
		switch loc {
		case TopLeft, Left, BottomLeft:
			x = trayMargin + trayPadding
		case Top, Center, Bottom:
			x = (t.width - trayW) / 2
		default:
			x = t.width - trayW - trayMargin - trayPadding
		}
		switch loc {
		case TopLeft, Top, TopRight:
			y = trayMargin + trayPadding
		case Left, Center, Right:
			y = (t.height - trayH) / 2
		default:
			y = t.height - trayH - trayMargin - trayPadding
		}

		t.trays[loc] = Rect{x - trayPadding, y - trayPadding, trayW + 2*trayPadding, trayH + 2*trayPadding}
		for _, w := range ws {
			ww, wh := w.size()
			w.base().rect = Rect{x + (trayW-ww)/2, y, ww, wh}
			y += wh + widgetSpacing
		}
	}
	if t.dialog != nil {
		t.dialog.layout(t.width, t.height)
	}
}

// Primitives lays out the overlay and returns its draw list, back to front.
func (t *Tray) Primitives() []Primitive {
	t.layout()

	var out []Primitive
	if a := t.backdrop.alpha; t.backdrop.visible && a > 0 {
		out = append(out, rectPrim(Rect{0, 0, t.width, t.height}, t.backdrop.color.WithAlpha(a)))
	}
	for loc := TopLeft; loc <= BottomRight; loc++ {
		r, ok := t.trays[loc]
		if !ok {
			continue
		}
		out = append(out, rectPrim(r, ColorTrayBg))
		for _, w := range t.column(loc) {
			out = w.draw(out)
		}
	}
	if t.dialog != nil {
		out = t.dialog.draw(out)
	}
	return out
}
