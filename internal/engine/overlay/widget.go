package overlay

import "fmt"

// Location is a screen anchor for a column of widgets.
type Location int

const (
	LocationNone Location = iota // not shown in any tray
	TopLeft
	Top
	TopRight
	Left
	Center
	Right
	BottomLeft
	Bottom
	BottomRight
)

var locationNames = [...]string{"none", "top-left", "top", "top-right", "left", "center", "right", "bottom-left", "bottom", "bottom-right"}

func (l Location) String() string {
	if l < 0 || int(l) >= len(locationNames) {
		return fmt.Sprintf("location(%d)", int(l))
	}
	return locationNames[l]
}

const (
	widgetPadding = 6
	minButtonPad  = 16
)

// Widget is an element placed in a tray.
type Widget interface {
	Name() string
	Location() Location
	IsVisible() bool
	Bounds() Rect

	base() *widget
	size() (w, h float32)
	draw(out []Primitive) []Primitive
}

type widget struct {
	name      string
	loc       Location
	width     float32
	hidden    bool
	destroyed bool
	rect      Rect
}

func (w *widget) base() *widget { return w }

// Name returns the widget name.
func (w *widget) Name() string { return w.name }

// Location returns the tray the widget is in.
func (w *widget) Location() Location { return w.loc }

// Bounds returns the rectangle assigned by the last layout.
func (w *widget) Bounds() Rect { return w.rect }

// Show makes the widget visible.
func (w *widget) Show() { w.hidden = false }

// Hide hides the widget; hidden widgets take no space in their tray.
func (w *widget) Hide() { w.hidden = true }

// IsVisible reports whether the widget is shown. Destroyed widgets are never
// visible.
func (w *widget) IsVisible() bool {
	return !w.hidden && !w.destroyed && w.loc != LocationNone
}

// Label is a single line of centered text.
type Label struct {
	widget
	caption string
}

// Caption returns the label text.
func (l *Label) Caption() string { return l.caption }

// SetCaption replaces the label text.
func (l *Label) SetCaption(s string) { l.caption = s }

func (l *Label) size() (float32, float32) {
	return l.width, LineHeight() + 2*widgetPadding
}

func (l *Label) draw(out []Primitive) []Primitive {
	tw, th := MeasureText(l.caption)
	r := l.rect
	return append(out, textPrim(r.X+(r.W-tw)/2, r.Y+(r.H-th)/2, l.caption, ColorText))
}

// ButtonState is the visual state of a button.
type ButtonState int

const (
	ButtonUp ButtonState = iota
	ButtonOver
	ButtonDown
)

// Button fires Listener.ButtonHit when released over itself after a press.
type Button struct {
	widget
	caption string
	state   ButtonState
}

// Caption returns the button text.
func (b *Button) Caption() string { return b.caption }

// State returns the visual state.
func (b *Button) State() ButtonState { return b.state }

func (b *Button) size() (float32, float32) {
	w := b.width
	if w <= 0 {
		tw, _ := MeasureText(b.caption)
		w = tw + 2*minButtonPad
	}
	return w, LineHeight() + 2*widgetPadding
}

func (b *Button) draw(out []Primitive) []Primitive {
	bg := ColorButtonNormal
	switch b.state {
	case ButtonOver:
		bg = ColorButtonHover
	case ButtonDown:
		bg = ColorButtonActive
	}
	out = append(out, rectPrim(b.rect, bg))
	out = outlinePrims(out, b.rect, ColorPanelBorder)
	tw, th := MeasureText(b.caption)
	r := b.rect
	return append(out, textPrim(r.X+(r.W-tw)/2, r.Y+(r.H-th)/2, b.caption, ColorText))
}

// ParamsPanel lists named values, one per line.
type ParamsPanel struct {
	widget
	names  []string
	values []string
}

// ParamNames returns the parameter names.
func (p *ParamsPanel) ParamNames() []string { return p.names }

// SetParamValue sets the value shown for parameter i. Out-of-range indices
// are ignored.
func (p *ParamsPanel) SetParamValue(i int, value string) {
	if i < 0 || i >= len(p.values) {
		return
	}
	p.values[i] = value
}

// ParamValue returns the value of parameter i.
func (p *ParamsPanel) ParamValue(i int) string {
	if i < 0 || i >= len(p.values) {
		return ""
	}
	return p.values[i]
}

// ParamValueByName returns the value of the named parameter.
func (p *ParamsPanel) ParamValueByName(name string) (string, bool) {
	for i, n := range p.names {
		if n == name {
			return p.values[i], true
		}
	}
	return "", false
}

func (p *ParamsPanel) size() (float32, float32) {
	return p.width, float32(len(p.names))*LineHeight() + 2*widgetPadding
}

func (p *ParamsPanel) draw(out []Primitive) []Primitive {
	out = append(out, rectPrim(p.rect, ColorPanelBg))
	out = outlinePrims(out, p.rect, ColorPanelBorder)

	y := p.rect.Y + widgetPadding
	for i, name := range p.names {
		out = append(out, textPrim(p.rect.X+widgetPadding, y, name, ColorTextDim))
		vw, _ := MeasureText(p.values[i])
		out = append(out, textPrim(p.rect.X+p.rect.W-widgetPadding-vw, y, p.values[i], ColorText))
		y += LineHeight()
	}
	return out
}

// statsWidget shows the averaged frame rate.
type statsWidget struct {
	widget
	elapsed float64
	frames  int
	fps     float64
	last    float64
}

const statsWidth = 200

func (s *statsWidget) tick(dt float64) {
	s.frames++
	s.elapsed += dt
	s.last = dt
	if s.elapsed >= 1 {
		s.fps = float64(s.frames) / s.elapsed
		s.frames = 0
		s.elapsed = 0
	}
}

func (s *statsWidget) lines() []string {
	return []string{
		fmt.Sprintf("FPS: %.1f", s.fps),
		fmt.Sprintf("Frame: %.2f ms", s.last*1000),
	}
}

func (s *statsWidget) size() (float32, float32) {
	return statsWidth, 2*LineHeight() + 2*widgetPadding
}

func (s *statsWidget) draw(out []Primitive) []Primitive {
	out = append(out, rectPrim(s.rect, ColorPanelBg))
	y := s.rect.Y + widgetPadding
	for _, line := range s.lines() {
		out = append(out, textPrim(s.rect.X+widgetPadding, y, line, ColorText))
		y += LineHeight()
	}
	return out
}
