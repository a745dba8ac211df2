package overlay

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// backdrop is a full-screen tint drawn under every tray.
type backdrop struct {
	color   Color
	alpha   float32
	visible bool
	tween   *gween.Tween
}

func (b *backdrop) update(dt float64) {
	if b.tween == nil {
		return
	}
	a, done := b.tween.Update(float32(dt))
	b.alpha = a
	if done {
		b.tween = nil
	}
}

// ShowBackdrop fades a full-screen tint in to c.A over duration seconds.
// A non-positive duration shows it at once.
func (t *Tray) ShowBackdrop(c Color, duration float32) {
	t.backdrop = backdrop{color: c, visible: true}
	if duration <= 0 {
		t.backdrop.alpha = c.A
		return
	}
	t.backdrop.tween = gween.New(0, c.A, duration, ease.OutQuad)
}

// HideBackdrop removes the tint immediately.
func (t *Tray) HideBackdrop() {
	t.backdrop = backdrop{}
}

// BackdropAlpha returns the current tint opacity, zero when hidden.
func (t *Tray) BackdropAlpha() float32 {
	if !t.backdrop.visible {
		return 0
	}
	return t.backdrop.alpha
}

// BackdropFading reports whether the fade is still running.
func (t *Tray) BackdropFading() bool {
	return t.backdrop.tween != nil
}
