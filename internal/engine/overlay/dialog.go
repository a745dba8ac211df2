package overlay

const dialogWidth = 420

type yesNoDialog struct {
	title    string
	question string
	rect     Rect
	yes      *Button
	no       *Button
}

// ShowYesNoDialog opens a modal question. While it is open only its buttons
// take input; answering closes it and calls Listener.YesNoDialogClosed.
func (t *Tray) ShowYesNoDialog(title, question string) {
	if t.pressed != nil {
		t.pressed.state = ButtonUp
		t.pressed = nil
	}
	t.dialog = &yesNoDialog{
		title:    title,
		question: question,
		yes:      &Button{widget: widget{name: "__yes", loc: Center, width: 80}, caption: "Yes"},
		no:       &Button{widget: widget{name: "__no", loc: Center, width: 80}, caption: "No"},
	}
}

// CloseDialog closes the open dialog without notifying the listener.
func (t *Tray) CloseDialog() {
	t.dialog = nil
}

// IsDialogVisible reports whether a dialog is open.
func (t *Tray) IsDialogVisible() bool {
	return t.dialog != nil
}

// DialogButtons returns the yes and no buttons of the open dialog.
func (t *Tray) DialogButtons() (yes, no *Button) {
	if t.dialog == nil {
		return nil, nil
	}
	t.layout()
	return t.dialog.yes, t.dialog.no
}

func (d *yesNoDialog) layout(screenW, screenH float32) {
	lh := LineHeight()
	_, bh := d.yes.size()
	h := 2*lh + bh + 4*widgetPadding
	d.rect = Rect{(screenW - dialogWidth) / 2, (screenH - h) / 2, dialogWidth, h}

	by := d.rect.Y + d.rect.H - widgetPadding - bh
	cx := d.rect.X + d.rect.W/2
	d.yes.rect = Rect{cx - 80 - widgetPadding, by, 80, bh}
	d.no.rect = Rect{cx + widgetPadding, by, 80, bh}
}

func (d *yesNoDialog) draw(out []Primitive) []Primitive {
	out = append(out, rectPrim(d.rect, ColorPanelBg))
	out = outlinePrims(out, d.rect, ColorPanelBorder)

	lh := LineHeight()
	tw, _ := MeasureText(d.title)
	out = append(out, textPrim(d.rect.X+(d.rect.W-tw)/2, d.rect.Y+widgetPadding, d.title, ColorText))
	qw, _ := MeasureText(d.question)
	out = append(out, textPrim(d.rect.X+(d.rect.W-qw)/2, d.rect.Y+2*widgetPadding+lh, d.question, ColorTextDim))

	out = d.yes.draw(out)
	return d.no.draw(out)
}
