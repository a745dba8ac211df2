package overlay

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// TextScale is the scale applied to the 7x13 bitmap face.
const TextScale float32 = 1.5

// PrimitiveKind selects how a primitive is drawn.
type PrimitiveKind int

const (
	PrimRect PrimitiveKind = iota
	PrimText
)

// Primitive is one overlay draw command in screen pixels, origin top-left.
// Text primitives place the top of the line box at Y.
type Primitive struct {
	Kind  PrimitiveKind
	X, Y  float32
	W, H  float32
	Color Color
	Text  string
	Scale float32
}

// Rect is a screen rectangle.
type Rect struct {
	X, Y, W, H float32
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// MeasureText returns the pixel size of a single line of text at TextScale.
func MeasureText(s string) (w, h float32) {
	adv := font.MeasureString(basicfont.Face7x13, s)
	return float32(adv.Ceil()) * TextScale, LineHeight()
}

// LineHeight is the height of one text line at TextScale.
func LineHeight() float32 {
	return float32(basicfont.Face7x13.Height) * TextScale
}

func rectPrim(r Rect, c Color) Primitive {
	return Primitive{Kind: PrimRect, X: r.X, Y: r.Y, W: r.W, H: r.H, Color: c}
}

func outlinePrims(out []Primitive, r Rect, c Color) []Primitive {
	return append(out,
		rectPrim(Rect{r.X, r.Y, r.W, 1}, c),
		rectPrim(Rect{r.X, r.Y + r.H - 1, r.W, 1}, c),
		rectPrim(Rect{r.X, r.Y + 1, 1, r.H - 2}, c),
		rectPrim(Rect{r.X + r.W - 1, r.Y + 1, 1, r.H - 2}, c),
	)
}

func textPrim(x, y float32, s string, c Color) Primitive {
	w, h := MeasureText(s)
	return Primitive{Kind: PrimText, X: x, Y: y, W: w, H: h, Color: c, Text: s, Scale: TextScale}
}
