package overlay

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	firstGlyph = ' '
	lastGlyph  = '~'
)

// GlyphAtlas is a single-row alpha image holding the printable ASCII glyphs
// of the overlay face. Renderers upload it once as a texture.
type GlyphAtlas struct {
	img          *image.Alpha
	cellW, cellH int
}

// NewGlyphAtlas rasterizes the overlay face.
func NewGlyphAtlas() *GlyphAtlas {
	face := basicfont.Face7x13
	a := &GlyphAtlas{cellW: face.Advance, cellH: face.Height}
	n := int(lastGlyph - firstGlyph + 1)
	a.img = image.NewAlpha(image.Rect(0, 0, a.cellW*n, a.cellH))

	d := &font.Drawer{Dst: a.img, Src: image.Opaque, Face: face}
	for r := rune(firstGlyph); r <= lastGlyph; r++ {
		d.Dot = fixed.P(int(r-firstGlyph)*a.cellW, face.Ascent)
		d.DrawString(string(r))
	}
	return a
}

// Image returns the atlas pixels.
func (a *GlyphAtlas) Image() *image.Alpha { return a.img }

// CellSize returns the unscaled size of one glyph cell.
func (a *GlyphAtlas) CellSize() (w, h int) { return a.cellW, a.cellH }

// UV returns the texture rectangle of r, top-left then bottom-right. Runes
// outside printable ASCII render as '?'.
func (a *GlyphAtlas) UV(r rune) (u0, v0, u1, v1 float32) {
	if r < firstGlyph || r > lastGlyph {
		r = '?'
	}
	i := int(r - firstGlyph)
	w := float32(a.img.Rect.Dx())
	return float32(i*a.cellW) / w, 0, float32((i+1)*a.cellW) / w, 1
}
