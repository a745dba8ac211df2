package scene

// Color is an RGBA colour with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Scale multiplies the RGB components by f, leaving alpha untouched.
func (c Color) Scale(f float32) Color {
	return Color{c.R * f, c.G * f, c.B * f, c.A}
}

// Modulate multiplies two colours component-wise.
func (c Color) Modulate(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}
