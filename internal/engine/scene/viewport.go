package scene

// Viewport is the window area a camera renders into.
type Viewport struct {
	camera     *Camera
	width      int
	height     int
	background Color
}

// NewViewport creates a viewport of the given pixel size.
func NewViewport(width, height int) *Viewport {
	return &Viewport{
		width:      width,
		height:     height,
		background: Color{0, 0, 0, 1},
	}
}

// SetCamera attaches c and adapts its aspect ratio to the viewport.
func (v *Viewport) SetCamera(c *Camera) {
	v.camera = c
	if c != nil && v.height > 0 {
		c.SetAspectRatio(float32(v.width) / float32(v.height))
	}
}

// Camera returns the attached camera if it is still alive.
func (v *Viewport) Camera() *Camera {
	if v.camera == nil || v.camera.destroyed {
		return nil
	}
	return v.camera
}

// Resize updates the pixel size and the attached camera's aspect ratio.
func (v *Viewport) Resize(width, height int) {
	v.width, v.height = width, height
	if c := v.Camera(); c != nil && height > 0 {
		c.SetAspectRatio(float32(width) / float32(height))
	}
}

// ActualWidth returns the width in pixels.
func (v *Viewport) ActualWidth() int {
	return v.width
}

// ActualHeight returns the height in pixels.
func (v *Viewport) ActualHeight() int {
	return v.height
}

// SetBackgroundColour sets the clear colour used when no sky is shown.
func (v *Viewport) SetBackgroundColour(c Color) {
	v.background = c
}

// BackgroundColour returns the clear colour.
func (v *Viewport) BackgroundColour() Color {
	return v.background
}
