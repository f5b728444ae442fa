// Package camera provides the 2D camera that follows the local player.
package camera

// Camera is a viewport over a tile map in world units. X and Y are the top
// left corner of the view.
type Camera struct {
	X, Y float64

	// Viewport size in world units
	Width  float64
	Height float64

	// Pixels per world unit used by the renderer
	Scale float64

	// Map bounds; zero means unbounded
	BoundsWidth  float64
	BoundsHeight float64
}

// New creates a camera with the given viewport size and scale.
func New(width, height, scale float64) *Camera {
	if scale <= 0 {
		scale = 1
	}
	return &Camera{
		Width:  width,
		Height: height,
		Scale:  scale,
	}
}

// SetBounds limits the camera to a map of the given size in world units.
func (c *Camera) SetBounds(width, height float64) {
	c.BoundsWidth = width
	c.BoundsHeight = height
	c.clamp()
}

// Resolution returns the viewport size in world units.
func (c *Camera) Resolution() (width, height float64) {
	return c.Width, c.Height
}

// Follow centers the view on the rectangle at (x, y) of size w x h.
func (c *Camera) Follow(x, y, w, h float64) {
	c.X = x + w/2 - c.Width/2
	c.Y = y + h/2 - c.Height/2
	c.clamp()
}

// IsInView reports whether a rectangle overlaps the viewport.
func (c *Camera) IsInView(x, y, width, height float64) bool {
	return x+width > c.X && x < c.X+c.Width &&
		y+height > c.Y && y < c.Y+c.Height
}

// ToScreen converts a world position to screen pixels.
func (c *Camera) ToScreen(x, y float64) (sx, sy float64) {
	return (x - c.X) * c.Scale, (y - c.Y) * c.Scale
}

// clamp keeps the view inside the bounds. Maps smaller than the view are
// centered.
func (c *Camera) clamp() {
	c.X = clampAxis(c.X, c.Width, c.BoundsWidth)
	c.Y = clampAxis(c.Y, c.Height, c.BoundsHeight)
}

func clampAxis(pos, view, bound float64) float64 {
	if bound <= 0 {
		return pos
	}
	if bound <= view {
		return (bound - view) / 2
	}
	if pos < 0 {
		return 0
	}
	if pos > bound-view {
		return bound - view
	}
	return pos
}
