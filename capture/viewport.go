package capture

// Rect is an axis-aligned box in viewport coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

// InView reports whether element intersects viewport grown by one viewport
// height above and below. Touching edges count as intersecting.
func InView(element, viewport Rect) bool {
	top := viewport.Y - viewport.Height
	bottom := viewport.Y + 2*viewport.Height
	left := viewport.X
	right := viewport.X + viewport.Width

	return element.X <= right &&
		element.X+element.Width >= left &&
		element.Y <= bottom &&
		element.Y+element.Height >= top
}
