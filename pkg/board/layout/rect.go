package layout

// Vec2 is a point or displacement in world space.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns the component-wise sum v + w.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns the component-wise difference v - w.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{X: v.X - w.X, Y: v.Y - w.Y}
}

// Rect is an axis-aligned rectangle in world space, stored by its edges.
// World space is y-up, so Top > Bottom for any non-degenerate rectangle.
type Rect struct {
	Left   float64
	Right  float64
	Bottom float64
	Top    float64
}

// RectFromCenter builds the rectangle of the given size around center.
func RectFromCenter(center Vec2, width, height float64) Rect {
	return Rect{
		Left:   center.X - width/2,
		Right:  center.X + width/2,
		Bottom: center.Y - height/2,
		Top:    center.Y + height/2,
	}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Top - r.Bottom }

// CenterX returns the x coordinate of the rectangle's center.
func (r Rect) CenterX() float64 { return (r.Left + r.Right) / 2 }

// CenterY returns the y coordinate of the rectangle's center.
func (r Rect) CenterY() float64 { return (r.Bottom + r.Top) / 2 }

// Center returns the rectangle's center point.
func (r Rect) Center() Vec2 { return Vec2{X: r.CenterX(), Y: r.CenterY()} }

// Contains reports whether p lies inside the rectangle, edges included.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Bottom && p.Y <= r.Top
}

// Translate returns a copy of the rectangle shifted by d.
func (r Rect) Translate(d Vec2) Rect {
	return Rect{
		Left:   r.Left + d.X,
		Right:  r.Right + d.X,
		Bottom: r.Bottom + d.Y,
		Top:    r.Top + d.Y,
	}
}
