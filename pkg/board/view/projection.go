// Package view converts between viewport pixels and world coordinates on
// the board plane.
//
// The host renders the board through a perspective camera looking straight
// at the plane the panels live on. For objects on that plane the projection
// collapses to a single scale factor, [Camera.WorldPerPixel], so pointer
// math never needs the full projection matrix. Pixel Y grows downward,
// world Y grows upward; [Mapper] flips between the two.
package view

import (
	"math"

	"github.com/boardkit/gridboard/pkg/board/layout"
	"github.com/boardkit/gridboard/pkg/errors"
)

// Default camera parameters used by the CLI and the HTTP server when the
// host supplies none.
const (
	DefaultFOVDegrees = 50.0
	DefaultDistance   = 16.0
)

// Point is a position in viewport pixels. X grows right, Y grows down,
// origin at the top-left corner.
type Point struct {
	X float64
	Y float64
}

// Camera describes a perspective camera aimed at the board plane.
type Camera struct {
	// FOVDegrees is the vertical field of view.
	FOVDegrees float64

	// ViewportHeightPx is the rendered viewport height in pixels.
	ViewportHeightPx float64

	// Distance is how far the camera sits from the board plane.
	Distance float64
}

// Validate checks the camera parameters.
func (c Camera) Validate() error {
	if c.FOVDegrees <= 0 || c.FOVDegrees >= 180 {
		return errors.New(errors.ErrCodeInvalidInput, "field of view must be in (0, 180) degrees, got %g", c.FOVDegrees)
	}
	if c.ViewportHeightPx <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "viewport height must be positive, got %g", c.ViewportHeightPx)
	}
	if c.Distance <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "camera distance must be positive, got %g", c.Distance)
	}
	return nil
}

// WorldPerPixel returns the world units spanned by one pixel for objects on
// the board plane. The visible world height at the plane is
// 2 * Distance * tan(FOV/2); dividing by the viewport height gives the
// uniform ratio. Returns 0 for a non-positive viewport height so a zero
// value never poisons downstream math with NaN.
func (c Camera) WorldPerPixel() float64 {
	if c.ViewportHeightPx <= 0 {
		return 0
	}
	halfFOV := c.FOVDegrees * math.Pi / 360
	return 2 * c.Distance * math.Tan(halfFOV) / c.ViewportHeightPx
}

// Mapper ties a camera to the pixel the world origin projects to, usually
// the viewport center. All pixel-to-world conversions at the interaction
// boundary go through it.
type Mapper struct {
	Camera Camera

	// Origin is the pixel position of the world origin.
	Origin Point
}

// NewMapper builds a mapper with the world origin at the viewport center.
func NewMapper(c Camera, viewportWidthPx float64) Mapper {
	return Mapper{
		Camera: c,
		Origin: Point{X: viewportWidthPx / 2, Y: c.ViewportHeightPx / 2},
	}
}

// PixelsToWorld converts a pixel distance to world units. Valid only for
// distances measured on the board plane.
func (m Mapper) PixelsToWorld(px float64) float64 {
	return px * m.Camera.WorldPerPixel()
}

// PointToWorld converts a viewport pixel position to the world point it
// touches on the board plane.
func (m Mapper) PointToWorld(p Point) layout.Vec2 {
	wpp := m.Camera.WorldPerPixel()
	return layout.Vec2{
		X: (p.X - m.Origin.X) * wpp,
		Y: (m.Origin.Y - p.Y) * wpp,
	}
}

// DeltaToWorld converts a pixel displacement to a world displacement,
// flipping the vertical axis.
func (m Mapper) DeltaToWorld(dxPx, dyPx float64) layout.Vec2 {
	wpp := m.Camera.WorldPerPixel()
	return layout.Vec2{X: dxPx * wpp, Y: -dyPx * wpp}
}

// WorldToPoint projects a world point on the board plane back to viewport
// pixels. Inverse of [Mapper.PointToWorld].
func (m Mapper) WorldToPoint(w layout.Vec2) Point {
	wpp := m.Camera.WorldPerPixel()
	if wpp == 0 {
		return m.Origin
	}
	return Point{
		X: m.Origin.X + w.X/wpp,
		Y: m.Origin.Y - w.Y/wpp,
	}
}

// WorldToGridSlot returns the slot a panel of the given span anchors at
// when its center sits at the given world point. Delegates to the grid's
// width-aware inverse; the result is unclamped.
func (m Mapper) WorldToGridSlot(g layout.Grid, world layout.Vec2, widthUnits int) (gx, gy int) {
	return g.SlotForCenter(world, widthUnits)
}
