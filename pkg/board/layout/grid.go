package layout

import (
	"math"

	"github.com/boardkit/gridboard/pkg/errors"
)

// Grid describes the column grid panels are placed on. UnitsX, CellWidth and
// Spacing are configuration; Origin is derived, recomputed by every layout
// pass so the frame stays centered on the world origin.
type Grid struct {
	// UnitsX is the number of columns. Must be at least 1.
	UnitsX int

	// CellWidth is the world-space width of a single column.
	CellWidth float64

	// Spacing is the gap between adjacent columns and between adjacent rows.
	Spacing float64

	// Origin anchors the grid in world space: Origin.X is the left edge of
	// column zero, Origin.Y the top edge of row zero.
	Origin Vec2
}

// Validate checks the grid configuration. Origin is derived and not checked.
func (g Grid) Validate() error {
	return errors.ValidateGrid(g.UnitsX, g.CellWidth, g.Spacing)
}

// CellHeight returns the world-space height of a row. Rows are as tall as a
// single column is wide, independent of how many columns a panel spans, so
// widening a panel never disturbs its neighbors vertically.
func (g Grid) CellHeight() float64 { return g.CellWidth }

// PitchX returns the horizontal distance between the left edges of two
// adjacent columns.
func (g Grid) PitchX() float64 { return g.CellWidth + g.Spacing }

// PitchY returns the vertical distance between the top edges of two
// adjacent rows.
func (g Grid) PitchY() float64 { return g.CellHeight() + g.Spacing }

// SpanWidth returns the world-space width of a panel spanning units columns:
// the columns themselves plus the interior gaps between them.
func (g Grid) SpanWidth(units int) float64 {
	if units < 1 {
		return 0
	}
	return float64(units)*g.CellWidth + float64(units-1)*g.Spacing
}

// TotalWidth returns the width of the full frame, all columns and gaps.
func (g Grid) TotalWidth() float64 { return g.SpanWidth(g.UnitsX) }

// TotalHeight returns the height of a frame holding rows rows.
func (g Grid) TotalHeight(rows int) float64 {
	if rows < 1 {
		return 0
	}
	return float64(rows)*g.CellHeight() + float64(rows-1)*g.Spacing
}

// CellCenter returns the world center of the single cell at (gx, gy).
func (g Grid) CellCenter(gx, gy int) Vec2 {
	return Vec2{
		X: g.Origin.X + float64(gx)*g.PitchX() + g.CellWidth/2,
		Y: g.Origin.Y - float64(gy)*g.PitchY() - g.CellHeight()/2,
	}
}

// SlotAt returns the grid slot whose cell center is nearest to p. The result
// is not clamped and may be negative or beyond the last column; callers
// decide how to bound it.
func (g Grid) SlotAt(p Vec2) (gx, gy int) {
	return g.SlotForCenter(p, 1)
}

// SlotForCenter inverts the placement formula for a panel of the given span:
// it returns the slot whose panel rectangle, were the panel placed there,
// would have its center nearest to c. For widthUnits 1 this is [Grid.SlotAt].
// Like SlotAt the result is unclamped.
func (g Grid) SlotForCenter(c Vec2, widthUnits int) (gx, gy int) {
	if widthUnits < 1 {
		widthUnits = 1
	}
	w := g.SpanWidth(widthUnits)
	gx = int(math.Round((c.X - g.Origin.X - w/2) / g.PitchX()))
	gy = int(math.Round((g.Origin.Y - c.Y - g.CellHeight()/2) / g.PitchY()))
	return gx, gy
}
