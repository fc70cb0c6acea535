package layout

import (
	"slices"
)

// Item is the engine's view of a panel: an identity plus the logical
// placement fields that drive the pass. Items are inputs only; a pass never
// writes them back.
type Item struct {
	ID         int
	GridX      int
	GridY      int
	WidthUnits int
}

// Placement is one panel's outcome for a pass: the effective grid fields
// after clamping plus the world rectangle they map to.
type Placement struct {
	ID         int
	GridX      int
	GridY      int
	WidthUnits int
	Rect       Rect
}

// Conflict records a panel dropped from a pass because one of the cells it
// spans was already granted to an earlier panel.
type Conflict struct {
	ID      int // the dropped panel
	OwnerID int // the panel holding the contested cell
	GridX   int // the contested cell
	GridY   int
}

// Result is the complete outcome of a layout pass.
type Result struct {
	// Grid is the input grid with Origin recomputed for this pass. Callers
	// keep it as the current mapping between slots and world space.
	Grid Grid

	// Placements holds one entry per placed panel in (GridY, GridX, ID)
	// order. Dropped panels do not appear.
	Placements []Placement

	// Conflicts lists the panels dropped from this pass, in placement order.
	Conflicts []Conflict

	// Rows is the number of rows the placed panels occupy: one past the
	// largest placed GridY, or zero when nothing was placed.
	Rows int

	// FrameWidth and FrameHeight are the world-space dimensions of the
	// occupied frame. FrameWidth depends only on the grid configuration;
	// FrameHeight grows with Rows.
	FrameWidth  float64
	FrameHeight float64
}

// Placement returns the placement for the given panel, if it was placed.
func (r Result) Placement(id int) (Placement, bool) {
	for _, p := range r.Placements {
		if p.ID == id {
			return p, true
		}
	}
	return Placement{}, false
}

// Dropped reports whether the given panel was dropped from the pass.
func (r Result) Dropped(id int) bool {
	for _, c := range r.Conflicts {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Compute runs one layout pass over the given items.
//
// Items are placed in (GridY, GridX, ID) order. Each item's span is clamped
// into the grid before placement: WidthUnits into [1, UnitsX], then GridX so
// the span ends at or before the last column, and negative GridY to zero.
// The clamps apply to this pass only; the caller's items are not modified.
//
// An item whose span touches a cell already granted in this pass is dropped
// and reported in [Result.Conflicts]. Row count, and with it the vertical
// centering of the whole frame, is derived from placed items only.
//
// The only error is an invalid grid configuration.
func Compute(grid Grid, items []Item) (Result, error) {
	if err := grid.Validate(); err != nil {
		return Result{}, err
	}

	sorted := slices.Clone(items)
	slices.SortFunc(sorted, func(a, b Item) int {
		if a.GridY != b.GridY {
			return a.GridY - b.GridY
		}
		if a.GridX != b.GridX {
			return a.GridX - b.GridX
		}
		return a.ID - b.ID
	})

	type cell struct{ x, y int }
	occupied := make(map[cell]int, len(sorted))
	placed := make([]Item, 0, len(sorted))
	var conflicts []Conflict

	for _, it := range sorted {
		it.WidthUnits = clamp(it.WidthUnits, 1, grid.UnitsX)
		it.GridX = clamp(it.GridX, 0, grid.UnitsX-it.WidthUnits)
		if it.GridY < 0 {
			it.GridY = 0
		}

		taken := false
		for dx := 0; dx < it.WidthUnits; dx++ {
			c := cell{x: it.GridX + dx, y: it.GridY}
			if owner, ok := occupied[c]; ok {
				conflicts = append(conflicts, Conflict{ID: it.ID, OwnerID: owner, GridX: c.x, GridY: c.y})
				taken = true
				break
			}
		}
		if taken {
			continue
		}
		for dx := 0; dx < it.WidthUnits; dx++ {
			occupied[cell{x: it.GridX + dx, y: it.GridY}] = it.ID
		}
		placed = append(placed, it)
	}

	rows := 0
	for _, it := range placed {
		if it.GridY+1 > rows {
			rows = it.GridY + 1
		}
	}

	// Center the occupied frame on the world origin, top row hanging from
	// the top edge.
	grid.Origin = Vec2{X: -grid.TotalWidth() / 2, Y: grid.TotalHeight(rows) / 2}

	placements := make([]Placement, len(placed))
	for i, it := range placed {
		w := grid.SpanWidth(it.WidthUnits)
		center := Vec2{
			X: grid.Origin.X + float64(it.GridX)*grid.PitchX() + w/2,
			Y: grid.Origin.Y - float64(it.GridY)*grid.PitchY() - grid.CellHeight()/2,
		}
		placements[i] = Placement{
			ID:         it.ID,
			GridX:      it.GridX,
			GridY:      it.GridY,
			WidthUnits: it.WidthUnits,
			Rect:       RectFromCenter(center, w, grid.CellHeight()),
		}
	}

	return Result{
		Grid:        grid,
		Placements:  placements,
		Conflicts:   conflicts,
		Rows:        rows,
		FrameWidth:  grid.TotalWidth(),
		FrameHeight: grid.TotalHeight(rows),
	}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
