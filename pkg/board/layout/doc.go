// Package layout computes world-space rectangles for panels on a grid.
//
// # Overview
//
// The board is a column grid: UnitsX columns of equal width, separated by a
// uniform spacing gap, with rows stacked downward from the top edge. Each
// panel occupies one row and a contiguous horizontal span of WidthUnits
// columns. A layout pass produces a complete [Result] containing all
// information needed for rendering:
//
//   - Panel rectangles (left, right, bottom, top world coordinates)
//   - The recomputed grid origin for the pass
//   - Conflicts for panels that could not be placed
//
// # Coordinate System
//
// World space is y-up. The grid is centered on the world origin: the frame
// spans [-TotalWidth/2, +TotalWidth/2] horizontally, and row zero hangs from
// the top edge at +TotalHeight/2. Larger GridY means lower on screen, which
// means smaller world Y.
//
// # Conflict Policy
//
// Panels are placed in (GridY, GridX, ID) order. When a panel requests a
// cell already granted earlier in the same pass, the panel is dropped from
// the pass and reported in [Result.Conflicts]. Its logical fields are never
// rewritten, so a later pass may place it again once the contested cell
// frees up.
//
// # Running a Pass
//
// Use [Compute] with a grid and the panels' logical placements:
//
//	res, err := layout.Compute(grid, items)
//
// A pass is pure: identical inputs produce identical results, and computing
// twice in a row changes nothing.
package layout
