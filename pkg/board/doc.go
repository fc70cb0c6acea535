// Package board owns the panels and coordinates layout passes.
//
// # Overview
//
// A [Manager] holds the authoritative panel set for one board: logical grid
// placements plus opaque appearance settings. Every mutation (add, remove,
// settings apply, spacing change, gesture commit) runs one layout pass and
// pushes the resulting rectangles to the rendering collaborators. The
// manager never decides how visuals are built; it emits data and lets the
// registered [Renderer] act on it.
//
// # Collaborators
//
// Three small interfaces cross the boundary:
//
//   - [Renderer] receives rectangles and transient pose offsets
//   - [HitTester] resolves pointer positions to panel regions
//   - [ContentRenderer] regenerates a panel's content surface when its
//     size changes; its failures are isolated and never abort a pass
//
// All of them default to no-ops so the manager is fully usable headless,
// which is also how most of its tests run.
//
// # Usage
//
//	mgr, err := board.New(layout.Grid{UnitsX: 6, CellWidth: 2, Spacing: 0.5},
//	    board.WithRenderer(myRenderer),
//	    board.WithLogger(logger),
//	)
//	if err != nil {
//	    return err
//	}
//	id, err := mgr.AddPanel(0, 0, 3, "plasma")
package board
