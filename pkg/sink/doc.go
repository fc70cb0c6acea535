// Package sink provides output format renderers for board layouts.
//
// # Overview
//
// A "sink" transforms a computed [layout.Result] into a final output format.
// This package provides renderers for:
//
//   - SVG: a standalone vector snapshot of the board
//   - JSON: layout data export for external tools
//
// # SVG Output
//
// [RenderSVG] draws the placed panels on the centered world frame, with the
// vertical axis flipped into pixel space. Options:
//
//   - [WithPanels]: attach titles and colors to the rectangles
//   - [WithScale]: output resolution in pixels per world unit
//   - [WithBackdrop]: draw the empty grid cells behind the panels
//   - [WithConflictMarkers]: outline the contested cell of dropped panels
//
// Basic usage:
//
//	svg := sink.RenderSVG(mgr.Layout(),
//	    sink.WithPanels(mgr.Panels()),
//	    sink.WithBackdrop(),
//	)
//
// # JSON Output
//
// [RenderJSON] exports the pass as a stable document: frame size, grid
// metrics, per-panel placements with world rectangles, and conflict
// diagnostics. [WithJSONPanels] enriches placements with titles and colors;
// [WithJSONBoard] records the board's name and identity.
//
// # Adding New Formats
//
// To add a new output format:
//
//  1. Create a renderer function: func RenderFoo(res layout.Result, opts ...FooOption) ([]byte, error)
//  2. Define option types for configuration
//  3. Access res.Placements for positioned panels, res.Conflicts for drops
//  4. Register in internal/cli/render.go for CLI support
//
// [layout.Result]: github.com/boardkit/gridboard/pkg/board/layout.Result
package sink
