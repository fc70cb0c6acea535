// Package interact turns pointer events into panel mutations.
//
// # Overview
//
// A [Controller] consumes pointer events in viewport pixels, resolves them
// through the hit-test collaborator, and drives exactly one gesture at a
// time: Idle, Dragging or Resizing. Pixels are converted to world units at
// this boundary and nowhere else.
//
// # Gestures
//
// Dragging grabs a panel by its top or bottom handle. The grab offset from
// the panel's center is captured so the panel does not jump to the pointer.
// While the drag is live only the panel's visual target moves; the logical
// grid fields stay untouched, which keeps layout passes from thrashing on
// every pointer move. Release converts the visual target to a grid slot
// through the width-aware inverse, clamps it into the grid and commits.
// Overlap at the destination is not pre-checked; the layout engine's
// drop-and-retry policy resolves it on the commit pass.
//
// Resizing grabs a left or right edge. Pointer travel is quantized to whole
// columns; the right edge grows the span in place while the left edge moves
// the anchor and the span together. Commits happen live during the move,
// guarded so sub-column jitter never triggers a redundant pass. Release
// ends the gesture with the fields already current.
//
// The pointer leaving the tracked surface is treated exactly like a
// release, so the machine cannot get stuck mid-gesture.
//
// # Ticks and Poses
//
// [Controller.Tick] is the per-frame entry point. It never runs layout; it
// eases each panel's visual pose toward its target and forwards (rectangle,
// offset) pairs to the renderer. While a drag is live the other panels
// receive, once, after a short delay, a small seeded random pose nudge (the
// jiggle); it is cleared on release and never touches logical state.
package interact
