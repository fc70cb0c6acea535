package board

import (
	"github.com/boardkit/gridboard/pkg/board/layout"
	"github.com/boardkit/gridboard/pkg/board/view"
)

// Region identifies an interactive region of a panel. Hit testers return it
// as a typed value; nothing in the core parses region names.
type Region string

// Interactive regions, from top to bottom of a panel's chrome.
const (
	RegionSettings    Region = "settings"
	RegionDragTop     Region = "drag_top"
	RegionDragBottom  Region = "drag_bottom"
	RegionResizeLeft  Region = "resize_left"
	RegionResizeRight Region = "resize_right"
	RegionBody        Region = "body"
)

// Hit is the result of a successful hit test: one region of one panel.
type Hit struct {
	PanelID int
	Region  Region
}

// Offset is a transient visual displacement layered on top of a panel's
// committed rectangle: a world-space translation plus a small tilt in
// radians. The zero value means the panel sits exactly on its rectangle.
type Offset struct {
	Translation layout.Vec2
	Tilt        float64
}

// IsZero reports whether the offset displaces nothing.
func (o Offset) IsZero() bool {
	return o.Translation.X == 0 && o.Translation.Y == 0 && o.Tilt == 0
}

// Renderer is the visual collaborator. Render is idempotent: the first call
// for a panel creates its visual, later calls move and resize it in place.
// The manager renders committed rectangles with a zero offset; during
// gestures the interaction controller re-renders each tick with the eased
// pose offset.
type Renderer interface {
	Render(panelID int, rect layout.Rect, offset Offset)

	// HideVisual hides a panel dropped from the current pass. The panel
	// still exists and a later Render call shows it again.
	HideVisual(panelID int)

	// RemoveVisual disposes a removed panel's visual for good.
	RemoveVisual(panelID int)
}

// HitTester resolves a pointer position, in viewport pixels, to at most one
// panel region. Implementations must be deterministic.
type HitTester interface {
	HitTest(p view.Point) (Hit, bool)
}

// ContentRenderer regenerates a panel's content surface when its world size
// changes. Errors are isolated by the manager: they are logged, the panel
// shows whatever fallback the renderer chooses, and the pass continues.
type ContentRenderer interface {
	SetSize(panelID int, width, height float64) error
}

// NoopRenderer discards all visual updates.
type NoopRenderer struct{}

func (NoopRenderer) Render(int, layout.Rect, Offset) {}
func (NoopRenderer) HideVisual(int)                  {}
func (NoopRenderer) RemoveVisual(int)                {}

// NoopContentRenderer accepts every size change.
type NoopContentRenderer struct{}

func (NoopContentRenderer) SetSize(int, float64, float64) error { return nil }
