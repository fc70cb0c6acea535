package interact

import (
	"time"

	"github.com/boardkit/gridboard/pkg/board"
	"github.com/boardkit/gridboard/pkg/board/layout"
)

// Kind names the controller's current state.
type Kind string

const (
	KindIdle     Kind = "idle"
	KindDragging Kind = "dragging"
	KindResizing Kind = "resizing"
)

// Edge selects which side of a panel a resize gesture grabs.
type Edge string

const (
	EdgeLeft  Edge = "left"
	EdgeRight Edge = "right"
)

// State is a snapshot of the controller's gesture for display surfaces
// like a status bar. PanelID is zero when idle; Edge is set only while
// resizing.
type State struct {
	Kind    Kind
	PanelID int
	Edge    Edge
}

// gesture holds the transient fields of the active gesture. The zero value
// is idle.
type gesture struct {
	kind    Kind
	panelID int

	// dragging
	grabOffset layout.Vec2 // hit point minus panel center at grab time
	target     layout.Vec2 // visual target center, world space
	startedAt  time.Time
	jiggled    bool

	// resizing
	edge         Edge
	initialWidth int
	initialGridX int
	anchorX      float64 // pointer world X at grab time
	resized      bool    // any commit happened during this gesture
}

// regionEdge maps a hit region to a resize edge.
func regionEdge(r board.Region) (Edge, bool) {
	switch r {
	case board.RegionResizeLeft:
		return EdgeLeft, true
	case board.RegionResizeRight:
		return EdgeRight, true
	}
	return "", false
}

// isDragHandle reports whether the region starts a drag.
func isDragHandle(r board.Region) bool {
	return r == board.RegionDragTop || r == board.RegionDragBottom
}
