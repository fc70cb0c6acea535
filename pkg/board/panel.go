package board

import "github.com/boardkit/gridboard/pkg/board/layout"

// Panel is one content panel on the board. GridX, GridY and WidthUnits are
// the committed logical placement; they change only through manager
// operations and gesture commits, never inside a layout pass.
type Panel struct {
	ID         int
	GridX      int
	GridY      int
	WidthUnits int
	Settings   Settings
}

// Settings are the appearance and content fields the layout engine ignores.
type Settings struct {
	// Title is shown on the panel's chrome.
	Title string

	// Color is an opaque style hint for the renderer, typically a hex
	// value. Empty means the renderer picks one.
	Color string

	// Script is the content program executed by the content collaborator
	// to paint the panel's surface. Opaque to this package.
	Script string

	// ShowTitle toggles the title bar.
	ShowTitle bool
}

// Item returns the panel's placement as the layout engine consumes it.
func (p Panel) Item() layout.Item {
	return layout.Item{ID: p.ID, GridX: p.GridX, GridY: p.GridY, WidthUnits: p.WidthUnits}
}

// Patch mutates a subset of a panel's fields; nil fields are left alone.
// Placement fields always target a single panel, even when appearance
// fields are being applied to all.
type Patch struct {
	Title     *string
	Color     *string
	Script    *string
	ShowTitle *bool

	GridX      *int
	GridY      *int
	WidthUnits *int
}

// hasPlacement reports whether the patch touches any placement field.
func (p Patch) hasPlacement() bool {
	return p.GridX != nil || p.GridY != nil || p.WidthUnits != nil
}

// applyAppearance copies the non-nil appearance fields onto s.
func (p Patch) applyAppearance(s *Settings) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Color != nil {
		s.Color = *p.Color
	}
	if p.Script != nil {
		s.Script = *p.Script
	}
	if p.ShowTitle != nil {
		s.ShowTitle = *p.ShowTitle
	}
}
