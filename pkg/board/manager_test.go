package board

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/boardkit/gridboard/pkg/board/layout"
	"github.com/boardkit/gridboard/pkg/errors"
	"github.com/boardkit/gridboard/pkg/observability"
)

func testGrid() layout.Grid {
	return layout.Grid{UnitsX: 6, CellWidth: 2, Spacing: 0.5}
}

// recordingRenderer captures collaborator calls for assertions.
type recordingRenderer struct {
	rects   map[int]layout.Rect
	hidden  []int
	removed []int
	renders int
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{rects: make(map[int]layout.Rect)}
}

func (r *recordingRenderer) Render(id int, rect layout.Rect, _ Offset) {
	r.rects[id] = rect
	r.renders++
}
func (r *recordingRenderer) HideVisual(id int)   { r.hidden = append(r.hidden, id) }
func (r *recordingRenderer) RemoveVisual(id int) { r.removed = append(r.removed, id) }

// recordingContent counts SetSize calls and can be told to fail.
type recordingContent struct {
	calls map[int]int
	fail  bool
}

func newRecordingContent() *recordingContent {
	return &recordingContent{calls: make(map[int]int)}
}

func (c *recordingContent) SetSize(id int, w, h float64) error {
	if c.fail {
		return fmt.Errorf("script blew up")
	}
	c.calls[id]++
	return nil
}

func TestNewValidatesGrid(t *testing.T) {
	if _, err := New(layout.Grid{UnitsX: 0, CellWidth: 2}); err == nil {
		t.Fatal("New() accepted a grid with no columns")
	}
	m, err := New(testGrid())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if m.ID() == uuid.Nil {
		t.Error("ID() is the zero uuid")
	}
	if m.Name() != "board" {
		t.Errorf("Name() = %q, want %q", m.Name(), "board")
	}
}

func TestAddPanelAssignsSmallestUnusedID(t *testing.T) {
	m, err := New(testGrid())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for want := 1; want <= 3; want++ {
		id, err := m.AddPanel(0, want-1, 2, "panel")
		if err != nil {
			t.Fatalf("AddPanel() error = %v", err)
		}
		if id != want {
			t.Fatalf("AddPanel() id = %d, want %d", id, want)
		}
	}

	if err := m.RemovePanel(2); err != nil {
		t.Fatalf("RemovePanel() error = %v", err)
	}
	id, err := m.AddPanel(3, 0, 2, "replacement")
	if err != nil {
		t.Fatalf("AddPanel() error = %v", err)
	}
	if id != 2 {
		t.Errorf("freed id not reused: got %d, want 2", id)
	}
}

func TestAddPanelValidation(t *testing.T) {
	m, _ := New(testGrid())

	tests := []struct {
		name       string
		gridX      int
		gridY      int
		widthUnits int
		title      string
		wantCode   errors.Code
	}{
		{name: "span past last column", gridX: 4, gridY: 0, widthUnits: 3, title: "x", wantCode: errors.ErrCodeInvalidPlacement},
		{name: "negative row", gridX: 0, gridY: -1, widthUnits: 1, title: "x", wantCode: errors.ErrCodeInvalidPlacement},
		{name: "zero width", gridX: 0, gridY: 0, widthUnits: 0, title: "x", wantCode: errors.ErrCodeInvalidPlacement},
		{name: "title too long", gridX: 0, gridY: 0, widthUnits: 1, title: strings.Repeat("a", 200), wantCode: errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.AddPanel(tt.gridX, tt.gridY, tt.widthUnits, tt.title)
			if err == nil {
				t.Fatal("AddPanel() accepted invalid input")
			}
			if errors.GetCode(err) != tt.wantCode {
				t.Errorf("GetCode() = %q, want %q", errors.GetCode(err), tt.wantCode)
			}
		})
	}
	if m.PanelCount() != 0 {
		t.Errorf("failed adds left %d panels behind", m.PanelCount())
	}
}

func TestAddPanelLaysOutAndRenders(t *testing.T) {
	rend := newRecordingRenderer()
	m, _ := New(testGrid(), WithRenderer(rend))

	id, err := m.AddPanel(0, 0, 6, "wide")
	if err != nil {
		t.Fatalf("AddPanel() error = %v", err)
	}

	rect, ok := rend.rects[id]
	if !ok {
		t.Fatal("renderer never saw the new panel")
	}
	if rect.Width() != 14.5 || rect.Height() != 2 {
		t.Errorf("rect = %v x %v, want 14.5 x 2", rect.Width(), rect.Height())
	}
	if rect.CenterX() != 0 || rect.CenterY() != 0 {
		t.Errorf("center = (%v, %v), want the world origin", rect.CenterX(), rect.CenterY())
	}
}

func TestRemovePanel(t *testing.T) {
	rend := newRecordingRenderer()
	m, _ := New(testGrid(), WithRenderer(rend))
	id, _ := m.AddPanel(0, 0, 2, "doomed")

	if err := m.RemovePanel(id); err != nil {
		t.Fatalf("RemovePanel() error = %v", err)
	}
	if len(rend.removed) != 1 || rend.removed[0] != id {
		t.Errorf("RemoveVisual calls = %v, want [%d]", rend.removed, id)
	}
	if _, ok := m.PanelByID(id); ok {
		t.Error("panel still present after removal")
	}

	err := m.RemovePanel(id)
	if errors.GetCode(err) != errors.ErrCodePanelNotFound {
		t.Errorf("GetCode() = %q, want %q", errors.GetCode(err), errors.ErrCodePanelNotFound)
	}
}

func TestApplySettingsSinglePanel(t *testing.T) {
	m, _ := New(testGrid())
	a, _ := m.AddPanel(0, 0, 2, "first")
	b, _ := m.AddPanel(2, 0, 2, "second")

	title := "renamed"
	color := "#ff8800"
	if err := m.ApplySettings(a, Patch{Title: &title, Color: &color}, false); err != nil {
		t.Fatalf("ApplySettings() error = %v", err)
	}

	pa, _ := m.PanelByID(a)
	if pa.Settings.Title != "renamed" || pa.Settings.Color != "#ff8800" {
		t.Errorf("target settings = %+v", pa.Settings)
	}
	pb, _ := m.PanelByID(b)
	if pb.Settings.Title != "second" || pb.Settings.Color != "" {
		t.Errorf("other panel changed: %+v", pb.Settings)
	}
}

func TestApplySettingsToAllKeepsPlacementSingle(t *testing.T) {
	m, _ := New(testGrid())
	a, _ := m.AddPanel(0, 0, 2, "first")
	b, _ := m.AddPanel(2, 0, 2, "second")

	color := "#222222"
	gridX := 4
	if err := m.ApplySettings(a, Patch{Color: &color, GridX: &gridX}, true); err != nil {
		t.Fatalf("ApplySettings() error = %v", err)
	}

	pa, _ := m.PanelByID(a)
	pb, _ := m.PanelByID(b)
	if pa.Settings.Color != color || pb.Settings.Color != color {
		t.Error("appearance should reach every panel")
	}
	if pa.GridX != 4 {
		t.Errorf("target gridX = %d, want 4", pa.GridX)
	}
	if pb.GridX != 2 {
		t.Errorf("placement leaked to other panel: gridX = %d", pb.GridX)
	}
}

func TestApplySettingsValidatesPlacement(t *testing.T) {
	m, _ := New(testGrid())
	id, _ := m.AddPanel(0, 0, 3, "anchored")

	gridX := 5 // 5 + 3 > 6
	err := m.ApplySettings(id, Patch{GridX: &gridX}, false)
	if errors.GetCode(err) != errors.ErrCodeInvalidPlacement {
		t.Fatalf("GetCode() = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidPlacement)
	}
	p, _ := m.PanelByID(id)
	if p.GridX != 0 {
		t.Errorf("failed patch still moved the panel: gridX = %d", p.GridX)
	}

	if err := m.ApplySettings(99, Patch{}, false); errors.GetCode(err) != errors.ErrCodePanelNotFound {
		t.Errorf("GetCode() = %q, want %q", errors.GetCode(err), errors.ErrCodePanelNotFound)
	}
}

func TestSetSpacing(t *testing.T) {
	rend := newRecordingRenderer()
	m, _ := New(testGrid(), WithRenderer(rend))
	id, _ := m.AddPanel(0, 0, 2, "stretch")

	if err := m.SetSpacing(1); err != nil {
		t.Fatalf("SetSpacing() error = %v", err)
	}
	// Two columns of 2 with a gap of 1.
	if got := rend.rects[id].Width(); got != 5 {
		t.Errorf("width after respacing = %v, want 5", got)
	}

	if err := m.SetSpacing(-0.5); err == nil {
		t.Fatal("SetSpacing() accepted a negative gap")
	}
}

func TestCommitPlacementMovesAndClamps(t *testing.T) {
	m, _ := New(testGrid())
	id, _ := m.AddPanel(0, 0, 3, "mover")

	// Way past the right edge: anchor clamps so the span still fits.
	changed, err := m.CommitPlacement(id, 9, 1, 3)
	if err != nil {
		t.Fatalf("CommitPlacement() error = %v", err)
	}
	if !changed {
		t.Fatal("CommitPlacement() reported no change")
	}
	p, _ := m.PanelByID(id)
	if p.GridX != 3 || p.GridY != 1 || p.WidthUnits != 3 {
		t.Errorf("placement = (%d, %d, %d), want (3, 1, 3)", p.GridX, p.GridY, p.WidthUnits)
	}
}

func TestCommitPlacementJitterGuard(t *testing.T) {
	rend := newRecordingRenderer()
	m, _ := New(testGrid(), WithRenderer(rend))
	id, _ := m.AddPanel(1, 0, 2, "steady")

	before := rend.renders
	changed, err := m.CommitPlacement(id, 1, 0, 2)
	if err != nil {
		t.Fatalf("CommitPlacement() error = %v", err)
	}
	if changed {
		t.Error("identical placement reported as a change")
	}
	if rend.renders != before {
		t.Errorf("redundant commit triggered %d extra renders", rend.renders-before)
	}

	if _, err := m.CommitPlacement(404, 0, 0, 1); errors.GetCode(err) != errors.ErrCodePanelNotFound {
		t.Errorf("GetCode() = %q, want %q", errors.GetCode(err), errors.ErrCodePanelNotFound)
	}
}

func TestConflictDropsAndRecovers(t *testing.T) {
	rend := newRecordingRenderer()
	m, _ := New(testGrid(), WithRenderer(rend))
	mover, _ := m.AddPanel(3, 0, 3, "mover")    // id 1
	incumbent, _ := m.AddPanel(0, 0, 3, "home") // id 2

	// Drag the mover onto the incumbent's slot. The commit is not
	// pre-checked; the pass drops the incumbent (later in placement
	// order) and hides it.
	if _, err := m.CommitPlacement(mover, 0, 0, 3); err != nil {
		t.Fatalf("CommitPlacement() error = %v", err)
	}

	res := m.Layout()
	if _, ok := res.Placement(mover); !ok {
		t.Error("moved panel missing from the pass")
	}
	if !res.Dropped(incumbent) {
		t.Error("incumbent should be dropped while the cell is contested")
	}
	if len(rend.hidden) == 0 || rend.hidden[len(rend.hidden)-1] != incumbent {
		t.Errorf("renderer hides = %v, want the incumbent %d", rend.hidden, incumbent)
	}
	// Logical fields survive the drop.
	p, _ := m.PanelByID(incumbent)
	if p.GridX != 0 || p.GridY != 0 || p.WidthUnits != 3 {
		t.Errorf("incumbent fields rewritten: %+v", p)
	}

	// Moving the mover away resolves the conflict on the next pass.
	if _, err := m.CommitPlacement(mover, 0, 1, 3); err != nil {
		t.Fatalf("CommitPlacement() error = %v", err)
	}
	res = m.Layout()
	if _, ok := res.Placement(incumbent); !ok {
		t.Error("incumbent still missing after the cell freed up")
	}
	if len(res.Conflicts) != 0 {
		t.Errorf("Conflicts = %+v, want none", res.Conflicts)
	}
}

func TestConflictEmitsHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	hooks := &conflictRecorder{}
	observability.SetLayoutHooks(hooks)

	m, _ := New(testGrid())
	m.AddPanel(0, 0, 3, "a")
	m.AddPanel(0, 0, 3, "b")

	if hooks.conflicts != 1 {
		t.Errorf("conflict hook fired %d times, want 1", hooks.conflicts)
	}
}

type conflictRecorder struct {
	observability.NoopLayoutHooks
	conflicts int
}

func (c *conflictRecorder) OnConflict(context.Context, int, int, int, int) { c.conflicts++ }

func TestContentSizePushedOnSizeChangeOnly(t *testing.T) {
	content := newRecordingContent()
	m, _ := New(testGrid(), WithContentRenderer(content))
	id, _ := m.AddPanel(0, 0, 2, "canvas")

	if content.calls[id] != 1 {
		t.Fatalf("SetSize calls after add = %d, want 1", content.calls[id])
	}

	// Moving without resizing keeps the surface size.
	m.CommitPlacement(id, 0, 1, 2)
	if content.calls[id] != 1 {
		t.Errorf("SetSize calls after move = %d, want still 1", content.calls[id])
	}

	// Widening changes it.
	m.CommitPlacement(id, 0, 1, 4)
	if content.calls[id] != 2 {
		t.Errorf("SetSize calls after resize = %d, want 2", content.calls[id])
	}
}

func TestContentFailureIsIsolated(t *testing.T) {
	content := newRecordingContent()
	content.fail = true
	m, _ := New(testGrid(), WithContentRenderer(content))

	id, err := m.AddPanel(0, 0, 2, "broken script")
	if err != nil {
		t.Fatalf("AddPanel() error = %v", err)
	}
	if _, ok := m.Layout().Placement(id); !ok {
		t.Error("content failure knocked the panel out of layout")
	}
	if !m.ContentFailed(id) {
		t.Error("ContentFailed() = false after a failed push")
	}

	// Once the collaborator recovers, the retried size push lands.
	content.fail = false
	m.CommitPlacement(id, 2, 0, 2)
	if content.calls[id] != 1 {
		t.Errorf("SetSize calls after recovery = %d, want 1", content.calls[id])
	}
	if m.ContentFailed(id) {
		t.Error("ContentFailed() = true after a successful push")
	}
}

func TestPanelsSortedCopies(t *testing.T) {
	m, _ := New(testGrid())
	m.AddPanel(4, 0, 2, "c")
	m.AddPanel(0, 0, 2, "a")
	m.AddPanel(2, 0, 2, "b")

	panels := m.Panels()
	if len(panels) != 3 {
		t.Fatalf("Panels() = %d entries, want 3", len(panels))
	}
	for i, p := range panels {
		if p.ID != i+1 {
			t.Errorf("panels[%d].ID = %d, want %d", i, p.ID, i+1)
		}
	}

	// Mutating the copy must not touch the board.
	panels[0].GridX = 5
	orig, _ := m.PanelByID(panels[0].ID)
	if orig.GridX == 5 {
		t.Error("Panels() leaked internal state")
	}
}
