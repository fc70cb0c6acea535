package interact

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/boardkit/gridboard/pkg/board"
	"github.com/boardkit/gridboard/pkg/board/layout"
	"github.com/boardkit/gridboard/pkg/board/view"
	"github.com/boardkit/gridboard/pkg/observability"
)

// Controller is the pointer interaction state machine. It owns the active
// gesture and every panel's visual pose; all logical mutation goes through
// the manager's commit path. Like the manager it is single-threaded by
// contract: pointer events and ticks must come from one event loop.
type Controller struct {
	mgr    *board.Manager
	hit    board.HitTester
	rend   board.Renderer
	mapper view.Mapper
	logger *log.Logger
	now    func() time.Time

	jiggle     JiggleConfig
	onSettings func(panelID int)

	gesture  gesture
	poses    map[int]*pose
	lastTick time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithMapper sets the pixel conversion for the current viewport.
func WithMapper(m view.Mapper) Option {
	return func(c *Controller) { c.mapper = m }
}

// WithRenderer registers the visual collaborator that receives pose
// updates each tick. Usually the same instance the manager renders to.
func WithRenderer(r board.Renderer) Option {
	return func(c *Controller) {
		if r != nil {
			c.rend = r
		}
	}
}

// WithLogger sets the diagnostic logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithJiggle overrides the cosmetic nudge parameters.
func WithJiggle(cfg JiggleConfig) Option {
	return func(c *Controller) { c.jiggle = cfg }
}

// WithSettingsHandler registers the callback invoked when the settings
// region of a panel is pressed.
func WithSettingsHandler(fn func(panelID int)) Option {
	return func(c *Controller) { c.onSettings = fn }
}

// WithClock swaps the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// nullHitTester never hits. Used when no hit tester is registered.
type nullHitTester struct{}

func (nullHitTester) HitTest(view.Point) (board.Hit, bool) { return board.Hit{}, false }

// New creates a controller for the given manager. A nil hit tester is
// replaced by one that never hits, which leaves the controller inert.
func New(mgr *board.Manager, hit board.HitTester, opts ...Option) *Controller {
	c := &Controller{
		mgr:     mgr,
		hit:     hit,
		rend:    board.NoopRenderer{},
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
		now:     time.Now,
		jiggle:  defaultJiggle,
		poses:   make(map[int]*pose),
		gesture: gesture{kind: KindIdle},
	}
	if hit == nil {
		c.hit = nullHitTester{}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current gesture.
func (c *Controller) State() State {
	return State{Kind: c.gesture.kind, PanelID: c.gesture.panelID, Edge: c.gesture.edge}
}

// SetMapper swaps the pixel conversion, typically after a viewport resize.
// Safe between gestures and during one: subsequent events use the new
// projection.
func (c *Controller) SetMapper(m view.Mapper) { c.mapper = m }

// PointerDown starts a gesture if the press lands on a drag handle or a
// resize edge. Settings presses invoke the registered handler; body hits
// and misses are ignored.
func (c *Controller) PointerDown(p view.Point) {
	if c.gesture.kind != KindIdle {
		return
	}
	hit, ok := c.hit.HitTest(p)
	if !ok {
		return
	}

	switch {
	case isDragHandle(hit.Region):
		c.beginDrag(hit.PanelID, p)
	case hit.Region == board.RegionSettings:
		if c.onSettings != nil {
			c.onSettings(hit.PanelID)
		}
	default:
		if edge, ok := regionEdge(hit.Region); ok {
			c.beginResize(hit.PanelID, edge, p)
		}
	}
}

// PointerMove advances the active gesture. Dragging moves only the visual
// target; resizing commits whole-column changes as they happen.
func (c *Controller) PointerMove(p view.Point) {
	switch c.gesture.kind {
	case KindDragging:
		world := c.mapper.PointToWorld(p)
		c.gesture.target = world.Sub(c.gesture.grabOffset)
	case KindResizing:
		c.resizeTo(p)
	}
}

// PointerUp folds the final position into the gesture and releases it.
func (c *Controller) PointerUp(p view.Point) {
	c.PointerMove(p)
	c.release()
}

// PointerLeave ends the gesture exactly like a release at the last seen
// position, so the machine cannot get stuck when the pointer exits the
// tracked surface mid-gesture.
func (c *Controller) PointerLeave() {
	c.release()
}

// DragPreview returns the slot the dragged panel would commit to if the
// pointer released right now. ok is false outside a drag.
func (c *Controller) DragPreview() (gx, gy int, ok bool) {
	if c.gesture.kind != KindDragging {
		return 0, 0, false
	}
	panel, found := c.mgr.PanelByID(c.gesture.panelID)
	if !found {
		return 0, 0, false
	}
	grid := c.mgr.Grid()
	gx, gy = c.mapper.WorldToGridSlot(grid, c.gesture.target, panel.WidthUnits)
	// Mirror the commit clamps so the preview names the real destination.
	if gx < 0 {
		gx = 0
	}
	if gx > grid.UnitsX-panel.WidthUnits {
		gx = grid.UnitsX - panel.WidthUnits
	}
	if gy < 0 {
		gy = 0
	}
	return gx, gy, true
}

// Tick is the per-frame entry point: it fires the delayed jiggle, eases
// poses toward their targets and forwards (rectangle, offset) pairs to the
// renderer. It performs no layout work.
func (c *Controller) Tick(now time.Time) {
	dt := 0.0
	if !c.lastTick.IsZero() {
		dt = now.Sub(c.lastTick).Seconds()
	}
	c.lastTick = now

	if c.gesture.kind == KindDragging && !c.gesture.jiggled &&
		now.Sub(c.gesture.startedAt) >= c.jiggle.Delay {
		c.applyJiggle(c.gesture.panelID)
		c.gesture.jiggled = true
	}

	s := easeFraction(dt)
	res := c.mgr.Layout()
	for _, pl := range res.Placements {
		ps := c.poseFor(pl.ID)
		dragged := c.gesture.kind == KindDragging && pl.ID == c.gesture.panelID
		if dragged {
			ps.target = board.Offset{Translation: c.gesture.target.Sub(pl.Rect.Center())}
		}
		if ps.atRest() && !dragged {
			continue
		}
		ps.step(s)
		c.rend.Render(pl.ID, pl.Rect, ps.current)
	}

	c.prunePoses(res)
}

func (c *Controller) beginDrag(id int, p view.Point) {
	pl, ok := c.mgr.Layout().Placement(id)
	if !ok {
		// Dropped this pass, nothing visible to grab.
		return
	}
	world := c.mapper.PointToWorld(p)
	center := pl.Rect.Center()
	c.gesture = gesture{
		kind:       KindDragging,
		panelID:    id,
		grabOffset: world.Sub(center),
		target:     center,
		startedAt:  c.now(),
	}
	observability.Gesture().OnDragStart(context.Background(), id)
	c.logger.Debug("drag started", "panel", id)
}

func (c *Controller) beginResize(id int, edge Edge, p view.Point) {
	panel, ok := c.mgr.PanelByID(id)
	if !ok {
		return
	}
	world := c.mapper.PointToWorld(p)
	c.gesture = gesture{
		kind:         KindResizing,
		panelID:      id,
		edge:         edge,
		initialWidth: panel.WidthUnits,
		initialGridX: panel.GridX,
		anchorX:      world.X,
	}
	observability.Gesture().OnResizeStart(context.Background(), id, string(edge))
	c.logger.Debug("resize started", "panel", id, "edge", edge)
}

// resizeTo quantizes the pointer's travel since the grab into whole
// columns and commits the resulting span when it differs from the panel's
// current one.
func (c *Controller) resizeTo(p view.Point) {
	g := c.gesture
	panel, ok := c.mgr.PanelByID(g.panelID)
	if !ok {
		c.cancel()
		return
	}
	world := c.mapper.PointToWorld(p)
	grid := c.mgr.Grid()
	deltaUnits := int(math.Round((world.X - g.anchorX) / grid.PitchX()))

	newWidth := g.initialWidth
	newGridX := g.initialGridX
	switch g.edge {
	case EdgeRight:
		newWidth = g.initialWidth + deltaUnits
	case EdgeLeft:
		// The left edge moves the anchor and the span together.
		newWidth = g.initialWidth - deltaUnits
		newGridX = g.initialGridX + deltaUnits
	}

	// Clamp order matters: width into the grid, anchor to zero, span to
	// the right edge, width back above zero.
	if newWidth < 1 {
		newWidth = 1
	}
	if newWidth > grid.UnitsX {
		newWidth = grid.UnitsX
	}
	if newGridX < 0 {
		newGridX = 0
	}
	if newWidth > grid.UnitsX-newGridX {
		newWidth = grid.UnitsX - newGridX
	}
	if newWidth < 1 {
		newWidth = 1
	}

	if newWidth == panel.WidthUnits && newGridX == panel.GridX {
		return
	}
	changed, err := c.mgr.CommitPlacement(g.panelID, newGridX, panel.GridY, newWidth)
	if err != nil {
		c.cancel()
		return
	}
	if changed {
		c.gesture.resized = true
	}
}

// release ends the active gesture: drags commit through the slot inverse,
// resizes are already current. Jiggle targets reset either way.
func (c *Controller) release() {
	g := c.gesture
	switch g.kind {
	case KindDragging:
		c.releaseDrag(g)
	case KindResizing:
		if panel, ok := c.mgr.PanelByID(g.panelID); ok {
			observability.Gesture().OnResizeCommit(context.Background(),
				g.panelID, panel.GridX, panel.WidthUnits, g.resized)
			c.logger.Debug("resize finished",
				"panel", g.panelID, "grid_x", panel.GridX, "width_units", panel.WidthUnits)
		}
	default:
		return
	}
	c.clearJiggle()
	c.gesture = gesture{kind: KindIdle}
}

func (c *Controller) releaseDrag(g gesture) {
	ctx := context.Background()
	panel, ok := c.mgr.PanelByID(g.panelID)
	if !ok {
		observability.Gesture().OnGestureCancel(ctx, g.panelID)
		c.logger.Debug("drag cancelled, panel gone", "panel", g.panelID)
		return
	}

	gx, gy := c.mapper.WorldToGridSlot(c.mgr.Grid(), g.target, panel.WidthUnits)
	moved, err := c.mgr.CommitPlacement(g.panelID, gx, gy, panel.WidthUnits)
	if err != nil {
		observability.Gesture().OnGestureCancel(ctx, g.panelID)
		return
	}

	committed, _ := c.mgr.PanelByID(g.panelID)
	observability.Gesture().OnDragCommit(ctx, g.panelID, committed.GridX, committed.GridY, moved)
	c.logger.Debug("drag committed",
		"panel", g.panelID, "grid_x", committed.GridX, "grid_y", committed.GridY, "moved", moved)

	// Rebase the pose so the visual eases from the drop point into the
	// committed slot instead of teleporting.
	if pl, ok := c.mgr.Layout().Placement(g.panelID); ok {
		ps := c.poseFor(g.panelID)
		ps.current = board.Offset{Translation: g.target.Sub(pl.Rect.Center())}
		ps.target = board.Offset{}
	}
}

// cancel abandons the gesture without a commit.
func (c *Controller) cancel() {
	observability.Gesture().OnGestureCancel(context.Background(), c.gesture.panelID)
	c.logger.Debug("gesture cancelled", "panel", c.gesture.panelID)
	c.clearJiggle()
	c.gesture = gesture{kind: KindIdle}
}

func (c *Controller) poseFor(id int) *pose {
	ps, ok := c.poses[id]
	if !ok {
		ps = &pose{}
		c.poses[id] = ps
	}
	return ps
}

// prunePoses drops pose state for panels that are out of the layout. Their
// visuals are hidden or removed already; a panel that returns starts at
// rest on its committed rectangle.
func (c *Controller) prunePoses(res layout.Result) {
	for id := range c.poses {
		if _, ok := res.Placement(id); !ok {
			delete(c.poses, id)
		}
	}
}
