package board

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/boardkit/gridboard/pkg/board/layout"
	"github.com/boardkit/gridboard/pkg/errors"
	"github.com/boardkit/gridboard/pkg/observability"
)

// Manager owns the panel set for one board and drives layout passes.
//
// All mutation happens synchronously inside the caller's event loop; the
// manager holds no locks. See the package documentation for the
// collaborator contracts.
type Manager struct {
	id   uuid.UUID
	name string

	grid   layout.Grid
	panels map[int]*Panel
	result layout.Result

	renderer Renderer
	content  ContentRenderer
	logger   *log.Logger

	// contentSizes tracks the last size pushed to the content collaborator
	// per panel, so SetSize fires only on actual size changes. A failed
	// SetSize is not recorded and retries on the next pass.
	contentSizes  map[int]contentSize
	contentFailed map[int]bool
}

type contentSize struct {
	w, h float64
}

// Option configures a Manager.
type Option func(*Manager)

// WithRenderer registers the visual collaborator.
func WithRenderer(r Renderer) Option {
	return func(m *Manager) {
		if r != nil {
			m.renderer = r
		}
	}
}

// WithContentRenderer registers the content collaborator.
func WithContentRenderer(c ContentRenderer) Option {
	return func(m *Manager) {
		if c != nil {
			m.content = c
		}
	}
}

// WithLogger sets the diagnostic logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithName sets the board's display name.
func WithName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.name = name
		}
	}
}

// New creates a manager for the given grid. The grid must be valid; the
// origin field is recomputed immediately and on every subsequent pass.
func New(grid layout.Grid, opts ...Option) (*Manager, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		id:            uuid.New(),
		name:          "board",
		grid:          grid,
		panels:        make(map[int]*Panel),
		renderer:      NoopRenderer{},
		content:       NoopContentRenderer{},
		logger:        log.NewWithOptions(io.Discard, log.Options{}),
		contentSizes:  make(map[int]contentSize),
		contentFailed: make(map[int]bool),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.relayout()
	return m, nil
}

// ID returns the board's stable identity.
func (m *Manager) ID() uuid.UUID { return m.id }

// Name returns the board's display name.
func (m *Manager) Name() string { return m.name }

// Grid returns the current grid, including the origin of the last pass.
func (m *Manager) Grid() layout.Grid { return m.grid }

// Layout returns the result of the most recent layout pass.
func (m *Manager) Layout() layout.Result { return m.result }

// Panels returns copies of all panels, sorted by ID.
func (m *Manager) Panels() []Panel {
	out := make([]Panel, 0, len(m.panels))
	for _, p := range m.panels {
		out = append(out, *p)
	}
	slices.SortFunc(out, func(a, b Panel) int { return a.ID - b.ID })
	return out
}

// PanelByID returns a copy of the panel with the given id.
func (m *Manager) PanelByID(id int) (Panel, bool) {
	p, ok := m.panels[id]
	if !ok {
		return Panel{}, false
	}
	return *p, true
}

// PanelCount returns the number of panels on the board.
func (m *Manager) PanelCount() int { return len(m.panels) }

// ContentFailed reports whether the panel's last content render failed, so
// display surfaces can show a fallback instead of stale content. The flag
// clears as soon as a push succeeds.
func (m *Manager) ContentFailed(id int) bool { return m.contentFailed[id] }

// AddPanel creates a panel at the given placement and returns its id. IDs
// start at 1 and removed ids are reused, smallest first. The placement must
// fit the grid; explicit adds are validated rather than clamped.
func (m *Manager) AddPanel(gridX, gridY, widthUnits int, title string) (int, error) {
	if err := errors.ValidatePlacement(m.grid.UnitsX, gridX, gridY, widthUnits); err != nil {
		return 0, err
	}
	if err := errors.ValidateTitle(title); err != nil {
		return 0, err
	}

	id := m.nextID()
	m.panels[id] = &Panel{
		ID:         id,
		GridX:      gridX,
		GridY:      gridY,
		WidthUnits: widthUnits,
		Settings:   Settings{Title: title, ShowTitle: true},
	}
	m.logger.Debug("panel added", "panel", id, "grid_x", gridX, "grid_y", gridY, "width_units", widthUnits)
	m.relayout()
	return id, nil
}

// RemovePanel destroys a panel, disposes its visual and frees its id.
func (m *Manager) RemovePanel(id int) error {
	if _, ok := m.panels[id]; !ok {
		return errors.New(errors.ErrCodePanelNotFound, "panel %d not found", id)
	}
	delete(m.panels, id)
	delete(m.contentSizes, id)
	delete(m.contentFailed, id)
	m.renderer.RemoveVisual(id)
	m.logger.Debug("panel removed", "panel", id)
	m.relayout()
	return nil
}

// ApplySettings applies a patch to the panel with the given id. With
// applyToAll, the appearance fields go to every panel while placement
// fields still target only the named panel. Placement changes are validated
// against the grid; a patch that fails validation changes nothing.
func (m *Manager) ApplySettings(id int, patch Patch, applyToAll bool) error {
	target, ok := m.panels[id]
	if !ok {
		return errors.New(errors.ErrCodePanelNotFound, "panel %d not found", id)
	}
	if patch.Title != nil {
		if err := errors.ValidateTitle(*patch.Title); err != nil {
			return err
		}
	}

	if patch.hasPlacement() {
		gx, gy, w := target.GridX, target.GridY, target.WidthUnits
		if patch.GridX != nil {
			gx = *patch.GridX
		}
		if patch.GridY != nil {
			gy = *patch.GridY
		}
		if patch.WidthUnits != nil {
			w = *patch.WidthUnits
		}
		if err := errors.ValidatePlacement(m.grid.UnitsX, gx, gy, w); err != nil {
			return err
		}
		target.GridX, target.GridY, target.WidthUnits = gx, gy, w
	}

	if applyToAll {
		for _, p := range m.panels {
			patch.applyAppearance(&p.Settings)
		}
	} else {
		patch.applyAppearance(&target.Settings)
	}

	m.logger.Debug("settings applied", "panel", id, "all", applyToAll)
	m.relayout()
	return nil
}

// SetSpacing changes the gap between cells, in world units, and relays out.
// Pixel values are converted by the coordinate mapper before they get here.
func (m *Manager) SetSpacing(spacing float64) error {
	if err := errors.ValidateSpacing(spacing); err != nil {
		return err
	}
	m.grid.Spacing = spacing
	m.logger.Debug("spacing changed", "spacing", spacing)
	m.relayout()
	return nil
}

// CommitPlacement writes a gesture's final placement to the panel's logical
// fields and runs a pass. The placement is clamped into the grid the same
// way a release commit requires: width into [1, UnitsX], then the anchor so
// the span fits, and the row to zero or below. Returns false without a pass
// when the clamped placement equals the current one, which keeps sub-unit
// pointer jitter from triggering redundant relayouts.
func (m *Manager) CommitPlacement(id, gridX, gridY, widthUnits int) (bool, error) {
	p, ok := m.panels[id]
	if !ok {
		return false, errors.New(errors.ErrCodePanelNotFound, "panel %d not found", id)
	}

	gx, gy, w := m.clampPlacement(gridX, gridY, widthUnits)
	if gx == p.GridX && gy == p.GridY && w == p.WidthUnits {
		return false, nil
	}
	p.GridX, p.GridY, p.WidthUnits = gx, gy, w
	m.relayout()
	return true, nil
}

// clampPlacement bounds a requested placement to the grid.
func (m *Manager) clampPlacement(gridX, gridY, widthUnits int) (int, int, int) {
	if widthUnits < 1 {
		widthUnits = 1
	}
	if widthUnits > m.grid.UnitsX {
		widthUnits = m.grid.UnitsX
	}
	if gridX < 0 {
		gridX = 0
	}
	if gridX > m.grid.UnitsX-widthUnits {
		gridX = m.grid.UnitsX - widthUnits
	}
	if gridY < 0 {
		gridY = 0
	}
	return gridX, gridY, widthUnits
}

// nextID returns the smallest unused panel id, starting at 1.
func (m *Manager) nextID() int {
	for id := 1; ; id++ {
		if _, ok := m.panels[id]; !ok {
			return id
		}
	}
}

// relayout runs one layout pass and pushes the outcome to the
// collaborators. Pass failures cannot happen with a validated grid; they
// are logged and leave the previous result in place.
func (m *Manager) relayout() {
	ctx := context.Background()
	start := time.Now()

	items := make([]layout.Item, 0, len(m.panels))
	for _, p := range m.panels {
		items = append(items, p.Item())
	}

	observability.Layout().OnLayoutStart(ctx, len(items))
	res, err := layout.Compute(m.grid, items)
	if err != nil {
		m.logger.Error("layout pass failed", "err", err)
		observability.Layout().OnLayoutComplete(ctx, len(items), 0, 0, time.Since(start), err)
		return
	}
	m.grid = res.Grid
	m.result = res

	for _, c := range res.Conflicts {
		m.logger.Warn("panel dropped from layout pass",
			"panel", c.ID, "owner", c.OwnerID, "cell_x", c.GridX, "cell_y", c.GridY)
		observability.Layout().OnConflict(ctx, c.ID, c.OwnerID, c.GridX, c.GridY)
	}
	observability.Layout().OnLayoutComplete(ctx, len(items), res.Rows, len(res.Conflicts), time.Since(start), nil)

	for _, p := range res.Placements {
		m.renderer.Render(p.ID, p.Rect, Offset{})
	}
	for _, c := range res.Conflicts {
		m.renderer.HideVisual(c.ID)
	}

	m.pushContentSizes(res)
}

// pushContentSizes tells the content collaborator about size changes.
// Failures are isolated: logged, flagged on the panel, retried on the next
// pass since the failed size is never recorded.
func (m *Manager) pushContentSizes(res layout.Result) {
	for _, p := range res.Placements {
		sz := contentSize{w: p.Rect.Width(), h: p.Rect.Height()}
		if m.contentSizes[p.ID] == sz {
			continue
		}
		if err := m.content.SetSize(p.ID, sz.w, sz.h); err != nil {
			m.logger.Warn("panel content render failed",
				"panel", p.ID, "err", errors.Wrap(errors.ErrCodeContentRender, err, "set size"))
			m.contentFailed[p.ID] = true
			continue
		}
		m.contentSizes[p.ID] = sz
		delete(m.contentFailed, p.ID)
	}
}
