package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/boardkit/gridboard/pkg/board"
	"github.com/boardkit/gridboard/pkg/board/interact"
	"github.com/boardkit/gridboard/pkg/board/view"
)

// defaultFPS drives the pose animation tick.
const defaultFPS = 30

// spacingStepPx is the spacing change per keypress, in canvas pixels.
const spacingStepPx = 4.0

// Chrome rows around the canvas.
const (
	headerRows = 2 // title line + blank
	footerRows = 2 // blank + status bar
)

// panelPalette is the color cycle the settings gear steps through.
var panelPalette = []string{"#7aa2f7", "#9ece6a", "#e0af68", "#f7768e", "#bb9af7", "#7dcfff"}

// tickMsg advances the pose animation.
type tickMsg time.Time

// notices carries messages out of callbacks that run inside Update, where
// the model value is not addressable.
type notices struct {
	last string
}

// boardModel is the bubbletea model for the interactive board. The canvas
// and controller are shared pointers; everything else is copied per update.
type boardModel struct {
	mgr    *board.Manager
	ctrl   *interact.Controller
	canvas *canvas
	notes  *notices
	logger *log.Logger

	fps      int
	width    int
	height   int
	ready    bool
	lastRows int

	hover string // idle-state hover hint, e.g. "panel 2: drag"
}

// newBoardModel wires the canvas and an interaction controller to a manager.
// The canvas must already be bound to mgr as its renderer.
func newBoardModel(mgr *board.Manager, cv *canvas, fps int, logger *log.Logger) boardModel {
	if fps <= 0 {
		fps = defaultFPS
	}
	notes := &notices{}
	ctrl := interact.New(mgr, cv,
		interact.WithRenderer(cv),
		interact.WithLogger(logger),
		interact.WithSettingsHandler(func(panelID int) {
			notes.last = cyclePanelColor(mgr, panelID)
		}),
	)
	return boardModel{
		mgr:    mgr,
		ctrl:   ctrl,
		canvas: cv,
		notes:  notes,
		logger: logger,
		fps:    fps,
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.tickCmd()
}

func (m boardModel) tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg), nil
	case tickMsg:
		if m.ready {
			if rows := m.mgr.Layout().Rows; rows != m.lastRows {
				m.lastRows = rows
				m.remap()
			}
		}
		m.ctrl.Tick(time.Time(msg))
		return m, m.tickCmd()
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.lastRows = m.mgr.Layout().Rows
		m.remap()
		return m, nil
	case tea.BlurMsg:
		// Losing the terminal ends the gesture like a pointer leave.
		m.ctrl.PointerLeave()
		return m, nil
	}
	return m, nil
}

func (m boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "a":
		m.notes.last = m.addPanel()
	case "x":
		m.notes.last = m.removeLastPanel()
	case "+", "=":
		m.notes.last = m.adjustSpacing(spacingStepPx)
	case "-":
		m.notes.last = m.adjustSpacing(-spacingStepPx)
	}
	return m, nil
}

func (m boardModel) handleMouse(msg tea.MouseMsg) boardModel {
	p, inside := m.pointerAt(msg)
	if !inside {
		m.ctrl.PointerLeave()
		m.hover = ""
		return m
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.notes.last = ""
			m.ctrl.PointerDown(p)
		}
	case tea.MouseActionMotion:
		m.ctrl.PointerMove(p)
		m.hover = m.hoverHint(p)
	case tea.MouseActionRelease:
		m.ctrl.PointerUp(p)
	}
	return m
}

// pointerAt converts a terminal mouse position to canvas pixel space,
// centered in the cell. ok is false outside the canvas rows.
func (m boardModel) pointerAt(msg tea.MouseMsg) (view.Point, bool) {
	cy := msg.Y - headerRows
	if !m.ready || cy < 0 || cy >= m.canvasRows() || msg.X < 0 || msg.X >= m.width {
		return view.Point{}, false
	}
	return view.Point{
		X: float64(msg.X) + 0.5,
		Y: (float64(cy) + 0.5) * cellAspect,
	}, true
}

// canvasRows is the terminal row count left for the canvas.
func (m boardModel) canvasRows() int {
	rows := m.height - headerRows - footerRows
	if rows < 1 {
		rows = 1
	}
	return rows
}

// remap refits the projection to the current frame and viewport and hands
// it to the canvas and the controller.
func (m boardModel) remap() {
	rows := m.canvasRows()
	mapper := fitMapper(m.mgr.Layout(), float64(m.width), float64(rows)*cellAspect)
	m.canvas.setViewport(mapper, m.width, rows)
	m.ctrl.SetMapper(mapper)
}

func (m boardModel) hoverHint(p view.Point) string {
	if m.ctrl.State().Kind != interact.KindIdle {
		return ""
	}
	hit, ok := m.canvas.HitTest(p)
	if !ok {
		return ""
	}
	return fmt.Sprintf("panel %d: %s", hit.PanelID, regionHint(hit.Region))
}

func regionHint(r board.Region) string {
	switch r {
	case board.RegionDragTop, board.RegionDragBottom:
		return "drag"
	case board.RegionResizeLeft, board.RegionResizeRight:
		return "resize"
	case board.RegionSettings:
		return "settings"
	default:
		return "panel"
	}
}

// addPanel appends a unit panel on the first empty row and names it after
// its id.
func (m boardModel) addPanel() string {
	res := m.mgr.Layout()
	id, err := m.mgr.AddPanel(0, res.Rows, 1, "panel")
	if err != nil {
		return "add failed: " + err.Error()
	}
	title := fmt.Sprintf("panel %d", id)
	if err := m.mgr.ApplySettings(id, board.Patch{Title: &title}, false); err != nil {
		return "add failed: " + err.Error()
	}
	m.remap()
	return "added " + title
}

// removeLastPanel removes the panel with the highest id.
func (m boardModel) removeLastPanel() string {
	panels := m.mgr.Panels()
	if len(panels) == 0 {
		return "nothing to remove"
	}
	last := panels[len(panels)-1]
	if err := m.mgr.RemovePanel(last.ID); err != nil {
		return "remove failed: " + err.Error()
	}
	m.remap()
	return fmt.Sprintf("removed panel %d", last.ID)
}

// adjustSpacing nudges the grid spacing by a pixel step converted at the
// current projection, clamped at zero.
func (m boardModel) adjustSpacing(stepPx float64) string {
	delta := m.canvas.mapper.PixelsToWorld(stepPx)
	spacing := m.mgr.Grid().Spacing + delta
	if spacing < 0 {
		spacing = 0
	}
	if err := m.mgr.SetSpacing(spacing); err != nil {
		return "spacing failed: " + err.Error()
	}
	m.remap()
	return fmt.Sprintf("spacing %.2f", spacing)
}

// cyclePanelColor applies the next palette color to the panel and reports
// what changed. The gear cycles colors rather than opening a form so
// restyling stays a single click in the terminal.
func cyclePanelColor(mgr *board.Manager, panelID int) string {
	panel, ok := mgr.PanelByID(panelID)
	if !ok {
		return ""
	}
	next := panelPalette[0]
	for i, c := range panelPalette {
		if c == panel.Settings.Color {
			next = panelPalette[(i+1)%len(panelPalette)]
			break
		}
	}
	if err := mgr.ApplySettings(panelID, board.Patch{Color: &next}, false); err != nil {
		return "restyle failed: " + err.Error()
	}
	return fmt.Sprintf("panel %d color %s", panelID, next)
}

func (m boardModel) View() string {
	if !m.ready {
		return "initializing..."
	}
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")
	b.WriteString(m.canvas.View())
	b.WriteString("\n\n")
	b.WriteString(m.statusView())
	return b.String()
}

func (m boardModel) headerView() string {
	res := m.mgr.Layout()
	title := StyleTitle.Render(appName) + " " + StyleValue.Render(m.mgr.Name())
	stats := StyleDim.Render(fmt.Sprintf("%d panels · %d rows · %.4g × %.4g",
		m.mgr.PanelCount(), res.Rows, res.FrameWidth, res.FrameHeight))
	return " " + title + "  " + stats
}

func (m boardModel) statusView() string {
	state := m.ctrl.State()
	var status string
	switch state.Kind {
	case interact.KindDragging:
		status = StyleHighlight.Render(fmt.Sprintf("dragging panel %d", state.PanelID))
		if gx, gy, ok := m.ctrl.DragPreview(); ok {
			status += " " + StyleNumber.Render(fmt.Sprintf("%s (%d, %d)", iconArrow, gx, gy))
		}
	case interact.KindResizing:
		status = StyleHighlight.Render(fmt.Sprintf("resizing panel %d (%s)", state.PanelID, state.Edge))
		if p, ok := m.mgr.PanelByID(state.PanelID); ok {
			status += " " + StyleNumber.Render(fmt.Sprintf("%s %d units", iconArrow, p.WidthUnits))
		}
	default:
		switch {
		case m.notes.last != "":
			status = StyleValue.Render(m.notes.last)
		case m.hover != "":
			status = StyleDim.Render(m.hover)
		default:
			status = StyleDim.Render("drag a bar to move, an edge to resize")
		}
	}
	keys := StyleDim.Render("a: add  x: remove  +/-: spacing  q: quit")
	return " " + status + "  " + keys
}
