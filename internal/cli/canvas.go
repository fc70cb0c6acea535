package cli

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/boardkit/gridboard/pkg/board"
	"github.com/boardkit/gridboard/pkg/board/layout"
	"github.com/boardkit/gridboard/pkg/board/view"
)

// cellAspect is the height of a terminal cell measured in its own width.
// Pointer and drawing math treat one column as one pixel and one row as
// cellAspect pixels so world geometry stays square on screen.
const cellAspect = 2.0

// Hit region bands, in world units. Bands are clamped to a third of the
// panel in regionAt so small panels keep a grabbable body.
const (
	handleBand = 0.5  // drag bar depth at the top and bottom
	edgeBand   = 0.35 // resize strip width at the left and right
)

// Canvas styles.
var (
	styleCanvasFrame = lipgloss.NewStyle().Foreground(colorDim)
	styleCanvasPanel = lipgloss.NewStyle().Foreground(colorWhite)
	styleCanvasGear  = lipgloss.NewStyle().Foreground(colorGray)
)

// visual is one panel's on-screen state: the committed rectangle plus the
// transient pose offset the controller layers on top.
type visual struct {
	rect   layout.Rect
	offset board.Offset
	hidden bool
}

// canvas draws the board into a cell grid and resolves pointer positions to
// panel regions. It implements board.Renderer for the manager and the
// controller, and board.HitTester for the controller. Pose tilt has no cell
// representation and is ignored; translation is drawn.
type canvas struct {
	mgr    *board.Manager
	mapper view.Mapper
	cols   int
	rows   int

	visuals map[int]*visual
}

func newCanvas() *canvas {
	return &canvas{visuals: make(map[int]*visual)}
}

// bind attaches the manager the canvas reads titles and colors from.
// Must be called before the first View.
func (cv *canvas) bind(mgr *board.Manager) { cv.mgr = mgr }

// setViewport installs the projection for the current terminal size. cols
// and rows are the canvas dimensions in terminal cells.
func (cv *canvas) setViewport(m view.Mapper, cols, rows int) {
	cv.mapper = m
	cv.cols = cols
	cv.rows = rows
}

// Render stores the panel's rectangle and offset for the next View.
func (cv *canvas) Render(panelID int, rect layout.Rect, offset board.Offset) {
	v, ok := cv.visuals[panelID]
	if !ok {
		v = &visual{}
		cv.visuals[panelID] = v
	}
	v.rect = rect
	v.offset = offset
	v.hidden = false
}

// HideVisual hides a panel dropped from the current pass.
func (cv *canvas) HideVisual(panelID int) {
	if v, ok := cv.visuals[panelID]; ok {
		v.hidden = true
	}
}

// RemoveVisual forgets a removed panel.
func (cv *canvas) RemoveVisual(panelID int) {
	delete(cv.visuals, panelID)
}

// HitTest resolves a canvas pixel position to a panel region. When panels
// overlap mid-gesture the highest panel id wins, which keeps the result
// deterministic.
func (cv *canvas) HitTest(p view.Point) (board.Hit, bool) {
	world := cv.mapper.PointToWorld(p)
	bestID := -1
	var best board.Hit
	for id, v := range cv.visuals {
		if v.hidden {
			continue
		}
		r := v.rect.Translate(v.offset.Translation)
		if !r.Contains(world) {
			continue
		}
		if id > bestID {
			bestID = id
			best = board.Hit{PanelID: id, Region: regionAt(r, world)}
		}
	}
	if bestID < 0 {
		return board.Hit{}, false
	}
	return best, true
}

// regionAt maps a world point inside r to the panel region under it. The
// top and bottom bars grab drags, the left and right strips grab resizes,
// and the top-right corner square is the settings gear.
func regionAt(r layout.Rect, w layout.Vec2) board.Region {
	band := math.Min(handleBand, r.Height()/3)
	edge := math.Min(edgeBand, r.Width()/3)

	if r.Top-w.Y <= band {
		if r.Right-w.X <= band {
			return board.RegionSettings
		}
		return board.RegionDragTop
	}
	if w.Y-r.Bottom <= band {
		return board.RegionDragBottom
	}
	if w.X-r.Left <= edge {
		return board.RegionResizeLeft
	}
	if r.Right-w.X <= edge {
		return board.RegionResizeRight
	}
	return board.RegionBody
}

// View renders the backdrop and every visible panel into a string of
// exactly rows lines.
func (cv *canvas) View() string {
	if cv.cols <= 0 || cv.rows <= 0 {
		return ""
	}
	buf := newCellBuf(cv.cols, cv.rows)
	cv.drawBackdrop(buf)
	for _, id := range cv.drawOrder() {
		cv.drawPanel(buf, id)
	}
	return buf.String()
}

// drawOrder returns panel ids with displaced panels last, so an active
// gesture draws on top of settled neighbors.
func (cv *canvas) drawOrder() []int {
	settled := make([]int, 0, len(cv.visuals))
	var moving []int
	for id, v := range cv.visuals {
		if v.hidden {
			continue
		}
		if v.offset.IsZero() {
			settled = append(settled, id)
		} else {
			moving = append(moving, id)
		}
	}
	sort.Ints(settled)
	sort.Ints(moving)
	return append(settled, moving...)
}

// drawBackdrop draws the frame border and a dot at every slot center.
func (cv *canvas) drawBackdrop(buf *cellBuf) {
	if cv.mgr == nil {
		return
	}
	res := cv.mgr.Layout()
	grid := res.Grid
	rows := res.Rows
	if rows < 1 {
		rows = 1
	}
	si := buf.style(styleCanvasFrame)

	left := grid.Origin.X
	top := grid.Origin.Y
	right := left + grid.TotalWidth()
	bottom := top - grid.TotalHeight(rows)
	x0, y0 := cv.cellAt(left, top)
	x1, y1 := cv.cellAt(right, bottom)
	drawBox(buf, x0, y0, x1, y1, si)

	for gy := 0; gy < rows; gy++ {
		for gx := 0; gx < grid.UnitsX; gx++ {
			c := grid.CellCenter(gx, gy)
			x, y := cv.cellAt(c.X, c.Y)
			buf.set(x, y, '·', si)
		}
	}
}

// drawPanel draws one panel's border, title, gear and body.
func (cv *canvas) drawPanel(buf *cellBuf, id int) {
	v := cv.visuals[id]
	panel, ok := cv.mgr.PanelByID(id)
	if !ok {
		return
	}
	r := v.rect.Translate(v.offset.Translation)
	x0, y0 := cv.cellAt(r.Left, r.Top)
	x1, y1 := cv.cellAt(r.Right, r.Bottom)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}

	style := styleCanvasPanel
	if panel.Settings.Color != "" {
		style = lipgloss.NewStyle().Foreground(lipgloss.Color(panel.Settings.Color))
	}
	if !v.offset.IsZero() {
		style = style.Bold(true)
	}
	si := buf.style(style)

	// Opaque interior so the backdrop never bleeds through a moving panel.
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			buf.set(x, y, ' ', si)
		}
	}
	drawBox(buf, x0, y0, x1, y1, si)

	if panel.Settings.ShowTitle && panel.Settings.Title != "" {
		buf.text(x0+1, y0, clipText(" "+panel.Settings.Title+" ", x1-x0-2), si)
	}
	buf.set(x1-1, y0, '⚙', buf.style(styleCanvasGear))

	if cv.mgr.ContentFailed(id) {
		msg := clipText(iconError+" content", x1-x0-3)
		buf.text(x0+2, (y0+y1)/2, msg, buf.style(styleIconError))
	}
}

// cellAt converts a world position to a buffer cell.
func (cv *canvas) cellAt(wx, wy float64) (x, y int) {
	pt := cv.mapper.WorldToPoint(layout.Vec2{X: wx, Y: wy})
	return int(math.Floor(pt.X)), int(math.Floor(pt.Y / cellAspect))
}

// fitMapper dollies the default camera so the frame fits a canvas of the
// given pixel size with half a cell of margin on every side. An empty board
// is fitted as if it held one row.
func fitMapper(res layout.Result, widthPx, heightPx float64) view.Mapper {
	camera := view.Camera{
		FOVDegrees:       view.DefaultFOVDegrees,
		ViewportHeightPx: heightPx,
		Distance:         view.DefaultDistance,
	}
	if widthPx <= 0 || heightPx <= 0 {
		return view.NewMapper(camera, math.Max(widthPx, 1))
	}

	margin := res.Grid.CellWidth / 2
	fw := res.FrameWidth + 2*margin
	fh := math.Max(res.FrameHeight, res.Grid.TotalHeight(1)) + 2*margin
	wpp := math.Max(fw/widthPx, fh/heightPx)
	if wpp > 0 {
		halfFOV := view.DefaultFOVDegrees * math.Pi / 360
		camera.Distance = wpp * heightPx / (2 * math.Tan(halfFOV))
	}
	return view.NewMapper(camera, widthPx)
}

// clipText truncates s to at most width cells. Width zero or below clips
// everything.
func clipText(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width])
	}
	return s
}

// drawBox draws a single-line box with corners at (x0, y0) and (x1, y1).
func drawBox(buf *cellBuf, x0, y0, x1, y1, si int) {
	for x := x0 + 1; x < x1; x++ {
		buf.set(x, y0, '─', si)
		buf.set(x, y1, '─', si)
	}
	for y := y0 + 1; y < y1; y++ {
		buf.set(x0, y, '│', si)
		buf.set(x1, y, '│', si)
	}
	buf.set(x0, y0, '┌', si)
	buf.set(x1, y0, '┐', si)
	buf.set(x0, y1, '└', si)
	buf.set(x1, y1, '┘', si)
}

// =============================================================================
// Cell Buffer
// =============================================================================

// cellBuf is a fixed-size grid of runes with a style index per cell. Style
// index zero is unstyled; String groups adjacent cells that share an index
// into one styled run to keep the output small.
type cellBuf struct {
	w, h   int
	ch     []rune
	si     []int
	styles []lipgloss.Style
}

func newCellBuf(w, h int) *cellBuf {
	b := &cellBuf{
		w:      w,
		h:      h,
		ch:     make([]rune, w*h),
		si:     make([]int, w*h),
		styles: []lipgloss.Style{lipgloss.NewStyle()},
	}
	for i := range b.ch {
		b.ch[i] = ' '
	}
	return b
}

// style registers a style and returns its index.
func (b *cellBuf) style(s lipgloss.Style) int {
	b.styles = append(b.styles, s)
	return len(b.styles) - 1
}

// set writes one cell. Out-of-bounds writes are dropped so callers can draw
// partially visible panels without clipping themselves.
func (b *cellBuf) set(x, y int, r rune, si int) {
	if x < 0 || x >= b.w || y < 0 || y >= b.h {
		return
	}
	i := y*b.w + x
	b.ch[i] = r
	b.si[i] = si
}

// text writes a string left to right starting at (x, y).
func (b *cellBuf) text(x, y int, s string, si int) {
	for _, r := range s {
		b.set(x, y, r, si)
		x++
	}
}

// String renders the buffer as h newline-separated lines.
func (b *cellBuf) String() string {
	var sb strings.Builder
	for y := 0; y < b.h; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		x := 0
		for x < b.w {
			si := b.si[y*b.w+x]
			j := x
			var run strings.Builder
			for j < b.w && b.si[y*b.w+j] == si {
				run.WriteRune(b.ch[y*b.w+j])
				j++
			}
			if si == 0 {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(b.styles[si].Render(run.String()))
			}
			x = j
		}
	}
	return sb.String()
}
