package sink

import (
	"bytes"
	"fmt"
	"html"
	"slices"

	"github.com/boardkit/gridboard/pkg/board"
	"github.com/boardkit/gridboard/pkg/board/layout"
)

const (
	svgBackground  = "#ffffff"
	svgCellFill    = "#f1f5f9"
	svgCellStroke  = "#e2e8f0"
	svgPanelFill   = "#dbe4f0"
	svgPanelStroke = "#475569"
	svgTitleFill   = "#1e293b"
	svgConflict    = "#dc2626"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	panels    map[int]board.Panel
	scale     float64
	padding   float64
	backdrop  bool
	conflicts bool

	origin layout.Vec2
}

// WithPanels attaches panel settings so rectangles carry their titles and
// colors. Without this, panels render with the default fill and no label.
func WithPanels(panels []board.Panel) SVGOption {
	return func(r *svgRenderer) {
		r.panels = make(map[int]board.Panel, len(panels))
		for _, p := range panels {
			r.panels[p.ID] = p
		}
	}
}

// WithScale sets the output resolution in SVG pixels per world unit.
func WithScale(pxPerUnit float64) SVGOption {
	return func(r *svgRenderer) {
		if pxPerUnit > 0 {
			r.scale = pxPerUnit
		}
	}
}

// WithBackdrop draws the empty grid cells behind the panels.
func WithBackdrop() SVGOption { return func(r *svgRenderer) { r.backdrop = true } }

// WithConflictMarkers outlines the contested cell of every panel dropped
// from the pass.
func WithConflictMarkers() SVGOption { return func(r *svgRenderer) { r.conflicts = true } }

// RenderSVG renders one layout pass as a standalone SVG document. The world
// frame is centered in the image inside a padding border; world y grows up
// and pixel y grows down, so the transform flips the vertical axis.
func RenderSVG(res layout.Result, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	r.origin = res.Grid.Origin

	width := (res.FrameWidth + 2*r.padding) * r.scale
	height := (res.FrameHeight + 2*r.padding) * r.scale

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		width, height, svgBackground)

	if r.backdrop {
		r.renderBackdrop(&buf, res)
	}

	placements := slices.Clone(res.Placements)
	slices.SortFunc(placements, func(a, b layout.Placement) int { return a.ID - b.ID })
	for _, p := range placements {
		r.renderPanel(&buf, p)
	}

	if r.conflicts {
		for _, c := range res.Conflicts {
			r.renderConflict(&buf, res.Grid, c)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{scale: 40, padding: 0.5}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// px and py map world coordinates onto the padded pixel surface.
func (r *svgRenderer) px(wx float64) float64 { return (wx - r.origin.X + r.padding) * r.scale }
func (r *svgRenderer) py(wy float64) float64 { return (r.origin.Y - wy + r.padding) * r.scale }

func (r *svgRenderer) renderBackdrop(buf *bytes.Buffer, res layout.Result) {
	g := res.Grid
	for gy := 0; gy < res.Rows; gy++ {
		for gx := 0; gx < g.UnitsX; gx++ {
			c := g.CellCenter(gx, gy)
			fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="0.5"/>`+"\n",
				r.px(c.X-g.CellWidth/2), r.py(c.Y+g.CellHeight()/2),
				g.CellWidth*r.scale, g.CellHeight()*r.scale, svgCellFill, svgCellStroke)
		}
	}
}

func (r *svgRenderer) renderPanel(buf *bytes.Buffer, p layout.Placement) {
	fill := svgPanelFill
	title := ""
	showTitle := false
	if panel, ok := r.panels[p.ID]; ok {
		if panel.Settings.Color != "" {
			fill = panel.Settings.Color
		}
		title = panel.Settings.Title
		showTitle = panel.Settings.ShowTitle
	}

	fmt.Fprintf(buf, `  <g id="panel-%d">`+"\n", p.ID)
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
		r.px(p.Rect.Left), r.py(p.Rect.Top),
		p.Rect.Width()*r.scale, p.Rect.Height()*r.scale,
		0.08*r.scale, fill, svgPanelStroke)
	if showTitle && title != "" {
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="%.1f" font-family="monospace" text-anchor="middle" dominant-baseline="central" fill="%s">%s</text>`+"\n",
			r.px(p.Rect.CenterX()), r.py(p.Rect.CenterY()),
			0.3*r.scale, svgTitleFill, html.EscapeString(title))
	}
	buf.WriteString("  </g>\n")
}

func (r *svgRenderer) renderConflict(buf *bytes.Buffer, g layout.Grid, c layout.Conflict) {
	ctr := g.CellCenter(c.GridX, c.GridY)
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s" stroke-width="1.5" stroke-dasharray="4 3"/>`+"\n",
		r.px(ctr.X-g.CellWidth/2), r.py(ctr.Y+g.CellHeight()/2),
		g.CellWidth*r.scale, g.CellHeight()*r.scale, svgConflict)
}
