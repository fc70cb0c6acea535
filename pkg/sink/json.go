package sink

import (
	"encoding/json"
	"slices"

	"github.com/boardkit/gridboard/pkg/board"
	"github.com/boardkit/gridboard/pkg/board/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	panels  map[int]board.Panel
	name    string
	boardID string
}

// WithJSONPanels attaches panel settings so placements carry their titles
// and appearance fields. Without this, placements are purely geometric.
func WithJSONPanels(panels []board.Panel) JSONOption {
	return func(r *jsonRenderer) {
		r.panels = make(map[int]board.Panel, len(panels))
		for _, p := range panels {
			r.panels[p.ID] = p
		}
	}
}

// WithJSONBoard records the board's name and identity in the document.
func WithJSONBoard(name, id string) JSONOption {
	return func(r *jsonRenderer) { r.name = name; r.boardID = id }
}

type jsonOutput struct {
	Board     string         `json:"board,omitempty"`
	BoardID   string         `json:"board_id,omitempty"`
	Frame     jsonFrame      `json:"frame"`
	Grid      jsonGrid       `json:"grid"`
	Panels    []jsonPanel    `json:"panels"`
	Conflicts []jsonConflict `json:"conflicts,omitempty"`
}

type jsonFrame struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonGrid struct {
	UnitsX    int     `json:"units_x"`
	CellWidth float64 `json:"cell_width"`
	Spacing   float64 `json:"spacing"`
	Rows      int     `json:"rows"`
	OriginX   float64 `json:"origin_x"`
	OriginY   float64 `json:"origin_y"`
}

type jsonPanel struct {
	ID         int      `json:"id"`
	GridX      int      `json:"grid_x"`
	GridY      int      `json:"grid_y"`
	WidthUnits int      `json:"width_units"`
	Rect       jsonRect `json:"rect"`
	Title      string   `json:"title,omitempty"`
	Color      string   `json:"color,omitempty"`
}

type jsonRect struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Top    float64 `json:"top"`
}

type jsonConflict struct {
	ID      int `json:"id"`
	OwnerID int `json:"owner_id"`
	GridX   int `json:"grid_x"`
	GridY   int `json:"grid_y"`
}

// RenderJSON exports one layout pass as a pretty-printed JSON document. This
// is the primary data interchange format for gridboard, enabling:
//
//   - Integration with external visualization tools
//   - Diffing board states across mutations in tests and scripts
//   - Driving non-Go render surfaces from the same pass
//
// The document includes the frame size, the grid metrics with the recomputed
// origin, every placement with its world rectangle (panels sorted by id for
// stable output), and the conflict diagnostics of the pass.
//
// RenderJSON returns an error only if JSON marshaling fails, which cannot
// happen with well-formed results. It does not modify res and is safe to
// call concurrently.
func RenderJSON(res layout.Result, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Board:   r.name,
		BoardID: r.boardID,
		Frame:   jsonFrame{Width: res.FrameWidth, Height: res.FrameHeight},
		Grid: jsonGrid{
			UnitsX:    res.Grid.UnitsX,
			CellWidth: res.Grid.CellWidth,
			Spacing:   res.Grid.Spacing,
			Rows:      res.Rows,
			OriginX:   res.Grid.Origin.X,
			OriginY:   res.Grid.Origin.Y,
		},
		Panels: buildJSONPanels(res, r.panels),
	}

	for _, c := range res.Conflicts {
		out.Conflicts = append(out.Conflicts, jsonConflict{
			ID: c.ID, OwnerID: c.OwnerID, GridX: c.GridX, GridY: c.GridY,
		})
	}

	return json.MarshalIndent(out, "", "  ")
}

func buildJSONPanels(res layout.Result, panels map[int]board.Panel) []jsonPanel {
	out := make([]jsonPanel, 0, len(res.Placements))
	for _, p := range res.Placements {
		jp := jsonPanel{
			ID:         p.ID,
			GridX:      p.GridX,
			GridY:      p.GridY,
			WidthUnits: p.WidthUnits,
			Rect: jsonRect{
				Left:   p.Rect.Left,
				Right:  p.Rect.Right,
				Bottom: p.Rect.Bottom,
				Top:    p.Rect.Top,
			},
		}
		if panel, ok := panels[p.ID]; ok {
			jp.Title = panel.Settings.Title
			jp.Color = panel.Settings.Color
		}
		out = append(out, jp)
	}
	slices.SortFunc(out, func(a, b jsonPanel) int { return a.ID - b.ID })
	return out
}
