package pipeline

import (
	"fmt"

	"github.com/boardkit/gridboard/pkg/board"
	"github.com/boardkit/gridboard/pkg/board/layout"
	"github.com/boardkit/gridboard/pkg/sink"
)

// Render generates output artifacts in the requested formats. The manager is
// optional; when present its panel settings (titles, colors) and board
// identity are included in the artifacts.
func Render(res layout.Result, mgr *board.Manager, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	svgOpts := buildSVGOptions(mgr, opts)
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(res, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(res, buildJSONOptions(mgr)...)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(mgr *board.Manager, opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption

	if mgr != nil {
		svgOpts = append(svgOpts, sink.WithPanels(mgr.Panels()))
	}
	if opts.Scale > 0 {
		svgOpts = append(svgOpts, sink.WithScale(opts.Scale))
	}
	if opts.Backdrop {
		svgOpts = append(svgOpts, sink.WithBackdrop())
	}
	if opts.ConflictMarkers {
		svgOpts = append(svgOpts, sink.WithConflictMarkers())
	}

	return svgOpts
}

// buildJSONOptions builds JSON rendering options.
func buildJSONOptions(mgr *board.Manager) []sink.JSONOption {
	var jsonOpts []sink.JSONOption

	if mgr != nil {
		jsonOpts = append(jsonOpts,
			sink.WithJSONPanels(mgr.Panels()),
			sink.WithJSONBoard(mgr.Name(), mgr.ID().String()))
	}

	return jsonOpts
}
