// Package pkg provides the core libraries for Gridboard panel layout.
//
// # Overview
//
// Gridboard lays rectangular panels out on a responsive centered grid and
// drives the drag and resize gestures that rearrange them. The pkg
// directory is organized into four main areas:
//
//  1. [board] - Domain logic (panel registry, layout passes, gestures)
//  2. [boardfile] - Declarative TOML board manifests
//  3. [pipeline] - Orchestration (load -> layout -> render)
//  4. [sink] - Output formats (SVG, JSON)
//
// # Architecture
//
// The typical data flow through Gridboard:
//
//	Board Manifest
//	         |
//	    [boardfile] package (parse and validate)
//	         |
//	    [board] package (panel registry + layout passes)
//	         |
//	    [sink] package (artifact encoding)
//	         |
//	    SVG/JSON output
//
// Interactive surfaces replace the sink with a renderer collaborator and
// feed pointer events through [board/interact].
//
// # Quick Start
//
// Load a manifest and render an SVG:
//
//	import (
//	    "os"
//	    "github.com/boardkit/gridboard/pkg/boardfile"
//	    "github.com/boardkit/gridboard/pkg/sink"
//	)
//
//	// 1. Load the board
//	m, _ := boardfile.Load("board.toml")
//	mgr, _ := m.Board()
//
//	// 2. Run a layout pass
//	res := mgr.Layout()
//
//	// 3. Render to SVG
//	svg := sink.RenderSVG(res, sink.WithPanels(mgr.Panels()))
//	os.WriteFile("board.svg", svg, 0o644)
//
// # Main Packages
//
// ## Core Domain Logic
//
// [board] - The panel registry and its collaborator seams. The manager owns
// panels, runs a layout pass after every mutation, and pushes committed
// rectangles to an attached renderer.
//
// [board/layout] - Pure grid geometry: the responsive centered grid, the
// first-fit placement pass, and the rectangle math everything else shares.
//
// [board/view] - The camera projection between viewport pixels and world
// units, and the slot inverse used to drop dragged panels.
//
// [board/interact] - The pointer state machine: hit regions become drags
// and resizes, poses ease toward their targets, commits land on the grid.
//
// ## Input and Output
//
// [boardfile] - TOML manifests describing a board's grid and panels.
// Manifests are input configuration, not saved layouts.
//
// [pipeline] - The load -> layout -> render pipeline shared by the CLI and
// the HTTP API, so every entry point produces identical artifacts.
//
// [sink] - Artifact encoders for layout results: standalone SVG documents
// and a JSON form for external tooling.
//
// ## Supporting Packages
//
// [errors] - Coded errors shared across the module. Codes classify
// validation failures so transport layers can map them without string
// matching.
//
// [observability] - Process-wide hook registries for layout passes and
// gestures. Hosts register implementations; the zero value is silent.
//
// [buildinfo] - Build-time version information injected via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/board/...        # Specific package
//	go test -run Example           # Examples only
//
// [board]: https://pkg.go.dev/github.com/boardkit/gridboard/pkg/board
// [board/layout]: https://pkg.go.dev/github.com/boardkit/gridboard/pkg/board/layout
// [board/view]: https://pkg.go.dev/github.com/boardkit/gridboard/pkg/board/view
// [board/interact]: https://pkg.go.dev/github.com/boardkit/gridboard/pkg/board/interact
// [boardfile]: https://pkg.go.dev/github.com/boardkit/gridboard/pkg/boardfile
// [pipeline]: https://pkg.go.dev/github.com/boardkit/gridboard/pkg/pipeline
// [sink]: https://pkg.go.dev/github.com/boardkit/gridboard/pkg/sink
// [errors]: https://pkg.go.dev/github.com/boardkit/gridboard/pkg/errors
// [observability]: https://pkg.go.dev/github.com/boardkit/gridboard/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/boardkit/gridboard/pkg/buildinfo
package pkg
