// Package cli implements the gridboard command-line interface.
//
// This package provides commands for laying out panel boards in the
// terminal, rendering them as SVG or JSON artifacts, and serving a board
// over HTTP. The CLI is built using cobra and supports verbose logging via
// the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - board: Interactive terminal board with mouse drag and resize
//   - panels: Print a board's panels and placements as a table
//   - render: Generate SVG or JSON artifacts from a manifest
//   - serve: Expose a board over an HTTP JSON API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/boardkit/gridboard/pkg/board"
	"github.com/boardkit/gridboard/pkg/board/layout"
	"github.com/boardkit/gridboard/pkg/boardfile"
	"github.com/boardkit/gridboard/pkg/buildinfo"
	"github.com/boardkit/gridboard/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and completion.
const appName = "gridboard"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// defaultGrid is the board configuration used when no manifest is given.
var defaultGrid = layout.Grid{UnitsX: 6, CellWidth: 2.0, Spacing: 0.5}

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Gridboard lays out draggable panels on a responsive grid",
		Long:         `Gridboard is a grid layout engine for rectangular panels: it places panels on a centered column grid, resolves overlaps, and lets you drag and resize them live in the terminal or over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.boardCommand())
	root.AddCommand(c.panelsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// =============================================================================
// Board Factory
// =============================================================================

// newBoard builds a manager from a manifest path, or an empty board on the
// default grid when path is empty. A non-empty name overrides the name the
// manifest declares.
func newBoard(logger *log.Logger, path, name string, opts ...board.Option) (*board.Manager, error) {
	opts = append(opts, board.WithLogger(logger))
	if name != "" {
		opts = append(opts, board.WithName(name))
	}
	if path == "" {
		return board.New(defaultGrid, opts...)
	}
	m, err := boardfile.Load(path)
	if err != nil {
		return nil, err
	}
	return m.Board(opts...)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
