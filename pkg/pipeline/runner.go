package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/boardkit/gridboard/pkg/board"
	"github.com/boardkit/gridboard/pkg/boardfile"
)

// Runner encapsulates pipeline execution. Both CLI and API can use this to
// avoid duplicating the load/build/render wiring.
//
// The Runner is stateless except for the logger - it doesn't store pipeline
// results. Multiple goroutines can safely use the same Runner with different
// options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner with the given logger.
// If logger is nil, the package default logger is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete load → build → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	manifest, err := r.LoadManifest(opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)

	r.Logger.Info("loaded manifest",
		"board", manifest.Name,
		"panels", len(manifest.Panels),
		"duration", result.Stats.LoadTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Build (the board constructor runs one layout pass)
	buildStart := time.Now()
	mgr, err := r.BuildBoard(manifest, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Board = mgr
	result.Layout = mgr.Layout()
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.PanelCount = mgr.PanelCount()
	result.Stats.Rows = result.Layout.Rows
	result.Stats.Conflicts = len(result.Layout.Conflicts)

	r.Logger.Info("built board",
		"panels", result.Stats.PanelCount,
		"rows", result.Stats.Rows,
		"conflicts", result.Stats.Conflicts,
		"duration", result.Stats.BuildTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := Render(result.Layout, mgr, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadManifest reads the board manifest from inline content or from disk.
// Inline content takes precedence so API callers never touch the filesystem.
func (r *Runner) LoadManifest(opts Options) (*boardfile.Manifest, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if opts.Manifest != "" {
		return boardfile.Parse([]byte(opts.Manifest))
	}
	return boardfile.Load(opts.ManifestPath)
}

// BuildBoard constructs a board manager from a parsed manifest. The returned
// manager already carries placements for every panel the manifest declares.
func (r *Runner) BuildBoard(manifest *boardfile.Manifest, opts Options) (*board.Manager, error) {
	r.applyLogger(&opts)

	boardOpts := []board.Option{board.WithLogger(opts.Logger)}
	if opts.Name != "" {
		boardOpts = append(boardOpts, board.WithName(opts.Name))
	}
	return manifest.Board(boardOpts...)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
