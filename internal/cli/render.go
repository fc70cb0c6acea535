package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boardkit/gridboard/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output          string  // output file path (or base path for multiple formats)
	name            string  // board name override
	scale           float64 // SVG pixels per world unit
	backdrop        bool    // draw the grid backdrop behind panels
	conflictMarkers bool    // annotate dropped panels in the SVG
}

// renderCommand creates the render command for generating board artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: pipeline.DefaultScale, backdrop: true}

	cmd := &cobra.Command{
		Use:   "render [manifest]",
		Short: "Render a board manifest to SVG or JSON artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], formats, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json (comma-separated)")
	cmd.Flags().StringVar(&opts.name, "name", "", "override the board name from the manifest")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "SVG pixels per world unit")
	cmd.Flags().BoolVar(&opts.backdrop, "backdrop", opts.backdrop, "draw the grid backdrop")
	cmd.Flags().BoolVar(&opts.conflictMarkers, "conflict-markers", false, "annotate dropped panels in the SVG")

	return cmd
}

// runRender executes the pipeline and writes one artifact per format.
func (c *CLI) runRender(ctx context.Context, manifest string, formats []string, opts *renderOpts) error {
	prog := newProgress(c.Logger)

	res, err := c.newRunner().Execute(ctx, pipeline.Options{
		ManifestPath:    manifest,
		Name:            opts.name,
		Formats:         formats,
		Scale:           opts.scale,
		Backdrop:        opts.backdrop,
		ConflictMarkers: opts.conflictMarkers,
		Logger:          c.Logger,
	})
	if err != nil {
		return err
	}

	base := basePath(opts.output, manifest)
	var firstErr error
	for _, format := range formats {
		path := base + "." + format
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			printError("write %s: %v", path, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		printFile(path)
	}
	if firstErr != nil {
		return firstErr
	}

	printStats(res.Stats.PanelCount, res.Stats.Rows, res.Stats.Conflicts)
	if res.Stats.Conflicts > 0 {
		printWarning("%d panel(s) dropped from the pass (overlap)", res.Stats.Conflicts)
	}
	prog.done(fmt.Sprintf("Rendered %d artifact(s)", len(formats)))
	return nil
}

// basePath derives the base output path from the output and manifest paths.
// If output is empty, it strips the extension from the manifest path. If
// output has a format extension (.svg, .json), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
