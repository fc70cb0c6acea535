package cli

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/boardkit/gridboard/pkg/board"
)

// boardOpts holds the command-line flags for the board command.
type boardOpts struct {
	manifest string // manifest to load the board from
	name     string // board name override
	fps      int    // animation frames per second
}

// boardCommand creates the board command, the interactive terminal board.
func (c *CLI) boardCommand() *cobra.Command {
	opts := boardOpts{fps: defaultFPS}

	cmd := &cobra.Command{
		Use:   "board [manifest]",
		Short: "Open an interactive board with mouse drag and resize",
		Long: `Board opens the panel grid in the terminal. Drag panels by their top or
bottom bar, resize them by their left or right edge, and press the gear in
the top-right corner to restyle a panel. Changes commit to whole grid
slots; a panel dropped on an occupied slot stays hidden until the conflict
resolves.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.manifest = args[0]
			}
			return c.runBoard(&opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "override the board name from the manifest")
	cmd.Flags().IntVar(&opts.fps, "fps", opts.fps, "animation frames per second")

	return cmd
}

func (c *CLI) runBoard(opts *boardOpts) error {
	// The alternate screen owns the terminal; board internals must not
	// write to stderr while it is up.
	quiet := newLogger(io.Discard, LogDebug)

	cv := newCanvas()
	mgr, err := newBoard(quiet, opts.manifest, opts.name, board.WithRenderer(cv))
	if err != nil {
		return err
	}
	cv.bind(mgr)

	model := newBoardModel(mgr, cv, opts.fps, quiet)
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("board ui: %w", err)
	}
	return nil
}
