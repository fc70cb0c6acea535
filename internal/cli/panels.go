package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/boardkit/gridboard/pkg/board"
)

// panelsCommand creates the panels command for inspecting a manifest's
// placements without opening the interactive board.
func (c *CLI) panelsCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "panels [manifest]",
		Short: "Print a board's panels and their placements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPanels(args[0], name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "override the board name from the manifest")

	return cmd
}

func (c *CLI) runPanels(manifest, name string) error {
	mgr, err := newBoard(c.Logger, manifest, name)
	if err != nil {
		return err
	}

	res := mgr.Layout()
	printKeyValue("Board", mgr.Name())
	printKeyValue("Grid", fmt.Sprintf("%d columns × %.4g (spacing %.4g)",
		res.Grid.UnitsX, res.Grid.CellWidth, res.Grid.Spacing))
	printKeyValue("Frame", fmt.Sprintf("%.4g × %.4g", res.FrameWidth, res.FrameHeight))
	fmt.Println(panelTable(mgr))
	printStats(mgr.PanelCount(), res.Rows, len(res.Conflicts))
	printNextStep("Open the interactive board", appName+" board "+manifest)
	return nil
}

// panelTable renders the panel inventory as a bordered table. Dropped
// panels keep their row but are dimmed with a warning status.
func panelTable(mgr *board.Manager) string {
	res := mgr.Layout()
	var rows [][]string
	dropped := make(map[int]bool) // by table row index
	for i, p := range mgr.Panels() {
		status := iconSuccess + " placed"
		if res.Dropped(p.ID) {
			status = iconWarning + " dropped"
			dropped[i] = true
		}
		title := p.Settings.Title
		if title == "" {
			title = "—"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", p.ID),
			title,
			fmt.Sprintf("(%d, %d)", p.GridX, p.GridY),
			fmt.Sprintf("%d", p.WidthUnits),
			status,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Title", "Slot", "Units", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if dropped[row] {
				if col == 4 {
					return lipgloss.NewStyle().Foreground(colorYellow)
				}
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			if col == 4 {
				return lipgloss.NewStyle().Foreground(colorGreen)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	return t.Render()
}
