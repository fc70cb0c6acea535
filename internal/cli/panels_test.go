package cli

import (
	"strings"
	"testing"

	"github.com/boardkit/gridboard/pkg/board"
	"github.com/boardkit/gridboard/pkg/board/layout"
)

func TestPanelTable(t *testing.T) {
	mgr, err := board.New(layout.Grid{UnitsX: 6, CellWidth: 2, Spacing: 0.5})
	if err != nil {
		t.Fatalf("board.New() error = %v", err)
	}
	if _, err := mgr.AddPanel(0, 0, 3, "cpu"); err != nil {
		t.Fatalf("AddPanel() error = %v", err)
	}
	// Overlaps the first panel, so the pass drops it.
	if _, err := mgr.AddPanel(1, 0, 2, "mem"); err != nil {
		t.Fatalf("AddPanel() error = %v", err)
	}

	out := panelTable(mgr)
	for _, want := range []string{"cpu", "mem", "placed", "dropped", "(0, 0)", "Title", "Status"} {
		if !strings.Contains(out, want) {
			t.Errorf("panelTable() missing %q", want)
		}
	}
}

func TestPanelTableUntitled(t *testing.T) {
	mgr, err := board.New(layout.Grid{UnitsX: 6, CellWidth: 2, Spacing: 0.5})
	if err != nil {
		t.Fatalf("board.New() error = %v", err)
	}
	if _, err := mgr.AddPanel(0, 0, 2, ""); err != nil {
		t.Fatalf("AddPanel() error = %v", err)
	}

	if out := panelTable(mgr); !strings.Contains(out, "—") {
		t.Error("panelTable() missing the untitled placeholder")
	}
}

func TestPanelsCommand(t *testing.T) {
	c := testCLI()
	root := c.RootCommand()
	root.SetArgs([]string{"panels", writeManifest(t)})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
}
