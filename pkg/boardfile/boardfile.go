// Package boardfile loads declarative board manifests.
//
// A manifest is a TOML document with one [grid] table and any number of
// [[panels]] entries:
//
//	name = "ops dashboard"
//
//	[grid]
//	units_x    = 12
//	cell_width = 2.0
//	spacing    = 0.25
//
//	[[panels]]
//	title       = "cpu"
//	grid_x      = 0
//	grid_y      = 0
//	width_units = 4
//	color       = "#7aa2f7"
//
// Manifests describe input configuration, not saved layouts: the interactive
// surfaces never write them back.
package boardfile

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/boardkit/gridboard/pkg/board"
	"github.com/boardkit/gridboard/pkg/board/layout"
	"github.com/boardkit/gridboard/pkg/errors"
)

// Manifest is a parsed and validated board definition.
type Manifest struct {
	Name   string
	Grid   layout.Grid
	Panels []PanelDef
}

// PanelDef is one [[panels]] entry. ShowTitle defaults to true and
// WidthUnits to 1 when omitted.
type PanelDef struct {
	Title      string
	Color      string
	Script     string
	ShowTitle  bool
	GridX      int
	GridY      int
	WidthUnits int
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read manifest %s", path)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Parse parses and validates TOML manifest data.
func Parse(data []byte) (*Manifest, error) {
	var file manifestFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse manifest")
	}
	return build(file)
}

// Board constructs a manager populated with the manifest's panels. Options
// are appended after the manifest's name so callers can attach collaborators
// or override the name.
func (m *Manifest) Board(opts ...board.Option) (*board.Manager, error) {
	opts = append([]board.Option{board.WithName(m.Name)}, opts...)
	mgr, err := board.New(m.Grid, opts...)
	if err != nil {
		return nil, err
	}
	for i, def := range m.Panels {
		id, err := mgr.AddPanel(def.GridX, def.GridY, def.WidthUnits, def.Title)
		if err != nil {
			return nil, fmt.Errorf("panels[%d] %q: %w", i, def.Title, err)
		}
		patch := board.Patch{ShowTitle: &def.ShowTitle}
		if def.Color != "" {
			patch.Color = &def.Color
		}
		if def.Script != "" {
			patch.Script = &def.Script
		}
		if err := mgr.ApplySettings(id, patch, false); err != nil {
			return nil, fmt.Errorf("panels[%d] %q: %w", i, def.Title, err)
		}
	}
	return mgr, nil
}

type manifestFile struct {
	Name   string       `toml:"name"`
	Grid   gridTable    `toml:"grid"`
	Panels []panelTable `toml:"panels"`
}

type gridTable struct {
	UnitsX    int     `toml:"units_x"`
	CellWidth float64 `toml:"cell_width"`
	Spacing   float64 `toml:"spacing"`
}

type panelTable struct {
	Title      string `toml:"title"`
	Color      string `toml:"color"`
	Script     string `toml:"script"`
	ShowTitle  *bool  `toml:"show_title"`
	GridX      int    `toml:"grid_x"`
	GridY      int    `toml:"grid_y"`
	WidthUnits int    `toml:"width_units"`
}

func build(file manifestFile) (*Manifest, error) {
	if err := errors.ValidateGrid(file.Grid.UnitsX, file.Grid.CellWidth, file.Grid.Spacing); err != nil {
		return nil, err
	}

	m := &Manifest{
		Name: file.Name,
		Grid: layout.Grid{
			UnitsX:    file.Grid.UnitsX,
			CellWidth: file.Grid.CellWidth,
			Spacing:   file.Grid.Spacing,
		},
		Panels: make([]PanelDef, 0, len(file.Panels)),
	}
	if m.Name == "" {
		m.Name = "board"
	}

	for i, p := range file.Panels {
		def := PanelDef{
			Title:      p.Title,
			Color:      p.Color,
			Script:     p.Script,
			ShowTitle:  true,
			GridX:      p.GridX,
			GridY:      p.GridY,
			WidthUnits: p.WidthUnits,
		}
		if p.ShowTitle != nil {
			def.ShowTitle = *p.ShowTitle
		}
		if def.WidthUnits == 0 {
			def.WidthUnits = 1
		}
		if err := errors.ValidateTitle(def.Title); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "panels[%d]", i)
		}
		if err := errors.ValidatePlacement(m.Grid.UnitsX, def.GridX, def.GridY, def.WidthUnits); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "panels[%d] %q", i, def.Title)
		}
		m.Panels = append(m.Panels, def)
	}
	return m, nil
}
