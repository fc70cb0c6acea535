package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/boardkit/gridboard/pkg/board/layout"
	"github.com/boardkit/gridboard/pkg/errors"
)

const testManifest = `name = "ops"

[grid]
units_x    = 6
cell_width = 2.0
spacing    = 0.5

[[panels]]
title       = "cpu"
grid_x      = 0
grid_y      = 0
width_units = 3

[[panels]]
title       = "mem"
grid_x      = 3
grid_y      = 0
width_units = 3
`

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func writeManifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.toml")
	if err := os.WriteFile(path, []byte(testManifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsValidateForLoad(t *testing.T) {
	// Missing path and content
	opts := Options{}
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("Missing manifest should fail")
	}

	// Valid with path
	opts = Options{ManifestPath: "board.toml"}
	if err := opts.ValidateForLoad(); err != nil {
		t.Errorf("Valid path options should pass: %v", err)
	}
	if opts.Logger == nil {
		t.Error("Logger default should be set")
	}

	// Valid with inline content
	opts = Options{Manifest: testManifest}
	if err := opts.ValidateForLoad(); err != nil {
		t.Errorf("Valid inline options should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{ManifestPath: "board.toml"}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("Valid options should pass: %v", err)
	}

	// Check defaults were set
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %g, got %g", DefaultScale, opts.Scale)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{ManifestPath: "board.toml"}

	// First call
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalFormats := len(opts.Formats)
	originalScale := opts.Scale

	// Second call should be idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if len(opts.Formats) != originalFormats {
		t.Error("Formats changed on second call")
	}
	if opts.Scale != originalScale {
		t.Error("Scale changed on second call")
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %g, got %g", DefaultScale, opts.Scale)
	}
}

func TestValidateForRenderRejectsNegativeScale(t *testing.T) {
	opts := Options{Scale: -1}
	if err := opts.ValidateForRender(); err == nil {
		t.Error("Negative scale should fail")
	}
}

func TestRunnerExecute(t *testing.T) {
	runner := NewRunner(testLogger())
	opts := Options{
		ManifestPath: writeManifest(t),
		Formats:      []string{FormatSVG, FormatJSON},
		Backdrop:     true,
		Logger:       testLogger(),
	}

	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Board == nil {
		t.Fatal("Board should be set")
	}
	if got := result.Board.Name(); got != "ops" {
		t.Errorf("Board name = %q, want %q", got, "ops")
	}
	if result.Stats.PanelCount != 2 {
		t.Errorf("PanelCount = %d, want 2", result.Stats.PanelCount)
	}
	if result.Stats.Rows != 1 {
		t.Errorf("Rows = %d, want 1", result.Stats.Rows)
	}
	if result.Stats.Conflicts != 0 {
		t.Errorf("Conflicts = %d, want 0", result.Stats.Conflicts)
	}

	svg, ok := result.Artifacts[FormatSVG]
	if !ok || !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Errorf("SVG artifact missing or malformed: %.40s", svg)
	}

	var doc struct {
		Board  string `json:"board"`
		Panels []struct {
			ID int `json:"id"`
		} `json:"panels"`
	}
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &doc); err != nil {
		t.Fatalf("unmarshal JSON artifact: %v", err)
	}
	if doc.Board != "ops" {
		t.Errorf("JSON board = %q, want %q", doc.Board, "ops")
	}
	if len(doc.Panels) != 2 {
		t.Errorf("JSON panels = %d, want 2", len(doc.Panels))
	}
}

func TestRunnerExecuteInlineManifest(t *testing.T) {
	runner := NewRunner(testLogger())
	opts := Options{
		Manifest: testManifest,
		Formats:  []string{FormatJSON},
		Logger:   testLogger(),
	}

	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.Artifacts[FormatJSON]) == 0 {
		t.Error("JSON artifact should be rendered from inline content")
	}
}

func TestRunnerExecuteNameOverride(t *testing.T) {
	runner := NewRunner(testLogger())
	opts := Options{
		Manifest: testManifest,
		Name:     "prod",
		Logger:   testLogger(),
	}

	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := result.Board.Name(); got != "prod" {
		t.Errorf("Board name = %q, want %q", got, "prod")
	}
}

func TestRunnerExecuteMissingManifest(t *testing.T) {
	runner := NewRunner(testLogger())
	opts := Options{
		ManifestPath: filepath.Join(t.TempDir(), "missing.toml"),
		Logger:       testLogger(),
	}

	_, err := runner.Execute(context.Background(), opts)
	if err == nil {
		t.Fatal("Missing manifest should fail")
	}
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}

func TestRunnerExecuteInvalidOptions(t *testing.T) {
	runner := NewRunner(testLogger())

	if _, err := runner.Execute(context.Background(), Options{}); err == nil {
		t.Error("Empty options should fail")
	}
}

func TestRunnerExecuteCanceledContext(t *testing.T) {
	runner := NewRunner(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Execute(ctx, Options{Manifest: testManifest, Logger: testLogger()})
	if err == nil {
		t.Error("Canceled context should fail")
	}
}

func TestRenderWithoutManager(t *testing.T) {
	grid := layout.Grid{UnitsX: 6, CellWidth: 2, Spacing: 0.5}
	res, err := layout.Compute(grid, []layout.Item{{ID: 1, GridX: 0, GridY: 0, WidthUnits: 3}})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	artifacts, err := Render(res, nil, Options{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.HasPrefix(artifacts[FormatSVG], []byte("<svg")) {
		t.Error("SVG artifact missing without a manager")
	}
}
