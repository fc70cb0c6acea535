package view

import (
	"math"
	"testing"

	"github.com/boardkit/gridboard/pkg/board/layout"
)

func near(a, b float64) bool { return math.Abs(a-b) <= 1e-9 }

func TestCameraWorldPerPixel(t *testing.T) {
	tests := []struct {
		name string
		cam  Camera
		want float64
	}{
		{
			// tan(45 deg) = 1, so the plane shows 2*distance world units.
			name: "ninety degree fov",
			cam:  Camera{FOVDegrees: 90, ViewportHeightPx: 1000, Distance: 5},
			want: 0.01,
		},
		{
			name: "doubling distance doubles the ratio",
			cam:  Camera{FOVDegrees: 90, ViewportHeightPx: 1000, Distance: 10},
			want: 0.02,
		},
		{
			name: "zero viewport height yields zero",
			cam:  Camera{FOVDegrees: 90, ViewportHeightPx: 0, Distance: 5},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cam.WorldPerPixel(); !near(got, tt.want) {
				t.Errorf("WorldPerPixel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCameraValidate(t *testing.T) {
	tests := []struct {
		name    string
		cam     Camera
		wantErr bool
	}{
		{name: "valid", cam: Camera{FOVDegrees: 50, ViewportHeightPx: 800, Distance: 16}, wantErr: false},
		{name: "zero fov", cam: Camera{FOVDegrees: 0, ViewportHeightPx: 800, Distance: 16}, wantErr: true},
		{name: "flat fov", cam: Camera{FOVDegrees: 180, ViewportHeightPx: 800, Distance: 16}, wantErr: true},
		{name: "zero viewport", cam: Camera{FOVDegrees: 50, ViewportHeightPx: 0, Distance: 16}, wantErr: true},
		{name: "camera on the plane", cam: Camera{FOVDegrees: 50, ViewportHeightPx: 800, Distance: 0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cam.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMapperPointToWorld(t *testing.T) {
	m := NewMapper(Camera{FOVDegrees: 90, ViewportHeightPx: 800, Distance: 4}, 1000)
	// WorldPerPixel = 2*4/800 = 0.01; origin pixel is (500, 400).

	tests := []struct {
		name string
		p    Point
		want layout.Vec2
	}{
		{name: "viewport center is world origin", p: Point{X: 500, Y: 400}, want: layout.Vec2{X: 0, Y: 0}},
		{name: "right of center is positive x", p: Point{X: 600, Y: 400}, want: layout.Vec2{X: 1, Y: 0}},
		{name: "below center is negative y", p: Point{X: 500, Y: 500}, want: layout.Vec2{X: 0, Y: -1}},
		{name: "top left corner", p: Point{X: 0, Y: 0}, want: layout.Vec2{X: -5, Y: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.PointToWorld(tt.p)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) {
				t.Errorf("PointToWorld(%+v) = %+v, want %+v", tt.p, got, tt.want)
			}
		})
	}
}

func TestMapperDeltaToWorld(t *testing.T) {
	m := NewMapper(Camera{FOVDegrees: 90, ViewportHeightPx: 800, Distance: 4}, 1000)

	got := m.DeltaToWorld(50, -25)
	if !near(got.X, 0.5) || !near(got.Y, 0.25) {
		t.Errorf("DeltaToWorld(50, -25) = %+v, want {0.5 0.25}", got)
	}
}

func TestMapperPixelsToWorld(t *testing.T) {
	m := NewMapper(Camera{FOVDegrees: 90, ViewportHeightPx: 800, Distance: 4}, 1000)

	if got := m.PixelsToWorld(250); !near(got, 2.5) {
		t.Errorf("PixelsToWorld(250) = %v, want 2.5", got)
	}
}

func TestMapperRoundTrip(t *testing.T) {
	m := NewMapper(Camera{FOVDegrees: 50, ViewportHeightPx: 768, Distance: 16}, 1024)

	points := []Point{
		{X: 512, Y: 384},
		{X: 0, Y: 0},
		{X: 1024, Y: 768},
		{X: 137.5, Y: 600.25},
	}
	for _, p := range points {
		back := m.WorldToPoint(m.PointToWorld(p))
		if !near(back.X, p.X) || !near(back.Y, p.Y) {
			t.Errorf("round trip of %+v came back as %+v", p, back)
		}
	}
}

func TestMapperWorldToGridSlot(t *testing.T) {
	m := NewMapper(Camera{FOVDegrees: 90, ViewportHeightPx: 800, Distance: 4}, 1000)
	g := layout.Grid{UnitsX: 6, CellWidth: 2, Spacing: 0.5, Origin: layout.Vec2{X: -7.25, Y: 1}}

	// A 3-wide panel whose center projects to world (-3.75, 0) anchors at
	// column 0; see the grid inverse for the algebra.
	gx, gy := m.WorldToGridSlot(g, layout.Vec2{X: -3.75, Y: 0}, 3)
	if gx != 0 || gy != 0 {
		t.Errorf("WorldToGridSlot() = (%d, %d), want (0, 0)", gx, gy)
	}
}
