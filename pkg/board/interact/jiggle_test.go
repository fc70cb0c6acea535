package interact

import (
	"math"
	"testing"
	"time"

	"github.com/boardkit/gridboard/pkg/board"
	"github.com/boardkit/gridboard/pkg/board/layout"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestEaseFraction(t *testing.T) {
	tests := []struct {
		name string
		dt   float64
		want float64
	}{
		{"zero delta", 0, 0},
		{"negative delta", -0.5, 0},
		{"partial frame", 0.05, 0.5},
		{"full frame", 0.1, 1},
		{"long stall capped", 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := easeFraction(tt.dt); !near(got, tt.want) {
				t.Errorf("easeFraction(%v) = %v, want %v", tt.dt, got, tt.want)
			}
		})
	}
}

func TestEaseSnapsOntoTarget(t *testing.T) {
	tests := []struct {
		name     string
		from, to float64
		s        float64
		want     float64
	}{
		{"midway", 0, 5, 0.5, 2.5},
		{"lands exactly", 0, 5, 1, 5},
		{"holds at rest", 5, 5, 0, 5},
		{"snaps below epsilon", 4.99999, 5, 0.5, 5},
		{"no snap above epsilon", 0, 5, 0.99, 4.95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ease(tt.from, tt.to, tt.s); !near(got, tt.want) {
				t.Errorf("ease(%v, %v, %v) = %v, want %v", tt.from, tt.to, tt.s, got, tt.want)
			}
		})
	}
}

func TestPoseStepAndRest(t *testing.T) {
	var p pose
	if !p.atRest() {
		t.Error("zero pose should be at rest")
	}

	p.target = board.Offset{Translation: layout.Vec2{X: 1, Y: -2}, Tilt: 0.05}
	if p.atRest() {
		t.Error("pose with a pending target is not at rest")
	}

	p.step(1)
	if p.current != p.target {
		t.Errorf("full step left current = %+v, want %+v", p.current, p.target)
	}

	p.target = board.Offset{}
	p.step(1)
	if !p.atRest() {
		t.Errorf("pose should be back at rest, current = %+v", p.current)
	}
}

func TestTickEasesDraggedPanelTowardPointer(t *testing.T) {
	r := newRig(t)
	id, _ := r.mgr.AddPanel(0, 0, 1, "a")

	r.hits.set(id, board.RegionDragTop)
	c := r.center(t, id)
	r.ctrl.PointerDown(r.px(c))
	r.ctrl.PointerMove(r.px(c.Add(layout.Vec2{X: 5, Y: 0})))

	r.ctrl.Tick(r.clock.Now()) // primes the frame delta
	if off := r.rend.offsets[id]; !off.IsZero() {
		t.Fatalf("offset before any frame delta = %+v, want zero", off)
	}

	r.clock.advance(50 * time.Millisecond)
	r.ctrl.Tick(r.clock.Now())
	off := r.rend.offsets[id]
	if !near(off.Translation.X, 2.5) || !near(off.Translation.Y, 0) {
		t.Errorf("offset after half-life frame = %+v, want X near 2.5", off.Translation)
	}
}

func TestTickLongStallLandsOnTarget(t *testing.T) {
	r := newRig(t)
	id, _ := r.mgr.AddPanel(0, 0, 1, "a")

	r.hits.set(id, board.RegionDragTop)
	c := r.center(t, id)
	r.ctrl.PointerDown(r.px(c))
	r.ctrl.PointerMove(r.px(c.Add(layout.Vec2{X: 5, Y: 0})))

	r.ctrl.Tick(r.clock.Now())
	r.clock.advance(time.Second)
	r.ctrl.Tick(r.clock.Now())

	if off := r.rend.offsets[id]; !near(off.Translation.X, 5) {
		t.Errorf("offset after long stall = %+v, want X near 5 (capped, not overshot)", off.Translation)
	}
}

func TestJiggleFiresOnceAfterDelay(t *testing.T) {
	r := newRig(t)
	a, _ := r.mgr.AddPanel(0, 0, 1, "a")
	b, _ := r.mgr.AddPanel(2, 0, 1, "b")
	c, _ := r.mgr.AddPanel(4, 0, 1, "c")
	before, _ := r.mgr.PanelByID(b)

	r.hits.set(a, board.RegionDragTop)
	r.ctrl.PointerDown(r.px(r.center(t, a)))

	r.clock.advance(100 * time.Millisecond)
	r.ctrl.Tick(r.clock.Now())
	if off, ok := r.rend.offsets[b]; ok && !off.IsZero() {
		t.Fatalf("panel b nudged before the delay: %+v", off)
	}

	r.clock.advance(300 * time.Millisecond) // past the 350ms delay, full frame
	r.ctrl.Tick(r.clock.Now())

	offB := r.rend.offsets[b]
	if offB.IsZero() {
		t.Fatal("panel b not nudged after the delay")
	}
	if math.Abs(offB.Translation.X) > r.ctrl.jiggle.MaxOffset ||
		math.Abs(offB.Translation.Y) > r.ctrl.jiggle.MaxOffset ||
		math.Abs(offB.Tilt) > r.ctrl.jiggle.MaxTilt {
		t.Errorf("nudge out of bounds: %+v", offB)
	}
	if off := r.rend.offsets[a]; !off.IsZero() {
		t.Errorf("dragged panel must not be nudged, got %+v", off)
	}
	if offB == r.rend.offsets[c] {
		t.Error("panels b and c share one nudge")
	}

	// One-shot: later ticks hold the same targets instead of redrawing them.
	r.clock.advance(50 * time.Millisecond)
	r.ctrl.Tick(r.clock.Now())
	if r.rend.offsets[b] != offB {
		t.Errorf("nudge drifted on a later tick: %+v -> %+v", offB, r.rend.offsets[b])
	}

	after, _ := r.mgr.PanelByID(b)
	if after != before {
		t.Errorf("nudge touched logical fields: %+v -> %+v", before, after)
	}
}

func TestJiggleIsDeterministicPerDraggedPanel(t *testing.T) {
	run := func(dragIdx int) board.Offset {
		r := newRig(t)
		ids := make([]int, 3)
		ids[0], _ = r.mgr.AddPanel(0, 0, 1, "a")
		ids[1], _ = r.mgr.AddPanel(2, 0, 1, "b")
		ids[2], _ = r.mgr.AddPanel(4, 0, 1, "c")

		r.hits.set(ids[dragIdx], board.RegionDragTop)
		r.ctrl.PointerDown(r.px(r.center(t, ids[dragIdx])))
		r.ctrl.Tick(r.clock.Now()) // primes the frame delta
		r.clock.advance(400 * time.Millisecond)
		r.ctrl.Tick(r.clock.Now())
		return r.rend.offsets[ids[1]]
	}

	if run(0) != run(0) {
		t.Error("same drag produced different nudges across runs")
	}
	if run(0) == run(2) {
		t.Error("different dragged panels produced the same nudge for panel b")
	}
}

func TestReleaseEasesEverythingBackToRest(t *testing.T) {
	r := newRig(t)
	a, _ := r.mgr.AddPanel(0, 0, 1, "a")
	b, _ := r.mgr.AddPanel(2, 0, 1, "b")

	r.hits.set(a, board.RegionDragTop)
	press := r.px(r.center(t, a))
	r.ctrl.PointerDown(press)
	r.ctrl.Tick(r.clock.Now()) // primes the frame delta
	r.clock.advance(400 * time.Millisecond)
	r.ctrl.Tick(r.clock.Now())
	if r.rend.offsets[b].IsZero() {
		t.Fatal("expected a live nudge on panel b")
	}

	r.ctrl.PointerUp(press)

	r.clock.advance(200 * time.Millisecond)
	r.ctrl.Tick(r.clock.Now())
	if off := r.rend.offsets[b]; !off.IsZero() {
		t.Errorf("panel b still displaced after release: %+v", off)
	}

	// Once everything rests the tick loop goes quiet.
	renders := r.rend.renders
	r.clock.advance(50 * time.Millisecond)
	r.ctrl.Tick(r.clock.Now())
	if r.rend.renders != renders {
		t.Errorf("ticks keep rendering at rest: %d -> %d", renders, r.rend.renders)
	}
}

func TestTickPrunesPosesForRemovedPanels(t *testing.T) {
	r := newRig(t)
	a, _ := r.mgr.AddPanel(0, 0, 1, "a")
	b, _ := r.mgr.AddPanel(2, 0, 1, "b")

	r.hits.set(a, board.RegionDragTop)
	press := r.px(r.center(t, a))
	r.ctrl.PointerDown(press)
	r.ctrl.Tick(r.clock.Now()) // primes the frame delta
	r.clock.advance(400 * time.Millisecond)
	r.ctrl.Tick(r.clock.Now())
	if _, ok := r.ctrl.poses[b]; !ok {
		t.Fatal("expected a pose for panel b while the nudge is live")
	}

	r.ctrl.PointerUp(press)
	if err := r.mgr.RemovePanel(b); err != nil {
		t.Fatalf("RemovePanel() error = %v", err)
	}

	r.clock.advance(50 * time.Millisecond)
	r.ctrl.Tick(r.clock.Now())
	if _, ok := r.ctrl.poses[b]; ok {
		t.Error("pose for removed panel not pruned")
	}
}
