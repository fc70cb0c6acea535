package interact

import (
	"math/rand/v2"
	"time"

	"github.com/boardkit/gridboard/pkg/board"
	"github.com/boardkit/gridboard/pkg/board/layout"
)

// JiggleConfig bounds the cosmetic nudge the non-dragged panels receive
// while a drag is live.
type JiggleConfig struct {
	// Delay is how long a drag must be live before the nudge fires.
	Delay time.Duration

	// MaxOffset bounds the translation on each axis, in world units.
	MaxOffset float64

	// MaxTilt bounds the rotation, in radians.
	MaxTilt float64

	// Seed makes the nudge reproducible. The dragged panel's id is mixed
	// in so consecutive drags do not repeat the exact pattern.
	Seed uint64
}

var defaultJiggle = JiggleConfig{
	Delay:     350 * time.Millisecond,
	MaxOffset: 0.25,
	MaxTilt:   0.06,
	Seed:      42,
}

// applyJiggle sets a one-shot random pose target on every panel except the
// dragged one. Purely visual; logical grid fields are never touched.
func (c *Controller) applyJiggle(draggedID int) {
	seed := c.jiggle.Seed ^ uint64(int64(draggedID))
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))

	for _, p := range c.mgr.Panels() {
		if p.ID == draggedID {
			continue
		}
		c.poseFor(p.ID).target = board.Offset{
			Translation: layout.Vec2{
				X: (rng.Float64()*2 - 1) * c.jiggle.MaxOffset,
				Y: (rng.Float64()*2 - 1) * c.jiggle.MaxOffset,
			},
			Tilt: (rng.Float64()*2 - 1) * c.jiggle.MaxTilt,
		}
	}
}

// clearJiggle resets every pose target to rest. Current offsets ease back
// on subsequent ticks.
func (c *Controller) clearJiggle() {
	for _, p := range c.poses {
		p.target = board.Offset{}
	}
}
