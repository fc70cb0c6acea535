package interact

import (
	"math"

	"github.com/boardkit/gridboard/pkg/board"
)

// poseEaseRate controls how quickly a pose closes on its target, in
// fractions per second. At 10, a pose crosses ~63% of the remaining
// distance every 100ms.
const poseEaseRate = 10.0

// poseSnapEpsilon is the distance below which a pose locks onto its target
// instead of creeping asymptotically.
const poseSnapEpsilon = 1e-4

// pose is one panel's transient visual displacement: where it is drawn
// relative to its committed rectangle, and where that displacement is
// heading.
type pose struct {
	current board.Offset
	target  board.Offset
}

// step eases current toward target by fraction s in [0, 1].
func (p *pose) step(s float64) {
	p.current.Translation.X = ease(p.current.Translation.X, p.target.Translation.X, s)
	p.current.Translation.Y = ease(p.current.Translation.Y, p.target.Translation.Y, s)
	p.current.Tilt = ease(p.current.Tilt, p.target.Tilt, s)
}

// atRest reports whether the pose sits on a zero target with nothing left
// to ease.
func (p *pose) atRest() bool {
	return p.current.IsZero() && p.target.IsZero()
}

func ease(from, to, s float64) float64 {
	next := from + (to-from)*s
	if math.Abs(next-to) < poseSnapEpsilon {
		return to
	}
	return next
}

// easeFraction converts a frame delta to an easing fraction, capped at 1 so
// long stalls cannot overshoot.
func easeFraction(dtSeconds float64) float64 {
	if dtSeconds <= 0 {
		return 0
	}
	s := dtSeconds * poseEaseRate
	if s > 1 {
		return 1
	}
	return s
}
