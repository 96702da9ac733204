package export

import (
	"fmt"

	"github.com/LaboratoryZero/matrixrain/internal/rain"
)

// segment holds one phase for a fraction of the total duration. The
// phase progress ramps 0..1 across the segment.
type segment struct {
	kind rain.PhaseKind
	frac float64
}

// Timeline maps elapsed time to a transition phase so exports replay
// the same sequence every run.
type Timeline struct {
	segments []segment
}

// Transitions available to the export command.
const (
	TransitionNone   = "none"
	TransitionGlitch = "glitch"
	TransitionDrain  = "drain"
)

// NewTimeline builds the named transition script. The glitch script
// runs clean rain, then corruption, a fault screen, and a reboot; the
// drain script accelerates every column off screen.
func NewTimeline(name string) (*Timeline, error) {
	switch name {
	case "", TransitionNone:
		return &Timeline{segments: []segment{
			{rain.PhaseNone, 1.0},
		}}, nil
	case TransitionGlitch:
		return &Timeline{segments: []segment{
			{rain.PhaseNone, 0.4},
			{rain.PhaseCorruption, 0.2},
			{rain.PhaseError, 0.2},
			{rain.PhaseReset, 0.2},
		}}, nil
	case TransitionDrain:
		return &Timeline{segments: []segment{
			{rain.PhaseNone, 0.3},
			{rain.PhaseCompletion, 0.7},
		}}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransition, name)
	}
}

// At returns the phase for elapsed/total time t in [0,1].
func (tl *Timeline) At(t float64) rain.Phase {
	if t < 0 {
		t = 0
	}
	acc := 0.0
	for _, seg := range tl.segments {
		if t < acc+seg.frac || seg.frac >= 1.0 {
			p := 0.0
			if seg.frac > 0 {
				p = (t - acc) / seg.frac
			}
			if p > 1 {
				p = 1
			}
			return rain.Phase{Kind: seg.kind, Progress: p}
		}
		acc += seg.frac
	}
	last := tl.segments[len(tl.segments)-1]
	return rain.Phase{Kind: last.kind, Progress: 1}
}
