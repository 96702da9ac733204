package rain

// PhaseKind selects the transition overlay layered over normal
// rendering.
type PhaseKind int

const (
	// PhaseNone is the normal endless loop: columns respawn forever.
	PhaseNone PhaseKind = iota

	// PhaseCorruption flickers and corrupts a growing set of columns
	// and overlays scanlines and glitch bars.
	PhaseCorruption

	// PhaseError freezes corruption at full intensity and reveals a
	// centered status-message overlay with screen shake.
	PhaseError

	// PhaseReset plays a white flash, a synthetic boot sequence, then
	// solid black for a seamless loop cut.
	PhaseReset

	// PhaseCompletion stops respawning and accelerates laggard columns
	// until the screen has drained to black.
	PhaseCompletion
)

func (k PhaseKind) String() string {
	switch k {
	case PhaseNone:
		return "none"
	case PhaseCorruption:
		return "corruption"
	case PhaseError:
		return "error"
	case PhaseReset:
		return "reset"
	case PhaseCompletion:
		return "completion"
	default:
		return "unknown"
	}
}

// Phase is the current transition state: a kind plus its progress in
// [0,1]. Progress is driven externally each frame; the simulator owns
// no phase timing.
type Phase struct {
	Kind     PhaseKind
	Progress float64
}

// preventsRespawn reports whether drained columns stay dead under this
// phase.
func (p Phase) preventsRespawn() bool {
	return p.Kind == PhaseCompletion
}

func (p Phase) clampedProgress() float64 {
	if p.Progress < 0 {
		return 0
	}
	if p.Progress > 1 {
		return 1
	}
	return p.Progress
}
