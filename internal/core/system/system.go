package system

import "time"

// Phase defines execution ordering within a single tick. Later characters'
// box queries depend on earlier characters already being moved, and the
// compositor reads the positions locomotion produced, so the order is fixed.
type Phase int

const (
	PhasePreUpdate  Phase = iota // 0: dispatch last tick's events
	PhaseLocomotion              // 1: moveChar for every enabled character
	PhaseAnimation               // 2: advance actors and composite into the back buffer
	PhasePresent                 // 3: flip dirty rects to the display sink
	PhaseCleanup                 // 4: release actors queued for unload
)

func (p Phase) String() string {
	switch p {
	case PhasePreUpdate:
		return "pre-update"
	case PhaseLocomotion:
		return "locomotion"
	case PhaseAnimation:
		return "animation"
	case PhasePresent:
		return "present"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
