package event

import "github.com/dcbact/engine/internal/core/arena"

// LocationChanged is emitted by hitExit once a character has been re-homed.
type LocationChanged struct {
	CharID int
	From   int
	To     int
	Box    int
}

// HousingOverflow is emitted when a location exceeded its capacity and a
// character was teleported out of it.
type HousingOverflow struct {
	Location int
	CharID   int
	DestLoc  int
	DestBox  int
}

// ActorUnloaded is emitted when an actor slot is released, e.g. on an xtend
// (costume) change.
type ActorUnloaded struct {
	Handle arena.Handle
	Sheet  string
}
