package world

import (
	"github.com/dcbact/engine/internal/data"
)

// State tracks every character of the game and the few global flags the
// locomotion and animation layers consult.
// Single-goroutine access only (game loop).
type State struct {
	chars []*Character         // table order, which is also the update order
	byID  map[int]*Character   // character ID → Character
	rooms *Occupancy

	LeadID int // player-controlled character

	// GameLoopTimer counts ticks since start.
	GameLoopTimer uint64
	// SpellMode biases the lead character's idle scope towards casting.
	SpellMode bool
}

func NewState(leadID int) *State {
	return &State{
		byID:   make(map[int]*Character),
		rooms:  NewOccupancy(),
		LeadID: leadID,
	}
}

// Populate adds a Character for every entry of the table.
func (s *State) Populate(tbl *data.CharacterTable) {
	defs := tbl.All()
	for i := range defs {
		s.Add(NewCharacter(&defs[i]))
	}
}

// Add registers a character as the newest arrival in its location.
func (s *State) Add(c *Character) {
	s.chars = append(s.chars, c)
	s.byID[c.ID] = c
	if c.Enabled {
		s.rooms.Add(c.ID, c.Location)
	}
}

// Get returns a character by ID, or nil.
func (s *State) Get(id int) *Character {
	return s.byID[id]
}

// Lead returns the player-controlled character, or nil.
func (s *State) Lead() *Character {
	return s.byID[s.LeadID]
}

// IsLead reports whether c is the player-controlled character.
func (s *State) IsLead(c *Character) bool {
	return c.ID == s.LeadID
}

// Count returns the number of characters.
func (s *State) Count() int {
	return len(s.chars)
}

// AllCharacters iterates characters in table order.
func (s *State) AllCharacters(fn func(*Character)) {
	for _, c := range s.chars {
		fn(c)
	}
}

// MoveTo changes a character's location, keeping occupancy in sync.
func (s *State) MoveTo(c *Character, loc, box int) {
	if c.Enabled {
		s.rooms.Move(c.ID, c.Location, loc)
	}
	c.PrevLocation, c.PrevBox = c.Location, c.Box
	c.Location = loc
	c.LastBox = c.Box
	c.Box = box
}

// SetEnabled switches a character on or off. Disabled characters do not
// count towards room capacity.
func (s *State) SetEnabled(c *Character, on bool) {
	if c.Enabled == on {
		return
	}
	c.Enabled = on
	if on {
		s.rooms.Add(c.ID, c.Location)
	} else {
		s.rooms.Remove(c.ID, c.Location)
	}
}

// Occupants returns the enabled characters in loc, oldest arrival first.
func (s *State) Occupants(loc int) []*Character {
	ids := s.rooms.Arrivals(loc)
	out := make([]*Character, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.byID[id])
	}
	return out
}

// Headcount returns how many enabled characters are in loc.
func (s *State) Headcount(loc int) int {
	return s.rooms.Count(loc)
}
