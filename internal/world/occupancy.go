package world

// Occupancy tracks which characters are in which location, in arrival order.
// Accessed only from the game loop goroutine, no locks.
type Occupancy struct {
	rooms map[int][]int // location → character IDs, oldest arrival first
}

func NewOccupancy() *Occupancy {
	return &Occupancy{rooms: make(map[int][]int)}
}

// Add appends a character as the newest arrival of loc.
func (o *Occupancy) Add(charID, loc int) {
	o.rooms[loc] = append(o.rooms[loc], charID)
}

// Remove takes a character out of loc.
func (o *Occupancy) Remove(charID, loc int) {
	ids := o.rooms[loc]
	for i, id := range ids {
		if id == charID {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(o.rooms, loc)
		return
	}
	o.rooms[loc] = ids
}

// Move records a room transition; the character becomes loc's newest arrival.
func (o *Occupancy) Move(charID, from, to int) {
	if from == to {
		return
	}
	o.Remove(charID, from)
	o.Add(charID, to)
}

// Count returns how many characters are in loc.
func (o *Occupancy) Count(loc int) int {
	return len(o.rooms[loc])
}

// Arrivals returns the characters in loc, oldest first. The slice is owned by
// Occupancy and must not be modified.
func (o *Occupancy) Arrivals(loc int) []int {
	return o.rooms[loc]
}
