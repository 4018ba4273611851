package world

import (
	"testing"

	"github.com/dcbact/engine/internal/data"
)

func TestOccupancyArrivalOrder(t *testing.T) {
	o := NewOccupancy()
	o.Add(1, 10)
	o.Add(2, 10)
	o.Add(3, 20)
	o.Move(1, 10, 20)
	if got := o.Arrivals(20); len(got) != 2 || got[0] != 3 || got[1] != 1 {
		t.Errorf("arrivals(20) = %v", got)
	}
	if o.Count(10) != 1 {
		t.Errorf("count(10) = %d", o.Count(10))
	}
	o.Remove(2, 10)
	if o.Count(10) != 0 || o.Arrivals(10) != nil {
		t.Error("empty room not dropped")
	}
	o.Move(3, 20, 20)
	if got := o.Arrivals(20); got[0] != 3 {
		t.Errorf("same-room move reordered: %v", got)
	}
}

func TestStatePopulate(t *testing.T) {
	tbl, err := data.ParseCharacters([]byte(`
characters:
  - {id: 0, name: hero, location: 1, box: 0, x: 10, y: 20, walk_speed: 4}
  - {id: 7, name: ghost, location: 1, box: 0, x: 5, y: 5, disabled: true}
`))
	if err != nil {
		t.Fatal(err)
	}
	s := NewState(0)
	s.Populate(tbl)
	if s.Count() != 2 || s.Lead() == nil || s.Lead().Name != "hero" {
		t.Fatalf("populate: count=%d lead=%v", s.Count(), s.Lead())
	}
	hero := s.Lead()
	if hero.Start3 != 10*FixedOne || hero.Start4 != 20*FixedOne || hero.Start5 != FixedOne {
		t.Errorf("fixed-point position = %d,%d depth %d", hero.Start3, hero.Start4, hero.Start5)
	}
	if !hero.Stopped || hero.DestLoc != 1 || hero.DestX != 10 {
		t.Errorf("initial goal = %d (%d,%d) stopped=%v", hero.DestLoc, hero.DestX, hero.DestY, hero.Stopped)
	}
	if s.Headcount(1) != 1 {
		t.Errorf("disabled character counted: %d", s.Headcount(1))
	}

	ghost := s.Get(7)
	s.SetEnabled(ghost, true)
	s.MoveTo(hero, 2, 3)
	if hero.PrevLocation != 1 || hero.PrevBox != 0 || hero.Box != 3 {
		t.Errorf("MoveTo bookkeeping: %+v", hero)
	}
	if occ := s.Occupants(1); len(occ) != 1 || occ[0] != ghost {
		t.Errorf("occupants(1) = %v", occ)
	}
	if s.Headcount(2) != 1 {
		t.Errorf("headcount(2) = %d", s.Headcount(2))
	}
}

func TestHistory(t *testing.T) {
	c := &Character{}
	c.Place(1, 1)
	c.Start3 += 512
	c.PushHistory()
	c.Start3 += 512
	c.PushHistory()
	if c.Start3PrevPrev != 256+512 || c.Start3Prev != 256+1024 {
		t.Errorf("history = %d, %d", c.Start3PrevPrev, c.Start3Prev)
	}
	c.ResetHistory()
	if c.Start3PrevPrev != c.Start3 {
		t.Error("ResetHistory kept old samples")
	}
}
