package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MaxJoins is the number of adjacency slots a box carries.
const MaxJoins = 6

// AttribBlocked marks a box characters may never step into.
const AttribBlocked = 8

// BoxDef is one walkable rectangle of a location, as authored.
type BoxDef struct {
	X1       int   `yaml:"x1"`
	Y1       int   `yaml:"y1"`
	X2       int   `yaml:"x2"`
	Y2       int   `yaml:"y2"`
	Priority int   `yaml:"priority"` // draw-depth band
	Z1       int   `yaml:"z1"`       // depth at y1, 256 = nominal size
	Z2       int   `yaml:"z2"`       // depth at y2
	Attrib   int   `yaml:"attrib"`
	Joins    []int `yaml:"joins"` // adjacent box indices, -1 = none
}

// Contains reports whether (x, y) lies inside the box, edges included.
func (b *BoxDef) Contains(x, y int) bool {
	return x >= b.X1 && x <= b.X2 && y >= b.Y1 && y <= b.Y2
}

// ExitDef maps a box to the box a character lands in on another location.
type ExitDef struct {
	Box          int `yaml:"box"`
	DestLocation int `yaml:"dest_location"`
	DestBox      int `yaml:"dest_box"`
}

// LocationDef holds the static navigation data of one room.
type LocationDef struct {
	ID    int       `yaml:"id"`
	Name  string    `yaml:"name"`
	Boxes []BoxDef  `yaml:"boxes"`
	Exits []ExitDef `yaml:"exits"`
	// Box2Box[from][to] is the next box to walk into, -1 = no route.
	Box2Box [][]int `yaml:"box2box"`
}

// RouteDef is one entry of the inter-location next-hop table.
type RouteDef struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
	Next int `yaml:"next"`
}

type locationFile struct {
	Locations []LocationDef `yaml:"locations"`
	Loc2Loc   []RouteDef    `yaml:"loc2loc"`
}

type routeKey struct {
	from int
	to   int
}

// LocationTable holds every location plus the loc2loc table, indexed by id.
type LocationTable struct {
	locations map[int]*LocationDef
	order     []int
	loc2loc   map[routeKey]int
}

// LoadLocations loads and validates locations.yaml.
func LoadLocations(path string) (*LocationTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read locations %s: %w", path, err)
	}
	return ParseLocations(raw)
}

// ParseLocations decodes and validates a locations document.
func ParseLocations(raw []byte) (*LocationTable, error) {
	var f locationFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse locations: %w", err)
	}

	t := &LocationTable{
		locations: make(map[int]*LocationDef, len(f.Locations)),
		loc2loc:   make(map[routeKey]int, len(f.Loc2Loc)),
	}
	for i := range f.Locations {
		loc := &f.Locations[i]
		if _, dup := t.locations[loc.ID]; dup {
			return nil, fmt.Errorf("location %d defined twice", loc.ID)
		}
		if err := validateLocation(loc); err != nil {
			return nil, fmt.Errorf("location %d (%s): %w", loc.ID, loc.Name, err)
		}
		t.locations[loc.ID] = loc
		t.order = append(t.order, loc.ID)
	}
	for _, id := range t.order {
		if err := t.validateExits(t.locations[id]); err != nil {
			return nil, err
		}
	}
	for _, r := range f.Loc2Loc {
		if _, ok := t.locations[r.From]; !ok {
			return nil, fmt.Errorf("loc2loc: unknown location %d", r.From)
		}
		if _, ok := t.locations[r.To]; !ok {
			return nil, fmt.Errorf("loc2loc: unknown location %d", r.To)
		}
		if r.Next != -1 {
			if _, ok := t.locations[r.Next]; !ok {
				return nil, fmt.Errorf("loc2loc %d->%d: unknown next hop %d", r.From, r.To, r.Next)
			}
		}
		t.loc2loc[routeKey{r.From, r.To}] = r.Next
	}
	return t, nil
}

// validateExits checks that every exit leads to a box that exists.
func (t *LocationTable) validateExits(loc *LocationDef) error {
	for _, e := range loc.Exits {
		dest, ok := t.locations[e.DestLocation]
		if !ok {
			return fmt.Errorf("location %d (%s): exit box %d leads to unknown location %d",
				loc.ID, loc.Name, e.Box, e.DestLocation)
		}
		if e.DestBox < 0 || e.DestBox >= len(dest.Boxes) {
			return fmt.Errorf("location %d (%s): exit box %d leads to box %d of location %d, which has %d boxes",
				loc.ID, loc.Name, e.Box, e.DestBox, e.DestLocation, len(dest.Boxes))
		}
	}
	return nil
}

func validateLocation(loc *LocationDef) error {
	n := len(loc.Boxes)
	for i := range loc.Boxes {
		b := &loc.Boxes[i]
		if b.X1 > b.X2 || b.Y1 > b.Y2 {
			return fmt.Errorf("box %d: inverted bounds (%d,%d)-(%d,%d)", i, b.X1, b.Y1, b.X2, b.Y2)
		}
		if len(b.Joins) > MaxJoins {
			return fmt.Errorf("box %d: %d joins, max %d", i, len(b.Joins), MaxJoins)
		}
		// pad so callers can always index MaxJoins slots
		for len(b.Joins) < MaxJoins {
			b.Joins = append(b.Joins, -1)
		}
		for _, j := range b.Joins {
			if j < -1 || j >= n {
				return fmt.Errorf("box %d: join %d out of range", i, j)
			}
		}
		if b.Z1 == 0 && b.Z2 == 0 {
			b.Z1, b.Z2 = 256, 256
		}
		if b.Z1 <= 0 || b.Z2 <= 0 {
			return fmt.Errorf("box %d: depth must be positive", i)
		}
	}
	for _, e := range loc.Exits {
		if e.Box < 0 || e.Box >= n {
			return fmt.Errorf("exit box %d out of range", e.Box)
		}
	}
	if loc.Box2Box == nil {
		return nil
	}
	if len(loc.Box2Box) != n {
		return fmt.Errorf("box2box has %d rows, want %d", len(loc.Box2Box), n)
	}
	for i, row := range loc.Box2Box {
		if len(row) != n {
			return fmt.Errorf("box2box row %d has %d entries, want %d", i, len(row), n)
		}
		for _, next := range row {
			if next < -1 || next >= n {
				return fmt.Errorf("box2box row %d: next box %d out of range", i, next)
			}
		}
	}
	return nil
}

// Get returns a location by id, or nil if not found.
func (t *LocationTable) Get(id int) *LocationDef {
	return t.locations[id]
}

// IDs returns location ids in authoring order.
func (t *LocationTable) IDs() []int {
	return t.order
}

// NextLocation returns the loc2loc next hop, -1 when none is recorded.
func (t *LocationTable) NextLocation(from, to int) int {
	next, ok := t.loc2loc[routeKey{from, to}]
	if !ok {
		return -1
	}
	return next
}

// Count returns the number of loaded locations.
func (t *LocationTable) Count() int {
	return len(t.locations)
}

// BoxCount returns the total number of boxes across all locations.
func (t *LocationTable) BoxCount() int {
	n := 0
	for _, loc := range t.locations {
		n += len(loc.Boxes)
	}
	return n
}
