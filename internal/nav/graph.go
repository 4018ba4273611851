// Package nav answers walkable-area queries over the static box graph of
// every location. All data is immutable after NewGraph; lookups never
// allocate on the per-tick path.
package nav

import (
	"fmt"

	"github.com/dcbact/engine/internal/data"
)

// NoBox is the "no route / no box" sentinel.
const NoBox = -1

// Point is a screen position in pixels.
type Point struct {
	X, Y int
}

type location struct {
	def *data.LocationDef
	// overlap[a][j] is the entry point into Joins[j] of box a
	overlap [][data.MaxJoins]Point
}

// Graph is the NavigationGraph over a LocationTable.
type Graph struct {
	table *data.LocationTable
	locs  map[int]*location
}

// NewGraph precomputes overlap midpoints for every joined box pair.
func NewGraph(table *data.LocationTable) *Graph {
	g := &Graph{
		table: table,
		locs:  make(map[int]*location, table.Count()),
	}
	for _, id := range table.IDs() {
		def := table.Get(id)
		loc := &location{
			def:     def,
			overlap: make([][data.MaxJoins]Point, len(def.Boxes)),
		}
		for a := range def.Boxes {
			for j, b := range def.Boxes[a].Joins {
				if b == NoBox {
					continue
				}
				loc.overlap[a][j] = overlapMid(&def.Boxes[a], &def.Boxes[b])
			}
		}
		g.locs[id] = loc
	}
	return g
}

// overlapMid returns the middle of the part of b touching a. Boxes that share
// an edge touch once a is grown by one pixel.
func overlapMid(a, b *data.BoxDef) Point {
	x1, y1 := max(a.X1-1, b.X1), max(a.Y1-1, b.Y1)
	x2, y2 := min(a.X2+1, b.X2), min(a.Y2+1, b.Y2)
	if x1 > x2 || y1 > y2 {
		return Point{(b.X1 + b.X2) / 2, (b.Y1 + b.Y2) / 2}
	}
	return Point{(x1 + x2) / 2, (y1 + y2) / 2}
}

func (g *Graph) location(id int) *location {
	loc := g.locs[id]
	if loc == nil {
		panic(fmt.Sprintf("nav: unknown location %d", id))
	}
	return loc
}

// Box returns the definition of a box. Out-of-range ids panic.
func (g *Graph) Box(locID, box int) *data.BoxDef {
	loc := g.location(locID)
	if box < 0 || box >= len(loc.def.Boxes) {
		panic(fmt.Sprintf("nav: location %d has no box %d", locID, box))
	}
	return &loc.def.Boxes[box]
}

// HasLocation reports whether a location id is known.
func (g *Graph) HasLocation(locID int) bool {
	return g.locs[locID] != nil
}

// BoxCount returns the number of boxes of a location.
func (g *Graph) BoxCount(locID int) int {
	return len(g.location(locID).def.Boxes)
}

// AdjacentBox returns the join in slot dir of a box, or NoBox.
func (g *Graph) AdjacentBox(locID, from, dir int) int {
	if dir < 0 || dir >= data.MaxJoins {
		panic(fmt.Sprintf("nav: join slot %d out of range", dir))
	}
	return g.Box(locID, from).Joins[dir]
}

// RouteBetweenBoxes returns the next box to walk into on the way from one box
// to another, or NoBox when there is no route or from == to.
func (g *Graph) RouteBetweenBoxes(locID, from, to int) int {
	g.Box(locID, from)
	g.Box(locID, to)
	routes := g.location(locID).def.Box2Box
	if from == to || routes == nil {
		return NoBox
	}
	return routes[from][to]
}

// RouteBetweenLocations returns the next location on the way, or NoBox.
func (g *Graph) RouteBetweenLocations(from, to int) int {
	g.location(from)
	g.location(to)
	if from == to {
		return NoBox
	}
	return g.table.NextLocation(from, to)
}

// ExitFor returns where stepping onto an exit box leads. ok is false when
// the box has no exit.
func (g *Graph) ExitFor(locID, box int) (destLoc, destBox int, ok bool) {
	g.Box(locID, box)
	for _, e := range g.location(locID).def.Exits {
		if e.Box == box {
			return e.DestLocation, e.DestBox, true
		}
	}
	return NoBox, NoBox, false
}

// ExitToward returns the first exit box of a location leading to dest, or NoBox.
func (g *Graph) ExitToward(locID, dest int) int {
	for _, e := range g.location(locID).def.Exits {
		if e.DestLocation == dest {
			return e.Box
		}
	}
	return NoBox
}

// BoxAt returns the first box containing (x, y) in authoring order, or NoBox.
func (g *Graph) BoxAt(locID, x, y int) int {
	boxes := g.location(locID).def.Boxes
	for i := range boxes {
		if boxes[i].Contains(x, y) {
			return i
		}
	}
	return NoBox
}

// BoxAtLinked is BoxAt restricted to from and its joins, so a stepped move
// can never land in an unconnected box.
func (g *Graph) BoxAtLinked(locID, from, x, y int) int {
	b := g.Box(locID, from)
	if b.Contains(x, y) {
		return from
	}
	for _, j := range b.Joins {
		if j != NoBox && g.Box(locID, j).Contains(x, y) {
			return j
		}
	}
	return NoBox
}

// Center returns the middle of a box.
func (g *Graph) Center(locID, box int) Point {
	b := g.Box(locID, box)
	return Point{(b.X1 + b.X2) / 2, (b.Y1 + b.Y2) / 2}
}

// MidOverlap returns the precomputed entry point from box a into box b. When
// b is not joined to a the centre of b is returned.
func (g *Graph) MidOverlap(locID, a, b int) Point {
	for j, n := range g.Box(locID, a).Joins {
		if n == b {
			return g.location(locID).overlap[a][j]
		}
	}
	return g.Center(locID, b)
}

// ZValue interpolates the perspective depth of a box at row y (x256, 256 =
// nominal). Rows outside the box clamp to its edges.
func (g *Graph) ZValue(locID, box, y int) int {
	b := g.Box(locID, box)
	if b.Y2 == b.Y1 || y <= b.Y1 {
		return b.Z1
	}
	if y >= b.Y2 {
		return b.Z2
	}
	return b.Z1 + (b.Z2-b.Z1)*(y-b.Y1)/(b.Y2-b.Y1)
}

// Priority returns the draw-depth band of a box.
func (g *Graph) Priority(locID, box int) int {
	return g.Box(locID, box).Priority
}

// IsInLine reports whether the straight segment (x1,y1)-(x2,y2) stays inside
// the chain of boxes routed from box from to box to.
func (g *Graph) IsInLine(locID, from, to, x1, y1, x2, y2 int) bool {
	chain := g.routeChain(locID, from, to)
	if chain == nil {
		return false
	}
	dx, dy := x2-x1, y2-y1
	steps := max(abs(dx), abs(dy))
	for i := 0; i <= steps; i++ {
		px, py := x1, y1
		if steps > 0 {
			px += dx * i / steps
			py += dy * i / steps
		}
		inside := false
		for _, b := range chain {
			if g.Box(locID, b).Contains(px, py) {
				inside = true
				break
			}
		}
		if !inside {
			return false
		}
	}
	return true
}

// routeChain lists the boxes visited walking the box2box table from -> to,
// both ends included. nil when the route is broken.
func (g *Graph) routeChain(locID, from, to int) []int {
	chain := []int{from}
	limit := g.BoxCount(locID)
	for cur := from; cur != to; {
		next := g.RouteBetweenBoxes(locID, cur, to)
		if next == NoBox || len(chain) > limit {
			return nil
		}
		chain = append(chain, next)
		cur = next
	}
	return chain
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
