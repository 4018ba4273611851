package main

import (
	"fmt"
	"strconv"

	"github.com/dcbact/engine/internal/config"
	"github.com/dcbact/engine/internal/data"
	"github.com/dcbact/engine/internal/nav"
	"github.com/dcbact/engine/internal/sprite"
	"github.com/dustin/go-humanize"
)

// describeSheet prints the frame table of a sprite sheet.
func describeSheet(path string) error {
	s, err := sprite.Load(path)
	if err != nil {
		return err
	}
	kind := "actor"
	if s.Player {
		kind = "player"
	}
	printSection("Sheet")
	printStat("File", path)
	printStat("Kind", kind)
	printStat("Size", humanize.Bytes(uint64(s.Size())))
	printCount("Frames", len(s.Frames))
	fmt.Println()
	for i := range s.Frames {
		f := &s.Frames[i]
		if f.Empty() {
			fmt.Printf("  %4d  \033[90m(empty)\033[0m\n", i)
			continue
		}
		fmt.Printf("  %4d  %3dx%-3d  offset %4d,%-4d  %s\n",
			i, f.Width, f.Height, f.XOffset, f.YOffset, humanize.Bytes(uint64(len(f.Pixels))))
	}
	return nil
}

// describeRoute walks the box2box table from one box to another and prints
// every hop with the point a character aims for when crossing it.
func describeRoute(cfgPath string, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("route: expected <location> <from-box> <to-box>, got %d args", len(args))
	}
	var ids [3]int
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("route: %q is not a number", a)
		}
		ids[i] = v
	}
	loc, from, to := ids[0], ids[1], ids[2]

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	tbl, err := data.LoadLocations(cfg.Data.Locations)
	if err != nil {
		return fmt.Errorf("load locations: %w", err)
	}
	g := nav.NewGraph(tbl)
	if !g.HasLocation(loc) {
		return fmt.Errorf("route: unknown location %d", loc)
	}
	n := g.BoxCount(loc)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("route: boxes must be in 0..%d", n-1)
	}

	printSection(fmt.Sprintf("Route %d: %d -> %d", loc, from, to))
	cur := from
	for hops := 0; cur != to; hops++ {
		next := g.RouteBetweenBoxes(loc, cur, to)
		if next == nav.NoBox || hops >= n {
			fmt.Printf("  \033[31m✗\033[0m no route from box %d\n", cur)
			return nil
		}
		p := g.MidOverlap(loc, cur, next)
		fmt.Printf("  %3d -> %-3d via (%d,%d)\n", cur, next, p.X, p.Y)
		cur = next
	}
	c := g.Center(loc, to)
	printOK(fmt.Sprintf("arrived, box %d centre (%d,%d)", to, c.X, c.Y))
	return nil
}
