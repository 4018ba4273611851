package main

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/dcbact/engine/internal/sprite/spritetest"
)

const testLocations = `
locations:
  - id: 1
    name: hall
    boxes:
      - {x1: 0, y1: 100, x2: 99, y2: 199, priority: 1, joins: [1]}
      - {x1: 100, y1: 100, x2: 199, y2: 199, priority: 2, joins: [0]}
    box2box:
      - [-1, 1]
      - [0, -1]
`

const testCharacters = `
characters:
  - id: 0
    name: hero
    location: 1
    box: 0
    x: 40
    y: 150
    walk_speed: 4
    sheet: hero.act
    scopes:
      - {id: 0, min: 0, max: 1}
      - {id: 1, min: 0, max: 1}
      - {id: 2, min: 0, max: 1}
      - {id: 3, min: 0, max: 1}
      - {id: 4, min: 0, max: 0}
      - {id: 5, min: 0, max: 0}
      - {id: 6, min: 0, max: 0}
      - {id: 7, min: 0, max: 0}
cursor:
  sheet: mouse.act
  scopes:
    - {id: 0, min: 0, max: 1}
`

const testHook = `
function on_enter_location(ctx)
end
`

// writeGame lays out a minimal game directory and returns its config path.
func writeGame(t *testing.T, lead int) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string][]byte{
		"locations.yaml":         []byte(testLocations),
		"characters.yaml":        []byte(testCharacters),
		"scripts/world/hook.lua": []byte(testHook),
		"act/hero.act":           spritetest.Build(true, spritetest.Solid(6, 10, 3), spritetest.Solid(6, 10, 4)),
		"act/mouse.act":          spritetest.Build(false, spritetest.Solid(3, 3, 9), spritetest.Solid(3, 3, 8)),
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, body, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfg := `
[engine]
tick_rate = "1ms"
lead_character = ` + strconv.Itoa(lead) + `

[screen]
width = 200
height = 220
mask_height = 200

[data]
locations = "` + filepath.Join(dir, "locations.yaml") + `"
characters = "` + filepath.Join(dir, "characters.yaml") + `"
sheets_dir = "` + filepath.Join(dir, "act") + `"
masks_dir = "` + filepath.Join(dir, "mask") + `"

[scripting]
dir = "` + filepath.Join(dir, "scripts") + `"

[logging]
level = "warn"
`
	path := filepath.Join(dir, "engine.toml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunHeadlessWritesSnapshot(t *testing.T) {
	cfgPath := writeGame(t, 0)
	snap := filepath.Join(t.TempDir(), "frame.png")

	if err := run(context.Background(), cfgPath, 5, snap); err != nil {
		t.Fatalf("run: %v", err)
	}
	f, err := os.Open(snap)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 220 {
		t.Errorf("snapshot bounds = %v", b)
	}
}

func TestRunUnknownLead(t *testing.T) {
	cfgPath := writeGame(t, 7)
	if err := run(context.Background(), cfgPath, 1, ""); err == nil {
		t.Fatal("run accepted a lead character that does not exist")
	}
}

func TestRunRejectsBadPlacement(t *testing.T) {
	cases := []struct {
		name, from, to string
	}{
		{"unknown location", "    location: 1\n    box: 0\n", "    location: 9\n    box: 0\n"},
		{"box out of range", "    location: 1\n    box: 0\n", "    location: 1\n    box: 5\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfgPath := writeGame(t, 0)
			chars := filepath.Join(filepath.Dir(cfgPath), "characters.yaml")
			body := strings.Replace(testCharacters, tc.from, tc.to, 1)
			if body == testCharacters {
				t.Fatal("fixture edit did not apply")
			}
			if err := os.WriteFile(chars, []byte(body), 0o644); err != nil {
				t.Fatal(err)
			}
			if err := run(context.Background(), cfgPath, 1, ""); err == nil {
				t.Fatal("run accepted a character placed outside the navigation data")
			}
		})
	}
}

func TestDescribeRoute(t *testing.T) {
	cfgPath := writeGame(t, 0)
	if err := describeRoute(cfgPath, []string{"1", "0", "1"}); err != nil {
		t.Errorf("describeRoute: %v", err)
	}
	if err := describeRoute(cfgPath, []string{"1", "0", "5"}); err == nil {
		t.Error("box out of range accepted")
	}
	if err := describeRoute(cfgPath, []string{"9", "0", "0"}); err == nil {
		t.Error("unknown location accepted")
	}
	if err := describeRoute(cfgPath, []string{"x", "0", "0"}); err == nil {
		t.Error("non-numeric location accepted")
	}
}

func TestDescribeSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.act")
	raw := spritetest.Build(false, spritetest.Solid(2, 2, 1), spritetest.Image{})
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := describeSheet(path); err != nil {
		t.Errorf("describeSheet: %v", err)
	}
	if err := describeSheet(filepath.Join(t.TempDir(), "missing.act")); err == nil {
		t.Error("missing sheet accepted")
	}
}
