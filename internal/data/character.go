package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scope slot limits.
const (
	MaxCharacterScopes = 18
	MaxActorScopes     = 8
)

// ScopeDef is an authored animation range. When Alias is set the playable
// range is 0..len(Alias)-1 and Min/Max/Start are ignored.
type ScopeDef struct {
	ID    int   `yaml:"id"`
	Min   int   `yaml:"min"`
	Max   int   `yaml:"max"`
	Start int   `yaml:"start"`
	Alias []int `yaml:"alias"`
}

// AliasBytes returns the alias table as raw frame indices.
func (s *ScopeDef) AliasBytes() []byte {
	if len(s.Alias) == 0 {
		return nil
	}
	b := make([]byte, len(s.Alias))
	for i, v := range s.Alias {
		b[i] = byte(v)
	}
	return b
}

// TuningDef carries per-character authorial tuning.
type TuningDef struct {
	AnimDuration int    `yaml:"anim_duration"` // ticks per frame, 0 = config default
	Aura         bool   `yaml:"aura"`          // draw with a selection border
	Effect       string `yaml:"effect"`        // "", "grey", "invisible"
}

// CharacterDef is the static stats record a Character is created from.
type CharacterDef struct {
	ID            int            `yaml:"id"`
	Name          string         `yaml:"name"`
	Location      int            `yaml:"location"`
	Box           int            `yaml:"box"`
	X             int            `yaml:"x"`
	Y             int            `yaml:"y"`
	WalkSpeed     int            `yaml:"walk_speed"`
	RelativeSpeed int            `yaml:"relative_speed"` // 1024 = normal, 0 = default
	Sheet         string         `yaml:"sheet"`          // xtend 0 sprite sheet
	Xtends        map[int]string `yaml:"xtends"`         // costume variant sheets
	Scopes        []ScopeDef     `yaml:"scopes"`
	Tuning        TuningDef      `yaml:"tuning"`
	Disabled      bool           `yaml:"disabled"`
}

// SheetFor returns the sheet file name of an xtend, falling back to Sheet.
func (c *CharacterDef) SheetFor(xtend int) string {
	if s, ok := c.Xtends[xtend]; ok && s != "" {
		return s
	}
	return c.Sheet
}

// CursorDef describes the mouse-cursor actor.
type CursorDef struct {
	Sheet  string     `yaml:"sheet"`
	Scopes []ScopeDef `yaml:"scopes"`
}

type characterFile struct {
	Characters []CharacterDef `yaml:"characters"`
	Cursor     *CursorDef     `yaml:"cursor"`
}

// CharacterTable holds character stats in authoring order, which is also the
// per-tick locomotion order.
type CharacterTable struct {
	chars  []CharacterDef
	byID   map[int]int
	Cursor *CursorDef
}

// LoadCharacters loads characters.yaml.
func LoadCharacters(path string) (*CharacterTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read characters %s: %w", path, err)
	}
	return ParseCharacters(raw)
}

// ParseCharacters decodes and validates a characters document.
func ParseCharacters(raw []byte) (*CharacterTable, error) {
	var f characterFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse characters: %w", err)
	}
	t := &CharacterTable{
		chars:  f.Characters,
		byID:   make(map[int]int, len(f.Characters)),
		Cursor: f.Cursor,
	}
	for i := range t.chars {
		c := &t.chars[i]
		if _, dup := t.byID[c.ID]; dup {
			return nil, fmt.Errorf("character %d defined twice", c.ID)
		}
		if c.RelativeSpeed == 0 {
			c.RelativeSpeed = 1024
		}
		if err := validateScopes(c.Scopes, MaxCharacterScopes); err != nil {
			return nil, fmt.Errorf("character %d (%s): %w", c.ID, c.Name, err)
		}
		t.byID[c.ID] = i
	}
	if f.Cursor != nil {
		if err := validateScopes(f.Cursor.Scopes, MaxActorScopes); err != nil {
			return nil, fmt.Errorf("cursor: %w", err)
		}
	}
	return t, nil
}

func validateScopes(scopes []ScopeDef, limit int) error {
	for _, s := range scopes {
		if s.ID < 0 || s.ID >= limit {
			return fmt.Errorf("scope id %d outside 0..%d", s.ID, limit-1)
		}
		for _, v := range s.Alias {
			if v < 0 || v > 255 {
				return fmt.Errorf("scope %d: alias frame %d not a byte", s.ID, v)
			}
		}
	}
	return nil
}

// All returns character stats in authoring order.
func (t *CharacterTable) All() []CharacterDef {
	return t.chars
}

// Get returns a character by id, or nil if not found.
func (t *CharacterTable) Get(id int) *CharacterDef {
	i, ok := t.byID[id]
	if !ok {
		return nil
	}
	return &t.chars[i]
}

// Count returns the number of loaded characters.
func (t *CharacterTable) Count() int {
	return len(t.chars)
}
