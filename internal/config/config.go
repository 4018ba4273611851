package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Engine    EngineConfig    `toml:"engine"`
	Screen    ScreenConfig    `toml:"screen"`
	Movement  MovementConfig  `toml:"movement"`
	Data      DataConfig      `toml:"data"`
	Scripting ScriptingConfig `toml:"scripting"`
	Logging   LoggingConfig   `toml:"logging"`
}

type EngineConfig struct {
	TickRate      time.Duration `toml:"tick_rate"`
	MaxTicks      int           `toml:"max_ticks"`      // 0 = run until signalled
	LeadCharacter int           `toml:"lead_character"` // player-controlled character id
}

type ScreenConfig struct {
	Width      int  `toml:"width"`
	Height     int  `toml:"height"`
	MaskHeight int  `toml:"mask_height"` // rows covered by room masks; below is the panel
	AuraColor  byte `toml:"aura_color"`
	GreyBase   byte `toml:"grey_base"` // first palette index of the grey ramp
}

type MovementConfig struct {
	MaxPerLocation      int `toml:"max_per_location"`
	FallbackX           int `toml:"fallback_x"` // sub-goal when no exit box leads toward the next hop
	FallbackY           int `toml:"fallback_y"`
	DefaultAnimDuration int `toml:"default_anim_duration"` // ticks per frame
}

type DataConfig struct {
	Locations  string `toml:"locations"`
	Characters string `toml:"characters"`
	SheetsDir  string `toml:"sheets_dir"`
	MasksDir   string `toml:"masks_dir"`
}

type ScriptingConfig struct {
	Dir string `toml:"dir"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Engine.TickRate <= 0 {
		return fmt.Errorf("engine.tick_rate must be positive, got %s", c.Engine.TickRate)
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("screen size %dx%d is invalid", c.Screen.Width, c.Screen.Height)
	}
	if c.Screen.MaskHeight < 0 || c.Screen.MaskHeight > c.Screen.Height {
		return fmt.Errorf("screen.mask_height %d outside 0..%d", c.Screen.MaskHeight, c.Screen.Height)
	}
	if c.Movement.MaxPerLocation <= 0 {
		return fmt.Errorf("movement.max_per_location must be positive")
	}
	return nil
}

// Defaults returns the configuration used for keys missing from the file.
func Defaults() *Config {
	return &Config{
		Engine: EngineConfig{
			TickRate:      time.Second / 24,
			LeadCharacter: 0,
		},
		Screen: ScreenConfig{
			Width:      640,
			Height:     480,
			MaskHeight: 400,
			AuraColor:  15,
			GreyBase:   224,
		},
		Movement: MovementConfig{
			MaxPerLocation:      5,
			FallbackX:           320,
			FallbackY:           300,
			DefaultAnimDuration: 2,
		},
		Data: DataConfig{
			Locations:  "data/yaml/locations.yaml",
			Characters: "data/yaml/characters.yaml",
			SheetsDir:  "data/act",
			MasksDir:   "data/mask",
		},
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
