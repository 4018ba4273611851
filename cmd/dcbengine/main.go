package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dcbact/engine/internal/anim"
	"github.com/dcbact/engine/internal/config"
	"github.com/dcbact/engine/internal/core/event"
	coresys "github.com/dcbact/engine/internal/core/system"
	"github.com/dcbact/engine/internal/data"
	"github.com/dcbact/engine/internal/locomotion"
	"github.com/dcbact/engine/internal/nav"
	"github.com/dcbact/engine/internal/render"
	"github.com/dcbact/engine/internal/scripting"
	"github.com/dcbact/engine/internal/sprite"
	"github.com/dcbact/engine/internal/system"
	"github.com/dcbact/engine/internal/world"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "0.1.0"

func main() {
	app := &cli.Command{
		Name:    "dcbengine",
		Usage:   "point-and-click adventure engine core",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config/engine.toml",
				Usage:   "engine configuration file",
				Sources: cli.EnvVars("DCB_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the game loop headless",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "ticks", Usage: "stop after this many ticks (overrides engine.max_ticks)"},
					&cli.StringFlag{Name: "snapshot", Usage: "write the final frame as PNG to this file"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return run(ctx, cmd.String("config"), int(cmd.Int("ticks")), cmd.String("snapshot"))
				},
			},
			{
				Name:      "sheet",
				Usage:     "list the frames of a sprite sheet",
				ArgsUsage: "<file>",
				Action: func(_ context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return fmt.Errorf("sheet: expected one file, got %d", cmd.Args().Len())
					}
					return describeSheet(cmd.Args().First())
				},
			},
			{
				Name:      "route",
				Usage:     "print the box route between two points of a location",
				ArgsUsage: "<location> <from-box> <to-box>",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return describeRoute(cmd.String("config"), cmd.Args().Slice())
				},
			},
		},
		DefaultCommand: "run",
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(lead string, leadID int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            DCB Engine  v" + version + "             \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m       point-and-click adventure core      \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mLead:\033[0m %s \033[90m(id: %d)\033[0m\n\n", lead, leadID)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, value string) {
	dotsLen := 42 - len(label) - len(value)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), value)
}

func printCount(label string, count int) {
	printStat(label, humanize.Comma(int64(count)))
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main engine logic ─────────────────────────────────────────────

func run(ctx context.Context, cfgPath string, maxTicks int, snapshot string) error {
	// 1. Load config
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if maxTicks > 0 {
		cfg.Engine.MaxTicks = maxTicks
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Load static data
	locTable, err := data.LoadLocations(cfg.Data.Locations)
	if err != nil {
		return fmt.Errorf("load locations: %w", err)
	}
	charTable, err := data.LoadCharacters(cfg.Data.Characters)
	if err != nil {
		return fmt.Errorf("load characters: %w", err)
	}
	leadDef := charTable.Get(cfg.Engine.LeadCharacter)
	if leadDef == nil {
		return fmt.Errorf("lead character %d not in %s", cfg.Engine.LeadCharacter, cfg.Data.Characters)
	}

	printBanner(leadDef.Name, leadDef.ID)

	printSection("Data")
	graph := nav.NewGraph(locTable)
	printCount("Locations", locTable.Count())
	printCount("Walk boxes", locTable.BoxCount())
	printCount("Characters", charTable.Count())

	// 4. Lua scripting
	luaEngine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("Lua scripts loaded")
	fmt.Println()

	// 5. Actors, sprites and world state
	bus := event.NewBus()
	actors := anim.NewManager(log)
	actors.OnUnload(func(h anim.Handle, a *anim.Actor) {
		event.Emit(bus, event.ActorUnloaded{Handle: h, Sheet: a.Sheet.Name})
	})
	sheets := sprite.NewCache(cfg.Data.SheetsDir)

	worldState := world.NewState(cfg.Engine.LeadCharacter)
	worldState.Populate(charTable)

	ctrl := locomotion.NewController(&locomotion.Deps{
		Graph:   graph,
		World:   worldState,
		Actors:  actors,
		Sheets:  sheets,
		Bus:     bus,
		Housing: luaEngine,
		Timing:  luaEngine,
		Config:  cfg.Movement,
		Log:     log,
	})
	var settleErr error
	worldState.AllCharacters(func(ch *world.Character) {
		if settleErr != nil {
			return
		}
		if !graph.HasLocation(ch.Location) {
			settleErr = fmt.Errorf("character %d placed in unknown location %d", ch.ID, ch.Location)
			return
		}
		if n := graph.BoxCount(ch.Location); ch.Box < 0 || ch.Box >= n {
			settleErr = fmt.Errorf("character %d placed in box %d of location %d, which has %d boxes",
				ch.ID, ch.Box, ch.Location, n)
			return
		}
		ctrl.Settle(ch)
	})
	if settleErr != nil {
		return settleErr
	}

	// 6. Screen and scene
	screen := render.NewScreen(cfg.Screen.Width, cfg.Screen.Height, cfg.Screen.MaskHeight)
	screen.AuraColor = cfg.Screen.AuraColor
	screen.SetGreyRamp(cfg.Screen.GreyBase)

	scene := system.NewScene(screen, cfg, log)
	if err := scene.Enter(worldState.Lead().Location); err != nil {
		return fmt.Errorf("enter scene: %w", err)
	}

	handlers := &system.Handlers{World: worldState, Scene: scene, Hooks: luaEngine, Log: log}
	handlers.Subscribe(bus)

	// 7. Create systems and register with runner
	animSys := system.NewAnimationSystem(worldState, actors, screen, scene)
	if charTable.Cursor != nil {
		cursor, err := loadCursor(actors, sheets, charTable.Cursor, cfg)
		if err != nil {
			return fmt.Errorf("cursor: %w", err)
		}
		animSys.SetCursor(cursor)
	}

	counter := &render.Counter{}
	runner := coresys.NewRunner()
	runner.Register(system.NewEventSystem(bus))
	runner.Register(system.NewLocomotionSystem(worldState, ctrl))
	runner.Register(animSys)
	runner.Register(system.NewPresentSystem(screen, counter, log))
	runner.Register(system.NewCleanupSystem(actors))

	// 8. Start game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	ticker := time.NewTicker(cfg.Engine.TickRate)
	defer ticker.Stop()

	printSection("Ready")
	printReady(fmt.Sprintf("Screen %dx%d (mask rows: %d)", cfg.Screen.Width, cfg.Screen.Height, cfg.Screen.MaskHeight))
	printReady(fmt.Sprintf("Game loop started (tick: %s)", cfg.Engine.TickRate))
	fmt.Println()

	started := time.Now()
	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Engine.TickRate)
			if cfg.Engine.MaxTicks > 0 && runner.Ticks() >= uint64(cfg.Engine.MaxTicks) {
				return shutdown(log, screen, runner, counter, sheets, actors, started, snapshot, "tick limit")
			}
		case sig := <-shutdownCh:
			return shutdown(log, screen, runner, counter, sheets, actors, started, snapshot, sig.String())
		case <-ctx.Done():
			return shutdown(log, screen, runner, counter, sheets, actors, started, snapshot, "context done")
		}
	}
}

// loadCursor creates the mouse-cursor actor, centred on the screen and
// playing its first authored scope.
func loadCursor(actors *anim.Manager, sheets *sprite.Cache, def *data.CursorDef, cfg *config.Config) (*system.Cursor, error) {
	sheet, err := sheets.Get(def.Sheet)
	if err != nil {
		return nil, err
	}
	h, a := actors.Load(sheet, data.MaxActorScopes)
	if err := locomotion.DefineCursorScopes(a, def); err != nil {
		actors.Unload(h)
		return nil, err
	}
	if len(def.Scopes) > 0 {
		a.SetScope(def.Scopes[0].ID, cfg.Movement.DefaultAnimDuration)
	}
	return &system.Cursor{Actor: h, X: cfg.Screen.Width / 2, Y: cfg.Screen.Height / 2}, nil
}

func shutdown(log *zap.Logger, screen *render.Screen, runner *coresys.Runner, counter *render.Counter,
	sheets *sprite.Cache, actors *anim.Manager, started time.Time, snapshot, reason string) error {
	log.Info("engine stopping",
		zap.String("reason", reason),
		zap.Uint64("ticks", runner.Ticks()),
		zap.Int("frames", counter.Frames),
		zap.Int("rects", counter.Rects),
		zap.String("pixels", humanize.Comma(int64(counter.Pixels))),
		zap.Int("actors", actors.Len()),
		zap.Int("sheets", sheets.Count()),
		zap.String("sheet_bytes", humanize.Bytes(uint64(sheets.Bytes()))),
		zap.String("uptime", humanize.RelTime(started, time.Now(), "", "")),
	)
	if snapshot == "" {
		return nil
	}
	f, err := os.Create(snapshot)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := screen.Snapshot(f); err != nil {
		f.Close()
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	log.Info("snapshot written", zap.String("path", snapshot))
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
