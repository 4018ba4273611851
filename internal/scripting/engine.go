package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM holding the game's policy hooks.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads the scripts under scriptsDir:
// top-level files first, then the core and world subdirectories. Missing
// directories are skipped, every hook is optional.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	for _, dir := range []string{
		scriptsDir,
		filepath.Join(scriptsDir, "core"),
		filepath.Join(scriptsDir, "world"),
	} {
		if err := e.loadDir(dir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

// LoadString runs a chunk of Lua source, mainly for tests and the console.
func (e *Engine) LoadString(src string) error {
	return e.vm.DoString(src)
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// HousingProblem asks housing_problem(ctx) where to send a character that
// overflows a full location. ctx = {location, char_id, count}; the hook
// returns {location = n, box = n} or nil to keep the engine default.
func (e *Engine) HousingProblem(loc, charID, count int) (destLoc, destBox int, ok bool) {
	fn := e.vm.GetGlobal("housing_problem")
	if fn == lua.LNil {
		return 0, 0, false
	}

	t := e.vm.NewTable()
	t.RawSetString("location", lua.LNumber(loc))
	t.RawSetString("char_id", lua.LNumber(charID))
	t.RawSetString("count", lua.LNumber(count))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua housing_problem error", zap.Error(err))
		return 0, 0, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return 0, 0, false
	}
	return lInt(rt, "location"), lInt(rt, "box"), true
}

// OnEnterLocation notifies on_enter_location(ctx) that a character arrived.
// ctx = {char_id, from, to, box}.
func (e *Engine) OnEnterLocation(charID, from, to, box int) {
	fn := e.vm.GetGlobal("on_enter_location")
	if fn == lua.LNil {
		return
	}

	t := e.vm.NewTable()
	t.RawSetString("char_id", lua.LNumber(charID))
	t.RawSetString("from", lua.LNumber(from))
	t.RawSetString("to", lua.LNumber(to))
	t.RawSetString("box", lua.LNumber(box))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua on_enter_location error", zap.Error(err))
	}
}

// ScopeDuration returns the ticks per frame for a character scope from
// scope_duration(char_id, scope), or def when the hook is absent or returns
// a non-positive value.
func (e *Engine) ScopeDuration(charID, scope, def int) int {
	if e.vm.GetGlobal("scope_duration") == lua.LNil {
		return def
	}
	if d := e.callIntFunc("scope_duration", charID, scope); d > 0 {
		return d
	}
	return def
}

// lInt reads an integer field from a Lua table.
func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

// callIntFunc calls a Lua function with int args and returns an int result.
func (e *Engine) callIntFunc(name string, args ...int) int {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Error("lua function not found", zap.String("name", name))
		return 0
	}

	lArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		lArgs[i] = lua.LNumber(a)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lArgs...); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return 0
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return int(lua.LVAsNumber(result))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
