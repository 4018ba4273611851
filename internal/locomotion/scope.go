package locomotion

import (
	"fmt"

	"github.com/dcbact/engine/internal/anim"
	"github.com/dcbact/engine/internal/data"
	"github.com/dcbact/engine/internal/world"
	"go.uber.org/zap"
)

// SetScopeX puts the character's actor on scope, loading the sheet of the
// character's current xtend first when another one (or none) is loaded.
// Nothing happens when that scope and xtend are already in use, so playback
// is not restarted.
func (c *Controller) SetScopeX(ch *world.Character, scope int) error {
	if ch.ScopeInUse == scope && ch.LoadedScopeXtend == ch.Xtend {
		if _, err := c.actors.Get(ch.Actor); err == nil {
			return nil
		}
	}
	a, err := c.actorFor(ch)
	if err != nil {
		return err
	}
	if !a.HasScope(scope) {
		return fmt.Errorf("character %d scope %d: %w", ch.ID, scope, anim.ErrBadScope)
	}
	a.SetScope(scope, c.duration(ch, scope))
	ch.ScopeInUse = scope
	return nil
}

// actorFor returns the character's actor for its current xtend, replacing a
// stale or differently dressed one.
func (c *Controller) actorFor(ch *world.Character) (*anim.Actor, error) {
	if ch.LoadedScopeXtend == ch.Xtend {
		if a, err := c.actors.Get(ch.Actor); err == nil {
			return a, nil
		}
	}

	name := ch.Def.SheetFor(ch.Xtend)
	sheet, err := c.sheets.Get(name)
	if err != nil {
		return nil, fmt.Errorf("character %d xtend %d: %w", ch.ID, ch.Xtend, err)
	}
	h, a := c.actors.Load(sheet, data.MaxCharacterScopes)
	if err := defineScopes(a, ch.Def.Scopes); err != nil {
		c.actors.Unload(h)
		return nil, fmt.Errorf("character %d sheet %s: %w", ch.ID, name, err)
	}

	if ch.Actor != 0 {
		c.actors.Unload(ch.Actor)
	}
	a.Effect = c.effect(ch)
	a.Visible = ch.Enabled
	a.X, a.Y = int(ch.ScreenX), int(ch.ScreenY)
	ch.Actor = h
	ch.LoadedScopeXtend = ch.Xtend
	ch.ScopeInUse = anim.NoScope

	c.log.Debug("character dressed",
		zap.Int("char", ch.ID), zap.Int("xtend", ch.Xtend), zap.String("sheet", name))
	return a, nil
}

// defineScopes registers authored scopes on an actor.
func defineScopes(a *anim.Actor, scopes []data.ScopeDef) error {
	for i := range scopes {
		s := &scopes[i]
		var err error
		if alias := s.AliasBytes(); alias != nil {
			err = a.DefineScopeAlias(s.ID, alias, len(alias))
		} else {
			err = a.DefineScope(s.ID, s.Min, s.Max, s.Start)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// DefineCursorScopes is defineScopes for the mouse-cursor actor.
func DefineCursorScopes(a *anim.Actor, def *data.CursorDef) error {
	return defineScopes(a, def.Scopes)
}

func (c *Controller) hasScope(ch *world.Character, scope int) bool {
	a, err := c.actorFor(ch)
	return err == nil && a.HasScope(scope)
}

// duration is the ticks per frame of a character scope: character tuning,
// then the config default, then the timing hook.
func (c *Controller) duration(ch *world.Character, scope int) int {
	d := ch.Def.Tuning.AnimDuration
	if d <= 0 {
		d = c.cfg.DefaultAnimDuration
	}
	if c.timing != nil {
		d = c.timing.ScopeDuration(ch.ID, scope, d)
	}
	return d
}

// effect is the compositing effect a character is drawn with right now: the
// teleport marker while it runs, else baseEffect.
func (c *Controller) effect(ch *world.Character) anim.Effect {
	if ch.TeleportTicks > 0 {
		return anim.EffectInvisible
	}
	return c.baseEffect(ch)
}

// baseEffect is the compositing effect a character is drawn with outside of
// transient effects.
func (c *Controller) baseEffect(ch *world.Character) anim.Effect {
	if ch.Def.Tuning.Aura {
		return anim.EffectAura
	}
	e, err := anim.ParseEffect(ch.Def.Tuning.Effect)
	if err != nil {
		c.log.Warn("bad character effect", zap.Int("char", ch.ID), zap.Error(err))
	}
	return e
}
