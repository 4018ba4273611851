package anim

import (
	"errors"
	"fmt"

	"github.com/dcbact/engine/internal/core/arena"
	"github.com/dcbact/engine/internal/sprite"
	"go.uber.org/zap"
)

var ErrStaleHandle = errors.New("anim: stale actor handle")

// Handle is a generation-checked reference to an actor owned by a Manager.
type Handle = arena.Handle

// Manager is the sole owner of loaded actors. Characters and the compositor
// only ever hold Handles. Unload is deferred to the end of the tick so an
// actor never disappears halfway through a compositing pass.
type Manager struct {
	actors  *arena.Arena[Actor]
	pending []Handle
	log     *zap.Logger

	onUnload func(Handle, *Actor)
}

func NewManager(log *zap.Logger) *Manager {
	return &Manager{
		actors:  arena.New[Actor](64),
		pending: make([]Handle, 0, 8),
		log:     log,
	}
}

// OnUnload registers a callback run for every actor released by Flush.
func (m *Manager) OnUnload(fn func(Handle, *Actor)) {
	m.onUnload = fn
}

// Load creates an actor for sheet with scopeSlots scope slots.
func (m *Manager) Load(sheet *sprite.Sheet, scopeSlots int) (Handle, *Actor) {
	a := NewActor(sheet, scopeSlots)
	h := m.actors.Insert(a)
	m.log.Debug("actor loaded",
		zap.Uint32("slot", h.Index()),
		zap.Uint32("gen", h.Generation()),
		zap.String("sheet", sheet.Name))
	return h, a
}

// Get resolves a handle.
func (m *Manager) Get(h Handle) (*Actor, error) {
	a, ok := m.actors.Get(h)
	if !ok {
		return nil, fmt.Errorf("%w: slot %d gen %d", ErrStaleHandle, h.Index(), h.Generation())
	}
	return a, nil
}

// MustGet resolves a handle and panics when it is stale; holding a stale
// handle is a logic error.
func (m *Manager) MustGet(h Handle) *Actor {
	a, err := m.Get(h)
	if err != nil {
		panic(err)
	}
	return a
}

// Unload hides the actor now and releases its slot at the next Flush.
func (m *Manager) Unload(h Handle) {
	a, ok := m.actors.Get(h)
	if !ok {
		return
	}
	a.Visible = false
	m.pending = append(m.pending, h)
}

// Flush releases every actor queued by Unload.
func (m *Manager) Flush() {
	for _, h := range m.pending {
		a, ok := m.actors.Get(h)
		if !ok {
			continue
		}
		m.actors.Free(h)
		m.log.Debug("actor unloaded", zap.Uint32("slot", h.Index()), zap.String("sheet", a.Sheet.Name))
		if m.onUnload != nil {
			m.onUnload(h, a)
		}
	}
	m.pending = m.pending[:0]
}

// Each visits live actors in slot (load) order.
func (m *Manager) Each(fn func(Handle, *Actor)) {
	m.actors.Each(fn)
}

// Len returns the number of live actors.
func (m *Manager) Len() int { return m.actors.Len() }
