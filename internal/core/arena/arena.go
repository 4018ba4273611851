package arena

// Handle encodes a 32-bit slot index in the lower bits and a 32-bit generation
// in the upper bits. Generation increments on Free to invalidate stale handles.
// The zero Handle is never issued.
type Handle uint64

func newHandle(index uint32, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

func (h Handle) Index() uint32      { return uint32(h) }
func (h Handle) Generation() uint32 { return uint32(h >> 32) }
func (h Handle) IsZero() bool       { return h == 0 }

type slot[T any] struct {
	value      *T
	generation uint32
}

// Arena owns values of type T and hands out generational handles to them.
// Slots are reused through a free list; a reused slot carries a newer
// generation so handles to its previous occupant no longer resolve.
type Arena[T any] struct {
	slots    []slot[T]
	freeList []uint32
	live     int
}

func New[T any](capacity int) *Arena[T] {
	return &Arena[T]{
		// slot 0 is reserved so the zero Handle never resolves
		slots:    make([]slot[T], 1, capacity+1),
		freeList: make([]uint32, 0, capacity),
	}
}

// Insert stores v and returns its handle.
func (a *Arena[T]) Insert(v *T) Handle {
	a.live++
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		a.slots[idx].value = v
		return newHandle(idx, a.slots[idx].generation)
	}
	a.slots = append(a.slots, slot[T]{value: v, generation: 1})
	return newHandle(uint32(len(a.slots)-1), 1)
}

// Get resolves h. ok is false for zero, freed or reused handles.
func (a *Arena[T]) Get(h Handle) (*T, bool) {
	idx := h.Index()
	if idx == 0 || int(idx) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[idx]
	if s.value == nil || s.generation != h.Generation() {
		return nil, false
	}
	return s.value, true
}

// Alive reports whether h still refers to a stored value.
func (a *Arena[T]) Alive(h Handle) bool {
	_, ok := a.Get(h)
	return ok
}

// Free releases the slot behind h. Freeing a stale handle is a no-op and
// returns false.
func (a *Arena[T]) Free(h Handle) bool {
	if !a.Alive(h) {
		return false
	}
	idx := h.Index()
	a.slots[idx].value = nil
	a.slots[idx].generation++
	a.freeList = append(a.freeList, idx)
	a.live--
	return true
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int { return a.live }

// Each visits live values in slot order.
func (a *Arena[T]) Each(fn func(Handle, *T)) {
	for i := 1; i < len(a.slots); i++ {
		s := &a.slots[i]
		if s.value != nil {
			fn(newHandle(uint32(i), s.generation), s.value)
		}
	}
}
