package wm

import (
	"fmt"
	"strconv"
	"strings"
)

// Handle identifies a window across the IPC boundary. The generation makes
// a handle go stale once its slot is reused.
type Handle struct {
	Index      uint32
	Generation uint32
}

func (h Handle) String() string {
	return fmt.Sprintf("%d.%d", h.Index, h.Generation)
}

// IsZero reports whether h was never issued.
func (h Handle) IsZero() bool { return h.Generation == 0 }

// ParseHandle parses the "<index>.<generation>" form.
func ParseHandle(s string) (Handle, error) {
	idx, gen, ok := strings.Cut(s, ".")
	if !ok {
		return Handle{}, fmt.Errorf("%w: %q", ErrNoSuchWindow, s)
	}
	i, err := strconv.ParseUint(idx, 10, 32)
	if err != nil {
		return Handle{}, fmt.Errorf("%w: %q", ErrNoSuchWindow, s)
	}
	g, err := strconv.ParseUint(gen, 10, 32)
	if err != nil || g == 0 {
		return Handle{}, fmt.Errorf("%w: %q", ErrNoSuchWindow, s)
	}
	return Handle{Index: uint32(i), Generation: uint32(g)}, nil
}

type slot struct {
	generation uint32
	window     *Window
}

// arena owns every window record. Freed slots are reused with a bumped
// generation.
type arena struct {
	slots []slot
	free  []uint32
}

func (a *arena) insert(w *Window) Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot{})
	}

	s := &a.slots[idx]
	s.generation++
	s.window = w
	return Handle{Index: idx, Generation: s.generation}
}

func (a *arena) get(h Handle) (*Window, bool) {
	if int(h.Index) >= len(a.slots) {
		return nil, false
	}
	s := a.slots[h.Index]
	if s.window == nil || s.generation != h.Generation {
		return nil, false
	}
	return s.window, true
}

func (a *arena) remove(h Handle) bool {
	if _, ok := a.get(h); !ok {
		return false
	}
	a.slots[h.Index].window = nil
	a.free = append(a.free, h.Index)
	return true
}

func (a *arena) len() int {
	return len(a.slots) - len(a.free)
}
