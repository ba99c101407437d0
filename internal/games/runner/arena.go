package runner

// EntityID identifies one visual entity owned by the arena.
type EntityID uint64

// EntityKind tags what an arena handle belongs to.
type EntityKind uint8

const (
	KindTile EntityKind = iota
	KindStar
	KindParticle
)

func (k EntityKind) String() string {
	switch k {
	case KindTile:
		return "tile"
	case KindStar:
		return "star"
	case KindParticle:
		return "particle"
	default:
		return "unknown"
	}
}

// Arena is the resource-ownership table for tiles, stars and particles.
// Every entity gets exactly one handle; handles are released at most once
// and destroyed in batches by Flush.
type Arena struct {
	next      EntityID
	live      map[EntityID]EntityKind
	pending   []EntityID
	destroyed int
}

// NewArena creates an empty arena. IDs start at 1.
func NewArena() *Arena {
	return &Arena{live: make(map[EntityID]EntityKind, 128)}
}

// Acquire allocates a new handle of the given kind.
func (a *Arena) Acquire(kind EntityKind) EntityID {
	a.next++
	a.live[a.next] = kind
	return a.next
}

// Release schedules the handle for destruction. Releasing an unknown or
// already released ID is a no-op and reports false.
func (a *Arena) Release(id EntityID) bool {
	if _, ok := a.live[id]; !ok {
		return false
	}
	delete(a.live, id)
	a.pending = append(a.pending, id)
	return true
}

// Flush destroys every released handle and returns how many were destroyed.
func (a *Arena) Flush() int {
	n := len(a.pending)
	a.destroyed += n
	a.pending = a.pending[:0]
	return n
}

// Alive reports whether the handle has not been released.
func (a *Arena) Alive(id EntityID) bool {
	_, ok := a.live[id]
	return ok
}

// Live returns the number of unreleased handles.
func (a *Arena) Live() int {
	return len(a.live)
}

// LiveOf counts unreleased handles of one kind.
func (a *Arena) LiveOf(kind EntityKind) int {
	n := 0
	for _, k := range a.live {
		if k == kind {
			n++
		}
	}
	return n
}

// Pending returns the number of released handles awaiting Flush.
func (a *Arena) Pending() int {
	return len(a.pending)
}

// Destroyed returns the total number of handles destroyed so far.
func (a *Arena) Destroyed() int {
	return a.destroyed
}
