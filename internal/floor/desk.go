package floor

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Desk errors surfaced to the transport layer.
var (
	// ErrUnknownParty is returned when no tracked party has the given id.
	ErrUnknownParty = errors.New("unknown party")
	// ErrInvalidPartySize is returned for party sizes below one.
	ErrInvalidPartySize = errors.New("party size must be at least one")
)

// Desk is the host-stand front of the engine.  The Manager itself is
// single-threaded; Desk serializes every operation behind one mutex, as
// Arrives and Leaves both touch the full engine state (a departure can
// cascade into seating waiting parties from the same buckets an arrival
// reads).  Desk also owns the party registry: it mints the opaque group
// IDs handed back to clients and keeps id -> group for later lookups.
type Desk struct {
	mu      sync.Mutex
	mgr     *Manager
	parties map[string]*Group
	pending []Seating // promotions collected while the mutex is held
}

// PartyStatus describes one party as seen by API clients.
type PartyStatus struct {
	PartyID string
	Size    int
	Seated  bool
	Table   *Table // nil while waiting
}

// TableStatus describes one table in a floor snapshot.
type TableStatus struct {
	Table     *Table
	PartyID   string // empty when the table is free
	PartySize int    // zero when the table is free
}

// Snapshot is a point-in-time view of the whole floor.
type Snapshot struct {
	Tables   []TableStatus
	Waitlist []PartyStatus
	Free     int
}

// NewDesk wraps an engine.  The desk takes over the engine's OnSeated
// hook to observe waitlist promotions; callers must not set it
// themselves afterwards.
func NewDesk(mgr *Manager) *Desk {
	d := &Desk{mgr: mgr, parties: make(map[string]*Group)}
	mgr.OnSeated = func(g *Group, t *Table) {
		d.pending = append(d.pending, Seating{Group: g, Table: t})
	}
	return d
}

// Arrive registers a new party of the given size and returns its status:
// seated with a table, or waiting.  The party id in the result is the
// handle for Leave and Locate.
func (d *Desk) Arrive(size int) (PartyStatus, error) {
	if size < 1 {
		return PartyStatus{}, ErrInvalidPartySize
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	g := &Group{ID: uuid.NewString(), Size: size}
	if err := d.mgr.Arrives(g); err != nil {
		return PartyStatus{}, err
	}
	d.parties[g.ID] = g
	d.pending = nil
	return d.statusLocked(g), nil
}

// Leave releases the table of a seated party.  It returns the seating
// the party vacated and, in arrival order, any waiting parties that were
// promoted onto freed tables during the same call.  Leaving while still
// on the waitlist is a contract violation and returns ErrNotSeated.
func (d *Desk) Leave(partyID string) (vacated Seating, promoted []Seating, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	g, ok := d.parties[partyID]
	if !ok {
		return Seating{}, nil, ErrUnknownParty
	}
	t, seated := d.mgr.Locate(g)
	if !seated {
		return Seating{}, nil, ErrNotSeated
	}
	d.pending = nil
	if err := d.mgr.Leaves(g); err != nil {
		return Seating{}, nil, err
	}
	delete(d.parties, partyID)
	return Seating{Group: g, Table: t}, d.pending, nil
}

// Locate reports the table a party occupies.  The bool is false for
// waiting, departed and unknown parties alike.
func (d *Desk) Locate(partyID string) (*Table, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	g, ok := d.parties[partyID]
	if !ok {
		return nil, false
	}
	return d.mgr.Locate(g)
}

// Waitlist returns the waiting parties in arrival order.
func (d *Desk) Waitlist() []PartyStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return lo.Map(d.mgr.Waiting(), func(g *Group, _ int) PartyStatus {
		return PartyStatus{PartyID: g.ID, Size: g.Size}
	})
}

// Floor returns a full snapshot: every table with its occupant (if any)
// plus the waitlist.  Tables are ordered by ID.
func (d *Desk) Floor() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	occupied := lo.Map(d.mgr.Seatings(), func(s Seating, _ int) TableStatus {
		return TableStatus{Table: s.Table, PartyID: s.Group.ID, PartySize: s.Group.Size}
	})
	free := lo.Map(d.mgr.FreeTables(), func(t *Table, _ int) TableStatus {
		return TableStatus{Table: t}
	})
	tables := append(occupied, free...)
	sort.Slice(tables, func(i, j int) bool { return tables[i].Table.ID < tables[j].Table.ID })

	return Snapshot{
		Tables: tables,
		Waitlist: lo.Map(d.mgr.Waiting(), func(g *Group, _ int) PartyStatus {
			return PartyStatus{PartyID: g.ID, Size: g.Size}
		}),
		Free: d.mgr.FreeCount(),
	}
}

func (d *Desk) statusLocked(g *Group) PartyStatus {
	st := PartyStatus{PartyID: g.ID, Size: g.Size}
	if t, ok := d.mgr.Locate(g); ok {
		st.Seated = true
		st.Table = t
	}
	return st
}
