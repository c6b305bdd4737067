// Package floor implements the seating allocation engine for a single
// restaurant floor.  The engine assigns arriving customer groups to
// tables with enough seats, queues groups that cannot be seated, and
// re-seats waiting groups in arrival order as tables free up.
//
// Cost of the operations:
//  - Arrives: O(K) where K is the number of distinct table sizes on the
//    floor, a small constant independent of table or group count.
//  - Leaves: O(n) on the number of tables; the waitlist pass can seat at
//    most as many groups as there are tables.
//  - Locate: O(1) map lookup.
//
// Space is O(n + m): tables split between availability buckets and the
// occupied set (n), groups split between the seating map and the
// waitlist (m).
package floor

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for caller-contract violations.  Internal consistency
// violations (a table both free and occupied, a group seated at a table
// that is too small) are programming errors and panic instead.
var (
	// ErrDuplicateTable is returned by NewManager when two tables share an ID.
	ErrDuplicateTable = errors.New("duplicate table id")
	// ErrBadCapacity is returned by NewManager for a negative seat count.
	ErrBadCapacity = errors.New("table capacity must not be negative")
	// ErrAlreadyTracked is returned by Arrives for a group that is already
	// seated or waiting.
	ErrAlreadyTracked = errors.New("group already seated or waiting")
	// ErrNotSeated is returned by Leaves for a group that is not currently
	// seated.
	ErrNotSeated = errors.New("group is not seated")
)

// Seating pairs a seated group with the table it occupies.
type Seating struct {
	Group *Group
	Table *Table
}

// Manager is the allocation engine.  It is not safe for concurrent use;
// Desk wraps it with a mutex for the HTTP service.  Every table known to
// the manager is either in an availability bucket or in the occupied
// set, never both, never neither.  Every tracked group is either seated
// or waiting, never both.
type Manager struct {
	availableBySeats map[int]map[uint64]*Table // seat count -> free tables of that size
	used             map[uint64]*Table         // occupied tables by id
	seating          map[string]Seating        // seated groups by group id
	waiting          []*Group                  // waiting groups in arrival order
	waitingIdx       map[string]*Group         // waitlist membership by group id
	tableCount       int                       // fixed at construction
	maxSeats         int                       // largest table size on the floor

	// OnSeated, when set, is invoked every time a group is seated: on
	// immediate seating in Arrives and on waitlist promotion in Leaves.
	// The callback runs inside the operation, so it must not call back
	// into the manager.
	OnSeated func(*Group, *Table)
}

// NewManager builds an engine over a fixed set of tables.  The table set
// cannot change afterwards.  Duplicate IDs and negative capacities are
// rejected so that set semantics hold.
func NewManager(tables []*Table) (*Manager, error) {
	m := &Manager{
		availableBySeats: make(map[int]map[uint64]*Table),
		used:             make(map[uint64]*Table),
		seating:          make(map[string]Seating),
		waitingIdx:       make(map[string]*Group),
	}
	seen := make(map[uint64]struct{}, len(tables))
	for _, t := range tables {
		if t.Seats < 0 {
			return nil, fmt.Errorf("%w: table %d has %d seats", ErrBadCapacity, t.ID, t.Seats)
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateTable, t.ID)
		}
		seen[t.ID] = struct{}{}
		m.addTable(t)
	}
	return m, nil
}

func (m *Manager) addTable(t *Table) {
	bucket, ok := m.availableBySeats[t.Seats]
	if !ok {
		bucket = make(map[uint64]*Table)
		m.availableBySeats[t.Seats] = bucket
	}
	bucket[t.ID] = t
	m.tableCount++
	if t.Seats > m.maxSeats {
		m.maxSeats = t.Seats
	}
}

// Arrives registers a fresh group.  If any free table with enough seats
// exists, the group is seated at one immediately; otherwise it joins the
// end of the waitlist.  Which table of a given size is picked is
// deliberately unspecified: same-size free tables are interchangeable.
// A group whose size exceeds every table on the floor waits forever
// rather than being dropped.
func (m *Manager) Arrives(g *Group) error {
	if m.tracked(g) {
		return fmt.Errorf("%w: %s", ErrAlreadyTracked, g)
	}
	if t := m.freeTableFor(g.Size); t != nil {
		m.seatGroup(g, t)
		return nil
	}
	m.waiting = append(m.waiting, g)
	m.waitingIdx[g.ID] = g
	return nil
}

// Leaves releases the table of a seated group and immediately runs one
// waitlist pass, so a waiting group that fits the freed table is seated
// within the same call.  Calling Leaves for a group that is waiting,
// already gone, or never arrived is a caller error.
func (m *Manager) Leaves(g *Group) error {
	s, ok := m.seating[g.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotSeated, g)
	}
	delete(m.seating, g.ID)
	m.freeTable(s.Table)
	m.seatWaitingGroups()
	return nil
}

// Locate reports the table a group currently occupies.  The second
// return is false when the group is waiting, has left, or never arrived;
// those cases are indistinguishable to this query.
func (m *Manager) Locate(g *Group) (*Table, bool) {
	s, ok := m.seating[g.ID]
	if !ok {
		return nil, false
	}
	return s.Table, true
}

// freeTableFor scans the availability buckets from minSeats up to the
// largest size on the floor and returns a table from the first non-empty
// bucket, or nil when nothing fits.
func (m *Manager) freeTableFor(minSeats int) *Table {
	for seats := minSeats; seats <= m.maxSeats; seats++ {
		for _, t := range m.availableBySeats[seats] {
			return t
		}
	}
	return nil
}

// seatWaitingGroups walks the waitlist once, in arrival order, seating
// every group that fits a free table.  Seated groups are removed only
// after the full walk so the scan never skips or reorders the rest.
// The per-group free-table check keeps a pass bounded by the number of
// tables, not the number of waiting groups that can actually be seated.
func (m *Manager) seatWaitingGroups() {
	seated := make(map[string]struct{})
	for _, g := range m.waiting {
		if len(m.used) >= m.tableCount {
			continue
		}
		if t := m.freeTableFor(g.Size); t != nil {
			m.seatGroup(g, t)
			seated[g.ID] = struct{}{}
		}
	}
	if len(seated) == 0 {
		return
	}
	remaining := m.waiting[:0]
	for _, g := range m.waiting {
		if _, ok := seated[g.ID]; ok {
			delete(m.waitingIdx, g.ID)
			continue
		}
		remaining = append(remaining, g)
	}
	m.waiting = remaining
}

func (m *Manager) seatGroup(g *Group, t *Table) {
	if g.Size > t.Seats {
		panic(fmt.Sprintf("floor: cannot seat %d customers at %s", g.Size, t))
	}
	m.seating[g.ID] = Seating{Group: g, Table: t}
	m.useTable(t)
	if m.OnSeated != nil {
		m.OnSeated(g, t)
	}
}

func (m *Manager) useTable(t *Table) {
	if _, occupied := m.used[t.ID]; occupied {
		panic(fmt.Sprintf("floor: %s is already occupied", t))
	}
	delete(m.availableBySeats[t.Seats], t.ID)
	m.used[t.ID] = t
}

func (m *Manager) freeTable(t *Table) {
	if _, occupied := m.used[t.ID]; !occupied {
		panic(fmt.Sprintf("floor: %s is already free", t))
	}
	delete(m.used, t.ID)
	m.availableBySeats[t.Seats][t.ID] = t
}

func (m *Manager) tracked(g *Group) bool {
	if _, seatedNow := m.seating[g.ID]; seatedNow {
		return true
	}
	_, waitingNow := m.waitingIdx[g.ID]
	return waitingNow
}

// TableCount reports the fixed number of tables on the floor.
func (m *Manager) TableCount() int { return m.tableCount }

// FreeCount reports how many tables are currently unoccupied.
func (m *Manager) FreeCount() int { return m.tableCount - len(m.used) }

// MaxSeats reports the largest table size on the floor, occupied or
// not.  It is fixed at construction, like the table set itself.
func (m *Manager) MaxSeats() int { return m.maxSeats }

// Waiting returns the waitlist in arrival order.  The slice is a copy.
func (m *Manager) Waiting() []*Group {
	out := make([]*Group, len(m.waiting))
	copy(out, m.waiting)
	return out
}

// Seatings returns the current group/table assignments ordered by table
// ID, so snapshots render deterministically.
func (m *Manager) Seatings() []Seating {
	out := make([]Seating, 0, len(m.seating))
	for _, s := range m.seating {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Table.ID < out[j].Table.ID })
	return out
}

// FreeTables returns the currently available tables ordered by ID.
func (m *Manager) FreeTables() []*Table {
	out := make([]*Table, 0, m.FreeCount())
	for _, bucket := range m.availableBySeats {
		for _, t := range bucket {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
