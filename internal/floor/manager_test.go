package floor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ladder builds one table of every size from 1 up to n seats.
func ladder(n int) []*Table {
	tables := make([]*Table, 0, n)
	for seats := 1; seats <= n; seats++ {
		tables = append(tables, &Table{ID: uint64(seats), Seats: seats})
	}
	return tables
}

func group(id string, size int) *Group {
	return &Group{ID: id, Size: size}
}

// checkInvariants asserts the structural invariants that must hold after
// any sequence of operations.
func checkInvariants(t *testing.T, m *Manager) {
	t.Helper()

	seatings := m.Seatings()
	// Every table is available XOR occupied.
	assert.Equal(t, m.TableCount(), m.FreeCount()+len(seatings))
	seen := map[uint64]bool{}
	for _, ft := range m.FreeTables() {
		seen[ft.ID] = true
	}
	for _, s := range seatings {
		assert.False(t, seen[s.Table.ID], "table %d both free and occupied", s.Table.ID)
		// Every seated group fits its table.
		assert.LessOrEqual(t, s.Group.Size, s.Table.Seats)
	}
	// No waiting group is also seated.
	seated := map[string]bool{}
	for _, s := range seatings {
		seated[s.Group.ID] = true
	}
	for _, g := range m.Waiting() {
		assert.False(t, seated[g.ID], "group %s both seated and waiting", g.ID)
	}
}

func TestArrivesSeatsExactFit(t *testing.T) {
	m, err := NewManager(ladder(6))
	require.NoError(t, err)

	for size := 1; size <= 6; size++ {
		g := group(fmt.Sprintf("g%d", size), size)
		require.NoError(t, m.Arrives(g))
		tab, ok := m.Locate(g)
		require.True(t, ok)
		assert.Equal(t, size, tab.Seats)
	}
	assert.Empty(t, m.Waiting())
	checkInvariants(t, m)
}

func TestWaitlistPromotionOnLeave(t *testing.T) {
	m, err := NewManager([]*Table{{ID: 1, Seats: 1}})
	require.NoError(t, err)

	first := group("first", 1)
	require.NoError(t, m.Arrives(first))
	_, ok := m.Locate(first)
	require.True(t, ok)

	second := group("second", 1)
	require.NoError(t, m.Arrives(second))
	_, ok = m.Locate(second)
	assert.False(t, ok, "second group must queue while the table is taken")

	require.NoError(t, m.Leaves(first))
	_, ok = m.Locate(first)
	assert.False(t, ok)
	tab, ok := m.Locate(second)
	require.True(t, ok, "freed table must be handed over within the same call")
	assert.Equal(t, 1, tab.Seats)
	checkInvariants(t, m)
}

func TestInterchangingSizes(t *testing.T) {
	m, err := NewManager(ladder(6))
	require.NoError(t, err)

	groups := map[int]*Group{}
	for size := 1; size <= 6; size++ {
		g := group(fmt.Sprintf("g%d", size), size)
		groups[size] = g
		require.NoError(t, m.Arrives(g))
		tab, ok := m.Locate(g)
		require.True(t, ok)
		assert.Equal(t, size, tab.Seats)
	}

	// Floor is full: both repeats queue in arrival order, size 6 first.
	secondSix := group("g6b", 6)
	require.NoError(t, m.Arrives(secondSix))
	_, ok := m.Locate(secondSix)
	assert.False(t, ok)

	secondFive := group("g5b", 5)
	require.NoError(t, m.Arrives(secondFive))
	_, ok = m.Locate(secondFive)
	assert.False(t, ok)

	// The five-seater frees up.  The earlier-queued size-6 group is
	// scanned first but does not fit, so the size-5 group takes it.
	require.NoError(t, m.Leaves(groups[5]))
	_, ok = m.Locate(secondSix)
	assert.False(t, ok)
	tab, ok := m.Locate(secondFive)
	require.True(t, ok)
	assert.Equal(t, 5, tab.Seats)

	require.NoError(t, m.Leaves(groups[6]))
	tab, ok = m.Locate(secondSix)
	require.True(t, ok)
	assert.Equal(t, 6, tab.Seats)

	// A size-3 group waits until the five-seater frees again, then gets
	// seated there: the scan runs upward from the group's own size.
	secondThree := group("g3b", 3)
	require.NoError(t, m.Arrives(secondThree))
	_, ok = m.Locate(secondThree)
	assert.False(t, ok)
	require.NoError(t, m.Leaves(secondFive))
	tab, ok = m.Locate(secondThree)
	require.True(t, ok)
	assert.Equal(t, 5, tab.Seats)
	checkInvariants(t, m)
}

func TestWaitlistKeepsArrivalOrder(t *testing.T) {
	m, err := NewManager([]*Table{{ID: 1, Seats: 2}, {ID: 2, Seats: 4}})
	require.NoError(t, err)

	small := group("small", 2)
	big := group("big", 4)
	require.NoError(t, m.Arrives(small))
	require.NoError(t, m.Arrives(big))

	// Neither waiting group fits yet; they queue in arrival order.
	three := group("three", 3)
	two := group("two", 2)
	require.NoError(t, m.Arrives(three))
	require.NoError(t, m.Arrives(two))
	require.Equal(t, []*Group{three, two}, m.Waiting())

	// The two-seater frees.  The size-3 group is evaluated first in
	// arrival order, does not fit, and keeps its place; the size-2 group
	// behind it is seated.
	require.NoError(t, m.Leaves(small))
	_, ok := m.Locate(three)
	assert.False(t, ok)
	tab, ok := m.Locate(two)
	require.True(t, ok)
	assert.Equal(t, 2, tab.Seats)
	require.Equal(t, []*Group{three}, m.Waiting())

	// The four-seater frees and the remaining group is promoted.
	require.NoError(t, m.Leaves(big))
	tab, ok = m.Locate(three)
	require.True(t, ok)
	assert.Equal(t, 4, tab.Seats)
	assert.Empty(t, m.Waiting())
	checkInvariants(t, m)
}

func TestArrivesRejectsTrackedGroup(t *testing.T) {
	m, err := NewManager([]*Table{{ID: 1, Seats: 2}})
	require.NoError(t, err)

	seatedG := group("seated", 2)
	require.NoError(t, m.Arrives(seatedG))
	assert.ErrorIs(t, m.Arrives(seatedG), ErrAlreadyTracked)

	waitingG := group("waiting", 2)
	require.NoError(t, m.Arrives(waitingG))
	assert.ErrorIs(t, m.Arrives(waitingG), ErrAlreadyTracked)
}

func TestLeavesRequiresSeatedGroup(t *testing.T) {
	m, err := NewManager([]*Table{{ID: 1, Seats: 1}})
	require.NoError(t, err)

	require.NoError(t, m.Arrives(group("seated", 1)))

	// Still waiting: leaving is a contract violation, not a no-op.
	waitingG := group("waiting", 1)
	require.NoError(t, m.Arrives(waitingG))
	assert.ErrorIs(t, m.Leaves(waitingG), ErrNotSeated)
	require.Equal(t, []*Group{waitingG}, m.Waiting())

	// Never arrived at all.
	assert.ErrorIs(t, m.Leaves(group("stranger", 1)), ErrNotSeated)
}

func TestOversizedGroupWaitsIndefinitely(t *testing.T) {
	m, err := NewManager([]*Table{{ID: 1, Seats: 4}})
	require.NoError(t, err)

	huge := group("huge", 6)
	require.NoError(t, m.Arrives(huge))
	require.Equal(t, []*Group{huge}, m.Waiting())

	// Tables churn underneath; the oversized group is never seated and
	// never dropped.
	for i := 0; i < 3; i++ {
		g := group(fmt.Sprintf("churn%d", i), 4)
		require.NoError(t, m.Arrives(g))
		require.NoError(t, m.Leaves(g))
	}
	_, ok := m.Locate(huge)
	assert.False(t, ok)
	require.Equal(t, []*Group{huge}, m.Waiting())
	checkInvariants(t, m)
}

func TestMaxSeatsIgnoresOccupancy(t *testing.T) {
	m, err := NewManager([]*Table{{ID: 1, Seats: 2}, {ID: 2, Seats: 6}})
	require.NoError(t, err)
	assert.Equal(t, 6, m.MaxSeats())

	// Occupying the largest table must not shrink the reported size; the
	// floor itself has not changed.
	require.NoError(t, m.Arrives(group("big", 6)))
	require.NoError(t, m.Arrives(group("small", 2)))
	assert.Equal(t, 0, m.FreeCount())
	assert.Equal(t, 6, m.MaxSeats())
}

func TestNewManagerValidation(t *testing.T) {
	_, err := NewManager([]*Table{{ID: 7, Seats: 2}, {ID: 7, Seats: 4}})
	assert.ErrorIs(t, err, ErrDuplicateTable)

	_, err = NewManager([]*Table{{ID: 1, Seats: -1}})
	assert.ErrorIs(t, err, ErrBadCapacity)
}

func TestTableStaysWithItsGroup(t *testing.T) {
	m, err := NewManager([]*Table{{ID: 1, Seats: 2}, {ID: 2, Seats: 2}})
	require.NoError(t, err)

	a := group("a", 2)
	require.NoError(t, m.Arrives(a))
	tableA, ok := m.Locate(a)
	require.True(t, ok)

	// Subsequent arrivals and departures never touch an occupied table.
	b := group("b", 1)
	require.NoError(t, m.Arrives(b))
	tableB, ok := m.Locate(b)
	require.True(t, ok)
	require.NotEqual(t, tableA.ID, tableB.ID)

	c := group("c", 2)
	require.NoError(t, m.Arrives(c))
	require.NoError(t, m.Leaves(b))
	got, ok := m.Locate(a)
	require.True(t, ok)
	assert.Equal(t, tableA.ID, got.ID)
	checkInvariants(t, m)
}

func TestOnSeatedFiresForPromotions(t *testing.T) {
	m, err := NewManager([]*Table{{ID: 1, Seats: 2}})
	require.NoError(t, err)

	var events []string
	m.OnSeated = func(g *Group, tab *Table) {
		events = append(events, fmt.Sprintf("%s@%d", g.ID, tab.ID))
	}

	first := group("first", 2)
	require.NoError(t, m.Arrives(first))
	require.NoError(t, m.Arrives(group("second", 2)))
	require.NoError(t, m.Leaves(first))

	assert.Equal(t, []string{"first@1", "second@1"}, events)
}
