package floor

import "fmt"

// Table is a physical table on the restaurant floor.  A table has a
// stable identity (ID) and a fixed number of seats.  Identity, not seat
// count, distinguishes tables: two four-seaters are different tables.
// Tables are immutable once constructed; the manager only reclassifies
// them between available and occupied.
//
// Fields:
//  ID    – stable identifier, unique within one floor plan.
//  Seats – fixed capacity of the table.
type Table struct {
	ID    uint64 // unique within the floor plan
	Seats int    // fixed capacity, never negative
}

// String renders the table for diagnostics and log lines.
func (t *Table) String() string {
	return fmt.Sprintf("Table(%d): %d seats", t.ID, t.Seats)
}

// Group is a party of customers asking for a table with at least Size
// seats.  Like Table, a Group is identified by its ID, never by its
// value: two parties of three are distinct.  Groups are immutable; the
// service layer assigns the opaque ID when the party arrives.
type Group struct {
	ID   string // opaque handle, unique among tracked groups
	Size int    // number of customers, never negative
}

// String renders the group for diagnostics and log lines.
func (g *Group) String() string {
	return fmt.Sprintf("Group(%s): %d customers", g.ID, g.Size)
}
