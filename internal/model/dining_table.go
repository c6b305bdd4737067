package model

import "time"

// DiningTable is the persisted description of one physical table on the
// restaurant floor.  The inventory is read once at startup to construct
// the allocation engine; rows added or deactivated afterwards only take
// effect on the next restart, keeping the engine's table set fixed for
// its whole lifetime.
//
// Fields:
//  ID        – primary key identifier; also the engine table ID.
//  Label     – human-readable name shown to staff (e.g. "window-2").
//  Seats     – fixed capacity of the table.
//  IsActive  – inactive tables are excluded from the floor plan.
//  CreatedAt – creation timestamp.
type DiningTable struct {
	ID        uint64    // dining_tables.id
	Label     string    // dining_tables.label
	Seats     int       // dining_tables.seats
	IsActive  bool      // dining_tables.is_active
	CreatedAt time.Time // dining_tables.created_at
}
