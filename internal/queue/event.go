// Package queue defines the message payloads exchanged over the broker
// and the background consumer that journals them.
package queue

// PartySeatedEvent is published whenever a party is seated: immediately
// on arrival or later when a departure promotes it off the waitlist.
// It carries enough for downstream consumers (journal, notifications,
// analytics) without querying the service.
type PartySeatedEvent struct {
	PartyID    string `json:"party_id"`
	PartySize  int    `json:"party_size"`
	TableID    uint64 `json:"table_id"`
	TableSeats int    `json:"table_seats"`
	Promoted   bool   `json:"promoted"` // true when seated from the waitlist
	SeatedAt   string `json:"seated_at"`
}

// PartyLeftEvent is published when a seated party leaves and its table
// is freed.
type PartyLeftEvent struct {
	PartyID string `json:"party_id"`
	TableID uint64 `json:"table_id"`
	LeftAt  string `json:"left_at"`
}
