package entity

import (
	"time"

	"github.com/google/uuid"
)

// Status is the availability state of an event slot. Values are persisted
// verbatim in the events.status column, so renaming one is a schema change.
type Status string

const (
	StatusBusy        Status = "BUSY"
	StatusSwappable   Status = "SWAPPABLE"
	StatusSwapPending Status = "SWAP_PENDING"
)

// allowedTransitions is the closed transition table for slot status.
// BUSY→SWAPPABLE is owner-driven; every other edge belongs to the swap
// coordinator.
var allowedTransitions = map[Status][]Status{
	StatusBusy:        {StatusSwappable},
	StatusSwappable:   {StatusSwapPending},
	StatusSwapPending: {StatusSwappable, StatusBusy},
}

func (s Status) Valid() bool {
	switch s {
	case StatusBusy, StatusSwappable, StatusSwapPending:
		return true
	}
	return false
}

// CanTransition reports whether from→to is a listed edge. Anything not in
// the table is rejected, including self-transitions.
func CanTransition(from, to Status) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Event is one bookable time slot owned by a single user.
type Event struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	Status    Status    `db:"status" json:"status"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
}

// SwappableSpot is a marketplace row: a swappable slot joined with its
// owner's display name.
type SwappableSpot struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	Status    Status    `db:"status" json:"status"`
	OwnerName string    `db:"owner_name" json:"owner_name"`
}
