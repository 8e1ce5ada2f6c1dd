package entity

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a swap request. Persisted verbatim in
// swap_requests.status.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

// A request is answered exactly once: the only legal edges are
// PENDING→ACCEPTED and PENDING→REJECTED. Both outcomes are terminal.
var allowedTransitions = map[Status][]Status{
	StatusPending: {StatusAccepted, StatusRejected},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

func CanTransition(from, to Status) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// SwapRequest is a proposal to exchange the time windows of two slots
// owned by different users. Slot ownership is captured at creation time
// and never re-validated; slots do not change owner.
type SwapRequest struct {
	ID          uuid.UUID `db:"id" json:"id"`
	RequesterID uuid.UUID `db:"requester_id" json:"requester_id"`
	ReceiverID  uuid.UUID `db:"receiver_id" json:"receiver_id"`
	MySlotID    uuid.UUID `db:"my_slot_id" json:"my_slot_id"`
	TheirSlotID uuid.UUID `db:"their_slot_id" json:"their_slot_id"`
	Status      Status    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// EnrichedRequest is a display row for the requests page: the counterpart
// user's name and both slot titles joined in.
type EnrichedRequest struct {
	ID               uuid.UUID `db:"id" json:"id"`
	CounterpartName  string    `db:"counterpart_name" json:"counterpart_name"`
	OfferedSlotTitle string    `db:"offered_slot_title" json:"offered_slot_title"`
	WantedSlotTitle  string    `db:"wanted_slot_title" json:"wanted_slot_title"`
	Status           Status    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
