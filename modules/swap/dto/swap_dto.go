package dto

import (
	"time"

	"github.com/google/uuid"

	eventDto "slotswap/modules/event/dto"
)

type ChooseSlotRequest struct {
	TheirSlotID uuid.UUID `json:"theirSlotId"`
}

type ChooseSlotResponse struct {
	TheirSlotID uuid.UUID                `json:"theirSlotId"`
	MySlots     []eventDto.EventResponse `json:"my_slots"`
}

type ProposeSwapRequest struct {
	MySlotID    uuid.UUID `json:"mySlotId"`
	TheirSlotID uuid.UUID `json:"theirSlotId"`
}

type SwapResponseRequest struct {
	Accepted bool `json:"accepted"`
}

type SwapRequestResponse struct {
	ID          uuid.UUID `json:"id"`
	RequesterID uuid.UUID `json:"requester_id"`
	ReceiverID  uuid.UUID `json:"receiver_id"`
	MySlotID    uuid.UUID `json:"my_slot_id"`
	TheirSlotID uuid.UUID `json:"their_slot_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type EnrichedRequestResponse struct {
	ID               uuid.UUID `json:"id"`
	CounterpartName  string    `json:"counterpart_name"`
	OfferedSlotTitle string    `json:"offered_slot_title"`
	WantedSlotTitle  string    `json:"wanted_slot_title"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

type RequestsPageResponse struct {
	Incoming []EnrichedRequestResponse `json:"incoming"`
	Outgoing []EnrichedRequestResponse `json:"outgoing"`
}
