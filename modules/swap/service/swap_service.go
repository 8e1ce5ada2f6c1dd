package service

import (
	"context"

	"slotswap/core/database"
	"slotswap/core/errors"
	"slotswap/core/logger"
	eventEntity "slotswap/modules/event/entity"
	eventRepo "slotswap/modules/event/repository"
	"slotswap/modules/swap/entity"
	"slotswap/modules/swap/repository"

	"github.com/google/uuid"
)

// SwapService coordinates the pairwise exchange of slot time windows. It
// is the only component allowed to move slots into or out of SWAP_PENDING
// and to answer swap requests; every mutating operation runs as a single
// database transaction.
type SwapService struct {
	swaps  repository.SwapRepositoryInterface
	events eventRepo.EventRepositoryInterface
	db     database.Transactor
}

func NewSwapService(swaps repository.SwapRepositoryInterface, events eventRepo.EventRepositoryInterface, db database.Transactor) *SwapService {
	return &SwapService{
		swaps:  swaps,
		events: events,
		db:     db,
	}
}

// ProposeSwap creates a PENDING request offering mySlot for theirSlot and
// claims both slots for the negotiation. Claiming uses conditional
// SWAPPABLE→SWAP_PENDING transitions: if a concurrent proposal already took
// either slot, the whole transaction aborts with a conflict and no request
// is left behind.
func (s *SwapService) ProposeSwap(ctx context.Context, requesterID, mySlotID, theirSlotID uuid.UUID) (*entity.SwapRequest, error) {
	mySlot, err := s.events.GetByID(ctx, mySlotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load your slot", err)
	}
	if mySlot == nil || mySlot.UserID != requesterID || mySlot.Status != eventEntity.StatusSwappable {
		return nil, errors.NewAppError(errors.ErrForbidden, "you do not own a swappable slot with this id", nil)
	}

	theirSlot, err := s.events.GetByID(ctx, theirSlotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load the requested slot", err)
	}
	if theirSlot == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "the requested slot does not exist", nil)
	}
	if theirSlot.UserID == requesterID {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "you cannot swap with yourself", nil)
	}
	if theirSlot.Status != eventEntity.StatusSwappable {
		return nil, errors.NewAppError(errors.ErrInvalidState, "the requested slot is not available for swap", nil)
	}

	var created *entity.SwapRequest
	err = s.db.WithinTransaction(ctx, func(q database.Queryer) error {
		request := &entity.SwapRequest{
			RequesterID: requesterID,
			ReceiverID:  theirSlot.UserID,
			MySlotID:    mySlotID,
			TheirSlotID: theirSlotID,
			Status:      entity.StatusPending,
		}

		created, err = s.swaps.Create(ctx, q, request)
		if err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "failed to create swap request", err)
		}

		for _, slotID := range []uuid.UUID{mySlotID, theirSlotID} {
			ok, err := s.events.ConditionalTransition(ctx, q, slotID,
				eventEntity.StatusSwappable, eventEntity.StatusSwapPending)
			if err != nil {
				return errors.NewAppError(errors.ErrInternalServer, "failed to reserve slot", err)
			}
			if !ok {
				// A concurrent proposal claimed the slot between our read
				// and this update. Abort; the insert above rolls back too.
				return errors.NewAppError(errors.ErrConflict, "slot was claimed by another swap request", nil)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("SwapService:ProposeSwap",
		"request_id", created.ID,
		"requester_id", requesterID,
		"receiver_id", created.ReceiverID,
	)
	return created, nil
}

// RespondToSwap answers a PENDING request as its receiver. Accepting
// exchanges the two slots' time windows and returns both to BUSY;
// rejecting releases any slot still held by this negotiation back to
// SWAPPABLE. Either way the request reaches its terminal status and all
// writes commit or roll back as one unit.
func (s *SwapService) RespondToSwap(ctx context.Context, requestID, responderID uuid.UUID, accept bool) (*entity.SwapRequest, error) {
	request, err := s.swaps.GetByID(ctx, requestID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load swap request", err)
	}
	if request == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "swap request not found", nil)
	}
	if request.ReceiverID != responderID {
		return nil, errors.NewAppError(errors.ErrForbidden, "you are not the receiver of this swap request", nil)
	}

	target := entity.StatusRejected
	if accept {
		target = entity.StatusAccepted
	}
	if !entity.CanTransition(request.Status, target) {
		return nil, errors.NewAppError(errors.ErrInvalidState, "swap request has already been answered", nil)
	}

	if accept {
		err = s.db.WithinTransaction(ctx, func(q database.Queryer) error {
			return s.acceptSwap(ctx, q, request)
		})
	} else {
		err = s.db.WithinTransaction(ctx, func(q database.Queryer) error {
			return s.rejectSwap(ctx, q, request)
		})
	}
	if err != nil {
		return nil, err
	}

	request.Status = target
	logger.Info("SwapService:RespondToSwap",
		"request_id", requestID,
		"responder_id", responderID,
		"accepted", accept,
	)
	return request, nil
}

// acceptSwap marks the request ACCEPTED, exchanges the (start,end) pairs
// of the two referenced slots and sets both to BUSY. The terminal write is
// conditional on the request still being PENDING, and both slots are
// re-read inside the transaction: an interleaved answer or slot mutation
// aborts everything and nothing is committed.
func (s *SwapService) acceptSwap(ctx context.Context, q database.Queryer, request *entity.SwapRequest) error {
	applied, err := s.swaps.Transition(ctx, q, request.ID, entity.StatusPending, entity.StatusAccepted)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to mark request accepted", err)
	}
	if !applied {
		return errors.NewAppError(errors.ErrConflict, "swap request was answered concurrently", nil)
	}

	offered, err := s.events.GetByIDTx(ctx, q, request.MySlotID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to load offered slot", err)
	}
	wanted, err := s.events.GetByIDTx(ctx, q, request.TheirSlotID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to load wanted slot", err)
	}
	if offered == nil || wanted == nil {
		return errors.NewAppError(errors.ErrNotFound, "one of the slots no longer exists", nil)
	}
	if offered.Status != eventEntity.StatusSwapPending || wanted.Status != eventEntity.StatusSwapPending {
		return errors.NewAppError(errors.ErrInvalidState, "one of the slots is no longer held for this swap", nil)
	}

	if err := s.events.SetSchedule(ctx, q, offered.ID, wanted.StartTime, wanted.EndTime, eventEntity.StatusBusy); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to update offered slot", err)
	}
	if err := s.events.SetSchedule(ctx, q, wanted.ID, offered.StartTime, offered.EndTime, eventEntity.StatusBusy); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to update wanted slot", err)
	}

	return nil
}

// rejectSwap marks the request REJECTED and releases the referenced slots.
// The terminal write is conditional on the request still being PENDING, so
// a reject racing a concurrent accept aborts instead of overwriting the
// accepted outcome. Each slot release is conditional on the slot still
// being SWAP_PENDING: a slot already consumed by some other path must not
// be forced back to SWAPPABLE, so a missed slot transition is not an error.
func (s *SwapService) rejectSwap(ctx context.Context, q database.Queryer, request *entity.SwapRequest) error {
	applied, err := s.swaps.Transition(ctx, q, request.ID, entity.StatusPending, entity.StatusRejected)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to mark request rejected", err)
	}
	if !applied {
		return errors.NewAppError(errors.ErrConflict, "swap request was answered concurrently", nil)
	}

	for _, slotID := range []uuid.UUID{request.MySlotID, request.TheirSlotID} {
		if _, err := s.events.ConditionalTransition(ctx, q, slotID,
			eventEntity.StatusSwapPending, eventEntity.StatusSwappable); err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "failed to release slot", err)
		}
	}

	return nil
}

// ListRequests returns the requests page data: proposals addressed to the
// user and proposals the user has sent, both newest first.
func (s *SwapService) ListRequests(ctx context.Context, userID uuid.UUID) ([]entity.EnrichedRequest, []entity.EnrichedRequest, error) {
	incoming, err := s.swaps.ListIncoming(ctx, userID)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrInternalServer, "failed to load incoming requests", err)
	}

	outgoing, err := s.swaps.ListOutgoing(ctx, userID)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrInternalServer, "failed to load outgoing requests", err)
	}

	return incoming, outgoing, nil
}

// ChooseSlots verifies the wanted slot and returns the caller's swappable
// slots so they can pick one to offer.
func (s *SwapService) ChooseSlots(ctx context.Context, callerID, theirSlotID uuid.UUID) ([]eventEntity.Event, error) {
	theirSlot, err := s.events.GetByID(ctx, theirSlotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load the requested slot", err)
	}
	if theirSlot == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "the requested slot does not exist", nil)
	}

	mine, err := s.events.ListByOwnerAndStatus(ctx, callerID, eventEntity.StatusSwappable)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load your swappable slots", err)
	}

	return mine, nil
}
