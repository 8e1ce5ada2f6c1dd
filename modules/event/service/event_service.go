package service

import (
	"context"

	"slotswap/core/database"
	"slotswap/core/errors"
	"slotswap/core/logger"
	"slotswap/modules/event/dto"
	"slotswap/modules/event/entity"
	"slotswap/modules/event/repository"

	"github.com/google/uuid"
)

type EventService struct {
	repo repository.EventRepositoryInterface
	db   database.Transactor
}

func NewEventService(repo repository.EventRepositoryInterface, db database.Transactor) *EventService {
	return &EventService{
		repo: repo,
		db:   db,
	}
}

// CreateEvent registers a new slot for the caller. Slots are born BUSY;
// only the owner can later open them up for swapping.
func (s *EventService) CreateEvent(ctx context.Context, ownerID uuid.UUID, req *dto.CreateEventRequest) (*entity.Event, error) {
	if req.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "title is required", nil)
	}
	if !req.StartTime.Before(req.EndTime) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "start time must be before end time", nil)
	}

	event := &entity.Event{
		Title:     req.Title,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    entity.StatusBusy,
		UserID:    ownerID,
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		logger.Error("EventService:CreateEvent", "error", err, "user_id", ownerID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create event", err)
	}

	return created, nil
}

// ListMyEvents returns the caller's own slots for the dashboard, ordered
// by start time.
func (s *EventService) ListMyEvents(ctx context.Context, ownerID uuid.UUID) ([]entity.Event, error) {
	events, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		logger.Error("EventService:ListMyEvents", "error", err, "user_id", ownerID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load events", err)
	}
	return events, nil
}

// MarkSwappable transitions one of the caller's slots BUSY→SWAPPABLE.
// Only the owner may do this, and only from BUSY.
func (s *EventService) MarkSwappable(ctx context.Context, eventID uuid.UUID, callerID uuid.UUID) (*entity.Event, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}
	if event.UserID != callerID {
		return nil, errors.NewAppError(errors.ErrForbidden, "you do not own this event", nil)
	}
	if event.Status != entity.StatusBusy || !entity.CanTransition(event.Status, entity.StatusSwappable) {
		return nil, errors.NewAppError(errors.ErrInvalidState, "event is not in a swappable-eligible state", nil)
	}

	var updated *entity.Event
	err = s.db.WithinTransaction(ctx, func(q database.Queryer) error {
		ok, err := s.repo.ConditionalTransition(ctx, q, eventID, entity.StatusBusy, entity.StatusSwappable)
		if err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "failed to update event status", err)
		}
		if !ok {
			// Raced with a concurrent transition since the read above.
			return errors.NewAppError(errors.ErrInvalidState, "event is no longer busy", nil)
		}

		updated, err = s.repo.GetByIDTx(ctx, q, eventID)
		if err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "failed to reload event", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("EventService:MarkSwappable", "event_id", eventID, "user_id", callerID)
	return updated, nil
}

// ListSwappableSpots returns the marketplace: every other user's
// swappable slot with its owner's name.
func (s *EventService) ListSwappableSpots(ctx context.Context, callerID uuid.UUID) ([]entity.SwappableSpot, error) {
	spots, err := s.repo.ListSwappable(ctx, callerID)
	if err != nil {
		logger.Error("EventService:ListSwappableSpots", "error", err, "user_id", callerID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load swappable spots", err)
	}
	return spots, nil
}

// ListMySwappable returns the caller's slots currently open for swapping,
// used to populate the "choose a slot to offer" view.
func (s *EventService) ListMySwappable(ctx context.Context, callerID uuid.UUID) ([]entity.Event, error) {
	events, err := s.repo.ListByOwnerAndStatus(ctx, callerID, entity.StatusSwappable)
	if err != nil {
		logger.Error("EventService:ListMySwappable", "error", err, "user_id", callerID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load swappable events", err)
	}
	return events, nil
}
