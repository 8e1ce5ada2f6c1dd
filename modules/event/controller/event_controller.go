package controller

import (
	"slotswap/core/constants"
	"slotswap/core/controller"
	"slotswap/core/errors"
	"slotswap/core/utils"
	"slotswap/modules/event/dto"
	"slotswap/modules/event/entity"
	"slotswap/modules/event/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type EventController struct {
	controller.BaseController
	service *service.EventService
}

func NewEventController(service *service.EventService) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

// GetUserIDFromContext retrieves the authenticated caller from context
func (c *EventController) GetUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "token data not found in context", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "invalid token data format", nil)
	}

	return claims.UserID, nil
}

// CreateEvent registers a new BUSY slot for the caller
func (c *EventController) CreateEvent(ctx echo.Context) error {
	userID, err := c.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	created, err := c.service.CreateEvent(ctx.Request().Context(), userID, &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, toEventResponse(created), "Event created")
}

// ListMyEvents returns the caller's own slots
func (c *EventController) ListMyEvents(ctx echo.Context) error {
	userID, err := c.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	events, err := c.service.ListMyEvents(ctx.Request().Context(), userID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, toEventListResponse(events), "Events retrieved")
}

// MakeSwappable marks one of the caller's slots as open for swapping
func (c *EventController) MakeSwappable(ctx echo.Context) error {
	userID, err := c.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event ID")
	}

	updated, err := c.service.MarkSwappable(ctx.Request().Context(), eventID, userID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, toEventResponse(updated), "Event marked swappable")
}

// ListSwappableSpots returns the marketplace of other users' swappable slots
func (c *EventController) ListSwappableSpots(ctx echo.Context) error {
	userID, err := c.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	spots, err := c.service.ListSwappableSpots(ctx.Request().Context(), userID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	resp := dto.SwappableSpotsResponse{Spots: make([]dto.SwappableSpotResponse, 0, len(spots))}
	for _, spot := range spots {
		resp.Spots = append(resp.Spots, dto.SwappableSpotResponse{
			ID:        spot.ID,
			Title:     spot.Title,
			StartTime: spot.StartTime,
			EndTime:   spot.EndTime,
			OwnerName: spot.OwnerName,
		})
	}
	resp.Total = len(resp.Spots)

	return c.SuccessResponse(ctx, resp, "Swappable spots retrieved")
}

func toEventResponse(event *entity.Event) dto.EventResponse {
	return dto.EventResponse{
		ID:        event.ID,
		Title:     event.Title,
		StartTime: event.StartTime,
		EndTime:   event.EndTime,
		Status:    string(event.Status),
	}
}

func toEventListResponse(events []entity.Event) dto.EventListResponse {
	resp := dto.EventListResponse{Events: make([]dto.EventResponse, 0, len(events))}
	for i := range events {
		resp.Events = append(resp.Events, toEventResponse(&events[i]))
	}
	resp.Total = len(resp.Events)
	return resp
}
