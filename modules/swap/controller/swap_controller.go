package controller

import (
	"slotswap/core/constants"
	"slotswap/core/controller"
	"slotswap/core/errors"
	"slotswap/core/utils"
	eventDto "slotswap/modules/event/dto"
	"slotswap/modules/swap/dto"
	"slotswap/modules/swap/entity"
	"slotswap/modules/swap/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type SwapController struct {
	controller.BaseController
	service *service.SwapService
}

func NewSwapController(service *service.SwapService) *SwapController {
	return &SwapController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

// GetUserIDFromContext retrieves the authenticated caller from context
func (c *SwapController) GetUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// ChooseSlots returns the caller's swappable slots for the offer picker
func (c *SwapController) ChooseSlots(ctx echo.Context) error {
	userID, err := c.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	var req dto.ChooseSlotRequest
	if err := ctx.Bind(&req); err != nil || req.TheirSlotID == uuid.Nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "theirSlotId is required")
	}

	mine, err := c.service.ChooseSlots(ctx.Request().Context(), userID, req.TheirSlotID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	resp := dto.ChooseSlotResponse{
		TheirSlotID: req.TheirSlotID,
		MySlots:     make([]eventDto.EventResponse, 0, len(mine)),
	}
	for _, ev := range mine {
		resp.MySlots = append(resp.MySlots, eventDto.EventResponse{
			ID:        ev.ID,
			Title:     ev.Title,
			StartTime: ev.StartTime,
			EndTime:   ev.EndTime,
			Status:    string(ev.Status),
		})
	}

	return c.SuccessResponse(ctx, resp, "Swappable slots retrieved")
}

// ProposeSwap creates a pending swap request between two slots
func (c *SwapController) ProposeSwap(ctx echo.Context) error {
	userID, err := c.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	var req dto.ProposeSwapRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	if req.MySlotID == uuid.Nil || req.TheirSlotID == uuid.Nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "mySlotId and theirSlotId are required")
	}

	created, err := c.service.ProposeSwap(ctx.Request().Context(), userID, req.MySlotID, req.TheirSlotID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, toSwapRequestResponse(created), "Swap request created")
}

// ListRequests returns the caller's incoming and outgoing swap requests
func (c *SwapController) ListRequests(ctx echo.Context) error {
	userID, err := c.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	incoming, outgoing, err := c.service.ListRequests(ctx.Request().Context(), userID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	resp := dto.RequestsPageResponse{
		Incoming: toEnrichedResponses(incoming),
		Outgoing: toEnrichedResponses(outgoing),
	}

	return c.SuccessResponse(ctx, resp, "Swap requests retrieved")
}

// RespondToSwap accepts or rejects a pending swap request
func (c *SwapController) RespondToSwap(ctx echo.Context) error {
	userID, err := c.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	requestID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request ID")
	}

	var req dto.SwapResponseRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	updated, err := c.service.RespondToSwap(ctx.Request().Context(), requestID, userID, req.Accepted)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	message := "Swap request rejected"
	if req.Accepted {
		message = "Swap request accepted"
	}
	return c.SuccessResponse(ctx, toSwapRequestResponse(updated), message)
}

func toSwapRequestResponse(request *entity.SwapRequest) dto.SwapRequestResponse {
	return dto.SwapRequestResponse{
		ID:          request.ID,
		RequesterID: request.RequesterID,
		ReceiverID:  request.ReceiverID,
		MySlotID:    request.MySlotID,
		TheirSlotID: request.TheirSlotID,
		Status:      string(request.Status),
		CreatedAt:   request.CreatedAt,
	}
}

func toEnrichedResponses(requests []entity.EnrichedRequest) []dto.EnrichedRequestResponse {
	out := make([]dto.EnrichedRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, dto.EnrichedRequestResponse{
			ID:               r.ID,
			CounterpartName:  r.CounterpartName,
			OfferedSlotTitle: r.OfferedSlotTitle,
			WantedSlotTitle:  r.WantedSlotTitle,
			Status:           string(r.Status),
			CreatedAt:        r.CreatedAt,
		})
	}
	return out
}
