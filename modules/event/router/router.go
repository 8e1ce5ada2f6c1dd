package router

import (
	"slotswap/core/middleware"
	"slotswap/modules/event/controller"

	"github.com/labstack/echo/v4"
)

type EventRouter struct {
	controller *controller.EventController
}

func NewEventRouter(controller *controller.EventController) *EventRouter {
	return &EventRouter{
		controller: controller,
	}
}

// Register wires the slot routes. Paths mirror the public API contract,
// so they sit on the root echo instance rather than a shared group.
func (r *EventRouter) Register(e *echo.Echo, mw *middleware.Middleware) {
	auth := mw.AuthMiddleware()

	e.POST("/submit-event", r.controller.CreateEvent, auth)
	e.GET("/api/events", r.controller.ListMyEvents, auth)
	e.POST("/api/events/:id/make-swappable", r.controller.MakeSwappable, auth)
	e.GET("/api/swappable-spots", r.controller.ListSwappableSpots, auth)
}
