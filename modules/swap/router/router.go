package router

import (
	"slotswap/core/middleware"
	"slotswap/modules/swap/controller"

	"github.com/labstack/echo/v4"
)

type SwapRouter struct {
	controller *controller.SwapController
}

func NewSwapRouter(controller *controller.SwapController) *SwapRouter {
	return &SwapRouter{
		controller: controller,
	}
}

func (r *SwapRouter) Register(e *echo.Echo, mw *middleware.Middleware) {
	auth := mw.AuthMiddleware()

	e.POST("/api/swap-request", r.controller.ChooseSlots, auth)
	e.POST("/api/request-swap", r.controller.ProposeSwap, auth)
	e.GET("/requests", r.controller.ListRequests, auth)
	e.POST("/api/swap-response/:id", r.controller.RespondToSwap, auth)
}
