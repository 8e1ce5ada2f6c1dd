package router

import (
	"slotswap/core/middleware"
	"slotswap/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	controller *controller.AuthController
}

func NewAuthRouter(controller *controller.AuthController) *AuthRouter {
	return &AuthRouter{
		controller: controller,
	}
}

func (r *AuthRouter) Register(e *echo.Echo, mw *middleware.Middleware) {
	e.POST("/submit-register", r.controller.Register)
	e.POST("/submit-login", r.controller.Login)
	e.POST("/logout", r.controller.Logout, mw.AuthMiddleware())
	e.GET("/me", r.controller.Me, mw.AuthMiddleware())
}
