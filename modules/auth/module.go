package auth

import (
	"slotswap/core/cache"
	"slotswap/core/database"
	"slotswap/core/middleware"
	"slotswap/modules/auth/controller"
	"slotswap/modules/auth/repository"
	"slotswap/modules/auth/router"
	"slotswap/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the auth module
func Init(e *echo.Echo, db database.Database, c cache.Cache, mw *middleware.Middleware) {
	repo := repository.NewAuthRepository(db)
	svc := service.NewAuthService(repo, c)
	ctrl := controller.NewAuthController(svc)
	r := router.NewAuthRouter(ctrl)

	r.Register(e, mw)
}
