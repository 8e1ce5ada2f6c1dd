package event

import (
	"slotswap/core/database"
	"slotswap/core/middleware"
	"slotswap/modules/event/controller"
	"slotswap/modules/event/repository"
	"slotswap/modules/event/router"
	"slotswap/modules/event/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the event module and returns the repository for use by
// the swap module, which performs slot transitions inside its own
// transactions.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) *repository.EventRepository {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo, &db)
	ctrl := controller.NewEventController(svc)
	r := router.NewEventRouter(ctrl)

	r.Register(e, mw)

	return repo
}
