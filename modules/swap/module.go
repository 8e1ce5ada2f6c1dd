package swap

import (
	"slotswap/core/database"
	"slotswap/core/middleware"
	eventRepo "slotswap/modules/event/repository"
	"slotswap/modules/swap/controller"
	"slotswap/modules/swap/repository"
	"slotswap/modules/swap/router"
	"slotswap/modules/swap/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the swap module. The event repository is shared with
// the event module so slot transitions and ledger writes run in the same
// transactions.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, events *eventRepo.EventRepository) {
	repo := repository.NewSwapRepository(db)
	svc := service.NewSwapService(repo, events, &db)
	ctrl := controller.NewSwapController(svc)
	r := router.NewSwapRouter(ctrl)

	r.Register(e, mw)
}
