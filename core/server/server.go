package server

import (
	"fmt"
	"net/http"

	"slotswap/core/cache"
	"slotswap/core/config"
	"slotswap/core/constants"
	"slotswap/core/database"
	"slotswap/core/logger"
	"slotswap/core/middleware"
	"slotswap/modules/auth"
	"slotswap/modules/event"
	"slotswap/modules/swap"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// Run loads configuration, connects the backing stores and serves the API
// until the listener fails.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Server.LogLevel)
	defer logger.Sync()

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}

	c, err := cache.NewCache(cfg.Redis)
	if err != nil {
		return err
	}
	defer c.Close()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = constants.DefaultRequestTimeout
	e.Server.WriteTimeout = constants.DefaultRequestTimeout

	mw := middleware.NewMiddleware(c)

	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowCredentials: true,
	}))
	e.Use(mw.RequestID())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	auth.Init(e, db, c, mw)
	events := event.Init(e, db, mw)
	swap.Init(e, db, mw, events)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Server listening", "addr", addr)
	return e.Start(addr)
}
