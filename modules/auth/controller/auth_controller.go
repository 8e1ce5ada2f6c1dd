package controller

import (
	"net/http"
	"time"

	"slotswap/core/constants"
	"slotswap/core/controller"
	"slotswap/core/errors"
	"slotswap/core/utils"
	"slotswap/modules/auth/dto"
	"slotswap/modules/auth/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AuthController struct {
	controller.BaseController
	service *service.AuthService
}

func NewAuthController(service *service.AuthService) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

// Register creates a new account and signs the caller in
func (c *AuthController) Register(ctx echo.Context) error {
	var req dto.RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	resp, err := c.service.Register(ctx.Request().Context(), &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	c.setTokenCookie(ctx, resp.Token)
	return c.SuccessResponse(ctx, resp, "Account created")
}

// Login verifies credentials and issues a token
func (c *AuthController) Login(ctx echo.Context) error {
	var req dto.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	resp, err := c.service.Login(ctx.Request().Context(), &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	c.setTokenCookie(ctx, resp.Token)
	return c.SuccessResponse(ctx, resp, "Logged in")
}

// Logout revokes the caller's token
func (c *AuthController) Logout(ctx echo.Context) error {
	token, err := utils.GetTokenFromHeader(ctx)
	if err != nil {
		return c.Unauthorized(errors.CodeOf(err), "Unauthorized")
	}

	if err := c.service.Logout(ctx.Request().Context(), token); err != nil {
		return c.ErrorResponse(ctx, err)
	}

	c.clearTokenCookie(ctx)
	return c.SuccessResponse(ctx, nil, "Logged out")
}

// Me returns the authenticated caller's account
func (c *AuthController) Me(ctx echo.Context) error {
	tokenData := ctx.Get(constants.ContextTokenData)
	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok || claims.UserID == uuid.Nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	resp, err := c.service.Me(ctx.Request().Context(), claims.UserID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, resp, "User retrieved")
}

// setTokenCookie mirrors the token into an httpOnly cookie so plain
// browser form posts stay authenticated without a JS client.
func (c *AuthController) setTokenCookie(ctx echo.Context, token string) {
	ctx.SetCookie(&http.Cookie{
		Name:     constants.TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(constants.AccessTokenTTL),
	})
}

func (c *AuthController) clearTokenCookie(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     constants.TokenCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
