package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/book-catalog/internal/api/metrics"
	"github.com/openshelf/book-catalog/internal/api/middleware"
	"github.com/openshelf/book-catalog/internal/core/domain"
	"github.com/openshelf/book-catalog/internal/core/ports"
)

// TokenRevoker abstracts the denylist write side used by logout.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

type AuthHandler struct {
	authService ports.AuthService
	revoker     TokenRevoker
}

func NewAuthHandler(authService ports.AuthService, revoker TokenRevoker) *AuthHandler {
	return &AuthHandler{authService: authService, revoker: revoker}
}

type registerRequest struct {
	Username             string `json:"username"              validate:"required,max=150"`
	Email                string `json:"email"                 validate:"omitempty,email"`
	Password             string `json:"password"              validate:"required"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
}

type registerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

type tokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register creates a new user account. Open to unauthenticated callers.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:             req.Username,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// Token exchanges credentials for a bearer token.
//
// @Summary      Obtain a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      tokenRequest  true  "Credentials"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	token, err := h.authService.IssueToken(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.AuthFailuresTotal.WithLabelValues("bad_credentials").Inc()
		}
		return err
	}

	metrics.TokensIssuedTotal.Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// Logout revokes the presented token. The denylist entry lives exactly as
// long as the token itself would have.
//
// @Summary      Revoke the current token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	jti, _ := c.Get(middleware.CtxTokenID).(string)
	exp, _ := c.Get(middleware.CtxTokenExp).(time.Time)
	if jti == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := h.revoker.Revoke(c.Request().Context(), jti, time.Until(exp)); err != nil {
		return err
	}

	metrics.TokensRevokedTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// Profile returns the authenticated user's account summary.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  registerResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/me [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	username, _ := c.Get(middleware.CtxUsername).(string)
	if username == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := h.authService.Profile(c.Request().Context(), username)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, registerResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}
