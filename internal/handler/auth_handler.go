package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"stockresearch/internal/errors"
	"stockresearch/internal/model"
	"stockresearch/internal/service"
)

const loginAcknowledgement = "One-time login code sent. Check your email inbox."

// AuthHandler handles login, verification and session endpoints.
type AuthHandler struct {
	authService service.AuthService
	cookie      CookieConfig
	log         zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, cookie CookieConfig, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie, log: log}
}

// LoginRequest represents a login code request.
type LoginRequest struct {
	Email string `json:"email" validate:"required"`
}

// VerifyRequest represents a login code verification.
type VerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// MessageResponse acknowledges a request.
type MessageResponse struct {
	Message string `json:"message"`
}

// VerifyResponse carries the verified email.
type VerifyResponse struct {
	Email string `json:"email"`
}

// LogoutResponse acknowledges a logout.
type LogoutResponse struct {
	OK bool `json:"ok"`
}

// Login godoc
// @Summary Request a one-time login code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Email"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	if err := c.Validate(&req); err != nil {
		return respondError(errors.ErrValidation)
	}

	if err := h.authService.RequestChallenge(c.Request().Context(), req.Email); err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: loginAcknowledgement})
}

// Verify godoc
// @Summary Verify a login code and start a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Email and code"
// @Success 200 {object} VerifyResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /verify [post]
func (h *AuthHandler) Verify(c echo.Context) error {
	var req VerifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	email, token, err := h.authService.VerifyChallenge(c.Request().Context(), req.Email, req.Code)
	if err != nil {
		if errors.IsChallengeError(err) {
			h.log.Info().Err(err).Str("email", req.Email).Msg("login code rejected")
		}
		return respondError(err)
	}

	h.cookie.set(c, token)
	return c.JSON(http.StatusOK, VerifyResponse{Email: email})
}

// Session godoc
// @Summary Report the current session
// @Tags auth
// @Produce json
// @Success 200 {object} model.SessionStatus
// @Router /session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	session, err := h.authService.ResolveSession(c.Request().Context(), SessionToken(c))
	if err != nil {
		if !stderrors.Is(err, errors.ErrAuthRequired) {
			h.log.Warn().Err(err).Msg("resolve session")
		}
		return c.JSON(http.StatusOK, model.SessionStatus{Authenticated: false})
	}
	return c.JSON(http.StatusOK, model.SessionStatus{Authenticated: true, Email: session.Email})
}

// Logout godoc
// @Summary End the current session
// @Tags auth
// @Produce json
// @Success 200 {object} LogoutResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.EndSession(c.Request().Context(), SessionToken(c)); err != nil {
		return respondError(err)
	}

	h.cookie.clear(c)
	return c.JSON(http.StatusOK, LogoutResponse{OK: true})
}
