package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/authguard/internal/authguard/service"
	"github.com/aussiebroadwan/authguard/pkg/authsdk"
	"github.com/aussiebroadwan/authguard/pkg/httpx"
)

// AuthHandler serves registration, login and the session endpoints.
type AuthHandler struct {
	AuthService *service.AuthService
}

// HandleRegister handles POST /v1/auth/register
//
//	@Summary		Register
//	@Description	Creates a password account with MFA off and returns a session.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest	true	"Account details"
//	@Success		201		{object}	authsdk.AuthResponse	"Access token and user"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Invalid request"
//	@Failure		409		{object}	authsdk.ErrorResponse	"Email already registered"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		invalidRequest(w, err.Error())
		return
	}
	if !validEmail(req.Email) {
		invalidRequest(w, "email must be a valid address")
		return
	}
	if !validPassword(req.Password) {
		invalidRequest(w, "password must be between 6 and 256 characters")
		return
	}

	res, err := h.AuthService.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toAuthResponse(res))
}

// HandleLogin handles POST /v1/auth/login
//
//	@Summary		Login
//	@Description	Checks email and password. MFA users get requiresMfa and a temporary token instead of a session.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.AuthResponse	"Session, or temporary token when MFA is required"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Invalid request"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid credentials"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		invalidRequest(w, err.Error())
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		invalidRequest(w, "email and password are required")
		return
	}

	res, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAuthResponse(res))
}

// HandleVerifyMFA handles POST /v1/auth/mfa/verify
//
//	@Summary		Verify MFA
//	@Description	Completes an MFA-pending login with a TOTP code or a backup code.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.VerifyMFARequest	true	"Temporary token and code"
//	@Success		200		{object}	authsdk.AuthResponse		"MFA-verified session"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Invalid request or MFA not enabled"
//	@Failure		401		{object}	authsdk.ErrorResponse		"Invalid temporary token or code"
//	@Failure		500		{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/auth/mfa/verify [post].
func (h *AuthHandler) HandleVerifyMFA(w http.ResponseWriter, r *http.Request) {
	var req authsdk.VerifyMFARequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		invalidRequest(w, err.Error())
		return
	}
	if req.TempToken == "" || strings.TrimSpace(req.Code) == "" {
		invalidRequest(w, "tempToken and code are required")
		return
	}

	res, err := h.AuthService.VerifyMFAAndLogin(r.Context(), req.TempToken, req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAuthResponse(res))
}

// HandleRefresh handles POST /v1/auth/refresh
//
//	@Summary		Refresh
//	@Description	Trades a refresh token for a new access token and a rotated refresh token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	authsdk.AuthResponse	"New tokens"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Invalid request"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid or expired refresh token"
//	@Failure		501		{object}	authsdk.ErrorResponse	"Refresh tokens not enabled"
//	@Router			/v1/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RefreshRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		invalidRequest(w, err.Error())
		return
	}
	if req.RefreshToken == "" {
		invalidRequest(w, "refreshToken is required")
		return
	}

	res, err := h.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAuthResponse(res))
}

// HandleMe handles GET /v1/auth/me
//
//	@Summary		Current user
//	@Description	Returns the authenticated user. MFA users need an MFA-verified session.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.User			"User"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid token or MFA verification required"
//	@Failure		404	{object}	authsdk.ErrorResponse	"User no longer exists"
//	@Router			/v1/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	user, err := h.AuthService.CurrentUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUser(user))
}
