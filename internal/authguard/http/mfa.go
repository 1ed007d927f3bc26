package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/authguard/internal/authguard/service"
	"github.com/aussiebroadwan/authguard/pkg/authsdk"
	"github.com/aussiebroadwan/authguard/pkg/httpx"
)

// MFAHandler handles all MFA-related endpoints.
type MFAHandler struct {
	MFAService *service.MFAService
}

// HandleStatus handles GET /v1/auth/mfa/status
//
//	@Summary		MFA status
//	@Description	Reports whether MFA is enabled or pending and how many backup codes are left.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.MFAStatusResponse	"Status"
//	@Failure		401	{object}	authsdk.ErrorResponse		"Invalid or missing access token"
//	@Router			/v1/auth/mfa/status [get].
func (h *MFAHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	st, err := h.MFAService.Status(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MFAStatusResponse{
		Enabled:              st.Enabled,
		Pending:              st.Pending,
		BackupCodesRemaining: st.BackupCodesRemaining,
	})
}

// HandleSetup handles POST /v1/auth/mfa/setup
//
//	@Summary		Start MFA setup
//	@Description	Issues a TOTP secret, QR code and ten backup codes. MFA stays off until enabled.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.MFASetupResponse	"Secret, QR code and backup codes (shown once)"
//	@Failure		400	{object}	authsdk.ErrorResponse		"MFA already enabled"
//	@Failure		401	{object}	authsdk.ErrorResponse		"Invalid or missing access token"
//	@Failure		500	{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/auth/mfa/setup [post].
func (h *MFAHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	setup, err := h.MFAService.SetupMFA(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MFASetupResponse{
		Secret:      setup.Secret,
		OTPAuthURL:  setup.OTPAuthURL,
		QRCode:      setup.QRCode,
		BackupCodes: setup.BackupCodes,
	})
}

// HandleEnable handles POST /v1/auth/mfa/enable
//
//	@Summary		Enable MFA
//	@Description	Confirms a pending setup with a code from the authenticator app.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.EnableMFARequest	true	"TOTP code"
//	@Success		200		{object}	authsdk.MessageResponse		"Enabled"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Invalid request, setup not initiated or already enabled"
//	@Failure		401		{object}	authsdk.ErrorResponse		"Invalid token or code"
//	@Router			/v1/auth/mfa/enable [post].
func (h *MFAHandler) HandleEnable(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req authsdk.EnableMFARequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		invalidRequest(w, err.Error())
		return
	}
	if !validTOTPCode(req.Code) {
		invalidRequest(w, "code must be 6 characters")
		return
	}

	if err := h.MFAService.EnableMFA(r.Context(), userID, req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "MFA enabled successfully"})
}

// HandleDisable handles POST /v1/auth/mfa/disable
//
//	@Summary		Disable MFA
//	@Description	Turns MFA off. Needs the account password and a current TOTP code.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.DisableMFARequest	true	"TOTP code and password"
//	@Success		200		{object}	authsdk.MessageResponse		"Disabled"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Invalid request, MFA not enabled or no password set"
//	@Failure		401		{object}	authsdk.ErrorResponse		"Invalid token, password or code"
//	@Router			/v1/auth/mfa/disable [post].
func (h *MFAHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req authsdk.DisableMFARequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		invalidRequest(w, err.Error())
		return
	}
	if !validTOTPCode(req.Code) {
		invalidRequest(w, "code must be 6 characters")
		return
	}
	if !validPassword(req.Password) {
		invalidRequest(w, "password must be between 6 and 256 characters")
		return
	}

	if err := h.MFAService.DisableMFA(r.Context(), userID, req.Code, req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "MFA disabled successfully"})
}

// HandleRegenerateBackupCodes handles POST /v1/auth/mfa/backup-codes/regenerate
//
//	@Summary		Regenerate backup codes
//	@Description	Replaces every backup code after checking a TOTP code. The new codes are shown once.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegenerateBackupCodesRequest	true	"TOTP code"
//	@Success		200		{object}	authsdk.BackupCodesResponse				"New backup codes"
//	@Failure		400		{object}	authsdk.ErrorResponse					"Invalid request or MFA not enabled"
//	@Failure		401		{object}	authsdk.ErrorResponse					"Invalid token or code"
//	@Router			/v1/auth/mfa/backup-codes/regenerate [post].
func (h *MFAHandler) HandleRegenerateBackupCodes(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req authsdk.RegenerateBackupCodesRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		invalidRequest(w, err.Error())
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		invalidRequest(w, "code is required")
		return
	}

	codes, err := h.MFAService.RegenerateBackupCodes(r.Context(), userID, req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.BackupCodesResponse{BackupCodes: codes})
}
