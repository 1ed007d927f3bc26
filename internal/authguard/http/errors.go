package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/authguard/internal/authguard/service"
	"github.com/aussiebroadwan/authguard/pkg/authsdk"
	"github.com/aussiebroadwan/authguard/pkg/slogx"
)

// writeServiceError maps service sentinels to API errors. Anything
// unrecognised is logged and reported as a server error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *authsdk.APIError

	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		apiErr = authsdk.ErrDuplicateEmail
	case errors.Is(err, service.ErrInvalidCredentials):
		apiErr = authsdk.ErrInvalidCredentials
	case errors.Is(err, service.ErrInvalidTempToken):
		apiErr = authsdk.ErrInvalidTempToken
	case errors.Is(err, service.ErrInvalidMFACode): // before ErrInvalidCode, it wraps it
		apiErr = authsdk.ErrInvalidMFACode
	case errors.Is(err, service.ErrInvalidCode):
		apiErr = authsdk.ErrInvalidCode
	case errors.Is(err, service.ErrInvalidOrExpiredToken):
		apiErr = authsdk.ErrInvalidToken
	case errors.Is(err, service.ErrMFANotEnabled):
		apiErr = authsdk.ErrMFANotEnabled
	case errors.Is(err, service.ErrMFAAlreadyEnabled):
		apiErr = authsdk.ErrMFAAlreadyEnabled
	case errors.Is(err, service.ErrSetupNotInitiated):
		apiErr = authsdk.ErrMFASetupNotInitiated
	case errors.Is(err, service.ErrNoPasswordSet):
		apiErr = authsdk.ErrNoPasswordSet
	case errors.Is(err, service.ErrNotFound):
		apiErr = authsdk.ErrNotFound
	case errors.Is(err, service.ErrRefreshUnavailable):
		apiErr = authsdk.ErrRefreshUnavailable
	default:
		slogx.FromContext(r.Context()).Error("request failed", slogx.Err(err))
		apiErr = authsdk.ErrServerError
	}

	apiErr.WriteError(w)
}

func invalidRequest(w http.ResponseWriter, description string) {
	authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, description).WriteError(w)
}
