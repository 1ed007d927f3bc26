package service

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/authguard/pkg/jwtx"
)

var (
	ErrDuplicateEmail     = errors.New("duplicate_email")
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrInvalidOrExpiredToken covers bad signatures, malformed tokens and
	// elapsed expiry alike.
	ErrInvalidOrExpiredToken = jwtx.ErrInvalidOrExpired

	ErrInvalidTempToken   = errors.New("invalid_temp_token")
	ErrMFANotEnabled      = errors.New("mfa_not_enabled")
	ErrMFAAlreadyEnabled  = errors.New("mfa_already_enabled")
	ErrSetupNotInitiated  = errors.New("mfa_setup_not_initiated")
	ErrInvalidCode        = errors.New("invalid_code")
	ErrNoPasswordSet      = errors.New("no_password_set")
	ErrNotFound           = errors.New("not_found")
	ErrRefreshUnavailable = errors.New("refresh_unavailable")

	// ErrInvalidMFACode is returned at login when neither the TOTP code nor a
	// backup code matched. errors.Is(err, ErrInvalidCode) holds.
	ErrInvalidMFACode = fmt.Errorf("invalid_mfa_code: %w", ErrInvalidCode)
)
