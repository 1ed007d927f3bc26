package http

import (
	"net/mail"
	"strings"

	"github.com/aussiebroadwan/authguard/internal/authguard/domain"
	"github.com/aussiebroadwan/authguard/pkg/authsdk"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 256
	totpCodeLength    = 6
)

func toUser(u domain.PublicUser) *authsdk.User {
	return &authsdk.User{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		MFAEnabled: u.MFAEnabled,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func toAuthResponse(res domain.AuthResult) authsdk.AuthResponse {
	if res.RequiresMFA {
		return authsdk.AuthResponse{
			RequiresMFA: true,
			TempToken:   res.TempToken,
			Message:     "MFA verification required",
		}
	}
	return authsdk.AuthResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresIn:    res.ExpiresIn,
		User:         toUser(res.User),
	}
}

// validEmail accepts a bare address, no display name.
func validEmail(s string) bool {
	s = strings.TrimSpace(s)
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func validPassword(s string) bool {
	return len(s) >= minPasswordLength && len(s) <= maxPasswordLength
}

func validTOTPCode(s string) bool {
	return len(strings.TrimSpace(s)) == totpCodeLength
}
