package jwtx

import (
	"errors"
	"strconv"
	"time"

	"github.com/aussiebroadwan/authguard/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// Token lifetimes. Access and refresh lifetimes can be overridden through
// TokenConfig, the temporary (MFA pending) lifetime cannot.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
	TempTokenTTL           = 5 * time.Minute
)

// Claims are the access and temporary token claims. The JSON names are
// shared with existing clients, keep them stable.
type Claims struct {
	jwt.RegisteredClaims

	Email      string `json:"email"`
	MFAEnabled bool   `json:"mfaEnabled"`

	// MFAVerified is set once a second factor was presented for this session.
	MFAVerified bool `json:"mfaVerified,omitempty"`

	// Temp marks an MFA-pending token. It only ever unlocks the MFA
	// verification step and must never be accepted as a session.
	Temp bool `json:"temp,omitempty"`
}

// UserID parses the numeric subject.
func (c Claims) UserID() (int64, error) { return parseSubject(c.Subject) }

// NeedsMFAVerification reports a session for an MFA user that has not
// presented a second factor.
func (c Claims) NeedsMFAVerification() bool { return c.MFAEnabled && !c.MFAVerified }

// RefreshClaims are the claims of a refresh token, signed with a separate
// secret.
type RefreshClaims struct {
	jwt.RegisteredClaims

	Email string `json:"email"`

	// MFAVerified carries the second-factor state of the session the token
	// was issued for. A refresh never upgrades it.
	MFAVerified bool `json:"mfaVerified,omitempty"`
}

func (c RefreshClaims) UserID() (int64, error) { return parseSubject(c.Subject) }

func registered(userID int64, issuer string, ttl time.Duration, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        idx.NewAt(now).String(),
	}
}

var errBadSubject = errors.New("jwtx: subject is not a user id")

func parseSubject(sub string) (int64, error) {
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadSubject
	}
	return id, nil
}
