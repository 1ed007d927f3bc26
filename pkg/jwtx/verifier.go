package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a session token and gives back its claims.
type Verifier interface {
	VerifySession(token string) (Claims, error)
}

var (
	// ErrInvalidOrExpired covers every reason a token is rejected: bad
	// signature, wrong algorithm, expiry, malformed input.
	ErrInvalidOrExpired = errors.New("jwtx: invalid or expired token")

	// ErrTempToken rejects an MFA-pending token presented as a session.
	ErrTempToken = errors.New("jwtx: temporary token cannot be used here")
)

// Verify checks signature, algorithm, expiry and issuer against the primary
// secret. Temporary tokens pass; use VerifySession for protected resources.
func (s *TokenService) Verify(token string) (Claims, error) {
	var claims Claims
	if err := s.parse(token, &claims, s.secret); err != nil {
		return Claims{}, err
	}
	if _, err := claims.UserID(); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidOrExpired, err)
	}
	return claims, nil
}

// VerifySession is Verify plus rejection of temporary tokens. It is the only
// check that may guard a protected resource.
func (s *TokenService) VerifySession(token string) (Claims, error) {
	claims, err := s.Verify(token)
	if err != nil {
		return Claims{}, err
	}
	if claims.Temp {
		return Claims{}, ErrTempToken
	}
	return claims, nil
}

// VerifyRefresh validates a refresh token against the refresh secret. ok is
// false, with no error, when refresh tokens are not configured.
func (s *TokenService) VerifyRefresh(token string) (claims RefreshClaims, ok bool, err error) {
	if !s.RefreshEnabled() {
		return RefreshClaims{}, false, nil
	}
	if err := s.parse(token, &claims, s.refreshSecret); err != nil {
		return RefreshClaims{}, true, err
	}
	if _, err := claims.UserID(); err != nil {
		return RefreshClaims{}, true, fmt.Errorf("%w: %w", ErrInvalidOrExpired, err)
	}
	return claims, true, nil
}

func (s *TokenService) parse(token string, claims jwt.Claims, key []byte) error {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	parsed, err := jwt.NewParser(opts...).ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOrExpired, err)
	}
	if !parsed.Valid {
		return ErrInvalidOrExpired
	}
	return nil
}

// Decode reads the claims without checking signature or expiry. Never use
// the result for an authorization decision.
func Decode(token string) *Claims {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil
	}
	return &claims
}
