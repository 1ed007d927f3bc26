package jwtx

import (
	"bytes"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrSecretRequired     = errors.New("jwtx: signing secret is required")
	ErrRefreshSecretReuse = errors.New("jwtx: refresh secret must differ from the signing secret")
)

// TokenConfig configures a TokenService. Zero TTLs fall back to the
// package defaults; an empty RefreshSecret disables refresh tokens.
type TokenConfig struct {
	Secret        string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
	Issuer        string

	// Now overrides the clock, mostly for tests.
	Now func() time.Time
}

// TokenService issues and verifies HS256 tokens. It holds no mutable state
// and is safe for concurrent use.
type TokenService struct {
	secret        []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	now           func() time.Time
}

// NewTokenService validates cfg. A missing signing secret is a startup
// error, never a runtime one.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, ErrSecretRequired
	}

	s := &TokenService{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		issuer:     cfg.Issuer,
		now:        cfg.Now,
	}
	if cfg.RefreshSecret != "" {
		s.refreshSecret = []byte(cfg.RefreshSecret)
		if bytes.Equal(s.refreshSecret, s.secret) {
			return nil, ErrRefreshSecretReuse
		}
	}
	if s.accessTTL <= 0 {
		s.accessTTL = DefaultAccessTokenTTL
	}
	if s.refreshTTL <= 0 {
		s.refreshTTL = DefaultRefreshTokenTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

func (s *TokenService) AccessTTL() time.Duration { return s.accessTTL }

// RefreshEnabled reports whether a refresh secret is configured.
func (s *TokenService) RefreshEnabled() bool { return len(s.refreshSecret) > 0 }

// IssueAccess signs a full session token.
func (s *TokenService) IssueAccess(userID int64, email string, mfaEnabled, mfaVerified bool) (string, error) {
	return s.sign(Claims{
		RegisteredClaims: registered(userID, s.issuer, s.accessTTL, s.now()),
		Email:            email,
		MFAEnabled:       mfaEnabled,
		MFAVerified:      mfaVerified,
	}, s.secret)
}

// IssueTemp signs the short-lived token handed out between a correct
// password and the second factor.
func (s *TokenService) IssueTemp(userID int64, email string) (string, error) {
	return s.sign(Claims{
		RegisteredClaims: registered(userID, s.issuer, TempTokenTTL, s.now()),
		Email:            email,
		MFAEnabled:       true,
		Temp:             true,
	}, s.secret)
}

// IssueRefresh signs a refresh token for a session whose second-factor state
// is mfaVerified. ok is false, with no error, when refresh tokens are not
// configured.
func (s *TokenService) IssueRefresh(userID int64, email string, mfaVerified bool) (token string, ok bool, err error) {
	if !s.RefreshEnabled() {
		return "", false, nil
	}
	token, err = s.sign(RefreshClaims{
		RegisteredClaims: registered(userID, s.issuer, s.refreshTTL, s.now()),
		Email:            email,
		MFAVerified:      mfaVerified,
	}, s.refreshSecret)
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}

func (s *TokenService) sign(claims jwt.Claims, key []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}
