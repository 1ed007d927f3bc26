package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/authguard/internal/authguard/domain"
	"github.com/aussiebroadwan/authguard/internal/authguard/metrics"
	"github.com/aussiebroadwan/authguard/internal/authguard/store"
	"github.com/aussiebroadwan/authguard/pkg/cryptox"
	"github.com/aussiebroadwan/authguard/pkg/jwtx"
	"github.com/aussiebroadwan/authguard/pkg/slogx"
)

// AuthService drives a login attempt from UNAUTHENTICATED through
// PASSWORD_VERIFIED to either MFA_PENDING or AUTHENTICATED.
type AuthService struct {
	Store   store.Store
	Tokens  *jwtx.TokenService
	Hasher  *cryptox.Hasher
	MFA     *MFAService
	Metrics *metrics.Metrics
}

// NormalizeEmail is applied to every email before it reaches the store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a password account with MFA off and signs it in.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (domain.AuthResult, error) {
	l := slogx.FromContext(ctx)
	email = NormalizeEmail(email)

	digest, err := s.Hasher.Hash(password)
	if err != nil {
		return domain.AuthResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var user domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			return ErrDuplicateEmail
		case !errors.Is(err, store.ErrNotFound):
			return fmt.Errorf("failed to look up email: %w", err)
		}

		id, err := tx.Users().CreateUser(ctx, domain.User{
			Email:        email,
			Name:         strings.TrimSpace(name),
			PasswordHash: &digest,
		})
		if err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrDuplicateEmail
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		user, err = tx.Users().GetUserByID(ctx, id)
		return err
	})
	if err != nil {
		return domain.AuthResult{}, err
	}

	s.Metrics.Registration()
	l.Info("user registered", slog.Int64("user_id", user.ID))

	return s.issueSession(user, false)
}

// Login checks the password. Without MFA the result carries a session;
// with MFA it only carries a temporary token for VerifyMFAAndLogin.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.AuthResult, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email), store.FieldPasswordHash)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return domain.AuthResult{}, fmt.Errorf("failed to look up user: %w", err)
	}

	// Unknown accounts and accounts without a password still pay for one
	// hash so response time does not reveal which emails exist.
	if err != nil || !user.HasPassword() {
		s.Hasher.Burn(password)
		s.Metrics.Login(metrics.LoginInvalidCredentials)
		l.Warn("login failed")
		return domain.AuthResult{}, ErrInvalidCredentials
	}
	if !s.Hasher.Compare(password, *user.PasswordHash) {
		s.Metrics.Login(metrics.LoginInvalidCredentials)
		l.Warn("login failed", slog.Int64("user_id", user.ID))
		return domain.AuthResult{}, ErrInvalidCredentials
	}

	if user.MFAEnabled {
		temp, err := s.Tokens.IssueTemp(user.ID, user.Email)
		if err != nil {
			return domain.AuthResult{}, fmt.Errorf("failed to issue temp token: %w", err)
		}
		s.Metrics.Login(metrics.LoginMFARequired)
		l.Info("login requires mfa", slog.Int64("user_id", user.ID))
		return domain.AuthResult{RequiresMFA: true, TempToken: temp}, nil
	}

	s.Metrics.Login(metrics.LoginSuccess)
	l.Info("login succeeded", slog.Int64("user_id", user.ID))
	return s.issueSession(store.Project(user), false)
}

// VerifyMFAAndLogin completes an MFA-pending login with a TOTP or backup
// code. A consumed backup code is persisted before any token is issued.
func (s *AuthService) VerifyMFAAndLogin(ctx context.Context, tempToken, code string) (domain.AuthResult, error) {
	claims, err := s.Tokens.Verify(tempToken)
	if err != nil || !claims.Temp {
		return domain.AuthResult{}, ErrInvalidTempToken
	}
	userID, err := claims.UserID()
	if err != nil {
		return domain.AuthResult{}, ErrInvalidTempToken
	}

	ctx = slogx.With(ctx, slog.Int64("user_id", userID))

	user, err := s.Store.Users().GetUserByID(ctx, userID, store.FieldMFASecret, store.FieldMFABackupCodes)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AuthResult{}, ErrMFANotEnabled
		}
		return domain.AuthResult{}, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.MFA.VerifyForLogin(ctx, user, code); err != nil {
		return domain.AuthResult{}, err
	}

	return s.issueSession(store.Project(user), true)
}

// Refresh trades a refresh token for a new access token and a rotated
// refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.AuthResult, error) {
	claims, ok, err := s.Tokens.VerifyRefresh(refreshToken)
	if !ok {
		return domain.AuthResult{}, ErrRefreshUnavailable
	}
	if err != nil {
		return domain.AuthResult{}, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return domain.AuthResult{}, ErrInvalidOrExpiredToken
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AuthResult{}, ErrInvalidCredentials
		}
		return domain.AuthResult{}, fmt.Errorf("failed to load user: %w", err)
	}

	// The second-factor state is carried over from the session that got the
	// refresh token. A token from before enrollment stays unverified, and the
	// MFA-verified guard then demands a fresh login.
	return s.issueSession(user, claims.MFAVerified && user.MFAEnabled)
}

// CurrentUser returns the public view of a user.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (domain.PublicUser, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.PublicUser{}, ErrNotFound
		}
		return domain.PublicUser{}, fmt.Errorf("failed to load user: %w", err)
	}
	return user.Public(), nil
}

func (s *AuthService) issueSession(user domain.User, mfaVerified bool) (domain.AuthResult, error) {
	access, err := s.Tokens.IssueAccess(user.ID, user.Email, user.MFAEnabled, mfaVerified)
	if err != nil {
		return domain.AuthResult{}, fmt.Errorf("failed to issue access token: %w", err)
	}
	refresh, _, err := s.Tokens.IssueRefresh(user.ID, user.Email, mfaVerified)
	if err != nil {
		return domain.AuthResult{}, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return domain.AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.Tokens.AccessTTL() / time.Second),
		User:         user.Public(),
	}, nil
}
