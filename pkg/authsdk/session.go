package authsdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// ErrMFAPending is returned by NewSession for a login response that still
// needs VerifyMFA.
var ErrMFAPending = errors.New("authsdk: login requires MFA verification")

// Session represents an authenticated user with automatic token refresh.
// Methods refresh the access token shortly before it expires when a refresh
// token is available.
type Session struct {
	client *Client

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

// NewSession wraps the tokens of a completed login.
func (c *Client) NewSession(resp *AuthResponse) (*Session, error) {
	if resp == nil || resp.RequiresMFA || resp.AccessToken == "" {
		return nil, ErrMFAPending
	}
	s := &Session{client: c}
	s.store(resp)
	return s, nil
}

// store must be called with the write lock held or before the session is
// shared.
func (s *Session) store(resp *AuthResponse) {
	s.accessToken = resp.AccessToken
	if resp.RefreshToken != "" {
		s.refreshToken = resp.RefreshToken
	}

	// Subtract 30 seconds buffer to refresh before actual expiry
	s.expiresAt = time.Now().Add(time.Duration(resp.ExpiresIn)*time.Second - 30*time.Second)
}

// AccessToken returns the current access token without checking expiration.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token, empty when the server
// does not issue them.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// getValidToken returns a valid access token, refreshing it if expired.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) || s.refreshToken == "" {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock (another goroutine may have refreshed)
	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}

	resp, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}
	s.store(resp)
	return s.accessToken, nil
}

func (s *Session) call(ctx context.Context, method, path string, body, out any, expectedStatus int) error {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return err
	}
	return s.client.call(ctx, method, path, token, body, out, expectedStatus)
}

// Me returns the authenticated user. MFA users need a session that
// presented a second factor.
func (s *Session) Me(ctx context.Context) (*User, error) {
	var out User
	if err := s.call(ctx, http.MethodGet, "/v1/auth/me", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// MFAStatus reports enrollment state and unused backup codes.
func (s *Session) MFAStatus(ctx context.Context) (*MFAStatusResponse, error) {
	var out MFAStatusResponse
	if err := s.call(ctx, http.MethodGet, "/v1/auth/mfa/status", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetupMFA starts enrollment. The backup codes in the response are only
// ever shown here.
func (s *Session) SetupMFA(ctx context.Context) (*MFASetupResponse, error) {
	var out MFASetupResponse
	if err := s.call(ctx, http.MethodPost, "/v1/auth/mfa/setup", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// EnableMFA confirms enrollment with a TOTP code.
func (s *Session) EnableMFA(ctx context.Context, code string) error {
	var out MessageResponse
	return s.call(ctx, http.MethodPost, "/v1/auth/mfa/enable", EnableMFARequest{Code: code}, &out, http.StatusOK)
}

// DisableMFA turns MFA off; it needs the password and a TOTP code.
func (s *Session) DisableMFA(ctx context.Context, code, password string) error {
	var out MessageResponse
	req := DisableMFARequest{Code: code, Password: password}
	return s.call(ctx, http.MethodPost, "/v1/auth/mfa/disable", req, &out, http.StatusOK)
}

// RegenerateBackupCodes replaces every backup code.
func (s *Session) RegenerateBackupCodes(ctx context.Context, code string) ([]string, error) {
	var out BackupCodesResponse
	req := RegenerateBackupCodesRequest{Code: code}
	if err := s.call(ctx, http.MethodPost, "/v1/auth/mfa/backup-codes/regenerate", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.BackupCodes, nil
}
