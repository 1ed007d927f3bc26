package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/authguard/internal/authguard/domain"
	"github.com/aussiebroadwan/authguard/internal/authguard/metrics"
	"github.com/aussiebroadwan/authguard/internal/authguard/store"
	"github.com/aussiebroadwan/authguard/pkg/cryptox"
	"github.com/aussiebroadwan/authguard/pkg/otpx"
	"github.com/aussiebroadwan/authguard/pkg/slogx"
)

// MFA change actions recorded in metrics.
const (
	actionSetup      = "setup"
	actionEnable     = "enable"
	actionDisable    = "disable"
	actionRegenerate = "regenerate"
)

// MFAService manages TOTP enrollment and the backup code set of a user.
type MFAService struct {
	Store       store.Store
	TOTP        *otpx.TOTP
	BackupCodes *otpx.BackupCodes
	Hasher      *cryptox.Hasher
	Metrics     *metrics.Metrics
}

// SetupMFA issues a pending TOTP secret and a fresh set of backup codes.
// MFA stays off until EnableMFA confirms a code. Calling it again while
// pending replaces the pending secret and codes.
func (s *MFAService) SetupMFA(ctx context.Context, userID int64) (domain.MFASetup, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return domain.MFASetup{}, err
	}
	if user.MFAEnabled {
		return domain.MFASetup{}, ErrMFAAlreadyEnabled
	}

	secret, err := s.TOTP.GenerateSecret()
	if err != nil {
		return domain.MFASetup{}, err
	}
	uri, err := s.TOTP.ProvisioningURI(secret, user.Email, "")
	if err != nil {
		return domain.MFASetup{}, err
	}
	qr, err := s.TOTP.QRCode(uri)
	if err != nil {
		return domain.MFASetup{}, err
	}

	codes, digests, err := s.newBackupCodes(ctx)
	if err != nil {
		return domain.MFASetup{}, err
	}

	// A concurrent enable must not have its secret swapped out.
	notEnabled := false
	err = s.Store.Users().UpdateUser(ctx, userID, store.UserPatch{
		MFASecret:      &secret,
		MFABackupCodes: &digests,
		IfMFAEnabled:   &notEnabled,
	})
	switch {
	case errors.Is(err, store.ErrConflict):
		return domain.MFASetup{}, ErrMFAAlreadyEnabled
	case err != nil:
		return domain.MFASetup{}, fmt.Errorf("failed to store mfa setup: %w", mapUserErr(err))
	}

	s.Metrics.MFAChange(actionSetup)
	slogx.FromContext(ctx).Info("mfa setup started", slog.Int64("user_id", userID))

	return domain.MFASetup{
		Secret:      secret,
		OTPAuthURL:  uri,
		QRCode:      qr,
		BackupCodes: codes,
	}, nil
}

// EnableMFA confirms a pending enrollment with a code from the
// authenticator app.
func (s *MFAService) EnableMFA(ctx context.Context, userID int64, code string) error {
	user, err := s.loadUser(ctx, userID, store.FieldMFASecret)
	if err != nil {
		return err
	}
	if user.MFAEnabled {
		return ErrMFAAlreadyEnabled
	}
	if !user.HasMFASecret() {
		return ErrSetupNotInitiated
	}
	if !s.TOTP.Verify(*user.MFASecret, code) {
		slogx.FromContext(ctx).Warn("mfa enable rejected code", slog.Int64("user_id", userID))
		return ErrInvalidCode
	}

	// Only the secret the code was checked against may be enabled. A setup
	// that replaced it in the meantime makes the code stale.
	enabled, notEnabled := true, false
	err = s.Store.Users().UpdateUser(ctx, userID, store.UserPatch{
		MFAEnabled:   &enabled,
		IfMFAEnabled: &notEnabled,
		IfMFASecret:  user.MFASecret,
	})
	switch {
	case errors.Is(err, store.ErrConflict):
		slogx.FromContext(ctx).Warn("mfa enable lost against a concurrent change", slog.Int64("user_id", userID))
		return ErrInvalidCode
	case err != nil:
		return fmt.Errorf("failed to enable mfa: %w", mapUserErr(err))
	}

	s.Metrics.MFAChange(actionEnable)
	slogx.FromContext(ctx).Info("mfa enabled", slog.Int64("user_id", userID))
	return nil
}

// DisableMFA needs both the account password and a current TOTP code.
// On success the secret and every backup code are dropped.
func (s *MFAService) DisableMFA(ctx context.Context, userID int64, code, password string) error {
	l := slogx.FromContext(ctx)

	user, err := s.loadUser(ctx, userID, store.FieldPasswordHash, store.FieldMFASecret)
	if err != nil {
		return err
	}
	if !user.MFAEnabled || !user.HasMFASecret() {
		return ErrMFANotEnabled
	}
	if !user.HasPassword() {
		return ErrNoPasswordSet
	}
	if !s.Hasher.Compare(password, *user.PasswordHash) {
		l.Warn("mfa disable rejected password", slog.Int64("user_id", userID))
		return ErrInvalidCredentials
	}
	if !s.TOTP.Verify(*user.MFASecret, code) {
		l.Warn("mfa disable rejected code", slog.Int64("user_id", userID))
		return ErrInvalidCode
	}

	disabled, enabled, none := false, true, ""
	err = s.Store.Users().UpdateUser(ctx, userID, store.UserPatch{
		MFAEnabled:     &disabled,
		MFASecret:      &none,
		MFABackupCodes: &[]string{},
		IfMFAEnabled:   &enabled,
		IfMFASecret:    user.MFASecret,
	})
	switch {
	case errors.Is(err, store.ErrConflict):
		return ErrMFANotEnabled
	case err != nil:
		return fmt.Errorf("failed to disable mfa: %w", mapUserErr(err))
	}

	s.Metrics.MFAChange(actionDisable)
	l.Info("mfa disabled", slog.Int64("user_id", userID))
	return nil
}

// RegenerateBackupCodes replaces the whole backup code set. Old codes stop
// working immediately; the new plaintext codes are only returned here.
func (s *MFAService) RegenerateBackupCodes(ctx context.Context, userID int64, code string) ([]string, error) {
	user, err := s.loadUser(ctx, userID, store.FieldMFASecret)
	if err != nil {
		return nil, err
	}
	if !user.MFAEnabled || !user.HasMFASecret() {
		return nil, ErrMFANotEnabled
	}
	if !s.TOTP.Verify(*user.MFASecret, code) {
		slogx.FromContext(ctx).Warn("backup code regeneration rejected code", slog.Int64("user_id", userID))
		return nil, ErrInvalidCode
	}

	codes, digests, err := s.newBackupCodes(ctx)
	if err != nil {
		return nil, err
	}
	// MFA may have been disabled since the code was checked; codes must not
	// outlive it.
	enabled := true
	err = s.Store.Users().UpdateUser(ctx, userID, store.UserPatch{
		MFABackupCodes: &digests,
		IfMFAEnabled:   &enabled,
		IfMFASecret:    user.MFASecret,
	})
	switch {
	case errors.Is(err, store.ErrConflict):
		return nil, ErrMFANotEnabled
	case err != nil:
		return nil, fmt.Errorf("failed to store backup codes: %w", mapUserErr(err))
	}

	s.Metrics.MFAChange(actionRegenerate)
	slogx.FromContext(ctx).Info("backup codes regenerated", slog.Int64("user_id", userID))
	return codes, nil
}

// Status reports the enrollment state and how many backup codes are left.
func (s *MFAService) Status(ctx context.Context, userID int64) (domain.MFAStatus, error) {
	user, err := s.loadUser(ctx, userID, store.FieldMFASecret, store.FieldMFABackupCodes)
	if err != nil {
		return domain.MFAStatus{}, err
	}
	return domain.MFAStatus{
		Enabled:              user.MFAEnabled,
		Pending:              !user.MFAEnabled && user.HasMFASecret(),
		BackupCodesRemaining: len(user.MFABackupCodes),
	}, nil
}

// BackupCodesRemaining returns the number of unused backup codes.
func (s *MFAService) BackupCodesRemaining(ctx context.Context, userID int64) (int, error) {
	st, err := s.Status(ctx, userID)
	if err != nil {
		return 0, err
	}
	return st.BackupCodesRemaining, nil
}

// VerifyForLogin checks the second factor of an MFA-pending login. user must
// carry its MFA secret and backup codes. TOTP is tried first; a matching
// backup code is removed with a conditional write, and a write that lost
// against a concurrent login fails as an invalid code.
func (s *MFAService) VerifyForLogin(ctx context.Context, user domain.User, code string) error {
	l := slogx.FromContext(ctx)

	if !user.MFAEnabled || !user.HasMFASecret() {
		return ErrMFANotEnabled
	}

	if s.TOTP.Verify(*user.MFASecret, code) {
		s.Metrics.MFAVerification(metrics.MethodTOTP, metrics.ResultSuccess)
		return nil
	}

	matched, remaining := s.BackupCodes.Consume(code, user.MFABackupCodes)
	if !matched {
		s.Metrics.MFAVerification(metrics.MethodNone, metrics.ResultFailure)
		l.Warn("invalid mfa code")
		return ErrInvalidMFACode
	}

	if err := s.Store.Users().SwapBackupCodes(ctx, user.ID, user.MFABackupCodes, remaining); err != nil {
		if errors.Is(err, store.ErrConflict) {
			s.Metrics.MFAVerification(metrics.MethodBackupCode, metrics.ResultFailure)
			l.Warn("backup code already consumed concurrently")
			return ErrInvalidMFACode
		}
		return fmt.Errorf("failed to consume backup code: %w", mapUserErr(err))
	}

	s.Metrics.MFAVerification(metrics.MethodBackupCode, metrics.ResultSuccess)
	l.Info("backup code used", slog.Int("backup_codes_remaining", len(remaining)))
	return nil
}

func (s *MFAService) loadUser(ctx context.Context, userID int64, fields ...store.Field) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID, fields...)
	if err != nil {
		return domain.User{}, mapUserErr(err)
	}
	return user, nil
}

func (s *MFAService) newBackupCodes(ctx context.Context) (codes, digests []string, err error) {
	codes, err = s.BackupCodes.Generate(otpx.DefaultBackupCodeCount)
	if err != nil {
		return nil, nil, err
	}
	digests, err = s.BackupCodes.HashAll(ctx, codes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash backup codes: %w", err)
	}
	return codes, digests, nil
}

func mapUserErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
