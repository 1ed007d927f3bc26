package service_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/authguard/internal/authguard/service"
	"github.com/aussiebroadwan/authguard/internal/authguard/store"
	"github.com/stretchr/testify/require"
)

// interleavedStore runs before once, right ahead of the next UpdateUser, to
// stand in for a request that lands between a check and its write.
type interleavedStore struct {
	store.Store
	before func()
}

func (s *interleavedStore) Users() store.Users {
	return &interleavedUsers{Users: s.Store.Users(), s: s}
}

type interleavedUsers struct {
	store.Users
	s *interleavedStore
}

func (u *interleavedUsers) UpdateUser(ctx context.Context, id int64, patch store.UserPatch) error {
	if fn := u.s.before; fn != nil {
		u.s.before = nil
		fn()
	}
	return u.Users.UpdateUser(ctx, id, patch)
}

func (f *fixture) interleave(t *testing.T, fn func()) {
	t.Helper()
	f.mfa.Store = &interleavedStore{Store: f.store, before: fn}
	t.Cleanup(func() { f.mfa.Store = f.store })
}

func TestEnableMFASecretReplacedConcurrently(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	res := f.register(t, "rita@example.com")

	first, err := f.mfa.SetupMFA(ctx, res.User.ID)
	require.NoError(t, err)

	var second string
	f.interleave(t, func() {
		setup, err := f.mfa.SetupMFA(ctx, res.User.ID)
		require.NoError(t, err)
		second = setup.Secret
	})

	err = f.mfa.EnableMFA(ctx, res.User.ID, f.code(t, first.Secret))
	require.ErrorIs(t, err, service.ErrInvalidCode)
	require.NotEmpty(t, second)

	status, err := f.mfa.Status(ctx, res.User.ID)
	require.NoError(t, err)
	require.False(t, status.Enabled, "mfa must not be enabled on a secret that was never confirmed")
	require.True(t, status.Pending)

	require.NoError(t, f.mfa.EnableMFA(ctx, res.User.ID, f.code(t, second)))
}

func TestRegenerateBackupCodesAfterConcurrentDisable(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	id, secret, _ := f.enrolled(t, "sam@example.com")

	f.interleave(t, func() {
		require.NoError(t, f.mfa.DisableMFA(ctx, id, f.code(t, secret), "pw123456"))
	})

	codes, err := f.mfa.RegenerateBackupCodes(ctx, id, f.code(t, secret))
	require.ErrorIs(t, err, service.ErrMFANotEnabled)
	require.Nil(t, codes)

	u, err := f.store.Users().GetUserByID(ctx, id, store.FieldMFASecret, store.FieldMFABackupCodes)
	require.NoError(t, err)
	require.False(t, u.MFAEnabled)
	require.Nil(t, u.MFASecret)
	require.Empty(t, u.MFABackupCodes, "no backup codes may be left on an account without mfa")
}

func TestSetupMFAAfterConcurrentEnable(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	res := f.register(t, "tess@example.com")

	pending, err := f.mfa.SetupMFA(ctx, res.User.ID)
	require.NoError(t, err)

	f.interleave(t, func() {
		require.NoError(t, f.mfa.EnableMFA(ctx, res.User.ID, f.code(t, pending.Secret)))
	})

	_, err = f.mfa.SetupMFA(ctx, res.User.ID)
	require.ErrorIs(t, err, service.ErrMFAAlreadyEnabled)

	u, err := f.store.Users().GetUserByID(ctx, res.User.ID, store.FieldMFASecret)
	require.NoError(t, err)
	require.True(t, u.MFAEnabled)
	require.Equal(t, pending.Secret, *u.MFASecret, "the enabled secret is kept")
}
