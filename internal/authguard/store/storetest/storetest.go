// Package storetest is a conformance suite every store driver must pass.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/aussiebroadwan/authguard/internal/authguard/domain"
	"github.com/aussiebroadwan/authguard/internal/authguard/store"
	"github.com/stretchr/testify/require"
)

var seq atomic.Int64

// uniqueEmail keeps subtests independent on a shared database.
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, seq.Add(1))
}

func ptr[T any](v T) *T { return &v }

// Run exercises st. The store must already be migrated.
func Run(t *testing.T, st store.Store) {
	t.Helper()

	t.Run("CreateAndGet", func(t *testing.T) { testCreateAndGet(t, st) })
	t.Run("DuplicateEmail", func(t *testing.T) { testDuplicateEmail(t, st) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, st) })
	t.Run("UpdateUser", func(t *testing.T) { testUpdateUser(t, st) })
	t.Run("ConditionalUpdate", func(t *testing.T) { testConditionalUpdate(t, st) })
	t.Run("SwapBackupCodes", func(t *testing.T) { testSwapBackupCodes(t, st) })
	t.Run("WithTx", func(t *testing.T) { testWithTx(t, st) })
	t.Run("CountUsers", func(t *testing.T) { testCountUsers(t, st) })
	t.Run("Ping", func(t *testing.T) { require.NoError(t, st.Ping(context.Background())) })
}

func testCreateAndGet(t *testing.T, st store.Store) {
	ctx := context.Background()
	email := uniqueEmail("create")

	id, err := st.Users().CreateUser(ctx, domain.User{
		Email:        email,
		Name:         "Alice",
		PasswordHash: ptr("digest"),
	})
	require.NoError(t, err)
	require.Positive(t, id)

	u, err := st.Users().GetUserByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, u.ID)
	require.Equal(t, email, u.Email)
	require.Equal(t, "Alice", u.Name)
	require.False(t, u.MFAEnabled)
	require.Nil(t, u.PasswordHash, "sensitive fields are not loaded by default")
	require.False(t, u.CreatedAt.IsZero())
	require.False(t, u.UpdatedAt.IsZero())

	u, err = st.Users().GetUserByEmail(ctx, email, store.FieldPasswordHash)
	require.NoError(t, err)
	require.Equal(t, id, u.ID)
	require.NotNil(t, u.PasswordHash)
	require.Equal(t, "digest", *u.PasswordHash)
	require.Nil(t, u.MFASecret)

	noPassword, err := st.Users().CreateUser(ctx, domain.User{Email: uniqueEmail("oauth"), Name: "OAuth"})
	require.NoError(t, err)
	u, err = st.Users().GetUserByID(ctx, noPassword, store.FieldPasswordHash)
	require.NoError(t, err)
	require.Nil(t, u.PasswordHash)
}

func testDuplicateEmail(t *testing.T, st store.Store) {
	ctx := context.Background()
	email := uniqueEmail("dup")

	_, err := st.Users().CreateUser(ctx, domain.User{Email: email, Name: "First"})
	require.NoError(t, err)

	_, err = st.Users().CreateUser(ctx, domain.User{Email: email, Name: "Second"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func testNotFound(t *testing.T, st store.Store) {
	ctx := context.Background()

	_, err := st.Users().GetUserByID(ctx, 1<<40)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Users().GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	err = st.Users().UpdateUser(ctx, 1<<40, store.UserPatch{Name: ptr("x")})
	require.ErrorIs(t, err, store.ErrNotFound)

	err = st.Users().SwapBackupCodes(ctx, 1<<40, nil, []string{"a"})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testUpdateUser(t *testing.T, st store.Store) {
	ctx := context.Background()
	all := []store.Field{store.FieldPasswordHash, store.FieldMFASecret, store.FieldMFABackupCodes}

	id, err := st.Users().CreateUser(ctx, domain.User{Email: uniqueEmail("update"), Name: "Bob", PasswordHash: ptr("h1")})
	require.NoError(t, err)

	// Pending enrollment: secret and codes, not enabled.
	codes := []string{"$argon2id$v=19$m=1,t=1,p=1$a$b", "$argon2id$v=19$m=1,t=1,p=1$c$d"}
	require.NoError(t, st.Users().UpdateUser(ctx, id, store.UserPatch{
		MFASecret:      ptr("JBSWY3DPEHPK3PXP"),
		MFABackupCodes: &codes,
	}))

	u, err := st.Users().GetUserByID(ctx, id, all...)
	require.NoError(t, err)
	require.False(t, u.MFAEnabled)
	require.Equal(t, "JBSWY3DPEHPK3PXP", *u.MFASecret)
	require.Equal(t, codes, u.MFABackupCodes)
	require.Equal(t, "h1", *u.PasswordHash, "untouched fields keep their value")

	require.NoError(t, st.Users().UpdateUser(ctx, id, store.UserPatch{MFAEnabled: ptr(true)}))
	u, err = st.Users().GetUserByID(ctx, id)
	require.NoError(t, err)
	require.True(t, u.MFAEnabled)

	// Disable clears everything at once.
	require.NoError(t, st.Users().UpdateUser(ctx, id, store.UserPatch{
		MFAEnabled:     ptr(false),
		MFASecret:      ptr(""),
		MFABackupCodes: &[]string{},
	}))
	u, err = st.Users().GetUserByID(ctx, id, all...)
	require.NoError(t, err)
	require.False(t, u.MFAEnabled)
	require.Nil(t, u.MFASecret)
	require.Empty(t, u.MFABackupCodes)

	require.NoError(t, st.Users().UpdateUser(ctx, id, store.UserPatch{Name: ptr("Robert")}))
	u, err = st.Users().GetUserByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Robert", u.Name)
}

func testConditionalUpdate(t *testing.T, st store.Store) {
	ctx := context.Background()
	users := st.Users()

	id, err := users.CreateUser(ctx, domain.User{Email: uniqueEmail("cond"), Name: "Dana", PasswordHash: ptr("h1")})
	require.NoError(t, err)

	// No secret yet: an empty expectation matches, a concrete one does not.
	require.ErrorIs(t, users.UpdateUser(ctx, id, store.UserPatch{
		MFAEnabled:  ptr(true),
		IfMFASecret: ptr("JBSWY3DPEHPK3PXP"),
	}), store.ErrConflict)
	require.NoError(t, users.UpdateUser(ctx, id, store.UserPatch{
		MFASecret:    ptr("JBSWY3DPEHPK3PXP"),
		IfMFAEnabled: ptr(false),
		IfMFASecret:  ptr(""),
	}))

	// The secret was replaced after it was read.
	require.NoError(t, users.UpdateUser(ctx, id, store.UserPatch{MFASecret: ptr("KRSXG5CTMVRXEZLU")}))
	require.ErrorIs(t, users.UpdateUser(ctx, id, store.UserPatch{
		MFAEnabled:   ptr(true),
		IfMFAEnabled: ptr(false),
		IfMFASecret:  ptr("JBSWY3DPEHPK3PXP"),
	}), store.ErrConflict)

	u, err := users.GetUserByID(ctx, id, store.FieldMFASecret)
	require.NoError(t, err)
	require.False(t, u.MFAEnabled, "a failed precondition changes nothing")
	require.Equal(t, "KRSXG5CTMVRXEZLU", *u.MFASecret)

	require.NoError(t, users.UpdateUser(ctx, id, store.UserPatch{
		MFAEnabled:   ptr(true),
		IfMFAEnabled: ptr(false),
		IfMFASecret:  ptr("KRSXG5CTMVRXEZLU"),
	}))
	require.ErrorIs(t, users.UpdateUser(ctx, id, store.UserPatch{
		MFABackupCodes: &[]string{"x"},
		IfMFAEnabled:   ptr(false),
	}), store.ErrConflict)

	err = users.UpdateUser(ctx, 987654321, store.UserPatch{Name: ptr("x"), IfMFAEnabled: ptr(true)})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testSwapBackupCodes(t *testing.T, st store.Store) {
	ctx := context.Background()

	codes := []string{"one", "two", "three"}
	id, err := st.Users().CreateUser(ctx, domain.User{
		Email:          uniqueEmail("swap"),
		Name:           "Carol",
		MFASecret:      ptr("JBSWY3DPEHPK3PXP"),
		MFAEnabled:     true,
		MFABackupCodes: codes,
	})
	require.NoError(t, err)

	require.NoError(t, st.Users().SwapBackupCodes(ctx, id, codes, []string{"one", "three"}))

	// The same stale list loses.
	err = st.Users().SwapBackupCodes(ctx, id, codes, []string{"two", "three"})
	require.ErrorIs(t, err, store.ErrConflict)

	u, err := st.Users().GetUserByID(ctx, id, store.FieldMFABackupCodes)
	require.NoError(t, err)
	require.Equal(t, []string{"one", "three"}, u.MFABackupCodes)

	// Down to nothing, then nothing is the expected state.
	require.NoError(t, st.Users().SwapBackupCodes(ctx, id, []string{"one", "three"}, []string{"three"}))
	require.NoError(t, st.Users().SwapBackupCodes(ctx, id, []string{"three"}, nil))
	require.ErrorIs(t, st.Users().SwapBackupCodes(ctx, id, []string{"three"}, nil), store.ErrConflict)
	require.NoError(t, st.Users().SwapBackupCodes(ctx, id, nil, []string{"fresh"}))
}

func testWithTx(t *testing.T, st store.Store) {
	ctx := context.Background()
	errBoom := errors.New("boom")

	rolledBack := uniqueEmail("rollback")
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().CreateUser(ctx, domain.User{Email: rolledBack, Name: "R"}); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)
	_, err = st.Users().GetUserByEmail(ctx, rolledBack)
	require.ErrorIs(t, err, store.ErrNotFound)

	committed := uniqueEmail("commit")
	err = st.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByEmail(ctx, committed); !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("expected not found, got %v", err)
		}
		_, err := tx.Users().CreateUser(ctx, domain.User{Email: committed, Name: "C"})
		return err
	})
	require.NoError(t, err)
	_, err = st.Users().GetUserByEmail(ctx, committed)
	require.NoError(t, err)
}

func testCountUsers(t *testing.T, st store.Store) {
	ctx := context.Background()

	before, err := st.Users().CountUsers(ctx)
	require.NoError(t, err)

	_, err = st.Users().CreateUser(ctx, domain.User{Email: uniqueEmail("count"), Name: "N"})
	require.NoError(t, err)

	after, err := st.Users().CountUsers(ctx)
	require.NoError(t, err)
	require.Equal(t, before+1, after)
}
