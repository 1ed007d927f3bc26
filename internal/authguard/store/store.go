package store

import (
	"context"
	"errors"
	"slices"

	"github.com/aussiebroadwan/authguard/internal/authguard/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict reports a conditional write that lost against a concurrent
	// change.
	ErrConflict = errors.New("store: conflicting update")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Repositories are reached through methods so a transaction
// can hand out the same repositories bound to itself.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. Nested
	// transactions are not supported.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is the transaction-scoped view handed to WithTx callbacks.
type Tx interface {
	Users() Users
}

// Field names a sensitive user column. Reads leave these blank unless asked
// for, so credentials are only loaded by the code paths that check them.
type Field string

const (
	FieldPasswordHash   Field = "password_hash"
	FieldMFASecret      Field = "mfa_secret"
	FieldMFABackupCodes Field = "mfa_backup_codes"
)

// UserPatch is a partial update. Nil fields are left untouched; an empty
// MFASecret or MFABackupCodes clears the column.
type UserPatch struct {
	Name           *string
	PasswordHash   *string
	MFAEnabled     *bool
	MFASecret      *string
	MFABackupCodes *[]string

	// Preconditions. When set, the update only applies while the stored
	// value still equals them, otherwise UpdateUser fails with ErrConflict.
	// An empty IfMFASecret expects no secret.
	IfMFAEnabled *bool
	IfMFASecret  *string
}

// Conditional reports whether the patch carries preconditions.
func (p UserPatch) Conditional() bool {
	return p.IfMFAEnabled != nil || p.IfMFASecret != nil
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.PasswordHash == nil && p.MFAEnabled == nil &&
		p.MFASecret == nil && p.MFABackupCodes == nil
}

type Users interface {
	// GetUserByID returns a user by id with the requested sensitive fields.
	GetUserByID(ctx context.Context, id int64, fields ...Field) (domain.User, error)

	// GetUserByEmail looks up the login identifier (already normalised).
	GetUserByEmail(ctx context.Context, email string, fields ...Field) (domain.User, error)

	// CreateUser inserts a user and returns its id. A taken email yields
	// ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) (int64, error)

	// UpdateUser applies patch and bumps updated_at. A patch whose
	// preconditions no longer hold yields ErrConflict.
	UpdateUser(ctx context.Context, id int64, patch UserPatch) error

	// SwapBackupCodes replaces the stored backup codes with next only if
	// they still equal prev, otherwise ErrConflict.
	SwapBackupCodes(ctx context.Context, id int64, prev, next []string) error

	// CountUsers returns the number of users.
	CountUsers(ctx context.Context) (int, error)
}

// Project blanks every sensitive field of u that is not listed in fields.
// Drivers call it on every read.
func Project(u domain.User, fields ...Field) domain.User {
	if !slices.Contains(fields, FieldPasswordHash) {
		u.PasswordHash = nil
	}
	if !slices.Contains(fields, FieldMFASecret) {
		u.MFASecret = nil
	}
	if !slices.Contains(fields, FieldMFABackupCodes) {
		u.MFABackupCodes = nil
	}
	return u
}
