package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/authguard/internal/authguard/domain"
	"github.com/aussiebroadwan/authguard/internal/authguard/store"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, name, password_hash, mfa_enabled, mfa_secret, mfa_backup_codes, created_at, updated_at`

type usersRepo struct {
	db Querier
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64, fields ...store.Field) (domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return store.Project(u, fields...), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string, fields ...store.Field) (domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return store.Project(u, fields...), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	const q = `
INSERT INTO users (email, name, password_hash, mfa_enabled, mfa_secret, mfa_backup_codes)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, q,
		u.Email,
		u.Name,
		nullable(u.PasswordHash),
		u.MFAEnabled,
		nullable(u.MFASecret),
		codesParam(u.MFABackupCodes),
	).Scan(&id)
	if err != nil {
		return 0, mapUniqueViolation(err)
	}
	return id, nil
}

func (r *usersRepo) UpdateUser(ctx context.Context, id int64, patch store.UserPatch) error {
	sets := []string{"updated_at = now()"}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.PasswordHash != nil {
		add("password_hash", nullable(patch.PasswordHash))
	}
	if patch.MFAEnabled != nil {
		add("mfa_enabled", *patch.MFAEnabled)
	}
	if patch.MFASecret != nil {
		add("mfa_secret", nullable(patch.MFASecret))
	}
	if patch.MFABackupCodes != nil {
		add("mfa_backup_codes", codesParam(*patch.MFABackupCodes))
	}

	args = append(args, id)
	where := []string{fmt.Sprintf("id = $%d", len(args))}
	if patch.IfMFAEnabled != nil {
		args = append(args, *patch.IfMFAEnabled)
		where = append(where, fmt.Sprintf("mfa_enabled = $%d", len(args)))
	}
	if patch.IfMFASecret != nil {
		args = append(args, nullable(patch.IfMFASecret))
		where = append(where, fmt.Sprintf("mfa_secret IS NOT DISTINCT FROM $%d::text", len(args)))
	}

	q := fmt.Sprintf(`UPDATE users SET %s WHERE %s`, strings.Join(sets, ", "), strings.Join(where, " AND "))
	tag, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("postgres: update user: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if !patch.Conditional() {
		return store.ErrNotFound
	}
	return r.conflictOrNotFound(ctx, id)
}

func (r *usersRepo) SwapBackupCodes(ctx context.Context, id int64, prev, next []string) error {
	const q = `
UPDATE users SET mfa_backup_codes = $1, updated_at = now()
WHERE id = $2 AND mfa_backup_codes IS NOT DISTINCT FROM $3::text[]`

	tag, err := r.db.Exec(ctx, q, codesParam(next), id, codesParam(prev))
	if err != nil {
		return fmt.Errorf("postgres: swap backup codes: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	return r.conflictOrNotFound(ctx, id)
}

// conflictOrNotFound tells a missing user apart from a conditional write
// that matched nothing.
func (r *usersRepo) conflictOrNotFound(ctx context.Context, id int64) error {
	var one int
	if err := r.db.QueryRow(ctx, `SELECT 1 FROM users WHERE id = $1`, id).Scan(&one); err != nil {
		return mapNotFound(err)
	}
	return store.ErrConflict
}

func (r *usersRepo) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.MFAEnabled,
		&u.MFASecret,
		&u.MFABackupCodes,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, err
		}
		return domain.User{}, fmt.Errorf("postgres: scan user: %w", err)
	}
	return u, nil
}
