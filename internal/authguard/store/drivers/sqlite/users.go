package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/authguard/internal/authguard/domain"
	"github.com/aussiebroadwan/authguard/internal/authguard/store"
)

const userColumns = `id, email, name, password_hash, mfa_enabled, mfa_secret, mfa_backup_codes, created_at, updated_at`

type usersRepo struct {
	db DBTX
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64, fields ...store.Field) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return store.Project(u, fields...), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string, fields ...store.Field) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return store.Project(u, fields...), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	codes, err := encodeCodes(u.MFABackupCodes)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (email, name, password_hash, mfa_enabled, mfa_secret, mfa_backup_codes, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Email,
		u.Name,
		mapOptionalString(u.PasswordHash),
		u.MFAEnabled,
		mapOptionalString(u.MFASecret),
		codes,
		now,
		now,
	)
	if err != nil {
		return 0, mapUniqueViolation(err)
	}
	return res.LastInsertId()
}

func (r *usersRepo) UpdateUser(ctx context.Context, id int64, patch store.UserPatch) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, mapOptionalString(patch.PasswordHash))
	}
	if patch.MFAEnabled != nil {
		sets = append(sets, "mfa_enabled = ?")
		args = append(args, *patch.MFAEnabled)
	}
	if patch.MFASecret != nil {
		sets = append(sets, "mfa_secret = ?")
		args = append(args, mapOptionalString(patch.MFASecret))
	}
	if patch.MFABackupCodes != nil {
		codes, err := encodeCodes(*patch.MFABackupCodes)
		if err != nil {
			return err
		}
		sets = append(sets, "mfa_backup_codes = ?")
		args = append(args, codes)
	}

	where := []string{"id = ?"}
	args = append(args, id)
	if patch.IfMFAEnabled != nil {
		where = append(where, "mfa_enabled = ?")
		args = append(args, *patch.IfMFAEnabled)
	}
	if patch.IfMFASecret != nil {
		where = append(where, "mfa_secret IS ?")
		args = append(args, mapOptionalString(patch.IfMFASecret))
	}

	q := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE ` + strings.Join(where, " AND ")
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("sqlite: update user: %w", err)
	}

	err = requireAffected(res)
	if !errors.Is(err, store.ErrNotFound) || !patch.Conditional() {
		return err
	}
	return r.conflictOrNotFound(ctx, id)
}

func (r *usersRepo) SwapBackupCodes(ctx context.Context, id int64, prev, next []string) error {
	prevCodes, err := encodeCodes(prev)
	if err != nil {
		return err
	}
	nextCodes, err := encodeCodes(next)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE users SET mfa_backup_codes = ?, updated_at = ?
WHERE id = ? AND mfa_backup_codes IS ?`,
		nextCodes, time.Now().UTC(), id, prevCodes,
	)
	if err != nil {
		return fmt.Errorf("sqlite: swap backup codes: %w", err)
	}

	err = requireAffected(res)
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return r.conflictOrNotFound(ctx, id)
}

// conflictOrNotFound tells a missing user apart from a conditional write
// that matched nothing.
func (r *usersRepo) conflictOrNotFound(ctx context.Context, id int64) error {
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, id).Scan(&one); err != nil {
		return mapNotFound(err)
	}
	return store.ErrConflict
}

func (r *usersRepo) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u                    domain.User
		passwordHash, secret sql.NullString
		codes                sql.NullString
	)
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&passwordHash,
		&u.MFAEnabled,
		&secret,
		&codes,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}

	u.PasswordHash = mapNullStringPtr(passwordHash)
	u.MFASecret = mapNullStringPtr(secret)
	if u.MFABackupCodes, err = decodeCodes(codes); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
