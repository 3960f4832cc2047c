package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/korzhan/resource-tracker/internal/model"
	"github.com/korzhan/resource-tracker/internal/utils"
)

// Lockout policy applied by the store: after maxFailedLogins consecutive
// password failures the account is locked for lockoutWindow.
const (
	maxFailedLogins = 5
	lockoutWindow   = 15 * time.Minute
)

// AccountRepo is the credential store. It owns every read and write against
// the accounts, roles and account_roles tables; nothing else in the process
// touches identity state.
type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{db: db} }

const accountColumns = `id, email, password_hash, title, first_name, last_name,
	phone_number, address, zip_code, two_factor_enabled,
	COALESCE(totp_secret, ''), failed_logins, locked_until, created_at, updated_at`

func scanAccount(row *sql.Row) (model.Account, error) {
	var a model.Account
	var locked sql.NullTime
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Title, &a.FirstName,
		&a.LastName, &a.PhoneNumber, &a.Address, &a.ZipCode, &a.TwoFactorEnabled,
		&a.TOTPSecret, &a.FailedLogins, &locked, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrNotFound
	}
	if err != nil {
		return model.Account{}, err
	}
	if locked.Valid {
		a.LockedUntil = &locked.Time
	}
	return a, nil
}

// Create inserts an account with a hashed password and one role-membership
// row, in a single transaction. It returns the new account id, or
// ErrEmailExists when the normalized email is already taken.
func (r *AccountRepo) Create(ctx context.Context, acc model.Account, password, role string, cost int) (uint64, error) {
	email := strings.ToLower(strings.TrimSpace(acc.Email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO accounts (email, password_hash, title, first_name, last_name,
			phone_number, address, zip_code) VALUES (?,?,?,?,?,?,?,?)`,
		email, hash, acc.Title, acc.FirstName, acc.LastName,
		acc.PhoneNumber, acc.Address, acc.ZipCode)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO account_roles (account_id, role_id) SELECT ?, id FROM roles WHERE name=?",
		id, role); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches an account by normalized email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE email=? LIMIT 1", email)
	return scanAccount(row)
}

// GetByID fetches an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (model.Account, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id=? LIMIT 1", id)
	return scanAccount(row)
}

// Roles returns the account's current role names, ordered for stable token
// claims.
func (r *AccountRepo) Roles(ctx context.Context, accountID uint64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.name FROM account_roles ar
		 JOIN roles r ON r.id = ar.role_id
		 WHERE ar.account_id=? ORDER BY r.id`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// UpdateProfile overwrites the mutable profile fields. Last write wins; no
// optimistic-concurrency token is used.
func (r *AccountRepo) UpdateProfile(ctx context.Context, id uint64, acc model.Account) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET title=?, first_name=?, last_name=?, phone_number=?,
			address=?, zip_code=? WHERE id=?`,
		acc.Title, acc.FirstName, acc.LastName, acc.PhoneNumber,
		acc.Address, acc.ZipCode, id)
	return err
}

// UpdatePasswordHash atomically replaces the stored password hash.
func (r *AccountRepo) UpdatePasswordHash(ctx context.Context, id uint64, hash string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE accounts SET password_hash=? WHERE id=?", hash, id)
	return err
}

// SetTwoFactorEnabled flips the 2FA flag.
func (r *AccountRepo) SetTwoFactorEnabled(ctx context.Context, id uint64, enabled bool) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE accounts SET two_factor_enabled=? WHERE id=?", enabled, id)
	return err
}

// GetTOTPSecret returns the stored TOTP secret, empty when not enrolled.
func (r *AccountRepo) GetTOTPSecret(ctx context.Context, id uint64) (string, error) {
	var secret string
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(totp_secret, '') FROM accounts WHERE id=? LIMIT 1", id).Scan(&secret)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return secret, err
}

// SetTOTPSecret stores a newly generated secret.
func (r *AccountRepo) SetTOTPSecret(ctx context.Context, id uint64, secret string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE accounts SET totp_secret=? WHERE id=?", secret, id)
	return err
}

// RecordLoginFailure bumps the failed-login counter and, once the limit is
// reached, sets locked_until so the lockout predicate holds.
func (r *AccountRepo) RecordLoginFailure(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET failed_logins = failed_logins + 1,
			locked_until = IF(failed_logins + 1 >= ?, DATE_ADD(NOW(), INTERVAL ? MINUTE), locked_until)
		 WHERE id=?`,
		maxFailedLogins, int(lockoutWindow.Minutes()), id)
	return err
}

// ClearLoginFailures resets the counter and lockout after a successful
// credential check.
func (r *AccountRepo) ClearLoginFailures(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE accounts SET failed_logins=0, locked_until=NULL WHERE id=?", id)
	return err
}
